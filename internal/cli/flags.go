package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
)

// byteSize is a flag value accepting human-readable sizes such as 10KB or 1.5MiB.
type byteSize uint64

var _ pflag.Value = (*byteSize)(nil)

func (b *byteSize) String() string {
	return humanize.IBytes(uint64(*b))
}

func (b *byteSize) Set(value string) error {
	size, err := humanize.ParseBytes(value)
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", value, err)
	}

	*b = byteSize(size)

	return nil
}

func (b *byteSize) Type() string {
	return "size"
}
