package cli

import (
	"fmt"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/diskusage/internal/dirstat"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// DefaultExcludes contains the default exclusion patterns of the ext command.
//
//nolint:gochecknoglobals // Config constant
var DefaultExcludes = []string{`.*\.git/.*`, `.*node_modules/.*`}

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"table", "json"}

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	debug      bool
}

func checkOutput(output string) error {
	if !slices.Contains(allowedOutputs, output) {
		return fmt.Errorf("invalid output format %q: must be one of %v", output, allowedOutputs)
	}

	return nil
}

// pathArg returns the first positional argument or the current directory.
func pathArg(args []string) string {
	if len(args) == 0 {
		return "."
	}

	return args[0]
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().Execute()
}

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	var global globalOptions

	root := &cobra.Command{
		Use:   "diskusage",
		Short: "Find what takes up space in a directory tree",
		Long: heredoc.Doc(`
			diskusage reports the size, file count and largest files and
			subdirectories of a directory tree.

			Directory sizes shown by 'ls --sizes' and by the web API are cached
			on disk and reused until the directory's modification time advances.
		`),
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&global.configPath, "config", "c", "", "Path to config file")
	root.PersistentFlags().BoolVar(&global.debug, "debug", false, "Enable debug output")

	root.AddCommand(
		dirCommand(&global),
		lsCommand(&global),
		extCommand(&global),
		serveCommand(&global),
		versionCommand(c.version),
	)

	return root
}

func dirCommand(global *globalOptions) *cobra.Command {
	var opts dirOptions

	cmd := &cobra.Command{
		Use:   "dir [path]",
		Short: "Report total size and the largest files and directories",
		Long: heredoc.Doc(`
			Walk the tree below path (default: current directory) and report
			its total size, its file count and its largest files and
			subdirectories. Symlinks are never followed.

			Directories that cannot be listed count as empty. An entry that is
			listed but cannot be stat'ed aborts the walk unless --lenient is set.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(opts.output); err != nil {
				return err
			}

			opts.path = pathArg(args)

			return runDir(cmd.Context(), global, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.files, "files", "f", 0, "Number of largest files to show (default from config)")
	cmd.Flags().IntVarP(&opts.dirs, "dirs", "d", 0, "Number of largest directories to show (default from config)")
	cmd.Flags().BoolVar(&opts.lenient, "lenient", false, "Skip entries that cannot be stat'ed instead of failing")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format: json or table")
	cmd.Flags().SortFlags = false

	return cmd
}

func lsCommand(global *globalOptions) *cobra.Command {
	var opts lsOptions

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List the immediate children of a directory",
		Long: heredoc.Doc(`
			List the files and subdirectories directly inside path.
			With --sizes, subdirectories are sized through the on-disk cache.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(opts.output); err != nil {
				return err
			}

			opts.path = pathArg(args)

			return runLs(cmd.Context(), global, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.sizes, "sizes", "s", false, "Compute directory sizes")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format: json or table")

	return cmd
}

func extCommand(global *globalOptions) *cobra.Command {
	var (
		opts    extOptions
		minSize byteSize
	)

	cmd := &cobra.Command{
		Use:   "ext [path]",
		Short: "Break a directory tree down by file extension",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(opts.output); err != nil {
				return err
			}

			opts.MinSize = uint64(minSize)
			opts.Path = pathArg(args)

			return runExt(cmd.Context(), global, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.TopN, "top", "t", dirstat.DefaultTopN, "Number of extensions to show")
	cmd.Flags().StringSliceVarP(&opts.Excludes, "exclude", "e", DefaultExcludes, "Regex patterns to exclude")
	cmd.Flags().Var(&minSize, "min-size", "Minimum file size (e.g., 1KB)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format: json or table")

	return cmd
}

func serveCommand(global *globalOptions) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the disk usage API over HTTP",
		Long: heredoc.Doc(`
			Serve the JSON API on the configured address (default 127.0.0.1:7621).

			  GET /api/dir?path=...&files_count=10&dirs_count=10
			  GET /api/ls?path=...&show_dir_size=true
			  GET /api/os_info
			  GET /metrics
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), global, address)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (overrides config)")

	return cmd
}

func versionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version)
		},
	}
}
