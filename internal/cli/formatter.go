package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/diskusage/internal/dirstat"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// PrintJSON outputs any report in JSON format.
func PrintJSON(v any, writer io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// percent returns part as a percentage of total, or 0 for an empty total.
func percent(part, total uint64) float64 {
	if total == 0 {
		return 0
	}

	return 100.0 * float64(part) / float64(total)
}

// relative shortens path for display by stripping the analyzed root.
func relative(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		path = rel
	}

	return filepath.ToSlash(path)
}

// printTop lists entries largest first, numbered from 1.
func printTop(w io.Writer, title, root string, entries []dirstat.FileStat, total uint64) {
	fmt.Fprintf(w, "\n%s\t\t\n", title)

	for i, e := range entries {
		fmt.Fprintf(w, "  %d) '%s'\t%s (%.1f%%)\n",
			i+1, relative(root, e.Path), humanize.IBytes(e.Size), percent(e.Size, total))
	}
}

// PrintTable outputs a Run report in human-readable table format.
func PrintTable(stats *dirstat.Stats, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	printTop(w, "Largest directories:", stats.Path, stats.TopDirs, stats.Size)
	printTop(w, "Largest files:", stats.Path, stats.TopFiles, stats.Size)

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Total files:\t%d\n", stats.FileCount)
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n", humanize.IBytes(stats.Size), stats.Size)
	fmt.Fprintf(w, "\nElapsed:\t%v\n", stats.Elapsed)

	return w.Flush()
}

// PrintListing outputs a directory listing in human-readable table format.
func PrintListing(listing *dirstat.Listing, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "\nDirectories:\t\t")

	for _, e := range listing.Directories {
		size := "-"
		if e.Size != nil {
			size = humanize.IBytes(*e.Size)
		}

		fmt.Fprintf(w, "  %s/\t%s\n", relative(listing.Path, e.Path), size)
	}

	fmt.Fprintln(w, "\nFiles:\t\t")

	for _, e := range listing.Files {
		fmt.Fprintf(w, "  %s\t%s\n", relative(listing.Path, e.Path), humanize.IBytes(*e.Size))
	}

	fmt.Fprintf(w, "\nTotal size:\t%s (%d bytes)\n", humanize.IBytes(listing.TotalSize), listing.TotalSize)

	return w.Flush()
}

// PrintExtensions outputs an extension breakdown in human-readable table format.
func PrintExtensions(report *dirstat.ExtReport, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "\nTop extensions:\t\t")

	for i, ext := range report.Extensions {
		name := ext.Ext
		if name == "" {
			name = "\"\""
		}

		fmt.Fprintf(w, "  %d) %s:\t%d files, %s (%.1f%%)\n",
			i+1, name, ext.Count, humanize.IBytes(ext.Size), percent(ext.Size, report.TotalBytes))
	}

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Total files:\t%d\n", report.FileCount)
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n", humanize.IBytes(report.TotalBytes), report.TotalBytes)

	if report.ErrorCount > 0 {
		fmt.Fprintf(w, "Errors:\t%d\n", report.ErrorCount)
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", report.Elapsed)

	return w.Flush()
}
