package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/metcalfc/bones/internal/outline"
	"github.com/metcalfc/bones/internal/spine"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type extractOptions struct {
	input      string
	jsonOutput string
	mdOutput   string
	engine     string
	verbose    bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "bones",
		Short: "Extract a structure-only outline from an EPUB",
		Long: `Bones maps the skeleton of an EPUB without exporting its text. It walks
the spine, records chapter and section titles, ordering, hrefs, word counts,
and stable content hashes, then writes the outline as JSON and Markdown.
Counts and hashes stand in for the prose itself.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExtract(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input",
		"content/source/sybex.epub", "path of the EPUB to outline")
	cmd.Flags().StringVar(&opts.jsonOutput, "json-output",
		"content/_source_outline/book_outline.json", "path of the JSON artifact")
	cmd.Flags().StringVar(&opts.mdOutput, "md-output",
		"content/_source_outline/book_outline.md", "path of the Markdown artifact")
	cmd.Flags().StringVar(&opts.engine, "engine",
		spine.EngineAuto, "spine engine: auto, goreader, or zip_fallback")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func runExtract(cmd *cobra.Command, opts *extractOptions) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if _, err := os.Stat(opts.input); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input EPUB not found: %s", opts.input)
		}
		return fmt.Errorf("stat input EPUB: %w", err)
	}

	o, err := outline.Build(opts.input, outline.Options{Engine: opts.engine, Logger: log})
	if err != nil {
		return fmt.Errorf("failed to build outline: %w", err)
	}

	if err := o.WriteJSON(opts.jsonOutput); err != nil {
		return fmt.Errorf("write JSON outline: %w", err)
	}
	if err := o.WriteMarkdown(opts.mdOutput); err != nil {
		return fmt.Errorf("write Markdown outline: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Outline extracted: %d chapters, %d sections -> %s and %s\n",
		len(o.Chapters), o.SectionCount(), opts.jsonOutput, opts.mdOutput)
	return nil
}
