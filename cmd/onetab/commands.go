package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/glabrego/onetab-cli/internal/app"
	"github.com/glabrego/onetab-cli/internal/tabfile"
	"github.com/glabrego/onetab-cli/internal/tabs"
	"github.com/glabrego/onetab-cli/internal/tui/view"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "onetab [file]",
		Short: "Browse, dedupe and clean up OneTab exports",
		Long: `onetab reads a OneTab export, removes duplicate URLs and titles and
lets you search, sort and delete tabs before writing a numbered copy
next to the original file.

Run without a subcommand to open the interactive view.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		Run:          rootRun,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "tui [file]",
			Short: "Open the interactive view (defaults to the most recent file)",
			Args:  cobra.MaximumNArgs(1),
			Run:   rootRun,
		},
		newDedupeCmd(),
		newExportCmd(),
		newImportCmd(),
		newSearchCmd(),
		newSortCmd(),
		newPruneCmd(),
		newStatsCmd(),
		newRecentCmd(),
	)
	return root
}

// withService opens the environment for a one-shot command and closes it
// when fn returns. Log records go to the command's stderr.
func withService(cmd *cobra.Command, fn func(ctx context.Context, env *environment) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := openEnvironment(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(ctx, env)
}

func loadInput(ctx context.Context, cmd *cobra.Command, service *app.Service, path string) error {
	stats, err := service.Load(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), view.LoadSummary(stats.Kept, stats.Lines, stats.DuplicateURLs, stats.DuplicateTitles))
	return nil
}

// save writes to output when given, otherwise a numbered copy next to the
// loaded file.
func save(ctx context.Context, w io.Writer, service *app.Service, output string) error {
	if output != "" {
		if err := service.SavePlain(ctx, output); err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved %s tabs to %s\n", humanize.Comma(int64(service.Total())), output)
		return nil
	}
	path, err := service.SaveVersioned(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Saved %s tabs to %s\n", humanize.Comma(int64(service.Total())), path)
	return nil
}

func newDedupeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "dedupe <file>",
		Short: "Remove duplicate URLs and titles and save the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, env *environment) error {
				if err := loadInput(ctx, cmd, env.service, args[0]); err != nil {
					return err
				}
				return save(ctx, cmd.OutOrStdout(), env.service, output)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of a numbered copy")
	return cmd
}

func newExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the deduplicated tabs as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, env *environment) error {
				if err := loadInput(ctx, cmd, env.service, args[0]); err != nil {
					return err
				}
				if err := env.service.ExportJSON(output); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s tabs to %s\n", humanize.Comma(int64(env.service.Total())), output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "JSON file to write")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newImportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Convert a JSON export back into OneTab lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, env *environment) error {
				if _, err := env.service.ImportJSON(ctx, args[0]); err != nil {
					return err
				}
				return save(ctx, cmd.OutOrStdout(), env.service, output)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Text file to write")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var matchDomain bool
	cmd := &cobra.Command{
		Use:   "search <file> <query>",
		Short: "Print the tabs whose title or URL contains the query",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, env *environment) error {
				if err := loadInput(ctx, cmd, env.service, args[0]); err != nil {
					return err
				}
				if cmd.Flags().Changed("domain") {
					env.service.SetMatchDomain(matchDomain)
				}
				out := cmd.OutOrStdout()
				for _, entry := range env.service.Search(args[1]) {
					fmt.Fprintln(out, tabfile.FormatLine(entry))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&matchDomain, "domain", false, "Also match the query against the domain")
	return cmd
}

func newSortCmd() *cobra.Command {
	var (
		by         string
		descending bool
		output     string
	)
	cmd := &cobra.Command{
		Use:   "sort <file>",
		Short: "Sort tabs by title, domain or url and save the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := tabs.ParseSortKey(by)
			if err != nil {
				return err
			}
			return withService(cmd, func(ctx context.Context, env *environment) error {
				if err := loadInput(ctx, cmd, env.service, args[0]); err != nil {
					return err
				}
				env.service.Sort(key, descending)
				return save(ctx, cmd.OutOrStdout(), env.service, output)
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", string(tabs.SortByTitle), "Sort key: title, domain or url")
	cmd.Flags().BoolVar(&descending, "desc", false, "Sort in descending order")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of a numbered copy")
	return cmd
}

func newPruneCmd() *cobra.Command {
	var (
		patterns []string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "prune <file>",
		Short: "Delete tabs whose domain matches a glob",
		Example: `  onetab prune tabs.txt --domain '*.doubleclick.net' --domain 'ads.*'
  onetab prune tabs.txt --domain '**.example.com' -o clean.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, env *environment) error {
				if err := loadInput(ctx, cmd, env.service, args[0]); err != nil {
					return err
				}
				removed, err := env.service.PruneDomains(patterns...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Removed %s tabs\n", humanize.Comma(int64(removed)))
				return save(ctx, cmd.OutOrStdout(), env.service, output)
			})
		},
	}
	cmd.Flags().StringArrayVar(&patterns, "domain", nil, "Domain glob to remove (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of a numbered copy")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Show the most frequent domains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, env *environment) error {
				if err := loadInput(ctx, cmd, env.service, args[0]); err != nil {
					return err
				}
				if !cmd.Flags().Changed("top") {
					top = env.cfg.StatsTop
				}
				if top < 1 {
					return fmt.Errorf("--top must be at least 1, got %d", top)
				}
				writeStats(cmd.OutOrStdout(), env.service.Stats(top))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&top, "top", "n", 0, "Number of domains to show (default from ONETAB_STATS_TOP)")
	return cmd
}

func writeStats(w io.Writer, summary tabs.DomainSummary) {
	if summary.Total == 0 {
		fmt.Fprintln(w, "No domains to analyze.")
		return
	}

	fmt.Fprintf(w, "Total entries with domains: %s\n\n", humanize.Comma(int64(summary.Total)))
	fmt.Fprintf(w, "Top %d domains by frequency:\n", len(summary.Top))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Domain", "Entries", "Share")
	for i, item := range summary.Top {
		t.Row(
			strconv.Itoa(i+1),
			item.Domain,
			humanize.Comma(int64(item.Count)),
			fmt.Sprintf("%.2f%%", item.Percent),
		)
	}
	fmt.Fprintln(w, t.Render())

	fmt.Fprintf(w, "Combined count for top %d domains: %s entries (%.2f%% of total)\n",
		len(summary.Top), humanize.Comma(int64(summary.TopTotal)), summary.TopPercent())
}

func newRecentCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently opened tab files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, func(ctx context.Context, env *environment) error {
				files, err := env.service.RecentFiles(ctx, limit)
				if err != nil {
					return err
				}
				writeRecent(cmd.OutOrStdout(), files)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", app.DefaultRecentLimit, "Number of files to list")
	return cmd
}

func writeRecent(w io.Writer, files []app.RecentFile) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No recent files.")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("File", "Tabs", "Last version", "Opened")
	for _, file := range files {
		versioned := file.LastVersioned
		if versioned == "" {
			versioned = "-"
		}
		t.Row(file.Path, humanize.Comma(int64(file.Entries)), versioned, humanize.Time(file.OpenedAt))
	}
	fmt.Fprintln(w, t.Render())
}
