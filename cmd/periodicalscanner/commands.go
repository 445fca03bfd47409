package main

import (
	"errors"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"PeriodicalScanner/internal/app"
	"PeriodicalScanner/internal/config"
	"PeriodicalScanner/internal/logging"
	"PeriodicalScanner/internal/usecase"
)

type rootOptions struct {
	configPath string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "periodicalscanner",
		Short:         "periodicalscanner scrapes academic journal archives into JSON and seed scripts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file (default $PERIODICAL_SCANNER_CONFIG)")

	root.AddCommand(
		newScrapeCmd(opts),
		newSeedCmd(opts),
		newLoadCmd(opts),
		newJournalsCmd(opts),
	)
	return root
}

func (o *rootOptions) application() (*app.Application, error) {
	log := logging.NewWithWriter(os.Stderr, o.cfg.Logging.Level, o.cfg.Logging.Format)
	return app.New(o.cfg, log)
}

func newScrapeCmd(opts *rootOptions) *cobra.Command {
	var (
		all         bool
		outDir      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "scrape [journal...]",
		Short: "Scrapes the given journals (or --all) and writes one JSON file per journal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !all {
				return errors.New("name at least one journal or pass --all")
			}
			if all {
				args = nil
			}
			if outDir != "" {
				opts.cfg.Output.Dir = outDir
			}
			if concurrency > 0 {
				opts.cfg.Workers.Concurrency = min(concurrency, 16)
			}

			application, err := opts.application()
			if err != nil {
				return err
			}
			reports, err := application.Scrape(cmd.Context(), args)
			if len(reports) > 0 {
				usecase.WriteRunSummary(cmd.OutOrStdout(), reports)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "scrape every configured journal")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory for JSON files")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "concurrent article detail fetches (1-16)")
	return cmd
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "seed [dir]",
		Short: "Generates a seed script for every scraped JSON file in dir.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "" {
				opts.cfg.Seed.Format = format
			}
			if outDir != "" {
				opts.cfg.Seed.Dir = outDir
			}

			application, err := opts.application()
			if err != nil {
				return err
			}
			reports, err := application.Seed(cmd.Context(), firstArg(args))
			if len(reports) > 0 {
				usecase.WriteSeedSummary(cmd.OutOrStdout(), reports, false)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "script format: ruby or sql")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory for seed scripts")
	return cmd
}

func newLoadCmd(opts *rootOptions) *cobra.Command {
	var driver, dsn string

	cmd := &cobra.Command{
		Use:   "load [dir]",
		Short: "Loads every scraped JSON file in dir into the corpus database.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if driver != "" {
				opts.cfg.Database.Driver = driver
			}
			if dsn != "" {
				opts.cfg.Database.DSN = dsn
			}

			application, err := opts.application()
			if err != nil {
				return err
			}
			reports, err := application.Load(cmd.Context(), firstArg(args))
			if len(reports) > 0 {
				usecase.WriteSeedSummary(cmd.OutOrStdout(), reports, true)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&driver, "driver", "", "database driver: postgres or sqlite")
	cmd.Flags().StringVar(&dsn, "dsn", "", "database connection string")
	return cmd
}

func newJournalsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "journals",
		Short: "Prints the configured journals.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Slug", "Name", "File", "Archive URLs"})
			for _, j := range opts.cfg.Journals {
				t.AppendRow(table.Row{j.Slug, j.Name, j.FileName, strings.Join(j.ArchiveURLs, "\n")})
			}
			t.SetStyle(table.StyleRounded)
			t.Render()
			return nil
		},
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
