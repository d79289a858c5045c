package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yurifrl/receiptr/pkg/config"
	"github.com/yurifrl/receiptr/pkg/models"
	"github.com/yurifrl/receiptr/pkg/parser"
	"github.com/yurifrl/receiptr/pkg/plan"
	"github.com/yurifrl/receiptr/pkg/render"
	"github.com/yurifrl/receiptr/pkg/report"
	"github.com/yurifrl/receiptr/pkg/service"
)

var errInvalidRecords = errors.New("records failed validation")

type app struct {
	cfg       *config.Config
	logger    *log.Logger
	parser    *parser.Parser
	processor *service.Processor
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "receiptr",
		Short:         "Infer vendor, date, amount and category from receipt text",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Show help when no subcommand is provided
			return cmd.Help()
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	flags.StringP("format", "f", "json", "Output format: json, yaml, csv or pretty")
	flags.String("date-order", string(parser.DayFirst), "Slash date order: day_first or month_first")
	flags.String("log-level", "info", "Log level")
	flags.Bool("strict", false, "Fail when a record lacks a vendor, a date or a positive amount")
	flags.Bool("summary", false, "Print a resolution summary to stderr")

	setup := func(cmd *cobra.Command) (*app, error) {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return nil, err
		}

		logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
			ReportTimestamp: true,
			Prefix:          "receiptr",
			Level:           cfg.Level(),
		})
		p := parser.New(logger, cfg.ParserOptions()...)

		return &app{
			cfg:       cfg,
			logger:    logger,
			parser:    p,
			processor: service.NewProcessor(p, logger),
		}, nil
	}

	inferCmd := &cobra.Command{
		Use:   "infer [paths...]",
		Short: "Infer records from text files, directories or stdin",
		Long:  "Infer one record per text document. Paths may be globs or directories; with no path or \"-\" the text is read from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			var results []models.Result
			if len(args) == 0 || (len(args) == 1 && args[0] == service.StdinSource) {
				result, err := a.processor.ProcessReader(service.StdinSource, cmd.InOrStdin())
				if err != nil {
					return err
				}
				results = append(results, result)
			} else {
				results, err = a.processor.ProcessPaths(args)
				if err != nil {
					return err
				}
			}

			return a.finish(cmd, results)
		},
	}

	batchCmd := &cobra.Command{
		Use:   "batch <plan_file>",
		Short: "Infer records for every document listed in a YAML plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			p, err := plan.Load(args[0])
			if err != nil {
				return err
			}
			if a.cfg.Level() <= log.DebugLevel {
				p.Print(cmd.ErrOrStderr())
			}

			results, err := a.processor.ProcessPlan(p)
			if err != nil {
				return err
			}
			return a.finish(cmd, results)
		},
	}

	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			return render.Rules(cmd.OutOrStdout(), a.cfg.Format, a.parser.Rules().Describe())
		},
	}

	rootCmd.AddCommand(inferCmd, batchCmd, rulesCmd)
	return rootCmd
}

// finish writes results and applies the summary and strict options.
func (a *app) finish(cmd *cobra.Command, results []models.Result) error {
	if err := render.Results(cmd.OutOrStdout(), a.cfg.Format, results); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if !a.cfg.Summary && !a.cfg.Strict {
		return nil
	}

	rep := report.Build(results)
	if a.cfg.Summary {
		rep.Print(cmd.ErrOrStderr())
	}
	if a.cfg.Strict {
		invalid := rep.Invalid()
		for _, e := range invalid {
			a.logger.Error("invalid record", "source", e.Result.Source, "error", e.Err)
		}
		if len(invalid) > 0 {
			return fmt.Errorf("%d of %d: %w", len(invalid), len(results), errInvalidRecords)
		}
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
