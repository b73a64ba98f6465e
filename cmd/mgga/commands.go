package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kkernick/MG-GA/domain"
	"github.com/kkernick/MG-GA/genetic"
	"github.com/kkernick/MG-GA/metric"
	"github.com/kkernick/MG-GA/mingen"
	"github.com/kkernick/MG-GA/table"
)

// app carries flag state between the root command and its subcommands.
type app struct {
	flags   settings
	cfgPath string
	plain   bool
	verbose bool

	// resolved is the config file merged with explicitly set flags.
	resolved settings
}

func newRootCmd() *cobra.Command {
	a := &app{flags: defaultSettings()}

	root := &cobra.Command{
		Use:   "mgga",
		Short: "Anonymize delimited tables to a k-anonymity threshold",
		Long: `mgga generalizes and suppresses the quasi-identifying cells of a
delimited table until every row is indistinguishable from at least k-1
others, using either an exhaustive pruned search (mg) or a genetic
optimizer (ga).

Column lists (types, weights, sensitivities) are comma separated and read
left to right; missing entries take the default. Generalization
hierarchies are matched to columns by the hierarchy root's name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.resolve(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.Input, "input", "i", "", "path to the table (required)")
	pf.StringVar(&a.flags.Domains, "domains", "", "path to the generalization hierarchy file")
	pf.StringVarP(&a.flags.Delim, "delim", "d", "", "field delimiter (default: guessed from the header)")
	pf.StringSliceVarP(&a.flags.Types, "types", "t", nil, "per-column types: s=string, i=integer (default s)")
	pf.StringSliceVarP(&a.flags.Weights, "weights", "w", nil, "per-column score weights (default 1)")
	pf.StringSliceVarP(&a.flags.Sensitivities, "sensitivities", "s", nil, "per-column sensitivities: i=ignored, q=quasi, s=sensitive (default q)")
	pf.StringVarP(&a.flags.Metric, "metric", "m", "md", "scoring metric: md=minimal distortion, c=certainty")
	pf.IntVarP(&a.flags.K, "k", "k", 2, "anonymity threshold")
	pf.Int64Var(&a.flags.Seed, "seed", 0, "random seed (0 for a fixed default)")
	pf.BoolVar(&a.flags.NoCache, "no-cache", false, "disable score and match memoization")
	pf.StringVar(&a.cfgPath, "config", "", "path to a YAML config file; flags override it")
	pf.BoolVar(&a.plain, "plain", false, "disable the live progress display")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newMGCmd(a), newGACmd(a))
	return root
}

// resolve merges the config file with explicitly set flags and installs the
// logger. Flags win field by field.
func (a *app) resolve(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadSettings(a.cfgPath)
	if err != nil {
		return err
	}
	a.resolved = cfg

	set := cmd.Flags().Changed
	if set("input") {
		a.resolved.Input = a.flags.Input
	}
	if set("domains") {
		a.resolved.Domains = a.flags.Domains
	}
	if set("delim") {
		a.resolved.Delim = a.flags.Delim
	}
	if set("types") {
		a.resolved.Types = a.flags.Types
	}
	if set("weights") {
		a.resolved.Weights = a.flags.Weights
	}
	if set("sensitivities") {
		a.resolved.Sensitivities = a.flags.Sensitivities
	}
	if set("metric") {
		a.resolved.Metric = a.flags.Metric
	}
	if set("k") {
		a.resolved.K = a.flags.K
	}
	if set("seed") {
		a.resolved.Seed = a.flags.Seed
	}
	if set("no-cache") {
		a.resolved.NoCache = a.flags.NoCache
	}

	if a.resolved.Input == "" {
		return fmt.Errorf("an input table is required; see --help")
	}
	return nil
}

// load parses the hierarchies and the input table per the resolved settings.
func (a *app) load() (*table.Table, metric.Metric, error) {
	m, err := metric.ParseMetric(a.resolved.Metric)
	if err != nil {
		return nil, 0, err
	}
	domains, err := domain.ParseFile(a.resolved.Domains)
	if err != nil {
		return nil, 0, err
	}
	tbl, err := table.Load(a.resolved.Input, table.LoadOptions{
		Delim:         a.resolved.Delim,
		Kinds:         a.resolved.Types,
		Weights:       a.resolved.Weights,
		Sensitivities: a.resolved.Sensitivities,
		Domains:       domains,
	})
	if err != nil {
		return nil, 0, err
	}
	slog.Debug("loaded table",
		"input", a.resolved.Input,
		"rows", tbl.Rows(), "cols", tbl.Cols(),
		"quasi", len(tbl.Quasi()),
		"states", tbl.Distinct(),
		"metric", m.String(), "k", a.resolved.K)
	return tbl, m, nil
}

func newMGCmd(a *app) *cobra.Command {
	var (
		iterations int64
		timeLimit  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "mg",
		Short: "Exhaustive minimal-generalization search",
		Long: `mg enumerates the full mutation space with branch-and-bound pruning
and returns every table tied at the best score. Capping iterations or the
run time turns it into a sampled search with possibly suboptimal results.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			tbl, m, err := a.load()
			if err != nil {
				return err
			}

			opts := mingen.DefaultOptions()
			opts.K = a.resolved.K
			opts.Metric = m
			opts.Seed = a.resolved.Seed
			opts.DisableCache = a.resolved.NoCache
			opts.TimeLimit = timeLimit
			if iterations >= 0 {
				opts.MaxStates = uint64(iterations)
			}

			search, err := mingen.New(tbl, opts)
			if err != nil {
				return err
			}

			var res *mingen.Result
			err = runWithProgress(a.plain,
				func() string { return renderSearchProgress(search.Snapshot()) },
				func() error {
					var err error
					res, err = search.Run()
					return err
				})
			if err != nil {
				return err
			}
			printSearchResult(res)
			return nil
		},
	}
	cmd.Flags().Int64VarP(&iterations, "iterations", "r", -1, "max states to visit; negative for exhaustive")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", 0, "soft wall-time budget; 0 for none")
	return cmd
}

func newGACmd(a *app) *cobra.Command {
	var (
		generations  int
		population   int
		mutationRate int
		cutoff       float64
	)
	cmd := &cobra.Command{
		Use:   "ga",
		Short: "Genetic anonymization for tables out of exhaustive reach",
		Long: `ga evolves a population of randomly generalized tables toward
k-anonymity at low information loss. Results are good but carry no
optimality guarantee, and may fail to reach the threshold at all; the
best table is re-verified and a failure is reported.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			tbl, m, err := a.load()
			if err != nil {
				return err
			}

			opts := genetic.DefaultOptions()
			opts.K = a.resolved.K
			opts.Metric = m
			opts.Seed = a.resolved.Seed
			opts.DisableCache = a.resolved.NoCache
			opts.Generations = generations
			opts.Population = population
			opts.MutationRate = mutationRate
			opts.Cutoff = cutoff

			opt, err := genetic.New(tbl, opts)
			if err != nil {
				return err
			}

			var res *genetic.Result
			err = runWithProgress(a.plain,
				func() string { return renderOptimizerProgress(opt.Snapshot()) },
				func() error {
					var err error
					res, err = opt.Run()
					return err
				})
			if err != nil {
				return err
			}
			printOptimizerResult(res)
			return nil
		},
	}
	cmd.Flags().IntVarP(&generations, "generations", "g", 1000, "breeding rounds to run")
	cmd.Flags().IntVarP(&population, "population", "p", 100, "tables per generation")
	cmd.Flags().IntVar(&mutationRate, "mutation-rate", 10, "base mutation chance per cell, added to a 0-100 roll")
	cmd.Flags().Float64Var(&cutoff, "cutoff", 0.10, "elite fraction retained each generation")
	return cmd
}
