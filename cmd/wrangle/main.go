// Command wrangle applies the library's transformations file-to-file:
// standardize, center, demean, and tabulate over CSV, Excel, or SQL
// sources.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"wrangle/adapters/fileio"
	"wrangle/adapters/sqldb"
	"wrangle/demean"
	"wrangle/domain/core"
	"wrangle/domain/frame"
	"wrangle/domain/selection"
	"wrangle/internal"
	"wrangle/tabulate"
	"wrangle/transform"
)

var (
	verbose bool
	dsn     string
	logger  = internal.NewDefaultLogger()
)

func main() {
	// Environment defaults (e.g. WRANGLE_DSN) may come from a .env file.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "wrangle",
		Short: "Select, standardize, and decompose tabular data",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(internal.LogLevelDebug)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostics to stderr")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", os.Getenv("WRANGLE_DSN"), "Postgres DSN; input argument becomes a SQL query")

	rootCmd.AddCommand(
		newStandardizeCmd(),
		newCenterCmd(),
		newDemeanCmd(),
		newTabulateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type transformFlags struct {
	selectCols  string
	excludeCols string
	ignoreCase  bool
	regex       bool
	robust      bool
	twoSD       bool
	weights     string
	appendCols  bool
	suffix      string
	dropNA      string
	keepFactors bool
}

func (tf *transformFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&tf.selectCols, "select", "", "comma-separated column names (supports a:b ranges)")
	cmd.Flags().StringVar(&tf.excludeCols, "exclude", "", "comma-separated columns to exclude")
	cmd.Flags().BoolVar(&tf.ignoreCase, "ignore-case", false, "case-insensitive column matching")
	cmd.Flags().BoolVar(&tf.regex, "regex", false, "treat --select as a regular expression")
	cmd.Flags().BoolVar(&tf.robust, "robust", false, "use median/MAD instead of mean/SD")
	cmd.Flags().BoolVar(&tf.twoSD, "two-sd", false, "divide by twice the spread")
	cmd.Flags().StringVar(&tf.weights, "weights", "", "name of the weight column")
	cmd.Flags().BoolVar(&tf.appendCols, "append", false, "append suffixed columns instead of overwriting")
	cmd.Flags().StringVar(&tf.suffix, "suffix", "", "override the append suffix")
	cmd.Flags().StringVar(&tf.dropNA, "drop-na", "none", "row filtering: none, selected, or all")
	cmd.Flags().BoolVar(&tf.keepFactors, "keep-factors", false, "coerce non-numeric columns instead of skipping them")
}

func (tf *transformFlags) options() transform.Options {
	opts := transform.DefaultOptions()
	opts.Select = specFromFlag(tf.selectCols)
	opts.Exclude = specFromFlag(tf.excludeCols)
	opts.IgnoreCase = tf.ignoreCase
	opts.Regex = tf.regex
	opts.Robust = tf.robust
	opts.TwoSD = tf.twoSD
	opts.WeightsColumn = tf.weights
	opts.Append = tf.appendCols
	opts.Suffix = tf.suffix
	opts.NAPolicy = transform.NAPolicy(tf.dropNA)
	opts.KeepFactors = tf.keepFactors
	return opts
}

func specFromFlag(value string) selection.Spec {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return selection.Names(names...)
}

func newStandardizeCmd() *cobra.Command {
	var tf transformFlags
	cmd := &cobra.Command{
		Use:   "standardize <input> <output>",
		Short: "Center and scale selected columns to unit spread",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadInput(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			d := core.NewDiagnostics()
			out, _, err := transform.Standardize(f, tf.options(), d)
			renderDiagnostics(d)
			if err != nil {
				return err
			}
			return fileio.Write(out, args[1])
		},
	}
	tf.register(cmd)
	return cmd
}

func newCenterCmd() *cobra.Command {
	var tf transformFlags
	cmd := &cobra.Command{
		Use:   "center <input> <output>",
		Short: "Subtract the mean (or median) from selected columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadInput(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			d := core.NewDiagnostics()
			out, _, err := transform.Center(f, tf.options(), d)
			renderDiagnostics(d)
			if err != nil {
				return err
			}
			return fileio.Write(out, args[1])
		},
	}
	tf.register(cmd)
	return cmd
}

func newDemeanCmd() *cobra.Command {
	var formula, by, stat string
	cmd := &cobra.Command{
		Use:   "demean <input> <output>",
		Short: "Decompose variables into between/within components",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadInput(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			opts := demean.DefaultOptions()
			opts.Formula = formula
			opts.ByFormula = by
			opts.Stat = demean.Stat(stat)

			d := core.NewDiagnostics()
			dec, err := demean.Degroup(f, opts, d)
			renderDiagnostics(d)
			if err != nil {
				return err
			}
			bound, err := frame.Bind(f, dec.Frame)
			if err != nil {
				return err
			}
			return fileio.Write(bound, args[1])
		},
	}
	cmd.Flags().StringVar(&formula, "formula", "", `variables to decompose, e.g. "x1 + x2*x3"`)
	cmd.Flags().StringVar(&by, "by", "", `grouping variables, e.g. "g1 + g2"`)
	cmd.Flags().StringVar(&stat, "stat", "mean", "group statistic: mean, median, mode, min, max")
	cmd.MarkFlagRequired("formula")
	cmd.MarkFlagRequired("by")
	return cmd
}

func newTabulateCmd() *cobra.Command {
	var selectCols string
	cmd := &cobra.Command{
		Use:   "tabulate <input>",
		Short: "Print frequency tables for selected columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadInput(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			d := core.NewDiagnostics()
			tables, err := tabulate.Frequencies(f, tabulate.Options{Select: specFromFlag(selectCols)}, d)
			renderDiagnostics(d)
			if err != nil {
				return err
			}
			for _, t := range tables {
				fmt.Printf("%s (N=%.0f, missing=%.0f)\n", t.Column, t.Total, t.Missing)
				for _, e := range t.Entries {
					fmt.Printf("  %-20s %8.0f  %6.1f%%  %6.1f%%  %6.1f%%\n",
						e.Value, e.N, e.Percent, e.ValidPercent, e.Cumulative)
				}
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&selectCols, "select", "", "comma-separated column names")
	return cmd
}

// loadInput reads a frame from a file path, or from a SQL query when --dsn
// is set.
func loadInput(ctx context.Context, source string) (*frame.Frame, error) {
	if dsn != "" {
		db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}
		defer db.Close()
		f, err := sqldb.Read(ctx, db, source)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded %d rows from query", f.Rows())
		return f, nil
	}
	f, meta, err := fileio.NewReader(source).Read()
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded %s: %d rows, %d columns, fingerprint %s",
		meta.Path, meta.Rows, meta.Columns, meta.Fingerprint)
	return f, nil
}

func renderDiagnostics(d *core.Diagnostics) {
	if verbose {
		d.Render(os.Stderr)
	}
}
