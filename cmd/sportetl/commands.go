package main

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sportetl/internal/config"
	"sportetl/internal/etl"
	"sportetl/internal/extract"
	"sportetl/internal/load"
	"sportetl/internal/probe"
	"sportetl/internal/transform"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		url, apiKey, out string
		timeout          time.Duration
		insecure         bool
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Fetch the JSON endpoint and write the formatted body to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			err := a.setup([]config.Stage{config.StageExtract}, func(c *config.Config) {
				setString(f.Changed("url"), &c.Extract.URL, url)
				setString(f.Changed("api-key"), &c.Extract.APIKey, apiKey)
				setString(f.Changed("out"), &c.Extract.Output, out)
				if f.Changed("timeout") {
					c.Extract.Timeout = timeout
				}
				if f.Changed("insecure") {
					c.Extract.InsecureSkipVerify = insecure
				}
			})
			if err != nil {
				return err
			}
			_, err = extract.Run(cmd.Context(), a.cfg, a.log)
			return err
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&url, "url", "", "source URL (http, https or file)")
	fl.StringVar(&apiKey, "api-key", "", "API key appended as a query parameter")
	fl.StringVar(&out, "out", "", "output `path` for the raw JSON")
	fl.DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	fl.BoolVar(&insecure, "insecure", false, "skip TLS certificate verification")
	return cmd
}

func newInspectCmd(a *app) *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print shape, dtypes, null counts and summary statistics of a data file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a.setup(nil, func(c *config.Config) {
				setString(cmd.Flags().Changed("in"), &c.Transform.Input, in)
			})
			if err != nil {
				return err
			}
			t, err := transform.ReadTable(cmd.Context(), a.cfg.Transform.Input, config.Delim(a.cfg.Transform.Delimiter))
			if err != nil {
				return err
			}
			return probe.Render(cmd.OutOrStdout(), probe.Inspect(t))
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input `path` (.json, .csv or .tsv)")
	return cmd
}

func newTransformCmd(a *app) *cobra.Command {
	var in, out, aggOut string
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Clean the raw JSON and write the cleaned and aggregate CSV files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			err := a.setup([]config.Stage{config.StageTransform}, func(c *config.Config) {
				setString(f.Changed("in"), &c.Transform.Input, in)
				setString(f.Changed("out"), &c.Transform.CleanedOutput, out)
				setString(f.Changed("aggregate-out"), &c.Transform.AggregateOutput, aggOut)
			})
			if err != nil {
				return err
			}
			_, err = transform.Run(cmd.Context(), a.cfg, a.log)
			return err
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&in, "in", "", "raw JSON `path`")
	fl.StringVar(&out, "out", "", "cleaned CSV `path`")
	fl.StringVar(&aggOut, "aggregate-out", "", "aggregate CSV `path`")
	return cmd
}

// loadFlags are shared by load and run.
type loadFlags struct {
	dsn, in, table, strategy, aggIn string
	batchSize                       int
}

func (lf *loadFlags) register(cmd *cobra.Command, withInputs bool) {
	fl := cmd.Flags()
	fl.StringVar(&lf.dsn, "dsn", "", "database URL: mysql://, postgres://, sqlserver:// or sqlite:")
	fl.StringVar(&lf.table, "table", "", "destination table (default players)")
	fl.StringVar(&lf.strategy, "strategy", "", "load strategy: replace or append")
	fl.IntVar(&lf.batchSize, "batch-size", 0, "rows per bulk insert")
	if withInputs {
		fl.StringVar(&lf.in, "in", "", "cleaned CSV `path`")
		fl.StringVar(&lf.aggIn, "aggregate-in", "", "aggregate CSV `path`; loads the summary table when set")
	}
}

func (lf *loadFlags) apply(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	setString(f.Changed("dsn"), &c.Load.DSN, lf.dsn)
	setString(f.Changed("table"), &c.Load.Table, lf.table)
	setString(f.Changed("strategy"), &c.Load.Strategy, lf.strategy)
	if f.Changed("batch-size") {
		c.Load.BatchSize = lf.batchSize
	}
	if f.Lookup("in") != nil {
		setString(f.Changed("in"), &c.Load.Input, lf.in)
		setString(f.Changed("aggregate-in"), &c.Load.AggregateInput, lf.aggIn)
	}
}

func newLoadCmd(a *app) *cobra.Command {
	lf := &loadFlags{}
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the cleaned CSV into the players table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a.setup([]config.Stage{config.StageLoad}, func(c *config.Config) { lf.apply(cmd, c) })
			if err != nil {
				return err
			}
			_, err = load.Run(cmd.Context(), a.cfg, a.log)
			return err
		},
	}
	lf.register(cmd, true)
	return cmd
}

func newRunCmd(a *app) *cobra.Command {
	lf := &loadFlags{}
	var (
		url, apiKey string
		aggregate   bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run extract, transform and load in sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			err := a.setup(
				[]config.Stage{config.StageExtract, config.StageTransform, config.StageLoad},
				func(c *config.Config) {
					setString(f.Changed("url"), &c.Extract.URL, url)
					setString(f.Changed("api-key"), &c.Extract.APIKey, apiKey)
					lf.apply(cmd, c)
					if aggregate {
						c.Load.AggregateInput = c.Transform.AggregateOutput
					}
					*c = etl.Chain(*c)
				})
			if err != nil {
				return err
			}
			sum, err := etl.Run(cmd.Context(), a.cfg, a.log)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{
				"table":    sum.Load.Table,
				"inserted": sum.Load.Inserted,
			}).Debugf("run: done")
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&url, "url", "", "source URL (http, https or file)")
	fl.StringVar(&apiKey, "api-key", "", "API key appended as a query parameter")
	fl.BoolVar(&aggregate, "load-aggregate", false, "also load the aggregate CSV into the summary table")
	lf.register(cmd, false)
	return cmd
}

func setString(changed bool, dst *string, v string) {
	if changed {
		*dst = v
	}
}
