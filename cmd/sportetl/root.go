package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sportetl/internal/config"
	"sportetl/internal/etlerr"
	"sportetl/internal/logger"
	"sportetl/internal/metrics"
	"sportetl/internal/metrics/datadog"
	"sportetl/internal/metrics/prompush"
)

// app holds the global flags and the state built from them before a
// subcommand runs.
type app struct {
	cfgPath        string
	dotenv         string
	logLevel       string
	metricsBackend string
	pushgatewayURL string
	datadogAddr    string

	stdout io.Writer
	stderr io.Writer

	cfg config.Config
	log *logrus.Entry
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "sportetl",
		Short: "Fetch, clean and load sports statistics.",
		Long: `sportetl is a three-stage batch pipeline:

  extract    GET the JSON endpoint and save the formatted body
  transform  impute, drop nulls, dedupe, coerce, derive total_goals and
             aggregate by sport into two CSV files
  load       write the cleaned CSV into the players table

Each stage runs on its own; "run" chains all three. Settings come from
--config (YAML or JSON), .env, SPORTETL_* variables and flags, in
increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	cobra.EnableCommandSorting = false
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "config `file` (YAML or JSON)")
	pf.StringVar(&a.dotenv, "env-file", ".env", "dotenv `file` loaded before the environment is read")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.StringVar(&a.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway, datadog")
	pf.StringVar(&a.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL")
	pf.StringVar(&a.datadogAddr, "datadog-addr", "", "DogStatsD address, e.g. 127.0.0.1:8125")
	_ = root.MarkPersistentFlagFilename("config", "yaml", "yml", "json")

	root.AddCommand(
		newExtractCmd(a),
		newInspectCmd(a),
		newTransformCmd(a),
		newLoadCmd(a),
		newRunCmd(a),
	)
	return root
}

// setup builds a.cfg and a.log for a subcommand. override applies the
// subcommand's own flags on top of the global ones. The sections needed by
// stages are validated; warnings are logged and errors abort.
func (a *app) setup(stages []config.Stage, override func(*config.Config)) error {
	if err := config.LoadDotEnv(a.dotenv); err != nil {
		return etlerr.New(etlerr.KindConfig, "config.dotenv", err)
	}
	cfg, err := config.LoadFile(a.cfgPath)
	if err != nil {
		return etlerr.New(etlerr.KindConfig, "config.load", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.metricsBackend != "" {
		cfg.Metrics.Backend = a.metricsBackend
	}
	if a.pushgatewayURL != "" {
		cfg.Metrics.PushgatewayURL = a.pushgatewayURL
	}
	if a.datadogAddr != "" {
		cfg.Metrics.DatadogAddr = a.datadogAddr
	}
	if override != nil {
		override(&cfg)
	}
	if cfg, err = config.ExpandPaths(cfg); err != nil {
		return etlerr.New(etlerr.KindConfig, "config.paths", err)
	}

	lg, err := logger.New(logger.Options{Service: "sportetl", Level: cfg.LogLevel, Out: a.stderr})
	if err != nil {
		return etlerr.New(etlerr.KindConfig, "config.log_level", err)
	}
	a.log = lg

	issues := config.Validate(cfg, stages...)
	for _, iss := range issues {
		entry := lg.WithField("path", iss.Path)
		if iss.Severity == config.SeverityError {
			entry.Errorf("config: %s", iss.Message)
		} else {
			entry.Warnf("config: %s", iss.Message)
		}
	}
	if config.HasErrors(issues) {
		return etlerr.Newf(etlerr.KindConfig, "config.validate", "configuration is invalid (%d issue(s))", len(issues))
	}

	a.cfg = cfg
	a.setupMetrics()
	return nil
}

// setupMetrics installs the configured backend. A backend that cannot be
// created leaves metrics disabled; it never fails the run.
func (a *app) setupMetrics() {
	m := a.cfg.Metrics
	switch m.Backend {
	case "pushgateway":
		b, err := prompush.NewBackend(a.cfg.Job, m.PushgatewayURL)
		if err != nil {
			a.log.WithError(err).Warnf("metrics: pushgateway backend unavailable; using nop")
			return
		}
		metrics.SetBackend(b)
		a.log.WithField("url", m.PushgatewayURL).Debugf("metrics: pushgateway enabled")
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       m.DatadogAddr,
			GlobalTags: append([]string{"job:" + a.cfg.Job}, m.DatadogTags...),
		})
		if err != nil {
			a.log.WithError(err).Warnf("metrics: datadog backend unavailable; using nop")
			return
		}
		metrics.SetBackend(b)
		a.log.WithField("addr", m.DatadogAddr).Debugf("metrics: datadog enabled")
	}
}

// execute runs the CLI with args and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := root.ExecuteContext(ctx)
	if ferr := metrics.Flush(); ferr != nil && a.log != nil {
		a.log.WithError(ferr).Warnf("metrics: flush failed")
	}
	metrics.Reset()
	if err == nil {
		return 0
	}

	if e, ok := etlerr.As(err); ok && a.log != nil {
		a.log.WithFields(logrus.Fields{
			"kind":      string(e.Kind),
			"op":        e.Op,
			"retryable": e.Retryable(),
		}).Errorf("%v", err)
	} else {
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return etlerr.ExitCode(err)
}
