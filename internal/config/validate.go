// Package config provides configuration models and helpers for the pipeline.
//
// This file adds a lightweight validator for Config values. It performs static
// checks and returns a list of issues (errors and warnings) that the CLI
// surfaces before running a stage.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"sportetl/internal/storage"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that is surfaced but does not block.
	SeverityWarning IssueSeverity = "warning"
)

// Stage names a pipeline stage whose configuration should be validated.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageTransform Stage = "transform"
	StageLoad      Stage = "load"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "load.dsn").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks the sections of cfg needed by the given stages. It does not
// mutate cfg.
func Validate(cfg Config, stages ...Stage) []Issue {
	var issues []Issue

	if strings.TrimSpace(cfg.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateMetrics(cfg.Metrics)...)

	for _, s := range stages {
		switch s {
		case StageExtract:
			issues = append(issues, validateExtract(cfg.Extract)...)
		case StageTransform:
			issues = append(issues, validateTransform(cfg.Transform)...)
		case StageLoad:
			issues = append(issues, validateLoad(cfg.Load)...)
		}
	}
	return issues
}

func validateExtract(e Extract) []Issue {
	var issues []Issue

	if strings.TrimSpace(e.URL) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "extract.url",
			Message:  "extract.url must not be empty",
		})
	}
	u, err := url.Parse(e.URL)
	if err != nil {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "extract.url",
			Message:  fmt.Sprintf("invalid URL: %v", err),
		})
	}
	switch u.Scheme {
	case "http", "https", "file":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "extract.url",
			Message:  fmt.Sprintf("unsupported scheme %q; use http, https or file", u.Scheme),
		})
	}
	if e.APIKeyParam != "" && u.Query().Get(e.APIKeyParam) != "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "extract.url",
			Message:  "URL embeds an API key; move it to extract.api_key or SPORTETL_API_KEY",
		})
	}
	if strings.TrimSpace(e.Output) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "extract.output",
			Message:  "extract.output must not be empty",
		})
	}
	if e.Timeout <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "extract.timeout",
			Message:  "extract.timeout must be > 0",
		})
	}
	if e.InsecureSkipVerify {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "extract.insecure_skip_verify",
			Message:  "TLS verification is disabled",
		})
	}
	return issues
}

func validateTransform(t Transform) []Issue {
	var issues []Issue
	required := map[string]string{
		"transform.input":            t.Input,
		"transform.cleaned_output":   t.CleanedOutput,
		"transform.aggregate_output": t.AggregateOutput,
	}
	for _, p := range []string{"transform.input", "transform.cleaned_output", "transform.aggregate_output"} {
		if strings.TrimSpace(required[p]) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     p,
				Message:  p + " must not be empty",
			})
		}
	}
	if t.CleanedOutput != "" && t.CleanedOutput == t.AggregateOutput {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "transform.aggregate_output",
			Message:  "aggregate_output must differ from cleaned_output",
		})
	}
	if len([]rune(t.Delimiter)) > 1 && t.Delimiter != `\t` && t.Delimiter != "tab" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "transform.delimiter",
			Message:  "delimiter must be a single character",
		})
	}

	c := t.Columns
	cols := []struct{ path, v string }{
		{"transform.columns.sport", c.Sport},
		{"transform.columns.games_played", c.GamesPlayed},
		{"transform.columns.goals", c.Goals},
		{"transform.columns.assists", c.Assists},
		{"transform.columns.matches_won", c.MatchesWon},
		{"transform.columns.points", c.Points},
		{"transform.columns.total_goals", c.TotalGoals},
	}
	for _, col := range cols {
		if strings.TrimSpace(col.v) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     col.path,
				Message:  "column name must not be empty",
			})
		}
	}
	return issues
}

func validateLoad(l Load) []Issue {
	var issues []Issue

	if strings.TrimSpace(l.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "load.dsn",
			Message:  "load.dsn must not be empty; set it via --dsn or SPORTETL_DSN",
		})
	} else if _, err := storage.KindFromDSN(l.DSN); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "load.dsn",
			Message:  err.Error(),
		})
	}
	if strings.TrimSpace(l.Input) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "load.input",
			Message:  "load.input must not be empty",
		})
	}
	if strings.TrimSpace(l.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "load.table",
			Message:  "load.table must not be empty",
		})
	}
	if l.AggregateInput != "" && strings.TrimSpace(l.AggregateTable) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "load.aggregate_table",
			Message:  "aggregate_table is required when aggregate_input is set",
		})
	}
	if _, err := storage.ParseStrategy(l.Strategy); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "load.strategy",
			Message:  err.Error(),
		})
	}
	if l.BatchSize <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "load.batch_size",
			Message:  "batch_size must be > 0",
		})
	}
	if l.Timeout <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "load.timeout",
			Message:  "load.timeout must be > 0",
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	switch m.Backend {
	case "", "none":
	case "pushgateway":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			return []Issue{{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "pushgateway backend requires pushgateway_url",
			}}
		}
	case "datadog":
		if strings.TrimSpace(m.DatadogAddr) == "" {
			return []Issue{{
				Severity: SeverityError,
				Path:     "metrics.datadog_addr",
				Message:  "datadog backend requires datadog_addr",
			}}
		}
	default:
		return []Issue{{
			Severity: SeverityWarning,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; metrics disabled", m.Backend),
		}}
	}
	return nil
}
