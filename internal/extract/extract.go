// Package extract implements the fetch stage: one GET (or file:// read) of
// the configured endpoint, JSON validation, and an atomic write of the
// re-indented document to the raw output path.
//
// A non-200 response aborts the stage before anything is written, so a
// previous raw file (if any) is left untouched.
package extract

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"sportetl/internal/config"
	"sportetl/internal/datasource"
	"sportetl/internal/datasource/file"
	"sportetl/internal/datasource/httpds"
	"sportetl/internal/etlerr"
	"sportetl/internal/logger"
	"sportetl/internal/metrics"
	jsonparser "sportetl/internal/parser/json"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Stage is the metrics/log label of this stage.
const Stage = "extract"

// Result summarizes a successful extract.
type Result struct {
	Path  string
	Bytes int64
}

// newClientFn is a test seam for the HTTP client.
var newClientFn = func(cfg config.Extract) *httpds.Client {
	return httpds.NewClient(httpds.Config{
		Timeout:            cfg.Timeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})
}

// Run fetches cfg.Extract.URL and writes the formatted body to
// cfg.Extract.Output.
func Run(ctx context.Context, cfg config.Config, lg logger.Logger) (res Result, err error) {
	if lg == nil {
		lg = logger.Discard()
	}
	ec := cfg.Extract
	start := time.Now()
	defer func() { metrics.RecordStage(cfg.Job, Stage, err, time.Since(start)) }()

	target, err := WithAPIKey(ec.URL, ec.APIKeyParam, ec.APIKey)
	if err != nil {
		return Result{}, err
	}
	src, err := datasource.ForURL(target, newClientFn(ec), headers(ec.Headers))
	if err != nil {
		return Result{}, err
	}

	if ec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ec.Timeout)
		defer cancel()
	}

	lg.WithField("url", Redact(target, ec.APIKeyParam)).Infof("extract: fetching")
	rc, err := src.Open(ctx)
	if err != nil {
		if e, ok := etlerr.As(err); ok {
			if e.Status != 0 {
				lg.WithField("status", e.Status).Errorf("extract: request failed")
			}
			return Result{}, err
		}
		return Result{}, etlerr.New(etlerr.KindIO, "extract.open", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return Result{}, etlerr.New(etlerr.KindNetwork, "extract.read", errors.Wrap(err, "read body"))
	}
	metrics.RecordBytes(cfg.Job, int64(len(raw)))

	pretty, err := jsonparser.Indent(raw)
	if err != nil {
		return Result{}, err
	}

	err = file.WriteAtomic(ec.Output, func(w io.Writer) error {
		_, werr := io.Copy(w, bytes.NewReader(pretty))
		return werr
	})
	if err != nil {
		return Result{}, etlerr.New(etlerr.KindIO, "extract.write", err)
	}

	res = Result{Path: ec.Output, Bytes: int64(len(pretty))}
	lg.WithFields(log.Fields{
		"path":  res.Path,
		"bytes": res.Bytes,
	}).Infof("extract: wrote raw data")
	return res, nil
}

// WithAPIKey returns rawURL with key set as the param query parameter.
// file:// URLs and an empty key are returned unchanged.
func WithAPIKey(rawURL, param, key string) (string, error) {
	if key == "" {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", etlerr.New(etlerr.KindConfig, "extract.url", errors.Wrap(err, "parse url"))
	}
	if u.Scheme == "file" {
		return rawURL, nil
	}
	if param == "" {
		param = "key"
	}
	q := u.Query()
	q.Set(param, key)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Redact masks the value of the param query parameter for logging.
func Redact(rawURL, param string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	if param == "" {
		param = "key"
	}
	q := u.Query()
	if q.Get(param) != "" {
		q.Set(param, "xxxxx")
		u.RawQuery = q.Encode()
	}
	return u.Redacted()
}

func headers(m map[string]string) http.Header {
	if len(m) == 0 {
		return nil
	}
	h := make(http.Header, len(m))
	for k, v := range m {
		h.Set(k, v)
	}
	return h
}
