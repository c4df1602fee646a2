// Package datasource defines the byte-source abstraction used by the extract
// stage and resolves a configured URL onto a concrete implementation.
package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"sportetl/internal/datasource/file"
	"sportetl/internal/datasource/httpds"
	"sportetl/internal/etlerr"
)

// Source yields the raw bytes of one document.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// ForURL returns a Source for rawURL: file:// URLs read from the local disk,
// http(s) URLs go through client.
func ForURL(rawURL string, client *httpds.Client, headers http.Header) (Source, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, etlerr.New(etlerr.KindConfig, "datasource", fmt.Errorf("parse url: %w", err))
	}
	switch u.Scheme {
	case "file":
		l, err := file.FromURL(u)
		if err != nil {
			return nil, etlerr.New(etlerr.KindConfig, "datasource", err)
		}
		return l, nil
	case "http", "https":
		return httpds.NewSource(client, rawURL, headers), nil
	}
	return nil, etlerr.Newf(etlerr.KindConfig, "datasource", "unsupported scheme %q", u.Scheme)
}
