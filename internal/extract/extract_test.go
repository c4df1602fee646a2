package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sportetl/internal/config"
	"sportetl/internal/etlerr"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const body = `[{"Player Name":"Ann","Sport":"Soccer","Games Played":10,"Goals":null}]`

func testConfig(t *testing.T, url string) config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Extract.URL = url
	cfg.Extract.Output = filepath.Join(t.TempDir(), "raw", "data.json")
	cfg.Extract.Timeout = 5 * time.Second
	return cfg
}

func TestRun_WritesIndentedJSON(t *testing.T) {
	var gotKey, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotHeader = r.Header.Get("X-Trace")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL+"/sport_data.json")
	cfg.Extract.APIKey = "s3cret"
	cfg.Extract.Headers = map[string]string{"X-Trace": "abc"}

	lg, hook := test.NewNullLogger()
	lg.SetLevel(logrus.DebugLevel)

	res, err := Run(context.Background(), cfg, logrus.NewEntry(lg))
	require.NoError(t, err)
	require.Equal(t, "s3cret", gotKey)
	require.Equal(t, "abc", gotHeader)
	require.Equal(t, cfg.Extract.Output, res.Path)

	b, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	require.Equal(t, int64(len(b)), res.Bytes)
	want := "[\n    {\n        \"Player Name\": \"Ann\",\n        \"Sport\": \"Soccer\",\n        \"Games Played\": 10,\n        \"Goals\": null\n    }\n]\n"
	require.Equal(t, want, string(b))

	for _, e := range hook.AllEntries() {
		if u, ok := e.Data["url"].(string); ok {
			require.NotContains(t, u, "s3cret")
		}
	}
	require.Equal(t, "extract: wrote raw data", hook.LastEntry().Message)
}

func TestRun_NotFoundWritesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	_, err := Run(context.Background(), cfg, nil)
	require.Error(t, err)
	require.True(t, etlerr.Is(err, etlerr.KindNetwork))

	e, ok := etlerr.As(err)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, e.Status)
	require.Contains(t, err.Error(), "404")
	require.False(t, e.Retryable())

	_, statErr := os.Stat(cfg.Extract.Output)
	require.True(t, os.IsNotExist(statErr), "no file should be written on 404")
}

func TestRun_InvalidJSONKeepsPreviousFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"Sport":`))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.Extract.Output), 0o755))
	require.NoError(t, os.WriteFile(cfg.Extract.Output, []byte("previous"), 0o644))

	_, err := Run(context.Background(), cfg, nil)
	require.True(t, etlerr.Is(err, etlerr.KindParse), "got %v", err)

	b, err := os.ReadFile(cfg.Extract.Output)
	require.NoError(t, err)
	require.Equal(t, "previous", string(b))
}

func TestRun_FileURL(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(src, []byte(body), 0o644))

	cfg := testConfig(t, "file://"+src)
	cfg.Extract.APIKey = "ignored"
	res, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	b, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(b), "[\n    {"))

	cfg = testConfig(t, "file://"+filepath.Join(dir, "missing.json"))
	_, err = Run(context.Background(), cfg, nil)
	require.True(t, etlerr.Is(err, etlerr.KindIO), "got %v", err)
}

func TestWithAPIKeyAndRedact(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		param string
		key   string
		want  string
	}{
		{"no key", "https://api.example.com/sport_data.json", "key", "", "https://api.example.com/sport_data.json"},
		{"default param", "https://api.example.com/d.json", "", "k1", "https://api.example.com/d.json?key=k1"},
		{"custom param keeps query", "https://api.example.com/d.json?count=5", "api_key", "k1", "https://api.example.com/d.json?api_key=k1&count=5"},
		{"file untouched", "file:///tmp/d.json", "key", "k1", "file:///tmp/d.json"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithAPIKey(tt.url, tt.param, tt.key)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	require.Equal(t, "https://api.example.com/d.json?key=xxxxx", Redact("https://api.example.com/d.json?key=k1", "key"))
	require.Equal(t, "https://u:xxxxx@h/p", Redact("https://u:pw@h/p", "key"))

	_, err := WithAPIKey("://bad", "key", "k")
	require.True(t, etlerr.Is(err, etlerr.KindConfig))
}
