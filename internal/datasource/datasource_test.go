package datasource

import (
	"testing"

	"sportetl/internal/datasource/file"
	"sportetl/internal/datasource/httpds"
	"sportetl/internal/etlerr"
)

func TestForURL(t *testing.T) {
	c := httpds.NewClient(httpds.Config{})

	src, err := ForURL("file:///tmp/data.json", c, nil)
	if err != nil {
		t.Fatalf("file url: %v", err)
	}
	if l, ok := src.(*file.Local); !ok || l.Path() != "/tmp/data.json" {
		t.Fatalf("file url resolved to %#v", src)
	}

	src, err = ForURL("https://my.api.mockaroo.com/sport_data.json", c, nil)
	if err != nil {
		t.Fatalf("https url: %v", err)
	}
	if _, ok := src.(*httpds.Source); !ok {
		t.Fatalf("https url resolved to %T", src)
	}

	if _, err := ForURL("ftp://example.com/x", c, nil); !etlerr.Is(err, etlerr.KindConfig) {
		t.Fatalf("expected config error for ftp, got %v", err)
	}
}
