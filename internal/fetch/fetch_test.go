package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStaticFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprintf(w, "<p>hello %s</p>", r.Header.Get("X-Run"))
		case "/missing":
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewStatic(Config{})
	defer f.Close()

	t.Run("fetches body and metadata", func(t *testing.T) {
		res, err := f.Fetch(context.Background(), srv.URL+"/page", Options{
			Headers: map[string]string{"X-Run": "42"},
		})
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if res.StatusCode != http.StatusOK {
			t.Errorf("StatusCode = %d", res.StatusCode)
		}
		if !strings.Contains(res.ContentType, "text/html") {
			t.Errorf("ContentType = %q", res.ContentType)
		}
		if !strings.Contains(string(res.Body), "hello 42") {
			t.Errorf("Body = %q, custom header not sent", res.Body)
		}
		if res.FetchedAt.IsZero() {
			t.Error("FetchedAt not set")
		}
	})

	t.Run("http error surfaces", func(t *testing.T) {
		res, err := f.Fetch(context.Background(), srv.URL+"/missing", Options{})
		if err == nil {
			t.Fatal("Fetch() succeeded on a 404")
		}
		if res.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d", res.StatusCode)
		}
	})
}

func TestNewMode(t *testing.T) {
	if _, err := New(Mode("carrier-pigeon"), Config{}); err == nil {
		t.Fatal("New() accepted an unknown mode")
	}
	f, err := New(ModeStatic, Config{})
	if err != nil {
		t.Fatalf("New(static) error = %v", err)
	}
	if _, ok := f.(*Static); !ok {
		t.Errorf("New(static) = %T", f)
	}
}

func TestNeedsRendering(t *testing.T) {
	tests := []struct {
		name string
		body string
		ct   string
		want bool
	}{
		{
			name: "server rendered page",
			body: `<html><body><h1>Products</h1><ul><li>a</li></ul></body></html>`,
			ct:   "text/html",
			want: false,
		},
		{
			name: "empty react mount point",
			body: `<html><body><div id="root"></div><script src="/app.js"></script></body></html>`,
			ct:   "text/html",
			want: true,
		},
		{
			name: "empty vue mount point",
			body: `<html><body><div id="app"></div></body></html>`,
			ct:   "text/html",
			want: true,
		},
		{
			name: "noscript warning",
			body: `<html><body><noscript>Please enable JavaScript</noscript></body></html>`,
			ct:   "text/html",
			want: true,
		},
		{
			name: "json is never rendered",
			body: `{"root": ""}`,
			ct:   "application/json",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := needsRendering(Result{Body: []byte(tt.body), ContentType: tt.ct})
			if got != tt.want {
				t.Errorf("needsRendering() = %v, want %v", got, tt.want)
			}
		})
	}
}
