package browser

import (
	"errors"
	"testing"
)

func newTestBrowser(t *testing.T, base string, routes ...*URL) *Browser {
	t.Helper()
	b, err := New(Config{BaseURL: base}, routes...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return b
}

func TestURLMatch(t *testing.T) {
	u := &URL{Patterns: []string{`/accounts/(?P<id>[\w-]+)/history`}}
	newTestBrowser(t, "https://bank.example", u)

	t.Run("named groups become args", func(t *testing.T) {
		args, ok := u.Match("https://bank.example/accounts/chk-1/history")
		if !ok {
			t.Fatal("Match() = false")
		}
		if args["id"] != "chk-1" {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("other host does not match", func(t *testing.T) {
		if _, ok := u.Match("https://evil.example/accounts/chk-1/history"); ok {
			t.Error("Match() accepted a foreign host")
		}
	})

	t.Run("path prefix alone does not match", func(t *testing.T) {
		if _, ok := u.Match("https://bank.example/other/accounts/chk-1/history"); ok {
			t.Error("pattern is not anchored at the base")
		}
	})
}

func TestURLMatch_AbsolutePattern(t *testing.T) {
	u := &URL{Patterns: []string{`https://api\.bank\.example/v1/accounts`}}
	newTestBrowser(t, "https://bank.example", u)

	if _, ok := u.Match("https://api.bank.example/v1/accounts"); !ok {
		t.Error("absolute pattern should match regardless of the base URL")
	}
	if _, ok := u.Match("https://bank.example/v1/accounts"); ok {
		t.Error("absolute pattern matched the base host")
	}
}

func TestURLBuild(t *testing.T) {
	u := &URL{Patterns: []string{`/accounts/(?P<id>[\w-]+)/history\?page=(?P<page>\d+)`}}
	newTestBrowser(t, "https://bank.example", u)

	t.Run("substitutes named groups", func(t *testing.T) {
		got, err := u.Build(Args{"id": "chk-1", "page": "2"})
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		want := "https://bank.example/accounts/chk-1/history?page=2"
		if got != want {
			t.Errorf("Build() = %q, want %q", got, want)
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := u.Build(Args{"id": "chk-1"})
		var uerr *UnresolvableURLError
		if !errors.As(err, &uerr) {
			t.Fatalf("Build() error = %v, want UnresolvableURLError", err)
		}
	})

	t.Run("unused argument", func(t *testing.T) {
		_, err := u.Build(Args{"id": "chk-1", "page": "2", "extra": "x"})
		var uerr *UnresolvableURLError
		if !errors.As(err, &uerr) {
			t.Fatalf("Build() error = %v, want UnresolvableURLError", err)
		}
	})
}

func TestURLBuild_NonLiteralPattern(t *testing.T) {
	u := &URL{Patterns: []string{`/files/.*\.pdf`}}
	newTestBrowser(t, "https://bank.example", u)

	_, err := u.Build(nil)
	var uerr *UnresolvableURLError
	if !errors.As(err, &uerr) {
		t.Fatalf("Build() error = %v, want UnresolvableURLError", err)
	}
}

func TestURLBuild_NoArgs(t *testing.T) {
	u := &URL{Patterns: []string{`/login`}}
	newTestBrowser(t, "https://bank.example", u)

	got, err := u.Build(nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got != "https://bank.example/login" {
		t.Errorf("Build() = %q", got)
	}
}

func TestURLBuild_FallsBackAcrossPatterns(t *testing.T) {
	u := &URL{Patterns: []string{`/accounts$`, `/accounts/(?P<id>[\w-]+)`}}
	newTestBrowser(t, "https://bank.example", u)

	got, err := u.Build(Args{"id": "sav-1"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got != "https://bank.example/accounts/sav-1" {
		t.Errorf("Build() = %q", got)
	}
}

func TestCompilePattern_InvalidRegexp(t *testing.T) {
	_, err := New(Config{BaseURL: "https://bank.example"},
		&URL{Patterns: []string{`/accounts/(?P<id>[`}})
	if err == nil {
		t.Fatal("New() accepted an invalid pattern")
	}
}
