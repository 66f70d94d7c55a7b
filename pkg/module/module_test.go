package module

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func siteOptions() Options {
	return Options{
		{Name: "login", Label: "Username", Kind: KindString, Required: true},
		{Name: "password", Label: "Password", Kind: KindPassword, Required: true},
		{Name: "website", Label: "Website", Kind: KindChoice, Default: "pro",
			Choices: map[string]string{"pro": "Professional", "part": "Personal"}},
		{Name: "otp", Label: "One-time code", Kind: KindString, Validate: "omitempty,numeric,len=6"},
		{Name: "insecure", Label: "Skip TLS checks", Kind: KindBool, Default: "false"},
	}
}

func TestOptionsResolve(t *testing.T) {
	opts := siteOptions()

	t.Run("defaults fill missing values", func(t *testing.T) {
		got, err := opts.Resolve(Values{"login": "user", "password": "pass"})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		want := Values{
			"login":    "user",
			"password": "pass",
			"website":  "pro",
			"otp":      "",
			"insecure": "false",
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Resolve() = %v, want %v", got, want)
		}
	})

	t.Run("missing required option", func(t *testing.T) {
		_, err := opts.Resolve(Values{"login": "user"})
		var cerr *ConfigError
		if !errors.As(err, &cerr) {
			t.Fatalf("Resolve() error = %v, want ConfigError", err)
		}
		if cerr.Option != "password" {
			t.Errorf("failing option = %q", cerr.Option)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		_, err := opts.Resolve(Values{"login": "u", "password": "p", "typo": "x"})
		var cerr *ConfigError
		if !errors.As(err, &cerr) || cerr.Option != "typo" {
			t.Fatalf("Resolve() error = %v", err)
		}
	})

	t.Run("choice must be declared", func(t *testing.T) {
		_, err := opts.Resolve(Values{"login": "u", "password": "p", "website": "other"})
		var cerr *ConfigError
		if !errors.As(err, &cerr) || cerr.Option != "website" {
			t.Fatalf("Resolve() error = %v", err)
		}
	})

	t.Run("bool must parse", func(t *testing.T) {
		_, err := opts.Resolve(Values{"login": "u", "password": "p", "insecure": "maybe"})
		var cerr *ConfigError
		if !errors.As(err, &cerr) || cerr.Option != "insecure" {
			t.Fatalf("Resolve() error = %v", err)
		}
	})

	t.Run("validator tag applies", func(t *testing.T) {
		if _, err := opts.Resolve(Values{"login": "u", "password": "p", "otp": "123456"}); err != nil {
			t.Fatalf("Resolve() rejected a valid OTP: %v", err)
		}
		_, err := opts.Resolve(Values{"login": "u", "password": "p", "otp": "12ab"})
		var cerr *ConfigError
		if !errors.As(err, &cerr) || cerr.Option != "otp" {
			t.Fatalf("Resolve() error = %v", err)
		}
	})
}

func TestValuesGetBool(t *testing.T) {
	v := Values{"a": "true", "b": "0", "c": "junk"}
	if !v.GetBool("a") {
		t.Error(`GetBool("a") = false`)
	}
	if v.GetBool("b") || v.GetBool("c") || v.GetBool("missing") {
		t.Error("GetBool() = true for a non-true value")
	}
}

func TestOptionDisplay(t *testing.T) {
	pw := Option{Name: "password", Kind: KindPassword}
	if got := pw.Display("hunter2"); got != "********" {
		t.Errorf("Display() = %q", got)
	}
	if got := pw.Display(""); got != "" {
		t.Errorf("Display(empty) = %q", got)
	}
	plain := Option{Name: "login", Kind: KindString}
	if got := plain.Display("user"); got != "user" {
		t.Errorf("Display() = %q", got)
	}
}

type fakeBackend struct {
	cfg Values
}

func (f *fakeBackend) Hello() string { return "hi" }

func TestRegistry(t *testing.T) {
	newModule := func(name string) *Module {
		return &Module{
			Name:    name,
			Options: siteOptions(),
			Build: func(ctx context.Context, cfg Values) (any, error) {
				return &fakeBackend{cfg: cfg}, nil
			},
		}
	}

	t.Run("register and build", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register(newModule("demobank")); err != nil {
			t.Fatalf("Register() error = %v", err)
		}

		backend, err := r.Build(context.Background(), "demobank",
			Values{"login": "u", "password": "p"})
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		fb, ok := backend.(*fakeBackend)
		if !ok {
			t.Fatalf("backend is %T", backend)
		}
		if fb.cfg["website"] != "pro" {
			t.Errorf("backend config = %v, defaults not resolved", fb.cfg)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register(newModule("demobank")); err != nil {
			t.Fatal(err)
		}
		if err := r.Register(newModule("demobank")); err == nil {
			t.Fatal("Register() accepted a duplicate")
		}
	})

	t.Run("nameless or nil module", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register(nil); err == nil {
			t.Error("Register(nil) succeeded")
		}
		if err := r.Register(&Module{Name: ""}); err == nil {
			t.Error("Register() accepted an empty name")
		}
	})

	t.Run("constructor required", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register(&Module{Name: "x"}); err == nil {
			t.Error("Register() accepted a module without Build")
		}
	})

	t.Run("names in registration order", func(t *testing.T) {
		r := NewRegistry()
		for _, n := range []string{"zeta", "alpha", "mid"} {
			if err := r.Register(newModule(n)); err != nil {
				t.Fatal(err)
			}
		}
		got := r.Names()
		want := []string{"zeta", "alpha", "mid"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Names() = %v, want %v", got, want)
		}
	})

	t.Run("unknown module", func(t *testing.T) {
		r := NewRegistry()
		if _, err := r.Build(context.Background(), "nope", nil); err == nil {
			t.Fatal("Build() succeeded for an unregistered module")
		}
	})

	t.Run("invalid config surfaces the option", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register(newModule("demobank")); err != nil {
			t.Fatal(err)
		}
		_, err := r.Build(context.Background(), "demobank", Values{"login": "u"})
		var cerr *ConfigError
		if !errors.As(err, &cerr) || cerr.Option != "password" {
			t.Fatalf("Build() error = %v", err)
		}
	})
}

type greeter interface{ Hello() string }

func TestAs(t *testing.T) {
	backend := any(&fakeBackend{})
	if g, ok := As[greeter](backend); !ok || g.Hello() != "hi" {
		t.Errorf("As[greeter]() = %v, %v", g, ok)
	}
	if _, ok := As[interface{ Bye() }](backend); ok {
		t.Error("As() claimed an unimplemented capability")
	}
}
