package capabilities

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValue(t *testing.T) {
	t.Run("zero value is not loaded", func(t *testing.T) {
		var v Value[string]
		if v.State() != NotLoaded {
			t.Errorf("State() = %v, want NotLoaded", v.State())
		}
		if _, ok := v.Get(); ok {
			t.Error("Get() reported a value on zero Value")
		}
		if got := v.Or("fallback"); got != "fallback" {
			t.Errorf("Or() = %q", got)
		}
	})

	t.Run("loaded", func(t *testing.T) {
		v := Of("hello")
		if v.State() != Loaded {
			t.Errorf("State() = %v, want Loaded", v.State())
		}
		got, ok := v.Get()
		if !ok || got != "hello" {
			t.Errorf("Get() = %q, %v", got, ok)
		}
		if v.Or("fallback") != "hello" {
			t.Error("Or() ignored the loaded value")
		}
		if v.String() != "hello" {
			t.Errorf("String() = %q", v.String())
		}
	})

	t.Run("confirmed absent", func(t *testing.T) {
		v := NA[int]()
		if v.State() != NotAvailable {
			t.Errorf("State() = %v, want NotAvailable", v.State())
		}
		if v.Or(42) != 42 {
			t.Error("Or() should fall back on NotAvailable")
		}
		if v.String() != "not available" {
			t.Errorf("String() = %q", v.String())
		}
	})
}

func TestAssign(t *testing.T) {
	t.Run("value", func(t *testing.T) {
		var dst Value[string]
		if err := Assign(&dst, "x"); err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
		if got, ok := dst.Get(); !ok || got != "x" {
			t.Errorf("Get() = %q, %v", got, ok)
		}
	})

	t.Run("nil maps to not available", func(t *testing.T) {
		var dst Value[string]
		if err := Assign(&dst, nil); err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
		if dst.State() != NotAvailable {
			t.Errorf("State() = %v, want NotAvailable", dst.State())
		}
	})

	t.Run("sentinel keeps its state", func(t *testing.T) {
		var dst Value[decimal.Decimal]
		if err := Assign(&dst, Absent); err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
		if dst.State() != NotAvailable {
			t.Errorf("Absent gave State() = %v", dst.State())
		}
		if err := Assign(&dst, Unfetched); err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
		if dst.State() != NotLoaded {
			t.Errorf("Unfetched gave State() = %v", dst.State())
		}
	})

	t.Run("type mismatch", func(t *testing.T) {
		var dst Value[decimal.Decimal]
		err := Assign(&dst, "12.34")
		if err == nil {
			t.Fatal("Assign() accepted a string into a decimal field")
		}
		if !strings.Contains(err.Error(), "string") || !strings.Contains(err.Error(), "decimal.Decimal") {
			t.Errorf("error %q does not name both types", err)
		}
	})
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{name: "nil", v: nil, want: true},
		{name: "absent", v: Absent, want: true},
		{name: "unfetched", v: Unfetched, want: true},
		{name: "empty string is a value", v: "", want: false},
		{name: "zero int is a value", v: 0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmpty(tt.v); got != tt.want {
				t.Errorf("IsEmpty(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "€", want: "EUR"},
		{in: "$", want: "USD"},
		{in: "eur", want: "EUR"},
		{in: "GBP", want: "GBP"},
		{in: "1 234,56 €", want: "EUR"},
		{in: "  chf ", want: "CHF"},
		{in: "", want: ""},
		{in: "12%", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Currency(tt.in); got != tt.want {
				t.Errorf("Currency(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAccountTypeString(t *testing.T) {
	if AccountSavings.String() != "savings" {
		t.Errorf("String() = %q", AccountSavings.String())
	}
	if AccountType(99).String() != "unknown" {
		t.Errorf("out-of-range String() = %q", AccountType(99).String())
	}
}
