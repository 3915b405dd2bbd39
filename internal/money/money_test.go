package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	_ "github.com/safar-erp/safar-erp/testing"
)

func TestAddSameCurrency(t *testing.T) {
	a := New(decimal.RequireFromString("10.25"), "EGP")
	b := New(decimal.RequireFromString("4.75"), "EGP")

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.Amount().Equal(decimal.RequireFromString("15")) {
		t.Fatalf("unexpected sum: %s", sum)
	}
	if sum.CurrencyCode() != "EGP" {
		t.Fatalf("unexpected currency: %s", sum.CurrencyCode())
	}
}

func TestAddRejectsCurrencyMismatch(t *testing.T) {
	a := New(decimal.NewFromInt(100), "USD")
	b := New(decimal.NewFromInt(50), "EGP")

	if _, err := a.Add(b); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
	if _, err := a.Sub(b); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
	if _, err := a.Cmp(b); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestRegistryRequiresSingleBase(t *testing.T) {
	if _, err := NewRegistry([]Currency{{Code: "EGP"}, {Code: "USD"}}); !errors.Is(err, ErrNoBaseCurrency) {
		t.Fatalf("expected ErrNoBaseCurrency, got %v", err)
	}
	if _, err := NewRegistry([]Currency{{Code: "EGP", IsBase: true}, {Code: "USD", IsBase: true}}); !errors.Is(err, ErrMultipleBaseCurrencies) {
		t.Fatalf("expected ErrMultipleBaseCurrencies, got %v", err)
	}
	if _, err := NewRegistry([]Currency{{Code: "EGP", IsBase: true}, {Code: "egp"}}); !errors.Is(err, ErrDuplicateCurrency) {
		t.Fatalf("expected ErrDuplicateCurrency, got %v", err)
	}
}

func TestRegistryResolve(t *testing.T) {
	reg, err := NewRegistry([]Currency{
		{Code: "EGP", Name: "Egyptian Pound", Symbol: "£", IsBase: true},
		{Code: "USD", Name: "US Dollar", Symbol: "$"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Base().Code != "EGP" {
		t.Fatalf("unexpected base: %s", reg.Base().Code)
	}
	if _, ok := reg.Resolve("usd"); !ok {
		t.Fatal("expected case-insensitive resolve")
	}
	if _, ok := reg.Resolve("SAR"); ok {
		t.Fatal("expected SAR to be unknown")
	}
	codes := reg.Codes()
	if len(codes) != 2 || codes[0] != "EGP" || codes[1] != "USD" {
		t.Fatalf("unexpected codes: %v", codes)
	}
}
