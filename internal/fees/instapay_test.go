package fees

import (
	"testing"

	"github.com/shopspring/decimal"

	_ "github.com/safar-erp/safar-erp/testing"
)

func TestCommissionTiers(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "0"},
		{"50", "0"},
		{"99.99", "0"},
		{"100", "0.50"},
		{"250", "0.50"},
		{"500", "0.50"},
		{"500.01", "0.60"},
		{"600", "0.60"},
		{"601", "0.70"},
		{"1000", "1.00"},
		{"2500", "2.50"},
		{"50000", "20"},
	}
	for _, tc := range cases {
		got := Commission(DirectionExpense, decimal.RequireFromString(tc.amount))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("commission(%s): expected %s got %s", tc.amount, tc.want, got)
		}
	}
}

func TestCommissionCap(t *testing.T) {
	// 0.50 + ceil((2450-500)/100)*0.10 = 2.45+... crosses the cap well before
	// this amount; anything huge stays pinned at 20.
	got := Commission(DirectionExpense, decimal.NewFromInt(1000000))
	if !got.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected capped fee 20, got %s", got)
	}
}

func TestIncomeDirectionSuppressed(t *testing.T) {
	for _, amount := range []int64{50, 100, 500, 600, 50000} {
		a := decimal.NewFromInt(amount)
		if fee := Commission(DirectionIncome, a); !fee.IsZero() {
			t.Fatalf("income commission(%d): expected 0 got %s", amount, fee)
		}
		net, fee := Net(DirectionIncome, a)
		if !net.Equal(a) || !fee.IsZero() {
			t.Fatalf("income net(%d): expected gross amount and zero fee, got %s/%s", amount, net, fee)
		}
	}
}

func TestNetExpenseAddsCommission(t *testing.T) {
	net, fee := Net(DirectionExpense, decimal.NewFromInt(600))
	if !fee.Equal(decimal.RequireFromString("0.60")) {
		t.Fatalf("unexpected fee: %s", fee)
	}
	if !net.Equal(decimal.RequireFromString("600.60")) {
		t.Fatalf("unexpected net: %s", net)
	}
}

func TestDirectionValidate(t *testing.T) {
	if err := DirectionExpense.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Direction("TRANSFER").Validate(); err == nil {
		t.Fatal("expected invalid direction error")
	}
}
