package trips

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	_ "github.com/safar-erp/safar-erp/testing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestReconcileTakesMaximumRevenueSource(t *testing.T) {
	// bookings=1000, invoices=800, direct=expected=1200, optional=300.
	report := Reconcile(ReconcileInput{
		Trip: Trip{
			ID:                    1,
			BookedSeats:           12,
			AvailableSeats:        20,
			SellingPricePerPerson: dec("100"),
			ExchangeRate:          dec("1"),
		},
		Bookings: []Booking{
			{ID: 1, Persons: 4, PricePerPerson: dec("125")},
			{ID: 2, Persons: 4, PricePerPerson: dec("125")},
			{ID: 3, Persons: 2, PricePerPerson: dec("0")},
		},
		SalesInvoices: []SalesInvoice{{ID: 1, Total: dec("800")}},
		OptionalTours: []OptionalTour{{ID: 1, Participants: 3, SellingPrice: dec("100")}},
	})
	if !report.Revenue.Equal(dec("1500")) {
		t.Fatalf("expected revenue 1500 (max of sources + optional tours), got %s", report.Revenue)
	}
	if len(report.Warnings) == 0 {
		t.Fatal("expected a disagreement warning when sources differ")
	}
}

func TestReconcileAgreementCarriesNoWarning(t *testing.T) {
	report := Reconcile(ReconcileInput{
		Trip: Trip{
			BookedSeats:           10,
			AvailableSeats:        10,
			SellingPricePerPerson: dec("100"),
			ExchangeRate:          dec("1"),
		},
		Bookings: []Booking{{Persons: 10, PricePerPerson: dec("100")}},
	})
	if !report.Revenue.Equal(dec("1000")) {
		t.Fatalf("expected revenue 1000, got %s", report.Revenue)
	}
	for _, warning := range report.Warnings {
		if strings.Contains(warning, "disagree") {
			t.Fatalf("unexpected disagreement warning: %q", warning)
		}
	}
}

func TestReconcileIgnoresCancelledBookings(t *testing.T) {
	report := Reconcile(ReconcileInput{
		Trip: Trip{AvailableSeats: 10, ExchangeRate: dec("1")},
		Bookings: []Booking{
			{Persons: 2, PricePerPerson: dec("500")},
			{Persons: 8, PricePerPerson: dec("500"), Cancelled: true},
		},
	})
	if report.BookingsCount != 1 || report.TotalParticipants != 2 {
		t.Fatalf("cancelled booking counted: %d/%d", report.BookingsCount, report.TotalParticipants)
	}
	if !report.Revenue.Equal(dec("1000")) {
		t.Fatalf("expected revenue 1000, got %s", report.Revenue)
	}
	if !report.OccupancyRate.Equal(dec("20")) {
		t.Fatalf("expected occupancy 20, got %s", report.OccupancyRate)
	}
}

func TestReconcileCostBuckets(t *testing.T) {
	report := Reconcile(ReconcileInput{
		Trip:            Trip{AvailableSeats: 40},
		Accommodations:  []Accommodation{{Rooms: 10, Nights: 3, CostPerRoomPerNight: dec("50")}},
		Transportations: []Transportation{{Vehicles: 2, CostPerVehicle: dec("400")}},
		Guides:          []Guide{{BaseFee: dec("300"), Commission: dec("45")}},
		OptionalTours: []OptionalTour{
			{Participants: 5, SellingPrice: dec("80"), PurchasePrice: dec("40"), GuideCommission: dec("20"), RepCommission: dec("10")},
		},
		PurchaseInvoices: []PurchaseInvoice{{Total: dec("600")}},
	})
	if !report.Costs.Accommodation.Equal(dec("1500")) {
		t.Fatalf("accommodation: %s", report.Costs.Accommodation)
	}
	if !report.Costs.Transportation.Equal(dec("800")) {
		t.Fatalf("transportation: %s", report.Costs.Transportation)
	}
	if !report.Costs.Guides.Equal(dec("345")) {
		t.Fatalf("guides: %s", report.Costs.Guides)
	}
	if !report.Costs.OptionalTours.Equal(dec("230")) {
		t.Fatalf("optional tours: %s", report.Costs.OptionalTours)
	}
	if !report.Costs.Other.Equal(dec("600")) {
		t.Fatalf("other: %s", report.Costs.Other)
	}
	if !report.TotalCost.Equal(dec("3475")) {
		t.Fatalf("total cost: %s", report.TotalCost)
	}
}

func TestReconcileLegacyCostFallback(t *testing.T) {
	report := Reconcile(ReconcileInput{
		Trip: Trip{LegacyTotalCost: dec("2500")},
	})
	if !report.Costs.Other.Equal(dec("2500")) || !report.TotalCost.Equal(dec("2500")) {
		t.Fatalf("legacy fallback not applied: %+v", report.Costs)
	}

	// Any itemised bucket suppresses the legacy figure entirely.
	itemised := Reconcile(ReconcileInput{
		Trip:   Trip{LegacyTotalCost: dec("2500")},
		Guides: []Guide{{BaseFee: dec("100")}},
	})
	if !itemised.TotalCost.Equal(dec("100")) {
		t.Fatalf("legacy cost double-counted: %s", itemised.TotalCost)
	}
}

func TestReconcileDivideByZeroGuards(t *testing.T) {
	report := Reconcile(ReconcileInput{Trip: Trip{ID: 9}})
	if !report.ProfitMargin.IsZero() || !report.OccupancyRate.IsZero() {
		t.Fatalf("expected zero margin and occupancy, got %s/%s", report.ProfitMargin, report.OccupancyRate)
	}
	if !report.RevenuePerParticipant.IsZero() || !report.CostPerParticipant.IsZero() || !report.ProfitPerParticipant.IsZero() {
		t.Fatal("expected zero per-participant figures")
	}
	found := false
	for _, warning := range report.Warnings {
		if strings.Contains(warning, "no bookings") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected zero-data warning, got %v", report.Warnings)
	}
}

func TestReconcileDerivedMetrics(t *testing.T) {
	report := Reconcile(ReconcileInput{
		Trip:             Trip{AvailableSeats: 20, ExchangeRate: dec("1")},
		Bookings:         []Booking{{Persons: 10, PricePerPerson: dec("300")}},
		PurchaseInvoices: []PurchaseInvoice{{Total: dec("2000")}},
	})
	if !report.Profit.Equal(dec("1000")) {
		t.Fatalf("profit: %s", report.Profit)
	}
	if !report.ProfitMargin.Equal(dec("50")) {
		t.Fatalf("margin: %s", report.ProfitMargin)
	}
	if !report.OccupancyRate.Equal(dec("50")) {
		t.Fatalf("occupancy: %s", report.OccupancyRate)
	}
	if !report.RevenuePerParticipant.Equal(dec("300")) {
		t.Fatalf("revenue per participant: %s", report.RevenuePerParticipant)
	}
	if !report.CostPerParticipant.Equal(dec("200")) {
		t.Fatalf("cost per participant: %s", report.CostPerParticipant)
	}
	if !report.ProfitPerParticipant.Equal(dec("100")) {
		t.Fatalf("profit per participant: %s", report.ProfitPerParticipant)
	}
}

func TestReconcileStoredExpectedRevenueWins(t *testing.T) {
	report := Reconcile(ReconcileInput{
		Trip: Trip{
			BookedSeats:           5,
			AvailableSeats:        10,
			SellingPricePerPerson: dec("100"),
			ExchangeRate:          dec("1"),
			ExpectedRevenue:       dec("900"),
		},
	})
	// direct=500, stored expectation=900; the maximum wins.
	if !report.Revenue.Equal(dec("900")) {
		t.Fatalf("expected stored projection 900, got %s", report.Revenue)
	}
}
