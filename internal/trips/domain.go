// Package trips reconciles the redundant revenue and cost records of one
// trip or Umrah package into a single profitability report.
package trips

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrTripNotFound indicates the referenced trip is absent.
var ErrTripNotFound = errors.New("trips: trip not found")

// Trip is the package master record. SellingPricePerPerson is quoted in the
// sales currency; ExchangeRate converts it to the base currency for the
// direct-revenue figure.
type Trip struct {
	ID                    int64
	Name                  string
	BookedSeats           int
	AvailableSeats        int
	SellingPricePerPerson decimal.Decimal
	ExchangeRate          decimal.Decimal
	// ExpectedRevenue is the pre-computed projection stored with the trip;
	// zero means "derive it the same way as the direct figure".
	ExpectedRevenue decimal.Decimal
	// LegacyTotalCost is the old aggregate cost column kept for trips that
	// predate itemised cost records.
	LegacyTotalCost decimal.Decimal
}

// Booking is one reservation against the trip.
type Booking struct {
	ID             int64
	Persons        int
	PricePerPerson decimal.Decimal
	Cancelled      bool
}

// OptionalTour is an excursion sold on top of the base package. It never
// appears in the other revenue sources.
type OptionalTour struct {
	ID              int64
	Participants    int
	SellingPrice    decimal.Decimal
	PurchasePrice   decimal.Decimal
	GuideCommission decimal.Decimal
	RepCommission   decimal.Decimal
}

// Accommodation is one hotel block booked for the trip.
type Accommodation struct {
	ID                  int64
	Rooms               int
	Nights              int
	CostPerRoomPerNight decimal.Decimal
}

// Transportation is one vehicle booking for the trip.
type Transportation struct {
	ID             int64
	Vehicles       int
	CostPerVehicle decimal.Decimal
}

// Guide is one tour guide engagement.
type Guide struct {
	ID         int64
	BaseFee    decimal.Decimal
	Commission decimal.Decimal
}

// PurchaseInvoice is a supplier invoice matched to the trip.
type PurchaseInvoice struct {
	ID    int64
	Total decimal.Decimal
}

// SalesInvoice is a customer invoice matched to the trip.
type SalesInvoice struct {
	ID    int64
	Total decimal.Decimal
}

// CostBreakdown keeps the cost buckets apart; callers need the split, never
// one opaque number.
type CostBreakdown struct {
	Accommodation  decimal.Decimal `json:"accommodation"`
	Transportation decimal.Decimal `json:"transportation"`
	Guides         decimal.Decimal `json:"guides"`
	OptionalTours  decimal.Decimal `json:"optionalTours"`
	Other          decimal.Decimal `json:"other"`
}

// Total sums every bucket.
func (c CostBreakdown) Total() decimal.Decimal {
	return c.Accommodation.Add(c.Transportation).Add(c.Guides).Add(c.OptionalTours).Add(c.Other)
}

// Report is the reconciled profitability of one trip. Immutable once
// returned; amounts are base-currency figures.
type Report struct {
	TripID            int64           `json:"tripId"`
	TripName          string          `json:"tripName"`
	Revenue           decimal.Decimal `json:"revenue"`
	Costs             CostBreakdown   `json:"costs"`
	TotalCost         decimal.Decimal `json:"totalCost"`
	Profit            decimal.Decimal `json:"profit"`
	ProfitMargin      decimal.Decimal `json:"profitMargin"`
	BookingsCount     int             `json:"bookingsCount"`
	TotalParticipants int             `json:"totalParticipants"`
	AvailableSeats    int             `json:"availableSeats"`
	OccupancyRate     decimal.Decimal `json:"occupancyRate"`

	RevenuePerParticipant decimal.Decimal `json:"revenuePerParticipant"`
	CostPerParticipant    decimal.Decimal `json:"costPerParticipant"`
	ProfitPerParticipant  decimal.Decimal `json:"profitPerParticipant"`

	Warnings []string `json:"warnings,omitempty"`
}
