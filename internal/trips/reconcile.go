package trips

import (
	"github.com/shopspring/decimal"
)

// ReconcileInput carries every record set matched to one trip.
type ReconcileInput struct {
	Trip             Trip
	Bookings         []Booking
	SalesInvoices    []SalesInvoice
	OptionalTours    []OptionalTour
	Accommodations   []Accommodation
	Transportations  []Transportation
	Guides           []Guide
	PurchaseInvoices []PurchaseInvoice
}

var hundred = decimal.NewFromInt(100)

// Reconcile merges the overlapping revenue and cost sources into one report.
//
// The same sale is often recorded several times over — as a booking, as a
// sales invoice, and as the trip's own seat projection — so base revenue is
// the MAXIMUM of the four figures, not their sum. Optional-tour revenue is
// the one source the others never see and is always added on top. A trip
// with no data at all yields an all-zero report with a warning, never an
// error.
func Reconcile(in ReconcileInput) Report {
	report := Report{
		TripID:         in.Trip.ID,
		TripName:       in.Trip.Name,
		AvailableSeats: in.Trip.AvailableSeats,
	}

	bookingRevenue := decimal.Zero
	for _, booking := range in.Bookings {
		if booking.Cancelled {
			continue
		}
		report.BookingsCount++
		report.TotalParticipants += booking.Persons
		bookingRevenue = bookingRevenue.Add(decimal.NewFromInt(int64(booking.Persons)).Mul(booking.PricePerPerson))
	}

	invoiceRevenue := decimal.Zero
	for _, inv := range in.SalesInvoices {
		invoiceRevenue = invoiceRevenue.Add(inv.Total)
	}

	directRevenue := decimal.NewFromInt(int64(in.Trip.BookedSeats)).
		Mul(in.Trip.SellingPricePerPerson).
		Mul(in.Trip.ExchangeRate)

	expectedRevenue := in.Trip.ExpectedRevenue
	if expectedRevenue.IsZero() {
		expectedRevenue = directRevenue
	}

	baseRevenue := maxDecimal(bookingRevenue, invoiceRevenue, directRevenue, expectedRevenue)
	if disagreeing(bookingRevenue, invoiceRevenue, directRevenue, expectedRevenue) {
		report.Warnings = append(report.Warnings,
			"revenue sources disagree; reporting the maximum to avoid double counting")
	}

	optionalRevenue := decimal.Zero
	for _, tour := range in.OptionalTours {
		optionalRevenue = optionalRevenue.Add(decimal.NewFromInt(int64(tour.Participants)).Mul(tour.SellingPrice))
		report.Costs.OptionalTours = report.Costs.OptionalTours.
			Add(decimal.NewFromInt(int64(tour.Participants)).Mul(tour.PurchasePrice)).
			Add(tour.GuideCommission).
			Add(tour.RepCommission)
	}
	report.Revenue = baseRevenue.Add(optionalRevenue)

	for _, stay := range in.Accommodations {
		report.Costs.Accommodation = report.Costs.Accommodation.
			Add(decimal.NewFromInt(int64(stay.Rooms)).
				Mul(decimal.NewFromInt(int64(stay.Nights))).
				Mul(stay.CostPerRoomPerNight))
	}
	for _, transport := range in.Transportations {
		report.Costs.Transportation = report.Costs.Transportation.
			Add(decimal.NewFromInt(int64(transport.Vehicles)).Mul(transport.CostPerVehicle))
	}
	for _, guide := range in.Guides {
		report.Costs.Guides = report.Costs.Guides.Add(guide.BaseFee).Add(guide.Commission)
	}
	for _, inv := range in.PurchaseInvoices {
		report.Costs.Other = report.Costs.Other.Add(inv.Total)
	}

	// The legacy aggregate column backs trips without itemised cost records.
	// It never stacks on top of the detailed buckets.
	if report.Costs.Total().IsZero() && !in.Trip.LegacyTotalCost.IsZero() {
		report.Costs.Other = in.Trip.LegacyTotalCost
		report.Warnings = append(report.Warnings,
			"no itemised costs recorded; falling back to the trip's legacy total cost")
	}

	report.TotalCost = report.Costs.Total()
	report.Profit = report.Revenue.Sub(report.TotalCost)
	if !report.TotalCost.IsZero() {
		report.ProfitMargin = report.Profit.Div(report.TotalCost).Mul(hundred)
	}
	if report.AvailableSeats > 0 {
		report.OccupancyRate = decimal.NewFromInt(int64(report.TotalParticipants)).
			Div(decimal.NewFromInt(int64(report.AvailableSeats))).
			Mul(hundred)
	}
	if report.TotalParticipants > 0 {
		participants := decimal.NewFromInt(int64(report.TotalParticipants))
		report.RevenuePerParticipant = report.Revenue.Div(participants)
		report.CostPerParticipant = report.TotalCost.Div(participants)
		report.ProfitPerParticipant = report.Profit.Div(participants)
	}

	if report.Revenue.IsZero() && report.TotalCost.IsZero() && report.BookingsCount == 0 {
		report.Warnings = append(report.Warnings, "no bookings or costs recorded for this trip")
	}
	return report
}

func maxDecimal(first decimal.Decimal, rest ...decimal.Decimal) decimal.Decimal {
	winner := first
	for _, v := range rest {
		if v.GreaterThan(winner) {
			winner = v
		}
	}
	return winner
}

// disagreeing reports whether more than one revenue source holds a non-zero
// figure and those figures differ. The max-rule quietly covers agreement;
// disagreement deserves a data-integrity warning.
func disagreeing(values ...decimal.Decimal) bool {
	var seen *decimal.Decimal
	for i := range values {
		if values[i].IsZero() {
			continue
		}
		if seen == nil {
			seen = &values[i]
			continue
		}
		if !seen.Equal(values[i]) {
			return true
		}
	}
	return false
}
