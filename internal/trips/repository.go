package trips

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed trip repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) GetTrip(ctx context.Context, tripID int64) (Trip, error) {
	var trip Trip
	err := r.db.QueryRow(ctx, `SELECT id, name, booked_seats, available_seats, selling_price_per_person,
exchange_rate, expected_revenue, legacy_total_cost FROM trips WHERE id=$1`, tripID).
		Scan(&trip.ID, &trip.Name, &trip.BookedSeats, &trip.AvailableSeats, &trip.SellingPricePerPerson,
			&trip.ExchangeRate, &trip.ExpectedRevenue, &trip.LegacyTotalCost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Trip{}, ErrTripNotFound
		}
		return Trip{}, err
	}
	return trip, nil
}

func (r *repository) Bookings(ctx context.Context, tripID int64) ([]Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT id, persons, price_per_person, cancelled FROM trip_bookings WHERE trip_id=$1`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var bookings []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.Persons, &b.PricePerPerson, &b.Cancelled); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *repository) SalesInvoices(ctx context.Context, tripID int64) ([]SalesInvoice, error) {
	rows, err := r.db.Query(ctx, `SELECT id, total FROM sales_invoices WHERE trip_id=$1`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var invoices []SalesInvoice
	for rows.Next() {
		var inv SalesInvoice
		if err := rows.Scan(&inv.ID, &inv.Total); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *repository) OptionalTours(ctx context.Context, tripID int64) ([]OptionalTour, error) {
	rows, err := r.db.Query(ctx, `SELECT id, participants, selling_price, purchase_price, guide_commission, rep_commission
FROM trip_optional_tours WHERE trip_id=$1`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tours []OptionalTour
	for rows.Next() {
		var tour OptionalTour
		if err := rows.Scan(&tour.ID, &tour.Participants, &tour.SellingPrice, &tour.PurchasePrice,
			&tour.GuideCommission, &tour.RepCommission); err != nil {
			return nil, err
		}
		tours = append(tours, tour)
	}
	return tours, rows.Err()
}

func (r *repository) Accommodations(ctx context.Context, tripID int64) ([]Accommodation, error) {
	rows, err := r.db.Query(ctx, `SELECT id, rooms, nights, cost_per_room_per_night FROM trip_accommodations WHERE trip_id=$1`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var stays []Accommodation
	for rows.Next() {
		var stay Accommodation
		if err := rows.Scan(&stay.ID, &stay.Rooms, &stay.Nights, &stay.CostPerRoomPerNight); err != nil {
			return nil, err
		}
		stays = append(stays, stay)
	}
	return stays, rows.Err()
}

func (r *repository) Transportations(ctx context.Context, tripID int64) ([]Transportation, error) {
	rows, err := r.db.Query(ctx, `SELECT id, vehicles, cost_per_vehicle FROM trip_transportations WHERE trip_id=$1`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var transports []Transportation
	for rows.Next() {
		var transport Transportation
		if err := rows.Scan(&transport.ID, &transport.Vehicles, &transport.CostPerVehicle); err != nil {
			return nil, err
		}
		transports = append(transports, transport)
	}
	return transports, rows.Err()
}

func (r *repository) Guides(ctx context.Context, tripID int64) ([]Guide, error) {
	rows, err := r.db.Query(ctx, `SELECT id, base_fee, commission FROM trip_guides WHERE trip_id=$1`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var guides []Guide
	for rows.Next() {
		var guide Guide
		if err := rows.Scan(&guide.ID, &guide.BaseFee, &guide.Commission); err != nil {
			return nil, err
		}
		guides = append(guides, guide)
	}
	return guides, rows.Err()
}

func (r *repository) PurchaseInvoices(ctx context.Context, tripID int64) ([]PurchaseInvoice, error) {
	rows, err := r.db.Query(ctx, `SELECT id, total FROM purchase_invoices WHERE trip_id=$1`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var invoices []PurchaseInvoice
	for rows.Next() {
		var inv PurchaseInvoice
		if err := rows.Scan(&inv.ID, &inv.Total); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}
