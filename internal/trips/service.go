package trips

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Repository supplies the trip and its matched record sets.
type Repository interface {
	GetTrip(ctx context.Context, tripID int64) (Trip, error)
	Bookings(ctx context.Context, tripID int64) ([]Booking, error)
	SalesInvoices(ctx context.Context, tripID int64) ([]SalesInvoice, error)
	OptionalTours(ctx context.Context, tripID int64) ([]OptionalTour, error)
	Accommodations(ctx context.Context, tripID int64) ([]Accommodation, error)
	Transportations(ctx context.Context, tripID int64) ([]Transportation, error)
	Guides(ctx context.Context, tripID int64) ([]Guide, error)
	PurchaseInvoices(ctx context.Context, tripID int64) ([]PurchaseInvoice, error)
}

// Service loads a trip's records and reconciles them into a report.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService wires the profitability service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Profitability reconciles every record matched to the trip. Sub-record
// fetches are independent and run concurrently.
func (s *Service) Profitability(ctx context.Context, tripID int64) (Report, error) {
	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return Report{}, err
	}

	in := ReconcileInput{Trip: trip}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Bookings, err = s.repo.Bookings(gctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		in.SalesInvoices, err = s.repo.SalesInvoices(gctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		in.OptionalTours, err = s.repo.OptionalTours(gctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		in.Accommodations, err = s.repo.Accommodations(gctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		in.Transportations, err = s.repo.Transportations(gctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		in.Guides, err = s.repo.Guides(gctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		in.PurchaseInvoices, err = s.repo.PurchaseInvoices(gctx, tripID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Reconcile(in)
	for _, warning := range report.Warnings {
		if s.logger != nil {
			s.logger.Warn("trip profitability degraded",
				slog.Int64("trip_id", tripID),
				slog.String("warning", warning))
		}
	}
	return report, nil
}
