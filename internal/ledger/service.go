package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/safar-erp/safar-erp/internal/shared"
)

// AuditPort records ledger transitions for compliance.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// ReportInvalidator bumps downstream report caches after a posting change.
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service coordinates the journal entry lifecycle. Preconditions are
// re-validated inside the transaction immediately before mutating, so two
// callers racing on the same entry cannot both win; lock discipline beyond
// that stays with the storage layer.
type Service struct {
	repo       RepositoryPort
	audit      AuditPort
	invalidate ReportInvalidator
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs the ledger service.
func NewService(repo RepositoryPort, audit AuditPort, invalidate ReportInvalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, invalidate: invalidate, logger: logger, now: time.Now}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Create validates and stores a new journal entry. Manual entries start as
// drafts; auto entries post immediately since they mirror committed events.
func (s *Service) Create(ctx context.Context, input CreateInput) (JournalEntry, error) {
	if err := input.Validate(); err != nil {
		return JournalEntry{}, err
	}
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		inserted, err := tx.InsertEntry(ctx, input, s.now())
		if err != nil {
			return err
		}
		if err := tx.InsertLines(ctx, inserted.ID, input.Lines); err != nil {
			return err
		}
		if input.Type == EntryTypeAuto {
			if err := tx.LinkSource(ctx, input.SourceModule, input.SourceID, inserted.ID); err != nil {
				return err
			}
		}
		entry = inserted
		entry.Lines = toLines(inserted.ID, input.Lines)
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	s.record(ctx, input.Actor, "journal.create", entry.ID, map[string]any{
		"number": entry.Number,
		"type":   string(entry.Type),
	})
	if entry.IsPosted {
		s.bump(ctx)
	}
	return entry, nil
}

// Post marks a draft manual entry as final and stamps the actor and time.
func (s *Service) Post(ctx context.Context, input TransitionInput) (JournalEntry, error) {
	if input.EntryID == 0 {
		return JournalEntry{}, errors.New("ledger: entry id required")
	}
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetEntryForUpdate(ctx, input.EntryID)
		if err != nil {
			return err
		}
		if current.Type == EntryTypeAuto {
			return ErrAutoImmutable
		}
		if current.IsPosted {
			return ErrAlreadyPosted
		}
		postedAt := s.now()
		if err := tx.MarkPosted(ctx, current.ID, postedAt, input.Actor); err != nil {
			return err
		}
		current.IsPosted = true
		current.PostedAt = &postedAt
		current.PostedBy = input.Actor
		entry = current
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	s.record(ctx, input.Actor, "journal.post", entry.ID, map[string]any{"number": entry.Number})
	s.bump(ctx)
	return entry, nil
}

// Unpost reverts a posted manual entry to draft, clearing the stamp.
func (s *Service) Unpost(ctx context.Context, input TransitionInput) (JournalEntry, error) {
	if input.EntryID == 0 {
		return JournalEntry{}, errors.New("ledger: entry id required")
	}
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetEntryForUpdate(ctx, input.EntryID)
		if err != nil {
			return err
		}
		if current.Type == EntryTypeAuto {
			return ErrAutoImmutable
		}
		if !current.IsPosted {
			return ErrNotPosted
		}
		if err := tx.ClearPosted(ctx, current.ID); err != nil {
			return err
		}
		current.IsPosted = false
		current.PostedAt = nil
		current.PostedBy = ""
		entry = current
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	s.record(ctx, input.Actor, "journal.unpost", entry.ID, map[string]any{"number": entry.Number})
	s.bump(ctx)
	return entry, nil
}

// Edit replaces the line set of a draft manual entry after re-validating the
// balance invariant.
func (s *Service) Edit(ctx context.Context, input EditInput) (JournalEntry, error) {
	if err := input.Validate(); err != nil {
		return JournalEntry{}, err
	}
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetEntryForUpdate(ctx, input.EntryID)
		if err != nil {
			return err
		}
		if current.Type == EntryTypeAuto {
			return ErrAutoImmutable
		}
		if current.IsPosted {
			return ErrAlreadyPosted
		}
		if err := tx.ReplaceLines(ctx, current.ID, input.Lines); err != nil {
			return err
		}
		if input.Description != "" {
			if err := tx.UpdateDescription(ctx, current.ID, input.Description); err != nil {
				return err
			}
			current.Description = input.Description
		}
		current.Lines = toLines(current.ID, input.Lines)
		entry = current
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	s.record(ctx, input.Actor, "journal.edit", entry.ID, map[string]any{
		"number": entry.Number,
		"lines":  len(entry.Lines),
	})
	return entry, nil
}

// Delete hard-removes a draft manual entry together with its lines. Posted
// entries must be unposted first; auto entries are never deletable.
func (s *Service) Delete(ctx context.Context, input TransitionInput) error {
	if input.EntryID == 0 {
		return errors.New("ledger: entry id required")
	}
	var number string
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetEntryForUpdate(ctx, input.EntryID)
		if err != nil {
			return err
		}
		if current.Type == EntryTypeAuto {
			return ErrAutoImmutable
		}
		if current.IsPosted {
			return ErrAlreadyPosted
		}
		number = current.Number
		// Entry and lines go together or not at all.
		return tx.DeleteEntry(ctx, current.ID)
	})
	if err != nil {
		return err
	}
	s.record(ctx, input.Actor, "journal.delete", input.EntryID, map[string]any{"number": number})
	return nil
}

// Get loads one entry with its lines.
func (s *Service) Get(ctx context.Context, entryID int64) (JournalEntry, error) {
	return s.repo.GetEntry(ctx, entryID)
}

// List retrieves entries newest first.
func (s *Service) List(ctx context.Context) ([]JournalEntry, error) {
	return s.repo.ListEntries(ctx)
}

// ListAccounts retrieves the chart of accounts.
func (s *Service) ListAccounts(ctx context.Context) ([]Account, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *Service) record(ctx context.Context, actor, action string, entryID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Actor:    actor,
		Action:   action,
		Entity:   "journal_entry",
		EntityID: fmt.Sprintf("%d", entryID),
		Meta:     meta,
		At:       s.now(),
	})
}

func (s *Service) bump(ctx context.Context) {
	if s.invalidate == nil {
		return
	}
	if err := s.invalidate.Invalidate(ctx); err != nil && s.logger != nil {
		s.logger.Warn("report cache invalidation failed", slog.Any("error", err))
	}
}

func toLines(entryID int64, lines []LineInput) []JournalLine {
	out := make([]JournalLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, JournalLine{
			EntryID:     entryID,
			AccountID:   line.AccountID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
		})
	}
	return out
}
