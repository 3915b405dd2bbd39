package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineInput describes one journal line for create/edit requests.
type LineInput struct {
	AccountID   int64
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// CreateInput groups fields required to create a journal entry.
type CreateInput struct {
	Type        EntryType
	Date        time.Time
	Description string
	Actor       string
	// SourceModule/SourceID identify the business event an auto entry
	// mirrors; they make auto creation idempotent.
	SourceModule string
	SourceID     uuid.UUID
	// TransferKind is set on auto entries generated from transfers.
	TransferKind TransferKind
	Lines        []LineInput
}

// EditInput replaces the line set of a draft manual entry.
type EditInput struct {
	EntryID     int64
	Actor       string
	Description string
	Lines       []LineInput
}

// TransitionInput identifies an entry and the actor performing a
// post/unpost/delete. The actor is an opaque attribution stamp; permission
// checks stay with the caller.
type TransitionInput struct {
	EntryID int64
	Actor   string
}

// validateLines enforces the balance invariant shared by create and edit:
// at least two lines, each a pure debit or pure credit, debits equal to
// credits with exact decimal equality.
func validateLines(lines []LineInput) error {
	if len(lines) < 2 {
		return ErrTooFewLines
	}
	debit := decimal.Zero
	credit := decimal.Zero
	for idx, line := range lines {
		if line.AccountID == 0 {
			return fmt.Errorf("ledger: line %d missing account", idx)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("ledger: line %d negative amount", idx)
		}
		debitSet := !line.Debit.IsZero()
		creditSet := !line.Credit.IsZero()
		if debitSet == creditSet {
			return fmt.Errorf("%w: line %d", ErrLineNotSingleSided, idx)
		}
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: debit %s credit %s", ErrUnbalanced, debit, credit)
	}
	return nil
}

// Validate ensures the create request meets the entry invariants.
func (in CreateInput) Validate() error {
	switch in.Type {
	case EntryTypeManual, EntryTypeAuto:
	default:
		return fmt.Errorf("ledger: invalid entry type %q", in.Type)
	}
	if in.Date.IsZero() {
		return errors.New("ledger: entry date required")
	}
	if in.Type == EntryTypeAuto {
		if in.SourceModule == "" {
			return errors.New("ledger: auto entry requires source module")
		}
		if in.SourceID == uuid.Nil {
			return errors.New("ledger: auto entry requires source id")
		}
	}
	if in.TransferKind != "" {
		if err := in.TransferKind.Validate(); err != nil {
			return err
		}
	}
	return validateLines(in.Lines)
}

// Validate re-checks the balance invariant on the replacement line set.
func (in EditInput) Validate() error {
	if in.EntryID == 0 {
		return errors.New("ledger: entry id required")
	}
	return validateLines(in.Lines)
}
