// Package ledger implements the double-entry journal and its posting
// lifecycle. Entries are created balanced, mutate only while unposted, and
// auto-generated entries stay immutable for their whole life.
package ledger

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType enumerates chart-of-accounts categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// Account code prefixes used to classify P&L accounts. Revenue accounts live
// under "4", expense accounts under "5".
const (
	RevenueCodePrefix = "4"
	ExpenseCodePrefix = "5"
)

// IsRevenueCode reports whether an account code belongs to the revenue range.
func IsRevenueCode(code string) bool {
	return strings.HasPrefix(strings.TrimSpace(code), RevenueCodePrefix)
}

// IsExpenseCode reports whether an account code belongs to the expense range.
func IsExpenseCode(code string) bool {
	return strings.HasPrefix(strings.TrimSpace(code), ExpenseCodePrefix)
}

// EntryType separates user-entered journals from system-generated ones.
type EntryType string

const (
	// EntryTypeManual journals are drafted, edited and posted by users.
	EntryTypeManual EntryType = "MANUAL"
	// EntryTypeAuto journals mirror already-committed business events. They
	// post on creation and are never editable or deletable here.
	EntryTypeAuto EntryType = "AUTO"
)

// TransferKind is the closed set of money-movement categories carried by
// auto entries generated from transfers. Replaces the legacy free string.
type TransferKind string

const (
	TransferBankToBank TransferKind = "BANK_TO_BANK"
	TransferBankToCash TransferKind = "BANK_TO_CASH"
	TransferCashToBank TransferKind = "CASH_TO_BANK"
	TransferCashToCash TransferKind = "CASH_TO_CASH"
)

// Validate rejects transfer kinds outside the enum.
func (k TransferKind) Validate() error {
	switch k {
	case TransferBankToBank, TransferBankToCash, TransferCashToBank, TransferCashToCash:
		return nil
	}
	return ErrInvalidTransferKind
}

// Account models a chart of accounts node. Codes are unique per chart.
type Account struct {
	ID        int64
	Code      string
	Name      string
	Type      AccountType
	ParentID  *int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// JournalEntry is one balanced accounting event.
//
// Ledger amounts are denominated in the base currency by ledger policy; lines
// carry no currency column (see statement.AggregateInput.JournalCurrency).
type JournalEntry struct {
	ID           int64
	Number       string
	Date         time.Time
	Type         EntryType
	Description  string
	IsPosted     bool
	PostedAt     *time.Time
	PostedBy     string
	SourceModule string
	SourceID     uuid.UUID
	Lines        []JournalLine
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// JournalLine is a pure debit or pure credit against one account.
type JournalLine struct {
	ID          int64
	EntryID     int64
	AccountID   int64
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

var (
	// ErrEntryNotFound indicates the referenced journal entry is absent.
	ErrEntryNotFound = errors.New("ledger: journal entry not found")
	// ErrAccountNotFound indicates the referenced account is absent.
	ErrAccountNotFound = errors.New("ledger: account not found")
	// ErrUnbalanced indicates debit sum != credit sum.
	ErrUnbalanced = errors.New("ledger: journal lines must balance")
	// ErrTooFewLines indicates less than two lines.
	ErrTooFewLines = errors.New("ledger: journal requires at least two lines")
	// ErrLineNotSingleSided indicates a line that is not a pure debit or credit.
	ErrLineNotSingleSided = errors.New("ledger: line must be a pure debit or pure credit")
	// ErrAutoImmutable indicates an illegal transition on an auto entry.
	ErrAutoImmutable = errors.New("ledger: auto entries are immutable")
	// ErrAlreadyPosted indicates the entry is posted and blocks the transition.
	ErrAlreadyPosted = errors.New("ledger: entry already posted")
	// ErrNotPosted indicates the entry is not posted.
	ErrNotPosted = errors.New("ledger: entry is not posted")
	// ErrSourceAlreadyLinked indicates an auto entry for the source exists.
	ErrSourceAlreadyLinked = errors.New("ledger: source already linked")
	// ErrDuplicateAccountCode indicates a chart code collision.
	ErrDuplicateAccountCode = errors.New("ledger: duplicate account code")
	// ErrInvalidTransferKind indicates a transfer kind outside the enum.
	ErrInvalidTransferKind = errors.New("ledger: invalid transfer kind")
)
