package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/safar-erp/safar-erp/internal/platform/db"
)

// RepositoryPort abstracts journal storage.
type RepositoryPort interface {
	GetEntry(ctx context.Context, entryID int64) (JournalEntry, error)
	ListEntries(ctx context.Context) ([]JournalEntry, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes mutations available within a transaction.
type TxRepository interface {
	InsertEntry(ctx context.Context, in CreateInput, now time.Time) (JournalEntry, error)
	InsertLines(ctx context.Context, entryID int64, lines []LineInput) error
	LinkSource(ctx context.Context, module string, ref uuid.UUID, entryID int64) error
	GetEntryForUpdate(ctx context.Context, entryID int64) (JournalEntry, error)
	MarkPosted(ctx context.Context, entryID int64, postedAt time.Time, actor string) error
	ClearPosted(ctx context.Context, entryID int64) error
	ReplaceLines(ctx context.Context, entryID int64, lines []LineInput) error
	UpdateDescription(ctx context.Context, entryID int64, description string) error
	DeleteEntry(ctx context.Context, entryID int64) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed journal repository.
func NewRepository(db *pgxpool.Pool) RepositoryPort {
	return &repository{db: db}
}

const entryColumns = `id, number, date, type, description, is_posted, posted_at, posted_by, source_module, source_id, created_at, updated_at`

func scanEntry(row pgx.Row) (JournalEntry, error) {
	var e JournalEntry
	var postedBy *string
	var sourceModule *string
	var sourceID *uuid.UUID
	err := row.Scan(&e.ID, &e.Number, &e.Date, &e.Type, &e.Description, &e.IsPosted, &e.PostedAt, &postedBy, &sourceModule, &sourceID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return JournalEntry{}, err
	}
	if postedBy != nil {
		e.PostedBy = *postedBy
	}
	if sourceModule != nil {
		e.SourceModule = *sourceModule
	}
	if sourceID != nil {
		e.SourceID = *sourceID
	}
	return e, nil
}

func (r *repository) GetEntry(ctx context.Context, entryID int64) (JournalEntry, error) {
	entry, err := scanEntry(r.db.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE id=$1`, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JournalEntry{}, ErrEntryNotFound
		}
		return JournalEntry{}, err
	}
	lines, err := r.loadLines(ctx, entryID)
	if err != nil {
		return JournalEntry{}, err
	}
	entry.Lines = lines
	return entry, nil
}

func (r *repository) loadLines(ctx context.Context, entryID int64) ([]JournalLine, error) {
	rows, err := r.db.Query(ctx, `SELECT id, entry_id, account_id, debit, credit, description FROM journal_lines WHERE entry_id=$1 ORDER BY id ASC`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []JournalLine
	for rows.Next() {
		var line JournalLine
		if err := rows.Scan(&line.ID, &line.EntryID, &line.AccountID, &line.Debit, &line.Credit, &line.Description); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *repository) ListEntries(ctx context.Context) ([]JournalEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+entryColumns+` FROM journal_entries ORDER BY number DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *repository) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, name, type, parent_id, is_active, created_at, updated_at FROM accounts ORDER BY code ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Type, &a.ParentID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) InsertEntry(ctx context.Context, in CreateInput, now time.Time) (JournalEntry, error) {
	isPosted := in.Type == EntryTypeAuto
	var postedAt *time.Time
	var postedBy *string
	if isPosted {
		postedAt = &now
		if in.Actor != "" {
			postedBy = &in.Actor
		}
	}
	var sourceModule *string
	var sourceID *uuid.UUID
	if in.Type == EntryTypeAuto {
		sourceModule = &in.SourceModule
		id := in.SourceID
		sourceID = &id
	}
	row := r.tx.QueryRow(ctx, `INSERT INTO journal_entries (date, type, description, is_posted, posted_at, posted_by, source_module, source_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id, number, created_at, updated_at`,
		in.Date, in.Type, in.Description, isPosted, postedAt, postedBy, sourceModule, sourceID)
	entry := JournalEntry{
		Date:         in.Date,
		Type:         in.Type,
		Description:  in.Description,
		IsPosted:     isPosted,
		PostedAt:     postedAt,
		SourceModule: in.SourceModule,
		SourceID:     in.SourceID,
	}
	if isPosted {
		entry.PostedBy = in.Actor
	}
	if err := row.Scan(&entry.ID, &entry.Number, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

func (r *txRepository) InsertLines(ctx context.Context, entryID int64, lines []LineInput) error {
	for _, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO journal_lines (entry_id, account_id, debit, credit, description)
VALUES ($1,$2,$3,$4,$5)`, entryID, line.AccountID, line.Debit, line.Credit, line.Description); err != nil {
			if pgErr := (*pgconn.PgError)(nil); errors.As(err, &pgErr) && pgErr.ConstraintName == "fk_journal_lines_account" {
				return ErrAccountNotFound
			}
			return err
		}
	}
	return nil
}

func (r *txRepository) LinkSource(ctx context.Context, module string, ref uuid.UUID, entryID int64) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO journal_source_links (module, ref_id, entry_id) VALUES ($1,$2,$3)`, module, ref, entryID)
	if err != nil {
		if pgErr := (*pgconn.PgError)(nil); errors.As(err, &pgErr) && pgErr.ConstraintName == "uq_journal_source_links" {
			return ErrSourceAlreadyLinked
		}
		return err
	}
	return nil
}

func (r *txRepository) GetEntryForUpdate(ctx context.Context, entryID int64) (JournalEntry, error) {
	entry, err := scanEntry(r.tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE id=$1 FOR UPDATE`, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JournalEntry{}, ErrEntryNotFound
		}
		return JournalEntry{}, err
	}
	return entry, nil
}

func (r *txRepository) MarkPosted(ctx context.Context, entryID int64, postedAt time.Time, actor string) error {
	_, err := r.tx.Exec(ctx, `UPDATE journal_entries SET is_posted=TRUE, posted_at=$2, posted_by=$3, updated_at=NOW() WHERE id=$1`, entryID, postedAt, actor)
	return err
}

func (r *txRepository) ClearPosted(ctx context.Context, entryID int64) error {
	_, err := r.tx.Exec(ctx, `UPDATE journal_entries SET is_posted=FALSE, posted_at=NULL, posted_by=NULL, updated_at=NOW() WHERE id=$1`, entryID)
	return err
}

func (r *txRepository) ReplaceLines(ctx context.Context, entryID int64, lines []LineInput) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id=$1`, entryID); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO journal_lines (entry_id, account_id, debit, credit, description)
VALUES ($1,$2,$3,$4,$5)`, entryID, line.AccountID, line.Debit, line.Credit, line.Description); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) UpdateDescription(ctx context.Context, entryID int64, description string) error {
	_, err := r.tx.Exec(ctx, `UPDATE journal_entries SET description=$2, updated_at=NOW() WHERE id=$1`, entryID, description)
	return err
}

func (r *txRepository) DeleteEntry(ctx context.Context, entryID int64) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id=$1`, entryID); err != nil {
		return err
	}
	_, err := r.tx.Exec(ctx, `DELETE FROM journal_entries WHERE id=$1`, entryID)
	return err
}
