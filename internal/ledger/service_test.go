package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	_ "github.com/safar-erp/safar-erp/testing"
)

type memoryRepo struct {
	entries map[int64]JournalEntry
	lines   map[int64][]JournalLine
	links   map[string]int64
	nextID  int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		entries: make(map[int64]JournalEntry),
		lines:   make(map[int64][]JournalLine),
		links:   make(map[string]int64),
	}
}

func (r *memoryRepo) GetEntry(ctx context.Context, entryID int64) (JournalEntry, error) {
	entry, ok := r.entries[entryID]
	if !ok {
		return JournalEntry{}, ErrEntryNotFound
	}
	entry.Lines = append([]JournalLine(nil), r.lines[entryID]...)
	return entry, nil
}

func (r *memoryRepo) ListEntries(ctx context.Context) ([]JournalEntry, error) {
	out := make([]JournalEntry, 0, len(r.entries))
	for id := range r.entries {
		entry := r.entries[id]
		entry.Lines = append([]JournalLine(nil), r.lines[id]...)
		out = append(out, entry)
	}
	return out, nil
}

func (r *memoryRepo) ListAccounts(ctx context.Context) ([]Account, error) {
	return nil, nil
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryTx{repo: r})
}

type memoryTx struct {
	repo *memoryRepo
}

func (tx *memoryTx) InsertEntry(ctx context.Context, in CreateInput, now time.Time) (JournalEntry, error) {
	tx.repo.nextID++
	entry := JournalEntry{
		ID:           tx.repo.nextID,
		Number:       fmt.Sprintf("JE-%06d", tx.repo.nextID),
		Date:         in.Date,
		Type:         in.Type,
		Description:  in.Description,
		SourceModule: in.SourceModule,
		SourceID:     in.SourceID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Type == EntryTypeAuto {
		entry.IsPosted = true
		postedAt := now
		entry.PostedAt = &postedAt
		entry.PostedBy = in.Actor
	}
	tx.repo.entries[entry.ID] = entry
	return entry, nil
}

func (tx *memoryTx) InsertLines(ctx context.Context, entryID int64, lines []LineInput) error {
	for _, line := range lines {
		tx.repo.lines[entryID] = append(tx.repo.lines[entryID], JournalLine{
			ID:          int64(len(tx.repo.lines[entryID]) + 1),
			EntryID:     entryID,
			AccountID:   line.AccountID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
		})
	}
	return nil
}

func (tx *memoryTx) LinkSource(ctx context.Context, module string, ref uuid.UUID, entryID int64) error {
	key := module + ":" + ref.String()
	if _, ok := tx.repo.links[key]; ok {
		return ErrSourceAlreadyLinked
	}
	tx.repo.links[key] = entryID
	return nil
}

func (tx *memoryTx) GetEntryForUpdate(ctx context.Context, entryID int64) (JournalEntry, error) {
	entry, ok := tx.repo.entries[entryID]
	if !ok {
		return JournalEntry{}, ErrEntryNotFound
	}
	return entry, nil
}

func (tx *memoryTx) MarkPosted(ctx context.Context, entryID int64, postedAt time.Time, actor string) error {
	entry := tx.repo.entries[entryID]
	entry.IsPosted = true
	entry.PostedAt = &postedAt
	entry.PostedBy = actor
	tx.repo.entries[entryID] = entry
	return nil
}

func (tx *memoryTx) ClearPosted(ctx context.Context, entryID int64) error {
	entry := tx.repo.entries[entryID]
	entry.IsPosted = false
	entry.PostedAt = nil
	entry.PostedBy = ""
	tx.repo.entries[entryID] = entry
	return nil
}

func (tx *memoryTx) ReplaceLines(ctx context.Context, entryID int64, lines []LineInput) error {
	tx.repo.lines[entryID] = nil
	return tx.InsertLines(ctx, entryID, lines)
}

func (tx *memoryTx) UpdateDescription(ctx context.Context, entryID int64, description string) error {
	entry := tx.repo.entries[entryID]
	entry.Description = description
	tx.repo.entries[entryID] = entry
	return nil
}

func (tx *memoryTx) DeleteEntry(ctx context.Context, entryID int64) error {
	delete(tx.repo.entries, entryID)
	delete(tx.repo.lines, entryID)
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func balancedLines() []LineInput {
	return []LineInput{
		{AccountID: 1, Debit: dec("150.25")},
		{AccountID: 2, Credit: dec("150.25")},
	}
}

func newTestService(repo *memoryRepo) *Service {
	svc := NewService(repo, nil, nil, nil)
	svc.WithNow(func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) })
	return svc
}

func TestCreateManualStartsAsDraft(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	entry, err := svc.Create(context.Background(), CreateInput{
		Type:  EntryTypeManual,
		Date:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Actor: "user:7",
		Lines: balancedLines(),
	})
	require.NoError(t, err)
	require.False(t, entry.IsPosted)
	require.Nil(t, entry.PostedAt)
	require.Len(t, entry.Lines, 2)
}

func TestCreateRejectsUnbalanced(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Create(context.Background(), CreateInput{
		Type:  EntryTypeManual,
		Date:  time.Now(),
		Actor: "user:7",
		Lines: []LineInput{
			{AccountID: 1, Debit: dec("100")},
			{AccountID: 2, Credit: dec("99.99")},
		},
	})
	require.ErrorIs(t, err, ErrUnbalanced)
}

func TestCreateRejectsMixedLine(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Create(context.Background(), CreateInput{
		Type:  EntryTypeManual,
		Date:  time.Now(),
		Actor: "user:7",
		Lines: []LineInput{
			{AccountID: 1, Debit: dec("50"), Credit: dec("50")},
			{AccountID: 2},
		},
	})
	require.ErrorIs(t, err, ErrLineNotSingleSided)
}

func TestCreateAutoPostsImmediately(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	sourceID := uuid.New()
	entry, err := svc.Create(context.Background(), CreateInput{
		Type:         EntryTypeAuto,
		Date:         time.Now(),
		Actor:        "system",
		SourceModule: "transfers",
		SourceID:     sourceID,
		TransferKind: TransferBankToCash,
		Lines:        balancedLines(),
	})
	require.NoError(t, err)
	require.True(t, entry.IsPosted)
	require.NotNil(t, entry.PostedAt)

	// Same source event again must not produce a second journal.
	_, err = svc.Create(context.Background(), CreateInput{
		Type:         EntryTypeAuto,
		Date:         time.Now(),
		Actor:        "system",
		SourceModule: "transfers",
		SourceID:     sourceID,
		Lines:        balancedLines(),
	})
	require.ErrorIs(t, err, ErrSourceAlreadyLinked)
}

func TestAutoEntriesAreImmutable(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	entry, err := svc.Create(context.Background(), CreateInput{
		Type:         EntryTypeAuto,
		Date:         time.Now(),
		Actor:        "system",
		SourceModule: "invoices",
		SourceID:     uuid.New(),
		Lines:        balancedLines(),
	})
	require.NoError(t, err)

	in := TransitionInput{EntryID: entry.ID, Actor: "user:7"}
	_, err = svc.Post(context.Background(), in)
	require.ErrorIs(t, err, ErrAutoImmutable)
	_, err = svc.Unpost(context.Background(), in)
	require.ErrorIs(t, err, ErrAutoImmutable)
	_, err = svc.Edit(context.Background(), EditInput{EntryID: entry.ID, Actor: "user:7", Lines: balancedLines()})
	require.ErrorIs(t, err, ErrAutoImmutable)
	require.ErrorIs(t, svc.Delete(context.Background(), in), ErrAutoImmutable)
}

func TestPostUnpostRoundTrip(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	entry, err := svc.Create(context.Background(), CreateInput{
		Type:  EntryTypeManual,
		Date:  time.Now(),
		Actor: "user:7",
		Lines: balancedLines(),
	})
	require.NoError(t, err)

	posted, err := svc.Post(context.Background(), TransitionInput{EntryID: entry.ID, Actor: "user:7"})
	require.NoError(t, err)
	require.True(t, posted.IsPosted)
	require.NotNil(t, posted.PostedAt)
	require.Equal(t, "user:7", posted.PostedBy)

	_, err = svc.Post(context.Background(), TransitionInput{EntryID: entry.ID, Actor: "user:7"})
	require.ErrorIs(t, err, ErrAlreadyPosted)

	unposted, err := svc.Unpost(context.Background(), TransitionInput{EntryID: entry.ID, Actor: "user:7"})
	require.NoError(t, err)
	require.False(t, unposted.IsPosted)
	require.Nil(t, unposted.PostedAt)
	require.Empty(t, unposted.PostedBy)

	// Line data survives the round trip untouched.
	after, err := svc.Get(context.Background(), entry.ID)
	require.NoError(t, err)
	require.Len(t, after.Lines, 2)
	require.True(t, after.Lines[0].Debit.Equal(dec("150.25")))
	require.True(t, after.Lines[1].Credit.Equal(dec("150.25")))

	_, err = svc.Unpost(context.Background(), TransitionInput{EntryID: entry.ID, Actor: "user:7"})
	require.ErrorIs(t, err, ErrNotPosted)
}

func TestEditRevalidatesBalance(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	entry, err := svc.Create(context.Background(), CreateInput{
		Type:  EntryTypeManual,
		Date:  time.Now(),
		Actor: "user:7",
		Lines: balancedLines(),
	})
	require.NoError(t, err)

	_, err = svc.Edit(context.Background(), EditInput{
		EntryID: entry.ID,
		Actor:   "user:7",
		Lines: []LineInput{
			{AccountID: 1, Debit: dec("10")},
			{AccountID: 2, Credit: dec("20")},
		},
	})
	require.ErrorIs(t, err, ErrUnbalanced)

	edited, err := svc.Edit(context.Background(), EditInput{
		EntryID: entry.ID,
		Actor:   "user:7",
		Lines: []LineInput{
			{AccountID: 1, Debit: dec("75")},
			{AccountID: 3, Credit: dec("75")},
		},
	})
	require.NoError(t, err)
	require.Len(t, edited.Lines, 2)
	require.Equal(t, int64(3), edited.Lines[1].AccountID)
}

func TestEditAndDeleteBlockedWhilePosted(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	entry, err := svc.Create(context.Background(), CreateInput{
		Type:  EntryTypeManual,
		Date:  time.Now(),
		Actor: "user:7",
		Lines: balancedLines(),
	})
	require.NoError(t, err)
	_, err = svc.Post(context.Background(), TransitionInput{EntryID: entry.ID, Actor: "user:7"})
	require.NoError(t, err)

	_, err = svc.Edit(context.Background(), EditInput{EntryID: entry.ID, Actor: "user:7", Lines: balancedLines()})
	require.ErrorIs(t, err, ErrAlreadyPosted)
	require.ErrorIs(t, svc.Delete(context.Background(), TransitionInput{EntryID: entry.ID, Actor: "user:7"}), ErrAlreadyPosted)
}

func TestDeleteRemovesEntryAndLines(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	entry, err := svc.Create(context.Background(), CreateInput{
		Type:  EntryTypeManual,
		Date:  time.Now(),
		Actor: "user:7",
		Lines: balancedLines(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), TransitionInput{EntryID: entry.ID, Actor: "user:7"}))
	_, err = svc.Get(context.Background(), entry.ID)
	require.ErrorIs(t, err, ErrEntryNotFound)
	require.Empty(t, repo.lines[entry.ID])
}

func TestTransitionOnMissingEntry(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Post(context.Background(), TransitionInput{EntryID: 42, Actor: "user:7"})
	require.ErrorIs(t, err, ErrEntryNotFound)
	require.ErrorIs(t, svc.Delete(context.Background(), TransitionInput{EntryID: 42, Actor: "user:7"}), ErrEntryNotFound)
}
