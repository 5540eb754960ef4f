package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"duitbot/internal/core"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "duitbot.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLinkRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	link := core.UserLink{
		PhoneKey:         "+6281234567890",
		AccountID:        "acct-1",
		VerificationCode: "1234",
	}
	if err := s.CreateLink(ctx, link); err != nil {
		t.Fatalf("create link: %v", err)
	}

	got, err := s.FindByPhone(ctx, "+6281234567890")
	if err != nil {
		t.Fatalf("find by phone: %v", err)
	}
	if got == nil {
		t.Fatal("link not found")
	}
	if got.AccountID != "acct-1" || got.IsVerified || got.VerificationCode != "1234" {
		t.Errorf("unexpected link: %+v", got)
	}

	if got, _ := s.FindByPhone(ctx, "+999"); got != nil {
		t.Errorf("unknown phone returned link: %+v", got)
	}
}

func TestVerificationFlow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateLink(ctx, core.UserLink{
		PhoneKey:         "+62811",
		AccountID:        "acct-1",
		VerificationCode: "1234",
	}); err != nil {
		t.Fatalf("create link: %v", err)
	}

	if got, _ := s.FindByPhoneAndCode(ctx, "+62811", "9999"); got != nil {
		t.Error("wrong code matched")
	}
	if got, _ := s.FindByPhoneAndCode(ctx, "+62811", ""); got != nil {
		t.Error("empty code matched")
	}

	got, err := s.FindByPhoneAndCode(ctx, "+62811", "1234")
	if err != nil || got == nil {
		t.Fatalf("code lookup = (%v, %v)", got, err)
	}

	at := time.Now().UTC()
	if err := s.MarkVerified(ctx, "+62811", at); err != nil {
		t.Fatalf("mark verified: %v", err)
	}

	got, _ = s.FindByPhone(ctx, "+62811")
	if !got.IsVerified || got.VerificationCode != "" || got.VerifiedAt == nil {
		t.Errorf("after verify: %+v", got)
	}
	// code is single-use
	if got, _ := s.FindByPhoneAndCode(ctx, "+62811", "1234"); got != nil {
		t.Error("consumed code still matches")
	}

	if err := s.MarkVerified(ctx, "+nobody", at); err == nil {
		t.Error("mark verified for unknown phone should fail")
	}
}

func TestEntryRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	e := core.Entry{
		ID:           "entry-1",
		AccountID:    "acct-1",
		OccurredAt:   now,
		Description:  "makan siang",
		Category:     core.CategoryFood,
		Kind:         core.Expense,
		Amount:       decimal.NewFromInt(50000),
		LastModified: now,
		SyncStatus:   core.SyncPending,
	}
	if err := s.Append(ctx, e); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := s.ListByAccount(ctx, "acct-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	got := entries[0]
	if got.ID != "entry-1" || got.Kind != core.Expense || got.Category != core.CategoryFood {
		t.Errorf("unexpected entry: %+v", got)
	}
	if !got.Amount.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("amount = %s, want 50000", got.Amount)
	}

	if other, _ := s.ListByAccount(ctx, "acct-2"); len(other) != 0 {
		t.Errorf("entries leaked across accounts")
	}
}

func TestSyncLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	e := core.Entry{
		ID: "entry-1", AccountID: "acct-1", OccurredAt: now, Description: "gaji",
		Category: core.CategorySalary, Kind: core.Income,
		Amount: decimal.NewFromInt(1000000), LastModified: now, SyncStatus: core.SyncPending,
	}
	if err := s.Append(ctx, e); err != nil {
		t.Fatalf("append: %v", err)
	}

	pending, err := s.ListPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}

	if err := s.MarkSyncError(ctx, "entry-1"); err != nil {
		t.Fatalf("mark sync error: %v", err)
	}
	got, _ := s.GetEntry(ctx, "entry-1")
	if got == nil || got.SyncStatus != core.SyncError || got.SyncAttempts != 1 {
		t.Fatalf("after error: %+v", got)
	}
	if pending, _ = s.ListPendingSync(ctx, 10); len(pending) != 1 {
		t.Error("errored entry left the pending scan")
	}

	if err := s.MarkSynced(ctx, "entry-1"); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	if pending, _ = s.ListPendingSync(ctx, 10); len(pending) != 0 {
		t.Error("synced entry still pending")
	}

	if missing, _ := s.GetEntry(ctx, "nope"); missing != nil {
		t.Errorf("unknown id returned entry: %+v", missing)
	}
}
