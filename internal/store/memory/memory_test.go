package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"duitbot/internal/core"
)

func seedLink(t *testing.T, s *Store, phone, code string) {
	t.Helper()
	err := s.CreateLink(context.Background(), core.UserLink{
		PhoneKey:         phone,
		AccountID:        "acct-1",
		VerificationCode: code,
	})
	if err != nil {
		t.Fatalf("seed link: %v", err)
	}
}

func TestFindByPhone(t *testing.T) {
	s := New()
	ctx := context.Background()

	link, err := s.FindByPhone(ctx, "+62811")
	if err != nil || link != nil {
		t.Fatalf("lookup on empty store = (%v, %v), want (nil, nil)", link, err)
	}

	seedLink(t, s, "+62811", "1234")
	link, err = s.FindByPhone(ctx, "+62811")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link == nil || link.AccountID != "acct-1" || link.IsVerified {
		t.Fatalf("unexpected link: %+v", link)
	}
}

func TestFindByPhoneAndCode(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedLink(t, s, "+62811", "1234")

	if link, _ := s.FindByPhoneAndCode(ctx, "+62811", "0000"); link != nil {
		t.Error("wrong code should not match")
	}
	if link, _ := s.FindByPhoneAndCode(ctx, "+62811", ""); link != nil {
		t.Error("empty code should never match")
	}
	link, err := s.FindByPhoneAndCode(ctx, "+62811", "1234")
	if err != nil || link == nil {
		t.Fatalf("matching code lookup = (%v, %v)", link, err)
	}
}

func TestMarkVerifiedClearsCode(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedLink(t, s, "+62811", "1234")

	at := time.Now()
	if err := s.MarkVerified(ctx, "+62811", at); err != nil {
		t.Fatalf("mark verified: %v", err)
	}

	link, _ := s.FindByPhone(ctx, "+62811")
	if !link.IsVerified {
		t.Error("link should be verified")
	}
	if link.VerificationCode != "" {
		t.Errorf("code should be cleared, got %q", link.VerificationCode)
	}
	if link.VerifiedAt == nil || !link.VerifiedAt.Equal(at) {
		t.Errorf("verified_at = %v, want %v", link.VerifiedAt, at)
	}
	// the consumed code must not match again
	if got, _ := s.FindByPhoneAndCode(ctx, "+62811", "1234"); got != nil {
		t.Error("consumed code still matches")
	}
}

func TestLedgerAppendAndList(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	for i, amt := range []int64{1000, 2000} {
		e := core.Entry{
			ID:           string(rune('a' + i)),
			AccountID:    "acct-1",
			OccurredAt:   now,
			Description:  "makan",
			Category:     core.CategoryFood,
			Kind:         core.Expense,
			Amount:       decimal.NewFromInt(amt),
			LastModified: now,
			SyncStatus:   core.SyncPending,
		}
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := s.ListByAccount(ctx, "acct-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if other, _ := s.ListByAccount(ctx, "acct-2"); len(other) != 0 {
		t.Errorf("entries leaked across accounts: %v", other)
	}

	invalid := core.Entry{AccountID: "acct-1", Kind: core.Expense, Description: "x"}
	if err := s.Append(ctx, invalid); err == nil {
		t.Error("invalid entry accepted")
	}
}

func TestSyncStatusTransitions(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()
	e := core.Entry{
		ID: "e1", AccountID: "acct-1", OccurredAt: now, Description: "makan",
		Category: core.CategoryFood, Kind: core.Expense,
		Amount: decimal.NewFromInt(1000), LastModified: now, SyncStatus: core.SyncPending,
	}
	if err := s.Append(ctx, e); err != nil {
		t.Fatalf("append: %v", err)
	}

	pending, _ := s.ListPendingSync(ctx, 10)
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}

	if err := s.MarkSyncError(ctx, "e1"); err != nil {
		t.Fatalf("mark error: %v", err)
	}
	got, _ := s.GetEntry(ctx, "e1")
	if got.SyncStatus != core.SyncError || got.SyncAttempts != 1 {
		t.Errorf("after error: status=%s attempts=%d", got.SyncStatus, got.SyncAttempts)
	}
	// errored entries stay in the pending scan
	pending, _ = s.ListPendingSync(ctx, 10)
	if len(pending) != 1 {
		t.Fatalf("errored entry dropped from pending scan")
	}

	if err := s.MarkSynced(ctx, "e1"); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, _ = s.ListPendingSync(ctx, 10)
	if len(pending) != 0 {
		t.Errorf("synced entry still pending")
	}
}
