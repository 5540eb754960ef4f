package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validEntry() Entry {
	now := time.Now()
	return Entry{
		ID:           "e1",
		AccountID:    "acct-1",
		OccurredAt:   now,
		Description:  "makan siang",
		Category:     CategoryFood,
		Kind:         Expense,
		Amount:       decimal.NewFromInt(50000),
		LastModified: now,
		SyncStatus:   SyncPending,
	}
}

func TestEntryValidate(t *testing.T) {
	if err := validEntry().Validate(); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}

	e := validEntry()
	e.AccountID = "  "
	if err := e.Validate(); !errors.Is(err, ErrEmptyAccount) {
		t.Errorf("blank account: got %v, want ErrEmptyAccount", err)
	}

	e = validEntry()
	e.Kind = "transfer"
	if err := e.Validate(); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("bad kind: got %v, want ErrInvalidKind", err)
	}

	e = validEntry()
	e.Description = ""
	if err := e.Validate(); !errors.Is(err, ErrEmptyDescription) {
		t.Errorf("empty description: got %v, want ErrEmptyDescription", err)
	}

	e = validEntry()
	e.Amount = decimal.Zero
	if err := e.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount: got %v, want ErrInvalidAmount", err)
	}

	e = validEntry()
	e.Amount = decimal.NewFromInt(-100)
	if err := e.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount: got %v, want ErrInvalidAmount", err)
	}
}
