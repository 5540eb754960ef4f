package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

const (
	SyncPending SyncStatus = "pending"
	SyncDone    SyncStatus = "synced"
	SyncError   SyncStatus = "error"
)

type (
	// Kind distinguishes money coming in from money going out.
	Kind string

	// SyncStatus tracks whether an entry has been pushed to the companion app.
	SyncStatus string

	// UserLink binds a WhatsApp phone key to a finance account. The link is
	// created by the companion app's registration flow and activated here by
	// the verify command. The verification code is single-use: it is cleared
	// the moment the link is marked verified.
	UserLink struct {
		PhoneKey         string
		AccountID        string
		IsVerified       bool
		VerificationCode string // empty once consumed
		VerifiedAt       *time.Time
		CreatedAt        time.Time
	}

	// Entry is a single ledger record for an account. Entries are append-only;
	// nothing in the bot updates or deletes them after creation.
	Entry struct {
		ID           string
		AccountID    string
		OccurredAt   time.Time
		Description  string
		Category     Category
		Kind         Kind
		Amount       decimal.Decimal
		LastModified time.Time
		SyncStatus   SyncStatus
		SyncAttempts int
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyAccount     = errors.New("empty account id")
)

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	}
	return ErrInvalidKind
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.AccountID) == "" {
		return ErrEmptyAccount
	}
	if err := e.Kind.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
