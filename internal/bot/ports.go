package bot

import (
	"context"
	"time"

	"duitbot/internal/core"
)

// Ports for the executor's outbound dependencies. The sqlite store implements
// the first two; the WhatsApp client implements Messenger; the AMQP client
// implements Notifier.
type (
	// UserDirectory resolves phone keys to registration records. Lookups
	// return (nil, nil) when no record matches.
	UserDirectory interface {
		FindByPhone(ctx context.Context, phoneKey string) (*core.UserLink, error)
		FindByPhoneAndCode(ctx context.Context, phoneKey, code string) (*core.UserLink, error)
		// MarkVerified flips the link to verified, stamps the time and clears
		// the single-use code.
		MarkVerified(ctx context.Context, phoneKey string, at time.Time) error
	}

	// TransactionLedger is the append-only entry collection per account.
	TransactionLedger interface {
		Append(ctx context.Context, e core.Entry) error
		ListByAccount(ctx context.Context, accountID string) ([]core.Entry, error)
	}

	// Messenger delivers a reply to a phone key. Failures are logged and
	// swallowed by the executor; they never fail webhook processing.
	Messenger interface {
		Send(ctx context.Context, phoneKey, text string) error
	}

	// Notifier announces a freshly recorded entry to the sync pipeline.
	// Optional: a nil Notifier disables sync messages.
	Notifier interface {
		EntryRecorded(ctx context.Context, entryID string) error
	}
)
