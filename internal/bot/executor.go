// Package bot executes parsed chat commands against the user directory and
// the transaction ledger, producing a reply for every inbound message.
package bot

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"duitbot/internal/command"
	"duitbot/internal/core"
	"duitbot/internal/log"
)

// Executor handles one inbound message at a time. It keeps no state between
// messages; everything lives in the injected stores, so concurrent messages
// for different phone keys never contend in-process.
type Executor struct {
	directory UserDirectory
	ledger    TransactionLedger
	messenger Messenger
	notifier  Notifier
	logger    *log.Logger
	now       func() time.Time
}

func NewExecutor(directory UserDirectory, ledger TransactionLedger, messenger Messenger, notifier Notifier, logger *log.Logger) *Executor {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Executor{
		directory: directory,
		ledger:    ledger,
		messenger: messenger,
		notifier:  notifier,
		logger:    logger.WithComponent(log.ComponentBot),
		now:       time.Now,
	}
}

// Handle processes a single inbound message: normalize the sender, parse the
// command, run it, reply. Store failures become a generic apology reply; they
// are never surfaced to the transport as a hard failure.
func (e *Executor) Handle(ctx context.Context, rawFrom, text string) {
	phoneKey := core.NormalizePhone(rawFrom)

	intent, err := command.Parse(text)
	if err != nil {
		var perr *command.ParseError
		if errors.As(err, &perr) {
			e.respond(ctx, phoneKey, parseErrorReply(perr.Reason))
			return
		}
		e.respond(ctx, phoneKey, msgGenericError)
		return
	}

	var reply string
	switch it := intent.(type) {
	case command.Register:
		reply, err = e.register(ctx, phoneKey)
	case command.Verify:
		reply, err = e.verify(ctx, phoneKey, it.Code)
	case command.CheckBalance:
		reply, err = e.balance(ctx, phoneKey)
	case command.Help:
		reply = msgHelp
	case command.Record:
		reply, err = e.record(ctx, phoneKey, it)
	}

	if err != nil {
		e.logger.ErrorContext(ctx, "Command failed",
			log.FieldPhoneKey, phoneKey,
			log.FieldIntent, intentName(intent),
			log.FieldError, err)
		reply = msgGenericError
	}
	e.respond(ctx, phoneKey, reply)
}

func (e *Executor) register(ctx context.Context, phoneKey string) (string, error) {
	link, err := e.directory.FindByPhone(ctx, phoneKey)
	if err != nil {
		return "", err
	}
	if link != nil && link.IsVerified {
		return msgAlreadyVerified, nil
	}
	// Account creation happens in the companion app; the bot only points
	// the user there.
	return msgRegisterInstructions, nil
}

func (e *Executor) verify(ctx context.Context, phoneKey, code string) (string, error) {
	link, err := e.directory.FindByPhoneAndCode(ctx, phoneKey, code)
	if err != nil {
		return "", err
	}
	if link == nil {
		return msgInvalidCode, nil
	}
	if err := e.directory.MarkVerified(ctx, link.PhoneKey, e.now()); err != nil {
		return "", err
	}
	e.logger.InfoContext(ctx, "Phone verified",
		log.FieldPhoneKey, phoneKey,
		log.FieldAccountID, link.AccountID)
	return msgVerified, nil
}

func (e *Executor) balance(ctx context.Context, phoneKey string) (string, error) {
	link, err := e.verifiedLink(ctx, phoneKey)
	if err != nil {
		return "", err
	}
	if link == nil {
		return msgNotRegisteredBalance, nil
	}

	// Full scan per query; the ledger carries no running balance.
	entries, err := e.ledger.ListByAccount(ctx, link.AccountID)
	if err != nil {
		return "", err
	}
	income, expense := decimal.Zero, decimal.Zero
	for _, entry := range entries {
		switch entry.Kind {
		case core.Income:
			income = income.Add(entry.Amount)
		case core.Expense:
			expense = expense.Add(entry.Amount)
		}
	}
	return balanceReply(income, expense, len(entries)), nil
}

func (e *Executor) record(ctx context.Context, phoneKey string, rec command.Record) (string, error) {
	link, err := e.verifiedLink(ctx, phoneKey)
	if err != nil {
		return "", err
	}
	if link == nil {
		return msgNotRegisteredRecord, nil
	}

	now := e.now()
	entry := core.Entry{
		ID:           uuid.NewString(),
		AccountID:    link.AccountID,
		OccurredAt:   now,
		Description:  rec.Description,
		Category:     core.DetectCategory(rec.Description),
		Kind:         rec.Kind,
		Amount:       rec.Amount,
		LastModified: now,
		SyncStatus:   core.SyncPending,
	}
	if err := entry.Validate(); err != nil {
		return "", err
	}
	if err := e.ledger.Append(ctx, entry); err != nil {
		return "", err
	}
	e.logger.InfoContext(ctx, "Transaction recorded",
		log.FieldEntryID, entry.ID,
		log.FieldAccountID, entry.AccountID,
		log.FieldKind, string(entry.Kind),
		log.FieldCategory, string(entry.Category),
		log.FieldAmount, entry.Amount.String())

	// Sync announcement is best-effort; the entry is already safe locally
	// and the periodic pending scan covers lost messages.
	if e.notifier != nil {
		if err := e.notifier.EntryRecorded(ctx, entry.ID); err != nil {
			e.logger.ErrorContext(ctx, "Failed to publish sync message",
				log.FieldEntryID, entry.ID,
				log.FieldError, err)
		}
	}

	return recordedReply(entry), nil
}

// verifiedLink returns the link for phoneKey only when it exists and is
// verified; (nil, nil) otherwise.
func (e *Executor) verifiedLink(ctx context.Context, phoneKey string) (*core.UserLink, error) {
	link, err := e.directory.FindByPhone(ctx, phoneKey)
	if err != nil {
		return nil, err
	}
	if link == nil || !link.IsVerified {
		return nil, nil
	}
	return link, nil
}

// respond sends the reply and logs delivery failures with enough context to
// diagnose lost messages. Delivery never fails the inbound message.
func (e *Executor) respond(ctx context.Context, phoneKey, text string) {
	if text == "" {
		return
	}
	if err := e.messenger.Send(ctx, phoneKey, text); err != nil {
		e.logger.ErrorContext(ctx, "Failed to deliver reply",
			log.FieldPhoneKey, phoneKey,
			log.FieldError, err,
			"payload", text)
	}
}

func intentName(i command.Intent) string {
	switch i.(type) {
	case command.Register:
		return "register"
	case command.Verify:
		return "verify"
	case command.CheckBalance:
		return "balance"
	case command.Help:
		return "help"
	case command.Record:
		return "record"
	}
	return "unknown"
}
