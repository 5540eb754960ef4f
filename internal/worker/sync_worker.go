// Package worker pushes recorded ledger entries to the companion app,
// driven by AMQP messages with a periodic pending scan as backup.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"duitbot/internal/amqp"
	"duitbot/internal/appsync"
	"duitbot/internal/core"
)

// SyncStore is the slice of the entry store the worker needs.
type SyncStore interface {
	GetEntry(ctx context.Context, id string) (*core.Entry, error)
	ListPendingSync(ctx context.Context, limit int) ([]core.Entry, error)
	MarkSynced(ctx context.Context, id string) error
	MarkSyncError(ctx context.Context, id string) error
}

type SyncWorker struct {
	store     SyncStore
	pusher    appsync.EntryPusher
	batchSize int
}

func NewSyncWorker(store SyncStore, pusher appsync.EntryPusher, batchSize int) *SyncWorker {
	return &SyncWorker{
		store:     store,
		pusher:    pusher,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one AMQP sync message. Returning an error
// requeues the message.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	entry, err := w.store.GetEntry(ctx, msg.EntryID)
	if err != nil {
		return fmt.Errorf("get entry: %w", err)
	}
	if entry == nil {
		// Entry vanished; nothing to requeue for.
		slog.WarnContext(ctx, "Sync message for unknown entry", "entry_id", msg.EntryID)
		return nil
	}
	if entry.SyncStatus == core.SyncDone {
		slog.DebugContext(ctx, "Entry already synced", "entry_id", entry.ID)
		return nil
	}
	return w.syncEntry(ctx, *entry)
}

// ProcessPending pushes entries the AMQP path missed (lost messages, worker
// downtime). Per-entry failures are marked and skipped so one bad entry
// cannot stall the batch.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.ListPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending entries: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending entries", "count", len(pending))
	for _, entry := range pending {
		if err := w.syncEntry(ctx, entry); err != nil {
			slog.ErrorContext(ctx, "Failed to sync entry", "entry_id", entry.ID, "error", err)
		}
	}
	return nil
}

func (w *SyncWorker) syncEntry(ctx context.Context, entry core.Entry) error {
	if err := w.pusher.Push(ctx, entry); err != nil {
		if markErr := w.store.MarkSyncError(ctx, entry.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "entry_id", entry.ID, "error", markErr)
		}
		return fmt.Errorf("push entry: %w", err)
	}

	if err := w.store.MarkSynced(ctx, entry.ID); err != nil {
		// The push went through; log and move on rather than re-pushing.
		slog.ErrorContext(ctx, "Failed to mark entry synced", "entry_id", entry.ID, "error", err)
		return nil
	}

	slog.InfoContext(ctx, "Entry synced to companion app",
		"entry_id", entry.ID,
		"account_id", entry.AccountID,
		"amount", entry.Amount.String())
	return nil
}
