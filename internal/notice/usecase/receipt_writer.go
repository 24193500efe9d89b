package usecase

import (
	"context"
	"fmt"
	"time"

	directorydomain "noticehub-backend/internal/directory/domain"
	"noticehub-backend/internal/notice/domain"
	"noticehub-backend/internal/notice/repository"
)

// ReceiptWriter persists one receipt per resolved recipient, partitioned
// into batches below the receipt store's atomic-write limit.
type ReceiptWriter struct {
	receiptRepo repository.ReceiptRepository
	writeBatch  int
}

func NewReceiptWriter(receiptRepo repository.ReceiptRepository, writeBatch int) *ReceiptWriter {
	return &ReceiptWriter{receiptRepo: receiptRepo, writeBatch: writeBatch}
}

// Write upserts receipts for every recipient and returns the push tokens
// worth notifying, in resolve order. A failure partway through leaves a
// partial receipt set, which is safe: the upsert semantics make a retried
// dispatch converge to the same final state.
func (w *ReceiptWriter) Write(ctx context.Context, notice *domain.Notice, recipients []directorydomain.Recipient) ([]string, error) {
	now := time.Now()
	receipts := make([]domain.Receipt, 0, len(recipients))
	var tokens []string

	for _, rec := range recipients {
		receipt := domain.Receipt{
			NoticeID:    notice.ID,
			RecipientID: rec.ID,
			TenantID:    notice.TenantID,
			Read:        false,
			CreatedAt:   now,
		}
		if rec.HasPushToken() {
			receipt.PushTokenAtSend = *rec.PushToken
			receipt.PushStatus = domain.PushQueued
			tokens = append(tokens, *rec.PushToken)
		} else {
			receipt.PushStatus = domain.PushSkipped
		}
		receipts = append(receipts, receipt)
	}

	for start := 0; start < len(receipts); start += w.writeBatch {
		end := min(start+w.writeBatch, len(receipts))
		if err := w.receiptRepo.UpsertBatch(ctx, receipts[start:end]); err != nil {
			return nil, fmt.Errorf("failed to upsert receipt batch: %w", err)
		}
	}

	return tokens, nil
}
