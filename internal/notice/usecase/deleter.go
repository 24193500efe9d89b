package usecase

import (
	"context"
	"fmt"
	"log"

	"noticehub-backend/internal/notice/repository"
)

// CascadeDeleter removes a notice and every receipt referencing it, in
// bounded-size batches so arbitrarily large receipt counts never exceed a
// single atomic delete call.
type CascadeDeleter struct {
	noticeRepo  repository.NoticeRepository
	receiptRepo repository.ReceiptRepository
	deleteBatch int
}

func NewCascadeDeleter(noticeRepo repository.NoticeRepository, receiptRepo repository.ReceiptRepository, deleteBatch int) *CascadeDeleter {
	return &CascadeDeleter{noticeRepo: noticeRepo, receiptRepo: receiptRepo, deleteBatch: deleteBatch}
}

// Delete removes the notice and its receipts, returning the receipt count.
// The actor's tenant must match the notice's tenant.
func (d *CascadeDeleter) Delete(ctx context.Context, actorTenantID, noticeID string) (int64, error) {
	notice, err := d.noticeRepo.FindByID(ctx, noticeID)
	if err != nil {
		return 0, fmt.Errorf("failed to load notice %s: %w", noticeID, err)
	}
	if notice == nil {
		return 0, ErrNoticeNotFound
	}
	if notice.TenantID != actorTenantID {
		return 0, ErrTenantMismatch
	}

	var deleted int64
	for {
		receipts, err := d.receiptRepo.ListByNoticeID(ctx, noticeID, d.deleteBatch)
		if err != nil {
			return deleted, fmt.Errorf("failed to list receipts for notice %s: %w", noticeID, err)
		}
		if len(receipts) == 0 {
			break
		}

		ids := make([]string, len(receipts))
		for i, receipt := range receipts {
			ids[i] = receipt.RecipientID
		}

		n, err := d.receiptRepo.DeleteBatch(ctx, noticeID, ids)
		if err != nil {
			return deleted, fmt.Errorf("failed to delete receipt batch for notice %s: %w", noticeID, err)
		}
		deleted += n
	}

	if err := d.noticeRepo.Delete(ctx, noticeID); err != nil {
		return deleted, fmt.Errorf("failed to delete notice %s: %w", noticeID, err)
	}

	log.Printf("[Delete] Notice %s removed with %d receipts", noticeID, deleted)
	return deleted, nil
}
