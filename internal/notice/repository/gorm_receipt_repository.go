package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"noticehub-backend/internal/notice/domain"
)

// gormReceiptRepository implements ReceiptRepository using GORM
type gormReceiptRepository struct {
	db *gorm.DB
	// maxBatch caps items per atomic write/delete call; the store's hard
	// ceiling sits above this.
	maxWriteBatch  int
	maxDeleteBatch int
}

// NewGormReceiptRepository creates a new GORM-based ReceiptRepository
func NewGormReceiptRepository(db *gorm.DB, maxWriteBatch, maxDeleteBatch int) ReceiptRepository {
	return &gormReceiptRepository{db: db, maxWriteBatch: maxWriteBatch, maxDeleteBatch: maxDeleteBatch}
}

func (r *gormReceiptRepository) UpsertBatch(ctx context.Context, receipts []domain.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}
	if len(receipts) > r.maxWriteBatch {
		return fmt.Errorf("receipt batch size %d exceeds write limit %d", len(receipts), r.maxWriteBatch)
	}

	// Atomic upsert: INSERT ... ON CONFLICT (notice_id, recipient_id) DO UPDATE.
	// Only the token snapshot is refreshed on conflict so a retried dispatch
	// never clears a read flag the recipient already set.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "notice_id"}, {Name: "recipient_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tenant_id", "push_token_at_send", "push_status"}),
	}).Create(&receipts).Error
}

func (r *gormReceiptRepository) ListByNoticeID(ctx context.Context, noticeID string, limit int) ([]domain.Receipt, error) {
	var receipts []domain.Receipt
	err := r.db.WithContext(ctx).
		Where("notice_id = ?", noticeID).
		Limit(limit).
		Find(&receipts).Error
	return receipts, err
}

func (r *gormReceiptRepository) DeleteBatch(ctx context.Context, noticeID string, recipientIDs []string) (int64, error) {
	if len(recipientIDs) == 0 {
		return 0, nil
	}
	if len(recipientIDs) > r.maxDeleteBatch {
		return 0, fmt.Errorf("receipt batch size %d exceeds delete limit %d", len(recipientIDs), r.maxDeleteBatch)
	}

	res := r.db.WithContext(ctx).
		Where("notice_id = ? AND recipient_id IN ?", noticeID, recipientIDs).
		Delete(&domain.Receipt{})
	return res.RowsAffected, res.Error
}

func (r *gormReceiptRepository) FindByKey(ctx context.Context, noticeID, recipientID string) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := r.db.WithContext(ctx).
		Where("notice_id = ? AND recipient_id = ?", noticeID, recipientID).
		First(&receipt).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &receipt, nil
}

func (r *gormReceiptRepository) MarkRead(ctx context.Context, noticeID, recipientID string, at time.Time) error {
	// Zero rows affected means the receipt was already read; that is a
	// no-op success, not an error.
	return r.db.WithContext(ctx).Model(&domain.Receipt{}).
		Where("notice_id = ? AND recipient_id = ? AND read = ?", noticeID, recipientID, false).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": at,
		}).Error
}

func (r *gormReceiptRepository) ListUnreadSince(ctx context.Context, cutoff time.Time) ([]domain.Receipt, error) {
	var receipts []domain.Receipt
	err := r.db.WithContext(ctx).
		Where("read = ? AND created_at > ?", false, cutoff).
		Find(&receipts).Error
	return receipts, err
}

func (r *gormReceiptRepository) ListByRecipient(ctx context.Context, tenantID, recipientID string) ([]domain.Receipt, error) {
	var receipts []domain.Receipt
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND recipient_id = ?", tenantID, recipientID).
		Order("created_at DESC").
		Find(&receipts).Error
	return receipts, err
}

func (r *gormReceiptRepository) CountByNotice(ctx context.Context, noticeID string) (int64, int64, error) {
	var total, read int64
	if err := r.db.WithContext(ctx).Model(&domain.Receipt{}).
		Where("notice_id = ?", noticeID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&domain.Receipt{}).
		Where("notice_id = ? AND read = ?", noticeID, true).
		Count(&read).Error; err != nil {
		return 0, 0, err
	}
	return total, read, nil
}
