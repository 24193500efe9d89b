package repository

import (
	"context"
	"time"

	"noticehub-backend/internal/notice/domain"
)

// NoticeRepository persists notices
type NoticeRepository interface {
	Create(ctx context.Context, notice *domain.Notice) error
	FindByID(ctx context.Context, id string) (*domain.Notice, error)
	FindByIDs(ctx context.Context, tenantID string, ids []string) ([]domain.Notice, error)

	// MarkDispatched closes the idempotency guard: it writes the normalized
	// target fields, flips the status to done and sets dispatched_at, but
	// only if dispatched_at is still null. Returns false when another
	// dispatch attempt already closed the guard.
	MarkDispatched(ctx context.Context, notice *domain.Notice, at time.Time) (bool, error)

	Delete(ctx context.Context, id string) error
}

// ReceiptRepository persists read receipts. Batch operations are atomic per
// call and enforce the store's maximum item count; callers partition their
// work below that cap.
type ReceiptRepository interface {
	// UpsertBatch writes one batch of receipts atomically with merge
	// semantics keyed on (notice_id, recipient_id): re-running the same
	// batch never duplicates or errors on existing rows, and never clears
	// a read flag already set by the recipient.
	UpsertBatch(ctx context.Context, receipts []domain.Receipt) error

	// ListByNoticeID returns up to limit receipts for the notice.
	ListByNoticeID(ctx context.Context, noticeID string, limit int) ([]domain.Receipt, error)

	// DeleteBatch atomically deletes the given receipts of one notice and
	// returns how many rows were removed.
	DeleteBatch(ctx context.Context, noticeID string, recipientIDs []string) (int64, error)

	FindByKey(ctx context.Context, noticeID, recipientID string) (*domain.Receipt, error)

	// MarkRead sets read=true and read_at once; marking an already-read
	// receipt again is a no-op success.
	MarkRead(ctx context.Context, noticeID, recipientID string, at time.Time) error

	ListUnreadSince(ctx context.Context, cutoff time.Time) ([]domain.Receipt, error)
	ListByRecipient(ctx context.Context, tenantID, recipientID string) ([]domain.Receipt, error)
	CountByNotice(ctx context.Context, noticeID string) (total int64, read int64, err error)
}

// AuditRepository appends dispatch audit entries. Entries are never mutated.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.DispatchAudit) error
	ListByNoticeID(ctx context.Context, noticeID string) ([]domain.DispatchAudit, error)
}
