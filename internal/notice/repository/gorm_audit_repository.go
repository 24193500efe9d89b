package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"noticehub-backend/internal/notice/domain"
)

// gormAuditRepository implements AuditRepository using GORM
type gormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GORM-based AuditRepository
func NewGormAuditRepository(db *gorm.DB) AuditRepository {
	return &gormAuditRepository{db: db}
}

func (r *gormAuditRepository) Append(ctx context.Context, entry *domain.DispatchAudit) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gormAuditRepository) ListByNoticeID(ctx context.Context, noticeID string) ([]domain.DispatchAudit, error) {
	var entries []domain.DispatchAudit
	err := r.db.WithContext(ctx).
		Where("notice_id = ?", noticeID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
