package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"noticehub-backend/internal/notice/domain"
)

// gormNoticeRepository implements NoticeRepository using GORM
type gormNoticeRepository struct {
	db *gorm.DB
}

// NewGormNoticeRepository creates a new GORM-based NoticeRepository
func NewGormNoticeRepository(db *gorm.DB) NoticeRepository {
	return &gormNoticeRepository{db: db}
}

func (r *gormNoticeRepository) Create(ctx context.Context, notice *domain.Notice) error {
	if notice.ID == "" {
		notice.ID = uuid.New().String()
	}
	if notice.DispatchStatus == "" {
		notice.DispatchStatus = domain.DispatchQueued
	}
	notice.CreatedAt = time.Now()
	return r.db.WithContext(ctx).Create(notice).Error
}

func (r *gormNoticeRepository) FindByID(ctx context.Context, id string) (*domain.Notice, error) {
	var notice domain.Notice
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&notice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &notice, nil
}

func (r *gormNoticeRepository) FindByIDs(ctx context.Context, tenantID string, ids []string) ([]domain.Notice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var notices []domain.Notice
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("created_at DESC").
		Find(&notices).Error
	return notices, err
}

func (r *gormNoticeRepository) MarkDispatched(ctx context.Context, notice *domain.Notice, at time.Time) (bool, error) {
	notice.DispatchStatus = domain.DispatchDone
	notice.DispatchedAt = &at

	// Conditional update: the null check makes the guard a single atomic
	// point of mutual exclusion between concurrent dispatch attempts.
	res := r.db.WithContext(ctx).Model(&domain.Notice{}).
		Where("id = ? AND dispatched_at IS NULL", notice.ID).
		Select("TargetStoreIDs", "TargetDeptCodes", "DispatchStatus", "DispatchedAt").
		Updates(notice)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormNoticeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Notice{}, "id = ?", id).Error
}
