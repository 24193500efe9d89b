package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"noticehub-backend/internal/directory/domain"
)

// gormRecipientRepository implements RecipientRepository using GORM
type gormRecipientRepository struct {
	db           *gorm.DB
	inQueryLimit int
}

// NewGormRecipientRepository creates a new GORM-based RecipientRepository.
// inQueryLimit is the store's cap on membership-test list size.
func NewGormRecipientRepository(db *gorm.DB, inQueryLimit int) RecipientRepository {
	return &gormRecipientRepository{db: db, inQueryLimit: inQueryLimit}
}

func (r *gormRecipientRepository) ListActive(ctx context.Context, tenantID string, filter domain.Filter) ([]domain.Recipient, error) {
	query := r.db.WithContext(ctx).Where("tenant_id = ? AND active = ?", tenantID, true)

	switch filter.Kind {
	case domain.FilterAll:
		// no extra narrowing
	case domain.FilterStoreIn:
		if err := r.checkInLimit(filter.Values); err != nil {
			return nil, err
		}
		if len(filter.Values) == 0 {
			return nil, nil
		}
		query = query.Where("store_id IN ?", filter.Values)
	case domain.FilterDepartmentIn:
		if err := r.checkInLimit(filter.Values); err != nil {
			return nil, err
		}
		if len(filter.Values) == 0 {
			return nil, nil
		}
		query = query.Where("department_code IN ?", filter.Values)
	default:
		return nil, fmt.Errorf("unknown directory filter kind: %s", filter.Kind)
	}

	var recipients []domain.Recipient
	if err := query.Find(&recipients).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	return recipients, nil
}

func (r *gormRecipientRepository) FindByID(ctx context.Context, id string) (*domain.Recipient, error) {
	var recipient domain.Recipient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipient).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &recipient, nil
}

func (r *gormRecipientRepository) ListByIDs(ctx context.Context, tenantID string, ids []string) ([]domain.Recipient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if err := r.checkInLimit(ids); err != nil {
		return nil, err
	}

	var recipients []domain.Recipient
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ? AND id IN ?", tenantID, true, ids).
		Find(&recipients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients by ids: %w", err)
	}
	return recipients, nil
}

func (r *gormRecipientRepository) UpdatePushToken(ctx context.Context, tenantID, recipientID string, token *string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Recipient{}).
		Where("id = ? AND tenant_id = ?", recipientID, tenantID).
		Update("push_token", token)
	if result.Error != nil {
		return fmt.Errorf("failed to update push token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRecipientRepository) checkInLimit(values []string) error {
	if len(values) > r.inQueryLimit {
		return fmt.Errorf("membership-test list size %d exceeds limit %d", len(values), r.inQueryLimit)
	}
	return nil
}
