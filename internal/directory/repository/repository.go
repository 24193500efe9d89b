package repository

import (
	"context"

	"noticehub-backend/internal/directory/domain"
)

// RecipientRepository reads the employee directory. Assignments are owned
// by another service; the only field written here is the push token, which
// devices register through this service.
//
// Implementations enforce the store's membership-test cap: a filter or id
// list longer than the configured IN-query limit is rejected, and callers
// are expected to partition their requests below that cap.
type RecipientRepository interface {
	// ListActive returns active recipients in the tenant matching the filter.
	// No ordering is guaranteed.
	ListActive(ctx context.Context, tenantID string, filter domain.Filter) ([]domain.Recipient, error)

	// FindByID returns a recipient by id, or nil when absent.
	FindByID(ctx context.Context, id string) (*domain.Recipient, error)

	// ListByIDs returns active recipients in the tenant for the given ids.
	ListByIDs(ctx context.Context, tenantID string, ids []string) ([]domain.Recipient, error)

	// UpdatePushToken stores or clears the recipient's device token.
	UpdatePushToken(ctx context.Context, tenantID, recipientID string, token *string) error
}
