package usecase

import (
	"context"
	"fmt"

	directorydomain "noticehub-backend/internal/directory/domain"
	directoryrepo "noticehub-backend/internal/directory/repository"
	"noticehub-backend/internal/notice/domain"
)

// Resolver turns a notice's target selector into the deduplicated set of
// active recipients that should receive it.
type Resolver struct {
	recipientRepo directoryrepo.RecipientRepository
	inQueryLimit  int
}

// NewResolver creates a resolver. inQueryLimit is the directory store's cap
// on membership-test list size; larger selectors are partitioned below it.
func NewResolver(recipientRepo directoryrepo.RecipientRepository, inQueryLimit int) *Resolver {
	return &Resolver{recipientRepo: recipientRepo, inQueryLimit: inQueryLimit}
}

func (r *Resolver) Resolve(ctx context.Context, notice *domain.Notice) ([]directorydomain.Recipient, error) {
	switch notice.TargetType {
	case domain.TargetAll:
		recipients, err := r.recipientRepo.ListActive(ctx, notice.TenantID, directorydomain.AllFilter())
		if err != nil {
			return nil, fmt.Errorf("failed to resolve tenant audience: %w", err)
		}
		return recipients, nil
	case domain.TargetStore:
		return r.resolveMembership(ctx, notice.TenantID, notice.TargetStoreIDs, directorydomain.StoreIn)
	case domain.TargetDepartment:
		return r.resolveMembership(ctx, notice.TenantID, notice.TargetDeptCodes, directorydomain.DepartmentIn)
	default:
		return nil, fmt.Errorf("%w: unknown target type %q", ErrInvalidNotice, notice.TargetType)
	}
}

// resolveMembership partitions the selector below the IN-query cap, issues
// one directory query per sub-batch and unions the results, deduplicating
// by recipient id. An empty selector is an explicit empty audience.
func (r *Resolver) resolveMembership(ctx context.Context, tenantID string, values []string, makeFilter func([]string) directorydomain.Filter) ([]directorydomain.Recipient, error) {
	if len(values) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{})
	var recipients []directorydomain.Recipient
	for start := 0; start < len(values); start += r.inQueryLimit {
		end := min(start+r.inQueryLimit, len(values))
		batch, err := r.recipientRepo.ListActive(ctx, tenantID, makeFilter(values[start:end]))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve audience sub-batch: %w", err)
		}
		for _, rec := range batch {
			if _, ok := seen[rec.ID]; ok {
				continue
			}
			seen[rec.ID] = struct{}{}
			recipients = append(recipients, rec)
		}
	}
	return recipients, nil
}
