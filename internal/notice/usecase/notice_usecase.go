package usecase

import (
	"context"
	"fmt"
	"time"

	directoryrepo "noticehub-backend/internal/directory/repository"
	"noticehub-backend/internal/notice/domain"
	"noticehub-backend/internal/notice/repository"
	"noticehub-backend/pkg/fuzzy"
)

// CreateNoticeInput is the authoring request for a new notice
type CreateNoticeInput struct {
	Title           string
	Body            string
	TargetType      domain.TargetType
	TargetStoreIDs  []string
	TargetDeptCodes []string
}

// NoticeListItem joins a notice with the caller's own receipt state
type NoticeListItem struct {
	Notice domain.Notice `json:"notice"`
	Read   bool          `json:"read"`
	ReadAt *time.Time    `json:"read_at,omitempty"`
}

// NoticeDetail is the single-notice view with receipt tallies
type NoticeDetail struct {
	Notice     domain.Notice  `json:"notice"`
	Receipt    domain.Receipt `json:"receipt"`
	ReadCount  int64          `json:"read_count"`
	TotalCount int64          `json:"total_count"`
}

// NoticeUsecase covers authoring-side creation and the recipient-facing
// read boundary. Dispatch itself runs through the Dispatcher.
type NoticeUsecase interface {
	CreateNotice(ctx context.Context, tenantID, createdBy string, input CreateNoticeInput) (*domain.Notice, error)
	ListForRecipient(ctx context.Context, tenantID, recipientID string) ([]NoticeListItem, error)
	SearchForRecipient(ctx context.Context, tenantID, recipientID, query string) ([]NoticeListItem, error)
	GetForRecipient(ctx context.Context, tenantID, recipientID, noticeID string) (*NoticeDetail, error)
	MarkRead(ctx context.Context, tenantID, recipientID, noticeID string) error
}

type noticeUsecase struct {
	noticeRepo    repository.NoticeRepository
	receiptRepo   repository.ReceiptRepository
	recipientRepo directoryrepo.RecipientRepository
}

func NewNoticeUsecase(
	noticeRepo repository.NoticeRepository,
	receiptRepo repository.ReceiptRepository,
	recipientRepo directoryrepo.RecipientRepository,
) NoticeUsecase {
	return &noticeUsecase{
		noticeRepo:    noticeRepo,
		receiptRepo:   receiptRepo,
		recipientRepo: recipientRepo,
	}
}

// CreateNotice validates and persists a notice in queued state. No receipt
// or push state exists yet; fan-out happens in the dispatcher.
func (u *noticeUsecase) CreateNotice(ctx context.Context, tenantID, createdBy string, input CreateNoticeInput) (*domain.Notice, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	notice := &domain.Notice{
		TenantID:        tenantID,
		Title:           input.Title,
		Body:            input.Body,
		TargetType:      input.TargetType,
		TargetStoreIDs:  input.TargetStoreIDs,
		TargetDeptCodes: input.TargetDeptCodes,
		DispatchStatus:  domain.DispatchQueued,
		CreatedBy:       createdBy,
	}

	if err := u.noticeRepo.Create(ctx, notice); err != nil {
		return nil, fmt.Errorf("failed to create notice: %w", err)
	}
	return notice, nil
}

func validateInput(input CreateNoticeInput) error {
	if input.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidNotice)
	}
	if input.Body == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidNotice)
	}

	switch input.TargetType {
	case domain.TargetAll:
		if len(input.TargetStoreIDs) > 0 || len(input.TargetDeptCodes) > 0 {
			return fmt.Errorf("%w: target ALL takes no selector", ErrInvalidNotice)
		}
	case domain.TargetStore:
		if len(input.TargetStoreIDs) == 0 {
			return fmt.Errorf("%w: target STORE requires store ids", ErrInvalidNotice)
		}
		if len(input.TargetDeptCodes) > 0 {
			return fmt.Errorf("%w: store and department selectors are mutually exclusive", ErrInvalidNotice)
		}
	case domain.TargetDepartment:
		if len(input.TargetDeptCodes) == 0 {
			return fmt.Errorf("%w: target DEPARTMENT requires department codes", ErrInvalidNotice)
		}
		if len(input.TargetStoreIDs) > 0 {
			return fmt.Errorf("%w: store and department selectors are mutually exclusive", ErrInvalidNotice)
		}
	default:
		return fmt.Errorf("%w: unknown target type %q", ErrInvalidNotice, input.TargetType)
	}
	return nil
}

// ListForRecipient returns the notices the caller holds a receipt for,
// re-verifying visibility against the stored selector before rendering.
func (u *noticeUsecase) ListForRecipient(ctx context.Context, tenantID, recipientID string) ([]NoticeListItem, error) {
	receipts, err := u.receiptRepo.ListByRecipient(ctx, tenantID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	if len(receipts) == 0 {
		return nil, nil
	}

	byNotice := make(map[string]domain.Receipt, len(receipts))
	ids := make([]string, 0, len(receipts))
	for _, receipt := range receipts {
		byNotice[receipt.NoticeID] = receipt
		ids = append(ids, receipt.NoticeID)
	}

	notices, err := u.noticeRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load notices: %w", err)
	}

	recipient, err := u.recipientRepo.FindByID(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipient: %w", err)
	}
	if recipient == nil {
		return nil, nil
	}

	items := make([]NoticeListItem, 0, len(notices))
	for _, notice := range notices {
		if !notice.VisibleTo(tenantID, recipient.StoreID, recipient.DepartmentCode) {
			continue
		}
		receipt := byNotice[notice.ID]
		items = append(items, NoticeListItem{
			Notice: notice,
			Read:   receipt.Read,
			ReadAt: receipt.ReadAt,
		})
	}
	return items, nil
}

// SearchForRecipient filters the caller's notices by a fuzzy title/body
// match, so a query with a small typo still finds the announcement.
func (u *noticeUsecase) SearchForRecipient(ctx context.Context, tenantID, recipientID, query string) ([]NoticeListItem, error) {
	items, err := u.ListForRecipient(ctx, tenantID, recipientID)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return items, nil
	}

	matched := make([]NoticeListItem, 0, len(items))
	for _, item := range items {
		if fuzzy.MatchNotice(query, item.Notice.Title, item.Notice.Body) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (u *noticeUsecase) GetForRecipient(ctx context.Context, tenantID, recipientID, noticeID string) (*NoticeDetail, error) {
	receipt, err := u.receiptRepo.FindByKey(ctx, noticeID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load receipt: %w", err)
	}
	if receipt == nil || receipt.TenantID != tenantID {
		return nil, ErrReceiptNotFound
	}

	notice, err := u.noticeRepo.FindByID(ctx, noticeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load notice: %w", err)
	}
	if notice == nil {
		return nil, ErrNoticeNotFound
	}

	recipient, err := u.recipientRepo.FindByID(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipient: %w", err)
	}
	// Holding a receipt is not enough: the stored selector and tenant are
	// re-checked so stale or cross-tenant rows never render.
	if recipient == nil || !notice.VisibleTo(tenantID, recipient.StoreID, recipient.DepartmentCode) {
		return nil, ErrNoticeNotFound
	}

	total, read, err := u.receiptRepo.CountByNotice(ctx, noticeID)
	if err != nil {
		return nil, fmt.Errorf("failed to count receipts: %w", err)
	}

	return &NoticeDetail{
		Notice:     *notice,
		Receipt:    *receipt,
		ReadCount:  read,
		TotalCount: total,
	}, nil
}

// MarkRead flips the caller's receipt to read. Marking an already-read
// receipt again is a no-op success.
func (u *noticeUsecase) MarkRead(ctx context.Context, tenantID, recipientID, noticeID string) error {
	receipt, err := u.receiptRepo.FindByKey(ctx, noticeID, recipientID)
	if err != nil {
		return fmt.Errorf("failed to load receipt: %w", err)
	}
	if receipt == nil || receipt.TenantID != tenantID {
		return ErrReceiptNotFound
	}
	return u.receiptRepo.MarkRead(ctx, noticeID, recipientID, time.Now())
}
