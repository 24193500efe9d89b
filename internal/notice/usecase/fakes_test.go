package usecase

import (
	"context"
	"errors"
	"time"

	directorydomain "noticehub-backend/internal/directory/domain"
	"noticehub-backend/internal/notice/domain"
	"noticehub-backend/pkg/push"
)

func strPtr(s string) *string { return &s }

// fakeRecipientRepo serves an in-memory directory
type fakeRecipientRepo struct {
	recipients []directorydomain.Recipient
	listCalls  []directorydomain.Filter
	err        error
}

func (f *fakeRecipientRepo) ListActive(_ context.Context, tenantID string, filter directorydomain.Filter) ([]directorydomain.Recipient, error) {
	f.listCalls = append(f.listCalls, filter)
	if f.err != nil {
		return nil, f.err
	}

	var out []directorydomain.Recipient
	for _, rec := range f.recipients {
		if rec.TenantID != tenantID || !rec.Active {
			continue
		}
		switch filter.Kind {
		case directorydomain.FilterAll:
			out = append(out, rec)
		case directorydomain.FilterStoreIn:
			if rec.StoreID != nil && containsValue(filter.Values, *rec.StoreID) {
				out = append(out, rec)
			}
		case directorydomain.FilterDepartmentIn:
			if rec.DepartmentCode != nil && containsValue(filter.Values, *rec.DepartmentCode) {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

func (f *fakeRecipientRepo) FindByID(_ context.Context, id string) (*directorydomain.Recipient, error) {
	for _, rec := range f.recipients {
		if rec.ID == id {
			r := rec
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRecipientRepo) ListByIDs(_ context.Context, tenantID string, ids []string) ([]directorydomain.Recipient, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []directorydomain.Recipient
	for _, rec := range f.recipients {
		if rec.TenantID == tenantID && rec.Active && containsValue(ids, rec.ID) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRecipientRepo) UpdatePushToken(_ context.Context, tenantID, recipientID string, token *string) error {
	for i, rec := range f.recipients {
		if rec.ID == recipientID && rec.TenantID == tenantID {
			f.recipients[i].PushToken = token
			return nil
		}
	}
	return errors.New("recipient not found")
}

func containsValue(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// fakeNoticeRepo stores notices in memory
type fakeNoticeRepo struct {
	notices map[string]domain.Notice
}

func newFakeNoticeRepo(notices ...domain.Notice) *fakeNoticeRepo {
	repo := &fakeNoticeRepo{notices: make(map[string]domain.Notice)}
	for _, n := range notices {
		repo.notices[n.ID] = n
	}
	return repo
}

func (f *fakeNoticeRepo) Create(_ context.Context, notice *domain.Notice) error {
	if notice.ID == "" {
		notice.ID = "notice-" + time.Now().Format("150405.000000000")
	}
	notice.CreatedAt = time.Now()
	f.notices[notice.ID] = *notice
	return nil
}

func (f *fakeNoticeRepo) FindByID(_ context.Context, id string) (*domain.Notice, error) {
	n, ok := f.notices[id]
	if !ok {
		return nil, nil
	}
	copied := n
	return &copied, nil
}

func (f *fakeNoticeRepo) FindByIDs(_ context.Context, tenantID string, ids []string) ([]domain.Notice, error) {
	var out []domain.Notice
	for _, id := range ids {
		if n, ok := f.notices[id]; ok && n.TenantID == tenantID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNoticeRepo) MarkDispatched(_ context.Context, notice *domain.Notice, at time.Time) (bool, error) {
	stored, ok := f.notices[notice.ID]
	if !ok || stored.DispatchedAt != nil {
		return false, nil
	}
	stored.TargetStoreIDs = notice.TargetStoreIDs
	stored.TargetDeptCodes = notice.TargetDeptCodes
	stored.DispatchStatus = domain.DispatchDone
	stored.DispatchedAt = &at
	f.notices[notice.ID] = stored
	return true, nil
}

func (f *fakeNoticeRepo) Delete(_ context.Context, id string) error {
	delete(f.notices, id)
	return nil
}

// fakeReceiptRepo stores receipts in memory and records batch sizes
type receiptKey struct {
	noticeID    string
	recipientID string
}

type fakeReceiptRepo struct {
	receipts      map[receiptKey]domain.Receipt
	upsertBatches []int
	deleteBatches []int
	maxWrite      int
	maxDelete     int
	upsertErr     error
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{receipts: make(map[receiptKey]domain.Receipt)}
}

func (f *fakeReceiptRepo) UpsertBatch(_ context.Context, batch []domain.Receipt) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.maxWrite > 0 && len(batch) > f.maxWrite {
		return errors.New("batch exceeds write limit")
	}
	f.upsertBatches = append(f.upsertBatches, len(batch))
	for _, receipt := range batch {
		key := receiptKey{receipt.NoticeID, receipt.RecipientID}
		if existing, ok := f.receipts[key]; ok {
			existing.TenantID = receipt.TenantID
			existing.PushTokenAtSend = receipt.PushTokenAtSend
			existing.PushStatus = receipt.PushStatus
			f.receipts[key] = existing
			continue
		}
		f.receipts[key] = receipt
	}
	return nil
}

func (f *fakeReceiptRepo) ListByNoticeID(_ context.Context, noticeID string, limit int) ([]domain.Receipt, error) {
	var out []domain.Receipt
	for _, receipt := range f.receipts {
		if receipt.NoticeID == noticeID {
			out = append(out, receipt)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeReceiptRepo) DeleteBatch(_ context.Context, noticeID string, recipientIDs []string) (int64, error) {
	if f.maxDelete > 0 && len(recipientIDs) > f.maxDelete {
		return 0, errors.New("batch exceeds delete limit")
	}
	f.deleteBatches = append(f.deleteBatches, len(recipientIDs))
	var deleted int64
	for _, id := range recipientIDs {
		key := receiptKey{noticeID, id}
		if _, ok := f.receipts[key]; ok {
			delete(f.receipts, key)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeReceiptRepo) FindByKey(_ context.Context, noticeID, recipientID string) (*domain.Receipt, error) {
	receipt, ok := f.receipts[receiptKey{noticeID, recipientID}]
	if !ok {
		return nil, nil
	}
	copied := receipt
	return &copied, nil
}

func (f *fakeReceiptRepo) MarkRead(_ context.Context, noticeID, recipientID string, at time.Time) error {
	key := receiptKey{noticeID, recipientID}
	receipt, ok := f.receipts[key]
	if !ok || receipt.Read {
		return nil
	}
	receipt.Read = true
	receipt.ReadAt = &at
	f.receipts[key] = receipt
	return nil
}

func (f *fakeReceiptRepo) ListUnreadSince(_ context.Context, cutoff time.Time) ([]domain.Receipt, error) {
	var out []domain.Receipt
	for _, receipt := range f.receipts {
		if !receipt.Read && receipt.CreatedAt.After(cutoff) {
			out = append(out, receipt)
		}
	}
	return out, nil
}

func (f *fakeReceiptRepo) ListByRecipient(_ context.Context, tenantID, recipientID string) ([]domain.Receipt, error) {
	var out []domain.Receipt
	for _, receipt := range f.receipts {
		if receipt.TenantID == tenantID && receipt.RecipientID == recipientID {
			out = append(out, receipt)
		}
	}
	return out, nil
}

func (f *fakeReceiptRepo) CountByNotice(_ context.Context, noticeID string) (int64, int64, error) {
	var total, read int64
	for _, receipt := range f.receipts {
		if receipt.NoticeID == noticeID {
			total++
			if receipt.Read {
				read++
			}
		}
	}
	return total, read, nil
}

func (f *fakeReceiptRepo) countForNotice(noticeID string) int {
	n := 0
	for key := range f.receipts {
		if key.noticeID == noticeID {
			n++
		}
	}
	return n
}

// fakeGateway records every batch it is handed. Individual calls can be
// made to fail wholesale or to reject specific tokens.
type fakeGateway struct {
	batches     [][]string
	failCalls   map[int]bool
	rejectToken map[string]bool
	lastData    map[string]string
	lastTitle   string
}

func (f *fakeGateway) SendBatch(_ context.Context, messages []push.Message) ([]push.Ticket, error) {
	call := len(f.batches)
	tokens := make([]string, len(messages))
	for i, m := range messages {
		tokens[i] = m.To
	}
	f.batches = append(f.batches, tokens)
	if len(messages) > 0 {
		f.lastTitle = messages[0].Title
		f.lastData = messages[0].Data
	}

	if f.failCalls[call] {
		return nil, errors.New("gateway unavailable")
	}

	tickets := make([]push.Ticket, len(messages))
	for i, m := range messages {
		if f.rejectToken[m.To] {
			tickets[i] = push.Ticket{Status: push.StatusError, Message: "DeviceNotRegistered"}
			continue
		}
		tickets[i] = push.Ticket{Status: push.StatusOK, ID: "ticket"}
	}
	return tickets, nil
}

func (f *fakeGateway) sentTokens() []string {
	var out []string
	for _, batch := range f.batches {
		out = append(out, batch...)
	}
	return out
}

// fakeAuditRepo records appended audit entries
type fakeAuditRepo struct {
	entries []domain.DispatchAudit
}

func (f *fakeAuditRepo) Append(_ context.Context, entry *domain.DispatchAudit) error {
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) ListByNoticeID(_ context.Context, noticeID string) ([]domain.DispatchAudit, error) {
	var out []domain.DispatchAudit
	for _, e := range f.entries {
		if e.NoticeID == noticeID {
			out = append(out, e)
		}
	}
	return out, nil
}
