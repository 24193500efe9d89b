package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"noticehub-backend/internal/notice/domain"
	"noticehub-backend/internal/notice/repository"
)

// Dispatcher orchestrates the fan-out pipeline for one notice: resolve the
// audience, persist receipts, push notifications, record an audit entry and
// close the idempotency guard. The whole pipeline runs at most once per
// notice even under retries or concurrent triggers.
type Dispatcher struct {
	noticeRepo repository.NoticeRepository
	auditRepo  repository.AuditRepository
	resolver   *Resolver
	writer     *ReceiptWriter
	batcher    *PushBatcher
}

func NewDispatcher(
	noticeRepo repository.NoticeRepository,
	auditRepo repository.AuditRepository,
	resolver *Resolver,
	writer *ReceiptWriter,
	batcher *PushBatcher,
) *Dispatcher {
	return &Dispatcher{
		noticeRepo: noticeRepo,
		auditRepo:  auditRepo,
		resolver:   resolver,
		writer:     writer,
		batcher:    batcher,
	}
}

// Dispatch is the single coordinator entry point, shared by the fast path
// after creation and the at-least-once event trigger. An already-dispatched
// notice is a silent no-op; any error before the closing write leaves the
// notice queued and the whole attempt safe to retry.
func (d *Dispatcher) Dispatch(ctx context.Context, noticeID string) error {
	notice, err := d.noticeRepo.FindByID(ctx, noticeID)
	if err != nil {
		return fmt.Errorf("failed to load notice %s: %w", noticeID, err)
	}
	if notice == nil {
		return ErrNoticeNotFound
	}
	if notice.DispatchedAt != nil {
		log.Printf("[Dispatch] Notice %s already dispatched, skipping", noticeID)
		return nil
	}

	recipients, err := d.resolver.Resolve(ctx, notice)
	if err != nil {
		return fmt.Errorf("failed to resolve audience for notice %s: %w", noticeID, err)
	}

	tokens, err := d.writer.Write(ctx, notice, recipients)
	if err != nil {
		return fmt.Errorf("failed to write receipts for notice %s: %w", noticeID, err)
	}

	// Gateway failures degrade to fail tallies inside the batcher and
	// never abort the remaining steps.
	tally := d.batcher.Send(ctx, tokens, Payload{
		Title: notice.Title,
		Body:  notice.Body,
		Data: map[string]string{
			"type":      "notice",
			"notice_id": notice.ID,
		},
	})

	normalizeTarget(notice)

	audit := &domain.DispatchAudit{
		NoticeID:        notice.ID,
		TenantID:        notice.TenantID,
		TargetType:      notice.TargetType,
		TargetStoreIDs:  notice.TargetStoreIDs,
		TargetDeptCodes: notice.TargetDeptCodes,
		TotalRecipients: len(recipients),
		TokenCount:      len(tokens),
		PushSuccess:     tally.Success,
		PushFail:        tally.Fail,
	}
	if err := d.auditRepo.Append(ctx, audit); err != nil {
		return fmt.Errorf("failed to append audit entry for notice %s: %w", noticeID, err)
	}

	closed, err := d.noticeRepo.MarkDispatched(ctx, notice, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark notice %s dispatched: %w", noticeID, err)
	}
	if !closed {
		// A concurrent attempt closed the guard first; both converged to
		// the same receipt set, so nothing to undo.
		log.Printf("[Dispatch] Notice %s was closed by a concurrent attempt", noticeID)
		return nil
	}

	log.Printf("[Dispatch] Notice %s dispatched: %d recipients, %d tokens, %d ok, %d failed",
		noticeID, len(recipients), len(tokens), tally.Success, tally.Fail)
	return nil
}

// normalizeTarget clears the selector set that does not belong to the
// notice's target type before the snapshot is persisted.
func normalizeTarget(n *domain.Notice) {
	switch n.TargetType {
	case domain.TargetStore:
		n.TargetDeptCodes = nil
	case domain.TargetDepartment:
		n.TargetStoreIDs = nil
	default:
		n.TargetStoreIDs = nil
		n.TargetDeptCodes = nil
	}
}
