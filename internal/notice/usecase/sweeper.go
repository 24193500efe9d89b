package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	directoryrepo "noticehub-backend/internal/directory/repository"
	"noticehub-backend/internal/notice/domain"
	"noticehub-backend/internal/notice/repository"
)

// Sweeper re-notifies recipients holding unread receipts inside a lookback
// window. It is an at-least-once, best-effort nudge: repeated sweeps with
// overlapping windows remind the same recipients again, and no state is
// written back to receipts or notices.
type Sweeper struct {
	noticeRepo    repository.NoticeRepository
	receiptRepo   repository.ReceiptRepository
	recipientRepo directoryrepo.RecipientRepository
	batcher       *PushBatcher
	inQueryLimit  int
}

func NewSweeper(
	noticeRepo repository.NoticeRepository,
	receiptRepo repository.ReceiptRepository,
	recipientRepo directoryrepo.RecipientRepository,
	batcher *PushBatcher,
	inQueryLimit int,
) *Sweeper {
	return &Sweeper{
		noticeRepo:    noticeRepo,
		receiptRepo:   receiptRepo,
		recipientRepo: recipientRepo,
		batcher:       batcher,
		inQueryLimit:  inQueryLimit,
	}
}

// SweepResult summarizes one re-notification pass
type SweepResult struct {
	Notices  int   `json:"notices"`
	Reminded int   `json:"reminded"`
	Tally    Tally `json:"tally"`
}

func (s *Sweeper) Sweep(ctx context.Context, lookback time.Duration) (SweepResult, error) {
	cutoff := time.Now().Add(-lookback)

	receipts, err := s.receiptRepo.ListUnreadSince(ctx, cutoff)
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to list unread receipts: %w", err)
	}

	groups := make(map[string][]domain.Receipt)
	for _, receipt := range receipts {
		groups[receipt.NoticeID] = append(groups[receipt.NoticeID], receipt)
	}

	var result SweepResult
	for noticeID, group := range groups {
		notice, err := s.noticeRepo.FindByID(ctx, noticeID)
		if err != nil {
			log.Printf("[Sweeper] Failed to load notice %s: %v", noticeID, err)
			continue
		}
		if notice == nil {
			continue
		}

		// Fresh token read: tokens may have rotated since the original
		// dispatch, and recipients without a live token are skipped.
		tokens, err := s.liveTokens(ctx, notice.TenantID, group)
		if err != nil {
			log.Printf("[Sweeper] Failed to read live tokens for notice %s: %v", noticeID, err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}

		tally := s.batcher.Send(ctx, tokens, Payload{
			Title: "[Reminder] " + notice.Title,
			Body:  notice.Body,
			Data: map[string]string{
				"type":      "notice",
				"notice_id": notice.ID,
				"remind":    "true",
			},
		})

		result.Notices++
		result.Reminded += len(tokens)
		result.Tally.Success += tally.Success
		result.Tally.Fail += tally.Fail
	}

	log.Printf("[Sweeper] Swept %d unread receipts across %d notices: %d reminders, %d ok, %d failed",
		len(receipts), result.Notices, result.Reminded, result.Tally.Success, result.Tally.Fail)
	return result, nil
}

func (s *Sweeper) liveTokens(ctx context.Context, tenantID string, receipts []domain.Receipt) ([]string, error) {
	ids := make([]string, 0, len(receipts))
	for _, receipt := range receipts {
		ids = append(ids, receipt.RecipientID)
	}

	var tokens []string
	for start := 0; start < len(ids); start += s.inQueryLimit {
		end := min(start+s.inQueryLimit, len(ids))
		recipients, err := s.recipientRepo.ListByIDs(ctx, tenantID, ids[start:end])
		if err != nil {
			return nil, err
		}
		for _, rec := range recipients {
			if rec.HasPushToken() {
				tokens = append(tokens, *rec.PushToken)
			}
		}
	}
	return tokens, nil
}
