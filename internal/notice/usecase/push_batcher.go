package usecase

import (
	"context"
	"log"

	"noticehub-backend/pkg/push"
)

// Payload is the notification content sent to every token of one notice
type Payload struct {
	Title string
	Body  string
	Data  map[string]string
}

// Tally aggregates per-item gateway verdicts across all batches
type Tally struct {
	Success int `json:"success"`
	Fail    int `json:"fail"`
}

// PushBatcher partitions tokens below the gateway's per-call item limit,
// sends one call per batch and tallies per-item accept/reject verdicts.
// Delivery is best-effort: a failing batch counts as fails for its tokens
// and never aborts the remaining batches.
type PushBatcher struct {
	gateway   push.Gateway
	batchSize int
}

func NewPushBatcher(gateway push.Gateway, batchSize int) *PushBatcher {
	return &PushBatcher{gateway: gateway, batchSize: batchSize}
}

func (b *PushBatcher) Send(ctx context.Context, tokens []string, payload Payload) Tally {
	var tally Tally

	for start := 0; start < len(tokens); start += b.batchSize {
		end := min(start+b.batchSize, len(tokens))
		chunk := tokens[start:end]

		messages := make([]push.Message, len(chunk))
		for i, token := range chunk {
			messages[i] = push.Message{
				To:       token,
				Title:    payload.Title,
				Body:     payload.Body,
				Data:     payload.Data,
				Sound:    "default",
				Priority: "high",
			}
		}

		tickets, err := b.gateway.SendBatch(ctx, messages)
		if err != nil {
			log.Printf("[Push] batch of %d failed: %v", len(chunk), err)
			tally.Fail += len(chunk)
			continue
		}

		ok := 0
		for _, ticket := range tickets {
			if ticket.Status == push.StatusOK {
				ok++
			}
		}
		tally.Success += ok
		// An absent per-item verdict counts as a failure for its token.
		tally.Fail += len(chunk) - ok
	}

	return tally
}
