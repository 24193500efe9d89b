package push

import "context"

// Message is one notification request sent to the push gateway.
type Message struct {
	To       string            `json:"to"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Sound    string            `json:"sound"`
	Priority string            `json:"priority"`
}

// Ticket is the gateway's per-item verdict, returned in request order.
type Ticket struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Gateway delivers one batch of notifications. Implementations must return
// exactly one ticket per message, in the same order as the input, or an error
// when the whole batch could not be delivered.
type Gateway interface {
	SendBatch(ctx context.Context, messages []Message) ([]Ticket, error)
}
