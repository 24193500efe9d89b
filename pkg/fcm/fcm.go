package fcm

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"noticehub-backend/pkg/push"
)

// Client adapts Firebase Cloud Messaging to the push.Gateway contract,
// for deployments where recipients register FCM tokens instead of Expo ones.
type Client struct {
	messagingClient *messaging.Client
}

// NewClient creates a new FCM client using the provided credentials file
func NewClient(credentialsFile string) (*Client, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Println("[FCM] Client initialized successfully")
	return &Client{
		messagingClient: messagingClient,
	}, nil
}

// SendBatch sends one message per token and maps the per-item FCM responses
// onto gateway tickets, preserving request order.
func (c *Client) SendBatch(ctx context.Context, messages []push.Message) ([]push.Ticket, error) {
	if len(messages) == 0 {
		return nil, nil
	}

	fcmMessages := make([]*messaging.Message, 0, len(messages))
	for _, m := range messages {
		fcmMessages = append(fcmMessages, &messaging.Message{
			Token: m.To,
			Notification: &messaging.Notification{
				Title: m.Title,
				Body:  m.Body,
			},
			Data: m.Data,
		})
	}

	response, err := c.messagingClient.SendEach(ctx, fcmMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM batch: %w", err)
	}

	log.Printf("[FCM] Batch sent: %d success, %d failures", response.SuccessCount, response.FailureCount)

	tickets := make([]push.Ticket, len(messages))
	for i, resp := range response.Responses {
		if resp.Success {
			tickets[i] = push.Ticket{Status: push.StatusOK, ID: resp.MessageID}
		} else {
			ticket := push.Ticket{Status: push.StatusError}
			if resp.Error != nil {
				ticket.Message = resp.Error.Error()
			}
			tickets[i] = ticket
		}
	}

	return tickets, nil
}
