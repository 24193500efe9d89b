package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	"noticehub-backend/internal/notice/usecase"
)

// NoticeCreatedEvent is the storage-level "record created" message that
// invokes the coordinator asynchronously.
type NoticeCreatedEvent struct {
	NoticeID string `json:"notice_id"`
	TenantID string `json:"tenant_id"`
}

// Service connects the Pub/Sub topic to the dispatch coordinator. Delivery
// is at least once, so the coordinator's idempotency guard is what keeps a
// redelivered event from fanning out twice.
type Service struct {
	pubsubClient *pubsub.Client
	dispatcher   *usecase.Dispatcher
	topicName    string
	subName      string
}

func NewService(projectID, topicName string, dispatcher *usecase.Dispatcher, credentialsFile string) (*Service, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %v", err)
	}

	return &Service{
		pubsubClient: client,
		dispatcher:   dispatcher,
		topicName:    topicName,
		subName:      topicName + "-sub", // Convention: topic-sub
	}, nil
}

// Publish emits a notice-created event for asynchronous dispatch
func (s *Service) Publish(ctx context.Context, event NoticeCreatedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notice event: %w", err)
	}

	topic := s.pubsubClient.Topic(s.topicName)
	result := topic.Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("failed to publish notice event: %w", err)
	}
	return nil
}

// TriggerDispatch implements the handler's DispatchTrigger by publishing
// the creation event; dispatch then runs on the subscriber side.
func (s *Service) TriggerDispatch(ctx context.Context, noticeID string) {
	if err := s.Publish(ctx, NoticeCreatedEvent{NoticeID: noticeID}); err != nil {
		log.Printf("[PubSub] Failed to publish creation event for notice %s: %v", noticeID, err)
	}
}

// Start subscribes and processes creation events until the context ends
func (s *Service) Start(ctx context.Context) {
	log.Printf("[PubSub] Starting dispatch trigger with topic: %s, subscription: %s", s.topicName, s.subName)

	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		log.Printf("[PubSub] Error checking subscription existence: %v", err)
		return
	}

	if !exists {
		topic := s.pubsubClient.Topic(s.topicName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			log.Printf("[PubSub] Error checking topic existence: %v", err)
			return
		}
		if !topicExists {
			log.Printf("[PubSub] Topic does not exist, cannot create subscription")
			return
		}

		sub, err = s.pubsubClient.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 60 * time.Second,
		})
		if err != nil {
			log.Printf("[PubSub] Failed to create subscription: %v", err)
			return
		}
		log.Printf("[PubSub] Created subscription: %s", s.subName)
	}

	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(ctx, msg)
	})
	if err != nil {
		log.Printf("[PubSub] Error receiving messages: %v", err)
	}
}

func (s *Service) handleMessage(ctx context.Context, msg *pubsub.Message) {
	var event NoticeCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("[PubSub] Failed to unmarshal notice event: %v", err)
		msg.Ack() // malformed, redelivery will not help
		return
	}

	err := s.dispatcher.Dispatch(ctx, event.NoticeID)
	if err == nil || errors.Is(err, usecase.ErrNoticeNotFound) {
		msg.Ack()
		return
	}

	// Resolver/store errors abort the attempt with the notice still
	// queued; nack so redelivery retries through the guard.
	log.Printf("[PubSub] Dispatch of notice %s failed, requeueing: %v", event.NoticeID, err)
	msg.Nack()
}
