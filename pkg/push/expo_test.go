package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpoClientSendBatch(t *testing.T) {
	var received []Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		tickets := make([]Ticket, len(received))
		for i := range received {
			tickets[i] = Ticket{Status: StatusOK, ID: "ticket"}
		}
		json.NewEncoder(w).Encode(map[string][]Ticket{"data": tickets})
	}))
	defer server.Close()

	client := NewExpoClient(server.URL, 5*time.Second)
	tickets, err := client.SendBatch(context.Background(), []Message{
		{To: "tok-1", Title: "T", Body: "B", Data: map[string]string{"notice_id": "n1"}, Sound: "default", Priority: "high"},
		{To: "tok-2", Title: "T", Body: "B", Sound: "default", Priority: "high"},
	})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, StatusOK, tickets[0].Status)

	require.Len(t, received, 2)
	assert.Equal(t, "tok-1", received[0].To)
	assert.Equal(t, "n1", received[0].Data["notice_id"])
	assert.Equal(t, "tok-2", received[1].To)
}

func TestExpoClientPreservesTicketOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"status":"ok"},{"status":"error","message":"DeviceNotRegistered"},{"status":"ok"}]}`))
	}))
	defer server.Close()

	client := NewExpoClient(server.URL, 5*time.Second)
	tickets, err := client.SendBatch(context.Background(), []Message{
		{To: "tok-1"}, {To: "tok-2"}, {To: "tok-3"},
	})
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	assert.Equal(t, StatusOK, tickets[0].Status)
	assert.Equal(t, StatusError, tickets[1].Status)
	assert.Equal(t, "DeviceNotRegistered", tickets[1].Message)
	assert.Equal(t, StatusOK, tickets[2].Status)
}

func TestExpoClientEmptyBatchSkipsRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("gateway must not be called for an empty batch")
	}))
	defer server.Close()

	client := NewExpoClient(server.URL, 5*time.Second)
	tickets, err := client.SendBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, tickets)
}

func TestExpoClientGatewayErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewExpoClient(server.URL, 5*time.Second)
	_, err := client.SendBatch(context.Background(), []Message{{To: "tok-1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestExpoClientMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewExpoClient(server.URL, 5*time.Second)
	_, err := client.SendBatch(context.Background(), []Message{{To: "tok-1"}})
	assert.Error(t, err)
}

func TestExpoClientTicketCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"status":"ok"}]}`))
	}))
	defer server.Close()

	client := NewExpoClient(server.URL, 5*time.Second)
	_, err := client.SendBatch(context.Background(), []Message{{To: "tok-1"}, {To: "tok-2"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tickets")
}
