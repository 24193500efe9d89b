package delivery

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"noticehub-backend/internal/notice/domain"
	"noticehub-backend/internal/notice/usecase"
)

// DispatchTrigger hands a freshly created notice to the coordinator. Both
// implementations (in-process fast path, Pub/Sub event) end up in the same
// idempotent Dispatch entry point.
type DispatchTrigger interface {
	TriggerDispatch(ctx context.Context, noticeID string)
}

// NoticeHandler handles notice-related HTTP requests
type NoticeHandler struct {
	noticeUsecase usecase.NoticeUsecase
	dispatcher    *usecase.Dispatcher
	sweeper       *usecase.Sweeper
	deleter       *usecase.CascadeDeleter
	trigger       DispatchTrigger
	sweepLookback time.Duration
}

// NewNoticeHandler creates a new NoticeHandler
func NewNoticeHandler(
	noticeUsecase usecase.NoticeUsecase,
	dispatcher *usecase.Dispatcher,
	sweeper *usecase.Sweeper,
	deleter *usecase.CascadeDeleter,
	trigger DispatchTrigger,
	sweepLookback time.Duration,
) *NoticeHandler {
	return &NoticeHandler{
		noticeUsecase: noticeUsecase,
		dispatcher:    dispatcher,
		sweeper:       sweeper,
		deleter:       deleter,
		trigger:       trigger,
		sweepLookback: sweepLookback,
	}
}

// CreateNoticeRequest represents the request body for creating a notice
type CreateNoticeRequest struct {
	Title           string   `json:"title" binding:"required"`
	Body            string   `json:"body" binding:"required"`
	TargetType      string   `json:"target_type" binding:"required"`
	TargetStoreIDs  []string `json:"target_store_ids"`
	TargetDeptCodes []string `json:"target_dept_codes"`
}

// CreateNotice persists a notice and triggers its fan-out. The response
// returns as soon as the notice is queued; delivery results are visible
// only through the audit entries and receipts.
// POST /api/notices
func (h *NoticeHandler) CreateNotice(c *gin.Context) {
	tenantID := c.GetString("tenantID")
	userID := c.GetString("userID")

	var req CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notice, err := h.noticeUsecase.CreateNotice(c.Request.Context(), tenantID, userID, usecase.CreateNoticeInput{
		Title:           req.Title,
		Body:            req.Body,
		TargetType:      domain.TargetType(req.TargetType),
		TargetStoreIDs:  req.TargetStoreIDs,
		TargetDeptCodes: req.TargetDeptCodes,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidNotice) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.trigger.TriggerDispatch(c.Request.Context(), notice.ID)

	c.JSON(http.StatusCreated, notice)
}

// GetNotices returns the caller's notices with their read state. An
// optional q parameter fuzzy-filters by title and body.
// GET /api/notices?q=inventory
func (h *NoticeHandler) GetNotices(c *gin.Context) {
	tenantID := c.GetString("tenantID")
	userID := c.GetString("userID")

	items, err := h.noticeUsecase.SearchForRecipient(c.Request.Context(), tenantID, userID, c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notices": items,
		"total":   len(items),
	})
}

// GetNoticeByID returns one notice the caller holds a receipt for
// GET /api/notices/:id
func (h *NoticeHandler) GetNoticeByID(c *gin.Context) {
	tenantID := c.GetString("tenantID")
	userID := c.GetString("userID")
	noticeID := c.Param("id")

	detail, err := h.noticeUsecase.GetForRecipient(c.Request.Context(), tenantID, userID, noticeID)
	if err != nil {
		if errors.Is(err, usecase.ErrReceiptNotFound) || errors.Is(err, usecase.ErrNoticeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// MarkRead marks the caller's receipt as read
// PATCH /api/notices/:id/read
func (h *NoticeHandler) MarkRead(c *gin.Context) {
	tenantID := c.GetString("tenantID")
	userID := c.GetString("userID")
	noticeID := c.Param("id")

	if err := h.noticeUsecase.MarkRead(c.Request.Context(), tenantID, userID, noticeID); err != nil {
		if errors.Is(err, usecase.ErrReceiptNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Dispatch manually (re-)invokes the coordinator for a notice. The
// idempotency guard makes a second invocation a silent no-op.
// POST /api/notices/:id/dispatch
func (h *NoticeHandler) Dispatch(c *gin.Context) {
	noticeID := c.Param("id")

	if err := h.dispatcher.Dispatch(c.Request.Context(), noticeID); err != nil {
		if errors.Is(err, usecase.ErrNoticeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DeleteNotice cascade-deletes a notice and its receipts
// DELETE /api/notices/:id
func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	tenantID := c.GetString("tenantID")
	noticeID := c.Param("id")

	deleted, err := h.deleter.Delete(c.Request.Context(), tenantID, noticeID)
	if err != nil {
		if errors.Is(err, usecase.ErrNoticeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notice not found"})
			return
		}
		if errors.Is(err, usecase.ErrTenantMismatch) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted_receipts": deleted})
}

// Sweep runs the unread re-notification pass on demand
// POST /api/notices/sweep?lookback=6h
func (h *NoticeHandler) Sweep(c *gin.Context) {
	lookback := h.sweepLookback
	if v := c.Query("lookback"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lookback duration"})
			return
		}
		lookback = parsed
	}

	result, err := h.sweeper.Sweep(c.Request.Context(), lookback)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// LocalTrigger dispatches in a background goroutine right after creation.
// The HTTP caller never waits for the fan-out.
type LocalTrigger struct {
	dispatcher *usecase.Dispatcher
	timeout    time.Duration
}

func NewLocalTrigger(dispatcher *usecase.Dispatcher, timeout time.Duration) *LocalTrigger {
	return &LocalTrigger{dispatcher: dispatcher, timeout: timeout}
}

func (t *LocalTrigger) TriggerDispatch(_ context.Context, noticeID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		if err := t.dispatcher.Dispatch(ctx, noticeID); err != nil {
			// The author already has the notice id; failures surface to
			// operators and the notice stays queued for a retried dispatch.
			log.Printf("[Dispatch] Fast-path dispatch of notice %s failed: %v", noticeID, err)
		}
	}()
}
