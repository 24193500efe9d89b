package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noticehub-backend/internal/notice/domain"
)

func TestCascadeDeleteRemovesAllReceiptsInBatches(t *testing.T) {
	notices := newFakeNoticeRepo(
		domain.Notice{ID: "n1", TenantID: "t1", Title: "T", Body: "B", TargetType: domain.TargetAll},
	)
	receipts := newFakeReceiptRepo()
	receipts.maxDelete = 300
	for i := 0; i < 1200; i++ {
		seedReceipt(receipts, "n1", fmt.Sprintf("u%04d", i), i%2 == 0, time.Hour)
	}

	deleter := NewCascadeDeleter(notices, receipts, 300)

	deleted, err := deleter.Delete(context.Background(), "t1", "n1")
	require.NoError(t, err)

	assert.Equal(t, int64(1200), deleted)
	assert.Equal(t, 0, receipts.countForNotice("n1"))
	assert.Len(t, receipts.deleteBatches, 4)
	for _, size := range receipts.deleteBatches {
		assert.LessOrEqual(t, size, 300)
	}

	stored, err := notices.FindByID(context.Background(), "n1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestCascadeDeleteLeavesOtherNoticesAlone(t *testing.T) {
	notices := newFakeNoticeRepo(
		domain.Notice{ID: "n1", TenantID: "t1", Title: "T", Body: "B", TargetType: domain.TargetAll},
		domain.Notice{ID: "n2", TenantID: "t1", Title: "T", Body: "B", TargetType: domain.TargetAll},
	)
	receipts := newFakeReceiptRepo()
	seedReceipt(receipts, "n1", "u1", false, time.Hour)
	seedReceipt(receipts, "n2", "u1", false, time.Hour)

	deleter := NewCascadeDeleter(notices, receipts, 300)

	deleted, err := deleter.Delete(context.Background(), "t1", "n1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, 1, receipts.countForNotice("n2"))

	survivor, err := notices.FindByID(context.Background(), "n2")
	require.NoError(t, err)
	require.NotNil(t, survivor)
}

func TestCascadeDeleteRejectsForeignTenant(t *testing.T) {
	notices := newFakeNoticeRepo(
		domain.Notice{ID: "n1", TenantID: "t1", Title: "T", Body: "B", TargetType: domain.TargetAll},
	)
	receipts := newFakeReceiptRepo()
	seedReceipt(receipts, "n1", "u1", false, time.Hour)

	deleter := NewCascadeDeleter(notices, receipts, 300)

	_, err := deleter.Delete(context.Background(), "t2", "n1")
	assert.ErrorIs(t, err, ErrTenantMismatch)

	assert.Equal(t, 1, receipts.countForNotice("n1"))
	stored, findErr := notices.FindByID(context.Background(), "n1")
	require.NoError(t, findErr)
	require.NotNil(t, stored)
}

func TestCascadeDeleteUnknownNotice(t *testing.T) {
	deleter := NewCascadeDeleter(newFakeNoticeRepo(), newFakeReceiptRepo(), 300)

	_, err := deleter.Delete(context.Background(), "t1", "missing")
	assert.ErrorIs(t, err, ErrNoticeNotFound)
}
