package usecase

import "errors"

var (
	ErrNoticeNotFound  = errors.New("notice not found")
	ErrReceiptNotFound = errors.New("receipt not found")
	ErrTenantMismatch  = errors.New("tenant mismatch")
	// ErrInvalidNotice wraps creation-time configuration errors; the
	// delivery layer maps it to a 400.
	ErrInvalidNotice = errors.New("invalid notice")
)
