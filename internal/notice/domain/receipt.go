package domain

import "time"

// PushStatus records whether a push was attempted for a receipt at dispatch time
type PushStatus string

const (
	PushQueued  PushStatus = "queued"
	PushSkipped PushStatus = "skipped"
)

// Receipt is one recipient's delivery/read record for one notice. The
// composite key guarantees at most one receipt per recipient per notice
// even when dispatch is invoked twice.
type Receipt struct {
	NoticeID    string `json:"notice_id" gorm:"primaryKey"`
	RecipientID string `json:"recipient_id" gorm:"primaryKey"`
	// TenantID is denormalized from the notice so recipient-side listing
	// never needs a join for authorization.
	TenantID        string     `json:"tenant_id" gorm:"index;not null"`
	Read            bool       `json:"read" gorm:"default:false"`
	ReadAt          *time.Time `json:"read_at,omitempty"`
	PushTokenAtSend string     `json:"-"` // token snapshot for audit, not the live token
	PushStatus      PushStatus `json:"push_status" gorm:"default:queued"`
	CreatedAt       time.Time  `json:"created_at"`
}
