package domain

import "time"

// DispatchAudit is the append-only record of one completed dispatch run
type DispatchAudit struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	NoticeID        string     `json:"notice_id" gorm:"index;not null"`
	TenantID        string     `json:"tenant_id" gorm:"index;not null"`
	TargetType      TargetType `json:"target_type"`
	TargetStoreIDs  []string   `json:"target_store_ids,omitempty" gorm:"serializer:json"`
	TargetDeptCodes []string   `json:"target_dept_codes,omitempty" gorm:"serializer:json"`
	TotalRecipients int        `json:"total_recipients"`
	TokenCount      int        `json:"token_count"`
	PushSuccess     int        `json:"push_success"`
	PushFail        int        `json:"push_fail"`
	CreatedAt       time.Time  `json:"created_at"`
}
