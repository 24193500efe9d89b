package domain

import "time"

// TargetType determines how a notice's audience is resolved
type TargetType string

const (
	TargetAll        TargetType = "ALL"
	TargetStore      TargetType = "STORE"
	TargetDepartment TargetType = "DEPARTMENT"
)

// DispatchStatus is the persisted lifecycle state of a notice. The
// in-flight "dispatching" state is deliberately not persisted so a crash
// can never strand a notice in an intermediate state.
type DispatchStatus string

const (
	DispatchQueued DispatchStatus = "queued"
	DispatchDone   DispatchStatus = "done"
)

// Notice is one authored announcement intended for fan-out within a tenant
type Notice struct {
	ID              string         `json:"id" gorm:"primaryKey"`
	TenantID        string         `json:"tenant_id" gorm:"index;not null"`
	Title           string         `json:"title" gorm:"not null"`
	Body            string         `json:"body" gorm:"not null"`
	TargetType      TargetType     `json:"target_type" gorm:"not null"`
	TargetStoreIDs  []string       `json:"target_store_ids,omitempty" gorm:"serializer:json"`
	TargetDeptCodes []string       `json:"target_dept_codes,omitempty" gorm:"serializer:json"`
	DispatchStatus  DispatchStatus `json:"dispatch_status" gorm:"default:queued"`
	// DispatchedAt is the idempotency guard: once set, no further dispatch
	// attempt for this notice may run.
	DispatchedAt *time.Time `json:"dispatched_at,omitempty"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
}

// VisibleTo re-verifies that a recipient with the given assignment may see
// this notice. Receipt holders go through this check again at read time as
// a defense against stale or cross-tenant data.
func (n *Notice) VisibleTo(tenantID string, storeID, departmentCode *string) bool {
	if n.TenantID != tenantID {
		return false
	}
	switch n.TargetType {
	case TargetStore:
		if storeID == nil {
			return false
		}
		return contains(n.TargetStoreIDs, *storeID)
	case TargetDepartment:
		if departmentCode == nil {
			return false
		}
		return contains(n.TargetDeptCodes, *departmentCode)
	default:
		return true
	}
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
