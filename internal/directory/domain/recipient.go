package domain

// Recipient is one entry in the employee directory. The directory service
// owns creation, activation and assignment; only the push token is written
// here, through device registration.
type Recipient struct {
	ID             string  `json:"id" gorm:"primaryKey"`
	TenantID       string  `json:"tenant_id" gorm:"index;not null"`
	Active         bool    `json:"active" gorm:"default:true"`
	StoreID        *string `json:"store_id,omitempty" gorm:"index"`
	DepartmentCode *string `json:"department_code,omitempty" gorm:"index"`
	PushToken      *string `json:"-"` // Don't expose device tokens in JSON
}

// HasPushToken reports whether the recipient has a non-empty device token
func (r *Recipient) HasPushToken() bool {
	return r.PushToken != nil && *r.PushToken != ""
}

// FilterKind selects how a directory query narrows the audience
type FilterKind string

const (
	FilterAll          FilterKind = "all"
	FilterStoreIn      FilterKind = "store_in"
	FilterDepartmentIn FilterKind = "department_in"
)

// Filter narrows a directory listing to an audience. Values is only
// meaningful for the store/department kinds.
type Filter struct {
	Kind   FilterKind
	Values []string
}

func AllFilter() Filter {
	return Filter{Kind: FilterAll}
}

func StoreIn(ids []string) Filter {
	return Filter{Kind: FilterStoreIn, Values: ids}
}

func DepartmentIn(codes []string) Filter {
	return Filter{Kind: FilterDepartmentIn, Values: codes}
}
