package domain

import "time"

// AuditFields holds standard audit information for mutable documents.
type AuditFields struct {
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by"` // UserID reference
	LastUpdatedAt time.Time `json:"updated_at"`
	LastUpdatedBy string    `json:"updated_by"` // UserID reference
}

// Role is the permission level attached to every mutating call.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

// Actor identifies who is performing an operation and with which role.
// It is passed explicitly to every mutating service call; the engine holds
// no ambient "current user" state.
type Actor struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the actor may perform administrative operations
// such as deleting documents.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
