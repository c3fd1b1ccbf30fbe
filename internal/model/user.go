package model

// Role defines the access level of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// UserStatus defines the account lifecycle state. An empty status on records
// written by older clients is treated as active.
type UserStatus string

const (
	StatusActive  UserStatus = "active"
	StatusPending UserStatus = "pending"
)

// User represents one account in the shared users document. The whole list is
// a single JSON document on the drive, rewritten in full on every mutation.
type User struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Password    string     `json:"password"`
	DisplayName string     `json:"displayName"`
	Unit        string     `json:"unit"`
	Role        Role       `json:"role"`
	Status      UserStatus `json:"status,omitempty"`
}

// IsActive treats a missing status as active for backward compatibility with
// records written before the approval flow existed.
func (u User) IsActive() bool {
	return u.Status == StatusActive || u.Status == ""
}
