package models

import "time"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
)

// Roles lists every accepted role in display order.
var Roles = []Role{RoleAdmin, RoleUser, RoleModerator}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleModerator:
		return true
	}
	return false
}

type Status string

const (
	StatusActive  Status = "active"
	StatusBanned  Status = "banned"
	StatusPending Status = "pending"
)

// Statuses lists every accepted status in display order.
var Statuses = []Status{StatusActive, StatusBanned, StatusPending}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusBanned, StatusPending:
		return true
	}
	return false
}

// User is the managed record. ID and CreatedAt never change after insert.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateUserInput is the payload of a create call. Empty Role/Status take
// the model defaults (user, active).
type CreateUserInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Status Status `json:"status"`
}

// UpdateUserInput applies only the non-nil fields.
type UpdateUserInput struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Role   *Role   `json:"role,omitempty"`
	Status *Status `json:"status,omitempty"`
}

// Empty reports whether no field would change.
func (in UpdateUserInput) Empty() bool {
	return in.Name == nil && in.Email == nil && in.Role == nil && in.Status == nil
}
