// File: /models/account.go
package models

import (
	"time"
)

// Role is the closed set of principal types. Authorization decisions go
// through Role.In rather than ad hoc string comparisons in handlers.
type Role string

const (
	RoleUser      Role = "user"
	RoleOrganiser Role = "organiser"
	RoleStaff     Role = "staff"
	RoleAdmin     Role = "admin"
)

// In reports whether the role is one of the allowed roles.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

func (r Role) Valid() bool {
	return r.In(RoleUser, RoleOrganiser, RoleStaff, RoleAdmin)
}

type Account struct {
	ID       string `json:"id" gorm:"primaryKey;size:191"`
	Name     string `json:"name" gorm:"not null;size:255"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password string `json:"-" gorm:"not null;size:255"`
	Phone    string `json:"phone" gorm:"size:30"`
	Role     Role   `json:"role" gorm:"not null;size:20;index"`

	// Geolocation, set for staff accounts. Nil coordinates mean the account
	// has no usable location and is excluded from proximity matching.
	Address   string   `json:"address" gorm:"size:500"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Events       []Event       `json:"events,omitempty" gorm:"foreignKey:OrganiserID"`
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:StaffID"`
}

// HasLocation reports whether both coordinates are present.
func (a *Account) HasLocation() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// AccountSummary is the public shape of an account embedded in other
// responses (organiser info on events, staff info on applications).
type AccountSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:    a.ID,
		Name:  a.Name,
		Email: a.Email,
		Phone: a.Phone,
	}
}
