package model

import (
	"github.com/google/uuid"
)

// User is a platform user.
type User struct {
	UUID      uuid.UUID `json:"uuid" yaml:"uuid"`
	Email     string    `json:"email" yaml:"email"`
	Role      string    `json:"role,omitempty" yaml:"role,omitempty"`
	IsEnabled bool      `json:"isEnabled" yaml:"isEnabled"`
}

// Key returns the store key for the user.
func (u User) Key() string {
	return u.UUID.String()
}

// UserPage is the paginated user list response.
type UserPage struct {
	Users []User `json:"users" yaml:"users"`
	Page  `yaml:",inline"`
}
