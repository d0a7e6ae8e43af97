// FILE: internal/entity/user_entity.go
package entity

import (
	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleContractor UserRole = "contractor"
	UserRoleClient     UserRole = "client"
	UserRoleHomeowner  UserRole = "homeowner"
	UserRoleAdmin      UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleContractor, UserRoleClient, UserRoleHomeowner, UserRoleAdmin:
		return true
	}
	return false
}

type UserPreferences struct {
	Theme         string `json:"theme,omitempty"`
	Notifications bool   `json:"notifications"`
	Language      string `json:"language,omitempty"`
}

type User struct {
	Id          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Role        UserRole         `json:"role"`
	Avatar      string           `json:"avatar,omitempty"`
	Company     string           `json:"company,omitempty"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
}
