package models

import (
	"strings"
	"time"
)

// Role is the closed set of dashboard roles.
type Role string

const (
	RoleManager          Role = "manager"
	RoleQuantitySurveyor Role = "quantity_surveyor"
	RoleEngineer         Role = "engineer"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleManager, RoleQuantitySurveyor, RoleEngineer:
		return true
	}
	return false
}

// User represents a dashboard user as stored by the user store.
type User struct {
	ID        string    `bson:"id" firestore:"id" json:"id"`
	Name      string    `bson:"name" firestore:"name" json:"name"`
	Email     string    `bson:"email" firestore:"email" json:"email"`
	Role      Role      `bson:"role" firestore:"role" json:"role"`
	PushToken string    `bson:"pushToken,omitempty" firestore:"pushToken,omitempty" json:"pushToken,omitempty"`
	CreatedAt time.Time `bson:"createdAt" firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" firestore:"updatedAt" json:"updatedAt"`
}

// HasPushToken reports whether the user carries a non-blank push address.
func (u User) HasPushToken() bool {
	return strings.TrimSpace(u.PushToken) != ""
}

// PushTokenUpdateRequest is the body accepted when a client registers a device.
type PushTokenUpdateRequest struct {
	PushToken string `json:"push_token"`
}
