package domain

import (
	"fmt"
	"time"
)

// Role is a user's role at the conference.
type Role string

const (
	RoleAttendee Role = "attendee"
	RoleSpeaker  Role = "speaker"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a stored role onto the closed set. Unknown or empty values
// fall back to attendee.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleSpeaker, RoleAdmin:
		return Role(s)
	}
	return RoleAttendee
}

// Label is the badge text for the role.
func (r Role) Label() string {
	switch r {
	case RoleAttendee:
		return "Attendee"
	case RoleSpeaker:
		return "Speaker"
	case RoleAdmin:
		return "Admin"
	}
	panic(fmt.Sprintf("unknown role %q", string(r)))
}

// Color is the badge color for the role.
func (r Role) Color() string {
	switch r {
	case RoleAttendee:
		return "#6b7280"
	case RoleSpeaker:
		return "#0026ce"
	case RoleAdmin:
		return "#dc2626"
	}
	panic(fmt.Sprintf("unknown role %q", string(r)))
}

// UserProfile is the users/{uid} document.
// SessionizeID links a speaker account to the schedule's speaker id.
type UserProfile struct {
	UID          string    `json:"uid" firestore:"uid"`
	Email        string    `json:"email" firestore:"email"`
	DisplayName  string    `json:"display_name" firestore:"displayName"`
	Role         Role      `json:"role" firestore:"role"`
	SessionizeID string    `json:"sessionize_id,omitempty" firestore:"sessionizeId,omitempty"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
}

// User is a signed-in identity as issued by the identity provider.
type User struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name,omitempty"`
	IDToken      string    `json:"id_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// SignUpRequest is an email/password registration
type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"display_name" validate:"required"`
}

// SignInRequest is an email/password sign-in
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Identity is a signed-in user with the profile and admin flag resolved for them.
type Identity struct {
	User    User         `json:"user"`
	Profile *UserProfile `json:"profile"`
	IsAdmin bool         `json:"is_admin"`
}
