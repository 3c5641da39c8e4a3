package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents user roles in the system
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
)

// TechnicianEmailMarker is the domain marker that identifies technician
// accounts by convention, e.g. "jperez@tecnico.taller.cl".
const TechnicianEmailMarker = "@tecnico"

// MaxUsers is the hard cap on user records. Creation beyond the cap is
// rejected before any write reaches the store.
const MaxUsers = 5

// User represents a workshop user. Credentials are never stored in clear:
// only the bcrypt hash is persisted, and it is excluded from JSON output.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RUT          string             `bson:"rut" json:"rut"`
	Name         string             `bson:"name" json:"name"`
	LastName     string             `bson:"lastname" json:"lastname"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

// UserDraft carries the caller-provided fields for a new or updated user.
// Password is the plaintext credential supplied by the caller; it is hashed
// before the record is written and never persisted as-is.
type UserDraft struct {
	RUT      string `json:"rut"`
	Name     string `json:"name"`
	LastName string `json:"lastname"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleTechnician:
		return true
	default:
		return false
	}
}

// IsTechnician reports whether the user works as a technician, either by
// role or by the email domain convention the workshop uses.
func (u *User) IsTechnician() bool {
	return u.Role == RoleTechnician || strings.Contains(u.Email, TechnicianEmailMarker)
}

// FullName returns the display name used by reports.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.Name
	}
	return u.Name + " " + u.LastName
}

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Exp    int64  `json:"exp"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
