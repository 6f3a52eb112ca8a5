package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// Role is a user's privilege level.
type Role string

// Supported roles. ADMIN and MANAGER are elevated; MEMBER is restricted.
const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleMember  Role = "MEMBER"
)

// DefaultRole is assigned when registration does not name a role.
const DefaultRole = RoleMember

// Common validation errors
var (
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyName           = errors.New("first and last name are required")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrInvalidRole         = errors.New("invalid role")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72
)

// Valid reports whether r is one of the three supported roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

// IsElevated reports whether r grants unrestricted task operations.
func (r Role) IsElevated() bool {
	return r == RoleAdmin || r == RoleManager
}

// ParseRole converts s (case-insensitive) into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", NewValidationError("role", "must be one of ADMIN, MANAGER, MEMBER", ErrInvalidRole)
	}
	return r, nil
}

// User is a registered member of a team.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Role           Role      `json:"role"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   int64
	Role Role
}

// Actor returns the identity of u for authorization decisions.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// NewUser builds a validated User. An empty role defaults to MEMBER.
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, password, firstName, lastName string, role Role) (*User, error) {
	if role == "" {
		role = DefaultRole
	}
	now := time.Now().UTC()
	user := &User{
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Password:  password,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}
	if u.FirstName == "" || u.LastName == "" {
		return ErrEmptyName
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}

	// A plaintext password is only present during registration; stored users
	// carry the hash instead.
	if u.Password != "" {
		if len(u.Password) < minPasswordLength {
			return ErrPasswordTooShort
		}
		if len(u.Password) > maxPasswordLength {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

func validateEmailFormat(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// Reject display-name forms like "Bob <bob@example.com>".
	if addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return strings.Contains(email[at+1:], ".")
}
