package users

import (
	"fmt"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// RoleType represents an administrative role within the system.
type RoleType string

const (
	// RoleSuperAdmin can manage every area, its catalogs and its users
	RoleSuperAdmin RoleType = "superadmin"
	// RoleAreaAdmin can manage employees and requests within a single area
	RoleAreaAdmin RoleType = "admin_area"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r RoleType) bool {
	return r == RoleSuperAdmin || r == RoleAreaAdmin
}

type User struct {
	ID           int64      `json:"id,omitempty"`          // Unique identifier for the user
	Email        string     `json:"email,omitempty"`       // User's email address, used as the login name
	FirstName    string     `json:"first_name,omitempty"`  // First name of the user
	LastName     string     `json:"last_name,omitempty"`   // Last name(s) of the user
	Role         RoleType   `json:"role,omitempty"`        // superadmin or admin_area
	AreaID       *int64     `json:"area_id,omitempty"`     // Area an area admin is bound to; nil for superadmins
	AreaName     string     `json:"area_name,omitempty"`   // Denormalised area name for display
	PasswordHash string     `json:"-"`                     // Hashed version of the user's password - never serialize
	Active       bool       `json:"active"`                // Deactivated users cannot log in
	CreatedAt    time.Time  `json:"created_at,omitempty"`  // When the account was created
	LastAccess   *time.Time `json:"last_access,omitempty"` // Last time the user authenticated
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsSuperAdmin returns true if the user has the superadmin role
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// IsAreaAdmin returns true if the user administers a single area
func (u *User) IsAreaAdmin() bool {
	return u.Role == RoleAreaAdmin
}

// CanAccessArea checks whether the user may operate on the given area.
// Superadmins can access every area, area admins only their own.
func (u *User) CanAccessArea(areaID int64) bool {
	if u.IsSuperAdmin() {
		return true
	}
	return u.AreaID != nil && *u.AreaID == areaID
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
