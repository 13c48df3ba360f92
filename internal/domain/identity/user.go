package identity

import (
	"crypto/rand"
	"encoding/base64"
	"net/mail"
	"strings"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role is the access role of a user
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleOwner      Role = "owner"
	RoleManager    Role = "manager"
	RoleAttendant  Role = "attendant"
)

// IsTenantRole reports whether r is a role held by tenant users
func (r Role) IsTenantRole() bool {
	return r == RoleOwner || r == RoleManager || r == RoleAttendant
}

// BypassesStationAccess reports whether the role may act on every station of its tenant
func (r Role) BypassesStationAccess() bool {
	return r == RoleOwner || r == RoleSuperAdmin
}

// Password cost for bcrypt
const bcryptCost = 10

const minPasswordLength = 6

// User is a tenant-bound account
type User struct {
	shared.TenantEntity
	Email        string
	Name         string
	Role         Role
	PasswordHash string
}

// NewUser creates a tenant user with a hashed password
func NewUser(tenantID uuid.UUID, email, name string, role Role, password string) (*User, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Tenant is required")
	}
	if !role.IsTenantRole() {
		return nil, shared.Errorf(shared.CodeInvalidInput, "Invalid role: %s", role)
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
	}, nil
}

// Update changes profile fields; empty values are ignored
func (u *User) Update(name, email string, role Role) error {
	if email != "" {
		normalized, err := normalizeEmail(email)
		if err != nil {
			return err
		}
		u.Email = normalized
	}
	if role != "" {
		if !role.IsTenantRole() {
			return shared.Errorf(shared.CodeInvalidInput, "Invalid role: %s", role)
		}
		u.Role = role
	}
	if n := strings.TrimSpace(name); n != "" {
		u.Name = n
	}
	u.Touch()
	return nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// CheckPassword compares a plaintext password with the stored hash
func (u *User) CheckPassword(password string) bool {
	return CheckPassword(u.PasswordHash, password)
}

// AdminUser is a platform superadmin account. Admins are not bound to a tenant.
type AdminUser struct {
	shared.BaseEntity
	Email        string
	Name         string
	PasswordHash string
}

// NewAdminUser creates a superadmin account
func NewAdminUser(email, name, password string) (*AdminUser, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	return &AdminUser{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}, nil
}

// Update changes admin profile fields; empty values are ignored
func (a *AdminUser) Update(name, email string) error {
	if email != "" {
		normalized, err := normalizeEmail(email)
		if err != nil {
			return err
		}
		a.Email = normalized
	}
	if n := strings.TrimSpace(name); n != "" {
		a.Name = n
	}
	a.Touch()
	return nil
}

// SetPassword replaces the password hash
func (a *AdminUser) SetPassword(password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	a.Touch()
	return nil
}

// HashPassword validates and hashes a plaintext password
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", shared.Errorf(shared.CodeInvalidInput, "Password must be at least %d characters", minPasswordLength)
	}
	if len(password) > 72 {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Password cannot exceed 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plaintext password
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GeneratePassword returns a random password for provisioned accounts
func GeneratePassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Email cannot be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Invalid email format")
	}
	return email, nil
}
