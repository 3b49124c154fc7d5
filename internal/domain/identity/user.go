package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/terreiro/backend/internal/domain/shared"
)

// UserRole distinguishes tenant staff from tenant admins and master operators
type UserRole string

const (
	UserRoleStaff  UserRole = "staff"
	UserRoleAdmin  UserRole = "admin"
	UserRoleMaster UserRole = "master" // Developer console operator, not bound to a tenant
)

const (
	maxFailedAttempts = 5
	lockoutDuration   = 15 * time.Minute
)

// User represents an account. Tenant admins and staff carry the owning
// tenant's ID; master operators have no tenant.
type User struct {
	shared.BaseAggregateRoot
	TenantID     *uuid.UUID `gorm:"type:uuid;index"`
	Username     string     `gorm:"type:varchar(100);not null"`
	Email        string     `gorm:"type:varchar(200)"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	DisplayName  string     `gorm:"type:varchar(200)"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:'staff'"`

	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// NewUser creates a tenant-bound user with a bcrypt-hashed password
func NewUser(tenantID uuid.UUID, username, password string, role UserRole) (*User, error) {
	if role == UserRoleMaster {
		return nil, shared.NewDomainError("INVALID_ROLE", "Master users are not tenant-bound")
	}
	u, err := newUser(username, password, role)
	if err != nil {
		return nil, err
	}
	u.TenantID = &tenantID
	return u, nil
}

// NewMasterUser creates a developer-console operator
func NewMasterUser(username, password string) (*User, error) {
	return newUser(username, password, UserRoleMaster)
}

func newUser(username, password string, role UserRole) (*User, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		PasswordHash:      string(hash),
		Role:              role,
	}, nil
}

// IsMaster returns true for developer-console operators
func (u *User) IsMaster() bool {
	return u.Role == UserRoleMaster
}

// CheckPassword compares a candidate password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword sets a new bcrypt-hashed password
func (u *User) ChangePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// IsLocked reports whether the account is under a failed-login lockout
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

// RecordLoginSuccess clears lockout state and stamps the login time
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = now
	u.IncrementVersion()
}

// RecordLoginFailure counts a failed attempt, locking after the threshold
func (u *User) RecordLoginFailure() {
	u.FailedAttempts++
	if u.FailedAttempts >= maxFailedAttempts {
		until := time.Now().Add(lockoutDuration)
		u.LockedUntil = &until
	}
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByUsername resolves a login. tenantID is nil for master operators.
	FindByUsername(ctx context.Context, tenantID *uuid.UUID, username string) (*User, error)
	FindMasters(ctx context.Context) ([]User, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}
