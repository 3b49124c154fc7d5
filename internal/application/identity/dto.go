package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/terreiro/backend/internal/domain/identity"
)

// LoginInput carries credentials for a login attempt. TenantCode is empty
// for master console logins.
type LoginInput struct {
	TenantCode string `json:"tenant_code"`
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// UserInfo is the user payload returned with authentication results
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    *uuid.UUID `json:"tenant_id,omitempty"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email,omitempty"`
	Role        string     `json:"role"`
	Master      bool       `json:"master"`
}

// LoginResult is returned on successful authentication
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshTokenInput carries a refresh token
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResult is returned on successful token refresh
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput carries the access token being revoked
type LogoutInput struct {
	AccessToken string
}

// ChangePasswordInput carries a password change request
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// CreateTenantInput carries a tenant provisioning request
type CreateTenantInput struct {
	Code          string `json:"code" validate:"required"`
	Name          string `json:"name" validate:"required"`
	PlanName      string `json:"plan_name" validate:"required"`
	ContactName   string `json:"contact_name"`
	ContactPhone  string `json:"contact_phone"`
	ContactEmail  string `json:"contact_email" validate:"omitempty,email"`
	Notes         string `json:"notes"`
	AdminUsername string `json:"admin_username" validate:"required"`
	AdminPassword string `json:"admin_password" validate:"required,min=8"`
}

// UpdateTenantInput carries editable tenant fields
type UpdateTenantInput struct {
	Name         string `json:"name" validate:"required"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	Notes        string `json:"notes"`
}

// TenantView is the tenant representation returned to the console
type TenantView struct {
	ID             uuid.UUID                            `json:"id"`
	Code           string                               `json:"code"`
	Name           string                               `json:"name"`
	PlanName       string                               `json:"plan_name"`
	MonthlyValue   decimal.Decimal                      `json:"monthly_value"`
	Status         identity.TenantStatus                `json:"status"`
	ExpiresAt      *time.Time                           `json:"expires_at,omitempty"`
	Payments       map[string]identity.PaymentStatus    `json:"payments"`
	EnabledModules []string                             `json:"enabled_modules,omitempty"`
	ContactName    string                               `json:"contact_name,omitempty"`
	ContactPhone   string                               `json:"contact_phone,omitempty"`
	ContactEmail   string                               `json:"contact_email,omitempty"`
	Notes          string                               `json:"notes,omitempty"`
	CreatedAt      time.Time                            `json:"created_at"`
}

// NewTenantView maps a domain tenant to its console representation
func NewTenantView(t *identity.Tenant) TenantView {
	return TenantView{
		ID:             t.ID,
		Code:           t.Code,
		Name:           t.Name,
		PlanName:       t.PlanName,
		MonthlyValue:   t.MonthlyValue,
		Status:         t.Status,
		ExpiresAt:      t.ExpiresAt,
		Payments:       t.Payments,
		EnabledModules: t.EnabledModules,
		ContactName:    t.ContactName,
		ContactPhone:   t.ContactPhone,
		ContactEmail:   t.ContactEmail,
		Notes:          t.Notes,
		CreatedAt:      t.CreatedAt,
	}
}

// TenantStats summarizes the fleet for the console dashboard
type TenantStats struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Frozen  int64 `json:"frozen"`
	Blocked int64 `json:"blocked"`
}

// RecordPaymentInput marks one month of a tenant's payment map
type RecordPaymentInput struct {
	TenantID uuid.UUID
	MonthRef string                 `json:"month_ref" validate:"required"`
	Status   identity.PaymentStatus `json:"status" validate:"required"`
}

// TransitionInput carries a manual tenant status change. The master
// operator's password is re-confirmed before the status moves.
type TransitionInput struct {
	TenantID       uuid.UUID
	MasterUserID   uuid.UUID
	MasterPassword string `json:"master_password" validate:"required"`
}

// DeleteTenantInput carries a tenant deletion request. The master operator's
// password is re-confirmed before anything is destroyed.
type DeleteTenantInput struct {
	TenantID       uuid.UUID
	MasterUserID   uuid.UUID
	MasterPassword string `json:"master_password" validate:"required"`
}

// PlanInput carries plan create/update fields
type PlanInput struct {
	Name         string          `json:"name" validate:"required"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"duration_days" validate:"required,min=1"`
	MaxMembers   int             `json:"max_members" validate:"required,min=1"`
	Modules      []string        `json:"modules"`
}
