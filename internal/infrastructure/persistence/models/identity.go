package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/terreiro/backend/internal/domain/identity"
)

// TenantModel is the persistence model for the Tenant domain entity.
type TenantModel struct {
	AggregateModel
	Code           string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string                `gorm:"type:varchar(200);not null"`
	PlanName       string                `gorm:"type:varchar(50);not null"`
	MonthlyValue   decimal.Decimal       `gorm:"type:decimal(10,2);not null"`
	Status         identity.TenantStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	ExpiresAt      *time.Time            `gorm:"index"`
	Payments       string                `gorm:"type:jsonb;default:'{}'"`
	EnabledModules string                `gorm:"type:jsonb;default:'null'"`
	ContactName    string                `gorm:"type:varchar(100)"`
	ContactPhone   string                `gorm:"type:varchar(50)"`
	ContactEmail   string                `gorm:"type:varchar(200)"`
	Notes          string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant entity
func (m *TenantModel) ToDomain() *identity.Tenant {
	tenant := &identity.Tenant{
		Code:         m.Code,
		Name:         m.Name,
		PlanName:     m.PlanName,
		MonthlyValue: m.MonthlyValue,
		Status:       m.Status,
		ExpiresAt:    m.ExpiresAt,
		Payments:     make(identity.PaymentMap),
		ContactName:  m.ContactName,
		ContactPhone: m.ContactPhone,
		ContactEmail: m.ContactEmail,
		Notes:        m.Notes,
	}
	m.PopulateAggregateRoot(&tenant.BaseAggregateRoot)
	fromJSON(m.Payments, &tenant.Payments)
	fromJSON(m.EnabledModules, &tenant.EnabledModules)
	return tenant
}

// FromDomain populates the persistence model from a domain Tenant entity
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Code = t.Code
	m.Name = t.Name
	m.PlanName = t.PlanName
	m.MonthlyValue = t.MonthlyValue
	m.Status = t.Status
	m.ExpiresAt = t.ExpiresAt
	m.Payments = toJSON(t.Payments)
	m.EnabledModules = toJSON(t.EnabledModules)
	m.ContactName = t.ContactName
	m.ContactPhone = t.ContactPhone
	m.ContactEmail = t.ContactEmail
	m.Notes = t.Notes
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}

// PlanModel is the persistence model for the Plan domain entity.
type PlanModel struct {
	AggregateModel
	Name         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DurationDays int             `gorm:"not null"`
	Modules      string          `gorm:"type:jsonb;default:'null'"`
	MaxMembers   int             `gorm:"not null"`
	Active       bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PlanModel) TableName() string {
	return "plans"
}

// ToDomain converts the persistence model to a domain Plan entity
func (m *PlanModel) ToDomain() *identity.Plan {
	plan := &identity.Plan{
		Name:         m.Name,
		Price:        m.Price,
		DurationDays: m.DurationDays,
		MaxMembers:   m.MaxMembers,
		Active:       m.Active,
	}
	m.PopulateAggregateRoot(&plan.BaseAggregateRoot)
	fromJSON(m.Modules, &plan.Modules)
	return plan
}

// FromDomain populates the persistence model from a domain Plan entity
func (m *PlanModel) FromDomain(p *identity.Plan) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Price = p.Price
	m.DurationDays = p.DurationDays
	m.Modules = toJSON(p.Modules)
	m.MaxMembers = p.MaxMembers
	m.Active = p.Active
}

// UserModel is the persistence model for the User domain entity.
// TenantID is null for master operators.
type UserModel struct {
	AggregateModel
	TenantID       *uuid.UUID        `gorm:"type:uuid;index"`
	Username       string            `gorm:"type:varchar(100);not null;index"`
	Email          string            `gorm:"type:varchar(200)"`
	PasswordHash   string            `gorm:"type:varchar(255);not null"`
	DisplayName    string            `gorm:"type:varchar(200)"`
	Role           identity.UserRole `gorm:"type:varchar(20);not null;default:'staff'"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		TenantID:       m.TenantID,
		Username:       m.Username,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		DisplayName:    m.DisplayName,
		Role:           m.Role,
		LastLoginAt:    m.LastLoginAt,
		FailedAttempts: m.FailedAttempts,
		LockedUntil:    m.LockedUntil,
	}
	m.PopulateAggregateRoot(&user.BaseAggregateRoot)
	return user
}

// FromDomain populates the persistence model from a domain User entity
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.TenantID = u.TenantID
	m.Username = u.Username
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.Role = u.Role
	m.LastLoginAt = u.LastLoginAt
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
}
