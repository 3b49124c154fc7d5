package models

import (
	"time"

	"github.com/terreiro/backend/internal/domain/community"
)

// MemberModel is the persistence model for the Member domain entity.
type MemberModel struct {
	TenantAggregateModel
	Name           string    `gorm:"type:varchar(200);not null"`
	SearchName     string    `gorm:"type:varchar(200);not null;default:'';index"`
	Email          string    `gorm:"type:varchar(200)"`
	CPF            string    `gorm:"type:varchar(14)"`
	Phone          string    `gorm:"type:varchar(50)"`
	IsMedium       bool      `gorm:"not null;default:false"`
	IsAssistant    bool      `gorm:"not null;default:false"`
	Medals         string    `gorm:"type:jsonb;default:'null'"`
	JoinedAt       time.Time `gorm:"not null"`
	Active         bool      `gorm:"not null;default:true;index"`
	LegacyPayments string    `gorm:"type:jsonb;default:'null'"`
}

// TableName returns the table name for GORM
func (MemberModel) TableName() string {
	return "members"
}

// ToDomain converts the persistence model to a domain Member entity
func (m *MemberModel) ToDomain() *community.Member {
	member := &community.Member{
		Name:        m.Name,
		Email:       m.Email,
		CPF:         m.CPF,
		Phone:       m.Phone,
		IsMedium:    m.IsMedium,
		IsAssistant: m.IsAssistant,
		JoinedAt:    m.JoinedAt,
		Active:      m.Active,
	}
	m.PopulateTenantAggregateRoot(&member.TenantAggregateRoot)
	fromJSON(m.Medals, &member.Medals)
	fromJSON(m.LegacyPayments, &member.LegacyPayments)
	return member
}

// FromDomain populates the persistence model from a domain Member entity
func (m *MemberModel) FromDomain(member *community.Member) {
	m.FromDomainTenantAggregateRoot(member.TenantAggregateRoot)
	m.Name = member.Name
	m.Email = member.Email
	m.CPF = member.CPF
	m.Phone = member.Phone
	m.IsMedium = member.IsMedium
	m.IsAssistant = member.IsAssistant
	m.Medals = toJSON(member.Medals)
	m.JoinedAt = member.JoinedAt
	m.Active = member.Active
	m.LegacyPayments = toJSON(member.LegacyPayments)
}
