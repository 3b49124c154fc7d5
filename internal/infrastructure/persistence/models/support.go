package models

import (
	"github.com/terreiro/backend/internal/domain/support"
)

// TicketModel is the persistence model for the support Ticket entity.
// The conversation is stored as a JSON message array; tickets are read
// and written whole.
type TicketModel struct {
	TenantAggregateModel
	Subject  string               `gorm:"type:varchar(200);not null"`
	Status   support.TicketStatus `gorm:"type:varchar(20);not null;default:'open';index"`
	Messages string               `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (TicketModel) TableName() string {
	return "support_tickets"
}

// ToDomain converts the persistence model to a domain Ticket entity
func (m *TicketModel) ToDomain() *support.Ticket {
	ticket := &support.Ticket{
		Subject: m.Subject,
		Status:  m.Status,
	}
	m.PopulateTenantAggregateRoot(&ticket.TenantAggregateRoot)
	fromJSON(m.Messages, &ticket.Messages)
	return ticket
}

// FromDomain populates the persistence model from a domain Ticket entity
func (m *TicketModel) FromDomain(t *support.Ticket) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.Subject = t.Subject
	m.Status = t.Status
	m.Messages = toJSON(t.Messages)
}

// BroadcastModel is the persistence model for the Broadcast entity.
type BroadcastModel struct {
	AggregateModel
	Title     string `gorm:"type:varchar(200);not null"`
	Body      string `gorm:"type:text;not null"`
	Author    string `gorm:"type:varchar(100);not null"`
	TargetIDs string `gorm:"type:jsonb;default:'null'"`
	ReadBy    string `gorm:"type:jsonb;default:'null'"`
}

// TableName returns the table name for GORM
func (BroadcastModel) TableName() string {
	return "broadcasts"
}

// ToDomain converts the persistence model to a domain Broadcast entity
func (m *BroadcastModel) ToDomain() *support.Broadcast {
	broadcast := &support.Broadcast{
		Title:  m.Title,
		Body:   m.Body,
		Author: m.Author,
	}
	m.PopulateAggregateRoot(&broadcast.BaseAggregateRoot)
	fromJSON(m.TargetIDs, &broadcast.TargetIDs)
	fromJSON(m.ReadBy, &broadcast.ReadBy)
	return broadcast
}

// FromDomain populates the persistence model from a domain Broadcast entity
func (m *BroadcastModel) FromDomain(b *support.Broadcast) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Title = b.Title
	m.Body = b.Body
	m.Author = b.Author
	m.TargetIDs = toJSON(b.TargetIDs)
	m.ReadBy = toJSON(b.ReadBy)
}
