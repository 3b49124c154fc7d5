package support

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/terreiro/backend/internal/domain/shared"
)

// TicketStatus is the lifecycle state of a support ticket
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusAnswered TicketStatus = "answered"
	TicketStatusClosed   TicketStatus = "closed"
)

// Message is one entry in a ticket conversation
type Message struct {
	ID       uuid.UUID `json:"id"`
	Author   string    `json:"author"`
	FromHost bool      `json:"from_host"` // true when written by a master operator
	Body     string    `json:"body"`
	SentAt   time.Time `json:"sent_at"`
}

// Ticket is a support conversation between a tenant and the master console
type Ticket struct {
	shared.TenantAggregateRoot
	Subject  string       `gorm:"type:varchar(200);not null"`
	Status   TicketStatus `gorm:"type:varchar(20);not null;default:'open'"`
	Messages []Message    `gorm:"-"`
}

// NewTicket opens a ticket with its first message
func NewTicket(tenantID uuid.UUID, subject, author, body string) (*Ticket, error) {
	if subject == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Ticket subject cannot be empty")
	}
	if body == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Ticket message cannot be empty")
	}

	ticket := &Ticket{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Subject:             subject,
		Status:              TicketStatusOpen,
	}
	ticket.Messages = []Message{{
		ID:     uuid.New(),
		Author: author,
		Body:   body,
		SentAt: time.Now(),
	}}
	return ticket, nil
}

// Reply appends a message. A host reply moves the ticket to answered,
// a tenant reply reopens it.
func (t *Ticket) Reply(author, body string, fromHost bool) error {
	if t.Status == TicketStatusClosed {
		return shared.NewDomainError("TICKET_CLOSED", "Cannot reply to a closed ticket")
	}
	if body == "" {
		return shared.NewDomainError("INVALID_BODY", "Ticket message cannot be empty")
	}

	t.Messages = append(t.Messages, Message{
		ID:       uuid.New(),
		Author:   author,
		FromHost: fromHost,
		Body:     body,
		SentAt:   time.Now(),
	})
	if fromHost {
		t.Status = TicketStatusAnswered
	} else {
		t.Status = TicketStatusOpen
	}
	t.touch()
	return nil
}

// Close finishes the conversation
func (t *Ticket) Close() error {
	if t.Status == TicketStatusClosed {
		return shared.NewDomainError("ALREADY_CLOSED", "Ticket is already closed")
	}
	t.Status = TicketStatusClosed
	t.touch()
	return nil
}

// Transcript renders the conversation as the plain-text format handed to
// operators for support exports.
func (t *Ticket) Transcript() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ticket: %s\n", t.Subject)
	fmt.Fprintf(&b, "Status: %s\n", t.Status)
	fmt.Fprintf(&b, "Aberto em: %s\n\n", t.CreatedAt.Format("02/01/2006 15:04"))
	for _, msg := range t.Messages {
		fmt.Fprintf(&b, "[%s] %s:\n%s\n\n", msg.SentAt.Format("02/01/2006 15:04"), msg.Author, msg.Body)
	}
	return b.String()
}

func (t *Ticket) touch() {
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// TicketRepository defines the ticket persistence interface
type TicketRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Ticket, int64, error)
	FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Ticket, error)
	Save(ctx context.Context, ticket *Ticket) error
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}
