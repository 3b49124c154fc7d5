// Package support exposes tenant support tickets and master broadcasts.
package support

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/domain/support"
)

// OpenTicketInput carries a new ticket with its first message
type OpenTicketInput struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Author  string `json:"author" validate:"required,max=100"`
	Body    string `json:"body" validate:"required"`
}

// ReplyInput carries one conversation message
type ReplyInput struct {
	Author string `json:"author" validate:"required,max=100"`
	Body   string `json:"body" validate:"required"`
}

// TicketService manages support conversations between tenants and the
// master console
type TicketService struct {
	ticketRepo support.TicketRepository
	enqueuer   *appsync.Enqueuer
	logger     *zap.Logger
}

// NewTicketService creates a new ticket service
func NewTicketService(ticketRepo support.TicketRepository, enqueuer *appsync.Enqueuer, logger *zap.Logger) *TicketService {
	return &TicketService{ticketRepo: ticketRepo, enqueuer: enqueuer, logger: logger}
}

// Open creates a ticket on behalf of a tenant user
func (s *TicketService) Open(ctx context.Context, tenantID uuid.UUID, input OpenTicketInput) (*support.Ticket, error) {
	ticket, err := support.NewTicket(tenantID, input.Subject, input.Author, input.Body)
	if err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Info("support ticket opened",
		zap.String("tenant_id", tenantID.String()),
		zap.String("ticket_id", ticket.ID.String()))

	s.replicate(ctx, ticket)
	return ticket, nil
}

// Get returns a ticket, refusing access across tenants. A zero tenantID
// means master access.
func (s *TicketService) Get(ctx context.Context, tenantID, id uuid.UUID) (*support.Ticket, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenantID != uuid.Nil && ticket.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return ticket, nil
}

// Transcript renders a ticket's conversation as the plain-text export
// handed to operators. A zero tenantID means master access.
func (s *TicketService) Transcript(ctx context.Context, tenantID, id uuid.UUID) (string, error) {
	ticket, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return "", err
	}
	return ticket.Transcript(), nil
}

// ListForTenant returns a tenant's own tickets
func (s *TicketService) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]support.Ticket, error) {
	return s.ticketRepo.FindByTenant(ctx, tenantID, filter)
}

// ListAll returns every ticket for the master console
func (s *TicketService) ListAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[support.Ticket], error) {
	tickets, total, err := s.ticketRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(tickets, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Reply appends a tenant message to the conversation
func (s *TicketService) Reply(ctx context.Context, tenantID, id uuid.UUID, input ReplyInput) (*support.Ticket, error) {
	return s.reply(ctx, tenantID, id, input, false)
}

// ReplyAsHost appends a master operator message, marking the ticket answered
func (s *TicketService) ReplyAsHost(ctx context.Context, id uuid.UUID, input ReplyInput) (*support.Ticket, error) {
	return s.reply(ctx, uuid.Nil, id, input, true)
}

// Close finishes the conversation
func (s *TicketService) Close(ctx context.Context, tenantID, id uuid.UUID) (*support.Ticket, error) {
	ticket, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := ticket.Close(); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}
	s.replicate(ctx, ticket)
	return ticket, nil
}

func (s *TicketService) reply(ctx context.Context, tenantID, id uuid.UUID, input ReplyInput, fromHost bool) (*support.Ticket, error) {
	ticket, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := ticket.Reply(input.Author, input.Body, fromHost); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}
	s.replicate(ctx, ticket)
	return ticket, nil
}

func (s *TicketService) replicate(ctx context.Context, ticket *support.Ticket) {
	if err := s.enqueuer.Upsert(ctx, ticket.TenantID, appsync.CollectionTickets, ticket.ID, ticket); err != nil {
		s.logger.Error("failed to queue ticket replication",
			zap.String("ticket_id", ticket.ID.String()),
			zap.Error(err))
	}
}
