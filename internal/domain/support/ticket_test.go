package support

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicket(t *testing.T) {
	t.Run("opens with first message", func(t *testing.T) {
		ticket, err := NewTicket(uuid.New(), "Erro no relatório", "maria", "Não consigo exportar o caixa")

		require.NoError(t, err)
		assert.Equal(t, TicketStatusOpen, ticket.Status)
		require.Len(t, ticket.Messages, 1)
		assert.Equal(t, "maria", ticket.Messages[0].Author)
	})

	t.Run("rejects empty subject", func(t *testing.T) {
		_, err := NewTicket(uuid.New(), "", "maria", "corpo")
		assert.Error(t, err)
	})

	t.Run("rejects empty body", func(t *testing.T) {
		_, err := NewTicket(uuid.New(), "assunto", "maria", "")
		assert.Error(t, err)
	})
}

func TestTicket_Reply(t *testing.T) {
	newTicket := func(t *testing.T) *Ticket {
		ticket, err := NewTicket(uuid.New(), "Erro no relatório", "maria", "Não consigo exportar")
		require.NoError(t, err)
		return ticket
	}

	t.Run("host reply marks answered", func(t *testing.T) {
		ticket := newTicket(t)

		require.NoError(t, ticket.Reply("dev", "Corrigido, tente de novo", true))

		assert.Equal(t, TicketStatusAnswered, ticket.Status)
		assert.Len(t, ticket.Messages, 2)
	})

	t.Run("tenant reply reopens", func(t *testing.T) {
		ticket := newTicket(t)
		require.NoError(t, ticket.Reply("dev", "Corrigido", true))

		require.NoError(t, ticket.Reply("maria", "Ainda não funciona", false))

		assert.Equal(t, TicketStatusOpen, ticket.Status)
	})

	t.Run("closed ticket rejects replies", func(t *testing.T) {
		ticket := newTicket(t)
		require.NoError(t, ticket.Close())

		assert.Error(t, ticket.Reply("dev", "tarde demais", true))
	})
}

func TestTicket_Transcript(t *testing.T) {
	ticket, err := NewTicket(uuid.New(), "Erro no relatório", "maria", "Não consigo exportar")
	require.NoError(t, err)
	require.NoError(t, ticket.Reply("dev", "Corrigido", true))

	transcript := ticket.Transcript()

	assert.Contains(t, transcript, "Ticket: Erro no relatório")
	assert.Contains(t, transcript, "maria:")
	assert.Contains(t, transcript, "Não consigo exportar")
	assert.Contains(t, transcript, "Corrigido")
}

func TestBroadcast_Targets(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	t.Run("empty target list reaches everyone", func(t *testing.T) {
		bc, err := NewBroadcast("Manutenção", "Sistema fora do ar domingo", "dev", nil)
		require.NoError(t, err)

		assert.True(t, bc.Targets(a))
		assert.True(t, bc.Targets(b))
	})

	t.Run("explicit targets are respected", func(t *testing.T) {
		bc, err := NewBroadcast("Aviso", "Só para você", "dev", []uuid.UUID{a})
		require.NoError(t, err)

		assert.True(t, bc.Targets(a))
		assert.False(t, bc.Targets(b))
	})
}

func TestBroadcast_MarkRead(t *testing.T) {
	tenantID := uuid.New()
	bc, err := NewBroadcast("Aviso", "corpo", "dev", nil)
	require.NoError(t, err)

	bc.MarkRead(tenantID)
	bc.MarkRead(tenantID)

	assert.Len(t, bc.ReadBy, 1)
}
