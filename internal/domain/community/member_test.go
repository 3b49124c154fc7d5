package community

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMember(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates member successfully", func(t *testing.T) {
		member, err := NewMember(tenantID, "João da Silva", "Joao@Example.com", "529.982.247-25")

		require.NoError(t, err)
		assert.Equal(t, tenantID, member.TenantID)
		assert.Equal(t, "joao@example.com", member.Email)
		assert.Equal(t, "52998224725", member.CPF)
		assert.True(t, member.Active)
	})

	t.Run("email and cpf are optional", func(t *testing.T) {
		member, err := NewMember(tenantID, "João da Silva", "", "")

		require.NoError(t, err)
		assert.Empty(t, member.Email)
		assert.Empty(t, member.CPF)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NewMember(tenantID, "João", "not-an-email", "")
		assert.Error(t, err)
	})

	t.Run("rejects invalid cpf", func(t *testing.T) {
		_, err := NewMember(tenantID, "João", "", "123.456.789-00")
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewMember(tenantID, "", "", "")
		assert.Error(t, err)
	})
}

func TestNormalizeCPF(t *testing.T) {
	t.Run("accepts valid formatted cpf", func(t *testing.T) {
		normalized, ok := NormalizeCPF("529.982.247-25")
		assert.True(t, ok)
		assert.Equal(t, "52998224725", normalized)
	})

	t.Run("accepts valid bare cpf", func(t *testing.T) {
		_, ok := NormalizeCPF("52998224725")
		assert.True(t, ok)
	})

	t.Run("rejects wrong check digits", func(t *testing.T) {
		_, ok := NormalizeCPF("529.982.247-26")
		assert.False(t, ok)
	})

	t.Run("rejects repeated digits", func(t *testing.T) {
		_, ok := NormalizeCPF("111.111.111-11")
		assert.False(t, ok)
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, ok := NormalizeCPF("5299822472")
		assert.False(t, ok)
	})

	t.Run("rejects letters", func(t *testing.T) {
		_, ok := NormalizeCPF("529a82247-25")
		assert.False(t, ok)
	})
}

func TestMember_AwardMedal(t *testing.T) {
	member, err := NewMember(uuid.New(), "João", "", "")
	require.NoError(t, err)

	member.AwardMedal("Assiduidade")
	member.AwardMedal("Assiduidade")

	assert.Equal(t, []string{"Assiduidade"}, member.Medals)
}

func TestMember_SetRoles(t *testing.T) {
	member, err := NewMember(uuid.New(), "João", "", "")
	require.NoError(t, err)
	before := member.Version

	member.SetRoles(true, false)

	assert.True(t, member.IsMedium)
	assert.False(t, member.IsAssistant)
	assert.Equal(t, before+1, member.Version)
}
