package community

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/terreiro/backend/internal/domain/shared"
)

// Member represents a person in the tenant's roster
type Member struct {
	shared.TenantAggregateRoot
	Name        string `gorm:"type:varchar(200);not null"`
	Email       string `gorm:"type:varchar(200)"`
	CPF         string `gorm:"type:varchar(14)"`
	Phone       string `gorm:"type:varchar(50)"`
	IsMedium    bool   `gorm:"not null;default:false"`
	IsAssistant bool   `gorm:"not null;default:false"`
	Medals      []string
	JoinedAt    time.Time `gorm:"not null"`
	Active      bool      `gorm:"not null;default:true"`

	// LegacyPayments is the embedded month->status map carried over from the
	// pre-ledger data model. It is read once by the ledger migration and kept
	// for traceability; new payments never touch it.
	LegacyPayments map[string]string `gorm:"-"`
}

// NewMember creates a new roster member
func NewMember(tenantID uuid.UUID, name, email, cpf string) (*Member, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Member name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Member name cannot exceed 200 characters")
	}
	if email != "" && !ValidEmail(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Malformed email address")
	}
	if cpf != "" {
		normalized, ok := NormalizeCPF(cpf)
		if !ok {
			return nil, shared.NewDomainError("INVALID_CPF", "Malformed CPF")
		}
		cpf = normalized
	}

	return &Member{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Email:               strings.ToLower(email),
		CPF:                 cpf,
		JoinedAt:            time.Now(),
		Active:              true,
	}, nil
}

// Update changes the member's contact fields
func (m *Member) Update(name, email, cpf, phone string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Member name cannot be empty")
	}
	if email != "" && !ValidEmail(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Malformed email address")
	}
	if cpf != "" {
		normalized, ok := NormalizeCPF(cpf)
		if !ok {
			return shared.NewDomainError("INVALID_CPF", "Malformed CPF")
		}
		cpf = normalized
	}

	m.Name = name
	m.Email = strings.ToLower(email)
	m.CPF = cpf
	m.Phone = phone
	m.touch()
	return nil
}

// SetRoles sets the spiritual role flags used for pricing
func (m *Member) SetRoles(isMedium, isAssistant bool) {
	m.IsMedium = isMedium
	m.IsAssistant = isAssistant
	m.touch()
}

// AwardMedal appends a medal label, ignoring duplicates
func (m *Member) AwardMedal(medal string) {
	for _, existing := range m.Medals {
		if existing == medal {
			return
		}
	}
	m.Medals = append(m.Medals, medal)
	m.touch()
}

// Deactivate removes the member from the active roster without deleting
func (m *Member) Deactivate() {
	m.Active = false
	m.touch()
}

func (m *Member) touch() {
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail reports whether s looks like an email address
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// NormalizeCPF strips punctuation from a Brazilian CPF and validates its
// check digits. Returns the 11-digit form and whether it is valid.
func NormalizeCPF(cpf string) (string, bool) {
	digits := make([]byte, 0, 11)
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			digits = append(digits, byte(r))
		} else if r != '.' && r != '-' && r != ' ' {
			return "", false
		}
	}
	if len(digits) != 11 {
		return "", false
	}

	// CPFs with all digits equal pass the checksum but are invalid
	allEqual := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return "", false
	}

	if cpfCheckDigit(digits, 9) != int(digits[9]-'0') {
		return "", false
	}
	if cpfCheckDigit(digits, 10) != int(digits[10]-'0') {
		return "", false
	}

	return string(digits), true
}

func cpfCheckDigit(digits []byte, length int) int {
	sum := 0
	for i := 0; i < length; i++ {
		sum += int(digits[i]-'0') * (length + 1 - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}

// MemberRepository defines the tenant-scoped member persistence interface
type MemberRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Member, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Member, error)
	Save(ctx context.Context, member *Member) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}
