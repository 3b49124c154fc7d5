package settings

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settings is the per-tenant configuration record. Every optional
// sub-structure is defaulted independently by WithDefaults, so a stored
// config predating a new built-in option still picks it up on load.
type Settings struct {
	Roles       []string            `json:"roles"`
	Permissions map[string][]string `json:"permissions"` // role -> allowed modules
	Palette     Palette             `json:"palette"`

	PontoCategories []string `json:"ponto_categories"`
	RezaCategories  []string `json:"reza_categories"`
	ErvaCategories  []string `json:"erva_categories"`
	EventTypes      []string `json:"event_types"`

	Pricing Pricing `json:"pricing"`
}

// Palette holds the tenant's UI color scheme
type Palette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// Pricing holds the role-based monthly rates used for mensalidades and the
// legacy payment migration
type Pricing struct {
	MediumMonthly    decimal.Decimal `json:"medium_monthly"`
	AssistantMonthly decimal.Decimal `json:"assistant_monthly"`
}

// Default returns the built-in configuration for a fresh tenant
func Default() Settings {
	return Settings{
		Roles: defaultRoles(),
		Permissions: map[string][]string{
			"admin":     {"members", "finance", "inventory", "canteen", "agenda", "courses", "backup"},
			"secretary": {"members", "agenda", "courses"},
			"treasurer": {"finance", "canteen"},
		},
		Palette: Palette{
			Primary:   "#1f6f54",
			Secondary: "#f5f0e6",
			Accent:    "#c9a14a",
		},
		PontoCategories: defaultPontoCategories(),
		RezaCategories:  defaultRezaCategories(),
		ErvaCategories:  defaultErvaCategories(),
		EventTypes:      defaultEventTypes(),
		Pricing: Pricing{
			MediumMonthly:    decimal.NewFromInt(60),
			AssistantMonthly: decimal.NewFromInt(40),
		},
	}
}

func defaultRoles() []string {
	return []string{"admin", "secretary", "treasurer"}
}

func defaultPontoCategories() []string {
	return []string{"Abertura", "Caboclo", "Preto Velho", "Exu", "Encerramento"}
}

func defaultRezaCategories() []string {
	return []string{"Abertura", "Defumação", "Encerramento"}
}

func defaultErvaCategories() []string {
	return []string{"Banho", "Defumação", "Chá"}
}

func defaultEventTypes() []string {
	return []string{"gira", "festa", "curso", "obrigação"}
}

// WithDefaults returns a copy where every missing sub-structure is filled in
// and taxonomy lists are the set union of stored values and built-ins.
// Applying it twice yields the same result as applying it once.
func (s Settings) WithDefaults() Settings {
	out := s

	out.Roles = union(out.Roles, defaultRoles())

	if out.Permissions == nil {
		out.Permissions = Default().Permissions
	}
	if out.Palette == (Palette{}) {
		out.Palette = Default().Palette
	}

	out.PontoCategories = union(out.PontoCategories, defaultPontoCategories())
	out.RezaCategories = union(out.RezaCategories, defaultRezaCategories())
	out.ErvaCategories = union(out.ErvaCategories, defaultErvaCategories())
	out.EventTypes = union(out.EventTypes, defaultEventTypes())

	if out.Pricing.MediumMonthly.IsZero() && out.Pricing.AssistantMonthly.IsZero() {
		out.Pricing = Default().Pricing
	}

	return out
}

// union merges stored and built-in values keeping stored order first, then
// any missing built-ins in a stable order. Duplicates are dropped.
func union(stored, builtin []string) []string {
	seen := make(map[string]struct{}, len(stored)+len(builtin))
	out := make([]string, 0, len(stored)+len(builtin))
	for _, v := range stored {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	missing := make([]string, 0, len(builtin))
	for _, v := range builtin {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		missing = append(missing, v)
	}
	sort.Strings(missing)
	return append(out, missing...)
}

// Repository defines the per-tenant settings persistence interface
type Repository interface {
	// Find returns the stored settings for a tenant; the boolean is false
	// when none were stored yet.
	Find(ctx context.Context, tenantID uuid.UUID) (Settings, bool, error)
	Save(ctx context.Context, tenantID uuid.UUID, settings Settings) error
	DeleteForTenant(ctx context.Context, tenantID uuid.UUID) error
}
