package settings

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Global is the installation-wide configuration record. The license block
// and the human-readable system name apply across every tenant and are not
// tenant-namespaced.
type Global struct {
	SystemName string  `json:"system_name"`
	License    License `json:"license"`
}

// License identifies who the installation is licensed to and, when set,
// which tenant the license activates by default.
type License struct {
	Key        string     `json:"key,omitempty"`
	Licensee   string     `json:"licensee,omitempty"`
	TenantID   *uuid.UUID `json:"tenant_id,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
}

// DefaultGlobal returns the built-in installation-wide configuration
func DefaultGlobal() Global {
	return Global{SystemName: "Terreiro Cloud"}
}

// WithDefaults returns a copy with the missing fields filled in
func (g Global) WithDefaults() Global {
	out := g
	if out.SystemName == "" {
		out.SystemName = "Terreiro Cloud"
	}
	return out
}

// GlobalRepository persists the single installation-wide record
type GlobalRepository interface {
	// FindGlobal returns the stored record; the boolean is false when none
	// was stored yet.
	FindGlobal(ctx context.Context) (Global, bool, error)
	SaveGlobal(ctx context.Context, g Global) error
}
