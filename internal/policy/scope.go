// Package policy is the authorization core: it decides which records a
// principal may see (scope filters) and which mutations it may perform
// (mutation guard). Decisions are pure functions of (role, principal id,
// target ownership), recomputed per request; filters are expressed as GORM
// scopes so the store pushes them down as query restrictions.
package policy

import (
	"regexp"
	"strings"

	"gorm.io/gorm"

	"machine-service-backend/internal/auth"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// ValidSerial reports whether s is an acceptable machine serial number.
func ValidSerial(s string) bool {
	return digitsOnly.MatchString(s)
}

// MachineScope restricts a machine queryset to what the principal may see:
// managers see everything, service orgs their assigned machines, clients
// their own machines, and everyone else nothing.
func MachineScope(p auth.Principal) func(*gorm.DB) *gorm.DB {
	role := auth.ResolveRole(p)
	return func(db *gorm.DB) *gorm.DB {
		switch role {
		case auth.RoleManager:
			return db
		case auth.RoleService:
			return db.Where("machines.service_org_id = ?", p.ID)
		case auth.RoleClient:
			return db.Where("machines.client_id = ?", p.ID)
		default:
			return db.Where("1 = 0")
		}
	}
}

// MaintenanceScope restricts a maintenance queryset through the parent
// machine's ownership. The caller must have joined the machines table.
func MaintenanceScope(p auth.Principal) func(*gorm.DB) *gorm.DB {
	return MachineScope(p)
}

// ClaimScope restricts a claim queryset through the parent machine's
// ownership. The caller must have joined the machines table.
func ClaimScope(p auth.Principal) func(*gorm.DB) *gorm.DB {
	return MachineScope(p)
}

// PublicMachineScope is the search-surface variant of MachineScope. Owner
// roles are still narrowed to their machines, but anonymous and
// unrecognized callers search the whole catalogue — they are served the
// redacted projection instead of an empty set.
func PublicMachineScope(p auth.Principal) func(*gorm.DB) *gorm.DB {
	role := auth.ResolveRole(p)
	return func(db *gorm.DB) *gorm.DB {
		switch role {
		case auth.RoleService:
			return db.Where("machines.service_org_id = ?", p.ID)
		case auth.RoleClient:
			return db.Where("machines.client_id = ?", p.ID)
		default:
			return db
		}
	}
}

// VisibleMachine reports whether the principal's scope includes the machine.
// Used for single-record paths where the predicate is cheaper in memory.
func VisibleMachine(p auth.Principal, clientID, serviceOrgID *int64) bool {
	switch auth.ResolveRole(p) {
	case auth.RoleManager:
		return true
	case auth.RoleService:
		return serviceOrgID != nil && *serviceOrgID == p.ID
	case auth.RoleClient:
		return clientID != nil && *clientID == p.ID
	default:
		return false
	}
}

// MachineSearchScope narrows a machine queryset by the free-text query q:
// an all-digit query is an exact serial-number match, anything else a
// case-insensitive substring match across the descriptive fields. It
// composes with, and is applied after, the role scope.
func MachineSearchScope(q string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if digitsOnly.MatchString(q) {
			return db.Where("machines.serial_number = ?", q)
		}
		like := "%" + strings.ToLower(q) + "%"
		cond := strings.Join([]string{
			"LOWER(machines.model_name) LIKE ?",
			"LOWER(machines.engine_model) LIKE ?",
			"LOWER(machines.engine_serial) LIKE ?",
			"LOWER(machines.transmission_model) LIKE ?",
			"LOWER(machines.transmission_serial) LIKE ?",
			"LOWER(machines.buyer) LIKE ?",
			"LOWER(machines.recipient) LIKE ?",
			"LOWER(machines.delivery_address) LIKE ?",
			"LOWER(machines.service_company) LIKE ?",
		}, " OR ")
		return db.Where(cond,
			like, like, like, like, like, like, like, like, like)
	}
}

// ValidateSearchQuery checks the raw q parameter before any scope runs.
func ValidateSearchQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", Invalid("q", "search query must not be empty")
	}
	return q, nil
}
