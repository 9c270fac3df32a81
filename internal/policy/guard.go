package policy

import (
	"machine-service-backend/internal/auth"
	"machine-service-backend/internal/model"
)

// CanMutateMachine decides create/update/delete of machine master data.
// Only managers may alter it; visibility for other roles is read-only.
func CanMutateMachine(role auth.Role, action string) error {
	if role == auth.RoleManager {
		return nil
	}
	return Denied(action)
}

// CanMutateMaintenanceType decides writes to the maintenance-type lookup.
func CanMutateMaintenanceType(role auth.Role, action string) error {
	if role == auth.RoleManager {
		return nil
	}
	return Denied(action)
}

// CanCreateMaintenance decides whether the principal may log maintenance
// against the machine. Service orgs must be the machine's assigned service
// organization; clients must own the machine.
func CanCreateMaintenance(role auth.Role, principalID int64, machine *model.Machine) error {
	switch role {
	case auth.RoleManager:
		return nil
	case auth.RoleService:
		if machine.ServiceOrgID != nil && *machine.ServiceOrgID == principalID {
			return nil
		}
	case auth.RoleClient:
		if machine.ClientID != nil && *machine.ClientID == principalID {
			return nil
		}
	}
	return Denied("create maintenance")
}

// CanModifyMaintenance decides update/delete of an existing maintenance
// record. Clients are append-only for maintenance: they may add records via
// CanCreateMaintenance but never change existing ones, even on their own
// machines.
func CanModifyMaintenance(role auth.Role, principalID int64, machine *model.Machine, action string) error {
	switch role {
	case auth.RoleManager:
		return nil
	case auth.RoleService:
		if machine.ServiceOrgID != nil && *machine.ServiceOrgID == principalID {
			return nil
		}
	}
	return Denied(action)
}

// CanMutateClaim decides create/update/delete of a claim. Clients never
// mutate claims in any way.
func CanMutateClaim(role auth.Role, principalID int64, machine *model.Machine, action string) error {
	switch role {
	case auth.RoleManager:
		return nil
	case auth.RoleService:
		if machine.ServiceOrgID != nil && *machine.ServiceOrgID == principalID {
			return nil
		}
	}
	return Denied(action)
}
