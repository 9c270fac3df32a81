package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"machine-service-backend/internal/auth"
	"machine-service-backend/internal/model"
)

func ptr(v int64) *int64 { return &v }

func machineOwnedBy(clientID, serviceOrgID *int64) *model.Machine {
	return &model.Machine{ID: 1, SerialNumber: "100", ClientID: clientID, ServiceOrgID: serviceOrgID}
}

func TestCanMutateMachine(t *testing.T) {
	assert.NoError(t, CanMutateMachine(auth.RoleManager, "update machine"))

	for _, role := range []auth.Role{auth.RoleService, auth.RoleClient, auth.RoleNone} {
		err := CanMutateMachine(role, "update machine")
		assert.True(t, IsDenied(err), "role %q must be denied", role)
		assert.Contains(t, err.Error(), "update machine")
	}
}

func TestCanCreateMaintenance(t *testing.T) {
	m := machineOwnedBy(ptr(10), ptr(20))

	testCases := []struct {
		name        string
		role        auth.Role
		principalID int64
		allowed     bool
	}{
		{"manager on any machine", auth.RoleManager, 999, true},
		{"assigned service org", auth.RoleService, 20, true},
		{"other service org", auth.RoleService, 21, false},
		{"owning client", auth.RoleClient, 10, true},
		{"other client", auth.RoleClient, 11, false},
		{"no role", auth.RoleNone, 10, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanCreateMaintenance(tc.role, tc.principalID, m)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, IsDenied(err))
			}
		})
	}
}

func TestCanModifyMaintenance_ClientAlwaysDenied(t *testing.T) {
	// The client owns the machine, yet maintenance stays append-only for them.
	m := machineOwnedBy(ptr(10), nil)
	err := CanModifyMaintenance(auth.RoleClient, 10, m, "update maintenance")
	assert.True(t, IsDenied(err))
	assert.Contains(t, err.Error(), "update maintenance")
}

func TestCanModifyMaintenance_Service(t *testing.T) {
	m := machineOwnedBy(nil, ptr(20))
	assert.NoError(t, CanModifyMaintenance(auth.RoleService, 20, m, "update maintenance"))
	assert.True(t, IsDenied(CanModifyMaintenance(auth.RoleService, 21, m, "update maintenance")))
	assert.NoError(t, CanModifyMaintenance(auth.RoleManager, 0, m, "delete maintenance"))
}

func TestCanModifyMaintenance_UnassignedMachine(t *testing.T) {
	m := machineOwnedBy(nil, nil)
	assert.True(t, IsDenied(CanModifyMaintenance(auth.RoleService, 20, m, "update maintenance")))
	assert.NoError(t, CanModifyMaintenance(auth.RoleManager, 0, m, "update maintenance"))
}

func TestCanMutateClaim(t *testing.T) {
	m := machineOwnedBy(ptr(10), ptr(20))

	assert.NoError(t, CanMutateClaim(auth.RoleManager, 0, m, "create claim"))
	assert.NoError(t, CanMutateClaim(auth.RoleService, 20, m, "create claim"))
	assert.True(t, IsDenied(CanMutateClaim(auth.RoleService, 21, m, "create claim")))

	// Clients never mutate claims, ownership is irrelevant.
	err := CanMutateClaim(auth.RoleClient, 10, m, "create claim")
	assert.True(t, IsDenied(err))
	assert.Contains(t, err.Error(), "create claim")

	assert.True(t, IsDenied(CanMutateClaim(auth.RoleNone, 0, m, "delete claim")))
}

func TestErrorTaxonomy(t *testing.T) {
	denied := Denied("update machine")
	invalid := Invalid("q", "search query must not be empty")

	assert.True(t, IsDenied(denied))
	assert.False(t, IsDenied(invalid))
	assert.True(t, IsValidation(invalid))
	assert.False(t, IsValidation(denied))
	assert.Equal(t, "permission denied: update machine", denied.Error())
	assert.Equal(t, "q: search query must not be empty", invalid.Error())
}
