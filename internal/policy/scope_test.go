package policy

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"machine-service-backend/internal/auth"
	"machine-service-backend/internal/model"
)

func newScopeTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared-cache database keeps the schema alive across the
	// connection pool while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Machine{}, &model.MaintenanceType{}, &model.Maintenance{}, &model.Claim{}))
	return db
}

func date(y int, m time.Month, d int) *time.Time {
	v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &v
}

func seedMachines(t *testing.T, db *gorm.DB) {
	t.Helper()
	machines := []model.Machine{
		{SerialNumber: "100", ModelName: "PD-1.5", ClientID: ptr(10), ServiceOrgID: ptr(7), ShipmentDate: date(2023, 1, 10), Buyer: "Trudnikov LLC"},
		{SerialNumber: "200", ModelName: "PD-2.5", ClientID: ptr(11), ServiceOrgID: ptr(9), ShipmentDate: date(2023, 2, 10)},
		{SerialNumber: "300", ModelName: "PD-3.5", ClientID: ptr(10), ServiceOrgID: ptr(7), ShipmentDate: date(2023, 3, 10)},
	}
	require.NoError(t, db.Create(&machines).Error)
}

func serialsFor(t *testing.T, db *gorm.DB, p auth.Principal) []string {
	t.Helper()
	var serials []string
	err := db.Model(&model.Machine{}).
		Scopes(MachineScope(p)).
		Order("machines.serial_number ASC").
		Pluck("machines.serial_number", &serials).Error
	require.NoError(t, err)
	return serials
}

func TestMachineScope(t *testing.T) {
	db := newScopeTestDB(t)
	seedMachines(t, db)

	manager := auth.Principal{ID: 1, Authenticated: true, Groups: []string{auth.GroupManager}}
	service := auth.Principal{ID: 7, Authenticated: true, Groups: []string{auth.GroupService}}
	client := auth.Principal{ID: 10, Authenticated: true, Groups: []string{auth.GroupClient}}
	stranger := auth.Principal{ID: 99, Authenticated: true}

	assert.Equal(t, []string{"100", "200", "300"}, serialsFor(t, db, manager))
	assert.Equal(t, []string{"100", "300"}, serialsFor(t, db, service))
	assert.Equal(t, []string{"100", "300"}, serialsFor(t, db, client))
	assert.Empty(t, serialsFor(t, db, stranger))
	assert.Empty(t, serialsFor(t, db, auth.Anonymous()))
}

func TestPublicMachineScope(t *testing.T) {
	db := newScopeTestDB(t)
	seedMachines(t, db)

	fetch := func(p auth.Principal) []string {
		var serials []string
		err := db.Model(&model.Machine{}).
			Scopes(PublicMachineScope(p)).
			Order("machines.serial_number ASC").
			Pluck("machines.serial_number", &serials).Error
		require.NoError(t, err)
		return serials
	}

	// Anonymous and unrecognized callers search the full catalogue.
	assert.Equal(t, []string{"100", "200", "300"}, fetch(auth.Anonymous()))
	assert.Equal(t, []string{"100", "200", "300"}, fetch(auth.Principal{ID: 99, Authenticated: true}))
	// Owner roles stay narrowed.
	assert.Equal(t, []string{"200"}, fetch(auth.Principal{ID: 9, Authenticated: true, Groups: []string{auth.GroupService}}))
}

func TestMachineSearchScope(t *testing.T) {
	db := newScopeTestDB(t)
	seedMachines(t, db)

	search := func(q string) []string {
		var serials []string
		err := db.Model(&model.Machine{}).
			Scopes(MachineSearchScope(q)).
			Order("machines.serial_number ASC").
			Pluck("machines.serial_number", &serials).Error
		require.NoError(t, err)
		return serials
	}

	// All-digit query is an exact serial match, not a substring.
	assert.Equal(t, []string{"100"}, search("100"))
	assert.Empty(t, search("10"))

	// Text queries match case-insensitively across descriptive fields.
	assert.Equal(t, []string{"100"}, search("TRUDNIKOV"))
	assert.Equal(t, []string{"100", "200", "300"}, search("pd-"))
	assert.Empty(t, search("excavator"))
}

func TestMachineSearchScopeComposesWithRoleScope(t *testing.T) {
	db := newScopeTestDB(t)
	seedMachines(t, db)

	service := auth.Principal{ID: 9, Authenticated: true, Groups: []string{auth.GroupService}}
	var serials []string
	err := db.Model(&model.Machine{}).
		Scopes(MachineScope(service), MachineSearchScope("pd-")).
		Pluck("machines.serial_number", &serials).Error
	require.NoError(t, err)
	// The text predicate alone matches everything; the role scope wins.
	assert.Equal(t, []string{"200"}, serials)
}

func TestValidateSearchQuery(t *testing.T) {
	q, err := ValidateSearchQuery("  12345 ")
	assert.NoError(t, err)
	assert.Equal(t, "12345", q)

	_, err = ValidateSearchQuery("")
	assert.True(t, IsValidation(err))
	_, err = ValidateSearchQuery("   ")
	assert.True(t, IsValidation(err))
}

func TestValidSerial(t *testing.T) {
	assert.True(t, ValidSerial("0017"))
	assert.False(t, ValidSerial(""))
	assert.False(t, ValidSerial("17a"))
	assert.False(t, ValidSerial("17 "))
}

func TestVisibleMachine(t *testing.T) {
	client := auth.Principal{ID: 10, Authenticated: true, Groups: []string{auth.GroupClient}}
	assert.True(t, VisibleMachine(client, ptr(10), nil))
	assert.False(t, VisibleMachine(client, ptr(11), nil))
	assert.False(t, VisibleMachine(client, nil, ptr(10)))

	manager := auth.Principal{ID: 1, Authenticated: true, Superuser: true}
	assert.True(t, VisibleMachine(manager, nil, nil))
}
