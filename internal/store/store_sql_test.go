package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"machine-service-backend/internal/auth"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

var machineRowColumns = []string{"id", "serial_number", "model_name", "maintenance_count", "claims_count"}

// The ownership predicate must reach the database as part of the query, not
// get applied to rows after the fact.
func TestListMachines_PredicatePushdown(t *testing.T) {
	testCases := []struct {
		name        string
		principal   auth.Principal
		sqlFragment string
		args        []driver.Value
	}{
		{
			name:        "service org filters by service_org_id",
			principal:   auth.Principal{ID: 7, Authenticated: true, Groups: []string{auth.GroupService}},
			sqlFragment: `machines.service_org_id = $1`,
			args:        []driver.Value{int64(7)},
		},
		{
			name:        "client filters by client_id",
			principal:   auth.Principal{ID: 10, Authenticated: true, Groups: []string{auth.GroupClient}},
			sqlFragment: `machines.client_id = $1`,
			args:        []driver.Value{int64(10)},
		},
		{
			name:        "unrecognized principal gets the empty set",
			principal:   auth.Principal{ID: 99, Authenticated: true},
			sqlFragment: `1 = 0`,
		},
		{
			name:        "anonymous gets the empty set",
			principal:   auth.Anonymous(),
			sqlFragment: `1 = 0`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newMockDB(t)
			s := NewGormStore(gormDB)

			expect := mock.ExpectQuery(regexp.QuoteMeta(tc.sqlFragment))
			if len(tc.args) > 0 {
				vals := make([]driver.Value, len(tc.args))
				copy(vals, tc.args)
				expect = expect.WithArgs(vals...)
			}
			expect.WillReturnRows(sqlmock.NewRows(machineRowColumns))

			rows, err := s.ListMachines(context.Background(), tc.principal)
			assert.NoError(t, err)
			assert.Empty(t, rows)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListMachines_ManagerIsUnfiltered(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY machines.shipment_date DESC`)).
		WillReturnRows(sqlmock.NewRows(machineRowColumns).
			AddRow(1, "111", "PD-1.5", 2, 1))

	manager := auth.Principal{ID: 1, Authenticated: true, Groups: []string{auth.GroupManager}}
	rows, err := s.ListMachines(context.Background(), manager)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].MaintenanceCount)
	assert.Equal(t, int64(1), rows[0].ClaimsCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchMachines_DigitQueryIsExactMatch(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	// An all-digit query must compare the serial directly, never LIKE.
	mock.ExpectQuery(regexp.QuoteMeta(`machines.serial_number = $1`)).
		WithArgs("12345").
		WillReturnRows(sqlmock.NewRows(machineRowColumns))

	_, err := s.SearchMachines(context.Background(), auth.Anonymous(), "12345")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchMachines_TextQueryLowercasesPattern(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	pattern := "%pd-1%"
	args := make([]driver.Value, 9)
	for i := range args {
		args[i] = pattern
	}
	mock.ExpectQuery(regexp.QuoteMeta(`LOWER(machines.model_name) LIKE $1`)).
		WithArgs(args...).
		WillReturnRows(sqlmock.NewRows(machineRowColumns))

	_, err := s.SearchMachines(context.Background(), auth.Anonymous(), "PD-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
