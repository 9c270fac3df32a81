package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"machine-service-backend/internal/auth"
	"machine-service-backend/internal/model"
	"machine-service-backend/internal/policy"
)

// Store defines all database operations. Every read applies the caller's
// scope before ordering or faceting; every mutation consults the mutation
// guard before touching the database, so a denial never leaves a partial
// write behind.
type Store interface {
	DB() *gorm.DB

	ListMachines(ctx context.Context, p auth.Principal) ([]MachineRow, error)
	SearchMachines(ctx context.Context, p auth.Principal, q string) ([]MachineRow, error)
	GetMachine(ctx context.Context, p auth.Principal, id int64) (*model.Machine, error)
	CreateMachine(ctx context.Context, p auth.Principal, w MachineWrite) (*model.Machine, error)
	UpdateMachine(ctx context.Context, p auth.Principal, id int64, w MachineWrite) (*model.Machine, error)
	DeleteMachine(ctx context.Context, p auth.Principal, id int64) error
	MachineFacets(ctx context.Context, p auth.Principal) (*MachineFacetSet, error)

	ListMaintenanceTypes(ctx context.Context) ([]model.MaintenanceType, error)
	CreateMaintenanceType(ctx context.Context, p auth.Principal, name string) (*model.MaintenanceType, error)
	UpdateMaintenanceType(ctx context.Context, p auth.Principal, id int64, name string) (*model.MaintenanceType, error)
	DeleteMaintenanceType(ctx context.Context, p auth.Principal, id int64) error

	ListMaintenance(ctx context.Context, p auth.Principal, f MaintenanceFilter) ([]MaintenanceRow, error)
	CreateMaintenance(ctx context.Context, p auth.Principal, w MaintenanceWrite) (*model.Maintenance, error)
	UpdateMaintenance(ctx context.Context, p auth.Principal, id int64, w MaintenanceWrite) (*model.Maintenance, error)
	DeleteMaintenance(ctx context.Context, p auth.Principal, id int64) error
	MaintenanceFacets(ctx context.Context, p auth.Principal) (*MaintenanceFacetSet, error)

	ListClaims(ctx context.Context, p auth.Principal, f ClaimFilter) ([]ClaimRow, error)
	CreateClaim(ctx context.Context, p auth.Principal, w ClaimWrite) (*model.Claim, error)
	UpdateClaim(ctx context.Context, p auth.Principal, id int64, w ClaimWrite) (*model.Claim, error)
	DeleteClaim(ctx context.Context, p auth.Principal, id int64) error
	ClaimFacets(ctx context.Context, p auth.Principal) (*ClaimFacetSet, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

const (
	machineCountSelect = "machines.*, " +
		"(SELECT COUNT(DISTINCT m.id) FROM maintenances m WHERE m.machine_id = machines.id) AS maintenance_count, " +
		"(SELECT COUNT(DISTINCT c.id) FROM claims c WHERE c.machine_id = machines.id) AS claims_count"

	joinMachines = "JOIN machines ON machines.id = maintenances.machine_id"
	joinClaims   = "JOIN machines ON machines.id = claims.machine_id"
)

// --- Machines ---

func (s *gormStore) ListMachines(ctx context.Context, p auth.Principal) ([]MachineRow, error) {
	var rows []MachineRow
	err := s.db.WithContext(ctx).
		Model(&model.Machine{}).
		Select(machineCountSelect).
		Scopes(policy.MachineScope(p)).
		Order("machines.shipment_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}
	return rows, nil
}

// SearchMachines narrows the catalogue by q after the role scope. Manager,
// anonymous, and unrecognized callers search the full catalogue (the latter
// two are served the redacted projection by the API layer); service orgs and
// clients search only their own machines.
func (s *gormStore) SearchMachines(ctx context.Context, p auth.Principal, q string) ([]MachineRow, error) {
	var rows []MachineRow
	err := s.db.WithContext(ctx).
		Model(&model.Machine{}).
		Select(machineCountSelect).
		Scopes(policy.PublicMachineScope(p), policy.MachineSearchScope(q)).
		Order("machines.serial_number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search machines: %w", err)
	}
	return rows, nil
}

func (s *gormStore) GetMachine(ctx context.Context, p auth.Principal, id int64) (*model.Machine, error) {
	var m model.Machine
	err := s.db.WithContext(ctx).
		Scopes(policy.MachineScope(p)).
		Preload("Maintenances", func(db *gorm.DB) *gorm.DB {
			return db.Order("date DESC")
		}).
		Preload("Maintenances.MaintenanceType").
		Preload("Claims", func(db *gorm.DB) *gorm.DB {
			return db.Order("failure_date DESC")
		}).
		First(&m, "machines.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *gormStore) validateMachineWrite(ctx context.Context, w MachineWrite, excludeID int64) error {
	if !policy.ValidSerial(w.SerialNumber) {
		return policy.Invalid("serial_number", "must contain digits only")
	}
	if w.ModelName == "" {
		return policy.Invalid("model_name", "must not be empty")
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Machine{}).
		Where("serial_number = ? AND id <> ?", w.SerialNumber, excludeID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check serial uniqueness: %w", err)
	}
	if count > 0 {
		return policy.Invalid("serial_number", "a machine with this serial number already exists")
	}
	return nil
}

func applyMachineWrite(m *model.Machine, w MachineWrite) {
	m.SerialNumber = w.SerialNumber
	m.ModelName = w.ModelName
	m.EngineModel = w.EngineModel
	m.EngineSerial = w.EngineSerial
	m.TransmissionModel = w.TransmissionModel
	m.TransmissionSerial = w.TransmissionSerial
	m.DriveAxleModel = w.DriveAxleModel
	m.DriveAxleSerial = w.DriveAxleSerial
	m.SteerAxleModel = w.SteerAxleModel
	m.SteerAxleSerial = w.SteerAxleSerial
	m.ShipmentDate = w.ShipmentDate
	m.Buyer = w.Buyer
	m.Recipient = w.Recipient
	m.DeliveryAddress = w.DeliveryAddress
	m.Options = w.Options
	m.ServiceCompany = w.ServiceCompany
	m.ClientID = w.ClientID
	m.ServiceOrgID = w.ServiceOrgID
}

var machineWriteColumns = []string{
	"serial_number", "model_name",
	"engine_model", "engine_serial",
	"transmission_model", "transmission_serial",
	"drive_axle_model", "drive_axle_serial",
	"steer_axle_model", "steer_axle_serial",
	"shipment_date", "buyer", "recipient", "delivery_address",
	"options", "service_company", "client_id", "service_org_id",
	"updated_at",
}

func (s *gormStore) CreateMachine(ctx context.Context, p auth.Principal, w MachineWrite) (*model.Machine, error) {
	if err := policy.CanMutateMachine(auth.ResolveRole(p), "create machine"); err != nil {
		return nil, err
	}
	if err := s.validateMachineWrite(ctx, w, 0); err != nil {
		return nil, err
	}
	var m model.Machine
	applyMachineWrite(&m, w)
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("create machine: %w", err)
	}
	return &m, nil
}

func (s *gormStore) UpdateMachine(ctx context.Context, p auth.Principal, id int64, w MachineWrite) (*model.Machine, error) {
	if err := policy.CanMutateMachine(auth.ResolveRole(p), "update machine"); err != nil {
		return nil, err
	}
	var m model.Machine
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	if err := s.validateMachineWrite(ctx, w, id); err != nil {
		return nil, err
	}
	applyMachineWrite(&m, w)
	err := s.db.WithContext(ctx).Model(&m).
		Select(machineWriteColumns).
		Updates(&m).Error
	if err != nil {
		return nil, fmt.Errorf("update machine %d: %w", id, err)
	}
	return &m, nil
}

func (s *gormStore) DeleteMachine(ctx context.Context, p auth.Principal, id int64) error {
	if err := policy.CanMutateMachine(auth.ResolveRole(p), "delete machine"); err != nil {
		return err
	}
	var m model.Machine
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return err
	}
	// Related maintenance and claim rows go with the machine.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("machine_id = ?", id).Delete(&model.Maintenance{}).Error; err != nil {
			return fmt.Errorf("delete maintenance for machine %d: %w", id, err)
		}
		if err := tx.Where("machine_id = ?", id).Delete(&model.Claim{}).Error; err != nil {
			return fmt.Errorf("delete claims for machine %d: %w", id, err)
		}
		if err := tx.Delete(&m).Error; err != nil {
			return fmt.Errorf("delete machine %d: %w", id, err)
		}
		return nil
	})
}

func (s *gormStore) distinctMachineColumn(ctx context.Context, p auth.Principal, column string) ([]string, error) {
	vals := []string{}
	err := s.db.WithContext(ctx).
		Model(&model.Machine{}).
		Scopes(policy.MachineScope(p)).
		Where(column+" <> ''").
		Distinct(column).
		Order(column).
		Pluck(column, &vals).Error
	if err != nil {
		return nil, fmt.Errorf("machine facet %s: %w", column, err)
	}
	return vals, nil
}

// MachineFacets derives distinct-value summaries strictly from the caller's
// scoped queryset, so no cross-tenant value ever shows up in a filter menu.
func (s *gormStore) MachineFacets(ctx context.Context, p auth.Principal) (*MachineFacetSet, error) {
	fs := &MachineFacetSet{}
	for column, dst := range map[string]*[]string{
		"model_name":         &fs.ModelName,
		"engine_model":       &fs.EngineModel,
		"transmission_model": &fs.TransmissionModel,
		"steer_axle_model":   &fs.SteerAxleModel,
		"drive_axle_model":   &fs.DriveAxleModel,
		"service_company":    &fs.ServiceCompany,
	} {
		vals, err := s.distinctMachineColumn(ctx, p, column)
		if err != nil {
			return nil, err
		}
		*dst = vals
	}
	return fs, nil
}

// --- Maintenance types ---

func (s *gormStore) ListMaintenanceTypes(ctx context.Context) ([]model.MaintenanceType, error) {
	var types []model.MaintenanceType
	err := s.db.WithContext(ctx).Order("name ASC").Find(&types).Error
	if err != nil {
		return nil, fmt.Errorf("list maintenance types: %w", err)
	}
	return types, nil
}

func (s *gormStore) validateTypeName(ctx context.Context, name string, excludeID int64) error {
	if name == "" {
		return policy.Invalid("name", "must not be empty")
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&model.MaintenanceType{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check type uniqueness: %w", err)
	}
	if count > 0 {
		return policy.Invalid("name", "a maintenance type with this name already exists")
	}
	return nil
}

func (s *gormStore) CreateMaintenanceType(ctx context.Context, p auth.Principal, name string) (*model.MaintenanceType, error) {
	if err := policy.CanMutateMaintenanceType(auth.ResolveRole(p), "create maintenance type"); err != nil {
		return nil, err
	}
	if err := s.validateTypeName(ctx, name, 0); err != nil {
		return nil, err
	}
	t := model.MaintenanceType{Name: name}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("create maintenance type: %w", err)
	}
	return &t, nil
}

func (s *gormStore) UpdateMaintenanceType(ctx context.Context, p auth.Principal, id int64, name string) (*model.MaintenanceType, error) {
	if err := policy.CanMutateMaintenanceType(auth.ResolveRole(p), "update maintenance type"); err != nil {
		return nil, err
	}
	var t model.MaintenanceType
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	if err := s.validateTypeName(ctx, name, id); err != nil {
		return nil, err
	}
	t.Name = name
	if err := s.db.WithContext(ctx).Model(&t).Update("name", name).Error; err != nil {
		return nil, fmt.Errorf("update maintenance type %d: %w", id, err)
	}
	return &t, nil
}

func (s *gormStore) DeleteMaintenanceType(ctx context.Context, p auth.Principal, id int64) error {
	if err := policy.CanMutateMaintenanceType(auth.ResolveRole(p), "delete maintenance type"); err != nil {
		return err
	}
	var t model.MaintenanceType
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return err
	}
	// Maintenance records referencing the type go with it.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("maintenance_type_id = ?", id).Delete(&model.Maintenance{}).Error; err != nil {
			return fmt.Errorf("delete maintenance for type %d: %w", id, err)
		}
		if err := tx.Delete(&t).Error; err != nil {
			return fmt.Errorf("delete maintenance type %d: %w", id, err)
		}
		return nil
	})
}

// --- Maintenance ---

func (s *gormStore) ListMaintenance(ctx context.Context, p auth.Principal, f MaintenanceFilter) ([]MaintenanceRow, error) {
	q := s.db.WithContext(ctx).
		Model(&model.Maintenance{}).
		Select("maintenances.*, machines.serial_number AS machine_serial, maintenance_types.name AS maintenance_type_name").
		Joins(joinMachines).
		Joins("JOIN maintenance_types ON maintenance_types.id = maintenances.maintenance_type_id").
		Scopes(policy.MaintenanceScope(p)).
		Order("machines.serial_number ASC, maintenances.date DESC")
	if f.MachineSerial != "" {
		q = q.Where("machines.serial_number = ?", f.MachineSerial)
	}
	if f.MaintenanceTypeID != 0 {
		q = q.Where("maintenances.maintenance_type_id = ?", f.MaintenanceTypeID)
	}
	if f.ServiceCompany != "" {
		q = q.Where("maintenances.service_company = ?", f.ServiceCompany)
	}
	var rows []MaintenanceRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list maintenance: %w", err)
	}
	return rows, nil
}

func validateHours(field string, hours *int) error {
	if hours != nil && *hours < 0 {
		return policy.Invalid(field, "must not be negative")
	}
	return nil
}

func (s *gormStore) loadMachine(ctx context.Context, id int64) (*model.Machine, error) {
	var m model.Machine
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *gormStore) CreateMaintenance(ctx context.Context, p auth.Principal, w MaintenanceWrite) (*model.Maintenance, error) {
	if w.MachineID == nil {
		return nil, policy.Invalid("machine_id", "required")
	}
	if w.MaintenanceTypeID == nil {
		return nil, policy.Invalid("maintenance_type_id", "required")
	}
	if err := validateHours("operating_hours", w.OperatingHours); err != nil {
		return nil, err
	}
	machine, err := s.loadMachine(ctx, *w.MachineID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, policy.Invalid("machine_id", "unknown machine")
		}
		return nil, err
	}
	if err := policy.CanCreateMaintenance(auth.ResolveRole(p), p.ID, machine); err != nil {
		return nil, err
	}
	var typeCount int64
	if err := s.db.WithContext(ctx).Model(&model.MaintenanceType{}).
		Where("id = ?", *w.MaintenanceTypeID).Count(&typeCount).Error; err != nil {
		return nil, err
	}
	if typeCount == 0 {
		return nil, policy.Invalid("maintenance_type_id", "unknown maintenance type")
	}
	rec := model.Maintenance{
		MachineID:         *w.MachineID,
		MaintenanceTypeID: *w.MaintenanceTypeID,
		Date:              w.Date,
		OperatingHours:    w.OperatingHours,
		OrderNumber:       w.OrderNumber,
		OrderDate:         w.OrderDate,
		ServiceCompany:    w.ServiceCompany,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create maintenance: %w", err)
	}
	return &rec, nil
}

// loadScopedMaintenance fetches the record through the caller's scope, so an
// out-of-scope id is indistinguishable from a nonexistent one.
func (s *gormStore) loadScopedMaintenance(ctx context.Context, p auth.Principal, id int64) (*model.Maintenance, error) {
	var rec model.Maintenance
	err := s.db.WithContext(ctx).
		Select("maintenances.*").
		Joins(joinMachines).
		Scopes(policy.MaintenanceScope(p)).
		Where("maintenances.id = ?", id).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *gormStore) UpdateMaintenance(ctx context.Context, p auth.Principal, id int64, w MaintenanceWrite) (*model.Maintenance, error) {
	rec, err := s.loadScopedMaintenance(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if w.MachineID != nil && *w.MachineID != rec.MachineID {
		return nil, policy.Invalid("machine_id", "a maintenance record cannot be moved to another machine")
	}
	machine, err := s.loadMachine(ctx, rec.MachineID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanModifyMaintenance(auth.ResolveRole(p), p.ID, machine, "update maintenance"); err != nil {
		return nil, err
	}
	if err := validateHours("operating_hours", w.OperatingHours); err != nil {
		return nil, err
	}
	if w.MaintenanceTypeID != nil {
		var typeCount int64
		if err := s.db.WithContext(ctx).Model(&model.MaintenanceType{}).
			Where("id = ?", *w.MaintenanceTypeID).Count(&typeCount).Error; err != nil {
			return nil, err
		}
		if typeCount == 0 {
			return nil, policy.Invalid("maintenance_type_id", "unknown maintenance type")
		}
		rec.MaintenanceTypeID = *w.MaintenanceTypeID
	}
	rec.Date = w.Date
	rec.OperatingHours = w.OperatingHours
	rec.OrderNumber = w.OrderNumber
	rec.OrderDate = w.OrderDate
	rec.ServiceCompany = w.ServiceCompany
	err = s.db.WithContext(ctx).Model(rec).
		Select("maintenance_type_id", "date", "operating_hours",
			"order_number", "order_date", "service_company", "updated_at").
		Updates(rec).Error
	if err != nil {
		return nil, fmt.Errorf("update maintenance %d: %w", id, err)
	}
	return rec, nil
}

func (s *gormStore) DeleteMaintenance(ctx context.Context, p auth.Principal, id int64) error {
	rec, err := s.loadScopedMaintenance(ctx, p, id)
	if err != nil {
		return err
	}
	machine, err := s.loadMachine(ctx, rec.MachineID)
	if err != nil {
		return err
	}
	if err := policy.CanModifyMaintenance(auth.ResolveRole(p), p.ID, machine, "delete maintenance"); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(rec).Error; err != nil {
		return fmt.Errorf("delete maintenance %d: %w", id, err)
	}
	return nil
}

func (s *gormStore) MaintenanceFacets(ctx context.Context, p auth.Principal) (*MaintenanceFacetSet, error) {
	fs := &MaintenanceFacetSet{
		MaintenanceType: []TypeFacet{},
		MachineSerial:   []string{},
		ServiceCompany:  []string{},
	}
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).
			Model(&model.Maintenance{}).
			Joins(joinMachines).
			Scopes(policy.MaintenanceScope(p))
	}
	err := base().
		Joins("JOIN maintenance_types ON maintenance_types.id = maintenances.maintenance_type_id").
		Distinct("maintenance_types.id", "maintenance_types.name").
		Order("maintenance_types.name ASC").
		Scan(&fs.MaintenanceType).Error
	if err != nil {
		return nil, fmt.Errorf("maintenance type facet: %w", err)
	}
	err = base().
		Distinct("machines.serial_number").
		Order("machines.serial_number ASC").
		Pluck("machines.serial_number", &fs.MachineSerial).Error
	if err != nil {
		return nil, fmt.Errorf("maintenance serial facet: %w", err)
	}
	err = base().
		Where("maintenances.service_company <> ''").
		Distinct("maintenances.service_company").
		Order("maintenances.service_company ASC").
		Pluck("maintenances.service_company", &fs.ServiceCompany).Error
	if err != nil {
		return nil, fmt.Errorf("maintenance company facet: %w", err)
	}
	return fs, nil
}

// --- Claims ---

func (s *gormStore) ListClaims(ctx context.Context, p auth.Principal, f ClaimFilter) ([]ClaimRow, error) {
	q := s.db.WithContext(ctx).
		Model(&model.Claim{}).
		Select("claims.*, machines.serial_number AS machine_serial").
		Joins(joinClaims).
		Scopes(policy.ClaimScope(p)).
		Order("machines.serial_number ASC, claims.failure_date DESC")
	if f.MachineSerial != "" {
		q = q.Where("machines.serial_number = ?", f.MachineSerial)
	}
	if f.FailureNode != "" {
		q = q.Where("claims.failure_node = ?", f.FailureNode)
	}
	var rows []ClaimRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	return rows, nil
}

func (s *gormStore) CreateClaim(ctx context.Context, p auth.Principal, w ClaimWrite) (*model.Claim, error) {
	if w.MachineID == nil {
		return nil, policy.Invalid("machine_id", "required")
	}
	if err := validateHours("operating_hours", w.OperatingHours); err != nil {
		return nil, err
	}
	if err := validateHours("downtime_hours", w.DowntimeHours); err != nil {
		return nil, err
	}
	machine, err := s.loadMachine(ctx, *w.MachineID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, policy.Invalid("machine_id", "unknown machine")
		}
		return nil, err
	}
	if err := policy.CanMutateClaim(auth.ResolveRole(p), p.ID, machine, "create claim"); err != nil {
		return nil, err
	}
	rec := model.Claim{
		MachineID:          *w.MachineID,
		FailureDate:        w.FailureDate,
		OperatingHours:     w.OperatingHours,
		FailureNode:        w.FailureNode,
		FailureDescription: w.FailureDescription,
		RecoveryMethod:     w.RecoveryMethod,
		UsedSpare:          w.UsedSpare,
		RestoredDate:       w.RestoredDate,
		DowntimeHours:      w.DowntimeHours,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create claim: %w", err)
	}
	return &rec, nil
}

func (s *gormStore) loadScopedClaim(ctx context.Context, p auth.Principal, id int64) (*model.Claim, error) {
	var rec model.Claim
	err := s.db.WithContext(ctx).
		Select("claims.*").
		Joins(joinClaims).
		Scopes(policy.ClaimScope(p)).
		Where("claims.id = ?", id).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *gormStore) UpdateClaim(ctx context.Context, p auth.Principal, id int64, w ClaimWrite) (*model.Claim, error) {
	rec, err := s.loadScopedClaim(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if w.MachineID != nil && *w.MachineID != rec.MachineID {
		return nil, policy.Invalid("machine_id", "a claim cannot be moved to another machine")
	}
	machine, err := s.loadMachine(ctx, rec.MachineID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanMutateClaim(auth.ResolveRole(p), p.ID, machine, "update claim"); err != nil {
		return nil, err
	}
	if err := validateHours("operating_hours", w.OperatingHours); err != nil {
		return nil, err
	}
	if err := validateHours("downtime_hours", w.DowntimeHours); err != nil {
		return nil, err
	}
	rec.FailureDate = w.FailureDate
	rec.OperatingHours = w.OperatingHours
	rec.FailureNode = w.FailureNode
	rec.FailureDescription = w.FailureDescription
	rec.RecoveryMethod = w.RecoveryMethod
	rec.UsedSpare = w.UsedSpare
	rec.RestoredDate = w.RestoredDate
	rec.DowntimeHours = w.DowntimeHours
	err = s.db.WithContext(ctx).Model(rec).
		Select("failure_date", "operating_hours", "failure_node",
			"failure_description", "recovery_method", "used_spare",
			"restored_date", "downtime_hours", "updated_at").
		Updates(rec).Error
	if err != nil {
		return nil, fmt.Errorf("update claim %d: %w", id, err)
	}
	return rec, nil
}

func (s *gormStore) DeleteClaim(ctx context.Context, p auth.Principal, id int64) error {
	rec, err := s.loadScopedClaim(ctx, p, id)
	if err != nil {
		return err
	}
	machine, err := s.loadMachine(ctx, rec.MachineID)
	if err != nil {
		return err
	}
	if err := policy.CanMutateClaim(auth.ResolveRole(p), p.ID, machine, "delete claim"); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(rec).Error; err != nil {
		return fmt.Errorf("delete claim %d: %w", id, err)
	}
	return nil
}

func (s *gormStore) ClaimFacets(ctx context.Context, p auth.Principal) (*ClaimFacetSet, error) {
	fs := &ClaimFacetSet{
		FailureNode:    []string{},
		MachineSerial:  []string{},
		ServiceCompany: []string{},
	}
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).
			Model(&model.Claim{}).
			Joins(joinClaims).
			Scopes(policy.ClaimScope(p))
	}
	err := base().
		Where("claims.failure_node <> ''").
		Distinct("claims.failure_node").
		Order("claims.failure_node ASC").
		Pluck("claims.failure_node", &fs.FailureNode).Error
	if err != nil {
		return nil, fmt.Errorf("claim node facet: %w", err)
	}
	err = base().
		Distinct("machines.serial_number").
		Order("machines.serial_number ASC").
		Pluck("machines.serial_number", &fs.MachineSerial).Error
	if err != nil {
		return nil, fmt.Errorf("claim serial facet: %w", err)
	}
	err = base().
		Where("machines.service_company <> ''").
		Distinct("machines.service_company").
		Order("machines.service_company ASC").
		Pluck("machines.service_company", &fs.ServiceCompany).Error
	if err != nil {
		return nil, fmt.Errorf("claim company facet: %w", err)
	}
	return fs, nil
}
