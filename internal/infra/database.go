package infra

import (
	"fmt"

	"ebucks/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported DB_DRIVER values.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// NewDatabase opens a GORM connection for the given driver, migrates every
// table and applies the schema patches AutoMigrate cannot express.
func NewDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres, "":
		dialector = postgres.Open(dsn)
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// One writer at a time; also keeps ":memory:" databases on a single
		// connection so every query sees the same data.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table and applies schema patches.
// Integration tests call it directly on their container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Voucher{},
		&model.InventoryItem{},
		&model.Transaction{},
		&model.SalesLogEntry{},
		&model.Timesheet{},
		&model.Printer{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches creates partial indexes for the hot ledger queries.
// MySQL has no partial indexes, so it keeps the plain ones from the model tags.
func applySchemaPatches(db *gorm.DB) error {
	if db.Dialector.Name() == DriverMySQL {
		return nil
	}
	patches := []string{
		// transfer gathering: unused vouchers of one owner, oldest first
		`CREATE INDEX IF NOT EXISTS idx_vouchers_owner_unused
		    ON vouchers (user_id, created_at, id)
		    WHERE is_used = false`,
		// payroll selection
		`CREATE INDEX IF NOT EXISTS idx_timesheets_unpaid_closed
		    ON timesheets (user_id, clock_in)
		    WHERE is_paid = false AND clock_out IS NOT NULL`,
		// one open shift per user
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_timesheets_one_open
		    ON timesheets (user_id)
		    WHERE clock_out IS NULL`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
