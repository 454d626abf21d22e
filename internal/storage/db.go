package storage

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database wraps the underlying gorm handle. All reads and writes go
// through its methods or through the ledger package.
type Database struct {
	db *gorm.DB
}

// NewDatabase opens a SQLite database at the given path and migrates the
// schema. Foreign keys are enabled so referential errors surface as
// constraint failures.
func NewDatabase(dbPath string) (*Database, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", dbPath)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return wrap(db)
}

// NewPostgresDatabase connects to a PostgreSQL database and migrates the
// schema.
func NewPostgresDatabase(dsn string) (*Database, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return wrap(db)
}

func wrap(db *gorm.DB) (*Database, error) {
	if err := db.AutoMigrate(
		&Currency{},
		&Account{},
		&Category{},
		&Payment{},
		&PaymentEntry{},
		&Transaction{},
		&PSP{},
		&Invoice{},
		&InvoiceDetail{},
		&InvoiceCarrier{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Database{db: db}, nil
}

// Gorm exposes the underlying handle for the ledger package, which needs
// to run multi-row operations inside a single transaction.
func (d *Database) Gorm() *gorm.DB {
	return d.db
}

// IsNotFound reports whether err means the requested row does not exist,
// as opposed to a database failure.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
