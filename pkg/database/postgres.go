package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ConnectDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Africa/Nairobi",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_PORT"),
		)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disables implicit prepared statements for pooled transaction mode
	}), &gorm.Config{
		Logger:         newLogger,
		PrepareStmt:    false,
		TranslateError: true, // Surface duplicate-key / FK failures as gorm sentinel errors
	})

	if err != nil {
		log.Fatal("Failed to connect to database. \n", err)
	}

	// Connection Pooling Setup
	sqlDB, _ := db.DB()
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
	return db
}

// EnsureNameIndexes creates the unique indexes AutoMigrate cannot express:
// product and mess names are unique case-insensitively, so the constraint
// lives on LOWER(name). Racing duplicate inserts then surface as
// gorm.ErrDuplicatedKey instead of both committing.
func EnsureNameIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_lower_name
			ON products (LOWER(name)) WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_messes_lower_name
			ON messes (LOWER(name)) WHERE deleted_at IS NULL`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateReportViews (re)creates the derived reporting views. Current stock is
// always a derivation over the ledger tables, never a cached counter.
func CreateReportViews(db *gorm.DB) error {
	statements := []string{
		`CREATE OR REPLACE VIEW v_current_stock AS
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			p.unit_type,
			COALESCE((SELECT SUM(i.quantity) FROM inventory i
				WHERE i.product_id = p.id AND i.deleted_at IS NULL), 0) AS total_added,
			COALESCE((SELECT SUM(d.quantity) FROM distributions d
				WHERE d.product_id = p.id AND d.deleted_at IS NULL), 0) AS total_distributed,
			COALESCE((SELECT SUM(i.quantity) FROM inventory i
				WHERE i.product_id = p.id AND i.deleted_at IS NULL), 0)
			- COALESCE((SELECT SUM(d.quantity) FROM distributions d
				WHERE d.product_id = p.id AND d.deleted_at IS NULL), 0) AS current_stock
		FROM products p
		WHERE p.deleted_at IS NULL AND p.is_active = true`,

		`CREATE OR REPLACE VIEW v_product_distribution_summary AS
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			p.unit_type,
			COUNT(d.id) AS distribution_count,
			COALESCE(SUM(d.quantity), 0) AS total_units_distributed,
			COALESCE(SUM(d.total_value), 0) AS total_revenue
		FROM products p
		LEFT JOIN distributions d ON p.id = d.product_id AND d.deleted_at IS NULL
		WHERE p.deleted_at IS NULL AND p.is_active = true
		GROUP BY p.id, p.name, p.unit_type`,

		`CREATE OR REPLACE VIEW v_mess_distribution_summary AS
		SELECT
			m.id AS mess_id,
			m.name AS mess_name,
			m.contact_person,
			m.phone,
			COUNT(d.id) AS distribution_count,
			COALESCE(SUM(d.quantity), 0) AS total_units_received,
			COALESCE(SUM(d.total_value), 0) AS total_value,
			MAX(d.distribution_date) AS last_distribution_date
		FROM messes m
		LEFT JOIN distributions d ON m.id = d.mess_id AND d.deleted_at IS NULL
		WHERE m.deleted_at IS NULL AND m.is_active = true
		GROUP BY m.id, m.name, m.contact_person, m.phone`,

		`CREATE OR REPLACE VIEW v_mess_financial_summary AS
		SELECT
			m.id AS mess_id,
			m.name AS mess_name,
			COALESCE((SELECT SUM(d.total_value) FROM distributions d
				WHERE d.mess_id = m.id AND d.deleted_at IS NULL), 0) AS total_distributed_value,
			COALESCE((SELECT SUM(p.amount_paid) FROM payments p
				WHERE p.mess_id = m.id AND p.deleted_at IS NULL), 0) AS total_paid,
			COALESCE((SELECT SUM(d.total_value) FROM distributions d
				WHERE d.mess_id = m.id AND d.deleted_at IS NULL), 0)
			- COALESCE((SELECT SUM(p.amount_paid) FROM payments p
				WHERE p.mess_id = m.id AND p.deleted_at IS NULL), 0) AS outstanding_balance
		FROM messes m
		WHERE m.deleted_at IS NULL AND m.is_active = true`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
