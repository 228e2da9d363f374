package database

import (
	"clinica-backend/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the GORM handle. The handle is owned by main and injected into
// controllers and middleware; there is no package-level connection state.
func Connect() (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(config.DatabaseDSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Close releases the underlying connection pool. Called once at shutdown.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
