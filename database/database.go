package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/omarhassan900/wattar-academy/config"
)

// Open connects to PostgreSQL and returns the handle. Callers own the
// handle and pass it down explicitly; there is no package-level DB.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}
