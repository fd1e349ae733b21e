package configs

import (
	"restopos/entity"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

func ConnectionDB(cfg *Config) error {
	database, err := Open(cfg.DBDriver, cfg.DBSource)
	if err != nil {
		return err
	}
	db = database
	return nil
}

// Open connects to the configured database.
func Open(driver, source string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(source)
	case "postgres":
		dialector = postgres.Open(source)
	case "mysql":
		dialector = mysql.Open(source)
	default:
		return nil, errors.Errorf("unsupported driver %q", driver)
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", driver)
	}

	if driver == "sqlite" {
		// sqlite มี writer ได้ทีละตัว ให้รอคิวที่ pool แทน "database is locked"
		sqlDB, err := database.DB()
		if err != nil {
			return nil, errors.Wrap(err, "sqlite pool")
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return database, nil
}

func SetupDatabase(database *gorm.DB) error {
	// Migrate the schema
	err := database.AutoMigrate(entity.Models()...)
	return errors.Wrap(err, "auto migrate")
}
