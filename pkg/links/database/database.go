package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AR-26710/plugin-links/pkg/links/config"
	"github.com/AR-26710/plugin-links/pkg/links/models"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect initializes the database connection for the configured backend
// and runs migrations when enabled.
func Connect(c config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(c)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if c.LogQueries {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logMode),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", c.Type)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetime) * time.Minute)

	if c.AutoMigrate {
		if err := models.AutoMigrate(db); err != nil {
			return nil, errors.Wrap(err, "run migrations")
		}
	}

	return db, nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(c config.DatabaseConfig) (gorm.Dialector, error) {
	switch c.Type {
	case "sqlite":
		if c.Path != ":memory:" {
			if dir := filepath.Dir(c.Path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, errors.Wrap(err, "create database dir")
				}
			}
		}
		return sqlite.Open(c.Path), nil
	case "mysql":
		return mysql.Open(mysqlDSN(c)), nil
	case "postgres":
		return postgres.Open(postgresDSN(c)), nil
	default:
		return nil, errors.Errorf("unsupported database type %q", c.Type)
	}
}

func mysqlDSN(c config.DatabaseConfig) string {
	host := c.Host
	if c.Port > 0 {
		host = fmt.Sprintf("%s:%d", c.Host, c.Port)
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=true&loc=UTC",
		c.UserName, c.Password, host, c.Name, c.Charset)
}

func postgresDSN(c config.DatabaseConfig) string {
	port := c.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		c.Host, port, c.UserName, c.Password, c.Name)
}
