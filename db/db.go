package db

import (
	"fmt"
	"log"
	"posts/config"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Instance *gorm.DB

// Init opens the configured database and panics if that is not possible
func Init() {
	db, err := Open(config.MYSQL_DSN, config.SQLITE_FILE)
	if err != nil || db == nil {
		panic(err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(config.DB_MAX_CONNS)
		sqlDB.SetMaxIdleConns(config.DB_IDLE_CONNS)
	}
	Instance = db
}

// Open connects to MySQL if mysqlDSN is set, SQLite otherwise
func Open(mysqlDSN, sqliteFile string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if mysqlDSN != "" {
		dsn, err := normalizeMySQLDSN(mysqlDSN)
		if err != nil {
			return nil, err
		}
		dialector = mysql.Open(dsn)
	} else if sqliteFile != "" {
		log.Printf("Using SQLite database %s", sqliteFile)
		dialector = sqlite.Open(sqliteFile)
	} else {
		return nil, fmt.Errorf("no database configured, set MYSQL_DSN or SQLITE_FILE")
	}
	logLevel := logger.Warn
	if config.DEBUG_MODE {
		logLevel = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger:                 logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// Ping checks the database is reachable
func Ping() error {
	if Instance == nil {
		return fmt.Errorf("database not initialised")
	}
	sqlDB, err := Instance.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// normalizeMySQLDSN makes sure DATETIME columns are scanned into time.Time and that
// UPDATE reports matched rows, not only changed ones
func normalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MYSQL_DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	log.Printf("Using MySQL database %s at %s", cfg.DBName, cfg.Addr)
	return cfg.FormatDSN(), nil
}
