// Package cache implements a persistent, cross-run instantiation cache:
// a content-hash-keyed record of every template declaration the
// instantiator (C6) has already ground against a particular argument
// vector, surviving between separate invocations of the pipeline so an
// incremental rebuild can tell a fresh instantiation from one already
// proven to succeed.
//
// It mirrors instantiate's in-memory Instantiations de-dup (equality by
// contract.ArgVectorEqual) with a durable layer: a row here does not
// replace running the instantiator again (the AST it produced is not
// itself persisted), but lets `cmd/midc cache inspect` report on, and
// `cmd/midc cache clear` reset, what a build has already settled.
package cache

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/datatypes"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Record is one settled template instantiation: TemplateKey names the
// generic declaration (its qualified path) and ArgsDigest is the stable
// hash of its ground argument vector; the pair is unique.
type Record struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	TemplateKey string `gorm:"type:varchar(255);index:idx_template_args,unique"`
	ArgsDigest  string `gorm:"type:varchar(64);index:idx_template_args,unique"`
	ArgsJSON    datatypes.JSON
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Record) TableName() string { return "instantiations" }

// Store wraps the cache's backing database, opened by Open against a DSN
// chosen by internal/config.
type Store struct {
	db *gorm.DB
}

// Open connects to dsn, enabling PRAGMA foreign_keys=ON and running
// AutoMigrate. A libsql:// or http(s):// dsn is
// treated as a remote/replica Turso database reached through
// tursodatabase/libsql-client-go, authenticated by MIDC_CACHE_LIBSQL_AUTH_TOKEN
// when set; anything else is a local file opened through the pure-Go
// glebarez/sqlite driver, with its containing directory created first.
func Open(dsn string, debug bool) (*Store, error) {
	if !isRemoteDSN(dsn) {
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("cache: create database directory: %w", err)
			}
		}
	}

	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	dialector, conn, err := dialectorFor(dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("cache: connect: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("cache: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// dialectorFor picks the libsql-connector dialector (wrapping
// gorm.io/driver/sqlite's Conn-based Config) for a remote DSN, or the plain
// pure-Go glebarez/sqlite dialector otherwise.
func dialectorFor(dsn string) (gorm.Dialector, *sql.DB, error) {
	if !isRemoteDSN(dsn) {
		return sqlite.Open(dsn), nil, nil
	}

	var connector driver.Connector
	var err error
	if token := os.Getenv("MIDC_CACHE_LIBSQL_AUTH_TOKEN"); token != "" {
		connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
	} else {
		connector, err = libsql.NewConnector(dsn)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("cache: libsql connector: %w", err)
	}
	conn := sql.OpenDB(connector)
	return gormsqlite.New(gormsqlite.Config{DriverName: "libsql", Conn: conn, DSN: dsn}), conn, nil
}

func isRemoteDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "http://") || strings.HasPrefix(dsn, "https://") || strings.HasPrefix(dsn, "libsql")
}

// Lookup reports whether templateKey has already been recorded as ground
// against argsDigest.
func (s *Store) Lookup(templateKey, argsDigest string) (bool, error) {
	var count int64
	err := s.db.Model(&Record{}).
		Where("template_key = ? AND args_digest = ?", templateKey, argsDigest).
		Count(&count).Error
	return count > 0, err
}

// Record inserts a settled instantiation, a no-op if the (templateKey,
// argsDigest) pair is already present.
func (s *Store) Record(templateKey, argsDigest string, argsJSON []byte) error {
	row := Record{
		ID:          uuid.NewString(),
		TemplateKey: templateKey,
		ArgsDigest:  argsDigest,
		ArgsJSON:    datatypes.JSON(argsJSON),
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// Count returns the number of cached instantiation records.
func (s *Store) Count() (int64, error) {
	var count int64
	err := s.db.Model(&Record{}).Count(&count).Error
	return count, err
}

// Clear deletes every cached instantiation record.
func (s *Store) Clear() error {
	return s.db.Where("1 = 1").Delete(&Record{}).Error
}

// List returns every cached record, most recently created first, for
// `cmd/midc cache inspect`.
func (s *Store) List() ([]Record, error) {
	var rows []Record
	err := s.db.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
