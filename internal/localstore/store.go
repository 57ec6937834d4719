// Package localstore is the client's durable state: a small sqlite database
// under the data directory holding the persisted session credentials.
package localstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Credentials is the one persisted row: the auth token, the serialized user
// record, and the advisory remember-me flag. It plays the role browser
// localStorage plays for the web client.
type Credentials struct {
	ID        uint      `gorm:"primarykey"`
	Token     string    `gorm:"not null"`
	UserJSON  string    `gorm:"not null"`
	Remember  bool      `gorm:"default:false"`
	UpdatedAt time.Time
}

// Store wraps the sqlite database.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at <dataDir>/fleetdesk.db
// and runs migrations.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(filepath.Join(dataDir, "fleetdesk.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	if err := db.AutoMigrate(&Credentials{}); err != nil {
		return nil, fmt.Errorf("migrate local store: %w", err)
	}

	return &Store{db: db}, nil
}

// LoadCredentials returns the persisted credentials, or (nil, nil) when
// nothing is stored.
func (s *Store) LoadCredentials() (*Credentials, error) {
	var creds Credentials
	err := s.db.First(&creds).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &creds, nil
}

// SaveCredentials replaces whatever is stored with the given credentials.
func (s *Store) SaveCredentials(token, userJSON string, remember bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Credentials{}).Error; err != nil {
			return err
		}
		return tx.Create(&Credentials{Token: token, UserJSON: userJSON, Remember: remember}).Error
	})
}

// ClearCredentials removes the persisted credentials.
func (s *Store) ClearCredentials() error {
	return s.db.Where("1 = 1").Delete(&Credentials{}).Error
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
