package tokens

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethanbaker/lawcus-relay/pkg/tokens"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLStore keeps the token pair in a single MySQL row
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore opens a MySQL connection and migrates the token table
func NewSQLStore(databaseURL string) (*SQLStore, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return NewSQLStoreFromDB(db)
}

// NewSQLStoreFromDB wraps an existing gorm connection
func NewSQLStoreFromDB(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&TokenModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Load reads the token row
func (s *SQLStore) Load(ctx context.Context) (*tokens.Pair, error) {
	var model TokenModel
	result := s.db.WithContext(ctx).First(&model, recordID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, tokens.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tokens: %w", result.Error)
	}

	return &tokens.Pair{
		AccessToken:  model.AccessToken,
		RefreshToken: model.RefreshToken,
	}, nil
}

// Save upserts both columns of the token row in one statement
func (s *SQLStore) Save(ctx context.Context, pair tokens.Pair) error {
	model := &TokenModel{
		ID:           recordID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "updated_at"}),
	}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save tokens: %w", result.Error)
	}

	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.Close()
}
