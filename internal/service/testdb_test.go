package service

import (
	"testing"

	"go-consign-pos/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory sqlite database with the full schema.
// MaxOpenConns is pinned to 1 so every query sees the same :memory: DB.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Partner{}, &model.ShopSession{}, &model.ConsignmentItem{},
		&model.BoxOrder{}, &model.BoxOrderItem{}, &model.ActivityLog{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		Email:    email,
		FullName: "Test Operator",
		IsActive: true,
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)
	return user
}
