package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/omarhassan900/wattar-academy/academy"
	"github.com/omarhassan900/wattar-academy/models"
)

func openMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestMigrateSeedsSchema(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, Migrate(db))

	var sessions int64
	require.NoError(t, db.Model(&models.Session{}).Count(&sessions).Error)
	assert.Equal(t, int64(len(academy.Levels)*academy.SessionsPerLevel), sessions)

	for _, level := range academy.Levels {
		var n int64
		require.NoError(t, db.Model(&models.Session{}).
			Where("level = ?", level).Count(&n).Error)
		assert.Equal(t, int64(academy.SessionsPerLevel), n, level)
	}

	// 9 expense + 10 income codes in the seed list
	var categories int64
	require.NoError(t, db.Model(&models.CashCategory{}).Count(&categories).Error)
	assert.Equal(t, int64(19), categories)

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.Equal(t, "manager", admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")))
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var sessions int64
	require.NoError(t, db.Model(&models.Session{}).Count(&sessions).Error)
	assert.Equal(t, int64(len(academy.Levels)*academy.SessionsPerLevel), sessions)

	var admins int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "admin").Count(&admins).Error)
	assert.Equal(t, int64(1), admins)

	var applied int64
	require.NoError(t, db.Model(&schemaMigration{}).Count(&applied).Error)
	assert.Equal(t, int64(len(migrations)), applied)
}
