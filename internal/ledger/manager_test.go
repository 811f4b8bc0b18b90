package ledger

import (
	"testing"

	"packer-backend/internal/apperr"
	"packer-backend/internal/database"
	"packer-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.LedgerConfig{}))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func TestSaveConfig(t *testing.T) {
	t.Run("creates then updates single row", func(t *testing.T) {
		db := setupLedgerTestDB(t)
		a := connectedAdapter(t, &fakeClient{})

		require.NoError(t, SaveConfig(42, a))
		a.Disconnect()
		require.NoError(t, SaveConfig(42, a))

		// Повторное сохранение перезаписывает ту же строку
		var count int64
		require.NoError(t, db.Model(&models.LedgerConfig{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)

		var cfg models.LedgerConfig
		require.NoError(t, db.Where("user_id = ?", uint(42)).First(&cfg).Error)
		assert.False(t, cfg.Enabled)
		assert.Equal(t, "Склад", cfg.SheetName)
		require.NotNil(t, cfg.SpreadsheetID)
		assert.Equal(t, "sheet-1", *cfg.SpreadsheetID)
	})

	t.Run("read failure surfaces as IO", func(t *testing.T) {
		db := setupLedgerTestDB(t)
		a := connectedAdapter(t, &fakeClient{})

		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		err = SaveConfig(42, a)
		assert.Equal(t, apperr.CodeIO, apperr.CodeOf(err))
	})
}
