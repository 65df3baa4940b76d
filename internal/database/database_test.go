package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/GabyPng/Happ/internal/config"
	"github.com/GabyPng/Happ/internal/models"
	"github.com/GabyPng/Happ/internal/utils"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		d, err := Dialector(driver, "dsn")
		require.NoError(t, err)
		require.Equal(t, driver, d.Name())
	}

	_, err := Dialector("oracle", "dsn")
	require.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:       "sqlite",
		DBDSN:          "file::memory:",
		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,
		GinMode:        "test",
	}

	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db))
	// idempotent
	require.NoError(t, Migrate(db))

	m := db.Migrator()
	for _, table := range []interface{}{&models.User{}, &models.Garden{}, &models.GardenMember{}, &models.Memory{}} {
		require.True(t, m.HasTable(table))
	}
	require.True(t, m.HasIndex("memories", "idx_memories_garden_active_event"))
	require.True(t, m.HasIndex("gardens", "idx_gardens_owner_accessed"))

	require.NoError(t, Ping(context.Background(), db))
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(&config.Config{DBDriver: "oracle"})
	require.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestScopes(t *testing.T) {
	d, err := Dialector("sqlite", "file::memory:")
	require.NoError(t, err)
	db, err := Open(d, logger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, Migrate(db))

	garden := models.Garden{OwnerID: 1, Name: "g", AccessCode: "ABCD1234", Theme: models.NewGardenTheme(models.ThemeRosado)}
	require.NoError(t, db.Create(&garden).Error)

	payload, err := models.EncodePayload(models.TextPayload{Content: "hola"})
	require.NoError(t, err)
	for i, active := range []bool{true, false, true, true} {
		m := models.Memory{
			GardenID:  garden.ID,
			Type:      models.MemoryTypeText,
			Title:     "m",
			IsActive:  active,
			EventDate: time.Date(2024, time.March, 1+i, 0, 0, 0, 0, time.UTC),
			Payload:   payload,
		}
		require.NoError(t, db.Create(&m).Error)
	}

	var page []models.Memory
	err = db.Scopes(ActiveMemories, ByEventDateDesc, Paginate(utils.PaginationParams{Page: 1, Limit: 2, Offset: 0})).
		Find(&page).Error
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.True(t, page[0].EventDate.After(page[1].EventDate))
	for _, m := range page {
		require.True(t, m.IsActive)
	}
}
