package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/GabyPng/Happ/internal/logging"
)

// AddIndexes adds the composite indexes the listing queries rely on.
// Single column indexes are declared on the models.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns []string
	}{
		// Active memories of a garden ordered by event date
		{"memories", "idx_memories_garden_active_event", []string{"garden_id", "is_active", "event_date"}},

		// Gardens owned by a user ordered by last access
		{"gardens", "idx_gardens_owner_accessed", []string{"owner_id", "last_accessed_at"}},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			logging.Debug().Str("index", idx.name).Msg("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logging.Info().Str("index", idx.name).Str("table", idx.table).Msg("Created index")
	}

	return nil
}
