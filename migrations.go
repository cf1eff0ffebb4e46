package backoffice

import (
	"context"
	"fmt"

	"github.com/MelodiApp/melodia-backoffice-sub000/catalog"
	"github.com/uptrace/bun"
)

// RunMigrations creates the catalog tables when they do not exist yet. Hosts
// that manage schema themselves can skip this and point the module at an
// already migrated database.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*catalog.Song)(nil),
		(*catalog.Collection)(nil),
		(*catalog.StateChangeEvent)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("backoffice: create table for %T: %w", model, err)
		}
	}
	return nil
}
