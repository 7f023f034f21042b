package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/daleyoon76/saas-idea-generator/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Idea{},
		&types.Plan{},
		&types.PRD{},
	)
}

// EnsureIdeaIndexes re-asserts the indexes resolve-or-create and history
// paging rely on, for databases migrated before the struct tags carried them.
func EnsureIdeaIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ux_idea_owner_local_keyword
		ON "idea" (user_id, local_id, keyword);
	`).Error; err != nil {
		return fmt.Errorf("create ux_idea_owner_local_keyword: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_plan_idea_id ON "plan" (idea_id);`).Error; err != nil {
		return fmt.Errorf("create idx_plan_idea_id: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_prd_idea_id ON "prd" (idea_id);`).Error; err != nil {
		return fmt.Errorf("create idx_prd_idea_id: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureIdeaIndexes(s.db); err != nil {
		s.log.Error("Index migration failed", "error", err)
		return err
	}
	return nil
}
