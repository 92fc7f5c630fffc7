package database

import (
	"fmt"

	"github.com/yukikurage/pm-assistant-api/internal/logging"
	"gorm.io/gorm"
)

// AddIndexes adds composite indexes the struct tags cannot express.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Active task lookups filter by project and status together
		{"tasks", "idx_tasks_project_status", "project_id, status"},
		{"tasks", "idx_tasks_due_date", "due_date"},

		{"time_logs", "idx_time_logs_task_member", "task_id, member_id"},
		{"time_logs", "idx_time_logs_log_date", "log_date"},

		{"task_dependencies", "idx_task_dependencies_task", "task_id"},
		{"project_members", "idx_project_members_project", "project_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			logging.Logger.Debugf("Index %s already exists, skipping", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logging.Logger.Infof("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
