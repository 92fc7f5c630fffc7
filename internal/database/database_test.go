package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/pm-assistant-api/internal/config"
	"github.com/yukikurage/pm-assistant-api/internal/models"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "pm.db"),
		LogLevel:   "warn",
	}
	require.NoError(t, Connect(cfg))
	t.Cleanup(func() {
		sqlDB, err := GetDB().DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return GetDB()
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "members", "projects", "project_members", "tasks", "task_assignments", "task_dependencies", "time_logs"} {
		require.True(t, db.Migrator().HasTable(table), table)
	}
	require.True(t, db.Migrator().HasIndex("tasks", "idx_tasks_project_status"))

	// Second run must skip existing indexes
	require.NoError(t, Migrate(db))
}

func TestPaginate(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.Member{
			ID:    models.NewID(),
			Name:  "m",
			Email: models.NewID() + "@example.com",
			Role:  "dev",
		}).Error)
	}

	var page []models.Member
	require.NoError(t, db.Scopes(Paginate(2, 2)).Find(&page).Error)
	require.Len(t, page, 2)

	var all []models.Member
	require.NoError(t, db.Scopes(Paginate(0, 2)).Find(&all).Error)
	require.Len(t, all, 5)
}

func TestDialector_RejectsMongo(t *testing.T) {
	_, err := Dialector(&config.Config{DBDriver: config.DriverMongo})
	require.Error(t, err)
}
