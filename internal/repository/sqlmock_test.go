package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/pm-assistant-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewGormStore(db), mock
}

func TestGormMember_FindByID_EmptyResultIsNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := store.Members.FindByID(context.Background(), models.NewID())
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTask_FindByID_PropagatesStoreFailure(t *testing.T) {
	store, mock := newMockStore(t)
	storeErr := errors.New("connection reset by peer")
	mock.ExpectQuery("SELECT").WillReturnError(storeErr)

	_, err := store.Tasks.FindByID(context.Background(), models.NewID())
	require.ErrorIs(t, err, storeErr)
	require.NotErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTimeLog_List_PropagatesCountFailure(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT count").WillReturnError(errors.New("too many connections"))

	_, _, err := store.TimeLogs.List(context.Background(), TimeLogFilter{TaskID: models.NewID()})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTask_DeleteRollsBackOnFailure(t *testing.T) {
	store, mock := newMockStore(t)
	taskID := models.NewID()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("DELETE FROM `time_logs`").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := store.Tasks.Delete(context.Background(), taskID)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
