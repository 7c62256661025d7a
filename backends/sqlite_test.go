package backends

import (
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TykTechnologies/asana-mock/asana"
)

func newMockedSQLite(t *testing.T) (*SQLiteBackend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS documents").WillReturnResult(sqlmock.NewResult(0, 0))
	s := &SQLiteBackend{}
	require.NoError(t, s.SetDB(db))
	return s, mock
}

func TestSQLiteSetKey(t *testing.T) {
	s, mock := newMockedSQLite(t)

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(asana.KindTask, "1", `{"gid":"1","thing":"x"}`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.SetKey(asana.KindTask, "1", aStruct{GID: "1", Thing: "x"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteGetKey(t *testing.T) {
	s, mock := newMockedSQLite(t)
	query := regexp.QuoteMeta("SELECT value FROM documents WHERE kind = ? AND key = ?")

	mock.ExpectQuery(query).
		WithArgs(asana.KindTask, "1").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"gid":"1","thing":"x"}`))
	mock.ExpectQuery(query).
		WithArgs(asana.KindTask, "2").
		WillReturnError(sql.ErrNoRows)

	var got aStruct
	require.NoError(t, s.GetKey(asana.KindTask, "1", &got))
	assert.Equal(t, "x", got.Thing)
	assert.ErrorIs(t, s.GetKey(asana.KindTask, "2", &got), asana.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteGetAll(t *testing.T) {
	s, mock := newMockedSQLite(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM documents WHERE kind = ? ORDER BY key")).
		WithArgs(asana.KindTag).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).
			AddRow(`{"gid":"1"}`).
			AddRow(`{"gid":"2"}`))
	mock.ExpectQuery("SELECT value FROM documents").
		WithArgs(asana.KindStory).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	var tags []aStruct
	require.NoError(t, s.GetAll(asana.KindTag, &tags))
	assert.Equal(t, []aStruct{{GID: "1"}, {GID: "2"}}, tags)

	var stories []aStruct
	require.NoError(t, s.GetAll(asana.KindStory, &stories))
	assert.NotNil(t, stories)
	assert.Empty(t, stories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteDeleteKey(t *testing.T) {
	s, mock := newMockedSQLite(t)

	mock.ExpectExec("DELETE FROM documents").
		WithArgs(asana.KindTask, "1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM documents").
		WithArgs(asana.KindTask, "2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.DeleteKey(asana.KindTask, "1"))
	assert.ErrorIs(t, s.DeleteKey(asana.KindTask, "2"), asana.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteInitNeedsPath(t *testing.T) {
	s := &SQLiteBackend{}
	assert.Error(t, s.Init(SQLiteConfig{}))
}

func TestSQLiteFile(t *testing.T) {
	s := &SQLiteBackend{}
	require.NoError(t, s.Init(SQLiteConfig{Path: t.TempDir() + "/store.db"}))
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.SetKey(asana.KindTask, "1", aStruct{GID: "1", Thing: "a"}))
	require.NoError(t, s.SetKey(asana.KindTask, "1", aStruct{GID: "1", Thing: "b"}))

	var got aStruct
	require.NoError(t, s.GetKey(asana.KindTask, "1", &got))
	assert.Equal(t, "b", got.Thing)

	var all []aStruct
	require.NoError(t, s.GetAll(asana.KindTask, &all))
	assert.Len(t, all, 1)
}
