package engine

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLEngineQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"Id", "Name"}).
		AddRow("W1", "gear").
		AddRow("W2", "sprocket")
	mock.ExpectQuery("SELECT Id, Name FROM Widget").WillReturnRows(rows)

	eng := NewSQLEngine(db)
	records, err := eng.Query(context.Background(), "SELECT Id, Name FROM Widget WHERE Id IN ('W1','W2') ORDER BY Name ASC")
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "W1", records[0]["Id"])
	assert.Equal(t, "gear", records[0]["Name"])
	assert.Equal(t, "sprocket", records[1]["Name"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLEngineQueryEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"Id"}))

	eng := NewSQLEngine(db)
	records, err := eng.Query(context.Background(), "SELECT Id FROM Widget WHERE Id IN ('W9') ORDER BY Id ASC")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSQLEngineNormalizesBytes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"Name"}).AddRow([]byte("gear"))
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	eng := NewSQLEngine(db)
	records, err := eng.Query(context.Background(), "SELECT Name FROM Widget WHERE Id IN ('W1') ORDER BY Name ASC")
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "gear", records[0]["Name"])
}

func TestSQLEngineQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))

	eng := NewSQLEngine(db)
	_, err = eng.Query(context.Background(), "SELECT Id FROM Widget WHERE Id IN ('W1') ORDER BY Id ASC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestConvertDBError(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{"unique violation", "23505", ErrUniqueViolation},
		{"foreign key violation", "23503", ErrForeignKeyViolation},
		{"check violation", "23514", ErrCheckViolation},
		{"not null violation", "23502", ErrNotNullViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ConvertDBError(&pgconn.PgError{Code: tt.code})
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestConvertDBErrorPassthrough(t *testing.T) {
	assert.Nil(t, ConvertDBError(nil))

	plain := errors.New("something else")
	assert.Equal(t, plain, ConvertDBError(plain))

	unknownPg := &pgconn.PgError{Code: "42601"}
	assert.Equal(t, error(unknownPg), ConvertDBError(unknownPg))
}
