package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolapi/internal/database"
	"schoolapi/internal/model"
	"schoolapi/internal/repository"
	"schoolapi/internal/testutil"
)

func newSQLiteRepo(t *testing.T) *SchoolSQL {
	db := testutil.NewTestDatabase(t)
	return NewSchoolSQL(db.DB, db.Dialect)
}

func TestSchoolSQL_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSchoolSQL(db, database.DialectPostgres)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, name FROM schools").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
				AddRow(1, "Saint Schoolson").
				AddRow(2, "SchoolHill School"))
		mock.ExpectCommit()

		res, err := repo.List(ctx)

		assert.NoError(t, err)
		assert.Len(t, res, 2)
		assert.Equal(t, "Saint Schoolson", res[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, name FROM schools").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
		mock.ExpectCommit()

		res, err := repo.List(ctx)

		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, name FROM schools").WillReturnError(errors.New("disk I/O error"))
		mock.ExpectRollback()

		res, err := repo.List(ctx)

		assert.Error(t, err)
		assert.Nil(t, res)
		assert.Equal(t, repository.KindStorageFailure, repository.Kind(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin error", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		_, err := repo.List(ctx)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "begin transaction: connection refused")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSchoolSQL_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSchoolSQL(db, database.DialectPostgres)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, name FROM schools WHERE id = \\$1").
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "SchoolHill School"))
		mock.ExpectCommit()

		school, err := repo.FindByID(ctx, 2)

		assert.NoError(t, err)
		require.NotNil(t, school)
		assert.Equal(t, model.School{ID: 2, Name: "SchoolHill School"}, *school)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, name FROM schools WHERE id = \\$1").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
		mock.ExpectRollback()

		school, err := repo.FindByID(ctx, 99)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Equal(t, repository.KindNotFound, repository.Kind(err))
		assert.Nil(t, school)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("storage error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, name FROM schools WHERE id = \\$1").
			WithArgs(int64(3)).
			WillReturnError(errors.New("database is locked"))
		mock.ExpectRollback()

		_, err := repo.FindByID(ctx, 3)

		assert.Error(t, err)
		assert.Equal(t, repository.KindStorageFailure, repository.Kind(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSchoolSQL_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSchoolSQL(db, database.DialectPostgres)
	ctx := context.Background()

	t.Run("insert and read back in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO schools \\(name\\) VALUES \\(\\$1\\)").
			WithArgs("Newbie High").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery("SELECT id, name FROM schools ORDER BY id DESC LIMIT 1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Newbie High"))
		mock.ExpectCommit()

		school, err := repo.Create(ctx, model.CreateSchool{Name: "Newbie High"})

		assert.NoError(t, err)
		require.NotNil(t, school)
		assert.Equal(t, int64(1), school.ID)
		assert.Equal(t, "Newbie High", school.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert error rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO schools").
			WithArgs("Newbie High").
			WillReturnError(errors.New("NOT NULL constraint failed"))
		mock.ExpectRollback()

		school, err := repo.Create(ctx, model.CreateSchool{Name: "Newbie High"})

		assert.Error(t, err)
		assert.Nil(t, school)
		assert.Contains(t, err.Error(), "create school")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO schools").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery("SELECT id, name FROM schools ORDER BY id DESC LIMIT 1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Newbie High"))
		mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

		_, err := repo.Create(ctx, model.CreateSchool{Name: "Newbie High"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "commit transaction: commit failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSchoolSQL_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSchoolSQL(db, database.DialectPostgres)
	ctx := context.Background()

	t.Run("existing row", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM schools WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		n, err := repo.Delete(ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is not an error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM schools WHERE id = \\$1").
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		n, err := repo.Delete(ctx, 42)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM schools").WillReturnError(errors.New("readonly database"))
		mock.ExpectRollback()

		n, err := repo.Delete(ctx, 1)

		assert.Error(t, err)
		assert.Equal(t, int64(0), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSchoolSQL_SQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("insert assigns increasing ids", func(t *testing.T) {
		repo := newSQLiteRepo(t)

		first, err := repo.Create(ctx, model.CreateSchool{Name: "Saint Schoolson"})
		require.NoError(t, err)
		second, err := repo.Create(ctx, model.CreateSchool{Name: "SchoolHill School"})
		require.NoError(t, err)

		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, "Saint Schoolson", first.Name)
		assert.Equal(t, int64(2), second.ID)
	})

	t.Run("list in insertion order", func(t *testing.T) {
		repo := newSQLiteRepo(t)

		empty, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, empty)

		_, err = repo.Create(ctx, model.CreateSchool{Name: "Saint Schoolson"})
		require.NoError(t, err)
		_, err = repo.Create(ctx, model.CreateSchool{Name: "SchoolHill School"})
		require.NoError(t, err)

		res, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, "Saint Schoolson", res[0].Name)
	})

	t.Run("get by id", func(t *testing.T) {
		repo := newSQLiteRepo(t)

		_, err := repo.Create(ctx, model.CreateSchool{Name: "Saint Schoolson"})
		require.NoError(t, err)
		_, err = repo.Create(ctx, model.CreateSchool{Name: "SchoolHill School"})
		require.NoError(t, err)

		res, err := repo.FindByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.ID)
		assert.Equal(t, "SchoolHill School", res.Name)

		_, err = repo.FindByID(ctx, 3)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newSQLiteRepo(t)

		_, err := repo.Create(ctx, model.CreateSchool{Name: "Saint Schoolson"})
		require.NoError(t, err)
		_, err = repo.Create(ctx, model.CreateSchool{Name: "Saint Schoolson"})
		require.NoError(t, err)

		n, err := repo.Delete(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		res, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, res, 1)
	})
}

func TestSchoolSQL_Properties(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("a created school reads back unchanged", prop.ForAll(
		func(name string) bool {
			created, err := repo.Create(ctx, model.CreateSchool{Name: name})
			if err != nil {
				return false
			}
			got, err := repo.FindByID(ctx, created.ID)
			if err != nil {
				return false
			}
			return *got == *created && created.Name == name
		},
		gen.Identifier(),
	))

	properties.Property("deleting twice removes one row then none", prop.ForAll(
		func(name string) bool {
			created, err := repo.Create(ctx, model.CreateSchool{Name: name})
			if err != nil {
				return false
			}
			first, err := repo.Delete(ctx, created.ID)
			if err != nil || first != 1 {
				return false
			}
			second, err := repo.Delete(ctx, created.ID)
			if err != nil || second != 0 {
				return false
			}
			_, err = repo.FindByID(ctx, created.ID)
			return errors.Is(err, repository.ErrNotFound)
		},
		gen.Identifier(),
	))

	properties.Property("ids are never reused", prop.ForAll(
		func(a, b string) bool {
			first, err := repo.Create(ctx, model.CreateSchool{Name: a})
			if err != nil {
				return false
			}
			if _, err := repo.Delete(ctx, first.ID); err != nil {
				return false
			}
			second, err := repo.Create(ctx, model.CreateSchool{Name: b})
			if err != nil {
				return false
			}
			return second.ID > first.ID
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
