package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"schoolapi/internal/database"
	"schoolapi/internal/model"
	"schoolapi/internal/repository"
)

// SchoolSQL is a database/sql implementation of repository.SchoolRepository.
// Queries are written with $N placeholders and rebound for the dialect.
type SchoolSQL struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSchoolSQL creates a new SchoolSQL repository.
func NewSchoolSQL(db *sql.DB, dialect database.Dialect) *SchoolSQL {
	return &SchoolSQL{db: db, dialect: dialect}
}

var _ repository.SchoolRepository = (*SchoolSQL)(nil)

// List returns every row of the schools table. No ORDER BY: rows come back in store order.
func (r *SchoolSQL) List(ctx context.Context) ([]model.School, error) {
	const q = `SELECT id, name FROM schools`

	items := make([]model.School, 0)
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, q)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var s model.School
			if err := rows.Scan(&s.ID, &s.Name); err != nil {
				return err
			}
			items = append(items, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return items, nil
}

// FindByID fetches a single school by primary key.
func (r *SchoolSQL) FindByID(ctx context.Context, id int64) (*model.School, error) {
	const q = `SELECT id, name FROM schools WHERE id = $1`

	var s model.School
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, r.dialect.Rebind(q), id).Scan(&s.ID, &s.Name)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get school %d: %w", id, err)
	}
	return &s, nil
}

// Create inserts a row and reads back the highest id within the same transaction.
func (r *SchoolSQL) Create(ctx context.Context, in model.CreateSchool) (*model.School, error) {
	const (
		qInsert = `INSERT INTO schools (name) VALUES ($1)`
		qLatest = `SELECT id, name FROM schools ORDER BY id DESC LIMIT 1`
	)

	var s model.School
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.dialect.Rebind(qInsert), in.Name); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, qLatest).Scan(&s.ID, &s.Name)
	})
	if err != nil {
		return nil, fmt.Errorf("create school: %w", err)
	}
	return &s, nil
}

// Delete removes every row matching id and returns the number of rows removed.
func (r *SchoolSQL) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM schools WHERE id = $1`

	var n int64
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, r.dialect.Rebind(q), id)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("delete school %d: %w", id, err)
	}
	return n, nil
}

// inTx runs fn in a transaction, committing on success and rolling back on any error.
func (r *SchoolSQL) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
