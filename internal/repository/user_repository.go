package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hopenest/hopenest-api/internal/model"
)

// UserRepo encapsulates all database queries related to users.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the provided DB handle.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// DB exposes the underlying pool so the signup handler can run the
// user + orphanage inserts inside a single transaction.
func (r *UserRepo) DB() *sql.DB { return r.db }

// EmailTaken reports whether a user with the given email already exists.
func (r *UserRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM users WHERE email = ? LIMIT 1", email).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateTx inserts a user within the caller's transaction and returns the
// generated id. A duplicate-key failure on users.email is reported as
// ErrEmailExists so concurrent signups that slip past the EmailTaken
// pre-check still surface as a conflict.
func (r *UserRepo) CreateTx(ctx context.Context, tx *sql.Tx, u *model.User) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, password, role, dob, gender) VALUES (?,?,?,?,?)",
		u.Email, u.Password, u.Role, u.DOB, u.Gender)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	return u.ID, nil
}

// GetByCredentials fetches the user matching both email and password.
// The password comparison is exact string equality performed by the
// database, matching the legacy plaintext scheme. Returns sql.ErrNoRows
// when the pair does not match any row.
func (r *UserRepo) GetByCredentials(ctx context.Context, email, password string) (model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, password, role, dob, gender FROM users WHERE email = ? AND password = ? LIMIT 1",
		email, password).Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.DOB, &u.Gender)
	return u, err
}

// GetProfile fetches the public profile fields of a user by id.
func (r *UserRepo) GetProfile(ctx context.Context, id uint64) (email, role string, err error) {
	err = r.db.QueryRowContext(ctx,
		"SELECT email, role FROM users WHERE id = ?", id).Scan(&email, &role)
	if err == sql.ErrNoRows {
		return "", "", ErrNotFound
	}
	return email, role, err
}

// ListAll returns every user row.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, email, password, role, dob, gender FROM users")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.DOB, &u.Gender); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a user unless it is a super admin. The protection lives in
// the query predicate itself, so deleting a super admin matches zero rows and
// reads as ErrNotFound rather than a distinct forbidden error.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM users WHERE id = ? AND role != 'super_admin'", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
