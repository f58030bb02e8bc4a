package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/hopenest/hopenest-api/internal/model"
)

const orphanageColumns = "id, name, location, description, contact, needs, image_url, rating, user_id"

// OrphanageRepo encapsulates all database queries related to orphanages.
type OrphanageRepo struct {
	db *sql.DB
}

// NewOrphanageRepo constructs an OrphanageRepo with the provided DB handle.
func NewOrphanageRepo(db *sql.DB) *OrphanageRepo { return &OrphanageRepo{db: db} }

// SearchByLocation returns all orphanages whose location contains the given
// term, case-insensitively. An empty result is a valid response, never an
// error.
func (r *OrphanageRepo) SearchByLocation(ctx context.Context, location string) ([]model.Orphanage, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+orphanageColumns+" FROM orphanages WHERE LOWER(location) LIKE LOWER(?)",
		"%"+location+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Orphanage, 0)
	for rows.Next() {
		o, err := scanOrphanage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new orphanage and returns its generated id. A nil Needs
// slice is stored as an empty JSON array and the rating always starts at 0.
func (r *OrphanageRepo) Create(ctx context.Context, o *model.Orphanage) (uint64, error) {
	needs, err := marshalNeeds(o.Needs)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO orphanages (name, location, description, contact, needs, image_url, rating, user_id) VALUES (?,?,?,?,?,?,?,?)",
		o.Name, o.Location, o.Description, o.Contact, needs, o.ImageURL, 0, o.UserID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	o.ID = uint64(id)
	return o.ID, nil
}

// CreateForAdminTx inserts the blank orphanage that accompanies an
// orphanage_admin signup, within the caller's transaction. Only the name is
// taken from the request; the contact defaults to the admin's email, the
// needs list starts empty and the remaining fields stay blank.
func (r *OrphanageRepo) CreateForAdminTx(ctx context.Context, tx *sql.Tx, name, email string, userID uint64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO orphanages (name, location, description, contact, needs, image_url, rating, user_id) VALUES (?,?,?,?,?,?,?,?)",
		name, "", "", email, "[]", nil, 0, userID)
	return err
}

// GetByAdmin fetches the orphanage owned by the given admin user. When an
// admin somehow owns several rows, only the first is returned. Returns
// ErrNotFound when the admin owns none.
func (r *OrphanageRepo) GetByAdmin(ctx context.Context, adminID uint64) (model.Orphanage, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+orphanageColumns+" FROM orphanages WHERE user_id = ? LIMIT 1", adminID)
	o, err := scanOrphanage(row)
	if err == sql.ErrNoRows {
		return model.Orphanage{}, ErrNotFound
	}
	return o, err
}

// Update replaces the editable fields of an orphanage. The rating and owning
// user are never touched here. Returns ErrNotFound when the id matches no
// row.
func (r *OrphanageRepo) Update(ctx context.Context, id uint64, o *model.Orphanage) error {
	needs, err := marshalNeeds(o.Needs)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE orphanages SET name = ?, location = ?, description = ?, contact = ?, needs = ?, image_url = ? WHERE id = ?",
		o.Name, o.Location, o.Description, o.Contact, needs, o.ImageURL, id)
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

// rowScanner lets scanOrphanage work for both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrphanage(row rowScanner) (model.Orphanage, error) {
	var (
		o        model.Orphanage
		needsRaw sql.NullString
	)
	if err := row.Scan(&o.ID, &o.Name, &o.Location, &o.Description, &o.Contact,
		&needsRaw, &o.ImageURL, &o.Rating, &o.UserID); err != nil {
		return model.Orphanage{}, err
	}
	if needsRaw.Valid && needsRaw.String != "" {
		if err := json.Unmarshal([]byte(needsRaw.String), &o.Needs); err != nil {
			return model.Orphanage{}, err
		}
	}
	if o.Needs == nil {
		o.Needs = []string{}
	}
	return o, nil
}

func marshalNeeds(needs []string) (string, error) {
	if needs == nil {
		needs = []string{}
	}
	b, err := json.Marshal(needs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
