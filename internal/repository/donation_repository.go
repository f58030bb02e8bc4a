package repository

import (
	"context"
	"database/sql"

	"github.com/hopenest/hopenest-api/internal/model"
)

// DonationRepo encapsulates all database queries related to donations.
type DonationRepo struct {
	db *sql.DB
}

// NewDonationRepo constructs a DonationRepo with the provided DB handle.
func NewDonationRepo(db *sql.DB) *DonationRepo { return &DonationRepo{db: db} }

// Create inserts a new donation and returns its generated id. Items is
// stored as the raw JSON array submitted by the donor.
func (r *DonationRepo) Create(ctx context.Context, d *model.Donation) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO donations (orphanage_id, donor_id, items, total, status) VALUES (?,?,?,?,?)",
		d.OrphanageID, d.DonorID, string(d.Items), d.Total, d.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	d.ID = uint64(id)
	return d.ID, nil
}

// List returns donations joined with the donor's email, optionally filtered
// by orphanage. The filter value is passed through as given; a non-numeric
// value simply matches nothing.
func (r *DonationRepo) List(ctx context.Context, orphanageID string) ([]model.Donation, error) {
	query := "SELECT d.id, d.orphanage_id, d.donor_id, d.items, d.total, d.status, u.email AS donor_email" +
		" FROM donations d JOIN users u ON d.donor_id = u.id"
	args := []any{}
	if orphanageID != "" {
		query += " WHERE d.orphanage_id = ?"
		args = append(args, orphanageID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Donation, 0)
	for rows.Next() {
		var (
			d     model.Donation
			items sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.OrphanageID, &d.DonorID, &items, &d.Total, &d.Status, &d.DonorEmail); err != nil {
			return nil, err
		}
		d.Items = rawItems(items)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByDonor returns all donations made by one donor, without the join.
func (r *DonationRepo) ListByDonor(ctx context.Context, donorID uint64) ([]model.Donation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, orphanage_id, donor_id, items, total, status FROM donations WHERE donor_id = ?",
		donorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Donation, 0)
	for rows.Next() {
		var (
			d     model.Donation
			items sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.OrphanageID, &d.DonorID, &items, &d.Total, &d.Status); err != nil {
			return nil, err
		}
		d.Items = rawItems(items)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus sets only the status label of a donation. Returns ErrNotFound
// when the id matches no row.
func (r *DonationRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE donations SET status = ? WHERE id = ?", status, id)
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

// rawItems turns the stored items column into raw JSON, defaulting a NULL or
// empty column to an empty array so responses always carry a valid sequence.
func rawItems(items sql.NullString) []byte {
	if !items.Valid || items.String == "" {
		return []byte("[]")
	}
	return []byte(items.String)
}
