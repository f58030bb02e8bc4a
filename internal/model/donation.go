package model

import "encoding/json"

// Donation mirrors the 'donations' table. Items is the donor's cart: an
// ordered JSON array of structured entries whose shape is owned by the
// frontend, so it is kept as raw JSON end to end and only its ordering is
// guaranteed. Status is a free-text label; no state machine is enforced.
// DonorEmail is populated only by the listing that joins the users table.
type Donation struct {
	ID          uint64          `json:"id"`
	OrphanageID uint64          `json:"orphanage_id"`
	DonorID     uint64          `json:"donor_id"`
	Items       json.RawMessage `json:"items"`
	Total       float64         `json:"total"`
	Status      string          `json:"status"`
	DonorEmail  string          `json:"donor_email,omitempty"`
}
