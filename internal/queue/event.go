// Package queue defines message payloads exchanged over the message broker.
package queue

// DonationRecordedEvent is published when a donation has been committed to
// the database. It carries enough information for downstream consumers to
// log, notify the orphanage, or feed analytics without querying the primary
// database.
type DonationRecordedEvent struct {
	DonationID  uint64  `json:"donation_id"`
	OrphanageID uint64  `json:"orphanage_id"`
	DonorID     uint64  `json:"donor_id"`
	Total       float64 `json:"total"`
	Status      string  `json:"status"`
	RecordedAt  string  `json:"recorded_at"`
}
