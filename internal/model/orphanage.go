package model

// Orphanage mirrors the 'orphanages' table. Needs is an ordered list of
// requested item names serialized into a JSON text column; it is always a
// non-nil slice in API responses (an orphanage with no needs serializes as
// []). UserID references the owning orphanage_admin user and is null for
// orphanages created without one.
type Orphanage struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Description *string  `json:"description"`
	Contact     string   `json:"contact"`
	Needs       []string `json:"needs"`
	ImageURL    *string  `json:"image_url"`
	Rating      float64  `json:"rating"`
	UserID      *uint64  `json:"user_id"`
}
