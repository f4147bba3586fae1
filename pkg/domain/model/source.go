package model

import "time"

// SourceDocument is a raw help-center document handed to ingestion. The
// pipeline consumes already-fetched lists; pulling them from the ticketing
// vendor is outside this module.
type SourceDocument struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	BodyHTML  string    `json:"body"`
	AreaTag   string    `json:"area"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ticket is a pre-fetched support ticket used as source material for
// article generation.
type Ticket struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	Comments   string    `json:"comments"`
	AreaTag    string    `json:"area"`
	SubAreaTag string    `json:"sub_area"`
	CreatedAt  time.Time `json:"created_at"`
}
