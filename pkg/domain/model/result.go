package model

import "github.com/mnemo-lab/mnemosyne/pkg/domain/types"

// SearchHit pairs a node with its distance as returned by the store's
// nearest-neighbor query.
type SearchHit struct {
	Node     *ContentNode
	Distance float64
}

// RetrievalResult is the caller-facing shape of one search match. It is
// ephemeral and never persisted.
type RetrievalResult struct {
	NodeID      string
	Type        types.NodeType
	Distance    float64
	Text        string
	ParentID    string
	SourceTitle string
	AreaTag     string
}

// SearchResponse is the outcome of a retrieval. TicketIDs and DocumentIDs
// aggregate the distinct origin identifiers referenced by the matched
// nodes; they are populated in flat mode only.
type SearchResponse struct {
	Results     []RetrievalResult
	TicketIDs   []string
	DocumentIDs []string
}

// ResultFromHit converts a store hit into a retrieval result
func ResultFromHit(hit *SearchHit) RetrievalResult {
	return RetrievalResult{
		NodeID:      hit.Node.ID,
		Type:        hit.Node.Type,
		Distance:    hit.Distance,
		Text:        hit.Node.Text,
		ParentID:    hit.Node.ParentID,
		SourceTitle: hit.Node.SourceTitle,
		AreaTag:     hit.Node.AreaTag,
	}
}
