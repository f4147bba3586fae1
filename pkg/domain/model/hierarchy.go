package model

import (
	"time"

	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
)

// DocumentHierarchy is the in-memory three-level decomposition of one
// document: the whole document, its sections, and each section's chunks.
// It is produced by the hierarchy builder and persisted as a flat list of
// content nodes in a single atomic batch.
type DocumentHierarchy struct {
	DocumentID string
	Title      string
	Kind       types.DocumentKind
	FullText   string

	SemanticEmbedding  []float32
	RetrievalEmbedding []float32

	AreaTag    string
	SubAreaTag string
	OriginIDs  []string

	Sections []SectionNode
}

// SectionNode is one heading-delimited section of a document
type SectionNode struct {
	Title string
	Text  string
	Index int

	SemanticEmbedding  []float32
	RetrievalEmbedding []float32

	Chunks []ChunkNode
}

// ChunkNode is one fixed-size overlapping split of a section's text
type ChunkNode struct {
	Text  string
	Index int

	SemanticEmbedding  []float32
	RetrievalEmbedding []float32
}

// Nodes flattens the hierarchy into the content nodes to persist. Node ids
// are deterministic so a re-ingestion of the same document id overwrites
// the previous nodes.
func (h *DocumentHierarchy) Nodes(now time.Time) []*ContentNode {
	nodes := make([]*ContentNode, 0, 1+len(h.Sections)*4)

	nodes = append(nodes, &ContentNode{
		ID:                 RootNodeID(h.DocumentID),
		DocumentID:         h.DocumentID,
		Type:               h.Kind.RootNodeType(),
		Text:               h.FullText,
		SemanticEmbedding:  h.SemanticEmbedding,
		RetrievalEmbedding: h.RetrievalEmbedding,
		SourceTitle:        h.Title,
		AreaTag:            h.AreaTag,
		SubAreaTag:         h.SubAreaTag,
		OriginIDs:          h.OriginIDs,
		CreatedAt:          now,
	})

	for _, section := range h.Sections {
		sectionID := SectionNodeID(h.DocumentID, section.Index)
		nodes = append(nodes, &ContentNode{
			ID:                 sectionID,
			DocumentID:         h.DocumentID,
			Type:               h.Kind.SectionNodeType(),
			Text:               section.Text,
			Index:              section.Index,
			SemanticEmbedding:  section.SemanticEmbedding,
			RetrievalEmbedding: section.RetrievalEmbedding,
			SourceTitle:        h.Title,
			AreaTag:            h.AreaTag,
			SubAreaTag:         h.SubAreaTag,
			OriginIDs:          h.OriginIDs,
			CreatedAt:          now,
		})

		for _, chunk := range section.Chunks {
			nodes = append(nodes, &ContentNode{
				ID:                 ChunkNodeID(h.DocumentID, section.Index, chunk.Index),
				DocumentID:         h.DocumentID,
				Type:               h.Kind.ChunkNodeType(),
				Text:               chunk.Text,
				Index:              chunk.Index,
				SemanticEmbedding:  chunk.SemanticEmbedding,
				RetrievalEmbedding: chunk.RetrievalEmbedding,
				ParentID:           sectionID,
				SourceTitle:        h.Title,
				AreaTag:            h.AreaTag,
				SubAreaTag:         h.SubAreaTag,
				OriginIDs:          h.OriginIDs,
				CreatedAt:          now,
			})
		}
	}

	return nodes
}
