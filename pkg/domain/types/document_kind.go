package types

import "fmt"

// DocumentKind distinguishes the two ingestion sources: help-center
// documents and generated knowledge base articles. The kind decides which
// node types the hierarchy is stored under.
type DocumentKind string

const (
	KindDocument DocumentKind = "doc"
	KindArticle  DocumentKind = "article"
)

// IsValid checks if the document kind is valid
func (k DocumentKind) IsValid() bool {
	return k == KindDocument || k == KindArticle
}

// String returns the string representation of the document kind
func (k DocumentKind) String() string {
	return string(k)
}

// RootNodeType returns the node type of the whole-document node for this kind
func (k DocumentKind) RootNodeType() NodeType {
	if k == KindArticle {
		return NodeTypeFullArticle
	}
	return NodeTypeFullDoc
}

// SectionNodeType returns the node type of section nodes for this kind
func (k DocumentKind) SectionNodeType() NodeType {
	if k == KindArticle {
		return NodeTypeArticleSection
	}
	return NodeTypeDocSection
}

// ChunkNodeType returns the node type of chunk nodes for this kind
func (k DocumentKind) ChunkNodeType() NodeType {
	if k == KindArticle {
		return NodeTypeArticleChunk
	}
	return NodeTypeDocChunk
}

// ParseDocumentKind parses a string into a DocumentKind
func ParseDocumentKind(s string) (DocumentKind, error) {
	k := DocumentKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid document kind: %s", s)
	}
	return k, nil
}
