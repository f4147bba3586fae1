package types

import "fmt"

// NodeType identifies the hierarchy level of a stored content node and
// whether it originates from a help-center document or a generated article.
type NodeType string

const (
	NodeTypeFullDoc        NodeType = "full_doc"
	NodeTypeDocSection     NodeType = "doc_section"
	NodeTypeDocChunk       NodeType = "doc_chunk"
	NodeTypeFullArticle    NodeType = "full_article"
	NodeTypeArticleSection NodeType = "article_section"
	NodeTypeArticleChunk   NodeType = "article_chunk"
)

// AllNodeTypes returns all valid node types
func AllNodeTypes() []NodeType {
	return []NodeType{
		NodeTypeFullDoc,
		NodeTypeDocSection,
		NodeTypeDocChunk,
		NodeTypeFullArticle,
		NodeTypeArticleSection,
		NodeTypeArticleChunk,
	}
}

// SectionTypes returns the node types that represent a section, regardless
// of origin. Used as the stage-1 filter of the hierarchical search.
func SectionTypes() []NodeType {
	return []NodeType{NodeTypeDocSection, NodeTypeArticleSection}
}

// ChunkTypes returns the node types that represent a fine-grained chunk.
// Used as the stage-2 filter of the hierarchical search.
func ChunkTypes() []NodeType {
	return []NodeType{NodeTypeDocChunk, NodeTypeArticleChunk}
}

// IsValid checks if the node type is valid
func (t NodeType) IsValid() bool {
	switch t {
	case NodeTypeFullDoc,
		NodeTypeDocSection,
		NodeTypeDocChunk,
		NodeTypeFullArticle,
		NodeTypeArticleSection,
		NodeTypeArticleChunk:
		return true
	default:
		return false
	}
}

// IsSection reports whether the node type is a section level node
func (t NodeType) IsSection() bool {
	return t == NodeTypeDocSection || t == NodeTypeArticleSection
}

// IsChunk reports whether the node type is a chunk level node
func (t NodeType) IsChunk() bool {
	return t == NodeTypeDocChunk || t == NodeTypeArticleChunk
}

// String returns the string representation of the node type
func (t NodeType) String() string {
	return string(t)
}

// ParseNodeType parses a string into a NodeType
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid node type: %s", s)
	}
	return t, nil
}
