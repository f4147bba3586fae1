package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
)

func TestNodeTypeIsValid(t *testing.T) {
	for _, nt := range types.AllNodeTypes() {
		gt.Bool(t, nt.IsValid()).True()
	}
	gt.Bool(t, types.NodeType("paragraph").IsValid()).False()
	gt.Bool(t, types.NodeType("").IsValid()).False()
}

func TestNodeTypeLevels(t *testing.T) {
	gt.Bool(t, types.NodeTypeDocSection.IsSection()).True()
	gt.Bool(t, types.NodeTypeArticleSection.IsSection()).True()
	gt.Bool(t, types.NodeTypeDocChunk.IsSection()).False()

	gt.Bool(t, types.NodeTypeDocChunk.IsChunk()).True()
	gt.Bool(t, types.NodeTypeArticleChunk.IsChunk()).True()
	gt.Bool(t, types.NodeTypeFullDoc.IsChunk()).False()
}

func TestSectionAndChunkTypes(t *testing.T) {
	for _, nt := range types.SectionTypes() {
		gt.Bool(t, nt.IsSection()).True()
	}
	for _, nt := range types.ChunkTypes() {
		gt.Bool(t, nt.IsChunk()).True()
	}
}

func TestParseNodeType(t *testing.T) {
	nt, err := types.ParseNodeType("doc_chunk")
	gt.NoError(t, err)
	gt.Value(t, nt).Equal(types.NodeTypeDocChunk)

	_, err = types.ParseNodeType("chunk")
	gt.Error(t, err)
}

func TestDocumentKindNodeTypes(t *testing.T) {
	gt.Value(t, types.KindDocument.RootNodeType()).Equal(types.NodeTypeFullDoc)
	gt.Value(t, types.KindDocument.SectionNodeType()).Equal(types.NodeTypeDocSection)
	gt.Value(t, types.KindDocument.ChunkNodeType()).Equal(types.NodeTypeDocChunk)

	gt.Value(t, types.KindArticle.RootNodeType()).Equal(types.NodeTypeFullArticle)
	gt.Value(t, types.KindArticle.SectionNodeType()).Equal(types.NodeTypeArticleSection)
	gt.Value(t, types.KindArticle.ChunkNodeType()).Equal(types.NodeTypeArticleChunk)
}
