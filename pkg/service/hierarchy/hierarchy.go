package hierarchy

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
	"github.com/mnemo-lab/mnemosyne/pkg/service/segment"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

const defaultChunkConcurrency = 4

// Input is one document to decompose and embed
type Input struct {
	DocumentID string
	Title      string
	BodyHTML   string
	Kind       types.DocumentKind

	AreaTag    string
	SubAreaTag string
	OriginIDs  []string

	// Pre-computed whole-document embeddings, reused instead of a fresh
	// provider call when both are present. Article generation supplies
	// these since it already embedded the article body.
	SemanticEmbedding  []float32
	RetrievalEmbedding []float32
}

// Builder decomposes a document into the three-level hierarchy and embeds
// every level. It has no persistence side effect; the caller stores the
// result.
type Builder struct {
	embedder         interfaces.Embedder
	chunkSize        int
	chunkOverlap     int
	chunkConcurrency int
}

type Option func(*Builder)

// WithChunkSplit overrides the chunk size and overlap
func WithChunkSplit(size, overlap int) Option {
	return func(b *Builder) {
		b.chunkSize = size
		b.chunkOverlap = overlap
	}
}

// WithChunkConcurrency bounds parallel chunk embeddings within a section
func WithChunkConcurrency(n int) Option {
	return func(b *Builder) {
		b.chunkConcurrency = n
	}
}

func New(embedder interfaces.Embedder, opts ...Option) *Builder {
	b := &Builder{
		embedder:         embedder,
		chunkSize:        segment.DefaultChunkSize,
		chunkOverlap:     segment.DefaultChunkOverlap,
		chunkConcurrency: defaultChunkConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build segments the document, embeds every level and returns the
// hierarchy. A section whose embedding fails is skipped with a warning so
// one bad section does not lose the document; chunks behave the same within
// their section. Section indexes stay contiguous over the kept sections.
func (b *Builder) Build(ctx context.Context, input *Input) (*model.DocumentHierarchy, error) {
	logger := logging.From(ctx)

	segs, err := segment.Segment(input.Title, input.BodyHTML)
	if err != nil {
		return nil, err
	}
	if segs.FullText == "" {
		return nil, goerr.New("document rendered empty",
			goerr.V("documentID", input.DocumentID), goerr.V("title", input.Title))
	}

	h := &model.DocumentHierarchy{
		DocumentID:         input.DocumentID,
		Title:              input.Title,
		Kind:               input.Kind,
		FullText:           segs.FullText,
		AreaTag:            input.AreaTag,
		SubAreaTag:         input.SubAreaTag,
		OriginIDs:          input.OriginIDs,
		SemanticEmbedding:  input.SemanticEmbedding,
		RetrievalEmbedding: input.RetrievalEmbedding,
	}

	if len(h.SemanticEmbedding) == 0 || len(h.RetrievalEmbedding) == 0 {
		if h.SemanticEmbedding, err = b.embedder.Embed(ctx, segs.FullText, types.TaskSemanticSimilarity); err != nil {
			return nil, goerr.Wrap(err, "failed to embed full document",
				goerr.V("documentID", input.DocumentID))
		}
		if h.RetrievalEmbedding, err = b.embedder.Embed(ctx, segs.FullText, types.TaskRetrievalDocument); err != nil {
			return nil, goerr.Wrap(err, "failed to embed full document",
				goerr.V("documentID", input.DocumentID))
		}
	}

	for _, seg := range segs.Sections {
		section, err := b.buildSection(ctx, seg)
		if err != nil {
			logger.Warn("skipping section, embedding failed",
				"documentID", input.DocumentID,
				"section", seg.Title,
				"error", err)
			continue
		}
		section.Index = len(h.Sections)
		h.Sections = append(h.Sections, *section)
	}

	return h, nil
}

func (b *Builder) buildSection(ctx context.Context, seg segment.Section) (*model.SectionNode, error) {
	semantic, err := b.embedder.Embed(ctx, seg.Text, types.TaskSemanticSimilarity)
	if err != nil {
		return nil, err
	}
	retrieval, err := b.embedder.Embed(ctx, seg.Text, types.TaskRetrievalDocument)
	if err != nil {
		return nil, err
	}

	section := &model.SectionNode{
		Title:              seg.Title,
		Text:               seg.Text,
		SemanticEmbedding:  semantic,
		RetrievalEmbedding: retrieval,
	}

	texts := segment.SplitChunks(seg.Text, b.chunkSize, b.chunkOverlap)
	chunks := make([]*model.ChunkNode, len(texts))

	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(b.chunkConcurrency)

	for i, text := range texts {
		eg.Go(func() error {
			cSemantic, err := b.embedder.Embed(ctx, text, types.TaskSemanticSimilarity)
			if err != nil {
				logging.From(ctx).Warn("skipping chunk, embedding failed",
					"section", seg.Title, "chunk", i, "error", err)
				return nil
			}
			cRetrieval, err := b.embedder.Embed(ctx, text, types.TaskRetrievalDocument)
			if err != nil {
				logging.From(ctx).Warn("skipping chunk, embedding failed",
					"section", seg.Title, "chunk", i, "error", err)
				return nil
			}

			mu.Lock()
			chunks[i] = &model.ChunkNode{
				Text:               text,
				SemanticEmbedding:  cSemantic,
				RetrievalEmbedding: cRetrieval,
			}
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, c := range chunks {
		if c == nil {
			continue
		}
		c.Index = len(section.Chunks)
		section.Chunks = append(section.Chunks, *c)
	}

	return section, nil
}
