package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
)

// Repository is an in-memory store for development and tests. Vector search
// is brute force over every stored node with the same dot-product distance
// the production store computes.
type Repository struct {
	node *nodeRepository
}

var _ interfaces.Repository = &Repository{}

func New() *Repository {
	return &Repository{
		node: &nodeRepository{
			nodes: make(map[string]*storedNode),
		},
	}
}

func (r *Repository) Node() interfaces.NodeRepository {
	return r.node
}

func (r *Repository) Close() error {
	return nil
}

type storedNode struct {
	area string
	node *model.ContentNode
}

type nodeRepository struct {
	mu    sync.RWMutex
	nodes map[string]*storedNode
}

func (r *nodeRepository) PutHierarchy(ctx context.Context, area string, nodes []*model.ContentNode) error {
	if area == "" {
		area = "default"
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range nodes {
		r.nodes[area+"/"+n.ID] = &storedNode{area: area, node: copyNode(n)}
	}
	return nil
}

func (r *nodeRepository) FindNearest(ctx context.Context, q interfaces.NodeQuery) ([]*model.SearchHit, error) {
	if !q.Field.IsValid() {
		return nil, goerr.New("invalid embedding field", goerr.V("field", q.Field))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	typeSet := make(map[types.NodeType]bool, len(q.Types))
	for _, t := range q.Types {
		typeSet[t] = true
	}
	parentSet := make(map[string]bool, len(q.ParentIDs))
	for _, p := range q.ParentIDs {
		parentSet[p] = true
	}

	var hits []*model.SearchHit
	for _, s := range r.nodes {
		n := s.node
		if len(typeSet) > 0 && !typeSet[n.Type] {
			continue
		}
		if len(parentSet) > 0 && !parentSet[n.ParentID] {
			continue
		}
		if !n.Searchable() {
			continue
		}

		distance := model.DotProduct(q.Vector, n.Embedding(q.Field))
		if q.Threshold > 0 && distance < q.Threshold {
			continue
		}
		hits = append(hits, &model.SearchHit{Node: copyNode(n), Distance: distance})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Distance > hits[j].Distance
	})
	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}
	return hits, nil
}

func (r *nodeRepository) GetByTitle(ctx context.Context, title string) ([]*model.ContentNode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var nodes []*model.ContentNode
	for _, s := range r.nodes {
		if s.node.SourceTitle == title {
			nodes = append(nodes, copyNode(s.node))
		}
	}
	return nodes, nil
}

func (r *nodeRepository) LatestTimestampByTitle(ctx context.Context, title string) (time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest time.Time
	for _, s := range r.nodes {
		if s.node.SourceTitle == title && s.node.CreatedAt.After(latest) {
			latest = s.node.CreatedAt
		}
	}
	return latest, nil
}

func (r *nodeRepository) DeleteByTitle(ctx context.Context, title string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for key, s := range r.nodes {
		if s.node.SourceTitle == title {
			delete(r.nodes, key)
			deleted++
		}
	}
	return deleted, nil
}

// copyNode deep-copies a node so callers cannot mutate stored state
func copyNode(n *model.ContentNode) *model.ContentNode {
	cp := *n
	cp.SemanticEmbedding = append([]float32(nil), n.SemanticEmbedding...)
	cp.RetrievalEmbedding = append([]float32(nil), n.RetrievalEmbedding...)
	cp.OriginIDs = append([]string(nil), n.OriginIDs...)
	return &cp
}
