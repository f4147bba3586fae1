package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// distanceField is where FindNearest writes the computed distance back into
// each result document.
const distanceField = "vector_distance"

// nodeDoc is the Firestore document representation of model.ContentNode.
// Embeddings are stored as firestore.Vector32 so that FindNearest vector
// search works. The embedding field names are the wire names the search
// queries reference via types.EmbeddingField.
type nodeDoc struct {
	ID                 string             `firestore:"ID"`
	DocumentID         string             `firestore:"DocumentID"`
	Type               string             `firestore:"Type"`
	Text               string             `firestore:"Text"`
	Index              int                `firestore:"Index"`
	SemanticEmbedding  firestore.Vector32 `firestore:"semanticEmbedding,omitempty"`
	RetrievalEmbedding firestore.Vector32 `firestore:"retrievalEmbedding,omitempty"`
	ParentID           string             `firestore:"ParentID"`
	SourceTitle        string             `firestore:"SourceTitle"`
	AreaTag            string             `firestore:"AreaTag"`
	SubAreaTag         string             `firestore:"SubAreaTag"`
	OriginIDs          []string           `firestore:"OriginIDs,omitempty"`
	CreatedAt          time.Time          `firestore:"CreatedAt"`

	// Distance is only populated on vector search reads
	Distance float64 `firestore:"vector_distance,omitempty"`
}

func toNodeDoc(n *model.ContentNode) *nodeDoc {
	doc := &nodeDoc{
		ID:          n.ID,
		DocumentID:  n.DocumentID,
		Type:        n.Type.String(),
		Text:        n.Text,
		Index:       n.Index,
		ParentID:    n.ParentID,
		SourceTitle: n.SourceTitle,
		AreaTag:     n.AreaTag,
		SubAreaTag:  n.SubAreaTag,
		OriginIDs:   n.OriginIDs,
		CreatedAt:   n.CreatedAt,
	}
	if len(n.SemanticEmbedding) > 0 {
		doc.SemanticEmbedding = firestore.Vector32(n.SemanticEmbedding)
	}
	if len(n.RetrievalEmbedding) > 0 {
		doc.RetrievalEmbedding = firestore.Vector32(n.RetrievalEmbedding)
	}
	return doc
}

func fromNodeDoc(d *nodeDoc) *model.ContentNode {
	n := &model.ContentNode{
		ID:          d.ID,
		DocumentID:  d.DocumentID,
		Type:        types.NodeType(d.Type),
		Text:        d.Text,
		Index:       d.Index,
		ParentID:    d.ParentID,
		SourceTitle: d.SourceTitle,
		AreaTag:     d.AreaTag,
		SubAreaTag:  d.SubAreaTag,
		OriginIDs:   d.OriginIDs,
		CreatedAt:   d.CreatedAt,
	}
	if len(d.SemanticEmbedding) > 0 {
		n.SemanticEmbedding = []float32(d.SemanticEmbedding)
	}
	if len(d.RetrievalEmbedding) > 0 {
		n.RetrievalEmbedding = []float32(d.RetrievalEmbedding)
	}
	return n
}

func docToNode(doc *firestore.DocumentSnapshot) (*model.ContentNode, float64, error) {
	var d nodeDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, 0, err
	}
	return fromNodeDoc(&d), d.Distance, nil
}

type nodeRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newNodeRepository(client *firestore.Client) *nodeRepository {
	return &nodeRepository{
		client: client,
	}
}

func (r *nodeRepository) areasCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_areas"
	}
	return "areas"
}

// nodesCollectionID is both the subcollection name under an area and the
// collection-group id the search queries target.
func (r *nodeRepository) nodesCollectionID() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_nodes"
	}
	return "nodes"
}

func (r *nodeRepository) nodesCollection(area string) *firestore.CollectionRef {
	return r.client.Collection(r.areasCollection()).Doc(area).Collection(r.nodesCollectionID())
}

// PutHierarchy writes every node of one document in a single transaction.
// Node ids are deterministic, so re-ingesting a document overwrites its
// previous nodes in place.
func (r *nodeRepository) PutHierarchy(ctx context.Context, area string, nodes []*model.ContentNode) error {
	if len(nodes) == 0 {
		return nil
	}
	if area == "" {
		area = "default"
	}

	coll := r.nodesCollection(area)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, n := range nodes {
			if err := tx.Set(coll.Doc(n.ID), toNodeDoc(n)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(model.ErrStoreWriteFailed, "failed to commit document hierarchy",
			goerr.V("area", area), goerr.V("nodes", len(nodes)), goerr.V("cause", err.Error()))
	}
	return nil
}

// FindNearest runs a nearest-neighbor query over the node collection group.
// Dot product over unit-norm vectors makes larger distances more similar,
// so the threshold is a lower bound.
func (r *nodeRepository) FindNearest(ctx context.Context, q interfaces.NodeQuery) ([]*model.SearchHit, error) {
	if !q.Field.IsValid() {
		return nil, goerr.New("invalid embedding field", goerr.V("field", q.Field))
	}

	query := r.client.CollectionGroup(r.nodesCollectionID()).Query
	if len(q.Types) > 0 {
		typeNames := make([]string, len(q.Types))
		for i, t := range q.Types {
			typeNames[i] = t.String()
		}
		query = query.Where("Type", "in", typeNames)
	}
	if len(q.ParentIDs) > 0 {
		query = query.Where("ParentID", "in", q.ParentIDs)
	}

	opts := &firestore.FindNearestOptions{
		DistanceResultField: distanceField,
	}
	if q.Threshold > 0 {
		threshold := q.Threshold
		opts.DistanceThreshold = &threshold
	}

	vq := query.FindNearest(q.Field.String(), firestore.Vector32(q.Vector), q.Limit,
		firestore.DistanceMeasureDotProduct, opts)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	hits := make([]*model.SearchHit, 0, q.Limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			if status.Code(err) == codes.FailedPrecondition {
				return nil, goerr.Wrap(err, "vector search needs an index, run the migrate command",
					goerr.V("field", q.Field.String()))
			}
			return nil, goerr.Wrap(err, "failed to iterate vector search results")
		}

		node, distance, err := docToNode(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal node from vector search")
		}
		hits = append(hits, &model.SearchHit{Node: node, Distance: distance})
	}

	return hits, nil
}

// GetByTitle returns every node whose source title matches exactly
func (r *nodeRepository) GetByTitle(ctx context.Context, title string) ([]*model.ContentNode, error) {
	iter := r.client.CollectionGroup(r.nodesCollectionID()).
		Where("SourceTitle", "==", title).
		Documents(ctx)
	defer iter.Stop()

	var nodes []*model.ContentNode
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to query nodes by title", goerr.V("title", title))
		}

		node, _, err := docToNode(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal node", goerr.V("title", title))
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// LatestTimestampByTitle reports the newest ingestion time among a title's
// nodes, or the zero time when the title is absent.
func (r *nodeRepository) LatestTimestampByTitle(ctx context.Context, title string) (time.Time, error) {
	nodes, err := r.GetByTitle(ctx, title)
	if err != nil {
		return time.Time{}, err
	}

	var latest time.Time
	for _, n := range nodes {
		if n.CreatedAt.After(latest) {
			latest = n.CreatedAt
		}
	}
	return latest, nil
}

// DeleteByTitle removes every node sharing the title across all areas
func (r *nodeRepository) DeleteByTitle(ctx context.Context, title string) (int, error) {
	iter := r.client.CollectionGroup(r.nodesCollectionID()).
		Where("SourceTitle", "==", title).
		Documents(ctx)
	defer iter.Stop()

	var refs []*firestore.DocumentRef
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, goerr.Wrap(err, "failed to query nodes for deletion", goerr.V("title", title))
		}
		refs = append(refs, doc.Ref)
	}
	if len(refs) == 0 {
		return 0, nil
	}

	bw := r.client.BulkWriter(ctx)
	for _, ref := range refs {
		if _, err := bw.Delete(ref); err != nil {
			bw.End()
			return 0, goerr.Wrap(err, "failed to enqueue node deletion", goerr.V("title", title))
		}
	}
	bw.End()

	return len(refs), nil
}
