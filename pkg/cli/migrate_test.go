package cli

import (
	"testing"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
)

func TestIndexConfigCoversNodeQueries(t *testing.T) {
	cfg := getIndexConfig("")
	gt.Array(t, cfg.Collections).Length(1)
	gt.Value(t, cfg.Collections[0].Name).Equal("nodes")

	indexes := cfg.Collections[0].Indexes
	gt.Array(t, indexes).Length(6)

	// node queries run over the collection group, which plain
	// collection-scope indexes cannot serve
	for _, idx := range indexes {
		gt.Value(t, idx.QueryScope).Equal(fireconf.QueryScopeCollectionGroup)
	}

	// flat search runs FindNearest without any filter, so each embedding
	// field needs a standalone vector index
	for _, field := range []string{"semanticEmbedding", "retrievalEmbedding"} {
		found := false
		for _, idx := range indexes {
			if len(idx.Fields) != 1 || idx.Fields[0].Path != field {
				continue
			}
			gt.Value(t, idx.Fields[0].Vector).NotNil()
			gt.Number(t, idx.Fields[0].Vector.Dimension).Equal(model.EmbeddingDimension)
			found = true
		}
		gt.Bool(t, found).True()
	}
}

func TestIndexConfigHonorsCollectionPrefix(t *testing.T) {
	cfg := getIndexConfig("staging")
	gt.Value(t, cfg.Collections[0].Name).Equal("staging_nodes")
}
