package source

import (
	"context"
	"encoding/json"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/safe"
)

// FileSource reads pre-fetched help-center documents from a JSON file: an
// array of documents as exported by the fetch tooling.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// ListDocuments loads and decodes the document export
func (s *FileSource) ListDocuments(ctx context.Context) ([]*model.SourceDocument, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open document export", goerr.V("path", s.path))
	}
	defer safe.Close(ctx, f)

	var docs []*model.SourceDocument
	if err := json.NewDecoder(f).Decode(&docs); err != nil {
		return nil, goerr.Wrap(err, "failed to decode document export", goerr.V("path", s.path))
	}
	return docs, nil
}

// LoadTickets reads a pre-fetched ticket export from a JSON file
func LoadTickets(ctx context.Context, path string) ([]*model.Ticket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open ticket export", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	var tickets []*model.Ticket
	if err := json.NewDecoder(f).Decode(&tickets); err != nil {
		return nil, goerr.Wrap(err, "failed to decode ticket export", goerr.V("path", path))
	}
	return tickets, nil
}
