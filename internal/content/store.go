package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	siteerrors "github.com/dailygoodnews/frontend/internal/errors"
)

// Source loads a collection as an ordered list of records.
type Source interface {
	Load(ctx context.Context, c Collection) ([]Article, error)
}

// FileStore reads collections straight from disk on every call.
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore rooted at the content directory.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Root returns the content directory.
func (s *FileStore) Root() string {
	return s.root
}

// Path returns the absolute-or-relative file path for a collection.
func (s *FileStore) Path(c Collection) string {
	return filepath.Join(s.root, c.RelPath())
}

// Load reads and parses the collection file.
// Missing files are NOT_FOUND; anything but a JSON array of objects is MALFORMED_CONTENT.
func (s *FileStore) Load(ctx context.Context, c Collection) ([]Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.Path(c)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, siteerrors.NewSourceNotFound(c.RelPath(), err)
		}
		return nil, siteerrors.NewInternal(fmt.Errorf("read %s: %w", path, err))
	}

	return Parse(c.RelPath(), data)
}

// Parse decodes a JSON array of objects. name is only used in error messages.
func Parse(name string, data []byte) ([]Article, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, siteerrors.NewMalformedContent(name, errors.New("top-level value is not an array"))
	}

	var articles []Article
	if err := json.Unmarshal(trimmed, &articles); err != nil {
		return nil, siteerrors.NewMalformedContent(name, err)
	}

	for i, a := range articles {
		// null elements decode to nil maps without error
		if a == nil {
			return nil, siteerrors.NewMalformedContent(name, fmt.Errorf("element %d is not an object", i))
		}
	}

	if articles == nil {
		articles = []Article{}
	}
	return articles, nil
}
