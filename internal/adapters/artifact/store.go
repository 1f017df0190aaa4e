package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// Extension is appended to the artifact name to form its file name.
const Extension = ".json"

// Store reads artifacts from a directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store { return &Store{dir: dir} }

// Dir returns the artifact directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file an artifact is read from.
func (s *Store) Path(name string) string { return filepath.Join(s.dir, name+Extension) }

// Load reads and validates the named artifact. A missing file returns
// ErrArtifactNotFound; any decode or contract problem returns
// ErrMalformedArtifact.
func (s *Store) Load(ctx context.Context, name string) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	raw, err := os.ReadFile(s.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, name)
		}
		return nil, fmt.Errorf("read artifact %s: %w", name, err)
	}

	a := &Artifact{}
	if err := json.Unmarshal(raw, a); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedArtifact, name, err)
	}
	if a.Name == "" {
		a.Name = name
	}
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return a, nil
}
