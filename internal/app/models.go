package service

import (
	"context"

	"github.com/okian/medalcast/internal/adapters/artifact"
	"github.com/okian/medalcast/internal/adapters/cache"
	"github.com/okian/medalcast/internal/domain/model"
	"github.com/okian/medalcast/internal/domain/predictor"
)

// Artifact names, one per request type.
const (
	ArtifactCountry      = "country"
	ArtifactTopCountries = "top_countries"
	ArtifactAthlete      = "athlete"
)

// ArtifactNames lists every artifact the service may consult.
var ArtifactNames = []string{ArtifactCountry, ArtifactTopCountries, ArtifactAthlete} //nolint:gochecknoglobals // fixed list

// Models provides trained artifacts by name. Errors mean "absent".
type Models interface {
	Model(ctx context.Context, name string) (predictor.Model, error)
}

// statuser is implemented by artifacts that can describe themselves.
type statuser interface {
	Status() model.ModelStatus
}

// purger is implemented by providers that can drop loaded artifacts.
type purger interface {
	Purge()
}

// ArtifactModels loads artifacts from a Store through a load-once cache.
type ArtifactModels struct {
	store *artifact.Store
	cache *cache.Cache[string, *artifact.Artifact]
}

// NewArtifactModels wires a store and a cache together.
func NewArtifactModels(store *artifact.Store, c *cache.Cache[string, *artifact.Artifact]) *ArtifactModels {
	if c == nil {
		c = cache.New[string, *artifact.Artifact]()
	}
	return &ArtifactModels{store: store, cache: c}
}

// Model implements Models.
func (m *ArtifactModels) Model(ctx context.Context, name string) (predictor.Model, error) {
	a, err := m.cache.GetOrLoad(ctx, name, func(ctx context.Context) (*artifact.Artifact, error) {
		return m.store.Load(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Purge drops every cached artifact so the next request reads from disk.
func (m *ArtifactModels) Purge() { m.cache.Purge() }

// Cached returns the number of artifacts in memory.
func (m *ArtifactModels) Cached() int { return m.cache.Len() }
