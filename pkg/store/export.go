package store

import (
	"time"

	"ai-bizquery-be/pkg/export"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ExportStore keeps generated export artifacts in memory so they can be
// downloaded by id shortly after a question was answered.
type ExportStore struct {
	cache *cache.Cache
}

func NewExportStore() *ExportStore {
	// Artifacts expire after 15 minutes; expired entries are purged
	// every 5 minutes
	c := cache.New(15*time.Minute, 5*time.Minute)
	return &ExportStore{
		cache: c,
	}
}

func (s *ExportStore) Put(artifact *export.Artifact) string {
	id := uuid.New().String()
	s.cache.Set(id, artifact, cache.DefaultExpiration)
	return id
}

func (s *ExportStore) Get(id string) (*export.Artifact, bool) {
	if x, found := s.cache.Get(id); found {
		return x.(*export.Artifact), true
	}
	return nil, false
}

func (s *ExportStore) Delete(id string) {
	s.cache.Delete(id)
}
