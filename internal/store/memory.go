package store

import (
	"fmt"
	"sync"

	"github.com/galymzhantore/teachload-api/internal/models"
)

// InstanceID is the store key convention for generated instances.
func InstanceID(size string, seed int64) string {
	return fmt.Sprintf("%s_%d", size, seed)
}

// ResultID is the store key convention for solver results.
func ResultID(instanceID, solver string) string {
	return fmt.Sprintf("%s_%s", instanceID, solver)
}

// MemoryStore keeps instances, results, and timetables in process-local
// maps. Nothing is persisted; values are immutable once stored.
type MemoryStore struct {
	mu         sync.RWMutex
	instances  map[string]*models.Instance
	results    map[string]*models.OptimizationResult
	timetables map[string]*models.Timetable

	// resultInstance remembers which instance produced a result so
	// timetabling and reporting can join the two.
	resultInstance map[string]string
}

// NewMemoryStore allocates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		instances:      make(map[string]*models.Instance),
		results:        make(map[string]*models.OptimizationResult),
		timetables:     make(map[string]*models.Timetable),
		resultInstance: make(map[string]string),
	}
}

// PutInstance stores an instance under its id.
func (s *MemoryStore) PutInstance(id string, instance *models.Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[id] = instance
}

// Instance returns the stored instance, if any.
func (s *MemoryStore) Instance(id string) (*models.Instance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	instance, ok := s.instances[id]
	return instance, ok
}

// InstanceIDs lists stored instance ids.
func (s *MemoryStore) InstanceIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.instances))
	for id := range s.instances {
		ids = append(ids, id)
	}
	return ids
}

// PutResult stores a result and its owning instance id.
func (s *MemoryStore) PutResult(id, instanceID string, result *models.OptimizationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[id] = result
	s.resultInstance[id] = instanceID
}

// Result returns the stored result and its instance id.
func (s *MemoryStore) Result(id string) (*models.OptimizationResult, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	if !ok {
		return nil, "", false
	}
	return result, s.resultInstance[id], true
}

// PutTimetable stores a timetable keyed by its result id. Regeneration
// overwrites the previous grid.
func (s *MemoryStore) PutTimetable(resultID string, timetable *models.Timetable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timetables[resultID] = timetable
}

// Timetable returns the stored timetable for a result, if any.
func (s *MemoryStore) Timetable(resultID string) (*models.Timetable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	timetable, ok := s.timetables[resultID]
	return timetable, ok
}
