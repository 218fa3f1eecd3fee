package beans

import (
	"sync"

	"github.com/xraph/beans/internal/errors"
	"github.com/xraph/beans/pkg/logger"
	"github.com/xraph/beans/pkg/metrics"
)

// SingletonStore caches fully built singleton instances by canonical name and
// guarantees at-most-once construction per name: the first requester builds,
// concurrent requesters block on the per-name creation lock and then observe
// the cached instance.
type SingletonStore struct {
	singletons map[string]interface{}
	names      []string
	early      map[string]interface{}
	inCreation map[string]struct{}
	locks      map[string]*sync.Mutex

	logger  logger.Logger
	metrics metrics.Metrics
	mu      sync.RWMutex
}

// NewSingletonStore creates an empty store.
func NewSingletonStore(log logger.Logger, mtr metrics.Metrics) *SingletonStore {
	if mtr == nil {
		mtr = metrics.NewNoop()
	}
	return &SingletonStore{
		singletons: make(map[string]interface{}),
		early:      make(map[string]interface{}),
		inCreation: make(map[string]struct{}),
		locks:      make(map[string]*sync.Mutex),
		logger:     log,
		metrics:    mtr,
	}
}

// Register stores an externally created singleton under name. Fails if an
// instance is already cached for name.
func (s *SingletonStore) Register(name string, instance interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.singletons[name]; exists {
		return errors.ErrDuplicateRegistration(name)
	}
	s.singletons[name] = instance
	s.names = append(s.names, name)
	return nil
}

// Get returns the cached instance for name, if present.
func (s *SingletonStore) Get(name string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	instance, ok := s.singletons[name]
	return instance, ok
}

// Contains reports whether an instance is cached for name.
func (s *SingletonStore) Contains(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Names returns the cached singleton names in registration order.
func (s *SingletonStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Count returns the number of cached singletons.
func (s *SingletonStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.singletons)
}

// IsInCreation reports whether a construction for name is currently underway
// on any goroutine.
func (s *SingletonStore) IsInCreation(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.inCreation[name]
	return ok
}

// ExposeEarly publishes a partial handle for a singleton currently being
// created, allowing a setter-style circular reference back to it to resolve.
// Explicit opt-in by the construction strategy.
func (s *SingletonStore) ExposeEarly(name string, instance interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, creating := s.inCreation[name]; creating {
		s.early[name] = instance
	}
}

// GetOrCreate returns the singleton for name, building it through factory on
// first request. The build runs under the per-name creation lock. Re-entering
// a name already on the caller's creation stack is a circular reference: it
// resolves to the early handle when one was exposed (and allowEarly is set),
// and fails otherwise. A factory failure leaves no partial cache entry and
// clears the in-creation marker, so a later request can retry.
func (s *SingletonStore) GetOrCreate(name string, stack *creationStack, allowEarly bool, factory ObjectFactory) (interface{}, error) {
	if instance, ok := s.Get(name); ok {
		return instance, nil
	}

	if stack.contains(name) {
		if allowEarly {
			s.mu.RLock()
			early, ok := s.early[name]
			s.mu.RUnlock()
			if ok {
				return early, nil
			}
		}
		return nil, errors.ErrCircularReference(stack.cyclePath(name))
	}

	lock := s.creationLock(name)
	lock.Lock()
	defer lock.Unlock()

	// A concurrent requester may have finished the build while we waited.
	if instance, ok := s.Get(name); ok {
		return instance, nil
	}

	s.beginCreation(name)
	stack.push(name)
	instance, err := factory()
	stack.pop()
	s.endCreation(name)

	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.singletons[name] = instance
	s.names = append(s.names, name)
	s.mu.Unlock()

	s.metrics.Counter("beans.singletons_created").Inc()
	if s.logger != nil {
		s.logger.Debug("singleton created", logger.String("bean", name))
	}

	return instance, nil
}

// CreatePrototype builds a fresh instance through factory, never caching it.
// The name is marked in-creation for the duration of the build only, so a
// nested self-reference within one prototype build is still detected.
func (s *SingletonStore) CreatePrototype(name string, stack *creationStack, factory ObjectFactory) (interface{}, error) {
	if stack.contains(name) {
		return nil, errors.ErrCircularReference(stack.cyclePath(name))
	}

	s.beginPrototypeCreation(name)
	stack.push(name)
	instance, err := factory()
	stack.pop()
	s.endPrototypeCreation(name)

	if err != nil {
		return nil, err
	}

	s.metrics.Counter("beans.prototypes_created").Inc()
	return instance, nil
}

// Remove evicts the cached singleton for name, returning it if present.
func (s *SingletonStore) Remove(name string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	instance, ok := s.singletons[name]
	if !ok {
		return nil, false
	}
	delete(s.singletons, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return instance, true
}

// Clear drops every cached singleton and all transient creation state.
func (s *SingletonStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.singletons = make(map[string]interface{})
	s.early = make(map[string]interface{})
	s.inCreation = make(map[string]struct{})
	s.names = nil
}

func (s *SingletonStore) creationLock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[name] = lock
	}
	return lock
}

func (s *SingletonStore) beginCreation(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inCreation[name] = struct{}{}
}

func (s *SingletonStore) endCreation(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inCreation, name)
	delete(s.early, name)
}

// Prototype creation markers are per-build and share the in-creation map for
// introspection; the creation stack carries the actual reentrancy state.
func (s *SingletonStore) beginPrototypeCreation(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inCreation[name] = struct{}{}
}

func (s *SingletonStore) endPrototypeCreation(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inCreation, name)
}
