package beans

import (
	"sync"

	"github.com/xraph/beans/internal/errors"
	"github.com/xraph/beans/pkg/logger"
	"github.com/xraph/beans/pkg/metrics"
)

// DefaultMaxMergeDepth bounds parent-chain recursion during merging, so a
// pathological chain that evades the explicit cycle check still terminates.
const DefaultMaxMergeDepth = 100

// DefinitionRegistry owns the name-to-definition map and the alias table, and
// materializes merged (parent-resolved) views on demand, with memoization.
type DefinitionRegistry struct {
	definitions map[string]*BeanDefinition
	names       []string
	merged      map[string]*BeanDefinition
	aliases     *AliasRegistry

	allowOverriding bool
	maxMergeDepth   int
	frozen          bool

	logger  logger.Logger
	metrics metrics.Metrics
	mu      sync.RWMutex
}

// RegistryOptions configures a DefinitionRegistry.
type RegistryOptions struct {
	// AllowOverriding permits re-registering a name with a structurally
	// different definition.
	AllowOverriding bool
	// MaxMergeDepth bounds parent-chain recursion; zero means the default.
	MaxMergeDepth int
	Logger        logger.Logger
	Metrics       metrics.Metrics
}

// NewDefinitionRegistry creates an empty registry.
func NewDefinitionRegistry(opts RegistryOptions) *DefinitionRegistry {
	maxDepth := opts.MaxMergeDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxMergeDepth
	}
	mtr := opts.Metrics
	if mtr == nil {
		mtr = metrics.NewNoop()
	}
	return &DefinitionRegistry{
		definitions:     make(map[string]*BeanDefinition),
		merged:          make(map[string]*BeanDefinition),
		aliases:         NewAliasRegistry(),
		allowOverriding: opts.AllowOverriding,
		maxMergeDepth:   maxDepth,
		logger:          opts.Logger,
		metrics:         mtr,
	}
}

// Aliases exposes the registry's alias table.
func (r *DefinitionRegistry) Aliases() *AliasRegistry {
	return r.aliases
}

// Register stores a definition under name. Re-registering a structurally
// equal definition is a no-op; a different one fails unless overriding is
// allowed. Registration invalidates the cached merged view of name and of
// every definition whose parent chain reaches name.
func (r *DefinitionRegistry) Register(name string, def *BeanDefinition) error {
	if name == "" {
		return errors.New("bean name must not be empty")
	}
	if def == nil {
		return errors.New("bean definition must not be nil")
	}
	if err := def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errors.ErrContainerFrozen("register definition '" + name + "'")
	}

	existing, exists := r.definitions[name]
	if exists {
		if existing.Equal(def) {
			return nil
		}
		if !r.allowOverriding {
			return errors.ErrDuplicateRegistration(name)
		}
		if r.logger != nil {
			r.logger.Info("overriding bean definition",
				logger.String("bean", name),
				logger.String("previous", existing.String()),
				logger.String("replacement", def.String()),
			)
		}
	}

	r.definitions[name] = def
	if !exists {
		r.names = append(r.names, name)
	}
	r.invalidateMergedLocked(name)

	r.metrics.Counter("beans.definitions_registered").Inc()
	r.metrics.Gauge("beans.definition_count").Set(float64(len(r.definitions)))

	if r.logger != nil {
		r.logger.Debug("bean definition registered",
			logger.String("bean", name),
			logger.String("scope", def.Scope),
			logger.String("parent", def.ParentName),
			logger.Bool("abstract", def.Abstract),
		)
	}

	return nil
}

// Remove deletes the definition for name, failing if absent.
func (r *DefinitionRegistry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errors.ErrContainerFrozen("remove definition '" + name + "'")
	}

	if _, ok := r.definitions[name]; !ok {
		return errors.ErrDefinitionNotFound(name)
	}

	delete(r.definitions, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
	r.invalidateMergedLocked(name)

	r.metrics.Gauge("beans.definition_count").Set(float64(len(r.definitions)))

	if r.logger != nil {
		r.logger.Debug("bean definition removed", logger.String("bean", name))
	}
	return nil
}

// RegisterAlias registers alias for name through the alias table, honoring
// the freeze state. Merged views computed through the alias are invalidated:
// a definition may reference the alias as its parent.
func (r *DefinitionRegistry) RegisterAlias(name, alias string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errors.ErrContainerFrozen("register alias '" + alias + "'")
	}
	if err := r.aliases.RegisterAlias(name, alias); err != nil {
		return err
	}
	r.invalidateMergedLocked(alias)
	return nil
}

// RemoveAlias removes alias, honoring the freeze state and invalidating
// merged views computed through it.
func (r *DefinitionRegistry) RemoveAlias(alias string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errors.ErrContainerFrozen("remove alias '" + alias + "'")
	}
	if err := r.aliases.RemoveAlias(alias); err != nil {
		return err
	}
	r.invalidateMergedLocked(alias)
	return nil
}

// Contains reports whether a definition is registered under name, after
// alias resolution.
func (r *DefinitionRegistry) Contains(name string) bool {
	canonical := r.aliases.Resolve(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.definitions[canonical]
	return ok
}

// Definition returns the raw, unmerged definition for name.
func (r *DefinitionRegistry) Definition(name string) (*BeanDefinition, error) {
	canonical := r.aliases.Resolve(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[canonical]
	if !ok {
		return nil, errors.ErrDefinitionNotFound(canonical)
	}
	return def, nil
}

// Names returns the registered definition names in registration order.
func (r *DefinitionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Count returns the number of registered definitions.
func (r *DefinitionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.definitions)
}

// Merged returns the parent-resolved view of the definition for name. Views
// are computed lazily, memoized per canonical name, and returned as shared
// snapshots: callers must not mutate them.
func (r *DefinitionRegistry) Merged(name string) (*BeanDefinition, error) {
	canonical := r.aliases.Resolve(name)

	r.mu.RLock()
	if merged, ok := r.merged[canonical]; ok {
		r.mu.RUnlock()
		return merged, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another caller may have merged while we waited for the write lock.
	if merged, ok := r.merged[canonical]; ok {
		return merged, nil
	}
	return r.mergeLocked(canonical, nil, 0)
}

// IsAbstract reports whether the merged definition for name is abstract.
func (r *DefinitionRegistry) IsAbstract(name string) (bool, error) {
	merged, err := r.Merged(name)
	if err != nil {
		return false, err
	}
	return merged.Abstract, nil
}

// ClearMetadataCache drops every memoized merged view. Views are recreated
// lazily on the next request.
func (r *DefinitionRegistry) ClearMetadataCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.merged = make(map[string]*BeanDefinition)
}

// Freeze forbids further definition and alias mutation.
func (r *DefinitionRegistry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether the registry is frozen.
func (r *DefinitionRegistry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// mergeLocked recursively materializes the merged view for canonical. The
// visiting slice carries the parent chain walked so far for cycle reporting.
// Caller holds the write lock.
func (r *DefinitionRegistry) mergeLocked(canonical string, visiting []string, depth int) (*BeanDefinition, error) {
	if depth > r.maxMergeDepth {
		return nil, errors.ErrCyclicInheritance(append(visiting, canonical))
	}
	for _, seen := range visiting {
		if seen == canonical {
			return nil, errors.ErrCyclicInheritance(append(visiting, canonical))
		}
	}

	def, ok := r.definitions[canonical]
	if !ok {
		return nil, errors.ErrDefinitionNotFound(canonical)
	}

	var merged *BeanDefinition
	if def.ParentName == "" {
		// No parent: the merged view is a normalized copy, so later mutation
		// of the registered definition cannot corrupt the cache.
		merged = def.Clone()
	} else {
		parentCanonical := r.aliases.Resolve(def.ParentName)
		parentMerged, ok := r.merged[parentCanonical]
		if !ok {
			var err error
			parentMerged, err = r.mergeLocked(parentCanonical, append(visiting, canonical), depth+1)
			if err != nil {
				return nil, err
			}
		}
		merged = parentMerged.Clone()
		if err := merged.OverrideFrom(def); err != nil {
			return nil, err
		}
		merged.ParentName = ""
	}

	if merged.Scope == ScopeDefault {
		merged.Scope = ScopeSingleton
	}

	r.merged[canonical] = merged
	r.metrics.Gauge("beans.merged_cache_size").Set(float64(len(r.merged)))
	return merged, nil
}

// invalidateMergedLocked drops the cached merged view of name and of every
// definition whose parent chain transitively reaches name.
func (r *DefinitionRegistry) invalidateMergedLocked(name string) {
	delete(r.merged, name)
	for child := range r.merged {
		if r.parentChainReachesLocked(child, name) {
			delete(r.merged, child)
		}
	}
}

// parentChainReachesLocked walks parent links from a definition, matching
// target against both the raw parent name and its alias resolution, so a view
// merged through an alias is still reached after the alias table changed.
func (r *DefinitionRegistry) parentChainReachesLocked(from, target string) bool {
	current := from
	for depth := 0; depth <= r.maxMergeDepth; depth++ {
		def, ok := r.definitions[current]
		if !ok || def.ParentName == "" {
			return false
		}
		if def.ParentName == target {
			return true
		}
		parent := r.aliases.Resolve(def.ParentName)
		if parent == target {
			return true
		}
		current = parent
	}
	return false
}
