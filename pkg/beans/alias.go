package beans

import (
	"sort"
	"sync"

	"github.com/xraph/beans/internal/errors"
)

// AliasRegistry maps alternate names to canonical bean names. Aliases are
// flattened at registration time: an alias never points at another alias, so
// resolution is a single map lookup.
type AliasRegistry struct {
	aliases map[string]string
	mu      sync.RWMutex
}

// NewAliasRegistry creates an empty alias registry.
func NewAliasRegistry() *AliasRegistry {
	return &AliasRegistry{aliases: make(map[string]string)}
}

// RegisterAlias registers alias for name. Registering the same pair again is
// a no-op; registering an alias already bound to a different canonical name
// fails. An alias equal to its own target is rejected.
func (r *AliasRegistry) RegisterAlias(name, alias string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if alias == name {
		return errors.ErrAliasCycle(name, alias)
	}

	// Flatten: if name is itself an alias, bind to its canonical target.
	canonical := name
	if target, ok := r.aliases[name]; ok {
		canonical = target
	}
	if canonical == alias {
		return errors.ErrAliasCycle(name, alias)
	}

	if existing, ok := r.aliases[alias]; ok {
		if existing == canonical {
			return nil
		}
		return errors.ErrDuplicateAlias(alias, existing, canonical)
	}

	r.aliases[alias] = canonical
	return nil
}

// RemoveAlias removes alias, failing if it is unknown.
func (r *AliasRegistry) RemoveAlias(alias string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.aliases[alias]; !ok {
		return errors.ErrAliasNotFound(alias)
	}
	delete(r.aliases, alias)
	return nil
}

// IsAlias reports whether name is registered as an alias.
func (r *AliasRegistry) IsAlias(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.aliases[name]
	return ok
}

// Resolve returns the canonical name for name: the name itself when it is not
// an alias, else the alias target. O(1), no chains persist.
func (r *AliasRegistry) Resolve(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if canonical, ok := r.aliases[name]; ok {
		return canonical
	}
	return name
}

// AliasesOf returns every alias resolving to name, sorted for stable output.
func (r *AliasRegistry) AliasesOf(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var aliases []string
	for alias, canonical := range r.aliases {
		if canonical == name {
			aliases = append(aliases, alias)
		}
	}
	sort.Strings(aliases)
	return aliases
}
