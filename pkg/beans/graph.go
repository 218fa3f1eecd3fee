package beans

import (
	"sort"
	"sync"
)

// DependencyGraph records "dependent relies on dependency" edges discovered
// while beans are constructed. The edges order destruction only; construction
// ordering is driven by recursive resolution.
type DependencyGraph struct {
	dependencies map[string]map[string]struct{}
	dependents   map[string]map[string]struct{}
	mu           sync.RWMutex
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		dependencies: make(map[string]map[string]struct{}),
		dependents:   make(map[string]map[string]struct{}),
	}
}

// RegisterDependency adds the edge "dependent relies on dependency".
// Idempotent.
func (g *DependencyGraph) RegisterDependency(dependent, dependency string) {
	if dependent == dependency {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.dependencies[dependent] == nil {
		g.dependencies[dependent] = make(map[string]struct{})
	}
	g.dependencies[dependent][dependency] = struct{}{}

	if g.dependents[dependency] == nil {
		g.dependents[dependency] = make(map[string]struct{})
	}
	g.dependents[dependency][dependent] = struct{}{}
}

// DependenciesOf returns the names this bean relies on, sorted. Empty if none.
func (g *DependencyGraph) DependenciesOf(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.dependencies[name])
}

// DependentsOf returns the names relying on this bean, sorted. Empty if none.
func (g *DependencyGraph) DependentsOf(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.dependents[name])
}

// IsDependent reports whether dependent transitively relies on dependency.
func (g *DependencyGraph) IsDependent(dependent, dependency string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.isDependentLocked(dependent, dependency, make(map[string]struct{}))
}

func (g *DependencyGraph) isDependentLocked(dependent, dependency string, seen map[string]struct{}) bool {
	if _, visited := seen[dependent]; visited {
		return false
	}
	seen[dependent] = struct{}{}
	for dep := range g.dependencies[dependent] {
		if dep == dependency {
			return true
		}
		if g.isDependentLocked(dep, dependency, seen) {
			return true
		}
	}
	return false
}

// DestructionOrder orders names so that every bean precedes the beans it
// relies on: dependents are destroyed before their dependencies. Within that
// constraint the given order is reversed, so the most recently created beans
// go first. Cycles created by setter-style references cannot stall the order:
// whatever remains is appended in reverse given order.
func (g *DependencyGraph) DestructionOrder(names []string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	alive := make(map[string]struct{}, len(names))
	for _, name := range names {
		alive[name] = struct{}{}
	}

	// Pending dependents per name, counting only beans in this teardown set.
	pending := make(map[string]int, len(names))
	for _, name := range names {
		count := 0
		for dependent := range g.dependents[name] {
			if _, ok := alive[dependent]; ok {
				count++
			}
		}
		pending[name] = count
	}

	order := make([]string, 0, len(names))
	done := make(map[string]struct{}, len(names))

	for len(order) < len(names) {
		progress := false
		for i := len(names) - 1; i >= 0; i-- {
			name := names[i]
			if _, finished := done[name]; finished {
				continue
			}
			if pending[name] > 0 {
				continue
			}
			order = append(order, name)
			done[name] = struct{}{}
			progress = true
			for dependency := range g.dependencies[name] {
				if _, ok := alive[dependency]; ok {
					pending[dependency]--
				}
			}
		}
		if !progress {
			// Remaining names form a reference cycle; flush them newest-first.
			for i := len(names) - 1; i >= 0; i-- {
				if _, finished := done[names[i]]; !finished {
					order = append(order, names[i])
					done[names[i]] = struct{}{}
				}
			}
		}
	}

	return order
}

// Clear drops all recorded edges.
func (g *DependencyGraph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dependencies = make(map[string]map[string]struct{})
	g.dependents = make(map[string]map[string]struct{})
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// creationStack tracks the chain of bean names being built by one logical
// resolution. It travels with the CreationContext, so nested requests from a
// construction strategy extend the same stack while unrelated requests on
// other goroutines carry their own.
type creationStack struct {
	names []string
}

func newCreationStack() *creationStack {
	return &creationStack{}
}

func (s *creationStack) push(name string) {
	s.names = append(s.names, name)
}

func (s *creationStack) pop() {
	if len(s.names) > 0 {
		s.names = s.names[:len(s.names)-1]
	}
}

func (s *creationStack) contains(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// cyclePath returns the creation path from the first occurrence of name to
// the top of the stack, closed with name again for diagnostics.
func (s *creationStack) cyclePath(name string) []string {
	for i, n := range s.names {
		if n == name {
			path := append([]string{}, s.names[i:]...)
			return append(path, name)
		}
	}
	return []string{name, name}
}
