package beans

// ObjectFactory produces the object for a scope on a cache miss.
type ObjectFactory func() (interface{}, error)

// Scope is a pluggable instance-caching strategy for a custom scope name
// (request- or session-like boundaries). Singleton and prototype handling is
// native to the container; everything else delegates here.
type Scope interface {
	// Get returns the object for name in this scope, creating it through
	// factory when absent.
	Get(name string, factory ObjectFactory) (interface{}, error)

	// Remove evicts the object for name and returns it, or nil when absent.
	// The caller is responsible for running any destruction hooks.
	Remove(name string) (interface{}, error)
}
