package beans

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xraph/beans/internal/errors"
	"github.com/xraph/beans/pkg/config"
	"github.com/xraph/beans/pkg/logger"
	"github.com/xraph/beans/pkg/metrics"
)

// ConstructionStrategy produces an instance from a fully merged, non-abstract
// definition. The strategy may recursively request other named beans through
// the creation context; circular construction is detected at this layer, not
// inside the strategy.
type ConstructionStrategy interface {
	Construct(ctx *CreationContext, def *BeanDefinition) (interface{}, error)
}

// ConstructFunc adapts a function to ConstructionStrategy.
type ConstructFunc func(ctx *CreationContext, def *BeanDefinition) (interface{}, error)

func (f ConstructFunc) Construct(ctx *CreationContext, def *BeanDefinition) (interface{}, error) {
	return f(ctx, def)
}

// DestructionStrategy runs the destroy hook for an instance. Failures are
// reported by the container, never propagated onward mid-teardown.
type DestructionStrategy interface {
	Destroy(instance interface{}, def *BeanDefinition) error
}

// DestroyFunc adapts a function to DestructionStrategy.
type DestroyFunc func(instance interface{}, def *BeanDefinition) error

func (f DestroyFunc) Destroy(instance interface{}, def *BeanDefinition) error {
	return f(instance, def)
}

// Disposable is implemented by instances that release resources on teardown.
// The default destruction strategy invokes it.
type Disposable interface {
	Dispose() error
}

// DisposableDestruction is the default destruction strategy: it calls Dispose
// on instances implementing Disposable and ignores everything else.
func DisposableDestruction() DestructionStrategy {
	return DestroyFunc(func(instance interface{}, def *BeanDefinition) error {
		if disposable, ok := instance.(Disposable); ok {
			return disposable.Dispose()
		}
		return nil
	})
}

// CreationContext is handed to the construction strategy for one bean build.
// Nested bean requests must go through it so that the creation stack extends
// across the whole resolution and same-build cycles are detected.
type CreationContext struct {
	container *Container
	stack     *creationStack
	beanName  string
}

// BeanName returns the canonical name of the bean being built.
func (c *CreationContext) BeanName() string {
	return c.beanName
}

// Get resolves a dependency by name from within a build. The edge
// "current bean relies on name" is recorded for destruction ordering.
func (c *CreationContext) Get(name string) (interface{}, error) {
	canonical := c.container.registry.Aliases().Resolve(name)
	c.container.graph.RegisterDependency(c.beanName, canonical)
	return c.container.getBean(canonical, c.stack)
}

// ExposeEarly publishes a partial handle to the bean being built, allowing a
// setter-style circular reference back to it to resolve instead of failing.
// Only effective when the container allows circular references.
func (c *CreationContext) ExposeEarly(instance interface{}) {
	c.container.singletons.ExposeEarly(c.beanName, instance)
}

// ContainerOptions configures a Container.
type ContainerOptions struct {
	Config       config.Config
	Logger       logger.Logger
	Metrics      metrics.Metrics
	Construction ConstructionStrategy
	// Destruction defaults to DisposableDestruction.
	Destruction DestructionStrategy
}

// Container is the bean registry and lifecycle engine: it owns the definition
// registry, the scoped instance stores, and the dependency graph, and drives
// construction and teardown through the collaborator strategies.
// Lifecycle: new, populate, optionally Freeze, Start, serve, Shutdown.
type Container struct {
	id         string
	cfg        config.Config
	registry   *DefinitionRegistry
	singletons *SingletonStore
	graph      *DependencyGraph
	scopes     map[string]Scope

	construction ConstructionStrategy
	destruction  DestructionStrategy

	logger  logger.Logger
	metrics metrics.Metrics

	started bool
	mu      sync.RWMutex
}

// NewContainer creates a container with the given collaborators.
func NewContainer(opts ContainerOptions) *Container {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoopLogger()
	}
	mtr := opts.Metrics
	if mtr == nil {
		mtr = metrics.NewNoop()
	}
	destruction := opts.Destruction
	if destruction == nil {
		destruction = DisposableDestruction()
	}

	return &Container{
		id:  uuid.NewString(),
		cfg: opts.Config,
		registry: NewDefinitionRegistry(RegistryOptions{
			AllowOverriding: opts.Config.AllowDefinitionOverriding,
			MaxMergeDepth:   opts.Config.MaxMergeDepth,
			Logger:          log,
			Metrics:         mtr,
		}),
		singletons:   NewSingletonStore(log, mtr),
		graph:        NewDependencyGraph(),
		scopes:       make(map[string]Scope),
		construction: opts.Construction,
		destruction:  destruction,
		logger:       log,
		metrics:      mtr,
	}
}

// ID returns the container's instance id.
func (c *Container) ID() string {
	return c.id
}

// Registry exposes the definition registry.
func (c *Container) Registry() *DefinitionRegistry {
	return c.registry
}

// Graph exposes the dependency graph.
func (c *Container) Graph() *DependencyGraph {
	return c.graph
}

// Register stores a definition under name.
func (c *Container) Register(name string, def *BeanDefinition) error {
	return c.registry.Register(name, def)
}

// RegisterAlias registers alias for name.
func (c *Container) RegisterAlias(name, alias string) error {
	return c.registry.RegisterAlias(name, alias)
}

// RegisterSingleton stores an externally created instance under name.
func (c *Container) RegisterSingleton(name string, instance interface{}) error {
	return c.singletons.Register(name, instance)
}

// RegisterScope registers a custom scope strategy under scopeName. The
// singleton and prototype scopes cannot be replaced.
func (c *Container) RegisterScope(scopeName string, scope Scope) error {
	if scopeName == ScopeSingleton || scopeName == ScopePrototype || scopeName == ScopeDefault {
		return errors.New("cannot replace the built-in '" + scopeName + "' scope")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scopes[scopeName] = scope
	return nil
}

// RegisteredScope returns the strategy for scopeName, if registered.
func (c *Container) RegisteredScope(scopeName string) (Scope, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	scope, ok := c.scopes[scopeName]
	return scope, ok
}

// Freeze forbids further definition and alias mutation.
func (c *Container) Freeze() {
	c.registry.Freeze()
}

// Get returns the bean for name, building it on first request per its scope.
func (c *Container) Get(name string) (interface{}, error) {
	return c.getBean(name, newCreationStack())
}

// Contains reports whether name refers to a definition or a registered
// singleton, after alias resolution.
func (c *Container) Contains(name string) bool {
	canonical := c.registry.Aliases().Resolve(name)
	return c.registry.Contains(canonical) || c.singletons.Contains(canonical)
}

// IsCurrentlyInCreation reports whether a build for name is underway.
func (c *Container) IsCurrentlyInCreation(name string) bool {
	return c.singletons.IsInCreation(c.registry.Aliases().Resolve(name))
}

// SingletonNames returns the cached singleton names in creation order.
func (c *Container) SingletonNames() []string {
	return c.singletons.Names()
}

func (c *Container) getBean(name string, stack *creationStack) (interface{}, error) {
	canonical := c.registry.Aliases().Resolve(name)

	if !c.registry.Contains(canonical) {
		// Manually registered singletons have no definition.
		if instance, ok := c.singletons.Get(canonical); ok {
			return instance, nil
		}
		return nil, errors.ErrDefinitionNotFound(canonical)
	}

	merged, err := c.registry.Merged(canonical)
	if err != nil {
		return nil, err
	}
	if merged.Abstract {
		return nil, errors.ErrAbstractDefinition(canonical)
	}

	// Explicit dependsOn beans must be fully built before construction of
	// the dependent begins.
	for _, dep := range merged.DependsOn {
		depCanonical := c.registry.Aliases().Resolve(dep)
		if depCanonical == canonical {
			return nil, errors.ErrCircularReference([]string{canonical, canonical}).
				WithContext("kind", "depends-on")
		}
		if c.graph.IsDependent(depCanonical, canonical) {
			return nil, errors.ErrCircularReference([]string{canonical, depCanonical, canonical}).
				WithContext("kind", "depends-on")
		}
		c.graph.RegisterDependency(canonical, depCanonical)
		if _, err := c.getBean(depCanonical, stack); err != nil {
			return nil, err
		}
	}

	factory := func() (interface{}, error) {
		return c.construct(canonical, merged, stack)
	}

	switch merged.Scope {
	case ScopeSingleton:
		return c.singletons.GetOrCreate(canonical, stack, c.cfg.AllowCircularReferences, factory)
	case ScopePrototype:
		return c.singletons.CreatePrototype(canonical, stack, factory)
	default:
		scope, ok := c.RegisteredScope(merged.Scope)
		if !ok {
			return nil, errors.ErrScopeNotRegistered(merged.Scope, canonical)
		}
		return scope.Get(canonical, func() (interface{}, error) {
			return c.singletons.CreatePrototype(canonical, stack, factory)
		})
	}
}

func (c *Container) construct(name string, def *BeanDefinition, stack *creationStack) (interface{}, error) {
	if c.construction == nil {
		return nil, errors.ErrConstructionFailure(name,
			errors.New("no construction strategy configured"))
	}

	start := time.Now()
	ctx := &CreationContext{container: c, stack: stack, beanName: name}
	instance, err := c.construction.Construct(ctx, def)
	if err != nil {
		// Keep circular-reference diagnostics from nested resolution intact.
		if errors.IsCircularReference(err) {
			return nil, err
		}
		return nil, errors.ErrConstructionFailure(name, err)
	}

	c.metrics.Histogram("beans.creation_seconds").Observe(time.Since(start).Seconds())
	return instance, nil
}

// Start moves the container into the serve phase, pre-instantiating eager
// singletons when configured.
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return errors.New("container already started")
	}
	c.started = true
	c.mu.Unlock()

	startTime := time.Now()

	if c.cfg.EagerInit {
		if err := c.PreInstantiateSingletons(); err != nil {
			return err
		}
	}

	c.logger.Info("container started",
		logger.String("container_id", c.id),
		logger.Int("definitions", c.registry.Count()),
		logger.Int("singletons", c.singletons.Count()),
		logger.Duration("startup_time", time.Since(startTime)),
	)
	c.metrics.Counter("beans.container_started").Inc()
	return nil
}

// PreInstantiateSingletons eagerly builds every non-lazy, non-abstract
// singleton definition in registration order.
func (c *Container) PreInstantiateSingletons() error {
	for _, name := range c.registry.Names() {
		merged, err := c.registry.Merged(name)
		if err != nil {
			return err
		}
		if merged.Abstract || merged.LazyInit || !merged.IsSingleton() {
			continue
		}
		if _, err := c.Get(name); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown destroys all cached singletons in reverse dependency order: a bean
// is destroyed only after every bean relying on it. A destruction failure is
// recorded and teardown continues; the aggregate is returned at the end.
// Shutdown assumes an exclusive teardown phase: concurrent Get calls are a
// usage error.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	c.started = false
	c.mu.Unlock()

	stopTime := time.Now()
	order := c.graph.DestructionOrder(c.singletons.Names())

	var failures []error
	for _, name := range order {
		instance, ok := c.singletons.Remove(name)
		if !ok {
			continue
		}

		def, err := c.registry.Merged(name)
		if err != nil {
			// Externally registered singleton without a definition.
			def = nil
		}

		if destroyErr := c.destruction.Destroy(instance, def); destroyErr != nil {
			failure := errors.ErrDestructionFailure(name, destroyErr)
			failures = append(failures, failure)
			c.metrics.Counter("beans.destroy_failures").Inc()
			c.logger.Error("failed to destroy singleton",
				logger.String("container_id", c.id),
				logger.String("bean", name),
				logger.Error(destroyErr),
			)
			continue
		}
		c.metrics.Counter("beans.singletons_destroyed").Inc()
	}

	c.singletons.Clear()
	c.graph.Clear()

	c.logger.Info("container stopped",
		logger.String("container_id", c.id),
		logger.Int("destroyed", len(order)-len(failures)),
		logger.Int("failures", len(failures)),
		logger.Duration("shutdown_time", time.Since(stopTime)),
	)
	c.metrics.Counter("beans.container_stopped").Inc()

	return errors.Join(failures...)
}
