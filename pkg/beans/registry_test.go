package beans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/beans/internal/errors"
)

func newTestRegistry(t *testing.T) *DefinitionRegistry {
	t.Helper()
	return NewDefinitionRegistry(RegistryOptions{AllowOverriding: true})
}

func TestRegistryRegister(t *testing.T) {
	t.Run("empty name rejected", func(t *testing.T) {
		registry := newTestRegistry(t)
		err := registry.Register("", NewBeanDefinition("app.Service"))
		assert.Error(t, err)
	})

	t.Run("nil definition rejected", func(t *testing.T) {
		registry := newTestRegistry(t)
		err := registry.Register("svc", nil)
		assert.Error(t, err)
	})

	t.Run("registration order preserved", func(t *testing.T) {
		registry := newTestRegistry(t)
		require.NoError(t, registry.Register("b", NewBeanDefinition("app.B")))
		require.NoError(t, registry.Register("a", NewBeanDefinition("app.A")))
		require.NoError(t, registry.Register("c", NewBeanDefinition("app.C")))

		assert.Equal(t, []string{"b", "a", "c"}, registry.Names())
		assert.Equal(t, 3, registry.Count())
	})

	t.Run("overriding disabled rejects a different definition", func(t *testing.T) {
		registry := NewDefinitionRegistry(RegistryOptions{AllowOverriding: false})
		require.NoError(t, registry.Register("svc", NewBeanDefinition("app.Service")))

		err := registry.Register("svc", NewBeanDefinition("app.OtherService"))
		require.Error(t, err)
		assert.True(t, errors.IsDuplicateRegistration(err))
	})

	t.Run("overriding disabled accepts an equal definition", func(t *testing.T) {
		registry := NewDefinitionRegistry(RegistryOptions{AllowOverriding: false})
		require.NoError(t, registry.Register("svc", NewBeanDefinition("app.Service")))
		require.NoError(t, registry.Register("svc", NewBeanDefinition("app.Service")))
		assert.Equal(t, 1, registry.Count())
	})

	t.Run("remove unknown fails", func(t *testing.T) {
		registry := newTestRegistry(t)
		err := registry.Remove("ghost")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestRegistryMerged(t *testing.T) {
	t.Run("child overrides and inherits", func(t *testing.T) {
		registry := newTestRegistry(t)

		base := NewBeanDefinition("app.ServiceTemplate")
		base.Abstract = true
		base.Scope = ScopePrototype
		require.NoError(t, base.Properties.Add("timeout", 30))
		require.NoError(t, base.Properties.Add("retries", 3))
		require.NoError(t, registry.Register("base", base))

		derived := NewChildDefinition("base")
		require.NoError(t, derived.Properties.Add("timeout", 60))
		require.NoError(t, registry.Register("derived", derived))

		merged, err := registry.Merged("derived")
		require.NoError(t, err)

		timeout, ok := merged.Properties.Get("timeout")
		require.True(t, ok)
		assert.Equal(t, 60, timeout.Value)

		retries, ok := merged.Properties.Get("retries")
		require.True(t, ok)
		assert.Equal(t, 3, retries.Value)

		// Scope follows the parent when the child leaves it unset; the merged
		// view is self-contained and no longer abstract.
		assert.Equal(t, ScopePrototype, merged.Scope)
		assert.Empty(t, merged.ParentName)
		assert.False(t, merged.Abstract)
	})

	t.Run("default scope normalizes to singleton", func(t *testing.T) {
		registry := newTestRegistry(t)
		require.NoError(t, registry.Register("svc", NewBeanDefinition("app.Service")))

		merged, err := registry.Merged("svc")
		require.NoError(t, err)
		assert.Equal(t, ScopeSingleton, merged.Scope)
		assert.True(t, merged.IsSingleton())
	})

	t.Run("merged view memoized until invalidated", func(t *testing.T) {
		registry := newTestRegistry(t)
		require.NoError(t, registry.Register("svc", NewBeanDefinition("app.Service")))

		first, err := registry.Merged("svc")
		require.NoError(t, err)
		second, err := registry.Merged("svc")
		require.NoError(t, err)
		assert.Same(t, first, second)

		require.NoError(t, registry.Register("svc", NewBeanDefinition("app.ServiceV2")))
		third, err := registry.Merged("svc")
		require.NoError(t, err)
		assert.NotSame(t, first, third)
		assert.Equal(t, "app.ServiceV2", third.ClassName())
	})

	t.Run("ancestor re-registration invalidates descendants", func(t *testing.T) {
		registry := newTestRegistry(t)

		grandparent := NewBeanDefinition("app.Root")
		require.NoError(t, grandparent.Properties.Add("region", "us-east-1"))
		require.NoError(t, registry.Register("root", grandparent))
		require.NoError(t, registry.Register("mid", NewChildDefinition("root")))
		require.NoError(t, registry.Register("leaf", NewChildDefinition("mid")))

		before, err := registry.Merged("leaf")
		require.NoError(t, err)
		region, ok := before.Properties.Get("region")
		require.True(t, ok)
		assert.Equal(t, "us-east-1", region.Value)

		replacement := NewBeanDefinition("app.Root")
		require.NoError(t, replacement.Properties.Add("region", "eu-west-1"))
		require.NoError(t, registry.Register("root", replacement))

		after, err := registry.Merged("leaf")
		require.NoError(t, err)
		region, ok = after.Properties.Get("region")
		require.True(t, ok)
		assert.Equal(t, "eu-west-1", region.Value)
	})

	t.Run("re-pointing a parent alias invalidates descendants", func(t *testing.T) {
		registry := newTestRegistry(t)

		baseA := NewBeanDefinition("app.BaseA")
		require.NoError(t, baseA.Properties.Add("region", "us-east-1"))
		require.NoError(t, registry.Register("baseA", baseA))

		baseB := NewBeanDefinition("app.BaseB")
		require.NoError(t, baseB.Properties.Add("region", "eu-west-1"))
		require.NoError(t, registry.Register("baseB", baseB))

		require.NoError(t, registry.Register("child", NewChildDefinition("template")))
		require.NoError(t, registry.RegisterAlias("baseA", "template"))

		before, err := registry.Merged("child")
		require.NoError(t, err)
		region, ok := before.Properties.Get("region")
		require.True(t, ok)
		assert.Equal(t, "us-east-1", region.Value)

		require.NoError(t, registry.RemoveAlias("template"))
		require.NoError(t, registry.RegisterAlias("baseB", "template"))

		after, err := registry.Merged("child")
		require.NoError(t, err)
		region, ok = after.Properties.Get("region")
		require.True(t, ok)
		assert.Equal(t, "eu-west-1", region.Value)
	})

	t.Run("clear metadata cache recomputes", func(t *testing.T) {
		registry := newTestRegistry(t)
		require.NoError(t, registry.Register("svc", NewBeanDefinition("app.Service")))

		first, err := registry.Merged("svc")
		require.NoError(t, err)

		registry.ClearMetadataCache()
		second, err := registry.Merged("svc")
		require.NoError(t, err)
		assert.NotSame(t, first, second)
		assert.True(t, first.Equal(second))
	})

	t.Run("cyclic inheritance detected", func(t *testing.T) {
		registry := newTestRegistry(t)

		x := NewChildDefinition("y")
		y := NewChildDefinition("x")
		require.NoError(t, registry.Register("x", x))
		require.NoError(t, registry.Register("y", y))

		_, err := registry.Merged("x")
		require.Error(t, err)
		assert.True(t, errors.IsCyclicInheritance(err))
	})

	t.Run("missing parent fails", func(t *testing.T) {
		registry := newTestRegistry(t)
		require.NoError(t, registry.Register("orphan", NewChildDefinition("ghost")))

		_, err := registry.Merged("orphan")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("merge collision surfaces type mismatch", func(t *testing.T) {
		registry := newTestRegistry(t)

		parent := NewBeanDefinition("app.Service")
		require.NoError(t, parent.Properties.Add("endpoints", NewManagedMap()))
		require.NoError(t, registry.Register("parent", parent))

		child := NewChildDefinition("parent")
		hosts := NewManagedList()
		hosts.SetMergeEnabled(true)
		hosts.Add("localhost")
		require.NoError(t, child.Properties.Add("endpoints", hosts))
		require.NoError(t, registry.Register("child", child))

		_, err := registry.Merged("child")
		require.Error(t, err)
		assert.True(t, errors.IsMergeTypeMismatch(err))
	})

	t.Run("abstract flag observed on the merged view", func(t *testing.T) {
		registry := newTestRegistry(t)

		base := NewBeanDefinition("app.Template")
		base.Abstract = true
		require.NoError(t, registry.Register("base", base))
		require.NoError(t, registry.Register("derived", NewChildDefinition("base")))

		abstract, err := registry.IsAbstract("base")
		require.NoError(t, err)
		assert.True(t, abstract)

		abstract, err = registry.IsAbstract("derived")
		require.NoError(t, err)
		assert.False(t, abstract)
	})

	t.Run("merged resolves aliases", func(t *testing.T) {
		registry := newTestRegistry(t)

		require.NoError(t, registry.Register("svc", NewBeanDefinition("app.Service")))
		require.NoError(t, registry.RegisterAlias("svc", "service"))

		direct, err := registry.Merged("svc")
		require.NoError(t, err)
		viaAlias, err := registry.Merged("service")
		require.NoError(t, err)
		assert.Same(t, direct, viaAlias)

		assert.True(t, registry.Contains("service"))
	})

	t.Run("parent chain depth is bounded", func(t *testing.T) {
		registry := NewDefinitionRegistry(RegistryOptions{AllowOverriding: true, MaxMergeDepth: 3})

		require.NoError(t, registry.Register("d0", NewBeanDefinition("app.L0")))
		require.NoError(t, registry.Register("d1", NewChildDefinition("d0")))
		require.NoError(t, registry.Register("d2", NewChildDefinition("d1")))
		require.NoError(t, registry.Register("d3", NewChildDefinition("d2")))
		require.NoError(t, registry.Register("d4", NewChildDefinition("d3")))

		_, err := registry.Merged("d4")
		require.Error(t, err)
		assert.True(t, errors.IsCyclicInheritance(err))

		// A chain inside the bound still merges.
		_, err = registry.Merged("d3")
		require.NoError(t, err)
	})
}

func TestRegistryFreeze(t *testing.T) {
	registry := newTestRegistry(t)
	require.NoError(t, registry.Register("svc", NewBeanDefinition("app.Service")))

	registry.Freeze()
	require.True(t, registry.Frozen())

	err := registry.Register("late", NewBeanDefinition("app.Late"))
	require.Error(t, err)
	assert.True(t, errors.IsContainerFrozen(err))

	err = registry.Remove("svc")
	require.Error(t, err)
	assert.True(t, errors.IsContainerFrozen(err))

	err = registry.RegisterAlias("svc", "service")
	require.Error(t, err)
	assert.True(t, errors.IsContainerFrozen(err))

	// Reads keep working after the freeze.
	merged, err := registry.Merged("svc")
	require.NoError(t, err)
	assert.Equal(t, "app.Service", merged.ClassName())
}
