package beans

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverrideFrom(t *testing.T) {
	t.Run("explicit child values win", func(t *testing.T) {
		parent := NewBeanDefinition("example.Connection")
		parent.Scope = ScopeSingleton
		parent.InitMethodName = "open"
		parent.EnforceInitMethod = true
		require.NoError(t, parent.Properties.Add("timeout", 30))

		child := NewBeanDefinition("example.PooledConnection")
		child.Scope = ScopePrototype
		require.NoError(t, child.Properties.Add("timeout", 60))

		merged := parent.Clone()
		require.NoError(t, merged.OverrideFrom(child))

		assert.Equal(t, "example.PooledConnection", merged.ClassName())
		assert.Equal(t, ScopePrototype, merged.Scope)
		timeout, ok := merged.Properties.Get("timeout")
		require.True(t, ok)
		assert.Equal(t, 60, timeout.Value)

		// Child sets no init method, so the parent's survives with its flag.
		assert.Equal(t, "open", merged.InitMethodName)
		assert.True(t, merged.EnforceInitMethod)
	})

	t.Run("empty child scope inherits", func(t *testing.T) {
		parent := NewBeanDefinition("example.Service")
		parent.Scope = ScopeSingleton

		child := NewChildDefinition("base")
		merged := parent.Clone()
		require.NoError(t, merged.OverrideFrom(child))

		assert.Equal(t, ScopeSingleton, merged.Scope)
	})

	t.Run("constructor arguments append with child override", func(t *testing.T) {
		parent := NewBeanDefinition("example.Service")
		require.NoError(t, parent.ConstructorArgs.AddIndexed(0, ValueHolder{Value: "host"}))
		require.NoError(t, parent.ConstructorArgs.AddIndexed(1, ValueHolder{Value: 5432}))

		child := NewChildDefinition("base")
		require.NoError(t, child.ConstructorArgs.AddIndexed(1, ValueHolder{Value: 6543}))

		merged := parent.Clone()
		require.NoError(t, merged.OverrideFrom(child))

		first, ok := merged.ConstructorArgs.Indexed(0)
		require.True(t, ok)
		assert.Equal(t, "host", first.Value)
		second, ok := merged.ConstructorArgs.Indexed(1)
		require.True(t, ok)
		assert.Equal(t, 6543, second.Value)
	})

	t.Run("managed collection values accumulate", func(t *testing.T) {
		parent := NewBeanDefinition("example.Service")
		require.NoError(t, parent.Properties.Add("endpoints", NewManagedList("a", "b")))

		childList := NewManagedList("c")
		childList.SetMergeEnabled(true)
		child := NewChildDefinition("base")
		require.NoError(t, child.Properties.Add("endpoints", childList))

		merged := parent.Clone()
		require.NoError(t, merged.OverrideFrom(child))

		endpoints, ok := merged.Properties.Get("endpoints")
		require.True(t, ok)
		assert.Equal(t, []interface{}{"a", "b", "c"}, endpoints.Value.(*ManagedList).Elements)
	})

	t.Run("method overrides union", func(t *testing.T) {
		parent := NewBeanDefinition("example.Service")
		parent.Overrides.Add(MethodOverride{MethodName: "createClient"})

		child := NewChildDefinition("base")
		child.Overrides.Add(MethodOverride{MethodName: "createSession", Overloaded: true})

		merged := parent.Clone()
		require.NoError(t, merged.OverrideFrom(child))

		assert.Equal(t, 2, merged.Overrides.Len())
		_, ok := merged.Overrides.Get("createClient")
		assert.True(t, ok)
		session, ok := merged.Overrides.Get("createSession")
		require.True(t, ok)
		assert.True(t, session.Overloaded)
	})

	t.Run("attributes overlay", func(t *testing.T) {
		parent := NewBeanDefinition("example.Service")
		parent.SetAttribute("origin", "base.xml")
		parent.SetAttribute("tier", "backend")

		child := NewChildDefinition("base")
		child.SetAttribute("origin", "derived.xml")

		merged := parent.Clone()
		require.NoError(t, merged.OverrideFrom(child))

		assert.Equal(t, "derived.xml", merged.Attribute("origin"))
		assert.Equal(t, "backend", merged.Attribute("tier"))
	})
}

func TestCloneIsIndependent(t *testing.T) {
	original := NewBeanDefinition("example.Service")
	original.DependsOn = []string{"db"}
	require.NoError(t, original.Properties.Add("timeout", 30))
	original.SetAttribute("tier", "backend")

	clone := original.Clone()
	require.NoError(t, clone.Properties.Add("timeout", 99))
	clone.DependsOn = append(clone.DependsOn, "cache")
	clone.SetAttribute("tier", "frontend")

	timeout, _ := original.Properties.Get("timeout")
	assert.Equal(t, 30, timeout.Value)
	assert.Equal(t, []string{"db"}, original.DependsOn)
	assert.Equal(t, "backend", original.Attribute("tier"))
}

func TestDefinitionEqual(t *testing.T) {
	build := func() *BeanDefinition {
		def := NewBeanDefinition("example.Service")
		def.Scope = ScopeSingleton
		def.DependsOn = []string{"db"}
		_ = def.Properties.Add("timeout", 30)
		return def
	}

	assert.True(t, build().Equal(build()))

	other := build()
	require.NoError(t, other.Properties.Add("timeout", 60))
	assert.False(t, build().Equal(other))

	scoped := build()
	scoped.Scope = ScopePrototype
	assert.False(t, build().Equal(scoped))

	assert.False(t, build().Equal(nil))
}

func TestClassResolutionIsCached(t *testing.T) {
	def := NewBeanDefinition("example.Service")
	calls := 0
	resolver := func(name string) (reflect.Type, error) {
		calls++
		return reflect.TypeOf(struct{ Name string }{}), nil
	}

	first, err := def.ResolveClass(resolver)
	require.NoError(t, err)
	second, err := def.ResolveClass(resolver)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.True(t, def.HasResolvedClass())
}

func TestValidateRejectsOverridesWithFactoryMethod(t *testing.T) {
	def := NewBeanDefinition("example.Service")
	def.FactoryMethodName = "newService"
	def.Overrides.Add(MethodOverride{MethodName: "createClient"})

	assert.Error(t, def.Validate())
}
