package beans

import (
	"fmt"
	"reflect"
	"sync"
)

// Scope identifiers understood natively by the container. Any other non-empty
// scope string refers to a registered custom scope.
const (
	// ScopeDefault is treated as ScopeSingleton.
	ScopeDefault = ""

	ScopeSingleton = "singleton"
	ScopePrototype = "prototype"
)

// Role classifies a definition for tooling. Advisory only.
type Role int

const (
	// RoleApplication marks a definition that is a major part of the application.
	RoleApplication Role = iota

	// RoleSupport marks a definition supporting some larger configuration unit.
	RoleSupport

	// RoleInfrastructure marks a definition internal to the framework.
	RoleInfrastructure
)

func (r Role) String() string {
	switch r {
	case RoleApplication:
		return "application"
	case RoleSupport:
		return "support"
	case RoleInfrastructure:
		return "infrastructure"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// TypeResolver resolves a type name to a type handle. Supplied by the
// construction collaborator; the engine only caches the result.
type TypeResolver func(className string) (reflect.Type, error)

// BeanDefinition describes how to construct and manage one named entity.
// A definition with a non-empty ParentName is incomplete until merged and must
// never reach the construction path.
type BeanDefinition struct {
	AttributeAccessor

	// ParentName references a definition to inherit from.
	ParentName string

	// FactoryBeanName and FactoryMethodName build the bean through another
	// named bean's method instead of a constructor.
	FactoryBeanName   string
	FactoryMethodName string

	Scope string

	LazyInit          bool
	Abstract          bool
	Primary           bool
	AutowireCandidate bool

	// DependsOn names beans that must be fully initialized before this one.
	DependsOn []string

	ConstructorArgs *ConstructorArgumentValues
	Properties      *PropertyValues
	Overrides       *MethodOverrides

	InitMethodName       string
	EnforceInitMethod    bool
	DestroyMethodName    string
	EnforceDestroyMethod bool

	Role   Role
	Source interface{}

	className string
	class     reflect.Type
	classMu   sync.Mutex
}

// NewBeanDefinition creates a definition with the given type name.
func NewBeanDefinition(className string) *BeanDefinition {
	return &BeanDefinition{
		className:         className,
		AutowireCandidate: true,
		ConstructorArgs:   &ConstructorArgumentValues{},
		Properties:        &PropertyValues{},
		Overrides:         &MethodOverrides{},
	}
}

// NewChildDefinition creates a definition inheriting from parentName.
func NewChildDefinition(parentName string) *BeanDefinition {
	def := NewBeanDefinition("")
	def.ParentName = parentName
	return def
}

// SetClassName sets the unresolved type name, discarding a resolved handle.
func (d *BeanDefinition) SetClassName(className string) {
	d.classMu.Lock()
	defer d.classMu.Unlock()
	d.className = className
	d.class = nil
}

// ClassName returns the type name, resolved or not.
func (d *BeanDefinition) ClassName() string {
	d.classMu.Lock()
	defer d.classMu.Unlock()
	if d.class != nil {
		return d.class.String()
	}
	return d.className
}

// SetClass sets a resolved type handle.
func (d *BeanDefinition) SetClass(class reflect.Type) {
	d.classMu.Lock()
	defer d.classMu.Unlock()
	d.class = class
}

// HasResolvedClass reports whether a type handle is present.
func (d *BeanDefinition) HasResolvedClass() bool {
	d.classMu.Lock()
	defer d.classMu.Unlock()
	return d.class != nil
}

// Class returns the resolved type handle, or nil.
func (d *BeanDefinition) Class() reflect.Type {
	d.classMu.Lock()
	defer d.classMu.Unlock()
	return d.class
}

// ResolveClass resolves the type name through resolver and caches the handle.
func (d *BeanDefinition) ResolveClass(resolver TypeResolver) (reflect.Type, error) {
	d.classMu.Lock()
	defer d.classMu.Unlock()
	if d.class != nil {
		return d.class, nil
	}
	if d.className == "" {
		return nil, fmt.Errorf("bean definition has no class name to resolve")
	}
	class, err := resolver(d.className)
	if err != nil {
		return nil, fmt.Errorf("resolve class %q: %w", d.className, err)
	}
	d.class = class
	return class, nil
}

// IsSingleton reports whether the definition is singleton-scoped.
func (d *BeanDefinition) IsSingleton() bool {
	return d.Scope == ScopeSingleton || d.Scope == ScopeDefault
}

// IsPrototype reports whether the definition is prototype-scoped.
func (d *BeanDefinition) IsPrototype() bool {
	return d.Scope == ScopePrototype
}

// Clone returns a deep copy of the definition's structure. Slot values are
// shared: they are immutable-by-convention metadata.
func (d *BeanDefinition) Clone() *BeanDefinition {
	d.classMu.Lock()
	className := d.className
	class := d.class
	d.classMu.Unlock()

	clone := &BeanDefinition{
		ParentName:           d.ParentName,
		FactoryBeanName:      d.FactoryBeanName,
		FactoryMethodName:    d.FactoryMethodName,
		Scope:                d.Scope,
		LazyInit:             d.LazyInit,
		Abstract:             d.Abstract,
		Primary:              d.Primary,
		AutowireCandidate:    d.AutowireCandidate,
		InitMethodName:       d.InitMethodName,
		EnforceInitMethod:    d.EnforceInitMethod,
		DestroyMethodName:    d.DestroyMethodName,
		EnforceDestroyMethod: d.EnforceDestroyMethod,
		Role:                 d.Role,
		Source:               d.Source,
		className:            className,
		class:                class,
	}
	if d.DependsOn != nil {
		clone.DependsOn = append([]string{}, d.DependsOn...)
	}
	if d.ConstructorArgs != nil {
		clone.ConstructorArgs = d.ConstructorArgs.Clone()
	} else {
		clone.ConstructorArgs = &ConstructorArgumentValues{}
	}
	if d.Properties != nil {
		clone.Properties = d.Properties.Clone()
	} else {
		clone.Properties = &PropertyValues{}
	}
	if d.Overrides != nil {
		clone.Overrides = d.Overrides.Clone()
	} else {
		clone.Overrides = &MethodOverrides{}
	}
	clone.CopyAttributesFrom(&d.AttributeAccessor)
	return clone
}

// OverrideFrom applies other's settings on top of this definition. Typically
// invoked on a copy of a merged parent, with the child as other: explicit
// child values win, collection values accumulate.
func (d *BeanDefinition) OverrideFrom(other *BeanDefinition) error {
	if name := other.ClassName(); name != "" {
		d.SetClassName(name)
	}
	if class := other.Class(); class != nil {
		d.SetClass(class)
	}
	if other.FactoryBeanName != "" {
		d.FactoryBeanName = other.FactoryBeanName
	}
	if other.FactoryMethodName != "" {
		d.FactoryMethodName = other.FactoryMethodName
	}
	if other.Scope != ScopeDefault {
		d.Scope = other.Scope
	}
	d.Abstract = other.Abstract
	d.LazyInit = other.LazyInit
	d.Primary = other.Primary
	d.AutowireCandidate = other.AutowireCandidate
	d.Role = other.Role
	if other.DependsOn != nil {
		d.DependsOn = append([]string{}, other.DependsOn...)
	}
	if err := d.ConstructorArgs.AddAll(other.ConstructorArgs); err != nil {
		return err
	}
	if err := d.Properties.AddAll(other.Properties); err != nil {
		return err
	}
	d.Overrides.AddAll(other.Overrides)
	if other.InitMethodName != "" {
		d.InitMethodName = other.InitMethodName
		d.EnforceInitMethod = other.EnforceInitMethod
	}
	if other.DestroyMethodName != "" {
		d.DestroyMethodName = other.DestroyMethodName
		d.EnforceDestroyMethod = other.EnforceDestroyMethod
	}
	if other.Source != nil {
		d.Source = other.Source
	}
	d.CopyAttributesFrom(&other.AttributeAccessor)
	return nil
}

// Validate checks the definition for internally inconsistent settings.
func (d *BeanDefinition) Validate() error {
	if d.Overrides != nil && !d.Overrides.Empty() && d.FactoryMethodName != "" {
		return fmt.Errorf("cannot combine method overrides with a factory method")
	}
	return nil
}

// Equal reports structural equality of two definitions. Registering a
// definition equal to the one already held is always a no-op.
func (d *BeanDefinition) Equal(other *BeanDefinition) bool {
	if other == nil {
		return false
	}
	if d.ParentName != other.ParentName ||
		d.ClassName() != other.ClassName() ||
		d.FactoryBeanName != other.FactoryBeanName ||
		d.FactoryMethodName != other.FactoryMethodName ||
		d.Scope != other.Scope ||
		d.LazyInit != other.LazyInit ||
		d.Abstract != other.Abstract ||
		d.Primary != other.Primary ||
		d.AutowireCandidate != other.AutowireCandidate ||
		d.InitMethodName != other.InitMethodName ||
		d.EnforceInitMethod != other.EnforceInitMethod ||
		d.DestroyMethodName != other.DestroyMethodName ||
		d.EnforceDestroyMethod != other.EnforceDestroyMethod ||
		d.Role != other.Role {
		return false
	}
	if !reflect.DeepEqual(d.DependsOn, other.DependsOn) {
		return false
	}
	if !reflect.DeepEqual(d.ConstructorArgs, other.ConstructorArgs) {
		return false
	}
	if !reflect.DeepEqual(d.Properties, other.Properties) {
		return false
	}
	if !reflect.DeepEqual(d.Overrides, other.Overrides) {
		return false
	}
	return reflect.DeepEqual(d.attributes, other.attributes)
}

func (d *BeanDefinition) String() string {
	return fmt.Sprintf("BeanDefinition{class=%s, parent=%s, scope=%s, abstract=%t, lazy=%t}",
		d.ClassName(), d.ParentName, d.Scope, d.Abstract, d.LazyInit)
}
