package beans

// ValueKind classifies the value stored in a property or constructor-argument
// slot. The set is closed: collaborators switch on the kind resolved during
// merge instead of re-inspecting values at construction time.
type ValueKind int

const (
	KindScalar ValueKind = iota
	KindTypedString
	KindReference
	KindNestedDefinition
	KindManagedList
	KindManagedSet
	KindManagedMap
)

func (k ValueKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindTypedString:
		return "typed-string"
	case KindReference:
		return "reference"
	case KindNestedDefinition:
		return "nested-definition"
	case KindManagedList:
		return "managed-list"
	case KindManagedSet:
		return "managed-set"
	case KindManagedMap:
		return "managed-map"
	default:
		return "unknown"
	}
}

// KindOf resolves the kind of a slot value.
func KindOf(value interface{}) ValueKind {
	switch value.(type) {
	case *RuntimeBeanReference:
		return KindReference
	case *BeanDefinition:
		return KindNestedDefinition
	case *ManagedList:
		return KindManagedList
	case *ManagedSet:
		return KindManagedSet
	case *ManagedMap:
		return KindManagedMap
	case *TypedStringValue:
		return KindTypedString
	default:
		return KindScalar
	}
}

// RuntimeBeanReference is a by-name reference to another bean, resolved during
// construction rather than at parse time.
type RuntimeBeanReference struct {
	BeanName string
	Source   interface{}
}

// NewRuntimeBeanReference creates a reference to the named bean.
func NewRuntimeBeanReference(beanName string) *RuntimeBeanReference {
	return &RuntimeBeanReference{BeanName: beanName}
}

// TypedStringValue is a string literal carrying an optional target type name.
// Conversion to the target type is a collaborator concern.
type TypedStringValue struct {
	Value          string
	TargetTypeName string
	Source         interface{}
}

// NewTypedStringValue creates an untyped string value.
func NewTypedStringValue(value string) *TypedStringValue {
	return &TypedStringValue{Value: value}
}

// PropertyValue is one named property slot of a definition.
type PropertyValue struct {
	Name   string
	Value  interface{}
	Source interface{}
}

// Kind resolves the kind of the slot value.
func (pv PropertyValue) Kind() ValueKind {
	return KindOf(pv.Value)
}

// PropertyValues is an ordered collection of named property slots.
type PropertyValues struct {
	values []PropertyValue
}

// Add sets the value for name. When a value for name is already present and
// the new value is a merge-enabled managed collection, the two are merged
// (existing first) instead of replaced.
func (pvs *PropertyValues) Add(name string, value interface{}) error {
	return pvs.AddPropertyValue(PropertyValue{Name: name, Value: value})
}

// AddPropertyValue inserts or overrides a property slot, merging managed
// collection values against the slot being replaced.
func (pvs *PropertyValues) AddPropertyValue(pv PropertyValue) error {
	for i, existing := range pvs.values {
		if existing.Name == pv.Name {
			merged, err := mergeIfRequired(pv.Value, existing.Value)
			if err != nil {
				return err
			}
			pv.Value = merged
			pvs.values[i] = pv
			return nil
		}
	}
	pvs.values = append(pvs.values, pv)
	return nil
}

// AddAll applies every slot of other in order. Used by definition merging:
// other's entries override same-name entries already present.
func (pvs *PropertyValues) AddAll(other *PropertyValues) error {
	if other == nil {
		return nil
	}
	for _, pv := range other.values {
		if err := pvs.AddPropertyValue(pv); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the slot for name.
func (pvs *PropertyValues) Get(name string) (PropertyValue, bool) {
	for _, pv := range pvs.values {
		if pv.Name == name {
			return pv, true
		}
	}
	return PropertyValue{}, false
}

// Contains reports whether a slot for name is present.
func (pvs *PropertyValues) Contains(name string) bool {
	_, ok := pvs.Get(name)
	return ok
}

// Remove deletes the slot for name, reporting whether it was present.
func (pvs *PropertyValues) Remove(name string) bool {
	for i, pv := range pvs.values {
		if pv.Name == name {
			pvs.values = append(pvs.values[:i], pvs.values[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of slots.
func (pvs *PropertyValues) Len() int {
	return len(pvs.values)
}

// Values returns the slots in order.
func (pvs *PropertyValues) Values() []PropertyValue {
	values := make([]PropertyValue, len(pvs.values))
	copy(values, pvs.values)
	return values
}

// Clone returns a copy sharing the slot values.
func (pvs *PropertyValues) Clone() *PropertyValues {
	clone := &PropertyValues{values: make([]PropertyValue, len(pvs.values))}
	copy(clone.values, pvs.values)
	return clone
}

// ValueHolder is one constructor-argument slot, addressed by index or name.
type ValueHolder struct {
	Value    interface{}
	TypeName string
	Name     string
	Source   interface{}
}

// Kind resolves the kind of the slot value.
func (vh ValueHolder) Kind() ValueKind {
	return KindOf(vh.Value)
}

// ConstructorArgumentValues holds indexed and generic constructor arguments.
type ConstructorArgumentValues struct {
	indexed map[int]ValueHolder
	generic []ValueHolder
}

// AddIndexed sets the argument at index. When a value is already present and
// the new value is a merge-enabled managed collection, the two are merged.
func (cav *ConstructorArgumentValues) AddIndexed(index int, holder ValueHolder) error {
	if cav.indexed == nil {
		cav.indexed = make(map[int]ValueHolder)
	}
	if existing, ok := cav.indexed[index]; ok {
		merged, err := mergeIfRequired(holder.Value, existing.Value)
		if err != nil {
			return err
		}
		holder.Value = merged
	}
	cav.indexed[index] = holder
	return nil
}

// AddGeneric appends a positionally unresolved argument. A named holder
// overrides a same-named generic argument already present.
func (cav *ConstructorArgumentValues) AddGeneric(holder ValueHolder) error {
	if holder.Name != "" {
		for i, existing := range cav.generic {
			if existing.Name == holder.Name {
				merged, err := mergeIfRequired(holder.Value, existing.Value)
				if err != nil {
					return err
				}
				holder.Value = merged
				cav.generic[i] = holder
				return nil
			}
		}
	}
	cav.generic = append(cav.generic, holder)
	return nil
}

// AddAll applies other's indexed and generic arguments. Used by definition
// merging: other's entries override same-key entries already present.
func (cav *ConstructorArgumentValues) AddAll(other *ConstructorArgumentValues) error {
	if other == nil {
		return nil
	}
	for index, holder := range other.indexed {
		if err := cav.AddIndexed(index, holder); err != nil {
			return err
		}
	}
	for _, holder := range other.generic {
		if err := cav.AddGeneric(holder); err != nil {
			return err
		}
	}
	return nil
}

// Indexed returns the argument at index.
func (cav *ConstructorArgumentValues) Indexed(index int) (ValueHolder, bool) {
	holder, ok := cav.indexed[index]
	return holder, ok
}

// Generic returns the generic arguments in order.
func (cav *ConstructorArgumentValues) Generic() []ValueHolder {
	generic := make([]ValueHolder, len(cav.generic))
	copy(generic, cav.generic)
	return generic
}

// IndexedCount returns the number of indexed arguments.
func (cav *ConstructorArgumentValues) IndexedCount() int {
	return len(cav.indexed)
}

// Len returns the total number of argument slots.
func (cav *ConstructorArgumentValues) Len() int {
	return len(cav.indexed) + len(cav.generic)
}

// Empty reports whether no arguments are held.
func (cav *ConstructorArgumentValues) Empty() bool {
	return cav.Len() == 0
}

// Clone returns a copy sharing the slot values.
func (cav *ConstructorArgumentValues) Clone() *ConstructorArgumentValues {
	clone := &ConstructorArgumentValues{}
	if cav.indexed != nil {
		clone.indexed = make(map[int]ValueHolder, len(cav.indexed))
		for index, holder := range cav.indexed {
			clone.indexed[index] = holder
		}
	}
	clone.generic = append(clone.generic, cav.generic...)
	return clone
}
