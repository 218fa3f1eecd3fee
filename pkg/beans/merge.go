package beans

import (
	"fmt"
	"reflect"

	"github.com/xraph/beans/internal/errors"
)

// Mergeable is implemented by managed collections that can accumulate a
// parent-supplied value of the same kind during definition merging.
type Mergeable interface {
	// MergeEnabled reports whether merging against a parent value is allowed.
	MergeEnabled() bool

	// Merge combines the parent value with this collection's contents and
	// returns a new collection. Parent elements come first; this collection
	// wins on key collisions. A nil parent returns the collection unchanged.
	Merge(parent interface{}) (interface{}, error)
}

// ManagedList is an ordered, mergeable list value.
type ManagedList struct {
	Elements        []interface{}
	ElementTypeName string
	Source          interface{}

	mergeEnabled bool
}

// NewManagedList creates a list holding the given elements.
func NewManagedList(elements ...interface{}) *ManagedList {
	return &ManagedList{Elements: elements}
}

// Add appends elements to the list.
func (l *ManagedList) Add(elements ...interface{}) {
	l.Elements = append(l.Elements, elements...)
}

// SetMergeEnabled sets whether merging is allowed when a parent value is present.
func (l *ManagedList) SetMergeEnabled(enabled bool) {
	l.mergeEnabled = enabled
}

func (l *ManagedList) MergeEnabled() bool {
	return l.mergeEnabled
}

// Merge returns a new list of the parent's elements followed by this list's.
func (l *ManagedList) Merge(parent interface{}) (interface{}, error) {
	if !l.mergeEnabled {
		return nil, errors.ErrMergeDisabled()
	}
	if parent == nil {
		return l, nil
	}
	parentList, ok := parent.(*ManagedList)
	if !ok {
		return nil, errors.ErrMergeTypeMismatch(
			fmt.Sprintf("cannot merge managed list with parent value of type %T", parent))
	}

	merged := &ManagedList{
		ElementTypeName: l.ElementTypeName,
		Source:          l.Source,
		mergeEnabled:    l.mergeEnabled,
	}
	merged.Elements = append(merged.Elements, parentList.Elements...)
	merged.Elements = append(merged.Elements, l.Elements...)
	return merged, nil
}

// ManagedSet is an ordered, mergeable set value. Element identity uses deep
// equality so unhashable elements (nested definitions, references) are legal.
type ManagedSet struct {
	Elements        []interface{}
	ElementTypeName string
	Source          interface{}

	mergeEnabled bool
}

// NewManagedSet creates a set holding the given elements, dropping duplicates.
func NewManagedSet(elements ...interface{}) *ManagedSet {
	set := &ManagedSet{}
	set.Add(elements...)
	return set
}

// Add appends elements not already present.
func (s *ManagedSet) Add(elements ...interface{}) {
	for _, element := range elements {
		if !s.Contains(element) {
			s.Elements = append(s.Elements, element)
		}
	}
}

// Contains reports whether the set holds an element deep-equal to value.
func (s *ManagedSet) Contains(value interface{}) bool {
	for _, element := range s.Elements {
		if reflect.DeepEqual(element, value) {
			return true
		}
	}
	return false
}

// SetMergeEnabled sets whether merging is allowed when a parent value is present.
func (s *ManagedSet) SetMergeEnabled(enabled bool) {
	s.mergeEnabled = enabled
}

func (s *ManagedSet) MergeEnabled() bool {
	return s.mergeEnabled
}

// Merge returns a new set holding the union of the parent's elements and this
// set's elements, parent elements first.
func (s *ManagedSet) Merge(parent interface{}) (interface{}, error) {
	if !s.mergeEnabled {
		return nil, errors.ErrMergeDisabled()
	}
	if parent == nil {
		return s, nil
	}
	parentSet, ok := parent.(*ManagedSet)
	if !ok {
		return nil, errors.ErrMergeTypeMismatch(
			fmt.Sprintf("cannot merge managed set with parent value of type %T", parent))
	}

	merged := &ManagedSet{
		ElementTypeName: s.ElementTypeName,
		Source:          s.Source,
		mergeEnabled:    s.mergeEnabled,
	}
	merged.Add(parentSet.Elements...)
	merged.Add(s.Elements...)
	return merged, nil
}

// ManagedMap is an ordered, mergeable string-keyed map value.
type ManagedMap struct {
	KeyTypeName   string
	ValueTypeName string
	Source        interface{}

	keys    []string
	entries map[string]interface{}

	mergeEnabled bool
}

// NewManagedMap creates an empty map.
func NewManagedMap() *ManagedMap {
	return &ManagedMap{entries: make(map[string]interface{})}
}

// Put sets the value for key, preserving first-insertion order.
func (m *ManagedMap) Put(key string, value interface{}) {
	if m.entries == nil {
		m.entries = make(map[string]interface{})
	}
	if _, exists := m.entries[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = value
}

// Get returns the value for key.
func (m *ManagedMap) Get(key string) (interface{}, bool) {
	value, ok := m.entries[key]
	return value, ok
}

// Keys returns the map's keys in insertion order.
func (m *ManagedMap) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of entries.
func (m *ManagedMap) Len() int {
	return len(m.entries)
}

// SetMergeEnabled sets whether merging is allowed when a parent value is present.
func (m *ManagedMap) SetMergeEnabled(enabled bool) {
	m.mergeEnabled = enabled
}

func (m *ManagedMap) MergeEnabled() bool {
	return m.mergeEnabled
}

// Merge returns a new map holding the parent's entries overlaid with this
// map's entries; this map wins on key collisions.
func (m *ManagedMap) Merge(parent interface{}) (interface{}, error) {
	if !m.mergeEnabled {
		return nil, errors.ErrMergeDisabled()
	}
	if parent == nil {
		return m, nil
	}
	parentMap, ok := parent.(*ManagedMap)
	if !ok {
		return nil, errors.ErrMergeTypeMismatch(
			fmt.Sprintf("cannot merge managed map with parent value of type %T", parent))
	}

	merged := NewManagedMap()
	merged.KeyTypeName = m.KeyTypeName
	merged.ValueTypeName = m.ValueTypeName
	merged.Source = m.Source
	merged.mergeEnabled = m.mergeEnabled
	for _, key := range parentMap.keys {
		merged.Put(key, parentMap.entries[key])
	}
	for _, key := range m.keys {
		merged.Put(key, m.entries[key])
	}
	return merged, nil
}

// mergeIfRequired merges newValue against currentValue when newValue is a
// mergeable collection with merging enabled. Any other combination keeps
// newValue as-is; the override simply replaces.
func mergeIfRequired(newValue, currentValue interface{}) (interface{}, error) {
	if mergeable, ok := newValue.(Mergeable); ok && mergeable.MergeEnabled() {
		return mergeable.Merge(currentValue)
	}
	return newValue, nil
}
