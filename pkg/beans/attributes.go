package beans

import "sort"

// AttributeAccessor holds arbitrary string-keyed metadata attached to a
// definition by frameworks and tooling. It has no behavioral effect on the
// engine itself.
type AttributeAccessor struct {
	attributes map[string]interface{}
}

// SetAttribute sets the value for name. A nil value removes the attribute.
func (a *AttributeAccessor) SetAttribute(name string, value interface{}) {
	if value == nil {
		a.RemoveAttribute(name)
		return
	}
	if a.attributes == nil {
		a.attributes = make(map[string]interface{})
	}
	a.attributes[name] = value
}

// Attribute returns the value for name, or nil if not set.
func (a *AttributeAccessor) Attribute(name string) interface{} {
	return a.attributes[name]
}

// HasAttribute reports whether name is set.
func (a *AttributeAccessor) HasAttribute(name string) bool {
	_, ok := a.attributes[name]
	return ok
}

// RemoveAttribute removes name and returns its previous value, if any.
func (a *AttributeAccessor) RemoveAttribute(name string) interface{} {
	value, ok := a.attributes[name]
	if ok {
		delete(a.attributes, name)
	}
	return value
}

// AttributeNames returns all attribute names, sorted.
func (a *AttributeAccessor) AttributeNames() []string {
	names := make([]string, 0, len(a.attributes))
	for name := range a.attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CopyAttributesFrom overlays the attributes of source onto this accessor.
func (a *AttributeAccessor) CopyAttributesFrom(source *AttributeAccessor) {
	for name, value := range source.attributes {
		a.SetAttribute(name, value)
	}
}
