package beans

// MethodOverride records that a named method of the bean should be replaced
// or re-looked-up by the construction strategy.
type MethodOverride struct {
	MethodName string
	// Overloaded hints that the method name is overloaded on the target type
	// and argument matching is needed.
	Overloaded bool
	Source     interface{}
}

// MethodOverrides is the set of method overrides for one definition.
type MethodOverrides struct {
	overrides []MethodOverride
}

// Add registers an override. A later override for the same method replaces
// the earlier one.
func (mo *MethodOverrides) Add(override MethodOverride) {
	for i, existing := range mo.overrides {
		if existing.MethodName == override.MethodName {
			mo.overrides[i] = override
			return
		}
	}
	mo.overrides = append(mo.overrides, override)
}

// AddAll unions other's overrides into this set.
func (mo *MethodOverrides) AddAll(other *MethodOverrides) {
	if other == nil {
		return
	}
	for _, override := range other.overrides {
		mo.Add(override)
	}
}

// Get returns the override for methodName.
func (mo *MethodOverrides) Get(methodName string) (MethodOverride, bool) {
	for _, override := range mo.overrides {
		if override.MethodName == methodName {
			return override, true
		}
	}
	return MethodOverride{}, false
}

// Len returns the number of overrides.
func (mo *MethodOverrides) Len() int {
	return len(mo.overrides)
}

// Empty reports whether the set holds no overrides.
func (mo *MethodOverrides) Empty() bool {
	return len(mo.overrides) == 0
}

// All returns the overrides in registration order.
func (mo *MethodOverrides) All() []MethodOverride {
	overrides := make([]MethodOverride, len(mo.overrides))
	copy(overrides, mo.overrides)
	return overrides
}

// Clone returns a copy of the set.
func (mo *MethodOverrides) Clone() *MethodOverrides {
	clone := &MethodOverrides{overrides: make([]MethodOverride, len(mo.overrides))}
	copy(clone.overrides, mo.overrides)
	return clone
}
