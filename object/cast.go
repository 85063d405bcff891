package object

// DynamicCast adjusts d to the target ancestor's sub-object. It succeeds
// when target appears in the instance's cast graph; the own class is the
// first-checked path. Casting the result back to the most-derived class
// returns the original object.
func DynamicCast(d Dynamic, target *Class) (Dynamic, bool) {
	if d == nil || target == nil {
		return nil, false
	}
	o := d.RuntimeObject()
	if o == nil || o.class == nil {
		return nil, false
	}
	if o.class == target {
		return o.self, true
	}
	for _, r := range o.class.relatives[1:] {
		if r.Class == target {
			return r.Upcast(o.self), true
		}
	}
	return nil, false
}

// IsInstanceOf reports whether d's class derives from (or is) target.
// It never mutates and is O(number of ancestors).
func IsInstanceOf(d Dynamic, target *Class) bool {
	_, ok := DynamicCast(d, target)
	return ok
}

// FindAncestorOfType walks the ownership chain upward from d, testing each
// ancestor with DynamicCast, and returns the first match. This is how a
// descendant locates a shared-context object without storing a direct
// pointer to it.
func FindAncestorOfType(d Dynamic, target *Class) (Dynamic, bool) {
	if d == nil {
		return nil, false
	}
	for p := d.RuntimeObject().parent; p != nil; p = p.parent {
		if v, ok := DynamicCast(p.self, target); ok {
			return v, true
		}
	}
	return nil, false
}

// FindAncestorCapability walks the ownership chain upward from d and
// returns the first ancestor whose most-derived object implements T.
func FindAncestorCapability[T any](d Dynamic) (T, bool) {
	var zero T
	if d == nil {
		return zero, false
	}
	for p := d.RuntimeObject().parent; p != nil; p = p.parent {
		if v, ok := p.self.(T); ok {
			return v, true
		}
	}
	return zero, false
}
