package object

import (
	"github.com/hwstack/obj-runtime/errors"
)

// Object is the instance prologue every runtime-managed class embeds at the
// root of its primary base chain. It carries the most-derived class
// descriptor, the most-derived object reference, and the ownership links.
//
// All fields are written during creation and destruction only; between the
// two they are read-only.
type Object struct {
	class       *Class
	self        Dynamic
	parent      *Object
	firstChild  *Object
	nextSibling *Object
	createFlags CreateFlags
}

// RuntimeObject implements Dynamic.
func (o *Object) RuntimeObject() *Object { return o }

// Class returns the most-derived class descriptor, or nil before creation
// or after destruction.
func (o *Object) Class() *Class { return o.class }

// Self returns the most-derived object.
func (o *Object) Self() Dynamic { return o.self }

// CreateFlags returns the flags the instance was created with.
func (o *Object) CreateFlags() CreateFlags { return o.createFlags }

// Parent returns the owning object, or nil for a root or an unlinked
// instance.
func (o *Object) Parent() Dynamic {
	if o.parent == nil {
		return nil
	}
	return o.parent.self
}

// Children returns the owned objects in linking order.
func (o *Object) Children() []Dynamic {
	var out []Dynamic
	for c := o.firstChild; c != nil; c = c.nextSibling {
		out = append(out, c.self)
	}
	return out
}

// Root walks the ownership chain to its top.
func (o *Object) Root() Dynamic {
	r := o
	for r.parent != nil {
		r = r.parent
	}
	return r.self
}

// addChild links child as the last entry of o's child list. The child must
// be unparented; linking an object into two parents would break the forest
// invariant, as would linking an ancestor under its descendant.
func (o *Object) addChild(child *Object) error {
	if child.parent != nil {
		return invalidLink(child, "already has a parent")
	}
	for p := o; p != nil; p = p.parent {
		if p == child {
			return invalidLink(child, "would create an ownership cycle")
		}
	}
	child.parent = o
	debugf("linked %s under %s", child.class, o.class)
	if o.firstChild == nil {
		o.firstChild = child
		return nil
	}
	last := o.firstChild
	for last.nextSibling != nil {
		last = last.nextSibling
	}
	last.nextSibling = child
	return nil
}

// removeChild unlinks child from o's child list. Unknown children are
// ignored; removal must be idempotent on the unwind path.
func (o *Object) removeChild(child *Object) {
	if child.parent != o {
		return
	}
	if o.firstChild == child {
		o.firstChild = child.nextSibling
	} else {
		for c := o.firstChild; c != nil; c = c.nextSibling {
			if c.nextSibling == child {
				c.nextSibling = child.nextSibling
				break
			}
		}
	}
	child.parent = nil
	child.nextSibling = nil
}

func invalidLink(child *Object, detail string) error {
	name := ""
	if child.class != nil {
		name = child.class.name
	}
	return errors.New(errors.PhaseCreate, errors.KindInvalidArgument).
		Class(name).
		Detail("cannot link: %s", detail).
		Build()
}

// scrub clears the prologue after destruction or failed creation so stale
// handles fail casts instead of reaching freed state.
func (o *Object) scrub() {
	o.class = nil
	o.self = nil
	o.parent = nil
	o.firstChild = nil
	o.nextSibling = nil
	o.createFlags = 0
}
