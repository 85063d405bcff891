// Package object implements the core object runtime: class metadata, the
// cast graph, construction/destruction chaining, and the ownership tree.
//
// # Classes
//
// A class is described once, at program start, by a ClassSpec and registered
// with Register. Concrete classes are ordinary Go structs that embed their
// primary base as the first field; the root of every primary chain is
// Object, which carries the instance prologue:
//
//	type EngineState struct {
//	    object.Object
//	    ...
//	}
//
//	type Engine struct {
//	    EngineState
//	    ...
//	}
//
// Registration names the direct bases and how to reach their sub-objects:
//
//	var engineClass = object.MustRegister(object.ClassSpec{
//	    Name:  "Engine",
//	    Bases: []*object.Class{engineStateClass},
//	    New:   func() object.Dynamic { return new(Engine) },
//	    Upcasts: object.Upcasts{
//	        engineStateClass: func(d object.Dynamic) object.Dynamic {
//	            return &d.(*Engine).EngineState
//	        },
//	    },
//	    Construct: engineConstruct,
//	    Destruct:  engineDestruct,
//	})
//
// # Casting
//
// DynamicCast walks the instance's ancestor relations; casting to the own
// class is the first-checked path, and a cast result can always be cast back
// to the most-derived class, returning the original object. IsInstanceOf
// never mutates. FindAncestorOfType walks the ownership tree upward, which
// is how a descendant locates shared-context objects without storing direct
// pointers.
//
// # Creation
//
// Create runs the full factory flow: allocate and zero, initialize RTTI,
// link into the parent's child list, resolve the variant index from the
// nearest hal.Owner ancestor, bind every dispatch slot, then run base
// constructors root-first. On any failure the already-constructed bases are
// destructed in reverse, the object is unlinked and freed, and the caller
// receives the originating status; a partially constructed object is never
// returned. CreateWithIndex threads the variant index explicitly instead of
// resolving it through the tree.
//
// # Concurrency
//
// Classes and cast graphs are immutable after registration. An instance's
// dispatch bindings are write-once during creation and read-only afterwards.
// The ownership tree is not locked: creation, destruction, and tree
// mutation are synchronous operations serialized by the caller.
package object
