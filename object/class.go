package object

import (
	"fmt"
	"hash/fnv"
	"reflect"
	"sort"
	"sync"

	"github.com/hwstack/obj-runtime/errors"
	"github.com/hwstack/obj-runtime/hal"
)

// ClassID is the unique identifier of a class, stable across a process run.
// It is derived from the class name; the registry rejects collisions.
type ClassID uint32

func classIDOf(name string) ClassID {
	h := fnv.New32a()
	h.Write([]byte(name))
	return ClassID(h.Sum32())
}

// Dynamic is implemented by every runtime-managed object. Embedding Object
// (directly or through the primary base chain) provides it. Classes with
// more than one Object-carrying base must define RuntimeObject explicitly,
// forwarding to the primary base.
type Dynamic interface {
	RuntimeObject() *Object
}

// UpcastFunc adjusts a derived object to one of its base sub-objects.
type UpcastFunc func(Dynamic) Dynamic

// Upcasts maps each direct base class to its sub-object accessor.
type Upcasts map[*Class]UpcastFunc

// ConstructFunc is a class's own constructor, run after its bases'. It may
// fail; failure unwinds the already-constructed bases.
type ConstructFunc func(self Dynamic, idx hal.Index) error

// DestructFunc is a class's own destructor. It must not fail.
type DestructFunc func(self Dynamic)

// DataInitFunc performs one-time field initialization, run immediately
// before the class's own constructor.
type DataInitFunc func(self Dynamic, idx hal.Index)

// BindFunc installs the class's dispatch-slot bindings into the instance.
// It runs once, before any constructor, after the variant index is known.
type BindFunc func(self Dynamic, idx hal.Index) error

// Relative is one entry of a class's cast graph: an ancestor (or the class
// itself), the accessor reaching its sub-object from the most-derived
// object, and that ancestor's own destructor entry point. The destructor is
// carried per ancestor so destruction is invokable from any point in the
// chain.
type Relative struct {
	Class  *Class
	Upcast UpcastFunc
	Dtor   DestructFunc
}

// chainLink is one step of the flattened root-first construction chain.
type chainLink struct {
	class  *Class
	upcast UpcastFunc
}

// Class is the immutable descriptor of a registered class.
type Class struct {
	id           ClassID
	name         string
	size         uintptr
	rtype        reflect.Type
	needsVariant bool
	spec         ClassSpec
	relatives    []Relative
	chain        []chainLink
}

// ClassSpec describes a class for registration.
type ClassSpec struct {
	// Name is the display name; it also seeds the ClassID.
	Name string

	// Bases lists the direct base classes in construction order. A class
	// with no bases implicitly derives from Object.
	Bases []*Class

	// Upcasts supplies the sub-object accessor for each direct base. The
	// implicit Object base needs no entry.
	Upcasts Upcasts

	// New allocates a zeroed instance of the most-derived struct.
	New func() Dynamic

	// InitData, Construct, Destruct and BindDispatch are the class's own
	// lifecycle hooks; each receives the class's sub-object, from which the
	// most-derived object is reachable via RuntimeObject().Self().
	InitData     DataInitFunc
	Construct    ConstructFunc
	Destruct     DestructFunc
	BindDispatch BindFunc
}

// ID returns the class identifier.
func (c *Class) ID() ClassID { return c.id }

// Name returns the class display name.
func (c *Class) Name() string { return c.name }

// Size returns the instance size in bytes.
func (c *Class) Size() uintptr { return c.size }

// Bases returns the direct base classes in construction order.
func (c *Class) Bases() []*Class { return append([]*Class(nil), c.spec.Bases...) }

// Relatives returns the cast graph: the class itself first (offset-zero
// entry), then each ancestor.
func (c *Class) Relatives() []Relative { return append([]Relative(nil), c.relatives...) }

func (c *Class) String() string {
	return fmt.Sprintf("%s(0x%08x)", c.name, uint32(c.id))
}

// destructSelfChain runs the class's destructor chain on its own sub-object:
// the class's own teardown first, then each base leaf-to-root.
func (c *Class) destructSelfChain(sub Dynamic) {
	for i := len(c.chain) - 1; i >= 0; i-- {
		link := c.chain[i]
		if link.class.spec.Destruct != nil {
			link.class.spec.Destruct(link.upcast(sub))
		}
	}
}

// Registry holds registered classes. The package-level registry is the one
// Create and the inspector use; separate registries exist only for tests.
type Registry struct {
	mu     sync.RWMutex
	byID   map[ClassID]*Class
	byName map[string]*Class
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[ClassID]*Class),
		byName: make(map[string]*Class),
	}
}

var defaultRegistry = NewRegistry()

// ObjectClass is the root of every primary inheritance chain. Instances of
// all registered classes cast to it.
var ObjectClass = mustRegisterObjectRoot()

// objectRoot mirrors ObjectClass. Register reads the root through this
// unexported alias, which has no initializer, so the exported variable's
// initialization does not form a cycle with Register.
var objectRoot *Class

func mustRegisterObjectRoot() *Class {
	c, err := defaultRegistry.Register(ClassSpec{
		Name: "Object",
		New:  func() Dynamic { return new(Object) },
	})
	if err != nil {
		panic(err)
	}
	objectRoot = c
	return c
}

// Register validates the spec, computes the cast graph and construction
// chain, and publishes the class.
func (r *Registry) Register(spec ClassSpec) (*Class, error) {
	if spec.Name == "" {
		return nil, errors.InvalidArgument(errors.PhaseRegistry, "class name must not be empty")
	}
	if spec.New == nil {
		return nil, errors.New(errors.PhaseRegistry, errors.KindInvalidArgument).
			Class(spec.Name).
			Detail("New factory must not be nil").
			Build()
	}

	proto := spec.New()
	if proto == nil {
		return nil, errors.New(errors.PhaseRegistry, errors.KindInvalidArgument).
			Class(spec.Name).
			Detail("New factory returned nil").
			Build()
	}
	rt := reflect.TypeOf(proto)
	if rt.Kind() != reflect.Pointer {
		return nil, errors.New(errors.PhaseRegistry, errors.KindInvalidArgument).
			Class(spec.Name).
			Detail("New factory must return a pointer, got %s", rt.Kind()).
			Build()
	}

	// Every chain except Object's own roots at Object.
	bases := spec.Bases
	upcasts := spec.Upcasts
	if len(bases) == 0 && spec.Name != "Object" {
		bases = []*Class{objectRoot}
	}

	c := &Class{
		id:    classIDOf(spec.Name),
		name:  spec.Name,
		size:  rt.Elem().Size(),
		rtype: rt,
		spec:  spec,
	}
	c.spec.Bases = bases

	var raw []chainLink
	for _, base := range bases {
		up := upcasts[base]
		if base == objectRoot && up == nil {
			up = func(d Dynamic) Dynamic { return d.RuntimeObject() }
		}
		if up == nil {
			return nil, errors.New(errors.PhaseRegistry, errors.KindInvalidArgument).
				Class(spec.Name).
				Detail("missing upcast for direct base %s", base.name).
				Build()
		}
		for _, link := range base.chain {
			raw = append(raw, chainLink{
				class:  link.class,
				upcast: compose(up, link.upcast),
			})
		}
	}
	raw = append(raw, chainLink{class: c, upcast: identity})

	// Every base chain roots at Object; the first (primary-chain)
	// occurrence keeps the Object entry, later ones collapse into it. Any
	// other repeated base is a diamond, which the layout model rejects.
	seen := make(map[*Class]struct{}, len(raw))
	for _, link := range raw {
		if _, dup := seen[link.class]; dup {
			if link.class == objectRoot {
				continue
			}
			return nil, errors.New(errors.PhaseRegistry, errors.KindInvalidArgument).
				Class(spec.Name).
				Detail("base %s is inherited twice; shared bases are not supported", link.class.name).
				Build()
		}
		seen[link.class] = struct{}{}
		c.chain = append(c.chain, link)
	}

	for _, link := range c.chain {
		if link.class.spec.BindDispatch != nil {
			c.needsVariant = true
			break
		}
	}

	// Cast graph: self first, then ancestors derived-to-root.
	c.relatives = append(c.relatives, Relative{
		Class:  c,
		Upcast: identity,
		Dtor:   c.destructSelfChain,
	})
	for i := len(c.chain) - 2; i >= 0; i-- {
		link := c.chain[i]
		c.relatives = append(c.relatives, Relative{
			Class:  link.class,
			Upcast: link.upcast,
			Dtor:   link.class.destructSelfChain,
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byName[c.name]; dup {
		return nil, errors.AlreadyRegistered(c.name, "duplicate class name")
	}
	if prev, collision := r.byID[c.id]; collision {
		return nil, errors.New(errors.PhaseRegistry, errors.KindAlreadyRegistered).
			Class(c.name).
			Detail("ClassID 0x%08x collides with class %s", uint32(c.id), prev.name).
			Build()
	}
	r.byID[c.id] = c
	r.byName[c.name] = c
	return c, nil
}

// MustRegister is Register panicking on error; class tables are static and
// a malformed one is a defect.
func (r *Registry) MustRegister(spec ClassSpec) *Class {
	c, err := r.Register(spec)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the class with the given identifier.
func (r *Registry) Lookup(id ClassID) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	return c, ok
}

// LookupName returns the class with the given name.
func (r *Registry) LookupName(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	return c, ok
}

// Classes returns all registered classes sorted by name.
func (r *Registry) Classes() []*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Class, 0, len(r.byName))
	for _, c := range r.byName {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Register registers a class in the default registry.
func Register(spec ClassSpec) (*Class, error) { return defaultRegistry.Register(spec) }

// MustRegister registers a class in the default registry, panicking on error.
func MustRegister(spec ClassSpec) *Class { return defaultRegistry.MustRegister(spec) }

// Lookup finds a class by identifier in the default registry.
func Lookup(id ClassID) (*Class, bool) { return defaultRegistry.Lookup(id) }

// LookupName finds a class by name in the default registry.
func LookupName(name string) (*Class, bool) { return defaultRegistry.LookupName(name) }

// Classes lists the default registry sorted by name.
func Classes() []*Class { return defaultRegistry.Classes() }

func identity(d Dynamic) Dynamic { return d }

func compose(outer, inner UpcastFunc) UpcastFunc {
	return func(d Dynamic) Dynamic { return inner(outer(d)) }
}
