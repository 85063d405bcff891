package object

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/hwstack/obj-runtime/errors"
	"github.com/hwstack/obj-runtime/hal"
)

// CreateFlags control the factory flow.
type CreateFlags uint32

const (
	// FlagInPlace constructs into caller-provided storage instead of
	// allocating; on failure the storage is scrubbed, not freed. Set
	// implicitly by CreateIn.
	FlagInPlace CreateFlags = 1 << iota

	// FlagHalspecOnly uses the parent for variant-index resolution only,
	// without linking the new object into its child list.
	FlagHalspecOnly
)

// Allocator is the storage contract the factory uses: allocate a zeroed
// instance, release one after destruction. The default heap allocator
// delegates to the class's New factory; Go zeroes the allocation.
type Allocator interface {
	Allocate(c *Class) Dynamic
	Free(d Dynamic)
}

// HeapAllocator is the default Allocator.
type HeapAllocator struct{}

// Allocate returns a zeroed instance of c.
func (HeapAllocator) Allocate(c *Class) Dynamic { return c.spec.New() }

// Free releases an instance. The garbage collector reclaims the storage
// once the last reference drops; the prologue has already been scrubbed so
// stale handles fail casts.
func (HeapAllocator) Free(d Dynamic) {}

var alloc Allocator = HeapAllocator{}

// SetAllocator replaces the factory's allocator, e.g. with an instance
// pool. Call before any object creation.
func SetAllocator(a Allocator) {
	if a != nil {
		alloc = a
	}
}

// Create allocates, initializes and constructs an instance of class under
// parent. It returns a fully constructed, fully dispatch-bound object or an
// error; never a partial object. The variant index is resolved from the
// nearest ancestor (parent included) implementing hal.Owner.
func Create(class *Class, parent Dynamic, flags CreateFlags) (Dynamic, error) {
	if flags&FlagInPlace != 0 {
		return nil, errors.InvalidArgument(errors.PhaseCreate, "FlagInPlace requires CreateIn")
	}
	return create(class, nil, parent, hal.Index{}, false, flags)
}

// CreateWithIndex is Create with the variant index threaded explicitly,
// bypassing the ancestor walk. Use it for context-owning roots.
func CreateWithIndex(class *Class, parent Dynamic, idx hal.Index, flags CreateFlags) (Dynamic, error) {
	if flags&FlagInPlace != 0 {
		return nil, errors.InvalidArgument(errors.PhaseCreate, "FlagInPlace requires CreateIn")
	}
	return create(class, nil, parent, idx, true, flags)
}

// CreateIn constructs class into caller-provided storage. The storage type
// must match the class's factory type and must not already be constructed.
func CreateIn(class *Class, storage Dynamic, parent Dynamic, flags CreateFlags) (Dynamic, error) {
	if class == nil {
		return nil, errors.InvalidArgument(errors.PhaseCreate, "nil class")
	}
	if storage == nil {
		return nil, errors.InvalidArgument(errors.PhaseCreate, "nil storage")
	}
	if rt := reflect.TypeOf(storage); rt != class.rtype {
		return nil, errors.New(errors.PhaseCreate, errors.KindInvalidArgument).
			Class(class.name).
			Detail("storage type %s does not match class type %s", rt, class.rtype).
			Build()
	}
	return create(class, storage, parent, hal.Index{}, false, flags|FlagInPlace)
}

// CreateInWithIndex is CreateIn with an explicit variant index.
func CreateInWithIndex(class *Class, storage Dynamic, parent Dynamic, idx hal.Index, flags CreateFlags) (Dynamic, error) {
	if class == nil {
		return nil, errors.InvalidArgument(errors.PhaseCreate, "nil class")
	}
	if storage == nil {
		return nil, errors.InvalidArgument(errors.PhaseCreate, "nil storage")
	}
	if rt := reflect.TypeOf(storage); rt != class.rtype {
		return nil, errors.New(errors.PhaseCreate, errors.KindInvalidArgument).
			Class(class.name).
			Detail("storage type %s does not match class type %s", rt, class.rtype).
			Build()
	}
	return create(class, storage, parent, idx, true, flags|FlagInPlace)
}

func create(class *Class, storage Dynamic, parent Dynamic, idx hal.Index, haveIdx bool, flags CreateFlags) (Dynamic, error) {
	if class == nil {
		return nil, errors.InvalidArgument(errors.PhaseCreate, "nil class")
	}
	if parent == nil && flags&FlagHalspecOnly != 0 {
		return nil, errors.New(errors.PhaseCreate, errors.KindInvalidArgument).
			Class(class.name).
			Detail("FlagHalspecOnly requires a parent").
			Build()
	}
	var parentObj *Object
	if parent != nil {
		parentObj = parent.RuntimeObject()
		if parentObj == nil || parentObj.class == nil {
			return nil, errors.New(errors.PhaseCreate, errors.KindInvalidArgument).
				Class(class.name).
				Detail("parent is not a constructed object").
				Build()
		}
	}

	inPlace := flags&FlagInPlace != 0
	self := storage
	if self == nil {
		self = alloc.Allocate(class)
		if self == nil {
			return nil, errors.OutOfMemory(class.name, class.size)
		}
	}

	o := self.RuntimeObject()
	if o.class != nil {
		return nil, errors.New(errors.PhaseCreate, errors.KindInvalidArgument).
			Class(class.name).
			Detail("storage is already constructed").
			Build()
	}
	if inPlace {
		// Zero is the initial value for everything.
		zeroStorage(self)
	}

	// Initialize runtime type information: every sub-object prologue learns
	// the most-derived class and object.
	for _, r := range class.relatives {
		p := r.Upcast(self).RuntimeObject()
		p.class = class
		p.self = self
	}
	o.createFlags = flags

	// Link the child into the parent unless flagged not to do so.
	var linkedParent *Object
	if parentObj != nil && flags&FlagHalspecOnly == 0 {
		if err := parentObj.addChild(o); err != nil {
			unwindCreate(o, class, nil, self, inPlace)
			return nil, err
		}
		linkedParent = parentObj
	}

	// Resolve the variant index: explicit, else nearest owning ancestor.
	if !haveIdx {
		if owner, ok := findVariantOwner(parentObj); ok {
			idx = owner.VariantIndex()
		} else if class.needsVariant {
			unwindCreate(o, class, linkedParent, self, inPlace)
			return nil, errors.New(errors.PhaseCreate, errors.KindInvalidArgument).
				Class(class.name).
				Detail("no ancestor provides a variant index").
				Build()
		}
	}

	// Bind every dispatch slot root-first, before any constructor runs.
	for _, link := range class.chain {
		if link.class.spec.BindDispatch == nil {
			continue
		}
		if err := link.class.spec.BindDispatch(link.upcast(self), idx); err != nil {
			unwindCreate(o, class, linkedParent, self, inPlace)
			return nil, err
		}
	}

	// Construction chain, root-first. Failure at step k unwinds the k-1
	// already-constructed steps in reverse and reports the originating
	// status.
	for k, link := range class.chain {
		sub := link.upcast(self)
		if link.class.spec.InitData != nil {
			link.class.spec.InitData(sub, idx)
		}
		if link.class.spec.Construct == nil {
			continue
		}
		if err := link.class.spec.Construct(sub, idx); err != nil {
			for j := k - 1; j >= 0; j-- {
				prev := class.chain[j]
				if prev.class.spec.Destruct != nil {
					prev.class.spec.Destruct(prev.upcast(self))
				}
			}
			unwindCreate(o, class, linkedParent, self, inPlace)
			Logger().Warn("object construction failed",
				zap.String("class", class.name),
				zap.Int("step", k+1),
				zap.Error(err))
			return nil, errors.ConstructionFailed(class.name, k+1, err)
		}
	}

	Logger().Debug("object created",
		zap.String("class", class.name),
		zap.String("index", idx.String()))
	return self, nil
}

// findVariantOwner searches from, then its ancestors, for a hal.Owner.
func findVariantOwner(from *Object) (hal.Owner, bool) {
	for p := from; p != nil; p = p.parent {
		if owner, ok := p.self.(hal.Owner); ok {
			return owner, true
		}
	}
	return nil, false
}

// unwindCreate reverses the side effects of a failed creation. The ctor
// chain has already destructed whatever it built; only unlinking and
// storage disposal remain. In-place storage is scrubbed rather than freed.
func unwindCreate(o *Object, class *Class, linkedParent *Object, self Dynamic, inPlace bool) {
	if linkedParent != nil {
		linkedParent.removeChild(o)
	}
	if inPlace {
		zeroStorage(self)
		return
	}
	scrubPrologues(class, self)
	alloc.Free(self)
}

// zeroStorage resets caller-provided storage to the zero value, matching
// the allocate-path guarantee that zero is the initial state.
func zeroStorage(self Dynamic) {
	rv := reflect.ValueOf(self).Elem()
	rv.Set(reflect.Zero(rv.Type()))
}

func scrubPrologues(class *Class, self Dynamic) {
	prologues := make([]*Object, 0, len(class.relatives))
	for _, r := range class.relatives {
		prologues = append(prologues, r.Upcast(self).RuntimeObject())
	}
	for _, p := range prologues {
		p.scrub()
	}
}

// Destroy tears an instance down: children first (no child outlives its
// parent), then the derived class's own teardown, then each base destructor
// leaf-to-root. Destroying an already-destroyed object is a no-op.
func Destroy(d Dynamic) {
	if d == nil {
		return
	}
	o := d.RuntimeObject()
	if o == nil || o.class == nil {
		return
	}
	for o.firstChild != nil {
		Destroy(o.firstChild.self)
	}

	class := o.class
	self := o.self
	Logger().Debug("object destroyed", zap.String("class", class.name))

	class.destructSelfChain(self)

	if o.parent != nil {
		o.parent.removeChild(o)
	}
	inPlace := o.createFlags&FlagInPlace != 0
	scrubPrologues(class, self)
	if !inPlace {
		alloc.Free(self)
	}
}
