// Package objruntime provides an embedded object runtime for device-driver
// style Go code: single-rooted inheritance chains, runtime type
// identification with safe upcast/downcast, construction and destruction
// chaining across base classes, deterministic parent/child ownership, and
// hardware-variant ("HAL") dispatch where each virtual operation is bound
// per instance to one of several variant-specific implementations.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct
// responsibilities:
//
//	obj-runtime/         Root package (this overview)
//	├── object/          Class metadata, cast graph, create/destroy, object tree
//	├── hal/             Variant axes, bitmask predicates, dispatch slots
//	├── engstate/        Engine-state lifecycle base class and orchestrator
//	├── memsys/          Concrete HAL client (memory-kind and coherency policy)
//	├── errors/          Structured status values for debugging
//	└── cmd/inspect/     Registry and bring-up inspector CLI
//
// # Quick Start
//
// Declare a class, create an instance under a variant-owning parent, and
// call through its bound dispatch table:
//
//	var deviceClass = object.MustRegister(object.ClassSpec{
//	    Name: "Device",
//	    New:  func() object.Dynamic { return new(Device) },
//	    Construct: func(self object.Dynamic, idx hal.Index) error {
//	        return nil
//	    },
//	})
//
//	dev, err := object.CreateWithIndex(deviceClass, nil, idx, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer object.Destroy(dev)
//
// Dispatch slots bind once, at construction time, after the variant index is
// resolved and before any constructor runs:
//
//	var chooseKind = hal.NewSlot[func(PageFormat) PTEKind]("chooseKindZ").
//	    When(chooseKindGB20B, ChipFamily.Mask("GB20B")).
//	    Default(chooseKindTU102)
//
// # Lifetime Model
//
// Class descriptors and cast graphs are immutable after registration and
// safe for unsynchronized concurrent reads. Instances are created by a
// factory call, live in a single-owner tree, and are destroyed explicitly;
// destroying a parent destroys its children first. There is no garbage
// collection of runtime objects beyond Go's own, and no dynamic re-binding
// of dispatch tables.
package objruntime
