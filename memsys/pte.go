package memsys

import "fmt"

// PTEKind selects the page table entry memory layout for a surface.
type PTEKind uint8

const (
	// KindGenericMemory is the uncompressed pitch/blocklinear fallback.
	KindGenericMemory PTEKind = iota
	KindZ16
	KindZ24S8
	KindZF32
	KindZF32X24S8
	KindS8
)

var pteKindNames = [...]string{
	KindGenericMemory: "GENERIC_MEMORY",
	KindZ16:           "Z16",
	KindZ24S8:         "Z24S8",
	KindZF32:          "ZF32",
	KindZF32X24S8:     "ZF32_X24S8",
	KindS8:            "S8",
}

func (k PTEKind) String() string {
	if int(k) >= len(pteKindNames) {
		return fmt.Sprintf("PTEKind(%d)", uint8(k))
	}
	return pteKindNames[k]
}

// PageFormat describes a depth/stencil surface for kind selection.
type PageFormat struct {
	Kind       PTEKind
	Compressed bool
}

// chooseKindZTU102 keeps the requested layout; pre-Blackwell chips have a
// dedicated PTE kind per depth format.
func chooseKindZTU102(f PageFormat) PTEKind {
	return f.Kind
}

// chooseKindZGB20B collapses the depth layouts Blackwell dropped: only S8
// and Z16 survive, everything else maps to generic memory.
func chooseKindZGB20B(f PageFormat) PTEKind {
	switch f.Kind {
	case KindS8, KindZ16:
		return f.Kind
	default:
		return KindGenericMemory
	}
}

// chooseKindCompressZDefault keeps the depth kind for compressed surfaces.
func chooseKindCompressZDefault(f PageFormat) PTEKind {
	return f.Kind
}

// chooseKindCompressZGB20B drops compression-specific depth kinds entirely.
func chooseKindCompressZGB20B(f PageFormat) PTEKind {
	if !f.Compressed {
		return chooseKindZGB20B(f)
	}
	return KindGenericMemory
}
