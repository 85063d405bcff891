// Package memsys implements the kernel memory system engine: PTE-kind
// selection policy and I/O coherency detection, both dispatched on the
// hardware variant.
//
// The package owns the two variant axes the rest of the tree dispatches on:
// ChipFamily (TU102 through GB20B) and RMVariant (virtual function vs
// physical function). KernelMemorySystem derives from the engine lifecycle
// base class and resolves its policy slots once, when the instance is
// created for a concrete variant index.
package memsys
