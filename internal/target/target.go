// Package target provides the read-only target descriptor (C2): pointer
// width, platform integer sizes, and struct alignment rules for a given
// target triple. It is queried by instantiate (C6) for layout computation
// and has no knowledge of the AST.
package target

import (
	"fmt"
	"runtime"
)

// Descriptor is an immutable value object describing one compilation
// target. Every size/alignment is in bits, matching the AST's layout
// fields, except AlignofStruct which is in bytes (the unit the `where`-free
// alignment rule operates in).
type Descriptor struct {
	triple string

	pointerBits int
	usizeBits   int
	isizeBits   int

	// structAlignCapBytes is the maximum alignment a struct's own alignment
	// is ever rounded up to, regardless of its largest member (0 means
	// "no cap": use the largest member's alignment).
	structAlignCapBytes int
}

// Triple returns the target triple this descriptor describes.
func (d Descriptor) Triple() string { return d.triple }

// SizeofPtr is the pointer width in bits.
func (d Descriptor) SizeofPtr() int { return d.pointerBits }

// SizeofUsize is the platform unsigned size-word width in bits.
func (d Descriptor) SizeofUsize() int { return d.usizeBits }

// SizeofIsize is the platform signed size-word width in bits.
func (d Descriptor) SizeofIsize() int { return d.isizeBits }

// AlignofStruct returns the alignment, in bytes, a struct's overall
// alignment is capped to regardless of its largest member; 0 means
// uncapped.
func (d Descriptor) AlignofStruct() int { return d.structAlignCapBytes }

// known built-in sizes in bits, independent of target (fixed-width types
// never vary by platform; only usize/isize and pointers do).
var fixedSizes = map[string]int{
	"i8": 8, "u8": 8, "bool": 8,
	"i16": 16, "u16": 16,
	"i32": 32, "u32": 32, "f32": 32,
	"i64": 64, "u64": 64, "f64": 64,
	"void": 0,
}

// SizeofBuiltIn returns the size, in bits, of a fixed-width built-in by
// name, or the platform usize/isize width for those two names.
func (d Descriptor) SizeofBuiltIn(name string) (int, bool) {
	switch name {
	case "usize":
		return d.usizeBits, true
	case "isize":
		return d.isizeBits, true
	}
	if bits, ok := fixedSizes[name]; ok {
		return bits, true
	}
	return 0, false
}

// AlignofBuiltIn returns the natural alignment, in bits, of a fixed-width
// built-in; for this target model alignment equals size for every built-in
// up to the pointer width, and is capped at the pointer width beyond that
// (matching common ABI practice for the double-word types this language
// does not have, kept here for headroom).
func (d Descriptor) AlignofBuiltIn(name string) (int, bool) {
	size, ok := d.SizeofBuiltIn(name)
	if !ok {
		return 0, false
	}
	if size > d.pointerBits {
		return d.pointerBits, true
	}
	return size, true
}

// New constructs a Descriptor for an explicit triple. Supported triples:
// "x86_64", "aarch64", "wasm64" (64-bit, 8-byte pointers), "i686", "arm",
// "wasm32" (32-bit, 4-byte pointers).
func New(triple string) (Descriptor, error) {
	switch triple {
	case "x86_64", "aarch64", "wasm64":
		return Descriptor{triple: triple, pointerBits: 64, usizeBits: 64, isizeBits: 64}, nil
	case "i686", "arm", "wasm32":
		return Descriptor{triple: triple, pointerBits: 32, usizeBits: 32, isizeBits: 32}, nil
	default:
		return Descriptor{}, fmt.Errorf("target: unknown triple %q", triple)
	}
}

// Host returns the Descriptor for the platform the compiler itself is
// running on, the default target when no CLI triple override is given.
func Host() Descriptor {
	switch runtime.GOARCH {
	case "386", "arm":
		d, _ := New("i686")
		return d
	default:
		d, _ := New("x86_64")
		return d
	}
}
