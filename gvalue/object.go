package gvalue

// ObjType tags the concrete kind of a heap Obj. String is the only variant
// in scope; the tag still exists because the intrusive list and the
// Obj interface are designed to grow more variants the way clox's object.h
// does (closures, instances) without this spec needing them yet.
type ObjType int

const (
	ObjTypeString ObjType = iota
)

// Obj is any heap-allocated Glint object. Its two non-printing methods give
// it a place in the VM's intrusive allocation list: objHeader.next forms a
// singly linked list rooted at VM.objects, mirroring the C idiom of
// embedding `struct Obj` as the first field of every object struct so a
// single linked list can walk values of differing concrete type.
type Obj interface {
	Type() ObjType
	String() string

	setNext(o Obj)
	next() Obj
}

type objHeader struct {
	typ  ObjType
	link Obj
}

func (h *objHeader) Type() ObjType  { return h.typ }
func (h *objHeader) setNext(o Obj)  { h.link = o }
func (h *objHeader) next() Obj      { return h.link }

// ObjString is a heap string: an owned, immutable byte sequence plus its
// precomputed FNV-1a hash (computed once at construction, per spec.md §4.4,
// so the hash table never re-hashes a key on lookup).
type ObjString struct {
	objHeader
	Chars string
	Hash  uint32
}

func (s *ObjString) String() string { return s.Chars }

// hashString computes the 32-bit FNV-1a hash spec.md mandates: offset basis
// 2166136261, prime 16777619, XOR-then-multiply per byte, wrapping at 32
// bits (uint32 arithmetic wraps natively in Go).
func hashString(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// newObjString builds the object header and hash common to both
// construction paths below.
func newObjString(chars string) *ObjString {
	return &ObjString{
		objHeader: objHeader{typ: ObjTypeString},
		Chars:     chars,
		Hash:      hashString(chars),
	}
}

// Link prepends o onto the intrusive list headed by head and returns the
// new head. The VM uses this as its Register implementation; it is exported
// so the VM package (which owns the list's root, not its node type) can
// thread the link without gvalue reaching back into vm.
func Link(head Obj, o Obj) Obj {
	o.setNext(head)
	return o
}

// Next returns the next object in the intrusive allocation list after o, or
// nil at the end of the list. Used by tests asserting the list shape.
func Next(o Obj) Obj {
	if o == nil {
		return nil
	}
	return o.next()
}

// Allocator is the minimal surface gvalue needs from its owner (the VM) to
// register newly created objects on the intrusive bulk-release list. VM
// satisfies this by prepending to its objects field.
type Allocator interface {
	Register(o Obj)
}

// CopyString allocates a fresh heap copy of chars and registers it with a.
// This is the path the compiler uses for string literals, where chars is a
// slice of the scanner's source and must not be aliased past compilation.
func CopyString(a Allocator, chars string) *ObjString {
	s := newObjString(string([]byte(chars))) // force a copy; chars may be a scanner source slice
	a.Register(s)
	return s
}

// TakeString wraps an already-built string buffer (e.g. the product of
// OP_ADD string concatenation in the VM) without copying it again, then
// registers it with a. This is the only path that models clox's
// take_string ownership transfer.
func TakeString(a Allocator, chars string) *ObjString {
	s := newObjString(chars)
	a.Register(s)
	return s
}
