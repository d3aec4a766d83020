// Package gvalue is Glint's value representation: a tagged union over
// {Bool, Nil, Number, Obj}, plus the heap-object model (currently just
// strings) that Values of kind Obj point at.
//
// This mirrors the teacher's compiler.Bytecode.ConstantsPool ([]any) design
// one level more precisely: spec.md requires tag-dispatched equality and
// truthiness (NaN != NaN, different tags never equal), which a bare `any`
// can't express without a type switch at every use site. Value centralizes
// that switch once.
package gvalue

import (
	"fmt"
	"strconv"
)

// Kind discriminates the Value union.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObj
)

// Value is a small tagged struct, not an interface — keeping it a value
// type means pushing/popping it on the VM stack never allocates.
type Value struct {
	kind   Kind
	b      bool
	number float64
	obj    Obj
}

func Nil() Value               { return Value{kind: KindNil} }
func Bool(b bool) Value        { return Value{kind: KindBool, b: b} }
func Number(n float64) Value   { return Value{kind: KindNumber, number: n} }
func FromObj(o Obj) Value      { return Value{kind: KindObj, obj: o} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNil() bool  { return v.kind == KindNil }
func (v Value) IsBool() bool { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObj() bool  { return v.kind == KindObj }

func (v Value) AsBool() bool      { return v.b }
func (v Value) AsNumber() float64 { return v.number }
func (v Value) AsObj() Obj        { return v.obj }

// AsObjString returns the Value's underlying *ObjString and true, or
// (nil, false) if the Value is not a string object. Every call site must
// check the bool; there is no unchecked cast, resolving spec.md's open
// question about AS_STRING on a non-string object.
func (v Value) AsObjString() (*ObjString, bool) {
	if v.kind != KindObj {
		return nil, false
	}
	s, ok := v.obj.(*ObjString)
	return s, ok
}

func (v Value) IsString() bool {
	_, ok := v.AsObjString()
	return ok
}

// IsFalsey reports whether v is Nil or Bool(false); every other Value is
// truthy.
func (v Value) IsFalsey() bool {
	return v.kind == KindNil || (v.kind == KindBool && !v.b)
}

// Equal implements the tagged-union equality of spec.md §3: different tags
// are never equal; Nil == Nil; numbers compare bitwise-by-IEEE-value (so
// NaN != NaN); booleans compare by value; strings compare by length then
// byte content.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.number == b.number
	case KindObj:
		as, aok := a.AsObjString()
		bs, bok := b.AsObjString()
		if aok && bok {
			return as.Chars == bs.Chars
		}
		return a.obj == b.obj
	}
	return false
}

// String renders v the way OP_PRINT does: nil -> "nil", bools -> "true"/
// "false", numbers -> shortest round-trip decimal (trailing zeros trimmed,
// scientific above threshold — Go's 'g' verb already matches this), strings
// -> raw bytes.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	case KindObj:
		return v.obj.String()
	}
	return fmt.Sprintf("<invalid value kind %d>", v.kind)
}
