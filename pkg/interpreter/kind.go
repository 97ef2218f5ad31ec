package interpreter

// Register is the single accumulator an invocation passes results through.
// Every executed instruction overwrites it unconditionally.
type Register struct {
	v Value
}

// Value returns a copy of the held value.
func (r *Register) Value() Value { return r.v }

// Set replaces the held value.
func (r *Register) Set(v Value) { r.v = v }

func (r *Register) Int32() int32 { return r.v.I32 }
func (r *Register) Int64() int64 { return r.v.I64 }
func (r *Register) Float32() float32 { return r.v.F32 }
func (r *Register) Float64() float64 { return r.v.F64 }
func (r *Register) Bool() bool { return r.v.Bool }
func (r *Register) Ref() any { return r.v.Ref }

func (r *Register) SetInt32(v int32) { r.v = Value{Cat: CatInt32, I32: v} }
func (r *Register) SetInt64(v int64) { r.v = Value{Cat: CatInt64, I64: v} }
func (r *Register) SetFloat32(v float32) { r.v = Value{Cat: CatFloat32, F32: v} }
func (r *Register) SetFloat64(v float64) { r.v = Value{Cat: CatFloat64, F64: v} }
func (r *Register) SetBool(v bool) { r.v = Value{Cat: CatBool, Bool: v} }
func (r *Register) SetRef(v any) { r.v = Value{Cat: CatRef, Ref: v} }

// Kind binds a Go element type to its category. The six marker types below
// are the only implementations; specialized instructions are instantiated
// over them so the hot path never inspects the register tag.
type Kind[T any] interface {
	Category() Category
	load(r *Register) T
	store(r *Register, v T)
	region(f *Frame) []T
}

// Number is the element constraint for arithmetic, ordering and negation.
type Number interface {
	~int32 | ~int64 | ~float32 | ~float64
}

// Integer is the element constraint for Mod.
type Integer interface {
	~int32 | ~int64
}

type (
	Int32   struct{}
	Int64   struct{}
	Float32 struct{}
	Float64 struct{}
	Bool    struct{}
	Ref     struct{}
)

func (Int32) Category() Category { return CatInt32 }
func (Int32) load(r *Register) int32 { return r.v.I32 }
func (Int32) store(r *Register, v int32) { r.SetInt32(v) }
func (Int32) region(f *Frame) []int32 { return f.Int32s }

func (Int64) Category() Category { return CatInt64 }
func (Int64) load(r *Register) int64 { return r.v.I64 }
func (Int64) store(r *Register, v int64) { r.SetInt64(v) }
func (Int64) region(f *Frame) []int64 { return f.Int64s }

func (Float32) Category() Category { return CatFloat32 }
func (Float32) load(r *Register) float32 { return r.v.F32 }
func (Float32) store(r *Register, v float32) { r.SetFloat32(v) }
func (Float32) region(f *Frame) []float32 { return f.Float32s }

func (Float64) Category() Category { return CatFloat64 }
func (Float64) load(r *Register) float64 { return r.v.F64 }
func (Float64) store(r *Register, v float64) { r.SetFloat64(v) }
func (Float64) region(f *Frame) []float64 { return f.Float64s }

func (Bool) Category() Category { return CatBool }
func (Bool) load(r *Register) bool { return r.v.Bool }
func (Bool) store(r *Register, v bool) { r.SetBool(v) }
func (Bool) region(f *Frame) []bool { return f.Bools }

func (Ref) Category() Category { return CatRef }
func (Ref) load(r *Register) any { return r.v.Ref }
func (Ref) store(r *Register, v any) { r.SetRef(v) }
func (Ref) region(f *Frame) []any { return f.Refs }

// Take reads the register as K's element type.
func Take[T any, K Kind[T]](r *Register) T {
	var k K
	return k.load(r)
}

// Put writes v into the register tagged with K's category.
func Put[T any, K Kind[T]](r *Register, v T) {
	var k K
	k.store(r, v)
}

// CategoryOf returns the category K stands for.
func CategoryOf[T any, K Kind[T]]() Category {
	var k K
	return k.Category()
}
