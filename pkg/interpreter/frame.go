package interpreter

// Totals declares how many slots each frame region holds.
type Totals struct {
	Int32   int `yaml:"int32,omitempty"`
	Int64   int `yaml:"int64,omitempty"`
	Float32 int `yaml:"float32,omitempty"`
	Float64 int `yaml:"float64,omitempty"`
	Bool    int `yaml:"bool,omitempty"`
	Ref     int `yaml:"ref,omitempty"`
}

// Of returns the declared size for one category.
func (t Totals) Of(c Category) int {
	switch c {
	case CatInt32:
		return t.Int32
	case CatInt64:
		return t.Int64
	case CatFloat32:
		return t.Float32
	case CatFloat64:
		return t.Float64
	case CatBool:
		return t.Bool
	default:
		return t.Ref
	}
}

// With returns a copy of t with the size for c replaced.
func (t Totals) With(c Category, n int) Totals {
	switch c {
	case CatInt32:
		t.Int32 = n
	case CatInt64:
		t.Int64 = n
	case CatFloat32:
		t.Float32 = n
	case CatFloat64:
		t.Float64 = n
	case CatBool:
		t.Bool = n
	default:
		t.Ref = n
	}
	return t
}

// Frame is the storage of one invocation or object instance: six
// independently indexed regions whose sizes never change.
type Frame struct {
	Int32s   []int32
	Int64s   []int64
	Float32s []float32
	Float64s []float64
	Bools    []bool
	Refs     []any
}

// NewFrame allocates a zero-filled frame sized by t.
func NewFrame(t Totals) *Frame {
	return &Frame{
		Int32s:   make([]int32, t.Int32),
		Int64s:   make([]int64, t.Int64),
		Float32s: make([]float32, t.Float32),
		Float64s: make([]float64, t.Float64),
		Bools:    make([]bool, t.Bool),
		Refs:     make([]any, t.Ref),
	}
}

// Totals reports the sizes the frame was allocated with.
func (f *Frame) Totals() Totals {
	return Totals{
		Int32:   len(f.Int32s),
		Int64:   len(f.Int64s),
		Float32: len(f.Float32s),
		Float64: len(f.Float64s),
		Bool:    len(f.Bools),
		Ref:     len(f.Refs),
	}
}

// LoadSlot reads region K at index i.
func LoadSlot[T any, K Kind[T]](f *Frame, i int) (T, error) {
	var k K
	region := k.region(f)
	if i < 0 || i >= len(region) {
		var zero T
		return zero, slotFault(k.Category(), i, len(region))
	}
	return region[i], nil
}

// StoreSlot writes v into region K at index i.
func StoreSlot[T any, K Kind[T]](f *Frame, i int, v T) error {
	var k K
	region := k.region(f)
	if i < 0 || i >= len(region) {
		return slotFault(k.Category(), i, len(region))
	}
	region[i] = v
	return nil
}

// Load reads slot i of region c as a tagged value.
func (f *Frame) Load(c Category, i int) (Value, error) {
	var (
		v   = Value{Cat: c}
		err error
	)
	switch c {
	case CatInt32:
		v.I32, err = LoadSlot[int32, Int32](f, i)
	case CatInt64:
		v.I64, err = LoadSlot[int64, Int64](f, i)
	case CatFloat32:
		v.F32, err = LoadSlot[float32, Float32](f, i)
	case CatFloat64:
		v.F64, err = LoadSlot[float64, Float64](f, i)
	case CatBool:
		v.Bool, err = LoadSlot[bool, Bool](f, i)
	default:
		v.Ref, err = LoadSlot[any, Ref](f, i)
	}
	return v, err
}

// Store writes v into slot i of the region selected by v.Cat.
func (f *Frame) Store(i int, v Value) error {
	switch v.Cat {
	case CatInt32:
		return StoreSlot[int32, Int32](f, i, v.I32)
	case CatInt64:
		return StoreSlot[int64, Int64](f, i, v.I64)
	case CatFloat32:
		return StoreSlot[float32, Float32](f, i, v.F32)
	case CatFloat64:
		return StoreSlot[float64, Float64](f, i, v.F64)
	case CatBool:
		return StoreSlot[bool, Bool](f, i, v.Bool)
	default:
		return StoreSlot[any, Ref](f, i, v.Ref)
	}
}
