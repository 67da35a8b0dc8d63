package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInterface() *ComponentInterface {
	return &ComponentInterface{
		Namespace: "geometry",
		Enums: []EnumDefinition{
			{Name: "Color", Variants: []string{"A", "B", "C"}},
		},
		Records: []RecordDefinition{
			{Name: "Point", Fields: []Field{{Name: "x", Type: Double{}}, {Name: "y", Type: Double{}}}},
		},
		Functions: []FunctionDefinition{
			{
				Name:       "norm",
				Arguments:  []Argument{{Name: "p", Type: Record{Name: "Point"}}},
				ReturnType: Double{},
				FFIFunc:    FunctionFFI("geometry", "norm", []Argument{{Name: "p", Type: Record{Name: "Point"}}}, Double{}),
			},
		},
		Objects: []ObjectDefinition{
			{
				Name: "Counter",
				Constructors: []ConstructorDefinition{
					{Name: "new", FFIFunc: ConstructorFFI("geometry", "Counter", "new", nil)},
				},
				Methods: []MethodDefinition{
					{Name: "bump", ReturnType: U32{}, FFIFunc: MethodFFI("geometry", "Counter", "bump", nil, U32{})},
				},
			},
		},
	}
}

func TestEnumOrdinalsAreOneBased(t *testing.T) {
	e := EnumDefinition{Name: "Letter", Variants: []string{"A", "B", "C"}}

	for i, want := range []uint32{1, 2, 3} {
		got, ok := e.Ordinal(e.Variants[i])
		require.True(t, ok)
		assert.Equal(t, want, got)

		name, ok := e.Variant(want)
		require.True(t, ok)
		assert.Equal(t, e.Variants[i], name)
	}

	_, ok := e.Variant(0)
	assert.False(t, ok, "ordinal 0 is reserved")
	_, ok = e.Variant(4)
	assert.False(t, ok)
	_, ok = e.Ordinal("D")
	assert.False(t, ok)
}

func TestLookups(t *testing.T) {
	ci := sampleInterface()

	_, ok := ci.Enum("Color")
	assert.True(t, ok)
	_, ok = ci.Record("Point")
	assert.True(t, ok)
	_, ok = ci.Object("Counter")
	assert.True(t, ok)
	_, ok = ci.Function("norm")
	assert.True(t, ok)
	_, ok = ci.Record("Color")
	assert.False(t, ok)
}

func TestFFIFunctionsOrder(t *testing.T) {
	ci := sampleInterface()

	var names []string
	for _, fn := range ci.FFIFunctions() {
		names = append(names, fn.Name)
	}
	assert.Equal(t, []string{
		"geometry_bytebuffer_alloc",
		"geometry_bytebuffer_free",
		"geometry_norm",
		"geometry_counter_new",
		"geometry_counter_bump",
	}, names)
}

func TestMethodFFIPrependsHandle(t *testing.T) {
	fn := MethodFFI("ns", "Obj", "run", []Argument{{Name: "n", Type: U32{}}}, nil)

	require.Len(t, fn.Arguments, 2)
	assert.Equal(t, "handle", fn.Arguments[0].Name)
	assert.Equal(t, U64{}, fn.Arguments[0].Type)
	assert.Equal(t, "n", fn.Arguments[1].Name)
	assert.Nil(t, fn.ReturnType)
}

func TestConstructorFFIReturnsHandle(t *testing.T) {
	fn := ConstructorFFI("ns", "Obj", "new", nil)
	assert.Equal(t, "ns_obj_new", fn.Name)
	assert.Equal(t, U64{}, fn.ReturnType)
	assert.Empty(t, fn.Arguments)
}

func TestTypeStrings(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{U32{}, "u32"},
		{U64{}, "u64"},
		{Float{}, "float"},
		{Double{}, "double"},
		{Boolean{}, "boolean"},
		{Bytes{}, "bytes"},
		{String{}, "string"},
		{Enum{Name: "Color"}, "enum:Color"},
		{Record{Name: "Point"}, "record:Point"},
		{Object{Name: "Counter"}, "object:Counter"},
		{Optional{Inner: Double{}}, "optional<double>"},
		{Optional{Inner: Optional{Inner: Record{Name: "P"}}}, "optional<optional<record:P>>"},
		{Sequence{Inner: U32{}}, "sequence<u32>"},
		{Map{Value: Double{}}, "map<double>"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestWireSize(t *testing.T) {
	tests := []struct {
		typ  Type
		size int
		ok   bool
	}{
		{Boolean{}, 1, true},
		{U32{}, 4, true},
		{Float{}, 4, true},
		{Enum{Name: "E"}, 4, true},
		{U64{}, 8, true},
		{Double{}, 8, true},
		{Record{Name: "R"}, 0, false},
		{Optional{Inner: Double{}}, 0, false},
		{Object{Name: "O"}, 0, false},
		{Bytes{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			size, ok := WireSize(tt.typ)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.size, size)
		})
	}
}

func TestWalkVisitsNestedTypes(t *testing.T) {
	var seen []string
	Walk(Optional{Inner: Sequence{Inner: Record{Name: "P"}}}, func(t Type) {
		seen = append(seen, string(t.Kind()))
	})
	assert.Equal(t, []string{"optional", "sequence", "record"}, seen)
}

func TestIsScalar(t *testing.T) {
	assert.True(t, IsScalar(U32{}))
	assert.True(t, IsScalar(Boolean{}))
	assert.False(t, IsScalar(Enum{Name: "E"}))
	assert.False(t, IsScalar(Object{Name: "O"}))
	assert.False(t, IsScalar(Optional{Inner: U32{}}))
}

func TestErrorsMatchSentinels(t *testing.T) {
	var err error = NewUnsupportedType("lower", Sequence{Inner: U32{}})
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), "sequence<u32>")
	assert.Contains(t, err.Error(), "lower")

	err = &UnsupportedConstructorArityError{Object: "Counter", Count: 2}
	assert.ErrorIs(t, err, ErrUnsupportedConstructorArity)
	assert.NotErrorIs(t, err, ErrUnsupportedType)
}
