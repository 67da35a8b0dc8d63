package compiler

import (
	"errors"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindgen/internal/ir"
)

func compile(t *testing.T, src string) (*ir.ComponentInterface, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return CompileInterface(v)
}

func TestCompileInterfaceBasic(t *testing.T) {
	ci, err := compile(t, `
		namespace: "geometry"
		enum: Color: ["red", "green", "blue"]
		record: Point: fields: [{name: "x", type: "double"}, {name: "y", type: "double"}]
		function: norm: {
			args: [{name: "p", type: "Point"}]
			returns: "double"
		}
		object: Counter: {
			constructors: [{name: "new", args: [{name: "start", type: "u32"}]}]
			methods: [{name: "increment", returns: "u32"}]
		}
	`)
	require.NoError(t, err)

	assert.Equal(t, "geometry", ci.Namespace)

	require.Len(t, ci.Enums, 1)
	assert.Equal(t, []string{"red", "green", "blue"}, ci.Enums[0].Variants)

	require.Len(t, ci.Records, 1)
	assert.Equal(t, []ir.Field{
		{Name: "x", Type: ir.Double{}},
		{Name: "y", Type: ir.Double{}},
	}, ci.Records[0].Fields)

	require.Len(t, ci.Functions, 1)
	fn := ci.Functions[0]
	assert.Equal(t, "norm", fn.Name)
	assert.Equal(t, ir.Double{}, fn.ReturnType)
	assert.Equal(t, "geometry_norm", fn.FFIFunc.Name)
	assert.Equal(t, []ir.Argument{{Name: "p", Type: ir.Record{Name: "Point"}}}, fn.Arguments)

	require.Len(t, ci.Objects, 1)
	obj := ci.Objects[0]
	require.Len(t, obj.Constructors, 1)
	assert.Equal(t, "geometry_counter_new", obj.Constructors[0].FFIFunc.Name)
	assert.Equal(t, ir.U64{}, obj.Constructors[0].FFIFunc.ReturnType)
	require.Len(t, obj.Methods, 1)
	assert.Equal(t, "geometry_counter_increment", obj.Methods[0].FFIFunc.Name)
	assert.Equal(t, "handle", obj.Methods[0].FFIFunc.Arguments[0].Name)
}

func TestCompileInterfaceForwardReferences(t *testing.T) {
	ci, err := compile(t, `
		namespace: "fwd"
		record: Line: fields: [{name: "start", type: "Point"}, {name: "tag", type: "Tag?"}]
		record: Point: fields: [{name: "x", type: "double"}]
		enum: Tag: ["a"]
	`)
	require.NoError(t, err)

	assert.Equal(t, ir.Record{Name: "Point"}, ci.Records[0].Fields[0].Type)
	assert.Equal(t, ir.Optional{Inner: ir.Enum{Name: "Tag"}}, ci.Records[0].Fields[1].Type)
}

func TestCompileInterfacePreservesDeclarationOrder(t *testing.T) {
	ci, err := compile(t, `
		namespace: "order"
		function: zeta: {}
		function: alpha: {}
		function: mid: {}
	`)
	require.NoError(t, err)

	var names []string
	for _, fn := range ci.Functions {
		names = append(names, fn.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestCompileInterfaceVoidFunction(t *testing.T) {
	ci, err := compile(t, `
		namespace: "void"
		function: reset: {}
	`)
	require.NoError(t, err)

	require.Len(t, ci.Functions, 1)
	assert.Nil(t, ci.Functions[0].ReturnType)
	assert.Nil(t, ci.Functions[0].FFIFunc.ReturnType)
	assert.Empty(t, ci.Functions[0].Arguments)
}

func TestCompileInterfaceUndefinedType(t *testing.T) {
	_, err := compile(t, `
		namespace: "bad"
		record: Point: fields: [{name: "x", type: "quaternion"}]
	`)
	require.Error(t, err)

	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, "type", compileErr.Field)
	assert.Contains(t, compileErr.Message, "quaternion")
}

func TestCompileInterfaceSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing namespace", `record: P: fields: []`},
		{"unknown section", `namespace: "x", struct: P: {}`},
		{"enum variants must be strings", `namespace: "x", enum: E: [1, 2]`},
		{"argument without type", `namespace: "x", function: f: args: [{name: "a"}]`},
		{"empty type expression", `namespace: "x", function: f: returns: ""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compile(t, tt.src)
			require.Error(t, err)
		})
	}
}
