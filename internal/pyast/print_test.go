package pyast

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatExpr_Atoms(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"name", N("x"), "x"},
		{"dotted", Dot("ctypes", "c_uint32"), "ctypes.c_uint32"},
		{"string", Str{Value: `say "hi"`}, `"say \"hi\""`},
		{"int", Int{Value: 8}, "8"},
		{"none", NoneLit{}, "None"},
		{"call", C(N("f"), N("a"), Int{Value: 1}), "f(a, 1)"},
		{"empty call", C(Dot("cls", "_lift")), "cls._lift()"},
		{"keyword", C(N("load"), Keyword{Name: "componentName", Value: Str{Value: "ns"}}), `load(componentName="ns")`},
		{"empty tuple", Tuple{}, "()"},
		{"single tuple", Tuple{Elts: []Expr{N("a")}}, "(a,)"},
		{"pair tuple", Tuple{Elts: []Expr{N("a"), N("b")}}, "(a, b)"},
		{"list", List{Elts: []Expr{Str{Value: "A"}}}, `["A"]`},
		{"lambda", Lambda{Params: []string{"buf", "v"}, Body: C(Dot("buf", "putDouble"), N("v"))}, "lambda buf, v: buf.putDouble(v)"},
		{"lambda no params", Lambda{Body: Int{Value: 0}}, "lambda: 0"},
		{"int attribute", Attr{Value: Int{Value: 1}, Name: "real"}, "(1).real"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatExpr(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatExpr_Precedence(t *testing.T) {
	one, two, three := Int{Value: 1}, Int{Value: 2}, Int{Value: 3}

	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{
			"left assoc add",
			BinOp{Left: BinOp{Left: one, Op: "+", Right: two}, Op: "+", Right: three},
			"1 + 2 + 3",
		},
		{
			"right nested add",
			BinOp{Left: one, Op: "-", Right: BinOp{Left: two, Op: "+", Right: three}},
			"1 - (2 + 3)",
		},
		{
			"mul binds tighter",
			BinOp{Left: one, Op: "+", Right: BinOp{Left: two, Op: "*", Right: three}},
			"1 + 2 * 3",
		},
		{
			"add inside mul",
			BinOp{Left: BinOp{Left: one, Op: "+", Right: two}, Op: "*", Right: three},
			"(1 + 2) * 3",
		},
		{
			"ifexp inside add",
			BinOp{
				Left:  one,
				Op:    "+",
				Right: IfExp{Body: N("n"), Test: Compare{Left: N("v"), Op: "is not", Right: NoneLit{}}, Orelse: Int{Value: 0}},
			},
			"1 + (n if v is not None else 0)",
		},
		{
			"nested ifexp in orelse",
			IfExp{Body: one, Test: N("a"), Orelse: IfExp{Body: two, Test: N("b"), Orelse: three}},
			"1 if a else 2 if b else 3",
		},
		{
			"and of comparisons",
			BoolOp{Op: "and", Values: []Expr{
				C(N("isinstance"), N("o"), N("P")),
				Compare{Left: Dot("self", "x"), Op: "==", Right: Dot("o", "x")},
			}},
			"isinstance(o, P) and self.x == o.x",
		},
		{
			"or inside and",
			BoolOp{Op: "and", Values: []Expr{N("a"), BoolOp{Op: "or", Values: []Expr{N("b"), N("c")}}}},
			"a and (b or c)",
		},
		{
			"lambda as operand",
			C(Lambda{Params: []string{"x"}, Body: N("x")}, one),
			"(lambda x: x)(1)",
		},
		{
			"attribute of call",
			Attr{Value: C(N("f")), Name: "value"},
			"f().value",
		},
		{
			"attribute of binop",
			Attr{Value: BinOp{Left: N("a"), Op: "+", Right: N("b")}, Name: "real"},
			"(a + b).real",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatExpr(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatExpr_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		msg  string
	}{
		{"nil", nil, "nil expression"},
		{"bad name", N("1abc"), "invalid name identifier"},
		{"keyword name", N("class"), "invalid name identifier"},
		{"bad attr", Attr{Value: N("a"), Name: "b-c"}, "invalid attribute identifier"},
		{"keyword outside call", Keyword{Name: "k", Value: N("v")}, "outside of a call"},
		{"bad operator", BinOp{Left: N("a"), Op: "//", Right: N("b")}, "unsupported binary operator"},
		{"bad comparison", Compare{Left: N("a"), Op: "<>", Right: N("b")}, "unsupported comparison operator"},
		{"nil call argument", C(N("f"), nil), "argument 0 of f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormatExpr(tt.expr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestFormat_Module(t *testing.T) {
	m := &Module{}
	m.Add(
		Comment{Text: "generated"},
		Comment{},
		Import{Module: "ctypes"},
		Blank{},
		Assign{
			Target: Dot("_lib", "f", "argtypes"),
			Value:  Tuple{Elts: []Expr{Dot("ctypes", "c_double"), N("RustBuffer")}, Multiline: true},
		},
		Assign{Target: Dot("_lib", "f", "restype"), Value: NoneLit{}},
		Blank{},
		ClassDef{
			Name:  "Point",
			Bases: []Expr{N("object")},
			Body: []Stmt{
				FuncDef{
					Name:   "__init__",
					Params: []string{"self", "x"},
					Body:   []Stmt{Assign{Target: Dot("self", "x"), Value: N("x")}},
				},
				Blank{},
				FuncDef{
					Decorators: []Expr{N("classmethod")},
					Name:       "_coerce",
					Params:     []string{"cls", "v"},
					Body: []Stmt{
						Assert{Test: C(N("isinstance"), N("v"), N("Point"))},
						Return{Value: N("v")},
					},
				},
			},
		},
		Blank{},
		FuncDef{Name: "noop"},
		FuncDef{
			Name:   "call",
			Params: []string{"p"},
			Body: []Stmt{
				Assign{
					Target: N("_retval"),
					Value:  Call{Func: Dot("_lib", "f"), Args: []Expr{N("p"), Int{Value: 2}}, Multiline: true},
				},
				Return{},
			},
		},
		ClassDef{Name: "Empty"},
	)

	want := `# generated
#
import ctypes

_lib.f.argtypes = (
    ctypes.c_double,
    RustBuffer,
)
_lib.f.restype = None

class Point(object):
    def __init__(self, x):
        self.x = x

    @classmethod
    def _coerce(cls, v):
        assert isinstance(v, Point)
        return v

def noop():
    pass
def call(p):
    _retval = _lib.f(
        p,
        2,
    )
    return
class Empty:
    pass
`

	got, err := Format(m)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))

	var buf bytes.Buffer
	require.NoError(t, Fprint(&buf, m))
	assert.Equal(t, want, buf.String())
}

func TestFormat_NestedMultilineIndentsToBlock(t *testing.T) {
	fn := FuncDef{
		Name:   "f",
		Params: []string{"self"},
		Body: []Stmt{
			Assign{
				Target: Dot("self", "_handle"),
				Value: Call{
					Func:      Dot("_lib", "new"),
					Args:      []Expr{C(N("g"), List{Elts: []Expr{N("a")}, Multiline: true})},
					Multiline: true,
				},
			},
		},
	}
	cls := ClassDef{Name: "Obj", Body: []Stmt{fn}}

	got, err := FormatStmt(cls)
	require.NoError(t, err)
	assert.Equal(t, `class Obj:
    def f(self):
        self._handle = _lib.new(
            g([
                a,
            ]),
        )`, got)
}

func TestFormat_RawReindents(t *testing.T) {
	m := &Module{Body: []Stmt{
		ClassDef{Name: "K", Body: []Stmt{
			Raw{Text: "def a(self):\n    return 1\n\ndef b(self):\n    return 2\n"},
		}},
	}}

	got, err := Format(m)
	require.NoError(t, err)
	assert.Equal(t, "class K:\n    def a(self):\n        return 1\n\n    def b(self):\n        return 2\n", string(got))
}

func TestFormat_MultiLineComment(t *testing.T) {
	got, err := FormatStmt(Comment{Text: "one\n\ntwo"})
	require.NoError(t, err)
	assert.Equal(t, "# one\n#\n# two", got)
}

func TestFormat_ErrorsProduceNoOutput(t *testing.T) {
	m := &Module{Body: []Stmt{
		Import{Module: "ctypes"},
		FuncDef{Name: "ok", Body: []Stmt{Return{Value: Int{Value: 1}}}},
		FuncDef{Name: "bad", Params: []string{"lambda"}},
	}}

	got, err := Format(m)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), `invalid parameter of bad identifier "lambda"`)

	var buf bytes.Buffer
	require.Error(t, Fprint(&buf, m))
	assert.Zero(t, buf.Len())

	_, err = Format(nil)
	require.Error(t, err)
}

func TestFormat_Deterministic(t *testing.T) {
	build := func() *Module {
		return &Module{Body: []Stmt{
			Assign{Target: N("__all__"), Value: List{Elts: []Expr{Str{Value: "A"}, Str{Value: "B"}}, Multiline: true}},
		}}
	}

	first, err := Format(build())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Format(build())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
