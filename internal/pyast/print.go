package pyast

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Indent is one block level.
const Indent = "    "

// Operator precedence, lowest first. Atoms bind tightest.
const (
	precLambda = iota + 1
	precIfExp
	precOr
	precAnd
	precCompare
	precAdd
	precMul
	precAtom
)

// Format serializes a module to Python source.
//
// The whole module is rendered before anything is returned: an invalid node
// anywhere in the tree yields an error and no partial output.
func Format(m *Module) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("cannot print nil module")
	}
	p := &printer{}
	if err := p.block(m.Body, 0); err != nil {
		return nil, err
	}
	return p.buf.Bytes(), nil
}

// Fprint writes the serialized module to w.
func Fprint(w io.Writer, m *Module) error {
	src, err := Format(m)
	if err != nil {
		return err
	}
	_, err = w.Write(src)
	return err
}

// FormatExpr renders a single expression as it would appear at the top
// level of a statement.
func FormatExpr(e Expr) (string, error) {
	p := &printer{}
	return p.expr(e, 0)
}

// FormatStmt renders a single statement without a trailing newline.
func FormatStmt(s Stmt) (string, error) {
	p := &printer{}
	if err := p.stmt(s, 0); err != nil {
		return "", err
	}
	return strings.TrimSuffix(p.buf.String(), "\n"), nil
}

type printer struct {
	buf bytes.Buffer
}

func (p *printer) line(level int, text string) {
	p.buf.WriteString(strings.Repeat(Indent, level))
	p.buf.WriteString(text)
	p.buf.WriteByte('\n')
}

func (p *printer) block(body []Stmt, level int) error {
	if len(body) == 0 {
		p.line(level, "pass")
		return nil
	}
	for _, s := range body {
		if err := p.stmt(s, level); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) stmt(s Stmt, level int) error {
	switch st := s.(type) {
	case nil:
		return fmt.Errorf("cannot print nil statement")
	case Comment:
		if st.Text == "" {
			p.line(level, "#")
			return nil
		}
		for _, l := range strings.Split(st.Text, "\n") {
			if l == "" {
				p.line(level, "#")
				continue
			}
			p.line(level, "# "+l)
		}
	case Blank:
		p.buf.WriteByte('\n')
	case Import:
		for _, part := range strings.Split(st.Module, ".") {
			if err := checkIdent("import", part); err != nil {
				return err
			}
		}
		p.line(level, "import "+st.Module)
	case Assign:
		target, err := p.expr(st.Target, level)
		if err != nil {
			return fmt.Errorf("assign target: %w", err)
		}
		value, err := p.expr(st.Value, level)
		if err != nil {
			return fmt.Errorf("assign %s: %w", target, err)
		}
		p.line(level, target+" = "+value)
	case ExprStmt:
		x, err := p.expr(st.X, level)
		if err != nil {
			return err
		}
		p.line(level, x)
	case Return:
		if st.Value == nil {
			p.line(level, "return")
			return nil
		}
		v, err := p.expr(st.Value, level)
		if err != nil {
			return fmt.Errorf("return: %w", err)
		}
		p.line(level, "return "+v)
	case Assert:
		test, err := p.expr(st.Test, level)
		if err != nil {
			return fmt.Errorf("assert: %w", err)
		}
		p.line(level, "assert "+test)
	case Pass:
		p.line(level, "pass")
	case FuncDef:
		return p.funcDef(st, level)
	case ClassDef:
		return p.classDef(st, level)
	case Raw:
		text := strings.TrimSuffix(st.Text, "\n")
		for _, l := range strings.Split(text, "\n") {
			if strings.TrimSpace(l) == "" {
				p.buf.WriteByte('\n')
				continue
			}
			p.line(level, l)
		}
	default:
		return fmt.Errorf("unsupported statement type: %T", s)
	}
	return nil
}

func (p *printer) funcDef(fn FuncDef, level int) error {
	if err := checkIdent("function", fn.Name); err != nil {
		return err
	}
	for _, param := range fn.Params {
		if err := checkIdent("parameter of "+fn.Name, param); err != nil {
			return err
		}
	}
	for _, d := range fn.Decorators {
		dec, err := p.expr(d, level)
		if err != nil {
			return fmt.Errorf("decorator of %s: %w", fn.Name, err)
		}
		p.line(level, "@"+dec)
	}
	p.line(level, fmt.Sprintf("def %s(%s):", fn.Name, strings.Join(fn.Params, ", ")))
	if err := p.block(fn.Body, level+1); err != nil {
		return fmt.Errorf("def %s: %w", fn.Name, err)
	}
	return nil
}

func (p *printer) classDef(cls ClassDef, level int) error {
	if err := checkIdent("class", cls.Name); err != nil {
		return err
	}
	header := "class " + cls.Name
	if len(cls.Bases) > 0 {
		bases, err := p.exprList(cls.Bases, level)
		if err != nil {
			return fmt.Errorf("bases of %s: %w", cls.Name, err)
		}
		header += "(" + strings.Join(bases, ", ") + ")"
	}
	p.line(level, header+":")
	if err := p.block(cls.Body, level+1); err != nil {
		return fmt.Errorf("class %s: %w", cls.Name, err)
	}
	return nil
}

func (p *printer) exprList(exprs []Expr, level int) ([]string, error) {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		s, err := p.expr(e, level)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// expr renders e for a line that starts at the given block level. The level
// only matters for multi-line displays.
func (p *printer) expr(e Expr, level int) (string, error) {
	switch x := e.(type) {
	case nil:
		return "", fmt.Errorf("cannot print nil expression")
	case Name:
		if err := checkIdent("name", x.ID); err != nil {
			return "", err
		}
		return x.ID, nil
	case Attr:
		if err := checkIdent("attribute", x.Name); err != nil {
			return "", err
		}
		v, err := p.operand(x.Value, level, precAtom)
		if err != nil {
			return "", err
		}
		if _, ok := x.Value.(Int); ok {
			// 1.real is a syntax error; (1).real is not.
			v = "(" + v + ")"
		}
		return v + "." + x.Name, nil
	case Call:
		fn, err := p.operand(x.Func, level, precAtom)
		if err != nil {
			return "", err
		}
		inner := childLevel(level, x.Multiline)
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			if kw, ok := a.(Keyword); ok {
				args[i], err = p.keyword(kw, inner)
			} else {
				args[i], err = p.expr(a, inner)
			}
			if err != nil {
				return "", fmt.Errorf("argument %d of %s: %w", i, fn, err)
			}
		}
		return fn + p.display("(", ")", args, x.Multiline, false, level), nil
	case Keyword:
		return "", fmt.Errorf("keyword argument %s outside of a call", x.Name)
	case Str:
		return strconv.Quote(x.Value), nil
	case Int:
		return strconv.FormatInt(x.Value, 10), nil
	case NoneLit:
		return "None", nil
	case Tuple:
		elts, err := p.exprList(x.Elts, childLevel(level, x.Multiline))
		if err != nil {
			return "", err
		}
		return p.display("(", ")", elts, x.Multiline, len(elts) == 1, level), nil
	case List:
		elts, err := p.exprList(x.Elts, childLevel(level, x.Multiline))
		if err != nil {
			return "", err
		}
		return p.display("[", "]", elts, x.Multiline, false, level), nil
	case Lambda:
		for _, param := range x.Params {
			if err := checkIdent("lambda parameter", param); err != nil {
				return "", err
			}
		}
		body, err := p.expr(x.Body, level)
		if err != nil {
			return "", fmt.Errorf("lambda body: %w", err)
		}
		if len(x.Params) == 0 {
			return "lambda: " + body, nil
		}
		return "lambda " + strings.Join(x.Params, ", ") + ": " + body, nil
	case BinOp:
		prec, ok := binOpPrec[x.Op]
		if !ok {
			return "", fmt.Errorf("unsupported binary operator %q", x.Op)
		}
		left, err := p.operand(x.Left, level, prec)
		if err != nil {
			return "", err
		}
		right, err := p.operand(x.Right, level, prec+1)
		if err != nil {
			return "", err
		}
		return left + " " + x.Op + " " + right, nil
	case BoolOp:
		prec, ok := boolOpPrec[x.Op]
		if !ok {
			return "", fmt.Errorf("unsupported boolean operator %q", x.Op)
		}
		if len(x.Values) < 2 {
			return "", fmt.Errorf("%s needs at least two operands", x.Op)
		}
		parts := make([]string, len(x.Values))
		for i, v := range x.Values {
			s, err := p.operand(v, level, prec+1)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, " "+x.Op+" "), nil
	case IfExp:
		body, err := p.operand(x.Body, level, precIfExp+1)
		if err != nil {
			return "", err
		}
		test, err := p.operand(x.Test, level, precIfExp+1)
		if err != nil {
			return "", err
		}
		orelse, err := p.operand(x.Orelse, level, precIfExp)
		if err != nil {
			return "", err
		}
		return body + " if " + test + " else " + orelse, nil
	case Compare:
		if !compareOps[x.Op] {
			return "", fmt.Errorf("unsupported comparison operator %q", x.Op)
		}
		left, err := p.operand(x.Left, level, precCompare+1)
		if err != nil {
			return "", err
		}
		right, err := p.operand(x.Right, level, precCompare+1)
		if err != nil {
			return "", err
		}
		return left + " " + x.Op + " " + right, nil
	default:
		return "", fmt.Errorf("unsupported expression type: %T", e)
	}
}

func (p *printer) keyword(kw Keyword, level int) (string, error) {
	if err := checkIdent("keyword", kw.Name); err != nil {
		return "", err
	}
	v, err := p.expr(kw.Value, level)
	if err != nil {
		return "", err
	}
	return kw.Name + "=" + v, nil
}

// operand renders e and parenthesizes it when it binds looser than min.
func (p *printer) operand(e Expr, level, min int) (string, error) {
	s, err := p.expr(e, level)
	if err != nil {
		return "", err
	}
	if precedence(e) < min {
		return "(" + s + ")", nil
	}
	return s, nil
}

func (p *printer) display(open, close string, elts []string, multiline, single bool, level int) string {
	if len(elts) == 0 {
		return open + close
	}
	if !multiline {
		s := strings.Join(elts, ", ")
		if single {
			s += ","
		}
		return open + s + close
	}
	var b strings.Builder
	b.WriteString(open)
	b.WriteByte('\n')
	inner := strings.Repeat(Indent, level+1)
	for _, e := range elts {
		b.WriteString(inner)
		b.WriteString(e)
		b.WriteString(",\n")
	}
	b.WriteString(strings.Repeat(Indent, level))
	b.WriteString(close)
	return b.String()
}

// childLevel is the level of the lines an element starts on. Only a
// multi-line display moves its elements to a deeper level.
func childLevel(level int, multiline bool) int {
	if multiline {
		return level + 1
	}
	return level
}

var binOpPrec = map[string]int{
	"+": precAdd,
	"-": precAdd,
	"*": precMul,
}

var boolOpPrec = map[string]int{
	"or":  precOr,
	"and": precAnd,
}

var compareOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"is": true, "is not": true, "in": true, "not in": true,
}

func precedence(e Expr) int {
	switch x := e.(type) {
	case Lambda:
		return precLambda
	case IfExp:
		return precIfExp
	case Compare:
		return precCompare
	case BoolOp:
		if prec, ok := boolOpPrec[x.Op]; ok {
			return prec
		}
		return precOr
	case BinOp:
		if prec, ok := binOpPrec[x.Op]; ok {
			return prec
		}
		return precAdd
	default:
		return precAtom
	}
}

func checkIdent(what, id string) error {
	if !IsIdentifier(id) {
		return fmt.Errorf("invalid %s identifier %q", what, id)
	}
	return nil
}
