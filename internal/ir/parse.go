package ir

import (
	"fmt"
	"strings"
)

// Resolver maps a bare type name to a named type (enum, record or object).
type Resolver func(name string) (Type, bool)

var builtinTypes = map[string]Type{
	"u32":     U32{},
	"u64":     U64{},
	"float":   Float{},
	"f32":     Float{},
	"double":  Double{},
	"f64":     Double{},
	"boolean": Boolean{},
	"bool":    Boolean{},
	"bytes":   Bytes{},
	"string":  String{},
}

// ParseType parses a type expression.
//
// Accepted forms:
//
//	u32 u64 float double boolean bytes string   builtins (f32, f64, bool aliases)
//	Point                                        a defined name, via resolve
//	enum:Color record:Point object:Counter       explicit named kinds
//	T?  optional<T>                              optional
//	sequence<T>  map<T>                          describable, not marshalable
func ParseType(expr string, resolve Resolver) (Type, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return nil, fmt.Errorf("empty type expression")
	}

	if strings.HasSuffix(s, "?") {
		inner, err := ParseType(strings.TrimSuffix(s, "?"), resolve)
		if err != nil {
			return nil, err
		}
		return Optional{Inner: inner}, nil
	}

	if open := strings.IndexByte(s, '<'); open > 0 {
		if !strings.HasSuffix(s, ">") {
			return nil, fmt.Errorf("unterminated type parameter in %q", expr)
		}
		ctor := s[:open]
		inner, err := ParseType(s[open+1:len(s)-1], resolve)
		if err != nil {
			return nil, err
		}
		switch ctor {
		case "optional":
			return Optional{Inner: inner}, nil
		case "sequence":
			return Sequence{Inner: inner}, nil
		case "map":
			return Map{Value: inner}, nil
		default:
			return nil, fmt.Errorf("unknown type constructor %q in %q", ctor, expr)
		}
	}

	if kind, name, ok := strings.Cut(s, ":"); ok {
		if name == "" {
			return nil, fmt.Errorf("missing name in %q", expr)
		}
		switch Kind(kind) {
		case KindEnum:
			return Enum{Name: name}, nil
		case KindRecord:
			return Record{Name: name}, nil
		case KindObject:
			return Object{Name: name}, nil
		default:
			return nil, fmt.Errorf("unknown named kind %q in %q", kind, expr)
		}
	}

	if t, ok := builtinTypes[s]; ok {
		return t, nil
	}
	if resolve != nil {
		if t, ok := resolve(s); ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("undefined type %q", s)
}

// Resolve looks up a bare name among the interface's enums, records and
// objects, in that order.
func (ci *ComponentInterface) Resolve(name string) (Type, bool) {
	if _, ok := ci.Enum(name); ok {
		return Enum{Name: name}, true
	}
	if _, ok := ci.Record(name); ok {
		return Record{Name: name}, true
	}
	if _, ok := ci.Object(name); ok {
		return Object{Name: name}, true
	}
	return nil, false
}
