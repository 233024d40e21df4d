package di

import "reflect"

type tokenKind uint8

const (
	kindNone tokenKind = iota
	kindName
	kindType
)

// Token identifies a provider inside an injector. Tokens are comparable and
// are either a name or a Go type identity. The zero Token is unset.
type Token struct {
	kind tokenKind
	name string
	typ  reflect.Type
}

// Named returns a token identified by name.
func Named(name string) Token {
	return Token{kind: kindName, name: name}
}

// TypeOf returns a token identified by the type T.
func TypeOf[T any]() Token {
	return Token{kind: kindType, typ: reflect.TypeFor[T]()}
}

// IsZero reports whether the token is unset.
func (t Token) IsZero() bool { return t.kind == kindNone }

// String returns a stable label: "name:<name>" or "type:<pkgpath.Type>".
func (t Token) String() string {
	switch t.kind {
	case kindName:
		return "name:" + t.name
	case kindType:
		return "type:" + typeLabel(t.typ)
	default:
		return "<unset>"
	}
}

func typeLabel(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		return "*" + typeLabel(t.Elem())
	}
	if t.PkgPath() != "" && t.Name() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
