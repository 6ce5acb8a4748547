package domain

import "strings"

// Well-known type constructor and leaf names used in declared parameter types.
const (
	TypeNone     = "None"
	TypeAny      = "Any"
	TypeTensor   = "Tensor"
	TypeOptional = "Optional"
	TypeUnion    = "Union"
	// TypeList is the canonical sequence spelling.
	TypeList = "List"
	// TypeBuiltinList is the lowercase builtin generic spelling.
	TypeBuiltinList = "list"
	TypeSequence    = "Sequence"
	TypeTuple       = "Tuple"
)

// TypeExpr is a declared type: a leaf name ("int", "Tensor") or a generic
// constructor applied to arguments ("Optional[List[int]]").
type TypeExpr struct {
	Name string
	Args []TypeExpr
}

// Leaf returns a type without arguments.
func Leaf(name string) TypeExpr {
	return TypeExpr{Name: name}
}

// Generic returns name[args...].
func Generic(name string, args ...TypeExpr) TypeExpr {
	return TypeExpr{Name: name, Args: args}
}

// IsZero reports whether the type is unset.
func (t TypeExpr) IsZero() bool {
	return t.Name == "" && len(t.Args) == 0
}

// IsNone reports whether the type is the None type.
func (t TypeExpr) IsNone() bool {
	return t.Name == TypeNone && len(t.Args) == 0
}

// Origin returns the constructor name, or "" for leaf types.
func (t TypeExpr) Origin() string {
	if len(t.Args) == 0 && !t.isBareGeneric() {
		return ""
	}
	return t.Name
}

func (t TypeExpr) isBareGeneric() bool {
	switch t.Name {
	case TypeList, TypeSequence:
		return true
	}
	return false
}

// OptionalInner returns the wrapped type when t is Optional[X], Union[X, None]
// or Union[None, X]. For unions with several non-None members the first one
// is returned.
func (t TypeExpr) OptionalInner() (TypeExpr, bool) {
	switch t.Name {
	case TypeOptional:
		if len(t.Args) == 1 {
			return t.Args[0], true
		}
	case TypeUnion:
		hasNone := false
		var inner *TypeExpr
		for i := range t.Args {
			if t.Args[i].IsNone() {
				hasNone = true
				continue
			}
			if inner == nil {
				inner = &t.Args[i]
			}
		}
		if hasNone && inner != nil {
			return *inner, true
		}
	}
	return TypeExpr{}, false
}

// String spells the type the way it would be annotated.
func (t TypeExpr) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	var sb strings.Builder
	sb.WriteString(t.Name)
	sb.WriteByte('[')
	for i, a := range t.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Equal reports structural equality.
func (t TypeExpr) Equal(o TypeExpr) bool {
	if t.Name != o.Name || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}
