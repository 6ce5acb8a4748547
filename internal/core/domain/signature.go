package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Param is one declared parameter of a callable.
type Param struct {
	Name string
	// Type is the declared type. It is meaningful only when Annotated is true.
	Type      TypeExpr
	Annotated bool
	// Default is the source spelling of the default value, empty when the
	// parameter is required.
	Default     string
	HasDefault  bool
	KeywordOnly bool
}

// Signature is the ordered parameter list and declared return type of a callable.
type Signature struct {
	Params  []Param
	Returns TypeExpr
}

// Clone returns a deep-enough copy for rewriting parameter types.
func (s Signature) Clone() Signature {
	return Signature{
		Params:  slices.Clone(s.Params),
		Returns: s.Returns,
	}
}

// Param returns the parameter with the given name.
func (s Signature) Param(name string) (Param, int, bool) {
	for i, p := range s.Params {
		if p.Name == name {
			return p, i, true
		}
	}
	return Param{}, -1, false
}

// Names returns the parameter names in order.
func (s Signature) Names() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return names
}

// ValidateMutations checks that every mutated name is a parameter.
func (s Signature) ValidateMutations(mutates []string) error {
	var unknown []string
	for _, name := range mutates {
		if _, _, ok := s.Param(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return zerr.With(zerr.Wrap(ErrUnknownMutatedArg, "validate mutations"),
			"unknown", strings.Join(unknown, ","))
	}
	return nil
}

// String renders the signature in annotation form.
func (s Signature) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	kwOnly := false
	for i, p := range s.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.KeywordOnly && !kwOnly {
			sb.WriteString("*, ")
			kwOnly = true
		}
		sb.WriteString(p.Name)
		if p.Annotated {
			sb.WriteString(": ")
			sb.WriteString(p.Type.String())
		}
		if p.HasDefault {
			sb.WriteString(" = ")
			sb.WriteString(p.Default)
		}
	}
	sb.WriteByte(')')
	if !s.Returns.IsZero() {
		sb.WriteString(" -> ")
		sb.WriteString(s.Returns.String())
	}
	return sb.String()
}
