package schema

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/zerr"
)

// scalarTypes maps declared leaf types to schema types.
var scalarTypes = map[string]string{
	"Tensor":             "Tensor",
	"torch.Tensor":       "Tensor",
	"int":                "SymInt",
	"SymInt":             "SymInt",
	"float":              "float",
	"bool":               "bool",
	"str":                "str",
	"torch.dtype":        "ScalarType",
	"torch.device":       "Device",
	"Number":             "Scalar",
	"torch.types.Number": "Scalar",
}

// listElemTypes are the element types a sequence parameter may carry.
var listElemTypes = []string{"Tensor", "SymInt", "float", "bool", "Scalar"}

// Inferrer is the primary schema inferrer. It only understands the canonical
// sequence spellings List[T] and Sequence[T]; run Normalize first.
type Inferrer struct{}

// NewInferrer creates the primary inferrer.
func NewInferrer() *Inferrer {
	return &Inferrer{}
}

// Infer implements ports.SchemaInferrer.
func (*Inferrer) Infer(sig domain.Signature, mutates []string) (string, error) {
	return infer(sig, mutates, false)
}

// LegacyInferrer is the older inference path. It accepts list[T] and List[T]
// alike, so it does not need Normalize, but it rejects keyword-only
// parameters.
type LegacyInferrer struct{}

// NewLegacyInferrer creates the fallback inferrer.
func NewLegacyInferrer() *LegacyInferrer {
	return &LegacyInferrer{}
}

// Infer implements ports.SchemaInferrer.
func (*LegacyInferrer) Infer(sig domain.Signature, mutates []string) (string, error) {
	for _, p := range sig.Params {
		if p.KeywordOnly {
			return "", zerr.With(zerr.Wrap(domain.ErrInvalidSignature,
				"keyword-only parameters are not supported"), "param", p.Name)
		}
	}
	return infer(sig, mutates, true)
}

func infer(sig domain.Signature, mutates []string, lenient bool) (string, error) {
	if err := sig.ValidateMutations(mutates); err != nil {
		return "", err
	}

	args := make([]string, 0, len(sig.Params)+1)
	kwOnly := false
	for i, p := range sig.Params {
		if !p.Annotated {
			return "", zerr.With(zerr.Wrap(domain.ErrMissingAnnotation, "infer schema"), "param", p.Name)
		}

		var (
			typ string
			err error
		)
		if slices.Contains(mutates, p.Name) {
			typ, err = mutableType(p.Type, i, lenient)
		} else {
			typ, err = paramType(p.Type, lenient)
		}
		if err != nil {
			return "", zerr.With(err, "param", p.Name)
		}

		if p.KeywordOnly && !kwOnly {
			args = append(args, "*")
			kwOnly = true
		}

		arg := typ + " " + p.Name
		if p.HasDefault {
			arg += "=" + formatDefault(p.Default)
		}
		args = append(args, arg)
	}

	ret, err := returnType(sig.Returns, lenient)
	if err != nil {
		return "", zerr.With(err, "param", "return")
	}
	return "(" + strings.Join(args, ", ") + ") -> " + ret, nil
}

func unsupported(t domain.TypeExpr) error {
	return zerr.With(zerr.Wrap(domain.ErrUnsupportedAnnotation, "infer schema"), "type", t.String())
}

func paramType(t domain.TypeExpr, lenient bool) (string, error) {
	if inner, ok := t.OptionalInner(); ok {
		if len(t.Args) > 2 || inner.Name == domain.TypeOptional {
			return "", unsupported(t)
		}
		s, err := paramType(inner, lenient)
		if err != nil {
			return "", err
		}
		if strings.HasSuffix(s, "?") {
			return "", unsupported(t)
		}
		return s + "?", nil
	}

	if elem, ok, err := sequenceElem(t, lenient); ok || err != nil {
		if err != nil {
			return "", err
		}
		s, err := elemType(elem, lenient)
		if err != nil {
			return "", unsupported(t)
		}
		return s + "[]", nil
	}

	if len(t.Args) == 0 {
		if s, ok := scalarTypes[t.Name]; ok {
			return s, nil
		}
	}
	return "", unsupported(t)
}

// sequenceElem reports whether t is a sequence type and returns its element.
func sequenceElem(t domain.TypeExpr, lenient bool) (domain.TypeExpr, bool, error) {
	switch t.Name {
	case domain.TypeList, domain.TypeSequence:
	case domain.TypeBuiltinList:
		if !lenient {
			return domain.TypeExpr{}, false, zerr.With(zerr.With(zerr.Wrap(domain.ErrUnsupportedAnnotation,
				"builtin list spelling is not supported, normalize the signature first"),
				"type", t.String()), "hint", "List"+strings.TrimPrefix(t.String(), "list"))
		}
	default:
		return domain.TypeExpr{}, false, nil
	}
	if len(t.Args) != 1 {
		return domain.TypeExpr{}, false, unsupported(t)
	}
	return t.Args[0], true, nil
}

func elemType(t domain.TypeExpr, lenient bool) (string, error) {
	if inner, ok := t.OptionalInner(); ok {
		s, err := elemType(inner, lenient)
		if err != nil || s != "Tensor" {
			return "", unsupported(t)
		}
		return "Tensor?", nil
	}
	s, err := paramType(t, lenient)
	if err != nil || !slices.Contains(listElemTypes, s) {
		return "", unsupported(t)
	}
	return s, nil
}

func mutableType(t domain.TypeExpr, index int, lenient bool) (string, error) {
	base, err := paramType(t, lenient)
	if err != nil {
		return "", err
	}
	alias := fmt.Sprintf("Tensor(a%d!)", index)
	switch base {
	case "Tensor":
		return alias, nil
	case "Tensor?":
		return alias + "?", nil
	case "Tensor[]":
		return alias + "[]", nil
	}
	return "", zerr.With(zerr.Wrap(domain.ErrMutatedNonTensor, "infer schema"), "type", t.String())
}

func returnType(t domain.TypeExpr, lenient bool) (string, error) {
	if t.IsZero() {
		return "", zerr.Wrap(domain.ErrMissingAnnotation, "no return type annotation")
	}
	if t.IsNone() {
		return "()", nil
	}
	if t.Name == domain.TypeTuple || t.Name == "tuple" {
		parts := make([]string, 0, len(t.Args))
		for _, a := range t.Args {
			s, err := returnType(a, lenient)
			if err != nil {
				return "", err
			}
			if strings.HasPrefix(s, "(") {
				return "", unsupported(t)
			}
			parts = append(parts, s)
		}
		return "(" + strings.Join(parts, ", ") + ")", nil
	}
	if _, ok := t.OptionalInner(); ok {
		return "", unsupported(t)
	}
	return paramType(t, lenient)
}

// formatDefault spells a default value the way the schema grammar expects:
// single-quoted strings become double-quoted and exponent floats are printed
// in their shortest form.
func formatDefault(v string) string {
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return strconv.Quote(v[1 : len(v)-1])
	}
	if strings.ContainsAny(v, "eE") && !strings.ContainsAny(v, "xX") {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
	}
	return v
}
