// Package schema derives operator schema strings from structured function
// signatures.
package schema

import (
	"strings"
	"unicode"

	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/zerr"
)

// ParseType parses a declared type annotation such as "Optional[list[int]]"
// or "int | None". A "typing." prefix is dropped and unions written with "|"
// become Union[...].
func ParseType(s string) (domain.TypeExpr, error) {
	p := &typeParser{src: s}
	t, err := p.union()
	if err != nil {
		return domain.TypeExpr{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return domain.TypeExpr{}, p.fail("unexpected trailing input")
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) fail(msg string) error {
	return zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidAnnotation, msg),
		"annotation", p.src), "offset", p.pos)
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) union() (domain.TypeExpr, error) {
	first, err := p.term()
	if err != nil {
		return domain.TypeExpr{}, err
	}
	members := []domain.TypeExpr{first}
	for p.peek() == '|' {
		p.pos++
		next, err := p.term()
		if err != nil {
			return domain.TypeExpr{}, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return first, nil
	}
	return domain.Generic(domain.TypeUnion, members...), nil
}

func (p *typeParser) term() (domain.TypeExpr, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if c != '_' && c != '.' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		p.pos++
	}
	name := p.src[start:p.pos]
	if name == "" {
		return domain.TypeExpr{}, p.fail("expected type name")
	}
	name = strings.TrimPrefix(name, "typing.")

	if p.peek() != '[' {
		return domain.Leaf(name), nil
	}
	p.pos++

	var args []domain.TypeExpr
	for {
		arg, err := p.union()
		if err != nil {
			return domain.TypeExpr{}, err
		}
		args = append(args, arg)

		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return domain.Generic(name, args...), nil
		default:
			return domain.TypeExpr{}, p.fail("expected ',' or ']'")
		}
	}
}

// ParseSignature parses a signature written in annotation form:
//
//	x: Tensor, sizes: Optional[list[int]] = None, *, eps: float = 1e-6 -> Tensor
//
// Surrounding parentheses around the parameter list are optional. A bare "*"
// makes every following parameter keyword-only.
func ParseSignature(s string) (domain.Signature, error) {
	params, ret := splitReturn(s)

	var sig domain.Signature
	if ret != "" {
		t, err := ParseType(ret)
		if err != nil {
			return domain.Signature{}, zerr.Wrap(err, "return annotation")
		}
		sig.Returns = t
	}

	params = strings.TrimSpace(params)
	if strings.HasPrefix(params, "(") && strings.HasSuffix(params, ")") {
		params = strings.TrimSpace(params[1 : len(params)-1])
	}
	if params == "" {
		return sig, nil
	}

	seen := make(map[string]bool)
	kwOnly := false
	sawDefault := false
	for _, field := range splitTopLevel(params, ',') {
		field = strings.TrimSpace(field)
		if field == "*" {
			if kwOnly {
				return domain.Signature{}, invalidSignature(s, "duplicate '*'")
			}
			kwOnly = true
			continue
		}

		p, err := parseParam(field)
		if err != nil {
			return domain.Signature{}, zerr.With(err, "signature", s)
		}
		if seen[p.Name] {
			return domain.Signature{}, zerr.With(invalidSignature(s, "duplicate parameter"), "param", p.Name)
		}
		seen[p.Name] = true

		p.KeywordOnly = kwOnly
		if !kwOnly {
			if sawDefault && !p.HasDefault {
				return domain.Signature{}, zerr.With(
					invalidSignature(s, "required parameter follows parameter with default"), "param", p.Name)
			}
			sawDefault = sawDefault || p.HasDefault
		}
		sig.Params = append(sig.Params, p)
	}
	return sig, nil
}

func parseParam(field string) (domain.Param, error) {
	var p domain.Param

	if parts := splitTopLevel(field, '='); len(parts) > 1 {
		p.Default = strings.TrimSpace(strings.Join(parts[1:], "="))
		p.HasDefault = true
		if p.Default == "" {
			return domain.Param{}, zerr.With(zerr.Wrap(domain.ErrInvalidSignature, "empty default"), "param", field)
		}
		field = parts[0]
	}

	name, annotation, annotated := strings.Cut(field, ":")
	p.Name = strings.TrimSpace(name)
	if !isIdentifier(p.Name) {
		return domain.Param{}, zerr.With(zerr.Wrap(domain.ErrInvalidSignature, "invalid parameter name"),
			"param", p.Name)
	}
	if annotated {
		t, err := ParseType(strings.TrimSpace(annotation))
		if err != nil {
			return domain.Param{}, zerr.With(err, "param", p.Name)
		}
		p.Type = t
		p.Annotated = true
	}
	return p, nil
}

func invalidSignature(sig, msg string) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidSignature, msg), "signature", sig)
}

// splitReturn splits "params -> ret" at the last top-level arrow.
func splitReturn(s string) (params, ret string) {
	depth := 0
	for i := len(s) - 1; i > 0; i-- {
		switch s[i] {
		case ']', ')':
			depth++
		case '[', '(':
			depth--
		case '>':
			if depth == 0 && s[i-1] == '-' {
				return s[:i-1], strings.TrimSpace(s[i+1:])
			}
		}
	}
	return s, ""
}

// splitTopLevel splits s on sep outside brackets and quoted strings.
func splitTopLevel(s string, sep byte) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '[' || c == '(':
			depth++
		case c == ']' || c == ')':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
