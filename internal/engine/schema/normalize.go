package schema

import "go.trai.ch/kunlun/internal/core/domain"

// Normalize rewrites list-typed parameters to the canonical spellings the
// primary inferrer accepts:
//
//	Optional[list[T]], Union[list[T], None], list[T] | None -> Optional[List[T]]
//	list[T], List[T]                                        -> List[T]
//	List                                                    -> List[Any]
//
// An unparameterized builtin list has no origin and is left as written.
// Only the top level of each parameter type is rewritten; nested containers
// and unannotated parameters are left as they are. The input is not modified.
func Normalize(sig domain.Signature) domain.Signature {
	out := sig.Clone()
	for i, p := range out.Params {
		if !p.Annotated {
			continue
		}
		out.Params[i].Type = normalizeType(p.Type)
	}
	return out
}

func normalizeType(t domain.TypeExpr) domain.TypeExpr {
	if inner, ok := t.OptionalInner(); ok {
		if isList(inner) {
			return domain.Generic(domain.TypeOptional, canonicalList(inner))
		}
		return t
	}
	if isList(t) {
		return canonicalList(t)
	}
	return t
}

func isList(t domain.TypeExpr) bool {
	switch t.Origin() {
	case domain.TypeBuiltinList, domain.TypeList:
		return true
	}
	return false
}

func canonicalList(t domain.TypeExpr) domain.TypeExpr {
	elem := domain.Leaf(domain.TypeAny)
	if len(t.Args) > 0 {
		elem = t.Args[0]
	}
	return domain.Generic(domain.TypeList, elem)
}
