package tt

// AlphaEqual is structural equality modulo binder hints, with a
// pointer-identity short circuit for the common case of comparing a term
// against itself.
func AlphaEqual(t, u *Term) bool {
	if t == u {
		return true
	}

	if t.Kind != u.Kind {
		return false
	}

	switch t.Kind {
	case KindType:
		return true
	case KindAtom:
		return t.AtomVal.Equal(u.AtomVal)
	case KindBound:
		return t.BoundIndex == u.BoundIndex
	case KindConstant:
		return t.ConstantName == u.ConstantName
	case KindLambda:
		return AlphaEqualType(t.LambdaParam.Type, u.LambdaParam.Type) &&
			AlphaEqual(t.LambdaBody, u.LambdaBody) &&
			AlphaEqualType(t.LambdaCod, u.LambdaCod)
	case KindApply:
		return AlphaEqual(t.ApplyFun, u.ApplyFun) &&
			AlphaEqualType(t.ApplyParam.Type, u.ApplyParam.Type) &&
			AlphaEqualType(t.ApplyCod, u.ApplyCod) &&
			AlphaEqual(t.ApplyArg, u.ApplyArg)
	case KindProd:
		return AlphaEqualType(t.ProdParam.Type, u.ProdParam.Type) &&
			AlphaEqualType(t.ProdCod, u.ProdCod)
	case KindEq:
		return AlphaEqualType(t.EqType, u.EqType) &&
			AlphaEqual(t.EqLHS, u.EqLHS) &&
			AlphaEqual(t.EqRHS, u.EqRHS)
	case KindRefl:
		return AlphaEqualType(t.ReflType, u.ReflType) && AlphaEqual(t.ReflTerm, u.ReflTerm)
	case KindSignature:
		return alphaEqualFields(t.SignatureFields, u.SignatureFields)
	case KindStructure:
		if !alphaEqualFields(t.StructureFields, u.StructureFields) || len(t.StructureValues) != len(u.StructureValues) {
			return false
		}

		for i := range t.StructureValues {
			if !AlphaEqual(t.StructureValues[i], u.StructureValues[i]) {
				return false
			}
		}

		return true
	case KindProjection:
		return t.ProjectionLabel == u.ProjectionLabel &&
			AlphaEqual(t.ProjectionTerm, u.ProjectionTerm) &&
			alphaEqualFields(t.ProjectionSig, u.ProjectionSig)
	default:
		return false
	}
}

func alphaEqualFields(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i].Label != b[i].Label || !AlphaEqualType(a[i].Type, b[i].Type) {
			return false
		}
	}

	return true
}

// AlphaEqualType is AlphaEqual lifted to Type.
func AlphaEqualType(t, u *Type) bool {
	if t == u {
		return true
	}

	return AlphaEqual(t.Term, u.Term)
}

// AlphaEqualAbstraction lifts AlphaEqual through a spine of n leading
// binders shared by t and u, by opening both with the same fresh atoms
// before comparing bodies. It is used when comparing two abstracted
// judgements (the `Abstract`/`Substitute` computations of spec.md §4.3)
// without caring about the two sides' own binder hints.
func AlphaEqualAbstraction(freshAtoms []Atom, t, u *Term) bool {
	return AlphaEqual(Unabstract(freshAtoms, t), Unabstract(freshAtoms, u))
}
