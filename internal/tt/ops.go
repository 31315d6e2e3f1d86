package tt

// Instantiate replaces `Bound (lvl+i)` by `es[i]` for `i` in `[0, len(es))`,
// shifting any looser (still-uninstantiated) bound index above that window
// down by `len(es)`. Per spec.md §4.1's edge-case policy, an empty `es`
// returns `t` unchanged (pointer-identical).
func Instantiate(es []*Term, lvl int, t *Term) *Term {
	if len(es) == 0 {
		return t
	}

	return instantiate(es, lvl, t)
}

// InstantiateType is Instantiate lifted to Type.
func InstantiateType(es []*Term, lvl int, ty *Type) *Type {
	if len(es) == 0 {
		return ty
	}

	return &Type{Term: instantiate(es, lvl, ty.Term)}
}

func instantiateBinder(es []*Term, lvl int, b *Binder) *Binder {
	return &Binder{Hint: b.Hint, Type: &Type{Term: instantiate(es, lvl, b.Type.Term)}}
}

func instantiateFields(es []*Term, lvl int, fs []Field) []Field {
	out := make([]Field, len(fs))
	for i, f := range fs {
		out[i] = Field{Label: f.Label, Hint: f.Hint, Type: &Type{Term: instantiate(es, lvl+i, f.Type.Term)}}
	}

	return out
}

func instantiate(es []*Term, lvl int, t *Term) *Term {
	switch t.Kind {
	case KindType, KindAtom, KindConstant:
		return t
	case KindBound:
		switch {
		case t.BoundIndex >= lvl && t.BoundIndex < lvl+len(es):
			return es[t.BoundIndex-lvl]
		case t.BoundIndex >= lvl+len(es):
			return MkBound(t.Loc, t.BoundIndex-len(es))
		default:
			return t
		}
	case KindLambda:
		return MkLambda(t.Loc,
			instantiateBinder(es, lvl, t.LambdaParam),
			instantiate(es, lvl+1, t.LambdaBody),
			InstantiateType(es, lvl+1, t.LambdaCod))
	case KindApply:
		return MkApply(t.Loc,
			instantiate(es, lvl, t.ApplyFun),
			instantiateBinder(es, lvl, t.ApplyParam),
			InstantiateType(es, lvl+1, t.ApplyCod),
			instantiate(es, lvl, t.ApplyArg))
	case KindProd:
		return MkProd(t.Loc, instantiateBinder(es, lvl, t.ProdParam), InstantiateType(es, lvl+1, t.ProdCod)).Term
	case KindEq:
		return MkEq(t.Loc,
			InstantiateType(es, lvl, t.EqType),
			instantiate(es, lvl, t.EqLHS),
			instantiate(es, lvl, t.EqRHS)).Term
	case KindRefl:
		return MkRefl(t.Loc, InstantiateType(es, lvl, t.ReflType), instantiate(es, lvl, t.ReflTerm))
	case KindSignature:
		return MkSignature(t.Loc, instantiateFields(es, lvl, t.SignatureFields))
	case KindStructure:
		values := make([]*Term, len(t.StructureValues))
		for i, v := range t.StructureValues {
			values[i] = instantiate(es, lvl, v)
		}

		return MkStructure(t.Loc, instantiateFields(es, lvl, t.StructureFields), values)
	case KindProjection:
		return MkProjection(t.Loc, instantiate(es, lvl, t.ProjectionTerm), instantiateFields(es, lvl, t.ProjectionSig), t.ProjectionLabel)
	default:
		return t
	}
}

// Abstract captures the free atoms `xs` as bound indices `lvl, lvl+1, ...`,
// the inverse of Instantiate. An empty `xs` returns `t` unchanged.
func Abstract(xs []Atom, lvl int, t *Term) *Term {
	if len(xs) == 0 {
		return t
	}

	return abstract(xs, lvl, t)
}

// AbstractType is Abstract lifted to Type.
func AbstractType(xs []Atom, lvl int, ty *Type) *Type {
	if len(xs) == 0 {
		return ty
	}

	return &Type{Term: abstract(xs, lvl, ty.Term)}
}

func abstractBinder(xs []Atom, lvl int, b *Binder) *Binder {
	return &Binder{Hint: b.Hint, Type: &Type{Term: abstract(xs, lvl, b.Type.Term)}}
}

func abstractFields(xs []Atom, lvl int, fs []Field) []Field {
	out := make([]Field, len(fs))
	for i, f := range fs {
		out[i] = Field{Label: f.Label, Hint: f.Hint, Type: &Type{Term: abstract(xs, lvl+i, f.Type.Term)}}
	}

	return out
}

func abstract(xs []Atom, lvl int, t *Term) *Term {
	switch t.Kind {
	case KindType, KindBound, KindConstant:
		return t
	case KindAtom:
		for i, x := range xs {
			if t.AtomVal.Equal(x) {
				return MkBound(t.Loc, lvl+i)
			}
		}

		return t
	case KindLambda:
		return MkLambda(t.Loc,
			abstractBinder(xs, lvl, t.LambdaParam),
			abstract(xs, lvl+1, t.LambdaBody),
			AbstractType(xs, lvl+1, t.LambdaCod))
	case KindApply:
		return MkApply(t.Loc,
			abstract(xs, lvl, t.ApplyFun),
			abstractBinder(xs, lvl, t.ApplyParam),
			AbstractType(xs, lvl+1, t.ApplyCod),
			abstract(xs, lvl, t.ApplyArg))
	case KindProd:
		return MkProd(t.Loc, abstractBinder(xs, lvl, t.ProdParam), AbstractType(xs, lvl+1, t.ProdCod)).Term
	case KindEq:
		return MkEq(t.Loc,
			AbstractType(xs, lvl, t.EqType),
			abstract(xs, lvl, t.EqLHS),
			abstract(xs, lvl, t.EqRHS)).Term
	case KindRefl:
		return MkRefl(t.Loc, AbstractType(xs, lvl, t.ReflType), abstract(xs, lvl, t.ReflTerm))
	case KindSignature:
		return MkSignature(t.Loc, abstractFields(xs, lvl, t.SignatureFields))
	case KindStructure:
		values := make([]*Term, len(t.StructureValues))
		for i, v := range t.StructureValues {
			values[i] = abstract(xs, lvl, v)
		}

		return MkStructure(t.Loc, abstractFields(xs, lvl, t.StructureFields), values)
	case KindProjection:
		return MkProjection(t.Loc, abstract(xs, lvl, t.ProjectionTerm), abstractFields(xs, lvl, t.ProjectionSig), t.ProjectionLabel)
	default:
		return t
	}
}

// Substitute replaces the free atoms xs by the terms es, defined as
// instantiate(es, 0, abstract(xs, 0, t)). len(xs) must equal len(es).
func Substitute(xs []Atom, es []*Term, t *Term) *Term {
	if len(xs) == 0 {
		return t
	}

	return Instantiate(es, 0, Abstract(xs, 0, t))
}

// SubstituteType is Substitute lifted to Type.
func SubstituteType(xs []Atom, es []*Term, ty *Type) *Type {
	if len(xs) == 0 {
		return ty
	}

	return InstantiateType(es, 0, AbstractType(xs, 0, ty))
}

// Unabstract opens the outermost len(xs) binders of t by replacing
// `Bound 0 .. Bound(len(xs)-1)` with fresh atoms xs, matching the way the
// evaluator opens a Lambda/Prod binder before descending into its body.
func Unabstract(xs []Atom, t *Term) *Term {
	es := make([]*Term, len(xs))
	for i, x := range xs {
		es[i] = MkAtom(t.Loc, x)
	}

	return Instantiate(es, 0, t)
}

// UnabstractType is Unabstract lifted to Type.
func UnabstractType(xs []Atom, ty *Type) *Type {
	es := make([]*Term, len(xs))
	for i, x := range xs {
		es[i] = MkAtom(ty.Term.Loc, x)
	}

	return InstantiateType(es, 0, ty)
}

// Occurs counts occurrences of `Bound k` in t. It exists only to help a
// pretty-printer decide whether a binder's name is actually used; it plays
// no role in any judgement.
func Occurs(k int, t *Term) int {
	switch t.Kind {
	case KindType, KindAtom, KindConstant:
		return 0
	case KindBound:
		if t.BoundIndex == k {
			return 1
		}

		return 0
	case KindLambda:
		return Occurs(k, t.LambdaParam.Type.Term) + Occurs(k+1, t.LambdaBody) + Occurs(k+1, t.LambdaCod.Term)
	case KindApply:
		return Occurs(k, t.ApplyFun) + Occurs(k, t.ApplyParam.Type.Term) + Occurs(k+1, t.ApplyCod.Term) + Occurs(k, t.ApplyArg)
	case KindProd:
		return Occurs(k, t.ProdParam.Type.Term) + Occurs(k+1, t.ProdCod.Term)
	case KindEq:
		return Occurs(k, t.EqType.Term) + Occurs(k, t.EqLHS) + Occurs(k, t.EqRHS)
	case KindRefl:
		return Occurs(k, t.ReflType.Term) + Occurs(k, t.ReflTerm)
	case KindSignature:
		sum := 0
		for i, f := range t.SignatureFields {
			sum += Occurs(k+i, f.Type.Term)
		}

		return sum
	case KindStructure:
		sum := 0
		for i, f := range t.StructureFields {
			sum += Occurs(k+i, f.Type.Term)
		}

		for _, v := range t.StructureValues {
			sum += Occurs(k, v)
		}

		return sum
	case KindProjection:
		sum := Occurs(k, t.ProjectionTerm)
		for i, f := range t.ProjectionSig {
			sum += Occurs(k+i, f.Type.Term)
		}

		return sum
	default:
		return 0
	}
}
