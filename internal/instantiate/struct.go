package instantiate

import (
	"fmt"
	"strconv"

	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
)

// ProcessStruct implements process_struct_decl: resolves the
// base/inherited types, computes all_members with override/shadow applied,
// processes each own member's signature, checks for circular value-type
// composition, synthesizes implicit constructors/destructor, builds the
// v-table, and computes the memory layout. Idempotent via IsInstantiated.
func (in *Instantiator) ProcessStruct(s *ast.StructDecl) {
	if s == nil || s.IsInstantiated {
		return
	}
	pop, cyclic := in.pushWorking(s)
	if cyclic {
		in.sink.Error(diag.New(diag.KindStructural, "", ast.Range{},
			"struct %q is involved in a circular base/member dependency", s.Ident.Name))
		return
	}
	defer pop()

	if s.BaseTypeExpr != nil {
		s.BaseTypeExpr = in.ResolveType(s.BaseTypeExpr)
		if _, isTrait := ast.Unqualified(s.BaseTypeExpr).(*ast.TraitType); isTrait {
			s.InheritedExprs = append([]ast.Type{s.BaseTypeExpr}, s.InheritedExprs...)
			s.BaseTypeExpr = nil
		} else if bt, ok := ast.Unqualified(s.BaseTypeExpr).(*ast.StructType); ok {
			in.ProcessStruct(bt.Decl)
			s.BaseStruct = bt.Decl
		} else {
			in.sink.Error(diag.New(diag.KindStructural, "", ast.Range{},
				"struct %q: base type is not a struct", s.Ident.Name))
		}
	}
	for i, it := range s.InheritedExprs {
		resolved := in.ResolveType(it)
		s.InheritedExprs[i] = resolved
		if tr, ok := ast.Unqualified(resolved).(*ast.TraitType); ok {
			in.ProcessTrait(tr.Decl)
			s.InheritedTraits = append(s.InheritedTraits, tr.Decl)
		} else {
			in.sink.Error(diag.New(diag.KindStructural, "", ast.Range{},
				"struct %q inherits a non-trait type", s.Ident.Name))
		}
	}

	for _, m := range s.Members {
		m.Base().Container = s
		in.processMember(m)
	}

	var base []ast.Decl
	if s.BaseStruct != nil {
		base = s.BaseStruct.AllMembers
	}
	s.AllMembers = mergeAllMembers(base, s.Members)

	in.checkCircularValue(s, nil)
	in.synthesizeCtorsDtor(s)
	in.buildVTable(s)
	in.computeLayout(s)

	s.IsInstantiated = true
}

// ProcessTrait is ProcessStruct's simpler counterpart: traits carry no
// base/layout/vtable, only inherited-trait resolution and all_members.
func (in *Instantiator) ProcessTrait(t *ast.TraitDecl) {
	if t == nil || t.IsInstantiated {
		return
	}
	pop, cyclic := in.pushWorking(t)
	if cyclic {
		in.sink.Error(diag.New(diag.KindStructural, "", ast.Range{},
			"trait %q is involved in a circular inheritance dependency", t.Ident.Name))
		return
	}
	defer pop()

	for i, it := range t.InheritedExprs {
		resolved := in.ResolveType(it)
		t.InheritedExprs[i] = resolved
		if tr, ok := ast.Unqualified(resolved).(*ast.TraitType); ok {
			in.ProcessTrait(tr.Decl)
			t.InheritedTraits = append(t.InheritedTraits, tr.Decl)
		} else {
			in.sink.Error(diag.New(diag.KindStructural, "", ast.Range{},
				"trait %q inherits a non-trait type", t.Ident.Name))
		}
	}
	for _, m := range t.Members {
		m.Base().Container = t
		in.processMember(m)
	}

	var base []ast.Decl
	for _, parent := range t.InheritedTraits {
		base = append(base, parent.AllMembers...)
	}
	t.AllMembers = mergeAllMembers(base, t.Members)
	t.IsInstantiated = true
}

// processMember resolves the signature of one struct/trait member. Kinds
// already covered by processDecl (nested structs/traits/templates, member
// variables, aliases, enums) are delegated there; the remaining
// member-only callable shapes are handled here.
func (in *Instantiator) processMember(m ast.Decl) {
	switch v := m.(type) {
	case *ast.ConstructorDecl:
		for _, p := range v.Params {
			p.Type = in.ResolveType(p.Type)
		}
	case *ast.DestructorDecl:
		// no signature to resolve
	case *ast.OperatorDecl:
		for _, p := range v.Params {
			p.Type = in.ResolveType(p.Type)
		}
		v.Result = in.ResolveType(v.Result)
	case *ast.CallOperatorDecl:
		for _, p := range v.Params {
			p.Type = in.ResolveType(p.Type)
		}
		v.Result = in.ResolveType(v.Result)
	case *ast.TypeSuffixDecl:
		if v.Param != nil {
			v.Param.Type = in.ResolveType(v.Param.Type)
		}
		v.Result = in.ResolveType(v.Result)
	case *ast.SubscriptOperatorDecl:
		for _, g := range v.Gets {
			for _, p := range g.Params {
				p.Type = in.ResolveType(p.Type)
			}
			g.Result = in.ResolveType(g.Result)
		}
		if v.Set != nil {
			for _, p := range v.Set.Params {
				p.Type = in.ResolveType(p.Type)
			}
		}
	case *ast.PropertyDecl:
		v.Type = in.ResolveType(v.Type)
	case *ast.TraitPrototypeDecl:
		v.TraitRef = in.ResolveType(v.TraitRef)
	default:
		in.processDecl(m)
	}
}

// mergeAllMembers applies the override/shadow rule: a derived
// member with the same name, same kind, and (for functions) a matching
// parameter label/type sequence replaces the inherited slot; otherwise it is
// appended.
func mergeAllMembers(base []ast.Decl, own []ast.Decl) []ast.Decl {
	all := append([]ast.Decl(nil), base...)
	for _, m := range own {
		if idx := findOverrideIndex(all, m); idx >= 0 {
			all[idx] = m
		} else {
			all = append(all, m)
		}
	}
	return all
}

func findOverrideIndex(all []ast.Decl, m ast.Decl) int {
	for i, b := range all {
		if memberMatches(b, m) {
			return i
		}
	}
	return -1
}

// memberMatches is the shared same-name/same-kind/same-signature predicate
// behind override/shadow and v-table slot matching.
// Constructors, destructors, and other non-inheritable member kinds never
// match (each struct/trait owns its own).
func memberMatches(base, derived ast.Decl) bool {
	switch b := base.(type) {
	case *ast.VariableDecl:
		d, ok := derived.(*ast.VariableDecl)
		return ok && b.Ident.Name == d.Ident.Name
	case *ast.FunctionDecl:
		d, ok := derived.(*ast.FunctionDecl)
		return ok && b.Ident.Name == d.Ident.Name && paramSequenceMatches(b.Params, d.Params)
	case *ast.PropertyDecl:
		d, ok := derived.(*ast.PropertyDecl)
		return ok && b.Ident.Name == d.Ident.Name
	case *ast.OperatorDecl:
		d, ok := derived.(*ast.OperatorDecl)
		return ok && b.Symbol == d.Symbol && b.Fixity == d.Fixity
	case *ast.CallOperatorDecl:
		d, ok := derived.(*ast.CallOperatorDecl)
		return ok && paramSequenceMatches(b.Params, d.Params)
	case *ast.SubscriptOperatorDecl:
		_, ok := derived.(*ast.SubscriptOperatorDecl)
		return ok
	default:
		return false
	}
}

// paramSequenceMatches reports whether the parameter label sequence and
// parameter types match modulo top-level qualifiers and references.
func paramSequenceMatches(a, b []*ast.ParameterDecl) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Label != b[i].Label {
			return false
		}
		if !ast.UnqualifiedTypeEqual(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}

// checkCircularValue enforces that a struct may not directly or
// transitively embed itself by value. Pointers and references break the
// cycle; a guard stack of struct identities detects revisits.
func (in *Instantiator) checkCircularValue(s *ast.StructDecl, stack []*ast.StructDecl) {
	for _, seen := range stack {
		if seen == s {
			in.sink.Error(diag.New(diag.KindStructural, "", ast.Range{},
				"struct %q directly or transitively embeds itself by value", s.Ident.Name))
			return
		}
	}
	stack = append(stack, s)
	for _, m := range s.Members {
		vd, ok := m.(*ast.VariableDecl)
		if !ok || vd.Kind != ast.VarKindMember {
			continue
		}
		if st, ok := ast.Unqualified(vd.Type).(*ast.StructType); ok {
			in.checkCircularValue(st.Decl, stack)
		}
	}
}

// synthesizeCtorsDtor synthesizes any missing default/copy/move constructor
// and destructor. Each synthesized declaration is
// appended to both Members and AllMembers so later has-contract and overload
// lookups see it like any user-written one.
func (in *Instantiator) synthesizeCtorsDtor(s *ast.StructDecl) {
	var hasDefault, hasCopy, hasMove, hasDtor bool
	for _, m := range s.Members {
		switch c := m.(type) {
		case *ast.ConstructorDecl:
			switch c.SubKind {
			case ast.ConstructorCopy:
				hasCopy = true
				if s.CopyCtor == nil {
					s.CopyCtor = c
				}
			case ast.ConstructorMove:
				hasMove = true
				if s.MoveCtor == nil {
					s.MoveCtor = c
				}
			default:
				if len(c.Params) == 0 {
					hasDefault = true
					if s.DefaultCtor == nil {
						s.DefaultCtor = c
					}
				}
			}
		case *ast.DestructorDecl:
			hasDtor = true
			s.Destructor = c
		}
	}

	dataMembers := func() []*ast.VariableDecl {
		var out []*ast.VariableDecl
		for _, m := range s.Members {
			if vd, ok := m.(*ast.VariableDecl); ok && vd.Kind == ast.VarKindMember {
				out = append(out, vd)
			}
		}
		return out
	}()

	var added []ast.Decl

	if !hasDefault {
		status := ast.ConstructorVerified
		if s.BaseStruct != nil && s.BaseStruct.DefaultCtor != nil && s.BaseStruct.DefaultCtor.Status == ast.ConstructorDeleted {
			status = ast.ConstructorDeleted
		}
		for _, vd := range dataMembers {
			if !memberConstructibleByDefault(vd) {
				status = ast.ConstructorDeleted
			}
		}
		ctor := &ast.ConstructorDecl{SubKind: ast.ConstructorNormal, IsImplicit: true, Status: status, Body: &ast.CompoundStmt{}}
		ctor.Ident = ast.Identifier{Name: s.Ident.Name}
		ctor.Container = s
		added = append(added, ctor)
		s.DefaultCtor = ctor
	}
	if !hasCopy {
		status := ast.ConstructorVerified
		for _, vd := range dataMembers {
			if _, isRef := ast.Unqualified(vd.Type).(*ast.ReferenceType); isRef && vd.Initializer == nil {
				status = ast.ConstructorDeleted
			}
		}
		param := &ast.ParameterDecl{Type: &ast.ReferenceType{TypeBase: ast.TypeBase{Qualifier: ast.QualImmut}, Referent: &ast.StructType{Decl: s}}}
		param.Ident = ast.Identifier{Name: "other"}
		ctor := &ast.ConstructorDecl{SubKind: ast.ConstructorCopy, Params: []*ast.ParameterDecl{param}, IsImplicit: true, Status: status, Body: &ast.CompoundStmt{}}
		ctor.Ident = ast.Identifier{Name: s.Ident.Name}
		ctor.Container = s
		added = append(added, ctor)
		s.CopyCtor = ctor
	}
	if !hasMove {
		param := &ast.ParameterDecl{Type: &ast.ReferenceType{TypeBase: ast.TypeBase{Qualifier: ast.QualMut}, Referent: &ast.StructType{Decl: s}}}
		param.Ident = ast.Identifier{Name: "other"}
		ctor := &ast.ConstructorDecl{SubKind: ast.ConstructorMove, Params: []*ast.ParameterDecl{param}, IsImplicit: true, Status: ast.ConstructorVerified, Body: &ast.CompoundStmt{}}
		ctor.Ident = ast.Identifier{Name: s.Ident.Name}
		ctor.Container = s
		added = append(added, ctor)
		s.MoveCtor = ctor
	}
	if !hasDtor {
		dtor := &ast.DestructorDecl{IsImplicit: true, Body: &ast.CompoundStmt{}}
		dtor.Ident = ast.Identifier{Name: "~" + s.Ident.Name}
		dtor.Container = s
		if s.BaseStruct != nil && s.BaseStruct.Destructor != nil && s.BaseStruct.Destructor.Modifiers.Virtual {
			dtor.Modifiers.Override = true
		}
		added = append(added, dtor)
		s.Destructor = dtor
	}

	s.Members = append(s.Members, added...)
	s.AllMembers = append(s.AllMembers, added...)
}

// memberConstructibleByDefault is a pragmatic default-constructibility
// check: a reference member needs an initializer, a struct-typed member
// needs a verified default constructor of its own; everything else
// (built-ins, pointers, enums) always has a default.
func memberConstructibleByDefault(vd *ast.VariableDecl) bool {
	switch t := ast.Unqualified(vd.Type).(type) {
	case *ast.ReferenceType:
		return vd.Initializer != nil
	case *ast.RValueReferenceType:
		return vd.Initializer != nil
	case *ast.StructType:
		return t.Decl.DefaultCtor == nil || t.Decl.DefaultCtor.Status == ast.ConstructorVerified
	default:
		return true
	}
}

// buildVTable computes the struct's v-table slots.
func (in *Instantiator) buildVTable(s *ast.StructDecl) {
	if s.BaseStruct != nil {
		s.VTable = append([]ast.VTableEntry(nil), s.BaseStruct.VTable...)
		s.VTableOwner = s.BaseStruct.VTableOwner
	}
	for _, m := range s.Members {
		f, ok := m.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		switch {
		case f.Modifiers.Override:
			idx := findVTableSlot(s.VTable, f)
			if idx < 0 {
				in.sink.Error(diag.New(diag.KindOverride, "", ast.Range{},
					"%q is marked override but matches no inherited virtual method", f.Ident.Name))
				f.VTableSlot = -1
				continue
			}
			s.VTable[idx].Method = f
			f.VTableSlot = idx
		case f.Modifiers.Virtual || f.Modifiers.Abstract:
			if idx := findVTableSlot(s.VTable, f); idx >= 0 {
				s.VTable[idx].Method = f
				f.VTableSlot = idx
			} else {
				s.VTable = append(s.VTable, ast.VTableEntry{Name: f.Ident.Name, Method: f, Owner: s})
				f.VTableSlot = len(s.VTable) - 1
			}
		default:
			f.VTableSlot = -1
		}
	}
	if len(s.VTable) > 0 && s.VTableOwner == nil {
		s.VTableOwner = s
	}
}

func findVTableSlot(table []ast.VTableEntry, f *ast.FunctionDecl) int {
	for i, e := range table {
		if e.Name != f.Ident.Name {
			continue
		}
		if e.Method == nil || paramSequenceMatches(e.Method.Params, f.Params) {
			return i
		}
	}
	return -1
}

// computeLayout assigns byte offsets to every member. If this struct is the
// v-table owner, a hidden VTable-kind member is prepended first.
func (in *Instantiator) computeLayout(s *ast.StructDecl) {
	if s.VTableOwner == s && !hasHiddenVTableMember(s.Members) {
		vt := &ast.VariableDecl{Kind: ast.VarKindMember, Type: &ast.VTableType{}}
		vt.Ident = ast.Identifier{Name: "__vtable"}
		s.Members = append([]ast.Decl{vt}, s.Members...)
	}

	var layout []ast.MemoryLayoutEntry
	offset := 0
	maxAlign := 8
	padCount := 0

	for _, m := range s.Members {
		vd, ok := m.(*ast.VariableDecl)
		if !ok || vd.Kind != ast.VarKindMember {
			continue
		}
		sizeBits, alignBits := in.sizeAlignOf(vd.Type)
		if alignBits <= 0 {
			alignBits = 8
		}
		if alignBits > maxAlign {
			maxAlign = alignBits
		}
		if rem := offset % alignBits; rem != 0 {
			padBits := alignBits - rem
			padCount++
			pad := &ast.VariableDecl{
				Kind:      ast.VarKindMember,
				IsPadding: true,
				Type: &ast.FlatArrayType{
					Elem:   &ast.BuiltInType{Name: "i8", Signed: true, SizeBits: 8},
					Length: &ast.ValueLiteralExpr{Text: strconv.Itoa(padBits / 8)},
				},
			}
			pad.Ident = ast.Identifier{Name: fmt.Sprintf("__pad%d", padCount)}
			layout = append(layout, ast.MemoryLayoutEntry{Member: pad, Offset: offset, SizeBits: padBits, AlignBits: 8})
			offset += padBits
		}
		vd.Offset = offset
		vd.SizeBits = sizeBits
		vd.AlignBits = alignBits
		layout = append(layout, ast.MemoryLayoutEntry{Member: vd, Offset: offset, SizeBits: sizeBits, AlignBits: alignBits})
		offset += sizeBits
	}

	s.MemoryLayout = layout
	s.DataSizeWithoutPadding = offset

	structAlign := maxAlign
	if capBytes := in.target.AlignofStruct(); capBytes > 0 && capBytes*8 < structAlign {
		structAlign = capBytes * 8
	}
	s.AlignBits = structAlign

	withPadding := offset
	if structAlign > 0 {
		if rem := offset % structAlign; rem != 0 {
			withPadding += structAlign - rem
		}
	}
	s.DataSizeWithPadding = withPadding
}

func hasHiddenVTableMember(members []ast.Decl) bool {
	if len(members) == 0 {
		return false
	}
	vd, ok := members[0].(*ast.VariableDecl)
	if !ok {
		return false
	}
	_, ok = vd.Type.(*ast.VTableType)
	return ok
}

// sizeAlignOf queries C2 (via the target descriptor) for the size/alignment
// of t, processing nested struct types on demand so layout can be computed
// in declaration order without a separate dependency sort.
func (in *Instantiator) sizeAlignOf(t ast.Type) (sizeBits, alignBits int) {
	switch v := ast.Unqualified(t).(type) {
	case *ast.BuiltInType:
		size, sok := in.target.SizeofBuiltIn(v.Name)
		align, aok := in.target.AlignofBuiltIn(v.Name)
		if !sok {
			size = v.SizeBits
		}
		if !aok {
			align = v.SizeBits
		}
		return size, align
	case *ast.PointerType, *ast.ReferenceType, *ast.RValueReferenceType, *ast.FunctionPointerType, *ast.VTableType:
		return in.target.SizeofPtr(), in.target.SizeofPtr()
	case *ast.StructType:
		in.ProcessStruct(v.Decl)
		return v.Decl.DataSizeWithPadding, v.Decl.AlignBits
	case *ast.EnumType:
		if v.Decl.BaseType == nil {
			return 32, 32 // language default underlying type, i32
		}
		return in.sizeAlignOf(v.Decl.BaseType)
	case *ast.FlatArrayType:
		elemSize, elemAlign := in.sizeAlignOf(v.Elem)
		return elemSize * literalIntValue(v.Length), elemAlign
	default:
		return 8, 8
	}
}

func literalIntValue(e ast.Expr) int {
	lit, ok := e.(*ast.ValueLiteralExpr)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(lit.Text)
	if err != nil {
		return 0
	}
	return n
}
