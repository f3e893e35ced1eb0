package ast

import (
	"waldo/internal/source"
)

type ExprKind uint8

const (
	// ExprInstantiate: instantiate(component, args...)
	ExprInstantiate ExprKind = iota
	// ExprName: a bare reference `i`
	ExprName
	// ExprProject: an exported item of an instance `i.item`
	ExprProject
)

func (k ExprKind) String() string {
	switch k {
	case ExprInstantiate:
		return "instantiate"
	case ExprName:
		return "name"
	case ExprProject:
		return "project"
	default:
		return "expr(?)"
	}
}

type ArgKind uint8

const (
	ArgNamed ArgKind = iota
	ArgUnnamed
)

// Arg is one argument of an instantiation. Name is zero for ArgUnnamed.
type Arg struct {
	Kind  ArgKind
	Name  Name
	Value ExprID
	Span  source.Span
}

// Expr is a flat expression node.
//   - ExprInstantiate: Name is the component, Args the argument list.
//   - ExprName: Name is the reference.
//   - ExprProject: Name is the instance, Member the exported item.
type Expr struct {
	Kind   ExprKind
	Name   Name
	Member Name
	Args   []Arg
	Span   source.Span
}

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena *Arena[Expr]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Exprs{Arena: NewArena[Expr](capHint)}
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) NewInstantiate(span source.Span, component Name, args []Arg) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind: ExprInstantiate,
		Name: component,
		Args: append([]Arg(nil), args...),
		Span: span,
	}))
}

func (e *Exprs) NewName(name Name) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind: ExprName,
		Name: name,
		Span: name.Span,
	}))
}

func (e *Exprs) NewProject(target, member Name) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:   ExprProject,
		Name:   target,
		Member: member,
		Span:   target.Span.Cover(member.Span),
	}))
}
