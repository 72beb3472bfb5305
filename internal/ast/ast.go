// Package ast defines the syntactic tree produced by internal/parser.
// Every node carries an hcl.Range into the originating file, the span
// vocabulary the rest of the compiler (diagnostics, the visitor, the
// transpiler) is built around.
package ast

import "github.com/hashicorp/hcl/v2"

// File is the syntactic tree for one source file.
type File struct {
	Path    string
	Imports []*Import
	Decls   []Decl
}

// Import records one `import ... from "spec"` statement. Only the bound
// local names and the module specifier are kept; Arc never resolves
// modules, it only uses import bindings to classify free identifiers as
// "dependencies" per spec §4.3.
type Import struct {
	Names      []string // local bindings introduced by this import
	Specifier  string
	Range      hcl.Range
}

// Decorator is one `@name(...)` or bare `@name` application.
type Decorator struct {
	Name      string
	NameRange hcl.Range
	HasArgs   bool
	Arg       Expr // nil if HasArgs is false
	Range     hcl.Range
}

// Decl is a top-level declaration: *FuncDecl or *ClassDecl.
type Decl interface {
	DeclName() string
	DeclRange() hcl.Range
	DeclDecorators() []*Decorator
}

// FuncDecl is a top-level function declaration.
type FuncDecl struct {
	Name       string
	Decorators []*Decorator
	Async      bool
	Generator  bool
	Params     []Param
	BodyRange  hcl.Range // the `{ ... }` span, inclusive of braces
	Range      hcl.Range // the whole declaration, excluding decorator lines
	FreeIdents []string  // free identifiers referenced in the body (for dependency tracking)

	// Erasures lists byte ranges within Range that carry static-type-only
	// syntax (parameter/return type annotations, generic type parameters,
	// TS-only access modifiers) to be dropped by internal/transpile.
	Erasures []hcl.Range
}

func (f *FuncDecl) DeclName() string                  { return f.Name }
func (f *FuncDecl) DeclRange() hcl.Range               { return f.Range }
func (f *FuncDecl) DeclDecorators() []*Decorator       { return f.Decorators }

// Param is a (name-only) formal parameter; parameter internals (default
// values, destructuring patterns, type annotations) are preserved in the
// raw declaration span but are not individually modeled.
type Param struct {
	Name string
}

// ClassDecl is a top-level class declaration.
type ClassDecl struct {
	Name       string
	Decorators []*Decorator
	Members    []*ClassMember
	Range      hcl.Range // the whole class, from `class` (or leading export) to closing brace
	FreeIdents []string  // free identifiers referenced anywhere in the class body

	// Erasures aggregates every member's static-type-only byte ranges, plus
	// the class's own generic type-parameter list if any.
	Erasures []hcl.Range
}

func (c *ClassDecl) DeclName() string            { return c.Name }
func (c *ClassDecl) DeclRange() hcl.Range        { return c.Range }
func (c *ClassDecl) DeclDecorators() []*Decorator { return c.Decorators }

// ClassMember is one method or field inside a class body.
type ClassMember struct {
	Name       string
	IsMethod   bool
	Decorators []*Decorator
	Range      hcl.Range
	Erasures   []hcl.Range
}

// Expr is a decoded decorator-argument expression node. Arc's grammar for
// decorator arguments is literal-only: the concrete types below are the
// complete set the decoder (internal/literal) ever has to handle.
type Expr interface {
	ExprRange() hcl.Range
}

type StringLit struct {
	Value string
	Range hcl.Range
}

type NumberLit struct {
	Value string // kept as text; internal/literal parses it numerically
	Range hcl.Range
}

type BoolLit struct {
	Value bool
	Range hcl.Range
}

type NullLit struct {
	Range hcl.Range
}

type ArrayLit struct {
	Elements []Expr
	Range    hcl.Range
}

type ObjectProp struct {
	Key      string
	KeyRange hcl.Range
	Value    Expr
}

type ObjectLit struct {
	Props []ObjectProp
	Range hcl.Range
}

// NonLiteral captures any decorator-argument sub-expression that is not a
// string/number/bool/null/array/object literal: an identifier reference, a
// call, a template literal, a computed key, and so on. The decoder rejects
// it, but the parser still needs to consume and span it so parsing can
// continue past it.
type NonLiteral struct {
	Description string // short human label, e.g. "identifier", "template literal"
	Range       hcl.Range
}

func (e *StringLit) ExprRange() hcl.Range  { return e.Range }
func (e *NumberLit) ExprRange() hcl.Range  { return e.Range }
func (e *BoolLit) ExprRange() hcl.Range    { return e.Range }
func (e *NullLit) ExprRange() hcl.Range    { return e.Range }
func (e *ArrayLit) ExprRange() hcl.Range   { return e.Range }
func (e *ObjectLit) ExprRange() hcl.Range  { return e.Range }
func (e *NonLiteral) ExprRange() hcl.Range { return e.Range }
