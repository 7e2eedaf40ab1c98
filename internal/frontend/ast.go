// Package frontend is a small arithmetic/constraint expression language
// sufficient to drive internal/ssa end-to-end (functions, let bindings,
// constrain statements, a return), grounded on kanso's
// grammar/{lexer,grammar,parser}.go structure: a hand-rolled lexer feeding a
// participle-driven grammar. It is NOT a reimplementation of kanso's
// Move-like contract language — see SPEC_FULL.md.
package frontend

import "github.com/alecthomas/participle/v2/lexer"

// Program is the grammar's entry point: zero or more function definitions.
type Program struct {
	Functions []*Function `@@*`
}

// Function is `fn name(param: type, ...) -> type { ... }`. Return is absent
// for a unit-returning function.
type Function struct {
	Pos    lexer.Position
	Name   string      `"fn" @Ident "("`
	Params []*Param    `[ @@ { "," @@ } ] ")"`
	Return *string     `[ "->" @Ident ]`
	Body   *Block      `@@`
}

// Param is one function parameter.
type Param struct {
	Name string `@Ident ":"`
	Type string `@Ident`
}

// Block is a brace-delimited statement list.
type Block struct {
	Statements []*Statement `"{" @@* "}"`
}

// Statement is one of the three statement forms the grammar supports.
type Statement struct {
	Let       *LetStmt       `  @@`
	Constrain *ConstrainStmt `| @@`
	Return    *ReturnStmt    `| @@`
}

// LetStmt binds Expr's value to Name for the rest of the enclosing block.
type LetStmt struct {
	Pos  lexer.Position
	Name string `"let" @Ident "="`
	Expr *Expr  `@@ ";"`
}

// ConstrainStmt asserts Expr is truthy; Pos anchors the "always false"
// diagnostic at the source location of the constrain keyword.
type ConstrainStmt struct {
	Pos  lexer.Position
	Expr *Expr `"constrain" @@ ";"`
}

// ReturnStmt returns Expr's value from the enclosing function.
type ReturnStmt struct {
	Pos  lexer.Position
	Expr *Expr `"return" @@ ";"`
}

// Expr is the grammar's precedence-climbing expression chain, lowest
// binding first: equality, relational, bitwise or/xor/and, shift,
// additive, multiplicative, unary, primary.
type Expr struct {
	Value *EqualityExpr `@@`
}

type EqualityExpr struct {
	Left *RelationalExpr `@@`
	Ops  []*EqualityOp   `{ @@ }`
}

type EqualityOp struct {
	Operator string          `@("==" | "!=")`
	Right    *RelationalExpr `@@`
}

type RelationalExpr struct {
	Left *BitOrExpr `@@`
	Ops  []*RelationalOp `{ @@ }`
}

type RelationalOp struct {
	Operator string     `@("<=" | ">=" | "<" | ">")`
	Right    *BitOrExpr `@@`
}

type BitOrExpr struct {
	Left *BitXorExpr `@@`
	Ops  []*BitOrOp  `{ @@ }`
}

type BitOrOp struct {
	Operator string      `@"|"`
	Right    *BitXorExpr `@@`
}

type BitXorExpr struct {
	Left *BitAndExpr `@@`
	Ops  []*BitXorOp `{ @@ }`
}

type BitXorOp struct {
	Operator string      `@"^"`
	Right    *BitAndExpr `@@`
}

type BitAndExpr struct {
	Left *ShiftExpr `@@`
	Ops  []*BitAndOp `{ @@ }`
}

type BitAndOp struct {
	Operator string     `@"&"`
	Right    *ShiftExpr `@@`
}

type ShiftExpr struct {
	Left *AdditiveExpr `@@`
	Ops  []*ShiftOp    `{ @@ }`
}

type ShiftOp struct {
	Operator string        `@("<<" | ">>")`
	Right    *AdditiveExpr `@@`
}

type AdditiveExpr struct {
	Left *MultiplicativeExpr `@@`
	Ops  []*AdditiveOp       `{ @@ }`
}

type AdditiveOp struct {
	Operator string              `@("+" | "-")`
	Right    *MultiplicativeExpr `@@`
}

type MultiplicativeExpr struct {
	Left *UnaryExpr           `@@`
	Ops  []*MultiplicativeOp  `{ @@ }`
}

type MultiplicativeOp struct {
	Operator string     `@("*" | "/" | "%")`
	Right    *UnaryExpr `@@`
}

// UnaryExpr applies at most one prefix operator; the grammar doesn't nest
// unary operators (matching the demonstration surface's scope).
type UnaryExpr struct {
	Operator *string      `[ @("!" | "-") ]`
	Value    *PrimaryExpr `@@`
}

// PrimaryExpr is a literal, an identifier, or a parenthesized expression.
type PrimaryExpr struct {
	Pos    lexer.Position
	Number *string `  @Integer`
	Ident  *string `| @Ident`
	Paren  *Expr   `| "(" @@ ")"`
}
