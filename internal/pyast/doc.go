// Package pyast provides a small typed syntax tree for the Python source that
// bindgen emits, and a printer that serializes it.
//
// ARCHITECTURE:
//
// Generators never concatenate Python text directly. They build a tree of
// statements and expressions, and the tree is printed only once it is
// complete:
//
//	[ComponentInterface] → [typemap / emit] → [pyast.Module] → Fprint → source
//
// A failure anywhere while building the tree therefore produces no output
// at all.
//
// SEALED INTERFACES:
//
// Stmt and Expr are sealed with marker methods. Only types in this package
// implement them, so the printer's type switches are exhaustive and an
// unknown node is a programming error reported as an error value.
//
// FORMATTING:
//
// Printing is deterministic. Blocks are indented with four spaces. The
// printer never reflows or reorders anything: blank lines, comments and
// multi-line calls appear exactly where the tree puts them.
//
// Expressions that need grouping are parenthesized by operator precedence,
// so callers can nest BinOp, Compare and IfExp freely.
package pyast
