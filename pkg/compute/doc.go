// Package compute evaluates calculated fields. A calculation is an arithmetic
// formula such as "{{price}} * {{qty}}" where each {{key}} reads another
// field's value from the record.
//
// Formulas go through a small parser that accepts numbers, references,
// + - * / and parentheses, so a broken formula is a ParseError and a bad
// evaluation is an ArithmeticError rather than an opaque failure. Build
// links formulas into a dependency graph, rejects cycles, and Recompute
// evaluates the rest in topological order, returning the write-backs the
// caller merges into its record. Failures are collected for diagnostics;
// the affected field simply keeps its previous value.
package compute
