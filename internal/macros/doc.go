// Package macros defines the macro processor contract and the host that
// drives registered processors through the three phases of a crate:
//
//   - untyped AST, before name resolution, on the crate root module;
//   - crate prelude, while the crate's pending imports are collected;
//   - typed AST, after resolution, with a mutable compilation context.
//
// Processors run in registration order. The first macro error of a phase
// stops that phase for the crate; mutations made by earlier processors stay.
package macros
