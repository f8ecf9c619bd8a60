// Package hir holds crate-level state shared by the frontend passes:
// crate identity, the crate graph, per-crate definition maps, pending
// import directives and the per-crate Context handed to macro processors.
package hir
