// Package resolve builds a crate's def map and resolves its names.
//
// Collect walks the root module and every `mod name;` file below it,
// defining functions, structs, globals and modules. Resolve then binds the
// pending import directives (including those appended by macro processors in
// the prelude phase) and every path used inside function bodies and global
// initializers. A function whose body refers to an #[oracle] function is
// annotated with the oracle names (hir.AnnotOracle). Types are not resolved.
package resolve
