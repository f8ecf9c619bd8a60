// Package ast holds the syntax tree produced by the parser.
//
// Nodes are plain pointers rather than arena handles: a declaration parsed
// from one buffer can be appended to a module parsed from another, which is
// what macro processors do when they inject code.
package ast
