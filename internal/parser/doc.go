// Package parser turns .mf sources and in-memory snippets into ast modules.
//
// ParseFile parses a file registered in a source.FileSet and reports to the
// caller's diag.Reporter. ParseProgram parses a standalone string (used by
// macro processors for injected code); its spans carry source.SnippetFileID.
package parser
