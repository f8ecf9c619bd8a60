// Package token defines lexical token kinds and trivia for macrofront sources.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Begin..End).
//   - Attributes are lexed as '#' (Kind: Hash) '[' ... ']'; no per-attribute token kinds.
//   - Comments are leading Trivia and never appear in the main token stream.
//   - Built-in type names (Field, bool, u8, ...) are identifiers.
//     They are recognized by later phases, not the lexer.
package token
