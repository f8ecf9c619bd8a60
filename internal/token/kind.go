package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwFn represents the 'fn' keyword.
	KwFn // fn
	// KwPub represents the 'pub' keyword.
	KwPub // pub
	// KwUnconstrained represents the 'unconstrained' keyword.
	KwUnconstrained // unconstrained
	// KwUse represents the 'use' keyword.
	KwUse // use
	// KwMod represents the 'mod' keyword.
	KwMod // mod
	// KwStruct represents the 'struct' keyword.
	KwStruct // struct
	// KwGlobal represents the 'global' keyword.
	KwGlobal // global
	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwMut represents the 'mut' keyword.
	KwMut // mut
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwAs represents the 'as' keyword.
	KwAs // as
	// KwCrate represents the 'crate' path root.
	KwCrate // crate
	// KwDep represents the 'dep' path root.
	KwDep   // dep
	KwTrue  // true
	KwFalse // false

	// IntLit represents the integer literal token.
	IntLit
	// StringLit represents the string literal token.
	StringLit

	Plus    // +
	Minus   // -
	Star    // *
	Slash   // /
	Percent // %
	Assign  // =
	EqEq    // ==
	Bang    // !
	BangEq  // !=
	Lt      // <
	LtEq    // <=
	Gt      // >
	GtEq    // >=
	Shl     // <<
	Shr     // >>
	Amp     // &
	Pipe    // |
	Caret   // ^
	AndAnd  // &&
	OrOr    // ||
	Colon   // :
	// ColonColon separates path segments.
	ColonColon // ::
	Semicolon  // ;
	Comma      // ,
	Dot        // .
	DotDot     // ..
	Arrow      // ->
	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
	LBracket   // [
	RBracket   // ]
	// Hash opens an attribute: #[...].
	Hash       // #
	Underscore // _
)

var kindNames = [...]string{
	Invalid:         "Invalid",
	EOF:             "EOF",
	Ident:           "Ident",
	KwFn:            "fn",
	KwPub:           "pub",
	KwUnconstrained: "unconstrained",
	KwUse:           "use",
	KwMod:           "mod",
	KwStruct:        "struct",
	KwGlobal:        "global",
	KwLet:           "let",
	KwMut:           "mut",
	KwIf:            "if",
	KwElse:          "else",
	KwFor:           "for",
	KwIn:            "in",
	KwReturn:        "return",
	KwAs:            "as",
	KwCrate:         "crate",
	KwDep:           "dep",
	KwTrue:          "true",
	KwFalse:         "false",
	IntLit:          "IntLit",
	StringLit:       "StringLit",
	Plus:            "+",
	Minus:           "-",
	Star:            "*",
	Slash:           "/",
	Percent:         "%",
	Assign:          "=",
	EqEq:            "==",
	Bang:            "!",
	BangEq:          "!=",
	Lt:              "<",
	LtEq:            "<=",
	Gt:              ">",
	GtEq:            ">=",
	Shl:             "<<",
	Shr:             ">>",
	Amp:             "&",
	Pipe:            "|",
	Caret:           "^",
	AndAnd:          "&&",
	OrOr:            "||",
	Colon:           ":",
	ColonColon:      "::",
	Semicolon:       ";",
	Comma:           ",",
	Dot:             ".",
	DotDot:          "..",
	Arrow:           "->",
	LParen:          "(",
	RParen:          ")",
	LBrace:          "{",
	RBrace:          "}",
	LBracket:        "[",
	RBracket:        "]",
	Hash:            "#",
	Underscore:      "_",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
