package token

var keywords = map[string]Kind{
	"fn":            KwFn,
	"pub":           KwPub,
	"unconstrained": KwUnconstrained,
	"use":           KwUse,
	"mod":           KwMod,
	"struct":        KwStruct,
	"global":        KwGlobal,
	"let":           KwLet,
	"mut":           KwMut,
	"if":            KwIf,
	"else":          KwElse,
	"for":           KwFor,
	"in":            KwIn,
	"return":        KwReturn,
	"as":            KwAs,
	"crate":         KwCrate,
	"dep":           KwDep,
	"true":          KwTrue,
	"false":         KwFalse,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые: только lowercase версии распознаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
