package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedDelimiter  Code = 2002
	SynExpectSemicolon    Code = 2003
	SynUnexpectedTopLevel Code = 2004
	SynExpectIdentifier   Code = 2005
	SynExpectType         Code = 2006
	SynExpectExpression   Code = 2007
	SynExpectColon        Code = 2008
	SynModifierNotAllowed Code = 2009
	SynBadAttribute       Code = 2010
	SynEmptyUseGroup      Code = 2011
	SynDuplicateModifier  Code = 2012

	// Семантические (резолвер)
	SemaInfo                Code = 3000
	SemaDuplicateSymbol     Code = 3001
	SemaUnresolvedSymbol    Code = 3002
	SemaUnresolvedImport    Code = 3003
	SemaPrivateItem         Code = 3004
	SemaDuplicateParam      Code = 3005
	SemaUnknownOracleTarget Code = 3006

	// Ошибки I/O
	IOLoadFileError   Code = 4001
	IOMissingModFile  Code = 4002
	IOCacheReadFailed Code = 4003

	// Ошибки проекта / DAG
	ProjInfo             Code = 5000
	ProjDuplicateCrate   Code = 5001
	ProjMissingCrate     Code = 5002
	ProjSelfDependency   Code = 5003
	ProjDependencyCycle  Code = 5004
	ProjDependencyFailed Code = 5005

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Макро-процессоры
	MacInfo  Code = 7000
	MacError Code = 7001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynExpectSemicolon:          "Expect semicolon",
	SynUnexpectedTopLevel:       "Unexpected top level",
	SynExpectIdentifier:         "Expect identifier",
	SynExpectType:               "Expect type",
	SynExpectExpression:         "Expect expression",
	SynExpectColon:              "Expect colon",
	SynModifierNotAllowed:       "Modifier not allowed here",
	SynBadAttribute:             "Malformed attribute",
	SynEmptyUseGroup:            "Empty use group",
	SynDuplicateModifier:        "Duplicate modifier",
	SemaInfo:                    "Semantic information",
	SemaDuplicateSymbol:         "Duplicate symbol",
	SemaUnresolvedSymbol:        "Unresolved symbol",
	SemaUnresolvedImport:        "Unresolved import",
	SemaPrivateItem:             "Item is not public",
	SemaDuplicateParam:          "Duplicate parameter",
	SemaUnknownOracleTarget:     "Oracle attribute without a name",
	IOLoadFileError:             "Failed to load file",
	IOMissingModFile:            "Module file not found",
	IOCacheReadFailed:           "Cache read failed",
	ProjInfo:                    "Project information",
	ProjDuplicateCrate:          "Duplicate crate",
	ProjMissingCrate:            "Missing crate",
	ProjSelfDependency:          "Crate depends on itself",
	ProjDependencyCycle:         "Dependency cycle",
	ProjDependencyFailed:        "Dependency failed",
	ObsInfo:                     "Observability information",
	ObsTimings:                  "Timings",
	MacInfo:                     "Macro information",
	MacError:                    "Macro processing failed",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("MAC%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
