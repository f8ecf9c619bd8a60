// Package format prints a sorted module back as canonical source text.
//
// Назначение: показать результат раскрытия макросов (`expand --format source`)
// и стабильный вид для сравнений в тестах.
// Не делает: сохранение обычных комментариев и исходных пробелов; doc-комментарии
// печатаются заново из ast.
// Зависимости: internal/ast, internal/token.
package format
