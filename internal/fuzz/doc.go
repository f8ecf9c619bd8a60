// Package fuzztests houses Go fuzz harnesses that exercise the front of the
// pipeline (source -> lexer -> parser). Its goal is to smoke test robustness
// and guard against panics, hangs or broken spans on arbitrary inputs.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер/парсер,
// проверяя инварианты из internal/testkit.
//
// Не делает: генерацию корпусов, запись файлов, запуск макро-процессоров.
package fuzztests
