// Package fuzztests houses Go fuzz harnesses that exercise the document
// pipeline (source -> lexer -> parser -> resolver). Its goal is to smoke test
// robustness and guard against panics, hangs and span corruption on
// arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер, парсер и резолвер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.

package fuzztests
