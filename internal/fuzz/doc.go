// Package fuzztests houses Go fuzz harnesses that exercise the layered
// pipeline (source -> lexer -> structure -> parser -> edits). Its goal is
// to smoke test robustness and guard against panics or hangs on arbitrary
// inputs.
//
// Назначение: прогонять произвольные байты через все слои и проверять
// инварианты, которые обязаны держаться на любом входе.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
