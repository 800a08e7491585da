// Package fuzztests houses Go fuzz harnesses for the analysis pipeline
// (source -> tree-sitter -> rules). They guard against panics, hangs and
// out-of-range positions on arbitrary input.
//
// Назначение: прогонять произвольные байты через pytree, literal и rules.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
