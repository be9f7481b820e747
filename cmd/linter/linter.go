// Команда linter проверяет, что библиотека не завершает процесс движка:
// panic, os.Exit и log.Fatal в библиотечных пакетах запрещены, ошибка
// должна возвращаться вызывающему. Тестовые файлы не проверяются.
//
// Запуск: go run ./cmd/linter ./...
package main

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/singlechecker"
)

var Analyzer = &analysis.Analyzer{
	Name: "paniccheck",
	Doc:  "проверяет использование panic, os.Exit и log.Fatal вне функции main пакета main",
	Run:  run,
}

func main() {
	singlechecker.Main(Analyzer)
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		if isTestFile(pass, file) {
			continue
		}

		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			if ident, ok := call.Fun.(*ast.Ident); ok {
				if ident.Name == "panic" {
					pass.Reportf(call.Pos(), "использование встроенной функции panic")
				}
				return true
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			x, ok := sel.X.(*ast.Ident)
			if !ok {
				return true
			}

			pkgName := x.Name
			funcName := sel.Sel.Name

			if (pkgName == "log" && isFatalFunc(funcName)) ||
				(pkgName == "os" && funcName == "Exit") {
				if !isInMainFunc(pass, call) {
					pass.Reportf(call.Pos(),
						"вызов %s.%s вне функции main пакета main",
						pkgName, funcName)
				}
			}

			return true
		})
	}

	return nil, nil
}

func isFatalFunc(name string) bool {
	return name == "Fatal" || name == "Fatalf" || name == "Fatalln"
}

// isTestFile сообщает, объявлен ли файл в _test.go.
// На тесты запрет не распространяется: testing сам перехватывает panic.
func isTestFile(pass *analysis.Pass, file *ast.File) bool {
	name := pass.Fset.Position(file.Package).Filename
	return strings.HasSuffix(name, "_test.go")
}

// isInMainFunc проверяет, находится ли вызов внутри функции main пакета main.
// Единственное место, где движку позволено завершать процесс.
func isInMainFunc(pass *analysis.Pass, call *ast.CallExpr) bool {
	if pass.Pkg.Name() != "main" {
		return false
	}

	for _, file := range pass.Files {
		var inMain bool
		ast.Inspect(file, func(n ast.Node) bool {
			funcDecl, ok := n.(*ast.FuncDecl)
			if !ok {
				return true
			}

			if funcDecl.Name.Name == "main" && funcDecl.Recv == nil {
				if funcDecl.Pos() <= call.Pos() && call.End() <= funcDecl.End() {
					inMain = true
					return false
				}
			}
			return true
		})
		if inMain {
			return true
		}
	}

	return false
}
