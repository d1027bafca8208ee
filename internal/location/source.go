package location

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"sync"
)

type argKey struct {
	file   string
	line   int
	callee string
	index  int
}

type argText struct {
	text string
	ok   bool
}

var argCache sync.Map // argKey -> argText

// ArgText returns the Go source text of argument index of the call to callee
// found at loc. callee matches both "callee(...)" and "pkg.callee(...)",
// including instantiated generics such as "pkg.callee[T](...)".
//
// The lookup reads and parses loc.File; when the file is missing, does not
// parse, or has no matching call, ok is false. Results are cached per call
// site.
func ArgText(loc Location, callee string, index int) (string, bool) {
	if loc.File == "" || loc.Line <= 0 || index < 0 {
		return "", false
	}
	key := argKey{file: loc.File, line: loc.Line, callee: callee, index: index}
	if v, ok := argCache.Load(key); ok {
		at := v.(argText)
		return at.text, at.ok
	}
	text, ok := extractArg(key)
	argCache.Store(key, argText{text: text, ok: ok})
	return text, ok
}

func extractArg(key argKey) (string, bool) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, key.file, nil, parser.SkipObjectResolution)
	if err != nil {
		return "", false
	}

	var found *ast.CallExpr
	ast.Inspect(file, func(n ast.Node) bool {
		if found != nil {
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		start := fset.Position(call.Pos()).Line
		end := fset.Position(call.End()).Line
		if key.line < start || key.line > end {
			// nested calls lie inside this one's range
			return false
		}
		if calleeName(call.Fun) == key.callee && key.index < len(call.Args) {
			found = call
			return false
		}
		return true
	})
	if found == nil {
		return "", false
	}

	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, found.Args[key.index]); err != nil {
		return "", false
	}
	return buf.String(), true
}

func calleeName(fun ast.Expr) string {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		return f.Sel.Name
	case *ast.IndexExpr:
		return calleeName(f.X)
	case *ast.IndexListExpr:
		return calleeName(f.X)
	case *ast.ParenExpr:
		return calleeName(f.X)
	}
	return ""
}
