// Package tmpl renders trace templates from typed arguments.
//
// Templates use the fmt verb syntax, but every directive is checked against
// the supplied arguments before anything is formatted. A template that does
// not match its arguments is never interpreted: [Render] falls back to the
// literal template text followed by the argument values.
package tmpl

import (
	"fmt"
	"strings"
)

// Directive is one formatting verb found in a template, e.g. "%-8.3f".
type Directive struct {
	Spec string // full directive text
	Verb rune
	Pos  int // byte offset of '%'
}

const flagChars = "-+# 0"

// maxDigits bounds widths and precisions so a single directive cannot
// expand into megabytes of padding.
const maxDigits = 3

// Parse lists the directives of a template. "%%" is a literal percent and is
// not returned. Argument indexes ("%[1]d") and star widths ("%*d") are
// rejected, as are widths and precisions longer than three digits.
func Parse(template string) ([]Directive, error) {
	var out []Directive
	for i := 0; i < len(template); i++ {
		if template[i] != '%' {
			continue
		}
		start := i
		i++
		if i >= len(template) {
			return nil, fmt.Errorf("dangling %% at offset %d", start)
		}
		if template[i] == '%' {
			continue
		}
		for i < len(template) && strings.IndexByte(flagChars, template[i]) >= 0 {
			i++
		}
		next := skipDigits(template, i)
		if next-i > maxDigits {
			return nil, fmt.Errorf("width in %q exceeds %d digits", template[start:next], maxDigits)
		}
		i = next
		if i < len(template) && template[i] == '.' {
			next = skipDigits(template, i+1)
			if next-i-1 > maxDigits {
				return nil, fmt.Errorf("precision in %q exceeds %d digits", template[start:next], maxDigits)
			}
			i = next
		}
		if i >= len(template) {
			return nil, fmt.Errorf("unterminated directive %q", template[start:])
		}
		switch c := template[i]; c {
		case '*':
			return nil, fmt.Errorf("star width in %q is not supported", template[start:i+1])
		case '[':
			return nil, fmt.Errorf("argument index in %q is not supported", template[start:i+1])
		}
		verb := rune(template[i])
		if _, ok := verbAccepts[verb]; !ok {
			return nil, fmt.Errorf("unknown verb %q", template[start:i+1])
		}
		out = append(out, Directive{Spec: template[start : i+1], Verb: verb, Pos: start})
	}
	return out, nil
}

func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

var (
	integers = []ArgKind{KindInt, KindUint}
	numbers  = []ArgKind{KindInt, KindUint, KindFloat}
	texts    = []ArgKind{KindString, KindError, KindStringer}
	anything = []ArgKind{KindInt, KindUint, KindFloat, KindString, KindBool, KindError, KindStringer, KindAny}
)

// verbAccepts maps every supported verb to the argument kinds it may format.
var verbAccepts = map[rune][]ArgKind{
	'v': anything,
	'd': integers,
	'b': integers,
	'o': integers,
	'c': integers,
	'U': integers,
	'x': append(append([]ArgKind{}, numbers...), KindString),
	'X': append(append([]ArgKind{}, numbers...), KindString),
	'f': numbers,
	'F': numbers,
	'e': numbers,
	'E': numbers,
	'g': numbers,
	'G': numbers,
	's': texts,
	'q': append(append([]ArgKind{}, texts...), KindInt, KindUint),
	't': {KindBool},
}

// Validate checks directive count and argument compatibility.
func Validate(template string, args []Arg) error {
	dirs, err := Parse(template)
	if err != nil {
		return err
	}
	if len(dirs) != len(args) {
		return fmt.Errorf("template has %d directives, got %d arguments", len(dirs), len(args))
	}
	for i, d := range dirs {
		if !accepts(d.Verb, args[i].kind) {
			return fmt.Errorf("argument %d: %s cannot format %s", i+1, d.Spec, args[i].kind)
		}
	}
	return nil
}

func accepts(verb rune, kind ArgKind) bool {
	for _, k := range verbAccepts[verb] {
		if k == kind {
			return true
		}
	}
	return false
}

// Render formats template with args. It never fails: when Validate rejects
// the pair, the template is emitted literally with the problem and the
// argument values appended.
func Render(template string, args ...Arg) string {
	if err := Validate(template, args); err != nil {
		return Degraded(template, err, args)
	}
	if len(args) == 0 {
		// only literal percents remain
		return strings.ReplaceAll(template, "%%", "%")
	}
	dirs, _ := Parse(template)
	values := make([]any, len(args))
	for i, a := range args {
		values[i] = coerce(dirs[i].Verb, a)
	}
	return fmt.Sprintf(template, values...)
}

// coerce converts integers formatted with a floating point verb so "%.1f"
// of Int(2) prints "2.0".
func coerce(verb rune, a Arg) any {
	switch verb {
	case 'f', 'F', 'e', 'E', 'g', 'G':
		switch v := a.val.(type) {
		case int64:
			return float64(v)
		case uint64:
			return float64(v)
		}
	}
	return a.val
}

// Degraded renders the safe fallback used for mismatched templates.
func Degraded(template string, problem error, args []Arg) string {
	var sb strings.Builder
	sb.WriteString(template)
	sb.WriteString(" [trace: ")
	sb.WriteString(problem.Error())
	sb.WriteByte(']')
	if len(args) > 0 {
		sb.WriteString(" args:")
		for _, a := range args {
			sb.WriteByte(' ')
			if a.kind == 0 {
				sb.WriteString("<invalid>")
				continue
			}
			sb.WriteString(a.String())
		}
	}
	return sb.String()
}
