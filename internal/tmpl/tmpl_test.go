package tmpl

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/require"
)

type color uint8

func (c color) String() string { return [...]string{"red", "green"}[c] }

type panicky struct{}

func (*panicky) String() string { panic("boom") }

func TestRender(t *testing.T) {
	cases := []struct {
		name     string
		template string
		args     []Arg
		want     string
	}{
		{"no directives", "hello world", nil, "hello world"},
		{"literal percent", "100%% done", nil, "100% done"},
		{"int", "value is %d", []Arg{Int(42)}, "value is 42"},
		{"typed ints", "%d/%d", []Arg{Int(int8(-3)), Uint(uint16(7))}, "-3/7"},
		{"float precision", "%.2f ms", []Arg{Float(1.5)}, "1.50 ms"},
		{"int as float", "%.1f", []Arg{Int(2)}, "2.0"},
		{"string quoted", "name=%q", []Arg{Str("bob")}, `name="bob"`},
		{"bool", "ok=%t", []Arg{Bool(true)}, "ok=true"},
		{"error", "failed: %s", []Arg{Err(errors.New("disk full"))}, "failed: disk full"},
		{"nil error", "failed: %s", []Arg{Err(nil)}, "failed: <nil>"},
		{"stringer", "color %s", []Arg{Stringer(color(1))}, "color green"},
		{"any", "%v", []Arg{Any([]int{1, 2})}, "[1 2]"},
		{"duration via stringer", "took %v", []Arg{Stringer(time.Second)}, "took 1s"},
		{"flags and width", "[%-4d]", []Arg{Int(7)}, "[7   ]"},
		{"hex string", "%x", []Arg{Str("hi")}, "6869"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Render(tc.template, tc.args...))
		})
	}
}

func TestRenderDegrades(t *testing.T) {
	cases := []struct {
		name     string
		template string
		args     []Arg
		problem  string
	}{
		{"missing argument", "a=%d b=%d", []Arg{Int(1)}, "template has 2 directives, got 1 arguments"},
		{"extra argument", "plain", []Arg{Int(1)}, "template has 0 directives, got 1 arguments"},
		{"wrong kind", "%d", []Arg{Str("x")}, "argument 1: %d cannot format string"},
		{"bool as string", "%s", []Arg{Bool(true)}, "argument 1: %s cannot format bool"},
		{"any needs v", "%s", []Arg{Any(3)}, "argument 1: %s cannot format any"},
		{"zero arg", "%v", []Arg{{}}, "argument 1: %v cannot format unknown"},
		{"dangling", "100%", nil, "dangling % at offset 3"},
		{"star width", "%*d", []Arg{Int(1)}, "star width"},
		{"argument index", "%[1]d", []Arg{Int(1)}, "argument index"},
		{"unknown verb", "%n", nil, "unknown verb"},
		{"unterminated", "%-08.", nil, "unterminated directive"},
		{"huge width", "%999999d", []Arg{Int(1)}, "width in \"%999999\" exceeds 3 digits"},
		{"huge precision", "%.1000f", []Arg{Float(1.0)}, "precision in \"%.1000\" exceeds 3 digits"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Render(tc.template, tc.args...)
			require.True(t, strings.HasPrefix(got, tc.template+" [trace: "), got)
			require.Contains(t, got, tc.problem)
		})
	}
}

func TestDegradedListsArgs(t *testing.T) {
	got := Render("%d %d", Str("a"), Int(2))
	require.Equal(t, "%d %d [trace: argument 1: %d cannot format string] args: a 2", got)

	got = Render("%d", Arg{}, Int(1))
	require.True(t, strings.HasSuffix(got, "args: <invalid> 1"), got)
}

func TestRenderRecoversStringerPanic(t *testing.T) {
	p := &panicky{}
	require.NotPanics(t, func() {
		out := Render("%s", Stringer(p))
		require.Contains(t, out, "PANIC")
	})
}

func TestParse(t *testing.T) {
	dirs, err := Parse("a %d b %% c %-8.3f d %v")
	require.NoError(t, err)
	require.Len(t, dirs, 3)
	require.Equal(t, "%d", dirs[0].Spec)
	require.Equal(t, 'f', dirs[1].Verb)
	require.Equal(t, "%-8.3f", dirs[1].Spec)
	require.Equal(t, 2, dirs[0].Pos)

	dirs, err = Parse("%999d|%8.999f")
	require.NoError(t, err)
	require.Len(t, dirs, 2)

	_, err = Parse("%1000d")
	require.Error(t, err)
}

func TestRenderBoundsPadding(t *testing.T) {
	out := Render("%999999d", Int(1))
	require.Less(t, len(out), 100, "a wide directive must degrade, not pad")
}

func TestArgAccessors(t *testing.T) {
	require.Equal(t, KindUint, Uint(uint8(3)).Kind())
	require.EqualValues(t, 3, Uint(uint8(3)).Value())
	require.Equal(t, "float", KindFloat.String())
	require.Equal(t, "2.5", Float(float32(2.5)).String())
}

func TestSanitize(t *testing.T) {
	require.Equal(t, "a\tb�c", Sanitize("a\tb\nc", 0))
	require.Equal(t, "bell�", Sanitize("bell\a", 0))
	require.Equal(t, "bad�", Sanitize("bad\xff", 0))
	// e + combining acute accent composes to a single rune
	require.Equal(t, "caf\u00e9", Sanitize("cafe\u0301", 0))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 10))
	require.Equal(t, "unbounded text", Truncate("unbounded text", 0))

	got := Truncate("abcdefghij", 6)
	require.Equal(t, "abcde"+Ellipsis, got)
	require.LessOrEqual(t, runewidth.StringWidth(got), 6)

	// wide runes count two cells each
	got = Truncate("日本語テキスト", 7)
	require.LessOrEqual(t, runewidth.StringWidth(got), 7)
	require.True(t, strings.HasSuffix(got, Ellipsis))
}

func TestCollapse(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"x > 1 &&\n\t\tx < 10", "x > 1 && x < 10"},
		{`s == "a   b"`, `s == "a   b"`},
		{"f(a,\r\n\tb)", "f(a, b)"},
		{"  a\n\n\t\n  b  ", "a b"},
		{"", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Collapse(tc.in), "Collapse(%q)", tc.in)
	}
}
