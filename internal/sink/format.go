package sink

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/vmihailenco/msgpack/v5"

	"tripwire/internal/callstack"
)

// Format represents the output format of a sink.
type Format uint8

const (
	FormatText    Format = iota // human-readable text
	FormatNDJSON                // newline-delimited JSON
	FormatMsgpack               // length-prefixed msgpack records
)

// String returns the string representation of Format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatNDJSON:
		return "ndjson"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	case "msgpack":
		return FormatMsgpack, nil
	default:
		return FormatText, fmt.Errorf("invalid sink format: %q (expected: text|ndjson|msgpack)", s)
	}
}

// record is the wire shape shared by the ndjson and msgpack formats.
type record struct {
	Time     string          `json:"time" msgpack:"time"`
	Seq      uint64          `json:"seq" msgpack:"seq"`
	GID      uint64          `json:"gid,omitempty" msgpack:"gid,omitempty"`
	Kind     string          `json:"kind" msgpack:"kind"`
	File     string          `json:"file" msgpack:"file"`
	Line     int             `json:"line" msgpack:"line"`
	Function string          `json:"function" msgpack:"function"`
	Text     string          `json:"text" msgpack:"text"`
	Stack    callstack.Stack `json:"stack,omitempty" msgpack:"stack,omitempty"`
	Tail     []string        `json:"tail,omitempty" msgpack:"tail,omitempty"`
}

func toRecord(msg *Message) record {
	return record{
		Time:     msg.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      msg.Seq,
		GID:      msg.GID,
		Kind:     msg.Kind.String(),
		File:     msg.Location.File,
		Line:     msg.Location.Line,
		Function: msg.Location.Function,
		Text:     msg.Text,
		Stack:    msg.Stack,
		Tail:     msg.Tail,
	}
}

// FormatMessage renders msg in the given format without color.
func FormatMessage(msg *Message, format Format) []byte {
	return formatMessage(msg, format, nil)
}

func formatMessage(msg *Message, format Format, p *palette) []byte {
	switch format {
	case FormatNDJSON:
		return formatNDJSON(msg)
	case FormatMsgpack:
		return formatMsgpack(msg)
	default:
		return formatText(msg, p)
	}
}

func formatNDJSON(msg *Message) []byte {
	data, err := json.Marshal(toRecord(msg))
	if err != nil {
		// fall back to text rather than losing the message
		return formatText(msg, nil)
	}
	return append(data, '\n')
}

// formatMsgpack frames one record as a 4-byte big-endian length followed by
// the msgpack payload.
func formatMsgpack(msg *Message) []byte {
	payload, err := msgpack.Marshal(toRecord(msg))
	if err != nil {
		return formatText(msg, nil)
	}
	out := make([]byte, 4, 4+len(payload))
	binary.BigEndian.PutUint32(out, uint32(len(payload)))
	return append(out, payload...)
}

// DecodeMsgpack decodes one framed record produced by the msgpack format and
// returns the remaining bytes.
func DecodeMsgpack(data []byte) (*Message, []byte, error) {
	if len(data) < 4 {
		return nil, data, fmt.Errorf("msgpack frame: short header (%d bytes)", len(data))
	}
	n := int(binary.BigEndian.Uint32(data))
	if len(data)-4 < n {
		return nil, data, fmt.Errorf("msgpack frame: want %d payload bytes, have %d", n, len(data)-4)
	}
	var rec record
	if err := msgpack.Unmarshal(data[4:4+n], &rec); err != nil {
		return nil, data, fmt.Errorf("msgpack frame: %w", err)
	}
	msg := &Message{
		Seq:   rec.Seq,
		GID:   rec.GID,
		Text:  rec.Text,
		Stack: rec.Stack,
		Tail:  rec.Tail,
	}
	msg.Location.File = rec.File
	msg.Location.Line = rec.Line
	msg.Location.Function = rec.Function
	for k := KindTrace; k <= KindStack; k++ {
		if k.String() == rec.Kind {
			msg.Kind = k
		}
	}
	return msg, data[4+n:], nil
}

// palette colors the parts of a text message.
type palette struct {
	location *color.Color
	assert   *color.Color
	fatal    *color.Color
	dim      *color.Color
}

func newPalette() *palette {
	p := &palette{
		location: color.New(color.Bold),
		assert:   color.New(color.FgYellow, color.Bold),
		fatal:    color.New(color.FgRed, color.Bold),
		dim:      color.New(color.Faint),
	}
	// the sink decides when color applies, not the global NoColor switch
	for _, c := range []*color.Color{p.location, p.assert, p.fatal, p.dim} {
		c.EnableColor()
	}
	return p
}

// plain leaves every part uncolored.
var plain = &palette{}

func paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

// formatText renders:
//
//	<file>:<line>:1 [<function>] <text>
//
// followed by the call stack and recent trace lines when present.
func formatText(msg *Message, p *palette) []byte {
	if p == nil {
		p = plain
	}
	var sb strings.Builder

	sb.WriteString(paint(p.location, msg.Location.String()))
	sb.WriteByte(' ')

	switch msg.Kind {
	case KindAssert:
		sb.WriteString(paint(p.assert, msg.Text))
	case KindFatal:
		sb.WriteString(paint(p.fatal, msg.Text))
	default:
		sb.WriteString(msg.Text)
	}
	sb.WriteByte('\n')

	if msg.Kind == KindFatal || msg.Kind == KindStack || (msg.Kind == KindAssert && len(msg.Stack) > 0) {
		sb.WriteString("call stack:\n")
		sb.WriteString(paint(p.dim, msg.Stack.String()))
	}

	if len(msg.Tail) > 0 {
		sb.WriteString("recent traces (")
		sb.WriteString(strconv.Itoa(len(msg.Tail)))
		sb.WriteString("):\n")
		for _, line := range msg.Tail {
			sb.WriteString("  ")
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}

	return []byte(sb.String())
}
