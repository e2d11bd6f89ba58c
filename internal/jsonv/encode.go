package jsonv

import (
	"bytes"
	"strconv"
	"strings"
)

// Encode renders v as JSON. An empty indent produces compact output.
// Numbers keep their source text when they have one.
func Encode(v *Value, indent string) []byte {
	var buf bytes.Buffer
	encode(&buf, v, indent, 0)
	return buf.Bytes()
}

func encode(buf *bytes.Buffer, v *Value, indent string, depth int) {
	if v == nil {
		buf.WriteString("null")
		return
	}

	switch v.Kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case Number:
		if v.Raw != "" {
			buf.WriteString(v.Raw)
		} else {
			buf.WriteString(strconv.FormatFloat(v.Num, 'g', -1, 64))
		}
	case String:
		buf.WriteString(Quote(v.Str))
	case Array:
		if len(v.Items) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, depth+1)
			encode(buf, item, indent, depth+1)
		}
		newline(buf, indent, depth)
		buf.WriteByte(']')
	case Object:
		if len(v.Members) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, depth+1)
			buf.WriteString(Quote(m.Key))
			buf.WriteByte(':')
			if indent != "" {
				buf.WriteByte(' ')
			}
			encode(buf, m.Value, indent, depth+1)
		}
		newline(buf, indent, depth)
		buf.WriteByte('}')
	}
}

func newline(buf *bytes.Buffer, indent string, depth int) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(indent, depth))
}
