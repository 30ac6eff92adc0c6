package ingest

import (
	"bytes"
	"unicode"

	"github.com/tidwall/gjson"
)

// pythonLiteralToJSON rewrites a Python dict literal such as
// {'text': 'hi', 'likes': 7, 'pinned': True} into JSON. Publishers that
// str() a dict onto the comment channel produce this form. It returns
// false when the result is still not valid JSON.
func pythonLiteralToJSON(raw []byte) ([]byte, bool) {
	var out bytes.Buffer
	out.Grow(len(raw) + 8)

	for i := 0; i < len(raw); {
		c := raw[i]
		switch {
		case c == '\'' || c == '"':
			n, ok := copyQuoted(&out, raw[i:], c)
			if !ok {
				return nil, false
			}
			i += n
		case isIdentStart(c):
			j := i
			for j < len(raw) && (isIdentStart(raw[j]) || unicode.IsDigit(rune(raw[j]))) {
				j++
			}
			switch word := string(raw[i:j]); word {
			case "True":
				out.WriteString("true")
			case "False":
				out.WriteString("false")
			case "None":
				out.WriteString("null")
			default:
				out.WriteString(word)
			}
			i = j
		default:
			out.WriteByte(c)
			i++
		}
	}

	converted := out.Bytes()
	if !gjson.ValidBytes(converted) {
		return nil, false
	}
	return converted, true
}

// copyQuoted writes the string literal at the start of s, delimited by
// quote, as a JSON string and returns how many input bytes it consumed.
func copyQuoted(out *bytes.Buffer, s []byte, quote byte) (int, bool) {
	out.WriteByte('"')
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch c {
		case quote:
			out.WriteByte('"')
			return i + 1, true
		case '\\':
			if i+1 >= len(s) {
				return 0, false
			}
			i++
			if s[i] == '\'' {
				out.WriteByte('\'')
			} else {
				out.WriteByte('\\')
				out.WriteByte(s[i])
			}
		case '"':
			out.WriteString(`\"`)
		default:
			out.WriteByte(c)
		}
	}
	return 0, false
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
