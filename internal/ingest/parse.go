package ingest

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/aiox-platform/vtuber/internal/pool"
)

var emojiPattern = regexp.MustCompile(`:([a-zA-Z0-9_]+):`)

// ParseComment turns a raw feed event into a comment record.
// The event is JSON or a Python dict literal.
// Text comes from "text" or "message"; weight from "likes" or "weight"
// (absent means 0); author from "author" or "author.name".
func ParseComment(raw []byte) (pool.Comment, error) {
	if !gjson.ValidBytes(raw) {
		converted, ok := pythonLiteralToJSON(raw)
		if !ok {
			return pool.Comment{}, fmt.Errorf("%w: invalid json", ErrMalformed)
		}
		raw = converted
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return pool.Comment{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}

	textField := firstExisting(root, "text", "message")
	if textField.Type != gjson.String {
		return pool.Comment{}, fmt.Errorf("%w: missing text", ErrMalformed)
	}
	text := NormalizeText(textField.String())
	if text == "" {
		return pool.Comment{}, fmt.Errorf("%w: empty text", ErrMalformed)
	}

	var weight int64
	if w := firstExisting(root, "likes", "weight"); w.Exists() {
		if w.Type != gjson.Number {
			return pool.Comment{}, fmt.Errorf("%w: weight is not a number", ErrMalformed)
		}
		weight = clampWeight(w)
	}

	author := root.Get("author")
	if author.IsObject() {
		author = author.Get("name")
	}

	return pool.Comment{
		Author: strings.TrimSpace(author.String()),
		Text:   text,
		Weight: weight,
	}, nil
}

// clampWeight maps a numeric field onto [0, MaxInt64]. Values beyond
// int64 saturate instead of wrapping.
func clampWeight(w gjson.Result) int64 {
	switch {
	case w.Num <= 0:
		return 0
	case w.Num >= math.MaxInt64:
		return math.MaxInt64
	default:
		return max(w.Int(), 0)
	}
}

// NormalizeText rewrites custom emoji tokens (":wave:" becomes "[EMOJI: wave]")
// and collapses runs of whitespace.
func NormalizeText(s string) string {
	s = emojiPattern.ReplaceAllString(s, "[EMOJI: $1]")
	return strings.Join(strings.Fields(s), " ")
}

func firstExisting(root gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := root.Get(p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}
