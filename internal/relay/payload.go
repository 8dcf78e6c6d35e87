package relay

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"unicode/utf8"
)

// wrapperKeys lists the envelope keys producers nest payloads under, in the
// order they are tried. Only the first one holding an object is unwrapped.
var wrapperKeys = []string{"check", "posts", "highlights", "both"}

// decodeBody parses a single JSON value. Numbers stay json.Number so that
// long numeric ids keep every digit.
func decodeBody(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, classifyReadError(err)
	}

	// Anything after the first value makes the body malformed.
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errPayloadTooLarge
		}
		return nil, errInvalidFormat
	}
	return v, nil
}

func classifyReadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errPayloadTooLarge
	}
	return errInvalidFormat.WithCause(err)
}

// unwrap descends at most one level into a known wrapper key and reports
// which key was used.
func unwrap(obj map[string]any) (map[string]any, string) {
	for _, key := range wrapperKeys {
		if inner, ok := obj[key].(map[string]any); ok {
			return inner, key
		}
	}
	return obj, ""
}

// normalizeResult keeps strings as is and serializes anything else to
// compact JSON.
func normalizeResult(v any, present bool, max int) string {
	if !present || v == nil {
		return NoResultProvided
	}
	if s, ok := v.(string); ok {
		return truncate(s, max)
	}
	return truncate(compactJSON(v), max)
}

// normalizeText coerces status and message: scalars take their text form,
// composites are serialized.
func normalizeText(v any, present bool, max int, def string) string {
	if !present || v == nil {
		return def
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case bool:
		s = strconv.FormatBool(t)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		s = compactJSON(v)
	}
	return truncate(s, max)
}

func compactJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// truncate cuts s to at most max runes without splitting a code point.
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	i := 0
	for n := 0; n < max; n++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i]
}
