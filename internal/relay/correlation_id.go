package relay

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	idCharset = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// <13-digit epoch ms>-<5..20 alphanumerics>, as minted by the browser client.
	idShape = regexp.MustCompile(`^[0-9]{13}-[A-Za-z0-9]{5,20}$`)
)

// coerceID turns a decoded requestId into a string. Only strings and JSON
// numbers are accepted.
func coerceID(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, true
	case json.Number:
		return id.String(), true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	default:
		return "", false
	}
}

func (v *Validator) checkID(raw any) (string, error) {
	s, ok := coerceID(raw)
	if !ok {
		return "", errMissingID
	}

	id := strings.TrimSpace(s)
	if id == "" {
		return "", errMissingID
	}
	if len(id) > v.cfg.MaxIDLength {
		return "", errIDTooLong
	}
	if !idCharset.MatchString(id) {
		return "", errIDBadCharset
	}
	if v.cfg.StrictID && !idShape.MatchString(id) {
		return "", errIDBadShape
	}
	return id, nil
}
