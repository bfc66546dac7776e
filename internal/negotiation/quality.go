package negotiation

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Quality bounds defined by RFC 7231 section 5.3.1.
const (
	MinQuality = 0.0
	MaxQuality = 1.0
)

// QualityValue is a header value with an optional preference weight, such as
// one entry of an Accept-Charset header ("utf-8;q=0.7").
type QualityValue struct {
	Value   string
	Quality float64
	Params  map[string]string
}

// ParseQualityValue parses a single "value;q=x;name=value" list entry.
// Quality defaults to 1 and is clamped to [0,1].
func ParseQualityValue(s string) (QualityValue, error) {
	segments := SplitQuoted(s, ';')
	value := strings.TrimSpace(segments[0])
	if value == "" {
		return QualityValue{}, NewMalformedHeaderError(s, "value must not be empty")
	}

	params, quality, err := parseParameters(s, segments[1:])
	if err != nil {
		return QualityValue{}, err
	}

	return QualityValue{Value: value, Quality: quality, Params: params}, nil
}

// String returns the header form of the value.
func (v QualityValue) String() string {
	return formatWithQuality(v.Value, v.Params, v.Quality)
}

// parseQuality parses a q parameter value.
func parseQuality(raw, original string) (float64, error) {
	q, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &MalformedHeaderError{Value: original, Reason: "quality is not a number", Cause: err}
	}
	if math.IsNaN(q) {
		return 0, NewMalformedHeaderError(original, "quality is not a number")
	}
	return min(max(q, MinQuality), MaxQuality), nil
}

// parseParameters parses ";"-separated parameter segments. The q parameter is
// returned separately and never appears in the map. Parameter names are
// lower-cased; quoted values are unquoted.
func parseParameters(original string, segments []string) (map[string]string, float64, error) {
	quality := MaxQuality
	var params map[string]string

	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		name, value, _ := strings.Cut(segment, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		value = unquote(strings.TrimSpace(value))

		if name == "q" {
			q, err := parseQuality(value, original)
			if err != nil {
				return nil, 0, err
			}
			quality = q
			continue
		}

		if params == nil {
			params = make(map[string]string)
		}
		params[name] = value
	}

	return params, quality, nil
}

// SplitQuoted splits s at every sep that is not inside a double-quoted
// string. Backslash escapes inside quotes are honoured.
func SplitQuoted(s string, sep byte) []string {
	var parts []string
	start := 0
	inQuotes := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inQuotes && c == '\\':
			escaped = true
		case c == '"':
			inQuotes = !inQuotes
		case c == sep && !inQuotes:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// unquote strips a surrounding pair of double quotes and resolves
// backslash escapes inside them.
func unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// formatWithQuality renders value, its parameters in sorted order and a
// trailing q parameter when the quality is not 1.
func formatWithQuality(value string, params map[string]string, quality float64) string {
	var sb strings.Builder
	sb.WriteString(value)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		sb.WriteString(";")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(params[k])
	}

	if quality != MaxQuality {
		sb.WriteString(";q=")
		sb.WriteString(strconv.FormatFloat(quality, 'f', -1, 64))
	}
	return sb.String()
}

// rankKey is the composite ordering key shared by all matchers.
type rankKey struct {
	quality     float64
	specificity int
	index       int
}

// compareRankKeys orders by quality descending, then specificity ascending
// (0 is most specific), then original position ascending.
func compareRankKeys(a, b rankKey) int {
	if c := cmp.Compare(b.quality, a.quality); c != 0 {
		return c
	}
	if c := cmp.Compare(a.specificity, b.specificity); c != 0 {
		return c
	}
	return cmp.Compare(a.index, b.index)
}

// rank drops zero-quality items and orders the rest by compareRankKeys.
func rank[T any](items []T, quality func(T) float64, specificity func(T) int) []T {
	type entry struct {
		item T
		key  rankKey
	}

	entries := make([]entry, 0, len(items))
	for i, item := range items {
		q := quality(item)
		if q <= MinQuality {
			continue
		}
		entries = append(entries, entry{item: item, key: rankKey{quality: q, specificity: specificity(item), index: i}})
	}

	slices.SortFunc(entries, func(a, b entry) int {
		return compareRankKeys(a.key, b.key)
	})

	ranked := make([]T, len(entries))
	for i, e := range entries {
		ranked[i] = e.item
	}
	return ranked
}

// noSpecificity is used when every entry is equally specific.
func noSpecificity[T any](T) int { return 0 }
