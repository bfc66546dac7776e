package negotiation

import "strings"

// EncodingMatcher picks a character encoding for a selected handler.
// The zero value is ready to use.
type EncodingMatcher struct{}

// BestMatch returns the encoding to use with h, or "" when none applies.
//
// An explicit charset (from a Content-Type or media range parameter) that h
// supports wins outright. Otherwise accepted charsets are ranked by quality
// (q=0 entries dropped, header order kept on ties) and the first one h
// supports is returned, "*" standing for h's default encoding. With no
// accepted charsets at all, h's default encoding is returned. Returned values
// use h's own spelling of the encoding.
func (EncodingMatcher) BestMatch(h Handler, accepted []QualityValue, explicitCharset string) string {
	supported := h.SupportedEncodings()

	if explicitCharset != "" {
		if enc, ok := findEncoding(supported, explicitCharset); ok {
			return enc
		}
	}

	if len(accepted) == 0 {
		return DefaultEncoding(h)
	}

	for _, charset := range rank(accepted,
		func(v QualityValue) float64 { return v.Quality },
		noSpecificity[QualityValue],
	) {
		if charset.Value == Wildcard {
			if def := DefaultEncoding(h); def != "" {
				return def
			}
			continue
		}
		if enc, ok := findEncoding(supported, charset.Value); ok {
			return enc
		}
	}

	return ""
}

// findEncoding does a case-insensitive membership test.
func findEncoding(supported []string, encoding string) (string, bool) {
	for _, s := range supported {
		if strings.EqualFold(s, encoding) {
			return s, true
		}
	}
	return "", false
}
