package negotiation

import "strings"

// LanguageRange is one entry of an Accept-Language header, e.g. "en-GB;q=0.8"
// or "*".
type LanguageRange struct {
	Tag     string
	Quality float64
}

// ParseLanguageRange parses a "tag;q=x" entry. Tag syntax is not validated
// here; that is the header source's job.
func ParseLanguageRange(s string) (LanguageRange, error) {
	segments := SplitQuoted(s, ';')
	tag := strings.TrimSpace(segments[0])
	if tag == "" {
		return LanguageRange{}, NewMalformedHeaderError(s, "language range must not be empty")
	}

	_, quality, err := parseParameters(s, segments[1:])
	if err != nil {
		return LanguageRange{}, err
	}

	return LanguageRange{Tag: tag, Quality: quality}, nil
}

// Matches reports whether the range covers language: "*" matches any
// language, otherwise the tags must be equal or the range must be a
// "-"-delimited prefix of the language ("en" matches "en-US"). Comparison is
// case-insensitive.
func (r LanguageRange) Matches(language string) bool {
	if language == "" {
		return false
	}
	if r.Tag == Wildcard {
		return true
	}
	if strings.EqualFold(r.Tag, language) {
		return true
	}
	return len(language) > len(r.Tag) &&
		language[len(r.Tag)] == '-' &&
		strings.EqualFold(language[:len(r.Tag)], r.Tag)
}

// String returns the header form of the range.
func (r LanguageRange) String() string {
	return formatWithQuality(r.Tag, nil, r.Quality)
}
