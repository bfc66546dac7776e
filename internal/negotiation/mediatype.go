package negotiation

import "strings"

// Wildcard is the "*" segment that matches any type or subtype.
const Wildcard = "*"

// Specificity ranks of a media type range, most specific first.
const (
	specificityExact = iota
	specificitySubtypeWildcard
	specificityFullWildcard
)

// MediaTypeRange is a parsed media type expression such as "text/*;q=0.5"
// or "application/json; charset=utf-8". Type and Subtype are lower-cased.
type MediaTypeRange struct {
	Type    string
	Subtype string
	Quality float64
	Params  map[string]string
}

// ParseMediaTypeRange parses a "type/subtype" expression with optional
// parameters. It fails with a *MalformedHeaderError unless the media type
// splits into exactly two non-empty segments around a single "/", or when
// the q parameter is not a number.
func ParseMediaTypeRange(s string) (MediaTypeRange, error) {
	segments := SplitQuoted(s, ';')

	typ, subtype, err := splitMediaType(segments[0])
	if err != nil {
		return MediaTypeRange{}, NewMalformedHeaderError(s, err.Error())
	}

	params, quality, err := parseParameters(s, segments[1:])
	if err != nil {
		return MediaTypeRange{}, err
	}

	return MediaTypeRange{
		Type:    typ,
		Subtype: subtype,
		Quality: quality,
		Params:  params,
	}, nil
}

// errMediaTypeFormat is the reason reported for badly shaped media types.
type errMediaTypeFormat struct{}

func (errMediaTypeFormat) Error() string {
	return "media type must be in format {type}/{subtype}"
}

// splitMediaType splits and lower-cases "type/subtype".
func splitMediaType(mediaType string) (typ, subtype string, err error) {
	parts := strings.Split(strings.TrimSpace(mediaType), "/")
	if len(parts) != 2 {
		return "", "", errMediaTypeFormat{}
	}

	typ = strings.ToLower(strings.TrimSpace(parts[0]))
	subtype = strings.ToLower(strings.TrimSpace(parts[1]))
	if typ == "" || subtype == "" {
		return "", "", errMediaTypeFormat{}
	}

	return typ, subtype, nil
}

// MediaType returns "type/subtype" without parameters.
func (r MediaTypeRange) MediaType() string {
	return r.Type + "/" + r.Subtype
}

// Charset returns the charset parameter, or "" when absent.
func (r MediaTypeRange) Charset() string {
	return r.Params["charset"]
}

// IsWildcard reports whether either segment is a wildcard.
func (r MediaTypeRange) IsWildcard() bool {
	return r.Type == Wildcard || r.Subtype == Wildcard
}

// String returns the header form of the range.
func (r MediaTypeRange) String() string {
	return formatWithQuality(r.MediaType(), r.Params, r.Quality)
}

// Matches reports whether the supported media type falls within the range.
// A full wildcard matches anything; "type/*" matches any subtype of type;
// otherwise both segments must be equal.
func (r MediaTypeRange) Matches(supported string) bool {
	supportedType, supportedSubtype, err := splitMediaType(supported)
	if err != nil {
		return false
	}

	switch {
	case r.Type == Wildcard:
		return true
	case r.Subtype == Wildcard:
		return r.Type == supportedType
	default:
		return r.Type == supportedType && r.Subtype == supportedSubtype
	}
}

// specificity returns the ranking class of the range.
func (r MediaTypeRange) specificity() int {
	switch {
	case r.Type == Wildcard:
		return specificityFullWildcard
	case r.Subtype == Wildcard:
		return specificitySubtypeWildcard
	default:
		return specificityExact
	}
}
