package negotiation

// MediaTypeMatch is the outcome of media type matching: the selected
// handler, the supported media type it declared, and the accepted range that
// selected it.
type MediaTypeMatch struct {
	Handler   Handler
	MediaType string
	Range     MediaTypeRange
}

// MediaTypeMatcher picks the best handler for a list of accepted ranges.
// The zero value is ready to use.
type MediaTypeMatcher struct{}

// BestMatch ranks ranges by quality, then specificity, then header order,
// discarding q=0 entries. For each ranked range it walks handlers in
// registration order and their supported media types in declared order, and
// returns the first pair the range matches. The boolean is false when no
// range matches any handler.
func (MediaTypeMatcher) BestMatch(handlers []Handler, ranges []MediaTypeRange) (MediaTypeMatch, bool) {
	for _, r := range RankMediaTypeRanges(ranges) {
		for _, h := range handlers {
			for _, supported := range h.SupportedMediaTypes() {
				if r.Matches(supported) {
					return MediaTypeMatch{Handler: h, MediaType: supported, Range: r}, true
				}
			}
		}
	}
	return MediaTypeMatch{}, false
}

// RankMediaTypeRanges returns ranges without q=0 entries, ordered by quality
// descending, then exact before "type/*" before "*/*", then header order.
func RankMediaTypeRanges(ranges []MediaTypeRange) []MediaTypeRange {
	return rank(ranges,
		func(r MediaTypeRange) float64 { return r.Quality },
		func(r MediaTypeRange) int { return r.specificity() },
	)
}
