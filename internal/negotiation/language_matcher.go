package negotiation

// LanguageMatcher picks a content language. The zero value is ready to use.
type LanguageMatcher struct{}

// BestMatch ranks accepted ranges by quality (q=0 entries dropped, header
// order kept on ties) and returns the first supported language, in declared
// order, matched by the best range that matches anything. It returns "" when
// nothing matches or no ranges were given.
func (LanguageMatcher) BestMatch(supported []string, accepted []LanguageRange) string {
	for _, r := range rank(accepted,
		func(r LanguageRange) float64 { return r.Quality },
		noSpecificity[LanguageRange],
	) {
		for _, language := range supported {
			if r.Matches(language) {
				return language
			}
		}
	}
	return ""
}
