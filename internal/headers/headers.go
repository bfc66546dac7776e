// Package headers turns HTTP request headers into the structured form the
// negotiator consumes.
package headers

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/vyrodovalexey/conneg/internal/negotiation"
)

// Parse extracts the negotiation headers from h. Accept, Accept-Charset and
// Accept-Language may appear several times and are comma separated lists;
// commas inside quoted strings do not split. A missing Accept header leaves
// Accept nil; one that is present but lists nothing gives an empty, non-nil
// slice, which accepts nothing. Language tags other than "*" must be well
// formed BCP 47 tags.
func Parse(h http.Header) (negotiation.RequestHeaders, error) {
	headers := ParseContent(h)
	if values := h.Values(negotiation.HeaderAccept); len(values) > 0 {
		headers.Accept = SplitList(values)
		if headers.Accept == nil {
			headers.Accept = []string{}
		}
	}

	charsets, err := parseCharsets(h.Values(negotiation.HeaderAcceptCharset))
	if err != nil {
		return negotiation.RequestHeaders{}, negotiation.WithHeader(err, negotiation.HeaderAcceptCharset)
	}
	headers.AcceptCharset = charsets

	languages, err := parseLanguages(h.Values(negotiation.HeaderAcceptLanguage))
	if err != nil {
		return negotiation.RequestHeaders{}, negotiation.WithHeader(err, negotiation.HeaderAcceptLanguage)
	}
	headers.AcceptLanguage = languages

	return headers, nil
}

// FromRequest is Parse over r.Header.
func FromRequest(r *http.Request) (negotiation.RequestHeaders, error) {
	return Parse(r.Header)
}

// ParseContent extracts only the headers describing a request body,
// Content-Type and Content-Language. The Accept family is left unset, so a
// malformed Accept-Language cannot fail the reading of a body.
func ParseContent(h http.Header) negotiation.RequestHeaders {
	return negotiation.RequestHeaders{
		ContentType:     strings.TrimSpace(h.Get(negotiation.HeaderContentType)),
		ContentLanguage: strings.TrimSpace(h.Get(negotiation.HeaderContentLanguage)),
	}
}

// SplitList splits the comma separated list values of a header into trimmed,
// non-empty entries. It returns nil when there are no entries.
func SplitList(values []string) []string {
	var entries []string
	for _, v := range values {
		for _, entry := range negotiation.SplitQuoted(v, ',') {
			if entry = strings.TrimSpace(entry); entry != "" {
				entries = append(entries, entry)
			}
		}
	}
	return entries
}

func parseCharsets(values []string) ([]negotiation.QualityValue, error) {
	entries := SplitList(values)
	if len(entries) == 0 {
		return nil, nil
	}

	charsets := make([]negotiation.QualityValue, 0, len(entries))
	for _, entry := range entries {
		v, err := negotiation.ParseQualityValue(entry)
		if err != nil {
			return nil, err
		}
		charsets = append(charsets, v)
	}
	return charsets, nil
}

func parseLanguages(values []string) ([]negotiation.LanguageRange, error) {
	entries := SplitList(values)
	if len(entries) == 0 {
		return nil, nil
	}

	ranges := make([]negotiation.LanguageRange, 0, len(entries))
	for _, entry := range entries {
		r, err := negotiation.ParseLanguageRange(entry)
		if err != nil {
			return nil, err
		}
		if r.Tag != negotiation.Wildcard {
			if _, err := language.Parse(r.Tag); err != nil {
				return nil, &negotiation.MalformedHeaderError{
					Value:  entry,
					Reason: "invalid language tag",
					Cause:  err,
				}
			}
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}
