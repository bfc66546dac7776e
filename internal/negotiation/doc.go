// Package negotiation implements HTTP content negotiation.
//
// Given the negotiation-relevant request headers and an ordered registry of
// handlers, a Negotiator decides which handler, media type, character
// encoding and language to use when reading a request body or writing a
// response body.
//
// # Matching rules
//
// Accept ranges are ranked by quality, then by specificity (exact before
// "type/*" before "*/*"), then by header order; q=0 ranges are discarded.
// Each ranked range is tried against every handler in registration order,
// and every handler's supported media types in declared order. Encodings and
// languages are ranked by quality alone. Language ranges match by prefix, so
// "en" selects "en-US".
//
// # Example Usage
//
//	n, err := negotiation.New([]negotiation.Handler{jsonHandler, xmlHandler},
//	    negotiation.WithSupportedLanguages([]string{"en-US", "fr-FR"}))
//	if err != nil {
//	    return err
//	}
//
//	result, err := n.NegotiateResponse(reflect.TypeOf(user), headers)
//	if err != nil {
//	    // malformed header: answer 400
//	}
//	if !result.Matched() {
//	    // answer 406
//	}
//
// # Thread Safety
//
// A Negotiator is immutable after New returns and is safe for concurrent use,
// provided the registered handlers do not change their answers.
package negotiation
