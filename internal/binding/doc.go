// Package binding connects content negotiation to HTTP handlers.
//
// A Binder decodes request bodies with the formatter selected from
// Content-Type and encodes responses with the formatter selected from
// Accept, Accept-Charset and Accept-Language:
//
//	var in Greeting
//	if _, err := binder.Decode(r, &in); err != nil {
//	    binder.WriteError(w, err)
//	    return
//	}
//	_ = binder.Encode(w, r, http.StatusOK, out)
//
// Failures are returned as *StatusError: 400 for malformed headers or bodies,
// 413 for oversized bodies, 415 when nothing can read the body, 406 when
// nothing acceptable can be written and 500 for encoding failures. BindGin
// and RenderGin do the same for gin handlers.
package binding
