// Package formatter provides the body formatters the negotiator chooses
// between.
//
// Each formatter declares the media types and charsets it supports, which Go
// types it can read or write, and how to do so:
//
//   - JSON (application/json, text/json), protojson for protobuf messages
//   - XML (application/xml, text/xml)
//   - YAML (application/yaml, application/x-yaml, text/yaml)
//   - Protocol Buffers (application/protobuf, application/x-protobuf)
//   - plain text (text/plain) for strings, byte slices and text marshalers
//   - byte stream (application/octet-stream) for raw byte slices
//
// Textual formatters transcode between UTF-8 and the negotiated charset.
// A CEL expression can narrow the types a formatter accepts:
//
//	f, err := formatter.NewJSON(formatter.WithFilter(`kind == "struct"`))
//
// A Registry keeps formatters in preference order and is usually built from
// configuration:
//
//	reg, err := formatter.NewRegistryFromConfig(cfg.Spec.Formatters)
//	n, err := negotiation.New(reg.Handlers())
//
// # Thread Safety
//
// Formatters and registries are immutable after construction and safe for
// concurrent use.
package formatter
