// Package codec reads and writes the persisted ledger document.
//
// The on-disk layout matches what existing dashboard renderers consume
// verbatim, so the codec is byte-for-byte stable: decoding a document
// and re-encoding it reproduces the original field order, suite key
// order, and numeric formatting. Go's map marshaling sorts keys, which
// would silently reorder the "entries" object, so the document models
// suites as an ordered slice and the codec walks the JSON token stream
// on decode.
//
// Two physical layouts are supported: the bare JSON document, and the
// `window.BENCHMARK_DATA = {...}` JavaScript wrapper embedded by static
// dashboard sites (DecodeDataJS / EncodeDataJS).
package codec
