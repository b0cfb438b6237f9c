// Package cx implements reading, writing, and in-memory modeling of CX
// network documents.
//
// CX is the network exchange format used by NDEx. A CX document is a JSON
// array of aspect fragments, each a single-key object mapping an aspect name
// to its elements:
//
//	[
//	  {"numberVerification": [{"longNumber": 281474976710655}]},
//	  {"nodes": [{"@id": 1, "n": "ABC"}, ...]},
//	  {"edges": [{"@id": 10, "s": 1, "t": 2}, ...]},
//	  {"cartesianLayout": [{"node": 1, "x": 0.0, "y": 0.0}, ...]},
//	  {"status": [{"error": "", "success": true}]}
//	]
//
// The package parses the node and edge aspects into typed structs and keeps
// every other aspect as opaque raw JSON, preserved byte-for-byte and
// re-emitted in the original fragment order. [Network.SetAspect] replaces an
// aspect in place or appends a new fragment, which is all the layout pipeline
// needs to attach a cartesianLayout aspect without disturbing the rest of the
// document.
package cx
