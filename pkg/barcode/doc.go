// Package barcode encodes identifiers as linear barcode symbols.
//
// # Overview
//
// An [Encoder] turns one identifier string into a [Symbol]: the sequence of
// dark and light modules of a 1-D barcode plus the human-readable caption
// printed beneath the bars (the identifier itself). Symbols are plain data;
// drawing them is left to the sinks in [render/sink], which scale the module
// pattern into whatever box the label layout assigns.
//
// Two symbologies are supported:
//
//   - [Code128]: the default. Dense, accepts all printable ASCII (0x20–0x7E).
//   - [Code39]: wider, accepts 0-9, A-Z, space and - . $ / + %.
//
// The symbol tables come from github.com/boombuler/barcode; this package
// validates the input up front, so failures name the offending character,
// and reads the module pattern back from the encoded barcode.
//
// # Determinism
//
// Encoding is a pure function: the same identifier always produces an
// identical Symbol, independent of time or any shared state. Encoders are
// stateless values and safe for concurrent use.
//
// # Errors
//
// Empty identifiers, identifiers longer than [MaxDataLength] and characters
// outside the symbology's set fail with an ENCODING_FAILED error wrapping
// [ErrEmptyData], [ErrTooLong] or [ErrUnsupportedCharacter].
//
// [render/sink]: github.com/matzehuels/labelsheet/pkg/render/sink
package barcode
