// Package encode is the ER7 Printer (spec.md §4.E): a thin,
// configurable facade over [tree.Node.ToER7] for line-ending control,
// delimiter override and streaming output.
package encode

import "github.com/hl7bridge/hl7v2/delim"

// DefaultLineEnding is the standard HL7 segment terminator (carriage return).
const DefaultLineEnding = "\r"

// encoderConfig holds the configuration options for encoding an Element Tree.
type encoderConfig struct {
	lineEnding string     // segment terminator on output, default "\r"
	delims     *delim.Set // non-nil re-encodes under a different delimiter set
}

func defaultConfig() encoderConfig {
	return encoderConfig{lineEnding: DefaultLineEnding}
}

// EncoderOption is a functional option for configuring an encoder.
type EncoderOption func(*encoderConfig)

// WithLineEnding sets the segment terminator string written between
// segments. The default is "\r" per HL7; some systems require "\r\n".
func WithLineEnding(ending string) EncoderOption {
	return func(c *encoderConfig) { c.lineEnding = ending }
}

// WithDelimiters re-encodes the tree under delims instead of its own
// (spec.md §4.E's "optional delimiter-override re-encoding"): MSH
// fields 1-2 and every separator in the output reflect delims, while
// the source tree is left unmodified.
func WithDelimiters(delims *delim.Set) EncoderOption {
	return func(c *encoderConfig) { c.delims = delims }
}
