package encode

import (
	"context"
	"io"
	"strings"

	"github.com/hl7bridge/hl7v2/delim"
	"github.com/hl7bridge/hl7v2/tree"
)

// Encoder serialises an Element Tree to its ER7 wire format.
type Encoder interface {
	// Encode renders root's subtree to bytes.
	Encode(root *tree.Node) ([]byte, error)

	// EncodeToWriter writes root's rendering to w. The context is
	// checked for cancellation before rendering and before the write;
	// a write already in progress is not interrupted.
	EncodeToWriter(ctx context.Context, w io.Writer, root *tree.Node) error
}

// encoder is the concrete implementation of Encoder.
type encoder struct {
	config encoderConfig
}

// New creates an Encoder with the given options. Defaults: "\r" line
// endings, the tree's own delimiters.
func New(opts ...EncoderOption) Encoder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &encoder{config: cfg}
}

// Encode renders root's subtree to bytes.
func (e *encoder) Encode(root *tree.Node) ([]byte, error) {
	if root == nil {
		return nil, &Error{Message: "cannot encode nil node"}
	}

	text, err := root.ToER7(e.config.delims)
	if err != nil {
		return nil, &Error{Message: "failed to render ER7", Cause: err}
	}

	if e.config.lineEnding == string(delim.SegmentTerminator) {
		return []byte(text + e.config.lineEnding), nil
	}
	lines := strings.Split(text, string(delim.SegmentTerminator))
	return []byte(strings.Join(lines, e.config.lineEnding) + e.config.lineEnding), nil
}

// EncodeToWriter streams root's rendering to w, checking ctx for
// cancellation before the write.
func (e *encoder) EncodeToWriter(ctx context.Context, w io.Writer, root *tree.Node) error {
	select {
	case <-ctx.Done():
		return &Error{Message: "canceled", Cause: ctx.Err()}
	default:
	}

	data, err := e.Encode(root)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return &Error{Message: "failed to write encoded message", Cause: err}
	}
	return nil
}

// Error represents an error that occurred during message encoding.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := "encode error"
	if e.Message != "" {
		msg = msg + ": " + e.Message
	}
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }
