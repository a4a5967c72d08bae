package parse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/hl7bridge/hl7v2/delim"
	"github.com/hl7bridge/hl7v2/schema"
	"github.com/hl7bridge/hl7v2/tree"
	"github.com/sirupsen/logrus"
)

// Sentinel errors specific to parsing (spec.md §4.D "Inputs and failures").
var (
	ErrTooManySegments      = errors.New("parse: message exceeds maximum segment count")
	ErrFieldTooLong         = errors.New("parse: field exceeds maximum length")
	ErrContextCanceled      = errors.New("parse: canceled")
	ErrInvalidName          = errors.New("parse: segment name does not match [A-Z0-9]{3}")
	ErrMissingMSH           = errors.New("parse: message has no MSH segment")
	ErrEmptyInput           = errors.New("parse: empty input")
	ErrUnsupportedVersion   = schema.ErrUnsupportedVersion
	ErrInvalidEncodingChars = delim.ErrInvalidEncodingChars
)

var segmentNamePattern = regexp.MustCompile(`^[A-Z0-9]{3}$`)

// Parser decodes ER7 wire text into an Element Tree.
type Parser struct {
	cfg config
}

// New builds a Parser. Defaults: Lenient level, group assignment on,
// version "2.3", 1000 max segments, 65536 max field bytes.
func New(opts ...Option) *Parser {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Parser{cfg: cfg}
}

// ParseMessage decodes data into a Message root node.
func (p *Parser) ParseMessage(ctx context.Context, data []byte) (*tree.Node, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextCanceled, ctx.Err())
	default:
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}

	lines := splitSegments(data)
	if len(lines) > p.cfg.maxSegments {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrTooManySegments, len(lines), p.cfg.maxSegments)
	}
	if len(lines) == 0 || !bytes.HasPrefix(lines[0], []byte("MSH")) {
		return nil, ErrMissingMSH
	}

	delims := p.cfg.customDelimiters
	if delims == nil {
		d, err := delim.FromMSH(lines[0])
		if err != nil {
			return nil, err
		}
		delims = d
	}

	reg, err := schema.Load(p.cfg.version)
	if err != nil {
		return nil, err
	}

	structureName, err := structureName(lines[0], delims)
	if err != nil {
		return nil, err
	}

	root, err := tree.New(structureName, reg, delims, p.cfg.level)
	if err != nil {
		return nil, err
	}

	var group *grouper
	if p.cfg.findGroups {
		group = newGrouper(reg, root)
	}

	for i, line := range lines {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrContextCanceled, ctx.Err())
		default:
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if err := p.checkFieldLengths(line, delims); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i+1, err)
		}

		name := string(line[:min(3, len(line))])
		if !segmentNamePattern.MatchString(name) {
			if p.cfg.level == tree.Strict {
				return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
			}
			continue
		}

		var target *tree.Node
		if group != nil {
			if seg, ok := group.place(name); ok {
				target = seg
			}
		}
		if target == nil {
			if p.cfg.level == tree.Strict && p.cfg.findGroups {
				return nil, fmt.Errorf("segment %d: %w: %q not schema-legal here", i+1, tree.ErrChildNotValid, name)
			}
			if p.cfg.findGroups {
				p.cfg.logger.WithFields(logrus.Fields{"segment": name, "index": i + 1}).
					Debug("parse: segment didn't match any group slot, falling back to the message root")
			}
			seg, err := root.AddSegment(name)
			if err != nil {
				return nil, fmt.Errorf("segment %d: %w", i+1, err)
			}
			target = seg
		}

		if err := fillSegment(target, line, delims, reg); err != nil {
			return nil, fmt.Errorf("segment %d (%s): %w", i+1, name, err)
		}
	}

	return root, nil
}

// structureName derives the Message's schema key from MSH-9: its
// third (sub-)component if present, else "<type>_<trigger>".
func structureName(mshLine []byte, delims *delim.Set) (string, error) {
	fields := strings.Split(string(mshLine), string(delims.Field))
	const msh9Index = 8 // MSH-1 is the separator itself, so fields[1] is MSH-2 and fields[8] is MSH-9
	if len(fields) <= msh9Index || fields[msh9Index] == "" {
		return "", fmt.Errorf("%w: MSH-9 missing", ErrInvalidEncodingChars)
	}
	parts := strings.Split(fields[msh9Index], string(delims.Component))
	switch {
	case len(parts) >= 3 && parts[2] != "":
		return parts[2], nil
	case len(parts) >= 2:
		return parts[0] + "_" + parts[1], nil
	default:
		return parts[0], nil
	}
}

// splitSegments splits raw message bytes on \r, \n, or \r\n.
func splitSegments(data []byte) [][]byte {
	normalized := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\r"))
	normalized = bytes.ReplaceAll(normalized, []byte("\n"), []byte("\r"))
	parts := bytes.Split(normalized, []byte{delim.SegmentTerminator})
	out := parts[:0]
	for _, part := range parts {
		if len(bytes.TrimSpace(part)) > 0 {
			out = append(out, part)
		}
	}
	return out
}

// checkFieldLengths validates that no field in line exceeds the
// configured maximum length.
func (p *Parser) checkFieldLengths(line []byte, delims *delim.Set) error {
	start := 0
	fieldDelim := byte(delims.Field)
	for i := 0; i <= len(line); i++ {
		if i == len(line) || line[i] == fieldDelim {
			if i-start > p.cfg.maxFieldLength {
				return fmt.Errorf("%w: %d bytes, max %d", ErrFieldTooLong, i-start, p.cfg.maxFieldLength)
			}
			start = i + 1
		}
	}
	return nil
}
