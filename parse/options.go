// Package parse implements the ER7 Parser (spec.md §4.D): decoding
// HL7 v2.x wire text into an Element Tree, with schema-directed
// segment grouping.
package parse

import (
	"github.com/hl7bridge/hl7v2/delim"
	"github.com/hl7bridge/hl7v2/tree"
	"github.com/sirupsen/logrus"
)

// DoS-protection defaults, grounded in the teacher's parser config
// (parse/options.go in the example corpus): a hostile or corrupt feed
// shouldn't be able to force unbounded segment or field allocation.
const (
	defaultMaxSegments    = 1000
	defaultMaxFieldLength = 65536
)

type config struct {
	level            tree.Level
	findGroups       bool
	version          string
	customDelimiters *delim.Set
	maxSegments      int
	maxFieldLength   int
	logger           *logrus.Logger
}

func defaultConfig() config {
	return config{
		level:          tree.Lenient,
		findGroups:     true,
		version:        "2.3",
		maxSegments:    defaultMaxSegments,
		maxFieldLength: defaultMaxFieldLength,
		logger:         logrus.StandardLogger(),
	}
}

// Option configures a Parser.
type Option func(*config)

// WithLevel sets the validation level new trees are built with.
// Default is tree.Lenient.
func WithLevel(l tree.Level) Option {
	return func(c *config) { c.level = l }
}

// WithFindGroups enables or disables schema-directed group assignment
// (spec.md §4.D step 4). Default is enabled.
func WithFindGroups(enabled bool) Option {
	return func(c *config) { c.findGroups = enabled }
}

// WithVersion sets the HL7 schema version messages are parsed against.
// Default "2.3". The version always comes from this setting; the
// message's own MSH-12 is not consulted.
func WithVersion(version string) Option {
	return func(c *config) { c.version = version }
}

// WithCustomDelimiters forces a delimiter set instead of extracting
// one from the message's MSH segment.
func WithCustomDelimiters(d *delim.Set) Option {
	return func(c *config) { c.customDelimiters = d }
}

// WithMaxSegments bounds the number of segments a message may contain.
func WithMaxSegments(limit int) Option {
	return func(c *config) {
		if limit > 0 {
			c.maxSegments = limit
		}
	}
}

// WithMaxFieldLength bounds the byte length of any single field.
func WithMaxFieldLength(limit int) Option {
	return func(c *config) {
		if limit > 0 {
			c.maxFieldLength = limit
		}
	}
}

// WithLogger sets the logger LENIENT-mode diagnostics are emitted to
// (a segment falling through schema-directed grouping to the message
// root). Default is logrus.StandardLogger(). Nothing is ever logged in
// STRICT mode, since that same condition returns an error instead.
func WithLogger(l *logrus.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
