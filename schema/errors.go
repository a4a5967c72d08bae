package schema

import "errors"

// Sentinel errors returned by Load and Registry lookups.
var (
	// ErrUnsupportedVersion is returned by Load for a version with no
	// registered table set.
	ErrUnsupportedVersion = errors.New("schema: unsupported HL7 version")
	// ErrUnknownName is returned when a lookup name resolves to nothing
	// in the registry for the requested version.
	ErrUnknownName = errors.New("schema: name not found in schema")
)
