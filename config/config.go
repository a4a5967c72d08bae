// Package config resolves the process-wide parser defaults spec.md §6
// leaves to "a process default": the HL7 schema version, validation
// level and find-groups behavior a parse.Parser falls back to when a
// caller doesn't pin them explicitly with its own Options. It reads
// HL7_VERSION, HL7_VALIDATION_LEVEL and HL7_FIND_GROUPS from the
// environment via github.com/spf13/viper rather than os.Getenv
// directly, the way cmd/root.go in the ygot example binds
// viper.AutomaticEnv for its own process defaults.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/hl7bridge/hl7v2/parse"
	"github.com/hl7bridge/hl7v2/tree"
)

// Compiled-in fallbacks, used for any of the three settings with no
// corresponding environment variable set.
const (
	DefaultVersion         = "2.3"
	DefaultValidationLevel = "LENIENT"
	DefaultFindGroups      = true
)

// Defaults holds the resolved process-wide parser defaults.
type Defaults struct {
	Version         string
	ValidationLevel tree.Level
	FindGroups      bool
}

// Load resolves Defaults from HL7_VERSION, HL7_VALIDATION_LEVEL and
// HL7_FIND_GROUPS, falling back to the compiled-in defaults for
// anything unset. Each call builds its own viper instance, so
// concurrent callers (and tests using t.Setenv) never share state
// through viper's default global instance.
func Load() Defaults {
	v := viper.New()
	v.SetDefault("version", DefaultVersion)
	v.SetDefault("validation_level", DefaultValidationLevel)
	v.SetDefault("find_groups", DefaultFindGroups)
	v.SetEnvPrefix("HL7")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	level := tree.Lenient
	if strings.EqualFold(v.GetString("validation_level"), "STRICT") {
		level = tree.Strict
	}

	return Defaults{
		Version:         v.GetString("version"),
		ValidationLevel: level,
		FindGroups:      v.GetBool("find_groups"),
	}
}

// ParserOptions converts d into parse.Option values, so a caller can
// seed a Parser with the resolved process defaults and still override
// any of them with its own trailing Options (later options win):
//
//	p := parse.New(append(config.Load().ParserOptions(), parse.WithVersion("2.5"))...)
func (d Defaults) ParserOptions() []parse.Option {
	return []parse.Option{
		parse.WithVersion(d.Version),
		parse.WithLevel(d.ValidationLevel),
		parse.WithFindGroups(d.FindGroups),
	}
}
