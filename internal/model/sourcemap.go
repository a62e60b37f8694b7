package model

import (
	"math"
	"reflect"
	"strings"
)

// SourcemapSetting controls whether a position map is computed.
type SourcemapSetting int

const (
	// SourcemapUnset defers to the next layer of configuration.
	SourcemapUnset SourcemapSetting = iota
	// SourcemapOff disables map generation.
	SourcemapOff
	// SourcemapOn enables map generation and its advisory warnings.
	SourcemapOn
	// SourcemapSilent enables map generation without the advisory warnings.
	SourcemapSilent
)

const silentValue = "silent"

// String implements fmt.Stringer.
func (s SourcemapSetting) String() string {
	switch s {
	case SourcemapOff:
		return "false"
	case SourcemapOn:
		return "true"
	case SourcemapSilent:
		return silentValue
	default:
		return "unset"
	}
}

// IsSet reports whether s carries a decision.
func (s SourcemapSetting) IsSet() bool {
	return s != SourcemapUnset
}

// Enabled reports whether s asks for a map.
func (s SourcemapSetting) Enabled() bool {
	return s == SourcemapOn || s == SourcemapSilent
}

// ParseSourcemapSetting converts a loosely typed bundler value into a setting.
// Strings other than "", "false" and "silent" ("inline", "hidden", ...) enable
// maps. "false" disables them even though it is a non-empty string: flags,
// environment variables and YAML scalars can only spell the boolean as text.
// Numbers follow truthiness, so 0 and 0.0 from decoded JSON are off.
func ParseSourcemapSetting(value any) SourcemapSetting {
	switch v := value.(type) {
	case nil:
		return SourcemapUnset
	case SourcemapSetting:
		return v
	case bool:
		if v {
			return SourcemapOn
		}

		return SourcemapOff
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "false":
			return SourcemapOff
		case silentValue:
			return SourcemapSilent
		default:
			return SourcemapOn
		}
	case float32:
		return numberSetting(float64(v))
	case float64:
		return numberSetting(v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		if reflect.ValueOf(v).IsZero() {
			return SourcemapOff
		}

		return SourcemapOn
	default:
		return SourcemapOn
	}
}

// numberSetting treats 0, -0 and NaN as off.
func numberSetting(v float64) SourcemapSetting {
	if v == 0 || math.IsNaN(v) {
		return SourcemapOff
	}

	return SourcemapOn
}

// ResolveSourcemap applies the per-call override on top of the plugin default.
// When neither layer is set the result is SourcemapOff.
func ResolveSourcemap(plugin, perCall SourcemapSetting) SourcemapSetting {
	if perCall.IsSet() {
		return perCall
	}

	if plugin.IsSet() {
		return plugin
	}

	return SourcemapOff
}
