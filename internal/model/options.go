package model

// Recognized control keys. They configure the plugin itself and are never
// forwarded to the formatter.
const (
	OptionCwd                 = "cwd"
	OptionSourcemap           = "sourcemap"
	OptionSourcemapDeprecated = "sourceMap"
)

// ControlKeys lists every key stripped from caller options before formatting.
var ControlKeys = []string{OptionSourcemap, OptionSourcemapDeprecated, OptionCwd}

// FormatOptions is an opaque option bag passed verbatim to the formatter.
// A nil FormatOptions means "no options".
type FormatOptions map[string]any

// IsControlKey reports whether key configures the plugin rather than the formatter.
func IsControlKey(key string) bool {
	for _, k := range ControlKeys {
		if k == key {
			return true
		}
	}

	return false
}

// Clone returns a shallow copy of o. Cloning nil yields nil.
func (o FormatOptions) Clone() FormatOptions {
	if o == nil {
		return nil
	}

	out := make(FormatOptions, len(o))
	for k, v := range o {
		out[k] = v
	}

	return out
}

// Has reports whether key is present, even with a nil value.
func (o FormatOptions) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// WithoutControlKeys copies o, dropping the plugin control keys.
func (o FormatOptions) WithoutControlKeys() FormatOptions {
	out := make(FormatOptions, len(o))

	for k, v := range o {
		if IsControlKey(k) {
			continue
		}

		out[k] = v
	}

	return out
}

// Merge layers o over base: keys of o win on conflict. Neither input is modified.
func (o FormatOptions) Merge(base FormatOptions) FormatOptions {
	out := make(FormatOptions, len(base)+len(o))

	for k, v := range base {
		out[k] = v
	}

	for k, v := range o {
		out[k] = v
	}

	return out
}

// OrNil collapses an empty option set to nil so the formatter receives nothing.
func (o FormatOptions) OrNil() FormatOptions {
	if len(o) == 0 {
		return nil
	}

	return o
}
