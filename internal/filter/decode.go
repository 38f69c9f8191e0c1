package filter

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// MatchName compares a map key with a field name ignoring case, "_" and
// "-", so "caseSensitive", "case_sensitive" and "case-sensitive" all name
// the same option.
func MatchName(mapKey, fieldName string) bool {
	return normalizeKey(mapKey) == normalizeKey(fieldName)
}

func normalizeKey(s string) string {
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ToLower(s)
}

// Decode overlays a loosely-typed option map onto DefaultOptions.
//
// Unknown keys are ignored. The callback options "customReplacement" and
// "customMatch" are taken when they hold a func(string) string and a
// func(string) bool respectively. A value of the wrong type is an error.
func Decode(raw map[string]interface{}) (Options, error) {
	o := DefaultOptions()
	if len(raw) == 0 {
		return o, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:    &o,
		MatchName: MatchName,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return o, fmt.Errorf("create options decoder: %w", err)
	}

	plain := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		switch {
		case MatchName(key, "customReplacement"):
			fn, ok := value.(func(string) string)
			if !ok && value != nil {
				return o, fmt.Errorf("option %q: expected func(string) string, got %T", key, value)
			}
			o.CustomReplacement = fn
		case MatchName(key, "customMatch"):
			fn, ok := value.(func(string) bool)
			if !ok && value != nil {
				return o, fmt.Errorf("option %q: expected func(string) bool, got %T", key, value)
			}
			o.CustomMatch = fn
		default:
			plain[key] = value
		}
	}

	if err := decoder.Decode(plain); err != nil {
		return o, fmt.Errorf("decode options: %w", err)
	}
	return o, nil
}
