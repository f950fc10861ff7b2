package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SettingKind is the value type of a setting.
type SettingKind string

const (
	KindString SettingKind = "string"
	KindNumber SettingKind = "number"
	KindBool   SettingKind = "bool"
	KindEnum   SettingKind = "enum"
)

// Setting describes one configurable knob. Settings are built once when
// the schema is assembled and never modified afterwards.
type Setting struct {
	Key         string
	Kind        SettingKind
	Integer     bool
	Default     interface{}
	Choices     []string
	Aliases     map[string]string
	EnvVars     []string
	Flag        string
	Description string
	Secret      bool
	// EnvOnly settings ignore the config file layer.
	EnvOnly   bool
	Validator func(interface{}) error
}

// ErrInvalidChoice is returned by Coerce when an enum value is a string but
// not one of the allowed choices.
var ErrInvalidChoice = errors.New("invalid choice")

// Coerce converts a raw value from any source into the setting's native
// type: string for string and enum settings, int or float64 for numbers,
// bool for booleans.
func (s Setting) Coerce(raw interface{}) (interface{}, error) {
	switch s.Kind {
	case KindString:
		str, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", raw)
		}
		return str, nil
	case KindEnum:
		str, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected one of %s, got %T", strings.Join(s.Choices, "|"), raw)
		}
		normalized := strings.ToLower(strings.TrimSpace(str))
		if alias, ok := s.Aliases[normalized]; ok {
			normalized = alias
		}
		for _, choice := range s.Choices {
			if choice == normalized {
				return normalized, nil
			}
		}
		return nil, fmt.Errorf("%w %q, expected one of %s", ErrInvalidChoice, str, strings.Join(s.Choices, "|"))
	case KindBool:
		return coerceBool(raw)
	case KindNumber:
		if s.Integer {
			return coerceInt(raw)
		}
		return coerceFloat(raw)
	default:
		return nil, fmt.Errorf("unknown setting kind %q", s.Kind)
	}
}

func coerceBool(raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true, nil
		case "0", "false", "no", "off":
			return false, nil
		}
		return nil, fmt.Errorf("expected a boolean, got %q", v)
	default:
		return nil, fmt.Errorf("expected a boolean, got %T", raw)
	}
}

func coerceInt(raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("expected an integer, got %v", v)
		}
		if math.IsInf(v, 0) || v < math.MinInt || v >= math.MaxInt {
			return nil, fmt.Errorf("integer out of range: %v", v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", v)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("expected an integer, got %T", raw)
	}
}

func coerceFloat(raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %q", v)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("expected a number, got %T", raw)
	}
}

// FormatValue renders a resolved value for display, masking secrets.
func (s Setting) FormatValue(v interface{}) string {
	if v == nil {
		return "(unset)"
	}
	if s.Secret {
		if str, ok := v.(string); ok {
			return MaskSecret(str)
		}
	}
	return fmt.Sprint(v)
}

// MaskSecret hides all but the last six characters of a secret.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	runes := []rune(secret)
	if len(runes) <= 6 {
		return "****"
	}
	return "****" + string(runes[len(runes)-6:])
}
