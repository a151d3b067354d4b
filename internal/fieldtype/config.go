package fieldtype

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Config is the per-kind configuration of a field. The concrete type is
// chosen by the field's kind; see DecodeConfig.
type Config interface {
	isConfig()
}

type TextConfig struct {
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`
}

type LongTextConfig struct {
	MaxChars *int `json:"maxChars,omitempty"`
}

type NumberConfig struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`
}

type EmailConfig struct {
	ValidationMessage string `json:"validationMessage,omitempty"`
}

type URLConfig struct {
	ValidationMessage string `json:"validationMessage,omitempty"`
	RequireHTTPS      bool   `json:"requireHttps,omitempty"`
}

type PhoneConfig struct {
	DefaultCountry string `json:"defaultCountry,omitempty"`
}

// TemporalConfig bounds DATE, TIME and DATETIME fields. Min and Max use the
// same representation the field accepts.
type TemporalConfig struct {
	Min string `json:"min,omitempty"`
	Max string `json:"max,omitempty"`
}

// ChoiceConfig is shared by DROPDOWN, RADIO and CHECKBOX. Vertical is a
// layout hint only.
type ChoiceConfig struct {
	Vertical bool `json:"vertical,omitempty"`
}

type FileConfig struct {
	Accept  string   `json:"accept,omitempty"`
	MaxSize *float64 `json:"maxSize,omitempty"`
}

type RatingConfig struct {
	MaxStars *int `json:"maxStars,omitempty"`
}

type SliderConfig struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`
}

type ScaleConfig struct {
	Labels []string `json:"labels,omitempty"`
}

func (TextConfig) isConfig()     {}
func (LongTextConfig) isConfig() {}
func (NumberConfig) isConfig()   {}
func (EmailConfig) isConfig()    {}
func (URLConfig) isConfig()      {}
func (PhoneConfig) isConfig()    {}
func (TemporalConfig) isConfig() {}
func (ChoiceConfig) isConfig()   {}
func (FileConfig) isConfig()     {}
func (RatingConfig) isConfig()   {}
func (SliderConfig) isConfig()   {}
func (ScaleConfig) isConfig()    {}

const (
	DefaultMaxStars    = 5
	DefaultSliderMin   = 0.0
	DefaultSliderMax   = 100.0
	DefaultSliderStep  = 1.0
	DefaultScalePoints = 5
)

// Stars returns the configured star count or the default.
func (c RatingConfig) Stars() int {
	if c.MaxStars == nil {
		return DefaultMaxStars
	}
	return *c.MaxStars
}

// Bounds returns min, max and step with the slider defaults applied.
func (c SliderConfig) Bounds() (min, max, step float64) {
	min, max, step = DefaultSliderMin, DefaultSliderMax, DefaultSliderStep
	if c.Min != nil {
		min = *c.Min
	}
	if c.Max != nil {
		max = *c.Max
	}
	if c.Step != nil {
		step = *c.Step
	}
	return min, max, step
}

// Points returns the number of positions on the scale.
func (c ScaleConfig) Points() int {
	if len(c.Labels) == 0 {
		return DefaultScalePoints
	}
	return len(c.Labels)
}

// EmptyConfig returns the zero configuration for a kind.
func EmptyConfig(k Kind) (Config, error) {
	switch k {
	case Text:
		return TextConfig{}, nil
	case LongText:
		return LongTextConfig{}, nil
	case Number:
		return NumberConfig{}, nil
	case Email:
		return EmailConfig{}, nil
	case URL:
		return URLConfig{}, nil
	case Phone:
		return PhoneConfig{}, nil
	case Date, Time, DateTime:
		return TemporalConfig{}, nil
	case Dropdown, Radio, Checkbox:
		return ChoiceConfig{}, nil
	case File:
		return FileConfig{}, nil
	case Rating:
		return RatingConfig{}, nil
	case Slider:
		return SliderConfig{}, nil
	case Scale:
		return ScaleConfig{}, nil
	}
	return nil, fmt.Errorf("unknown field type %q", k)
}

// DecodeConfig reads raw JSON into the configuration shape of kind k.
// Unknown keys are ignored. A known key holding a value of the wrong JSON
// type is an error.
func DecodeConfig(k Kind, raw []byte) (Config, error) {
	cfg, err := EmptyConfig(k)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return cfg, nil
	}

	switch c := cfg.(type) {
	case TextConfig:
		err = json.Unmarshal(raw, &c)
		cfg = c
	case LongTextConfig:
		err = json.Unmarshal(raw, &c)
		cfg = c
	case NumberConfig:
		err = json.Unmarshal(raw, &c)
		cfg = c
	case EmailConfig:
		err = json.Unmarshal(raw, &c)
		cfg = c
	case URLConfig:
		err = json.Unmarshal(raw, &c)
		cfg = c
	case PhoneConfig:
		err = json.Unmarshal(raw, &c)
		cfg = c
	case TemporalConfig:
		err = json.Unmarshal(raw, &c)
		cfg = c
	case ChoiceConfig:
		err = json.Unmarshal(raw, &c)
		cfg = c
	case FileConfig:
		err = json.Unmarshal(raw, &c)
		cfg = c
	case RatingConfig:
		err = json.Unmarshal(raw, &c)
		cfg = c
	case SliderConfig:
		err = json.Unmarshal(raw, &c)
		cfg = c
	case ScaleConfig:
		err = json.Unmarshal(raw, &c)
		cfg = c
	}
	if err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("config key %q for %s must be %s", typeErr.Field, k, typeErr.Type)
		}
		return nil, fmt.Errorf("invalid config for %s: %w", k, err)
	}
	return cfg, nil
}

// EncodeConfig renders a configuration back to JSON. Nil encodes as "{}".
func EncodeConfig(cfg Config) ([]byte, error) {
	if cfg == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(cfg)
}

// ValidateConfig checks the values of known keys against kind k.
func ValidateConfig(k Kind, cfg Config) error {
	switch c := cfg.(type) {
	case TextConfig:
		if err := nonNegative("minLength", c.MinLength); err != nil {
			return err
		}
		if err := nonNegative("maxLength", c.MaxLength); err != nil {
			return err
		}
		if c.MinLength != nil && c.MaxLength != nil && *c.MinLength > *c.MaxLength {
			return errors.New("minLength must not exceed maxLength")
		}
	case LongTextConfig:
		if c.MaxChars != nil && *c.MaxChars <= 0 {
			return errors.New("maxChars must be positive")
		}
	case NumberConfig:
		return checkRange(c.Min, c.Max, c.Step)
	case TemporalConfig:
		if c.Min == "" || c.Max == "" {
			return validateBound(k, c.Min, c.Max)
		}
		lo, err := ParseTemporal(k, c.Min)
		if err != nil {
			return fmt.Errorf("min: %w", err)
		}
		hi, err := ParseTemporal(k, c.Max)
		if err != nil {
			return fmt.Errorf("max: %w", err)
		}
		if lo.After(hi) {
			return errors.New("min must not be after max")
		}
	case FileConfig:
		if c.MaxSize != nil && *c.MaxSize <= 0 {
			return errors.New("maxSize must be positive")
		}
		for _, entry := range splitAccept(c.Accept) {
			if !strings.HasPrefix(entry, ".") && !strings.Contains(entry, "/") {
				return fmt.Errorf("accept entry %q must be an extension or a MIME type", entry)
			}
		}
	case RatingConfig:
		if stars := c.Stars(); stars < 1 || stars > 10 {
			return errors.New("maxStars must be between 1 and 10")
		}
	case SliderConfig:
		min, max, step := c.Bounds()
		return checkRange(&min, &max, &step)
	case ScaleConfig:
		seen := make(map[string]struct{}, len(c.Labels))
		for _, label := range c.Labels {
			if strings.TrimSpace(label) == "" {
				return errors.New("scale labels must not be blank")
			}
			if _, dup := seen[label]; dup {
				return fmt.Errorf("duplicate scale label %q", label)
			}
			seen[label] = struct{}{}
		}
	case nil:
		return errors.New("missing config")
	}
	return nil
}

// ValidateOptions checks the options list of a field of kind k. Choice kinds
// need at least one option, no blanks and no duplicates.
func ValidateOptions(k Kind, options []string) error {
	if !IsChoiceType(k) {
		return nil
	}
	if len(options) == 0 {
		return fmt.Errorf("%s fields need at least one option", k)
	}
	seen := make(map[string]struct{}, len(options))
	for _, opt := range options {
		if strings.TrimSpace(opt) == "" {
			return errors.New("options must not be blank")
		}
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("duplicate option %q", opt)
		}
		seen[opt] = struct{}{}
	}
	return nil
}

func validateBound(k Kind, bounds ...string) error {
	for _, b := range bounds {
		if b == "" {
			continue
		}
		if _, err := ParseTemporal(k, b); err != nil {
			return fmt.Errorf("bound %q: %w", b, err)
		}
	}
	return nil
}

func nonNegative(key string, v *int) error {
	if v != nil && *v < 0 {
		return fmt.Errorf("%s must not be negative", key)
	}
	return nil
}

func checkRange(min, max, step *float64) error {
	if min != nil && max != nil && *min > *max {
		return errors.New("min must not exceed max")
	}
	if step != nil && *step <= 0 {
		return errors.New("step must be positive")
	}
	return nil
}

// AcceptList splits a FILE accept filter into lower-cased entries.
func (c FileConfig) AcceptList() []string {
	return splitAccept(c.Accept)
}

func splitAccept(accept string) []string {
	var out []string
	for _, part := range strings.Split(accept, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
