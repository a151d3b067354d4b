// encoder.go
//
// Form builder and submission collection service for jam-build
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-formsdb.
// jam-build-formsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-formsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-formsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package submission

import (
	"sort"
	"strings"

	"github.com/localnerve/jam-build-formsdb/internal/fieldtype"
	"github.com/localnerve/jam-build-formsdb/internal/types"
)

// Field is the schema snapshot of one form field as the encoder sees it.
type Field struct {
	ID       string
	Label    string
	Kind     fieldtype.Kind
	Required bool
	Options  []string
	Config   fieldtype.Config
}

// Result is a canonical submission payload ready to persist.
type Result struct {
	Data map[string]interface{}
	// Unknown lists payload keys that match no current field. Their values
	// are kept in Data unchanged.
	Unknown []string
}

type options struct {
	keyByID bool
}

// Option tunes ValidateAndEncode.
type Option func(*options)

// KeyByID keys the payload and the result by field id instead of label, so
// renaming a field does not orphan its stored values.
func KeyByID() Option {
	return func(o *options) {
		o.keyByID = true
	}
}

// ValidateAndEncode checks payload against fields and returns the canonical
// data. On failure the error is a *types.CustomError of kind
// ValidationFailure listing every offending field in schema order.
func ValidateAndEncode(fields []Field, payload map[string]interface{}, opts ...Option) (Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	result := Result{Data: make(map[string]interface{}, len(payload))}
	var issues []types.FieldIssue
	known := make(map[string]struct{}, len(fields))

	for _, field := range fields {
		key := field.Label
		if o.keyByID {
			key = field.ID
		}
		if _, dup := known[key]; dup {
			continue
		}
		known[key] = struct{}{}

		raw, present := payload[key]
		if !present || isEmpty(raw) {
			if field.Required {
				issues = append(issues, types.FieldIssue{Label: field.Label, Reason: "is required"})
			}
			continue
		}

		value, reason := coerce(field, raw)
		if reason != "" {
			issues = append(issues, types.FieldIssue{Label: field.Label, Reason: reason})
			continue
		}
		result.Data[key] = value
	}

	for key, value := range payload {
		if _, ok := known[key]; ok {
			continue
		}
		result.Data[key] = value
		result.Unknown = append(result.Unknown, key)
	}
	sort.Strings(result.Unknown)

	if len(issues) > 0 {
		return Result{}, types.NewValidationFailure(issues)
	}
	return result, nil
}

func isEmpty(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []interface{}:
		return len(val) == 0
	case []string:
		return len(val) == 0
	}
	return false
}

func coerce(field Field, raw interface{}) (interface{}, string) {
	switch field.Kind {
	case fieldtype.Dropdown, fieldtype.Radio:
		return coerceSingleChoice(field, raw)
	case fieldtype.Checkbox:
		return coerceMultiChoice(field, raw)
	case fieldtype.Number:
		cfg, _ := field.Config.(fieldtype.NumberConfig)
		return coerceNumber(raw, cfg.Min, cfg.Max, cfg.Step)
	case fieldtype.Slider:
		cfg, _ := field.Config.(fieldtype.SliderConfig)
		min, max, step := cfg.Bounds()
		return coerceNumber(raw, &min, &max, &step)
	case fieldtype.Rating:
		cfg, _ := field.Config.(fieldtype.RatingConfig)
		return coerceInteger(raw, 1, cfg.Stars())
	case fieldtype.Scale:
		cfg, _ := field.Config.(fieldtype.ScaleConfig)
		return coerceInteger(raw, 1, cfg.Points())
	case fieldtype.Date, fieldtype.Time, fieldtype.DateTime:
		cfg, _ := field.Config.(fieldtype.TemporalConfig)
		return coerceTemporal(field.Kind, raw, cfg)
	case fieldtype.Email:
		cfg, _ := field.Config.(fieldtype.EmailConfig)
		return coerceEmail(raw, cfg)
	case fieldtype.URL:
		cfg, _ := field.Config.(fieldtype.URLConfig)
		return coerceURL(raw, cfg)
	case fieldtype.Phone:
		return coercePhone(raw)
	case fieldtype.Text:
		cfg, _ := field.Config.(fieldtype.TextConfig)
		return coerceText(raw, cfg.MinLength, cfg.MaxLength)
	case fieldtype.LongText:
		cfg, _ := field.Config.(fieldtype.LongTextConfig)
		return coerceText(raw, nil, cfg.MaxChars)
	case fieldtype.File:
		cfg, _ := field.Config.(fieldtype.FileConfig)
		return coerceFile(raw, cfg)
	}
	return nil, "has an unsupported field type"
}
