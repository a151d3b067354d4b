// coerce.go
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
	"encoding/json"
	"fmt"
	"math"
	"mime"
	"net/mail"
	"net/url"
	"path"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/localnerve/jam-build-formsdb/internal/fieldtype"
)

const stepTolerance = 1e-9

func asString(raw interface{}) (string, bool) {
	s, ok := raw.(string)
	return s, ok
}

func contains(options []string, v string) bool {
	for _, opt := range options {
		if opt == v {
			return true
		}
	}
	return false
}

func coerceSingleChoice(field Field, raw interface{}) (interface{}, string) {
	s, ok := asString(raw)
	if !ok {
		return nil, "must be one of the listed options"
	}
	if !contains(field.Options, s) {
		return nil, fmt.Sprintf("%q is not one of the listed options", s)
	}
	return s, ""
}

func coerceMultiChoice(field Field, raw interface{}) (interface{}, string) {
	var values []string
	switch list := raw.(type) {
	case []string:
		values = list
	case []interface{}:
		values = make([]string, 0, len(list))
		for _, item := range list {
			s, ok := asString(item)
			if !ok {
				return nil, "must be a list of options"
			}
			values = append(values, s)
		}
	default:
		return nil, "must be a list of options"
	}

	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if !contains(field.Options, v) {
			return nil, fmt.Sprintf("%q is not one of the listed options", v)
		}
		if _, dup := seen[v]; dup {
			return nil, fmt.Sprintf("%q is selected more than once", v)
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, ""
}

func toNumber(raw interface{}) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func coerceNumber(raw interface{}, min, max, step *float64) (interface{}, string) {
	f, ok := toNumber(raw)
	if !ok {
		return nil, "must be a number"
	}
	if min != nil && f < *min {
		return nil, "must be at least " + formatNumber(*min)
	}
	if max != nil && f > *max {
		return nil, "must be at most " + formatNumber(*max)
	}
	if step != nil && *step > 0 {
		base := 0.0
		if min != nil {
			base = *min
		}
		ratio := (f - base) / *step
		if math.Abs(ratio-math.Round(ratio)) > stepTolerance {
			return nil, "must be a multiple of " + formatNumber(*step)
		}
	}
	return f, ""
}

func coerceInteger(raw interface{}, min, max int) (interface{}, string) {
	f, ok := toNumber(raw)
	if !ok || f != math.Trunc(f) {
		return nil, "must be a whole number"
	}
	if f < float64(min) || f > float64(max) {
		return nil, fmt.Sprintf("must be between %d and %d", min, max)
	}
	return f, ""
}

func coerceTemporal(kind fieldtype.Kind, raw interface{}, cfg fieldtype.TemporalConfig) (interface{}, string) {
	s, ok := asString(raw)
	if !ok {
		return nil, "must be a " + strings.ToLower(string(kind)) + " string"
	}
	t, err := fieldtype.ParseTemporal(kind, s)
	if err != nil {
		return nil, err.Error()
	}
	// bounds that fail to parse were rejected when the field was saved
	if cfg.Min != "" {
		if lo, err := fieldtype.ParseTemporal(kind, cfg.Min); err == nil && t.Before(lo) {
			return nil, "must not be before " + cfg.Min
		}
	}
	if cfg.Max != "" {
		if hi, err := fieldtype.ParseTemporal(kind, cfg.Max); err == nil && t.After(hi) {
			return nil, "must not be after " + cfg.Max
		}
	}
	return fieldtype.FormatTemporal(kind, t), ""
}

func coerceEmail(raw interface{}, cfg fieldtype.EmailConfig) (interface{}, string) {
	s, ok := asString(raw)
	if ok {
		addr, err := mail.ParseAddress(s)
		if err == nil && addr.Name == "" && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".") {
			return s, ""
		}
	}
	return nil, messageOr(cfg.ValidationMessage, "must be a valid email address")
}

func coerceURL(raw interface{}, cfg fieldtype.URLConfig) (interface{}, string) {
	s, ok := asString(raw)
	if ok {
		u, err := url.Parse(s)
		if err == nil && u.Host != "" && strings.TrimSpace(s) == s {
			switch {
			case u.Scheme == "https":
				return s, ""
			case u.Scheme == "http" && !cfg.RequireHTTPS:
				return s, ""
			case u.Scheme == "http":
				return nil, messageOr(cfg.ValidationMessage, "must use https")
			}
		}
	}
	return nil, messageOr(cfg.ValidationMessage, "must be a valid http or https URL")
}

func coercePhone(raw interface{}) (interface{}, string) {
	s, ok := asString(raw)
	if !ok {
		return nil, "must be a phone number"
	}
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ', r == '-', r == '.', r == '(', r == ')':
		default:
			return nil, "must be a phone number"
		}
	}
	if digits < 7 || digits > 15 {
		return nil, "must contain between 7 and 15 digits"
	}
	return s, ""
}

func coerceText(raw interface{}, minLength, maxLength *int) (interface{}, string) {
	s, ok := asString(raw)
	if !ok {
		return nil, "must be text"
	}
	n := utf8.RuneCountInString(s)
	if minLength != nil && n < *minLength {
		return nil, fmt.Sprintf("must be at least %d characters", *minLength)
	}
	if maxLength != nil && n > *maxLength {
		return nil, fmt.Sprintf("must be at most %d characters", *maxLength)
	}
	return s, ""
}

func coerceFile(raw interface{}, cfg fieldtype.FileConfig) (interface{}, string) {
	s, ok := asString(raw)
	if !ok {
		return nil, "must be a file name"
	}
	accept := cfg.AcceptList()
	if len(accept) == 0 {
		return s, ""
	}

	ext := strings.ToLower(path.Ext(s))
	mimeType := ""
	if ext != "" {
		mimeType, _, _ = mime.ParseMediaType(mime.TypeByExtension(ext))
	}
	for _, entry := range accept {
		switch {
		case strings.HasPrefix(entry, "."):
			if ext == entry {
				return s, ""
			}
		case strings.HasSuffix(entry, "/*"):
			if mimeType != "" && strings.HasPrefix(mimeType, strings.TrimSuffix(entry, "*")) {
				return s, ""
			}
		case mimeType == entry:
			return s, ""
		}
	}
	return nil, "must be one of " + cfg.Accept
}

func messageOr(custom, fallback string) string {
	if strings.TrimSpace(custom) != "" {
		return custom
	}
	return fallback
}
