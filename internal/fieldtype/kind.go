// kind.go
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

package fieldtype

import "strings"

// Kind names a field type. The string values are part of the public API and
// stored with every field; they never change meaning.
type Kind string

const (
	Text     Kind = "TEXT"
	LongText Kind = "LONG_TEXT"
	Number   Kind = "NUMBER"
	Email    Kind = "EMAIL"
	URL      Kind = "URL"
	Phone    Kind = "PHONE"
	Date     Kind = "DATE"
	Time     Kind = "TIME"
	DateTime Kind = "DATETIME"
	Dropdown Kind = "DROPDOWN"
	Radio    Kind = "RADIO"
	Checkbox Kind = "CHECKBOX"
	File     Kind = "FILE"
	Rating   Kind = "RATING"
	Slider   Kind = "SLIDER"
	Scale    Kind = "SCALE"
)

var kinds = []Kind{
	Text, LongText, Number, Email, URL, Phone,
	Date, Time, DateTime,
	Dropdown, Radio, Checkbox,
	File, Rating, Slider, Scale,
}

// Kinds returns every known kind in registry order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind resolves a kind name, ignoring case and surrounding space.
func ParseKind(name string) (Kind, bool) {
	k := Kind(strings.ToUpper(strings.TrimSpace(name)))
	return k, k.Valid()
}

// Valid reports whether k is part of the registry.
func (k Kind) Valid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// IsChoiceType is true exactly for the kinds whose values are constrained to
// a declared options list.
func IsChoiceType(k Kind) bool {
	switch k {
	case Dropdown, Radio, Checkbox:
		return true
	}
	return false
}

// IsMultiSelect is true for kinds whose submitted value is a list.
func IsMultiSelect(k Kind) bool {
	return k == Checkbox
}

// IsTemporal is true for DATE, TIME and DATETIME.
func IsTemporal(k Kind) bool {
	switch k {
	case Date, Time, DateTime:
		return true
	}
	return false
}
