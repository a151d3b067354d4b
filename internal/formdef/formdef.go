// formdef.go
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

// Package formdef reads form definitions from YAML files, so a form and its
// fields can be created in one step outside the HTTP API.
package formdef

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/localnerve/jam-build-formsdb/internal/services"
	"github.com/localnerve/jam-build-formsdb/internal/types"
	"gopkg.in/yaml.v3"
)

// Definition is one form file.
type Definition struct {
	Owner       string  `yaml:"owner"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Publish     bool    `yaml:"publish"`
	Fields      []Field `yaml:"fields"`
}

// Field is one field entry of a form file.
type Field struct {
	Label       string                 `yaml:"label"`
	Type        string                 `yaml:"type"`
	Placeholder string                 `yaml:"placeholder"`
	Required    bool                   `yaml:"required"`
	Options     []string               `yaml:"options"`
	Config      map[string]interface{} `yaml:"config"`
	Order       *int                   `yaml:"order"`
}

// Parse decodes a definition. Unknown keys are errors so typos surface
// before anything is written.
func Parse(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("formdef: empty definition")
		}
		return nil, fmt.Errorf("formdef: %w", err)
	}
	if strings.TrimSpace(def.Title) == "" {
		return nil, fmt.Errorf("formdef: title is required")
	}
	for i, f := range def.Fields {
		if strings.TrimSpace(f.Label) == "" {
			return nil, fmt.Errorf("formdef: field %d has no label", i+1)
		}
		if strings.TrimSpace(f.Type) == "" {
			return nil, fmt.Errorf("formdef: field %q has no type", f.Label)
		}
	}
	return &def, nil
}

// Form returns the create request of the definition.
func (d *Definition) Form() services.FormInput {
	return services.FormInput{Title: d.Title, Description: d.Description}
}

// Inputs converts the field entries into add requests, in file order.
func (d *Definition) Inputs() ([]services.FieldInput, error) {
	inputs := make([]services.FieldInput, 0, len(d.Fields))
	for _, f := range d.Fields {
		input := services.FieldInput{
			Label:       f.Label,
			Type:        f.Type,
			Placeholder: f.Placeholder,
			Required:    f.Required,
			Options:     f.Options,
		}
		if len(f.Config) > 0 {
			raw, err := json.Marshal(f.Config)
			if err != nil {
				return nil, fmt.Errorf("formdef: config of %q: %w", f.Label, err)
			}
			input.Config = raw
		}
		if f.Order != nil {
			order := types.FlexInt(*f.Order)
			input.Order = &order
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}
