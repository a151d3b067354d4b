package models

import (
	"time"

	"github.com/localnerve/jam-build-formsdb/internal/fieldtype"
	"github.com/localnerve/jam-build-formsdb/internal/ordering"
	"github.com/localnerve/jam-build-formsdb/internal/submission"
)

// Form is an owner's data-collection instrument. The public address of a
// published form is (OwnerID, Slug).
type Form struct {
	ID          string      `gorm:"size:36;primaryKey" json:"id"`
	OwnerID     string      `gorm:"size:64;not null;index:idx_form_owner_slug,unique" json:"ownerId"`
	Title       string      `gorm:"size:255;not null" json:"title"`
	Description string      `json:"description"`
	Slug        string      `gorm:"size:100;not null;index:idx_form_owner_slug,unique" json:"slug"`
	Published   bool        `gorm:"not null;default:false" json:"published"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Fields      []FormField `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"fields,omitempty"`
}

// FormField is one typed input of a form. Label doubles as the key its
// values are stored under, so it is unique per form.
type FormField struct {
	ID          string    `gorm:"size:36;primaryKey" json:"id"`
	FormID      string    `gorm:"size:36;not null;index:idx_field_form_label,unique" json:"formId"`
	Label       string    `gorm:"size:255;not null;index:idx_field_form_label,unique" json:"label"`
	Type        string    `gorm:"size:32;not null" json:"type"`
	Placeholder string    `gorm:"size:255" json:"placeholder,omitempty"`
	Required    bool      `gorm:"not null;default:false" json:"required"`
	Order       int       `gorm:"column:sort_order;not null;index" json:"order"`
	Options     JSON      `json:"options,omitempty"`
	Config      JSON      `json:"config,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Submission is an immutable record of values collected for a form. FormID
// is a weak reference: the schema may have changed since.
type Submission struct {
	ID        string    `gorm:"size:36;primaryKey" json:"id"`
	FormID    string    `gorm:"size:36;not null;index" json:"formId"`
	Data      JSON      `gorm:"not null" json:"data"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// TableName overrides the table name for Form
func (Form) TableName() string {
	return "forms"
}

// TableName overrides the table name for FormField
func (FormField) TableName() string {
	return "form_fields"
}

// TableName overrides the table name for Submission
func (Submission) TableName() string {
	return "form_submissions"
}

// Kind returns the field type, which may be unknown for rows written by a
// newer release.
func (f FormField) Kind() fieldtype.Kind {
	return fieldtype.Kind(f.Type)
}

// OptionList decodes the options column.
func (f FormField) OptionList() []string {
	var options []string
	if err := f.Options.Decode(&options); err != nil {
		return nil
	}
	return options
}

// TypedConfig decodes the config column into the shape of the field's kind.
func (f FormField) TypedConfig() (fieldtype.Config, error) {
	return fieldtype.DecodeConfig(f.Kind(), f.Config.Bytes())
}

// Entry is the ordering view of the field.
func (f FormField) Entry() ordering.Entry {
	return ordering.Entry{ID: f.ID, Order: f.Order, CreatedAt: f.CreatedAt}
}

// Snapshot converts the row into the encoder's schema view. A config that no
// longer decodes falls back to the kind's defaults.
func (f FormField) Snapshot() submission.Field {
	cfg, err := f.TypedConfig()
	if err != nil {
		cfg, _ = fieldtype.EmptyConfig(f.Kind())
	}
	return submission.Field{
		ID:       f.ID,
		Label:    f.Label,
		Kind:     f.Kind(),
		Required: f.Required,
		Options:  f.OptionList(),
		Config:   cfg,
	}
}

// SortFields orders fields by order, creation time and id.
func SortFields(fields []FormField) {
	entries := make([]ordering.Entry, len(fields))
	byID := make(map[string]FormField, len(fields))
	for i, f := range fields {
		entries[i] = f.Entry()
		byID[f.ID] = f
	}
	ordering.Sort(entries)
	for i, e := range entries {
		fields[i] = byID[e.ID]
	}
}

// Snapshots converts a field list into the encoder's schema, in display order.
func Snapshots(fields []FormField) []submission.Field {
	sorted := make([]FormField, len(fields))
	copy(sorted, fields)
	SortFields(sorted)

	out := make([]submission.Field, len(sorted))
	for i, f := range sorted {
		out[i] = f.Snapshot()
	}
	return out
}
