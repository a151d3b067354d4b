package fieldtype

// Descriptor is the public description of a kind served to form renderers.
type Descriptor struct {
	Kind       Kind     `json:"kind"`
	Label      string   `json:"label"`
	Options    bool     `json:"options"`
	Multiple   bool     `json:"multiple"`
	ConfigKeys []string `json:"configKeys"`
}

var descriptors = map[Kind]Descriptor{
	Text:     {Label: "Short text", ConfigKeys: []string{"minLength", "maxLength"}},
	LongText: {Label: "Long text", ConfigKeys: []string{"maxChars"}},
	Number:   {Label: "Number", ConfigKeys: []string{"min", "max", "step"}},
	Email:    {Label: "Email", ConfigKeys: []string{"validationMessage"}},
	URL:      {Label: "URL", ConfigKeys: []string{"validationMessage", "requireHttps"}},
	Phone:    {Label: "Phone", ConfigKeys: []string{"defaultCountry"}},
	Date:     {Label: "Date", ConfigKeys: []string{"min", "max"}},
	Time:     {Label: "Time", ConfigKeys: []string{"min", "max"}},
	DateTime: {Label: "Date and time", ConfigKeys: []string{"min", "max"}},
	Dropdown: {Label: "Dropdown", Options: true, ConfigKeys: []string{"vertical"}},
	Radio:    {Label: "Radio buttons", Options: true, ConfigKeys: []string{"vertical"}},
	Checkbox: {Label: "Checkboxes", Options: true, Multiple: true, ConfigKeys: []string{"vertical"}},
	File:     {Label: "File upload", ConfigKeys: []string{"accept", "maxSize"}},
	Rating:   {Label: "Rating", ConfigKeys: []string{"maxStars"}},
	Slider:   {Label: "Slider", ConfigKeys: []string{"min", "max", "step"}},
	Scale:    {Label: "Scale", ConfigKeys: []string{"labels"}},
}

// Describe returns the descriptor of k.
func Describe(k Kind) (Descriptor, bool) {
	d, ok := descriptors[k]
	if !ok {
		return Descriptor{}, false
	}
	d.Kind = k
	d.ConfigKeys = append([]string(nil), d.ConfigKeys...)
	return d, true
}

// Descriptors lists every kind in registry order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(kinds))
	for _, k := range kinds {
		d, _ := Describe(k)
		out = append(out, d)
	}
	return out
}
