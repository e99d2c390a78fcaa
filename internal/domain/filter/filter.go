// Package filter holds the user-editable search criteria.
package filter

// Field is a recognized filter key.
type Field string

// Filter keys as emitted by the lookup form.
const (
	Reference Field = "reference"
	Brand     Field = "brand"
	Condition Field = "condition"
	Color     Field = "color"
	Material  Field = "material"
	Year      Field = "year"
	PriceMin  Field = "priceMin"
	PriceMax  Field = "priceMax"
)

var fields = []Field{Reference, Brand, Condition, Color, Material, Year, PriceMin, PriceMax}

// Fields returns all recognized keys in form order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// ParseField returns the Field for a key, or false if the key is not recognized.
func ParseField(name string) (Field, bool) {
	f := Field(name)
	return f, f.IsValid()
}

// IsValid checks if the field is one of the recognized keys.
func (f Field) IsValid() bool {
	for _, k := range fields {
		if k == f {
			return true
		}
	}
	return false
}

// State is the full set of criteria. Values are kept as typed by the user;
// numeric coercion happens when a query is built.
type State struct {
	Reference string `json:"reference"`
	Brand     string `json:"brand"`
	Condition string `json:"condition"`
	Color     string `json:"color"`
	Material  string `json:"material"`
	Year      string `json:"year"`
	PriceMin  string `json:"priceMin"`
	PriceMax  string `json:"priceMax"`
}

// Get returns the value of a field. Unknown fields read as empty.
func (s State) Get(f Field) string {
	switch f {
	case Reference:
		return s.Reference
	case Brand:
		return s.Brand
	case Condition:
		return s.Condition
	case Color:
		return s.Color
	case Material:
		return s.Material
	case Year:
		return s.Year
	case PriceMin:
		return s.PriceMin
	case PriceMax:
		return s.PriceMax
	}
	return ""
}

// With returns a copy of s with one field replaced. Unknown fields leave s unchanged.
func (s State) With(f Field, value string) State {
	switch f {
	case Reference:
		s.Reference = value
	case Brand:
		s.Brand = value
	case Condition:
		s.Condition = value
	case Color:
		s.Color = value
	case Material:
		s.Material = value
	case Year:
		s.Year = value
	case PriceMin:
		s.PriceMin = value
	case PriceMax:
		s.PriceMax = value
	}
	return s
}

// IsEmpty reports whether every field is empty.
func (s State) IsEmpty() bool {
	return s == State{}
}

// HasReplayableCriteria reports whether any field that an advanced query
// sends is set. Brand and material are not part of the advanced payload.
func (s State) HasReplayableCriteria() bool {
	return s.Reference != "" || s.Color != "" || s.Year != "" ||
		s.Condition != "" || s.PriceMin != "" || s.PriceMax != ""
}
