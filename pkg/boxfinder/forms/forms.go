// Package forms renders the input fields of the member capture form and the
// box creation sub-steps. Rendering is pure: values and an editability
// predicate in, inputs out.
package forms

// Field names match the JSON keys accepted by the validator
type Field string

const (
	FieldName         Field = "name"
	FieldLocation     Field = "location"
	FieldCity         Field = "city"
	FieldState        Field = "state"
	FieldCountry      Field = "country"
	FieldCountryCode  Field = "country_code"
	FieldPhone        Field = "phone"
	FieldWebsite      Field = "website"
	FieldContactName  Field = "contact_name"
	FieldContactEmail Field = "contact_email"

	FieldFirstName Field = "first_name"
	FieldLastName  Field = "last_name"
	FieldEmail     Field = "email"
)

// BoxFields lists every field the box creation sub-steps collect
var BoxFields = []Field{
	FieldName, FieldLocation, FieldCity, FieldState, FieldCountry, FieldCountryCode,
	FieldPhone, FieldWebsite, FieldContactName, FieldContactEmail,
}

// MemberFields lists the fields of the member capture form
var MemberFields = []Field{FieldFirstName, FieldLastName, FieldCountry, FieldEmail}

// Values holds current field contents
type Values map[Field]string

// Clone returns an independent copy
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Input is one rendered form field
type Input struct {
	Field       Field  `json:"field"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Value       string `json:"value"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
	Editable    bool   `json:"editable"`
}

// Editable decides whether a field accepts changes
type Editable func(Field) bool

// AllEditable allows every field
func AllEditable(Field) bool { return true }

type spec struct {
	field       Field
	label       string
	kind        string
	placeholder string
	required    bool
}

func render(specs []spec, values Values, editable Editable) []Input {
	if editable == nil {
		editable = AllEditable
	}
	inputs := make([]Input, len(specs))
	for i, s := range specs {
		inputs[i] = Input{
			Field:       s.field,
			Label:       s.label,
			Type:        s.kind,
			Value:       values[s.field],
			Placeholder: s.placeholder,
			Required:    s.required,
			Editable:    editable(s.field),
		}
	}
	return inputs
}

var (
	essentials = []spec{
		{FieldName, "Box Name", "text", "Enter box name to search...", true},
		{FieldLocation, "Address", "text", "Full address", true},
		{FieldCity, "City", "text", "", false},
		{FieldState, "State", "text", "", false},
		{FieldCountry, "Country", "text", "", false},
	}
	contactInfo = []spec{
		{FieldPhone, "Phone", "tel", "", false},
		{FieldWebsite, "Website", "url", "https://", false},
	}
	ownerContact = []spec{
		{FieldContactName, "Contact Name", "text", "", false},
		{FieldContactEmail, "Contact Email (Optional)", "email", "", false},
	}
	memberCapture = []spec{
		{FieldFirstName, "First Name", "text", "First name *", true},
		{FieldLastName, "Last Name", "text", "Last name *", true},
		{FieldCountry, "Country", "text", "Country *", true},
		{FieldEmail, "Email", "email", "Your email *", true},
	}
)

// Essentials renders the location essentials sub-step
func Essentials(values Values, editable Editable) []Input {
	return render(essentials, values, editable)
}

// ContactInfo renders the contact info sub-step
func ContactInfo(values Values, editable Editable) []Input {
	return render(contactInfo, values, editable)
}

// OwnerContact renders the owner contact sub-step
func OwnerContact(values Values, editable Editable) []Input {
	return render(ownerContact, values, editable)
}

// MemberCapture renders the member capture form
func MemberCapture(values Values, editable Editable) []Input {
	return render(memberCapture, values, editable)
}
