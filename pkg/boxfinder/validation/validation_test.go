package validation

import (
	"errors"
	"testing"

	"github.com/mikepea/boxfinder/pkg/boxfinder/apperr"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
)

func rejectedFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("Expected *apperr.Error, got %T (%v)", err, err)
	}
	if ae.Kind != apperr.ValidationRejected {
		t.Fatalf("Expected kind %q, got %q", apperr.ValidationRejected, ae.Kind)
	}
	fields := map[string]string{}
	for _, f := range ae.Fields {
		fields[f.Field] = f.Message
	}
	return fields
}

func TestValidateBox(t *testing.T) {
	v := New()

	box, err := v.ValidateBox(map[string]any{
		"name":          "  Iron   Yard CrossFit ",
		"city":          "Austin",
		"country":       "USA",
		"country_code":  "us",
		"contact_email": "Owner@Example.COM",
		"approved":      true,
	})
	if err != nil {
		t.Fatalf("ValidateBox failed: %v", err)
	}

	if box.Name != "Iron Yard CrossFit" {
		t.Errorf("Expected collapsed name, got %q", box.Name)
	}
	if box.CountryCode != "US" {
		t.Errorf("Expected upper-case country code, got %q", box.CountryCode)
	}
	if box.ContactEmail != "owner@example.com" {
		t.Errorf("Expected lower-case email, got %q", box.ContactEmail)
	}
	if box.Approved {
		t.Error("Approval flag must never be carried over from input")
	}
}

func TestValidateBoxRejections(t *testing.T) {
	v := New()
	lat := 30.2

	tests := []struct {
		name  string
		raw   map[string]any
		field string
	}{
		{"missing name", map[string]any{"city": "Austin"}, "name"},
		{"short name", map[string]any{"name": "IY"}, "name"},
		{"long name", map[string]any{"name": "This Box Name Is Definitely Much Longer Than Fifty Chars"}, "name"},
		{"bad characters", map[string]any{"name": "Iron <Yard>"}, "name"},
		{"bad email", map[string]any{"name": "Iron Yard", "contact_email": "not-an-email"}, "contact_email"},
		{"unpaired coordinates", map[string]any{"name": "Iron Yard", "lat": lat}, "lat"},
		{"latitude out of range", map[string]any{"name": "Iron Yard", "lat": 120.0, "lng": 10.0}, "lat"},
		{"unknown field", map[string]any{"name": "Iron Yard", "owner": "me"}, "owner"},
		{"wrong type", map[string]any{"name": 42}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ValidateBox(tt.raw)
			if err == nil {
				t.Fatal("Expected rejection, got nil")
			}
			fields := rejectedFields(t, err)
			if _, ok := fields[tt.field]; !ok {
				t.Errorf("Expected rejection on %q, got %v", tt.field, fields)
			}
		})
	}
}

func TestValidateBoxAcceptsPairedCoordinates(t *testing.T) {
	v := New()
	box, err := v.ValidateBox(map[string]any{"name": "Iron Yard", "lat": 30.27, "lng": -97.74})
	if err != nil {
		t.Fatalf("ValidateBox failed: %v", err)
	}
	if !box.HasCoordinates() {
		t.Error("Expected coordinates to be kept")
	}
}

func TestValidateMember(t *testing.T) {
	v := New()

	member, err := v.ValidateMember(map[string]any{
		"first_name":   " Dana ",
		"last_name":    "Cole",
		"country":      "USA",
		"email":        "DANA@example.com",
		"submitted_by": "Tablet",
	})
	if err != nil {
		t.Fatalf("ValidateMember failed: %v", err)
	}
	if member.FirstName != "Dana" {
		t.Errorf("Expected trimmed first name, got %q", member.FirstName)
	}
	if member.BoxID != "" {
		t.Errorf("Expected deferred box reference, got %q", member.BoxID)
	}
	if member.SubmittedBy != models.ChannelTablet {
		t.Errorf("Expected Tablet channel, got %q", member.SubmittedBy)
	}
}

func TestValidateMemberRejections(t *testing.T) {
	v := New()
	base := func() map[string]any {
		return map[string]any{
			"first_name":   "Dana",
			"last_name":    "Cole",
			"country":      "USA",
			"submitted_by": "Webform",
		}
	}

	cases := map[string]func(map[string]any){
		"first_name":   func(m map[string]any) { delete(m, "first_name") },
		"last_name":    func(m map[string]any) { m["last_name"] = "   " },
		"country":      func(m map[string]any) { delete(m, "country") },
		"email":        func(m map[string]any) { m["email"] = "dana@" },
		"submitted_by": func(m map[string]any) { m["submitted_by"] = "Fax" },
		"nickname":     func(m map[string]any) { m["nickname"] = "DC" },
	}

	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			raw := base()
			mutate(raw)
			_, err := v.ValidateMember(raw)
			if err == nil {
				t.Fatal("Expected rejection, got nil")
			}
			if _, ok := rejectedFields(t, err)[field]; !ok {
				t.Errorf("Expected rejection on %q", field)
			}
		})
	}
}

func TestValidateMemberChannel(t *testing.T) {
	v := New()
	raw := map[string]any{
		"first_name":   "Dana",
		"last_name":    "Cole",
		"country":      "USA",
		"submitted_by": "Kiosk",
	}

	_, err := v.ValidateMember(raw)
	if err == nil {
		t.Fatal("Expected unknown channel to be rejected")
	}
	want := "Submission channel must be one of: Tablet, Webform"
	if got := rejectedFields(t, err)["submitted_by"]; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestValidateSearchQuery(t *testing.T) {
	if q, err := ValidateSearchQuery("  iron yard's  "); err != nil || q != "iron yard's" {
		t.Errorf("Expected valid query, got %q, %v", q, err)
	}
	if _, err := ValidateSearchQuery(""); err == nil {
		t.Error("Expected empty query to be rejected")
	}
	if _, err := ValidateSearchQuery("iron; drop table"); err == nil {
		t.Error("Expected punctuation to be rejected")
	}
}
