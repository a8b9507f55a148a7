// Package validation turns loosely typed box and member submissions into
// normalized records, or a field-level rejection.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mikepea/boxfinder/pkg/boxfinder/apperr"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
)

var (
	boxNamePattern     = regexp.MustCompile(`^[\p{L}\p{N} '&.,!?()#/:+-]+$`)
	searchQueryPattern = regexp.MustCompile(`^[a-zA-Z0-9' ]+$`)
	unknownFieldError  = regexp.MustCompile(`unknown field "([^"]+)"`)
)

// Validator validates box and member submissions
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the box-specific rules registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("boxname", func(fl validator.FieldLevel) bool {
		return boxNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("channel", func(fl validator.FieldLevel) bool {
		return models.Channel(fl.Field().String()).Valid()
	})
	v.RegisterStructValidation(coordinatesPaired, boxInput{})
	return &Validator{v: v}
}

type boxInput struct {
	Name         string   `json:"name" validate:"required,min=3,max=50,boxname"`
	Location     string   `json:"location" validate:"max=200"`
	City         string   `json:"city" validate:"max=100"`
	State        string   `json:"state" validate:"max=100"`
	Country      string   `json:"country" validate:"max=100"`
	CountryCode  string   `json:"country_code" validate:"omitempty,len=2,alpha"`
	Latitude     *float64 `json:"lat" validate:"omitnil,gte=-90,lte=90"`
	Longitude    *float64 `json:"lng" validate:"omitnil,gte=-180,lte=180"`
	Phone        string   `json:"phone" validate:"max=40"`
	Website      string   `json:"website" validate:"omitempty,url"`
	ContactName  string   `json:"contact_name" validate:"max=100"`
	ContactEmail string   `json:"contact_email" validate:"omitempty,email"`
	Approved     *bool    `json:"approved"`
}

type memberInput struct {
	BoxID       string `json:"box_id" validate:"max=64"`
	FirstName   string `json:"first_name" validate:"required,max=50"`
	LastName    string `json:"last_name" validate:"required,max=50"`
	Country     string `json:"country" validate:"required,max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	SubmittedBy string `json:"submitted_by" validate:"required,channel"`
	Approved    *bool  `json:"approved"`
}

func coordinatesPaired(sl validator.StructLevel) {
	in := sl.Current().Interface().(boxInput)
	if (in.Latitude == nil) != (in.Longitude == nil) {
		sl.ReportError(in.Latitude, "lat", "Latitude", "paired", "")
	}
}

// ValidateBox validates a raw box submission. The approval flag is accepted
// but never carried over.
func (v *Validator) ValidateBox(raw map[string]any) (*models.Box, error) {
	var in boxInput
	if err := decodeStrict(raw, &in); err != nil {
		return nil, err
	}

	in.Name = collapseSpaces(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Country = strings.TrimSpace(in.Country)
	in.CountryCode = strings.ToUpper(strings.TrimSpace(in.CountryCode))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Website = strings.TrimSpace(in.Website)
	in.ContactName = strings.TrimSpace(in.ContactName)
	in.ContactEmail = strings.ToLower(strings.TrimSpace(in.ContactEmail))

	if err := v.v.Struct(in); err != nil {
		return nil, rejection(err)
	}

	return &models.Box{
		Name:         in.Name,
		Location:     in.Location,
		City:         in.City,
		State:        in.State,
		Country:      in.Country,
		CountryCode:  in.CountryCode,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Phone:        in.Phone,
		Website:      in.Website,
		ContactName:  in.ContactName,
		ContactEmail: in.ContactEmail,
	}, nil
}

// ValidateMember validates a raw member submission. An empty box_id is
// allowed: the member may be captured before its box exists.
func (v *Validator) ValidateMember(raw map[string]any) (*models.Member, error) {
	var in memberInput
	if err := decodeStrict(raw, &in); err != nil {
		return nil, err
	}

	in.BoxID = strings.TrimSpace(in.BoxID)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Country = strings.TrimSpace(in.Country)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := v.v.Struct(in); err != nil {
		return nil, rejection(err)
	}

	return &models.Member{
		BoxID:       in.BoxID,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Country:     in.Country,
		Email:       in.Email,
		SubmittedBy: models.Channel(in.SubmittedBy),
	}, nil
}

// ValidateSearchQuery checks a free-text directory query
func ValidateSearchQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", apperr.Rejected(apperr.FieldError{Field: "q", Message: "Search query is required"})
	}
	if !searchQueryPattern.MatchString(q) {
		return "", apperr.Rejected(apperr.FieldError{
			Field:   "q",
			Message: "Search query can only contain alphanumeric characters, apostrophes, and spaces",
		})
	}
	return q, nil
}

// decodeStrict re-decodes raw into dst, rejecting unknown fields and type
// mismatches.
func decodeStrict(raw map[string]any, dst any) error {
	buf, err := json.Marshal(raw)
	if err != nil {
		return apperr.Rejected(apperr.FieldError{Field: "", Message: "Submission is not valid JSON"})
	}

	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return apperr.Rejected(apperr.FieldError{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.Kind()),
			})
		}
		if m := unknownFieldError.FindStringSubmatch(err.Error()); m != nil {
			return apperr.Rejected(apperr.FieldError{Field: m[1], Message: fmt.Sprintf("Unknown field %q", m[1])})
		}
		return apperr.Rejected(apperr.FieldError{Field: "", Message: err.Error()})
	}
	return nil
}

func rejection(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.Unknown, err, "validation failed")
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return apperr.Rejected(fields...)
}

var fieldLabels = map[string]string{
	"name":          "Box name",
	"location":      "Address",
	"city":          "City",
	"state":         "State",
	"country":       "Country",
	"country_code":  "Country code",
	"lat":           "Latitude",
	"lng":           "Longitude",
	"phone":         "Phone",
	"website":       "Website",
	"contact_name":  "Contact name",
	"contact_email": "Contact email",
	"box_id":        "Box",
	"first_name":    "First name",
	"last_name":     "Last name",
	"email":         "Email",
	"submitted_by":  "Submission channel",
}

func message(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", label, fe.Param())
	case "email":
		return "Please enter a valid email address"
	case "url":
		return label + " must be a valid URL"
	case "boxname":
		return label + " can only contain letters, numbers, spaces and basic punctuation"
	case "channel":
		return fmt.Sprintf("%s must be one of: %s, %s", label, models.ChannelTablet, models.ChannelWebform)
	case "gte", "lte":
		return label + " is out of range"
	case "paired":
		return "Latitude and longitude must be provided together"
	default:
		return label + " is invalid"
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
