package usecase

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// One tagged schema per entity, shared by the create and update paths.
// Create validates the whole struct; update validates only the fields the
// request body actually carried (StructPartial), so partial-update semantics
// and validation rules stay in one place.

var validate = newValidator()

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func newValidator() *validator.Validate {
	v := validator.New()

	// report errors by json field name, not Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	return v
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type CollegeInput struct {
	Name           string  `json:"name" validate:"required,min=2,max=200"`
	Slug           string  `json:"slug" validate:"omitempty,slug"`
	City           string  `json:"city" validate:"required,max=100"`
	Country        string  `json:"country" validate:"required,max=100"`
	Website        string  `json:"website" validate:"omitempty,url"`
	Ranking        int     `json:"ranking" validate:"omitempty,min=1"`
	AcceptanceRate float64 `json:"acceptance_rate" validate:"omitempty,min=0,max=100"`
	Description    string  `json:"description" validate:"omitempty,max=5000"`
	IsSample       bool    `json:"is_sample"`
}

type CourseInput struct {
	CollegeID      string  `json:"college_id" validate:"required"`
	Name           string  `json:"name" validate:"required,min=2,max=200"`
	Slug           string  `json:"slug" validate:"omitempty,slug"`
	DegreeType     string  `json:"degree_type" validate:"omitempty,max=50"`
	DurationMonths int     `json:"duration_months" validate:"omitempty,min=1,max=120"`
	TuitionFees    float64 `json:"tuition_fees" validate:"omitempty,min=0"`
	Seats          int     `json:"seats" validate:"omitempty,min=0"`
	Status         string  `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE DRAFT"`
	IsSample       bool    `json:"is_sample"`
}

type SpecializationInput struct {
	CourseID      string   `json:"course_id" validate:"required"`
	Name          string   `json:"name" validate:"required,min=2,max=200"`
	Slug          string   `json:"slug" validate:"omitempty,slug"`
	Description   string   `json:"description" validate:"omitempty,max=5000"`
	PlacementRate float64  `json:"placement_rate" validate:"omitempty,min=0,max=100"`
	AvgPackage    float64  `json:"avg_package" validate:"omitempty,min=0"`
	Recruiters    []string `json:"recruiters" validate:"omitempty,dive,max=200"`
	IsSample      bool     `json:"is_sample"`
}

type LeadInput struct {
	Name             string `json:"name" validate:"omitempty,max=200"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"omitempty,min=7,max=20"`
	CountryInterest  string `json:"country_interest" validate:"omitempty,max=100"`
	Message          string `json:"message" validate:"omitempty,max=5000"`
	CollegeID        string `json:"college_id" validate:"omitempty"`
	CourseID         string `json:"course_id" validate:"omitempty"`
	SpecializationID string `json:"specialization_id" validate:"omitempty"`
	Status           string `json:"status" validate:"omitempty,oneof=NEW CONTACTED QUALIFIED CONVERTED LOST"`
	Priority         string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Source           string `json:"source" validate:"omitempty,max=50"`
}

type SettingInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Value string `json:"value"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate runs the full schema (create path).
func Validate(s any) []ValidationError {
	return collect(validate.Struct(s))
}

// ValidatePartial runs only the rules for the json keys present in the
// request body (update path).
func ValidatePartial(s any, jsonKeys []string) []ValidationError {
	byJSON := fieldNamesByJSON(s)
	var fields []string
	for _, k := range jsonKeys {
		if name, ok := byJSON[k]; ok {
			fields = append(fields, name)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return collect(validate.StructPartial(s, fields...))
}

func collect(err error) []ValidationError {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Field: "body", Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "slug":
		return "must contain only lowercase letters, digits and hyphens"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// fieldNamesByJSON maps json keys to Go field names for StructPartial.
func fieldNamesByJSON(s any) map[string]string {
	t := reflect.TypeOf(s)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name != "" && name != "-" {
			out[name] = f.Name
		}
	}
	return out
}

// UpdateFields intersects a raw request body with an entity's allowed
// columns. Fields explicitly present are applied even when falsy (false, 0,
// ""); absent fields are left untouched.
func UpdateFields(raw map[string]any, allowed map[string]bool) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if allowed[k] {
			out[k] = v
		}
	}
	return out
}

// Updatable columns per entity. id and created_at are never client-writable.
var (
	CollegeColumns = map[string]bool{
		"name": true, "slug": true, "city": true, "country": true,
		"website": true, "ranking": true, "acceptance_rate": true,
		"description": true, "is_sample": true,
	}
	CourseColumns = map[string]bool{
		"college_id": true, "name": true, "slug": true, "degree_type": true,
		"duration_months": true, "tuition_fees": true, "seats": true,
		"status": true, "is_sample": true,
	}
	SpecializationColumns = map[string]bool{
		"course_id": true, "name": true, "slug": true, "description": true,
		"placement_rate": true, "avg_package": true, "recruiters": true,
		"is_sample": true,
	}
	LeadColumns = map[string]bool{
		"name": true, "email": true, "phone": true, "country_interest": true,
		"message": true, "college_id": true, "course_id": true,
		"specialization_id": true, "status": true, "priority": true,
		"source": true,
	}
)
