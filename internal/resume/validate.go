package resume

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed field rule.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// FieldErrors is a list of field rule failures.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, e.Path+": "+e.Message)
	}
	return strings.Join(parts, "; ")
}

var fieldMessages = map[string]string{
	"personalDetails.name":     "Name is required",
	"personalDetails.email":    "Invalid email address",
	"personalDetails.website":  "Invalid URL",
	"experience.company":       "Company name is required",
	"experience.role":          "Role is required",
	"education.institution":    "Institution name is required",
	"education.degree":         "Degree is required",
	"skills.category":          "Category name cannot be empty",
	"skills.name":              "Skill name cannot be empty",
	"projects.name":            "Project name is required",
	"projects.url":             "Invalid URL",
	"achievements.description": "Achievement is required",
	"customSections.title":     "Title is required",
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
	indexPattern = regexp.MustCompile(`\[\d+\]`)
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate = v
	})
	return validate
}

// Validate checks the field rules of every section. A nil result means the
// document is valid. Failures never stop a document from being stored.
func Validate(doc ResumeData) FieldErrors {
	return collect(validatorInstance().Struct(doc))
}

// ValidateDesign checks the field rules of a design record.
func ValidateDesign(design DesignState) FieldErrors {
	return collect(validatorInstance().Struct(design))
}

// ValidatePersonalDetails checks only the personal details block.
func ValidatePersonalDetails(pd PersonalDetails) FieldErrors {
	errs := collect(validatorInstance().Struct(pd))
	for i := range errs {
		errs[i].Path = "personalDetails." + errs[i].Path
		if msg, ok := fieldMessages[errs[i].Path]; ok {
			errs[i].Message = msg
		}
	}
	return errs
}

func collect(err error) FieldErrors {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{{Path: "", Message: err.Error()}}
	}
	out := make(FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		out = append(out, FieldError{Path: path, Message: messageFor(path, fe)})
	}
	return out
}

func messageFor(path string, fe validator.FieldError) string {
	segments := strings.Split(indexPattern.ReplaceAllString(path, ""), ".")
	if len(segments) >= 2 {
		key := segments[len(segments)-2] + "." + segments[len(segments)-1]
		if msg, ok := fieldMessages[key]; ok {
			return msg
		}
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email address"
	case "url":
		return "Invalid URL"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "numeric":
		return fe.Field() + " must be a number"
	default:
		return fe.Field() + " is invalid"
	}
}
