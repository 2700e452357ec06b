package resume

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/*.json
var schemaFiles embed.FS

// ShapeError lists the places where a raw document does not match the
// expected structure.
type ShapeError struct {
	Errors FieldErrors
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidShape, e.Errors.Error())
}

func (e *ShapeError) Unwrap() error { return ErrInvalidShape }

var (
	schemasOnce  sync.Once
	resumeSchema *gojsonschema.Schema
	designSchema *gojsonschema.Schema
	schemasErr   error
)

func loadSchemas() error {
	schemasOnce.Do(func() {
		resumeSchema, schemasErr = compileSchema("schema/resume.schema.json")
		if schemasErr != nil {
			return
		}
		designSchema, schemasErr = compileSchema("schema/design.schema.json")
	})
	return schemasErr
}

func compileSchema(name string) (*gojsonschema.Schema, error) {
	raw, err := schemaFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return schema, nil
}

// Parse checks a raw JSON resume against the document schema and decodes it.
// Ids are repaired and the result normalized, so it always passes
// CheckIntegrity. Field rules are not applied.
func Parse(raw []byte) (ResumeData, error) {
	if err := loadSchemas(); err != nil {
		return ResumeData{}, err
	}
	if err := checkShape(resumeSchema, raw); err != nil {
		return ResumeData{}, err
	}
	var doc ResumeData
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ResumeData{}, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	RepairIDs(&doc)
	Normalize(&doc)
	return doc, nil
}

// ParseDesign checks a raw JSON design record and decodes it. Missing
// values take their defaults.
func ParseDesign(raw []byte) (DesignState, error) {
	if err := loadSchemas(); err != nil {
		return DesignState{}, err
	}
	if err := checkShape(designSchema, raw); err != nil {
		return DesignState{}, err
	}
	design := DefaultDesign()
	if err := json.Unmarshal(raw, &design); err != nil {
		return DesignState{}, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	return design, nil
}

func checkShape(schema *gojsonschema.Schema, raw []byte) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	if res.Valid() {
		return nil
	}
	errs := make(FieldErrors, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		errs = append(errs, FieldError{Path: schemaPath(e.Field()), Message: e.Description()})
	}
	return &ShapeError{Errors: errs}
}

// schemaPath turns "experience.0.company" into "experience[0].company".
func schemaPath(field string) string {
	if field == "(root)" {
		return ""
	}
	parts := strings.Split(field, ".")
	var b strings.Builder
	for i, p := range parts {
		if isIndex(p) {
			b.WriteString("[" + p + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
