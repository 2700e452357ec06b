package resume

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLegacyDocument(t *testing.T) {
	raw := []byte(`{"personalDetails":{"name":"Ada","email":"ada@example.com"},"experience":[{"id":"e1","company":"Acme","role":"Dev"}]}`)
	doc, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Ada", doc.PersonalDetails.Name)
	assert.Equal(t, BuiltinSections(), doc.SectionOrder)
	assert.NotNil(t, doc.CustomSections)
}

func TestParseRejectsWrongShape(t *testing.T) {
	raw := []byte(`{"experience":[{"id":"e1","company":42}],"sectionOrder":"skills"}`)
	_, err := Parse(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidShape)

	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	paths := []string{}
	for _, e := range shapeErr.Errors {
		paths = append(paths, e.Path)
	}
	assert.Contains(t, paths, "experience[0].company")
	assert.Contains(t, paths, "sectionOrder")
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestParseDesignFillsDefaults(t *testing.T) {
	d, err := ParseDesign([]byte(`{"template":"classic"}`))
	require.NoError(t, err)
	assert.Equal(t, TemplateClassic, d.Template)
	assert.Equal(t, DefaultFontFamily, d.FontFamily)

	_, err = ParseDesign([]byte(`{"fontSize":12}`))
	assert.ErrorIs(t, err, ErrInvalidShape)
}
