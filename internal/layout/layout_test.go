package layout

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/editor"
	"resume-builder/internal/resume"
)

func newManager(t *testing.T) (*Manager, *editor.Store) {
	t.Helper()
	store := editor.NewStore()
	store.Loaded(resume.DefaultResume(), resume.DefaultDesign())
	return &Manager{Store: store}, store
}

func TestAddThenRemoveRestoresDocument(t *testing.T) {
	m, store := newManager(t)
	original := store.Resume()

	section, err := m.AddCustomSection("Certifications", "")
	require.NoError(t, err)
	doc := store.Resume()
	assert.Equal(t, []resume.CustomSection{section}, doc.CustomSections)
	assert.Equal(t, section.ID, doc.SectionOrder[len(doc.SectionOrder)-1])

	require.NoError(t, m.RemoveCustomSection(section.ID))
	assert.Equal(t, original, store.Resume())
}

func TestAddDefaultsTitle(t *testing.T) {
	m, _ := newManager(t)
	section, err := m.AddCustomSection("  ", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultSectionTitle, section.Title)
}

func TestUpdateCustomSection(t *testing.T) {
	m, store := newManager(t)
	section, err := m.AddCustomSection("Certs", "")
	require.NoError(t, err)

	require.NoError(t, m.UpdateCustomSection(section.ID, "Certifications", "• CKA"))
	got := store.Resume().CustomSections[0]
	assert.Equal(t, "Certifications", got.Title)
	assert.Equal(t, "• CKA", got.Description)

	assert.ErrorIs(t, m.UpdateCustomSection("ghost", "x", ""), ErrNotFound)
}

func TestRemoveUnknownSection(t *testing.T) {
	m, store := newManager(t)
	version := store.Version()
	assert.ErrorIs(t, m.RemoveCustomSection("ghost"), ErrNotFound)
	assert.Equal(t, version, store.Version())
}

func TestMoveSectionAtEdgeIsNoOp(t *testing.T) {
	m, store := newManager(t)
	require.NoError(t, m.MoveSection(resume.SectionEducation, Up))
	assert.Equal(t, []string{"education", "experience", "skills", "projects", "achievements"}, store.Resume().SectionOrder)

	before := store.Resume().SectionOrder
	version := store.Version()
	require.NoError(t, m.MoveSection(resume.SectionEducation, Up))
	assert.Equal(t, before, store.Resume().SectionOrder)
	assert.Equal(t, version, store.Version())

	require.NoError(t, m.MoveSection(resume.SectionAchievements, Down))
	assert.Equal(t, version, store.Version())
}

func TestMoveSectionErrors(t *testing.T) {
	m, _ := newManager(t)
	assert.ErrorIs(t, m.MoveSection("ghost", Down), ErrNotFound)
	assert.ErrorIs(t, m.MoveSection(resume.SectionSkills, Direction("sideways")), ErrInvalidInput)
}

func TestReorderSection(t *testing.T) {
	cases := []struct {
		name   string
		id     string
		target string
		want   []string
	}{
		{"down", "experience", "skills", []string{"education", "skills", "experience", "projects", "achievements"}},
		{"up", "achievements", "education", []string{"experience", "achievements", "education", "skills", "projects"}},
		{"to first", "projects", "experience", []string{"projects", "experience", "education", "skills", "achievements"}},
		{"onto itself", "skills", "skills", []string{"experience", "education", "skills", "projects", "achievements"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, store := newManager(t)
			require.NoError(t, m.ReorderSection(tc.id, tc.target))
			assert.Equal(t, tc.want, store.Resume().SectionOrder)
		})
	}

	m, _ := newManager(t)
	assert.ErrorIs(t, m.ReorderSection("experience", "ghost"), ErrNotFound)
}

func TestOrderStaysAPermutation(t *testing.T) {
	m, store := newManager(t)
	rng := rand.New(rand.NewSource(7))
	var customs []string

	for step := 0; step < 300; step++ {
		order := store.Resume().SectionOrder
		pick := func() string { return order[rng.Intn(len(order))] }
		switch rng.Intn(5) {
		case 0:
			cs, err := m.AddCustomSection("s", "")
			require.NoError(t, err)
			customs = append(customs, cs.ID)
		case 1:
			if len(customs) > 0 {
				i := rng.Intn(len(customs))
				require.NoError(t, m.RemoveCustomSection(customs[i]))
				customs = slices.Delete(customs, i, i+1)
			}
		case 2:
			require.NoError(t, m.MoveSection(pick(), Up))
		case 3:
			require.NoError(t, m.MoveSection(pick(), Down))
		case 4:
			require.NoError(t, m.ReorderSection(pick(), pick()))
		}

		doc := store.Resume()
		require.NoError(t, resume.CheckIntegrity(doc))
		want := append(resume.BuiltinSections(), customs...)
		assert.ElementsMatch(t, want, doc.SectionOrder, "step %d", step)
	}
}

type failingUpdater struct{}

func (failingUpdater) UpdateResume(func(*resume.ResumeData)) error {
	return editor.ErrRejected
}

func TestStoreErrorsPropagate(t *testing.T) {
	m := &Manager{Store: failingUpdater{}}
	_, err := m.AddCustomSection("x", "")
	assert.True(t, errors.Is(err, editor.ErrRejected))
}

func TestLabel(t *testing.T) {
	doc := resume.DefaultResume()
	doc.CustomSections = []resume.CustomSection{{ID: "c1", Title: "Talks"}, {ID: "c2"}}
	assert.Equal(t, "Work Experience", Label(doc, resume.SectionExperience))
	assert.Equal(t, "Achievements", Label(doc, resume.SectionAchievements))
	assert.Equal(t, "Talks", Label(doc, "c1"))
	assert.Equal(t, "Custom Section", Label(doc, "c2"))
	assert.Equal(t, "Custom Section", Label(doc, "ghost"))
}
