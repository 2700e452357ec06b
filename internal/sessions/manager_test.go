package sessions

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/documents"
	"resume-builder/internal/persist"
	"resume-builder/internal/resume"
	"resume-builder/internal/suggest"
)

type gatedDocs struct {
	*documents.Service
	gate chan struct{}
}

func (g *gatedDocs) LoadResume(ctx context.Context, userID string) (resume.ResumeData, error) {
	<-g.gate
	return g.Service.LoadResume(ctx, userID)
}

func newService() (*documents.Service, *documents.MemoryRepo) {
	repo := documents.NewMemoryRepo()
	return &documents.Service{Repo: repo}, repo
}

func acquireReady(t *testing.T, m *Manager, userID string) *Session {
	t.Helper()
	s, err := m.Acquire(userID)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.WaitReady(ctx))
	return s
}

func TestAcquireReusesSession(t *testing.T) {
	docs, _ := newService()
	m := NewManager(docs, Options{})
	t.Cleanup(m.Close)

	s := acquireReady(t, m, "u1")
	again, err := m.Acquire("u1")
	require.NoError(t, err)
	assert.Same(t, s, again)
	assert.Equal(t, 1, m.Len())

	_, err = m.Acquire("")
	assert.Error(t, err)
}

func TestEditsArePersisted(t *testing.T) {
	docs, _ := newService()
	m := NewManager(docs, Options{})
	t.Cleanup(m.Close)

	s := acquireReady(t, m, "u1")
	require.NoError(t, s.SetPersonalDetails(resume.PersonalDetails{Name: "Ada", Email: "ada@example.com"}))
	require.NoError(t, s.SetDesign(resume.DesignState{Template: resume.TemplateClassic, PrimaryColor: "#000000", FontSize: "11", FontFamily: "Inter"}))

	doc, err := docs.LoadResume(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", doc.PersonalDetails.Name)
	design, err := docs.LoadDesign(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, resume.TemplateClassic, design.Template)
}

func TestSessionResumesStoredDocument(t *testing.T) {
	docs, _ := newService()
	stored := resume.DefaultResume()
	stored.PersonalDetails.Name = "Grace"
	require.NoError(t, docs.SaveResume(context.Background(), "u1", stored))

	m := NewManager(docs, Options{})
	t.Cleanup(m.Close)
	s := acquireReady(t, m, "u1")
	assert.Equal(t, "Grace", s.View().Resume.PersonalDetails.Name)
}

func TestReleaseForgetsSession(t *testing.T) {
	docs, _ := newService()
	m := NewManager(docs, Options{Delay: time.Hour})
	t.Cleanup(m.Close)

	s := acquireReady(t, m, "u1")
	require.NoError(t, s.SetPersonalDetails(resume.PersonalDetails{Name: "Unsaved"}))

	require.NoError(t, m.Release("u1"))
	_, ok := m.Get("u1")
	assert.False(t, ok)
	assert.ErrorIs(t, m.Release("u1"), ErrNoSession)
	assert.False(t, s.View().Ready)

	doc, err := docs.LoadResume(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, doc.PersonalDetails.Name)
}

func TestFixedIdentityRefusesSignOut(t *testing.T) {
	docs, _ := newService()
	m := NewManager(docs, Options{FixedIdentity: true})
	t.Cleanup(m.Close)

	acquireReady(t, m, "local")
	assert.ErrorIs(t, m.Release("local"), ErrFixedIdentity)
	_, ok := m.Get("local")
	assert.True(t, ok)
}

func TestEditBeforeReadyIsRefused(t *testing.T) {
	svc, _ := newService()
	docs := &gatedDocs{Service: svc, gate: make(chan struct{})}
	m := NewManager(docs, Options{})
	t.Cleanup(m.Close)

	s, err := m.Acquire("u1")
	require.NoError(t, err)
	assert.ErrorIs(t, s.SetPersonalDetails(resume.PersonalDetails{Name: "early"}), ErrNotReady)
	_, err = s.Suggest(context.Background(), &suggest.Service{Client: suggest.PlaceholderClient{}}, "PM")
	assert.ErrorIs(t, err, ErrNotReady)

	close(docs.gate)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.WaitReady(ctx))
	assert.NoError(t, s.SetPersonalDetails(resume.PersonalDetails{Name: "late"}))
}

func TestReplaceSection(t *testing.T) {
	docs, _ := newService()
	m := NewManager(docs, Options{})
	t.Cleanup(m.Close)
	s := acquireReady(t, m, "u1")

	raw := json.RawMessage(`[{"company":"Acme","role":"Dev"},{"id":"x","company":"Beta","role":"Lead"}]`)
	require.NoError(t, s.ReplaceSection(resume.SectionExperience, raw))
	exp := s.View().Resume.Experience
	require.Len(t, exp, 2)
	assert.NotEmpty(t, exp[0].ID)
	assert.Equal(t, "x", exp[1].ID)

	require.NoError(t, s.ReplaceSection(resume.SectionSkills, json.RawMessage(`[{"category":"Go"}]`)))
	assert.NotNil(t, s.View().Resume.Skills[0].Skills)

	require.NoError(t, s.ReplaceSection(resume.SectionProjects, json.RawMessage(`null`)))
	assert.NotNil(t, s.View().Resume.Projects)

	assert.ErrorIs(t, s.ReplaceSection("hobbies", json.RawMessage(`[]`)), ErrUnknownSection)
	assert.ErrorIs(t, s.ReplaceSection(resume.SectionEducation, json.RawMessage(`{`)), ErrInvalidInput)
}

func TestApplySuggestion(t *testing.T) {
	docs, _ := newService()
	m := NewManager(docs, Options{})
	t.Cleanup(m.Close)
	s := acquireReady(t, m, "u1")

	require.NoError(t, s.ReplaceSection(resume.SectionExperience, json.RawMessage(`[{"id":"e1","company":"Acme","role":"Dev"}]`)))
	require.NoError(t, s.ApplySuggestion("Experience e1", "• Shipped"))
	assert.Equal(t, "• Shipped", s.View().Resume.Experience[0].Description)
	assert.ErrorIs(t, s.ApplySuggestion("Experience e9", "x"), suggest.ErrNotFound)
}

func TestInboxDropsOldest(t *testing.T) {
	in := NewInbox(2)
	in.Notify(persist.Notice{Title: "a"})
	in.Notify(persist.Notice{Title: "b"})
	in.Notify(persist.Notice{Title: "c"})

	got := in.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Title)
	assert.Equal(t, "c", got[1].Title)
	assert.Empty(t, in.Drain())
}

func TestViewListsSectionsAndBullets(t *testing.T) {
	docs, _ := newService()
	m := NewManager(docs, Options{})
	t.Cleanup(m.Close)
	s := acquireReady(t, m, "u1")

	cs, err := s.Layout().AddCustomSection("Volunteering", "• Mentor\n• Organizer")
	require.NoError(t, err)
	require.NoError(t, s.ReplaceSection(resume.SectionExperience, json.RawMessage(`[{"id":"e1","company":"Acme","role":"Dev","description":"• Built APIs"}]`)))

	v := s.View()
	require.Len(t, v.Sections, 6)
	assert.Equal(t, SectionView{ID: resume.SectionExperience, Label: "Work Experience"}, v.Sections[0])
	assert.Equal(t, SectionView{ID: cs.ID, Label: "Volunteering", Custom: true}, v.Sections[5])
	assert.Equal(t, []string{"Built APIs"}, v.Bullets["e1"])
	assert.Equal(t, []string{"Mentor", "Organizer"}, v.Bullets[cs.ID])

	snap := s.store.Snapshot()
	assert.True(t, v.Ready)
	assert.Equal(t, "ready", v.Status)
	assert.Equal(t, snap.Version, v.Version)
	assert.Equal(t, snap.Resume, v.Resume)
}
