package asana

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteProject(t *testing.T) {
	s, f := newTestService(t)
	other, herr := s.CreateProject(f.alice, ProjectRequest{Name: strPtr("Other"), Workspace: f.ws})
	require.Nil(t, herr)
	extra, herr := s.CreateSection(f.alice, f.project, SectionRequest{Name: strPtr("Later")})
	require.Nil(t, herr)
	task, herr := s.CreateTask(f.alice, TaskRequest{
		Name:        strPtr("shared"),
		Memberships: []Membership{{Project: f.project, Section: extra.GID}},
		Projects:    []string{other.GID},
	})
	require.Nil(t, herr)
	require.Len(t, task.Memberships, 2)

	sections, herr := s.ListProjectSections(f.alice, f.project)
	require.Nil(t, herr)
	require.Len(t, sections, 2)

	require.Nil(t, s.DeleteProject(f.alice, f.project))

	for _, sec := range sections {
		_, herr := s.GetSection(f.alice, sec.GID)
		require.NotNil(t, herr)
		assert.Equal(t, http.StatusNotFound, herr.Code)
	}
	got, herr := s.GetTask(f.alice, task.GID)
	require.Nil(t, herr)
	require.Len(t, got.Memberships, 1)
	assert.Equal(t, other.GID, got.Memberships[0].Project)

	projects, herr := s.ListTaskProjects(f.alice, task.GID)
	require.Nil(t, herr)
	require.Len(t, projects, 1)
	assert.Equal(t, other.GID, projects[0].GID)
}

func TestUpdateProjectValidation(t *testing.T) {
	s, f := newTestService(t)

	tests := []struct {
		name string
		req  ProjectRequest
		code int
	}{
		{name: "unknown color", req: ProjectRequest{Color: strPtr("neon")}, code: http.StatusBadRequest},
		{name: "empty name", req: ProjectRequest{Name: strPtr(" ")}, code: http.StatusBadRequest},
		{name: "bad due_on", req: ProjectRequest{DueOn: Str("2024-13-01")}, code: http.StatusBadRequest},
		{name: "start_on without due_on", req: ProjectRequest{StartOn: Str("2024-01-10")}, code: http.StatusBadRequest},
		{name: "start_on after due_on", req: ProjectRequest{DueOn: Str("2024-01-05"), StartOn: Str("2024-01-10")}, code: http.StatusBadRequest},
		{name: "moved workspace", req: ProjectRequest{Workspace: f.org}, code: http.StatusBadRequest},
		{name: "owner outside workspace", req: ProjectRequest{Owner: Str("1234567890123456")}, code: http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, herr := s.UpdateProject(f.alice, f.project, tc.req)
			require.NotNil(t, herr)
			assert.Equal(t, tc.code, herr.Code)
		})
	}

	unchanged, herr := s.GetProject(f.alice, f.project)
	require.Nil(t, herr)
	assert.Equal(t, "none", unchanged.Color)
	assert.Empty(t, unchanged.DueOn)

	p, herr := s.UpdateProject(f.alice, f.project, ProjectRequest{
		Color:   strPtr("dark-teal"),
		DueOn:   Str("2024-02-01"),
		StartOn: Str("2024-01-15"),
		Owner:   Str(f.bob),
	})
	require.Nil(t, herr)
	assert.Equal(t, "dark-teal", p.Color)
	assert.Equal(t, "2024-01-15", p.StartOn)
	assert.Equal(t, f.bob, p.Owner)
}
