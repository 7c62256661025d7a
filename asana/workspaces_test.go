package asana

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceVisibility(t *testing.T) {
	s, f := newTestService(t)

	workspaces, herr := s.ListWorkspaces(f.bob)
	require.Nil(t, herr)
	require.Len(t, workspaces, 1)
	assert.Equal(t, f.ws, workspaces[0].GID)

	_, herr = s.GetWorkspace(f.bob, f.org)
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusForbidden, herr.Code)

	_, herr = s.GetWorkspace(f.bob, "1234567890123456")
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusNotFound, herr.Code)

	everything, herr := s.ListWorkspaces("")
	require.Nil(t, herr)
	assert.Len(t, everything, 2)
}

func TestRemoveUserFromWorkspace(t *testing.T) {
	s, f := newTestService(t)
	_, herr := s.AddUserToWorkspace(f.alice, f.org, "bob@example.com")
	require.Nil(t, herr)
	_, herr = s.AddUserToTeam(f.alice, f.team, f.bob)
	require.Nil(t, herr)
	task, herr := s.CreateTask(f.alice, TaskRequest{Name: strPtr("assigned"), Workspace: f.org, Assignee: Str(f.bob)})
	require.Nil(t, herr)
	followed, herr := s.CreateTask(f.alice, TaskRequest{Name: strPtr("followed"), Workspace: f.org, Followers: []string{f.bob}})
	require.Nil(t, herr)
	project, herr := s.CreateProject(f.alice, ProjectRequest{Name: strPtr("Roadmap"), Team: f.team})
	require.Nil(t, herr)
	_, herr = s.AddMembersToProject(f.alice, project.GID, []string{f.bob})
	require.Nil(t, herr)
	_, herr = s.UpdateProject(f.alice, project.GID, ProjectRequest{Owner: Str(f.bob)})
	require.Nil(t, herr)
	personal := mustTask(t, s, f.alice, f.ws, "personal")
	_, herr = s.AddFollowersToTask(f.alice, personal.GID, []string{f.bob})
	require.Nil(t, herr)

	require.Nil(t, s.RemoveUserFromWorkspace(f.alice, f.org, f.bob))

	p, herr := s.GetProject(f.alice, project.GID)
	require.Nil(t, herr)
	assert.Empty(t, p.Owner)
	assert.NotContains(t, p.Members, f.bob)
	assert.NotContains(t, p.Followers, f.bob)

	for _, gid := range []string{task.GID, followed.GID} {
		got, herr := s.GetTask(f.alice, gid)
		require.Nil(t, herr)
		assert.NotContains(t, got.Followers, f.bob)
	}
	untouched, _ := s.GetTask(f.alice, personal.GID)
	assert.Contains(t, untouched.Followers, f.bob)

	members, herr := s.ListTeamUsers(f.alice, f.team)
	require.Nil(t, herr)
	for _, m := range members {
		assert.NotEqual(t, f.bob, m.GID)
	}
	got, _ := s.GetTask(f.alice, task.GID)
	assert.Empty(t, got.Assignee)

	herr = s.RemoveUserFromWorkspace(f.alice, f.org, f.bob)
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusBadRequest, herr.Code)
}

func TestOrganizationProjectsNeedTeam(t *testing.T) {
	s, f := newTestService(t)

	_, herr := s.CreateProject(f.alice, ProjectRequest{Name: strPtr("No team"), Workspace: f.org})
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusBadRequest, herr.Code)

	p, herr := s.CreateProject(f.alice, ProjectRequest{Name: strPtr("Team project"), Team: f.team})
	require.Nil(t, herr)
	assert.Equal(t, f.org, p.Workspace)
	assert.Equal(t, f.alice, p.Owner)
	assert.Equal(t, "none", p.Color)
	assert.Len(t, p.Sections, 1)

	listed, herr := s.ListProjects(f.alice, ProjectFilter{Team: f.team})
	require.Nil(t, herr)
	require.Len(t, listed, 1)
	assert.Equal(t, p.GID, listed[0].GID)

	_, herr = s.ListProjects(f.alice, ProjectFilter{})
	require.NotNil(t, herr)
}

func TestCreateUser(t *testing.T) {
	s, f := newTestService(t)

	tests := []struct {
		name string
		req  UserRequest
		code int
	}{
		{name: "missing name", req: UserRequest{Email: "c@example.com"}, code: http.StatusBadRequest},
		{name: "bad email", req: UserRequest{Name: "C", Email: "nope"}, code: http.StatusBadRequest},
		{name: "duplicate email", req: UserRequest{Name: "C", Email: "ALICE@example.com"}, code: http.StatusBadRequest},
		{name: "unknown workspace", req: UserRequest{Name: "C", Email: "c@example.com", Workspaces: []string{"1234567890123456"}}, code: http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, herr := s.CreateUser(tc.req)
			require.NotNil(t, herr)
			assert.Equal(t, tc.code, herr.Code)
		})
	}

	me, herr := s.GetUser(f.alice, Me)
	require.Nil(t, herr)
	assert.Equal(t, "Alice", me.Name)
}
