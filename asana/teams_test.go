package asana

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeam(t *testing.T) {
	s, f := newTestService(t)

	tests := []struct {
		name   string
		caller string
		req    TeamRequest
		code   int
	}{
		{name: "plain workspace", caller: f.alice, req: TeamRequest{Name: strPtr("Ops"), Organization: f.ws}, code: http.StatusBadRequest},
		{name: "missing name", caller: f.alice, req: TeamRequest{Organization: f.org}, code: http.StatusBadRequest},
		{name: "not a member", caller: f.bob, req: TeamRequest{Name: strPtr("Ops"), Organization: f.org}, code: http.StatusForbidden},
		{name: "unknown organization", caller: f.alice, req: TeamRequest{Name: strPtr("Ops"), Organization: "1234567890123456"}, code: http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, herr := s.CreateTeam(tc.caller, tc.req)
			require.NotNil(t, herr)
			assert.Equal(t, tc.code, herr.Code)
		})
	}

	team, herr := s.CreateTeam(f.alice, TeamRequest{Name: strPtr("Ops"), Organization: f.org})
	require.Nil(t, herr)
	assert.Equal(t, []string{f.alice}, team.Members)
}

func TestListTeams(t *testing.T) {
	s, f := newTestService(t)
	design, herr := s.CreateTeam(f.alice, TeamRequest{Name: strPtr("Design"), Organization: f.org})
	require.Nil(t, herr)

	teams, herr := s.ListWorkspaceTeams(f.alice, f.org)
	require.Nil(t, herr)
	assert.Equal(t, []string{f.team, design.GID}, teamGIDs(teams))

	_, herr = s.ListWorkspaceTeams(f.alice, f.ws)
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusBadRequest, herr.Code)

	_, herr = s.ListWorkspaceTeams(f.bob, f.org)
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusForbidden, herr.Code)

	mine, herr := s.ListUserTeams(f.alice, Me, f.org)
	require.Nil(t, herr)
	assert.Len(t, mine, 2)

	_, herr = s.ListUserTeams(f.alice, f.alice, "")
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusBadRequest, herr.Code)
}

func TestRemoveUserFromTeam(t *testing.T) {
	s, f := newTestService(t)
	_, herr := s.AddUserToWorkspace(f.alice, f.org, f.bob)
	require.Nil(t, herr)
	_, herr = s.AddUserToTeam(f.alice, f.team, f.bob)
	require.Nil(t, herr)

	bobs, herr := s.ListUserTeams(f.alice, f.bob, f.org)
	require.Nil(t, herr)
	assert.Equal(t, []string{f.team}, teamGIDs(bobs))

	require.Nil(t, s.RemoveUserFromTeam(f.alice, f.team, f.bob))

	bobs, herr = s.ListUserTeams(f.alice, f.bob, f.org)
	require.Nil(t, herr)
	assert.Empty(t, bobs)
	users, herr := s.ListTeamUsers(f.alice, f.team)
	require.Nil(t, herr)
	require.Len(t, users, 1)
	assert.Equal(t, f.alice, users[0].GID)

	herr = s.RemoveUserFromTeam(f.alice, f.team, f.bob)
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusBadRequest, herr.Code)
}

func teamGIDs(teams []Team) []string {
	out := make([]string, 0, len(teams))
	for _, t := range teams {
		out = append(out, t.GID)
	}
	return out
}
