package api

import (
	"net/http"

	"github.com/TykTechnologies/asana-mock/asana"
)

func (a *API) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req asana.TeamRequest
	if !a.readData(w, r, &req) {
		return
	}
	team, herr := a.Service.CreateTeam(callerFrom(r), req)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusCreated, a.renderTeam(team))
}

func (a *API) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	team, herr := a.Service.GetTeam(callerFrom(r), pathVar(r, "team_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderTeam(team))
}

func (a *API) HandleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	var req asana.TeamRequest
	if !a.readData(w, r, &req) {
		return
	}
	team, herr := a.Service.UpdateTeam(callerFrom(r), pathVar(r, "team_gid"), req)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderTeam(team))
}

func (a *API) HandleListWorkspaceTeams(w http.ResponseWriter, r *http.Request) {
	teams, herr := a.Service.ListWorkspaceTeams(callerFrom(r), pathVar(r, "workspace_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	writeList(a, w, r, teams, a.compactTeam, a.renderTeam)
}

func (a *API) HandleListTeamUsers(w http.ResponseWriter, r *http.Request) {
	users, herr := a.Service.ListTeamUsers(callerFrom(r), pathVar(r, "team_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	writeList(a, w, r, users, a.compactUser, a.renderUser)
}

func (a *API) HandleAddUserToTeam(w http.ResponseWriter, r *http.Request) {
	var req userRef
	if !a.readData(w, r, &req) {
		return
	}
	user, herr := a.Service.AddUserToTeam(callerFrom(r), pathVar(r, "team_gid"), req.User)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, resource{
		"gid":           user.GID,
		"resource_type": "team_membership",
		"user":          a.compactUser(user),
		"team":          a.ref(asana.KindTeam, pathVar(r, "team_gid")),
	})
}

func (a *API) HandleRemoveUserFromTeam(w http.ResponseWriter, r *http.Request) {
	var req userRef
	if !a.readData(w, r, &req) {
		return
	}
	if herr := a.Service.RemoveUserFromTeam(callerFrom(r), pathVar(r, "team_gid"), req.User); herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeEmpty(w, r)
}
