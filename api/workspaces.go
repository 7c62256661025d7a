package api

import (
	"net/http"

	"github.com/TykTechnologies/asana-mock/asana"
)

type userRef struct {
	User string `json:"user"`
}

func (a *API) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, herr := a.Service.ListUsers(callerFrom(r), r.URL.Query().Get("workspace"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	writeList(a, w, r, users, a.compactUser, a.renderUser)
}

func (a *API) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req asana.UserRequest
	if !a.readData(w, r, &req) {
		return
	}
	user, herr := a.Service.CreateUser(req)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusCreated, a.renderUser(user))
}

func (a *API) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	user, herr := a.Service.GetUser(callerFrom(r), pathVar(r, "user_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderUser(user))
}

func (a *API) HandleListUserTeams(w http.ResponseWriter, r *http.Request) {
	teams, herr := a.Service.ListUserTeams(callerFrom(r), pathVar(r, "user_gid"), r.URL.Query().Get("organization"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	writeList(a, w, r, teams, a.compactTeam, a.renderTeam)
}

func (a *API) HandleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	workspaces, herr := a.Service.ListWorkspaces(callerFrom(r))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	writeList(a, w, r, workspaces, a.compactWorkspace, a.renderWorkspace)
}

func (a *API) HandleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req asana.WorkspaceRequest
	if !a.readData(w, r, &req) {
		return
	}
	ws, herr := a.Service.CreateWorkspace(callerFrom(r), req)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusCreated, a.renderWorkspace(ws))
}

func (a *API) HandleGetWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, herr := a.Service.GetWorkspace(callerFrom(r), pathVar(r, "workspace_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderWorkspace(ws))
}

func (a *API) HandleUpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req asana.WorkspaceRequest
	if !a.readData(w, r, &req) {
		return
	}
	ws, herr := a.Service.UpdateWorkspace(callerFrom(r), pathVar(r, "workspace_gid"), req)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderWorkspace(ws))
}

func (a *API) HandleAddUserToWorkspace(w http.ResponseWriter, r *http.Request) {
	var req userRef
	if !a.readData(w, r, &req) {
		return
	}
	user, herr := a.Service.AddUserToWorkspace(callerFrom(r), pathVar(r, "workspace_gid"), req.User)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.compactUser(user))
}

func (a *API) HandleRemoveUserFromWorkspace(w http.ResponseWriter, r *http.Request) {
	var req userRef
	if !a.readData(w, r, &req) {
		return
	}
	if herr := a.Service.RemoveUserFromWorkspace(callerFrom(r), pathVar(r, "workspace_gid"), req.User); herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeEmpty(w, r)
}

func (a *API) HandleListWorkspaceUsers(w http.ResponseWriter, r *http.Request) {
	users, herr := a.Service.ListWorkspaceUsers(callerFrom(r), pathVar(r, "workspace_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	writeList(a, w, r, users, a.compactUser, a.renderUser)
}
