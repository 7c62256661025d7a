package api

import (
	"net/http"

	"github.com/TykTechnologies/asana-mock/asana"
)

type membersRequest struct {
	Members gidList `json:"members"`
}

func (a *API) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a.listProjects(w, r, asana.ProjectFilter{Workspace: q.Get("workspace"), Team: q.Get("team")})
}

func (a *API) HandleListWorkspaceProjects(w http.ResponseWriter, r *http.Request) {
	a.listProjects(w, r, asana.ProjectFilter{Workspace: pathVar(r, "workspace_gid")})
}

func (a *API) HandleListTeamProjects(w http.ResponseWriter, r *http.Request) {
	a.listProjects(w, r, asana.ProjectFilter{Team: pathVar(r, "team_gid")})
}

func (a *API) listProjects(w http.ResponseWriter, r *http.Request, f asana.ProjectFilter) {
	archived, err := boolParam(r, "archived")
	if err != nil {
		a.badRequest(w, r, err.Error(), err)
		return
	}
	f.Archived = archived
	projects, herr := a.Service.ListProjects(callerFrom(r), f)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	writeList(a, w, r, projects, a.compactProject, a.renderProject)
}

func (a *API) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	a.createProject(w, r, func(*asana.ProjectRequest) {})
}

func (a *API) HandleCreateWorkspaceProject(w http.ResponseWriter, r *http.Request) {
	a.createProject(w, r, func(req *asana.ProjectRequest) { req.Workspace = pathVar(r, "workspace_gid") })
}

func (a *API) HandleCreateTeamProject(w http.ResponseWriter, r *http.Request) {
	a.createProject(w, r, func(req *asana.ProjectRequest) { req.Team = pathVar(r, "team_gid") })
}

func (a *API) createProject(w http.ResponseWriter, r *http.Request, scope func(*asana.ProjectRequest)) {
	var req asana.ProjectRequest
	if !a.readData(w, r, &req) {
		return
	}
	scope(&req)
	project, herr := a.Service.CreateProject(callerFrom(r), req)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusCreated, a.renderProject(project))
}

func (a *API) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	project, herr := a.Service.GetProject(callerFrom(r), pathVar(r, "project_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderProject(project))
}

func (a *API) HandleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req asana.ProjectRequest
	if !a.readData(w, r, &req) {
		return
	}
	project, herr := a.Service.UpdateProject(callerFrom(r), pathVar(r, "project_gid"), req)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderProject(project))
}

func (a *API) HandleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if herr := a.Service.DeleteProject(callerFrom(r), pathVar(r, "project_gid")); herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeEmpty(w, r)
}

func (a *API) HandleAddMembersToProject(w http.ResponseWriter, r *http.Request) {
	var req membersRequest
	if !a.readData(w, r, &req) {
		return
	}
	project, herr := a.Service.AddMembersToProject(callerFrom(r), pathVar(r, "project_gid"), req.Members)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderProject(project))
}

func (a *API) HandleRemoveMembersFromProject(w http.ResponseWriter, r *http.Request) {
	var req membersRequest
	if !a.readData(w, r, &req) {
		return
	}
	project, herr := a.Service.RemoveMembersFromProject(callerFrom(r), pathVar(r, "project_gid"), req.Members)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderProject(project))
}

func (a *API) HandleListTaskProjects(w http.ResponseWriter, r *http.Request) {
	projects, herr := a.Service.ListTaskProjects(callerFrom(r), pathVar(r, "task_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	writeList(a, w, r, projects, a.compactProject, a.renderProject)
}
