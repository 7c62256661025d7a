package api

import (
	"net/http"

	"github.com/TykTechnologies/asana-mock/asana"
)

func (a *API) HandleListTags(w http.ResponseWriter, r *http.Request) {
	a.listTags(w, r, r.URL.Query().Get("workspace"))
}

func (a *API) HandleListWorkspaceTags(w http.ResponseWriter, r *http.Request) {
	a.listTags(w, r, pathVar(r, "workspace_gid"))
}

func (a *API) listTags(w http.ResponseWriter, r *http.Request, workspace string) {
	tags, herr := a.Service.ListTags(callerFrom(r), workspace)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	writeList(a, w, r, tags, a.compactTag, a.renderTag)
}

func (a *API) HandleListTaskTags(w http.ResponseWriter, r *http.Request) {
	tags, herr := a.Service.ListTaskTags(callerFrom(r), pathVar(r, "task_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	writeList(a, w, r, tags, a.compactTag, a.renderTag)
}

func (a *API) HandleCreateTag(w http.ResponseWriter, r *http.Request) {
	a.createTag(w, r, "")
}

func (a *API) HandleCreateWorkspaceTag(w http.ResponseWriter, r *http.Request) {
	a.createTag(w, r, pathVar(r, "workspace_gid"))
}

func (a *API) createTag(w http.ResponseWriter, r *http.Request, workspace string) {
	var req asana.TagRequest
	if !a.readData(w, r, &req) {
		return
	}
	if workspace != "" {
		req.Workspace = workspace
	}
	tag, herr := a.Service.CreateTag(callerFrom(r), req)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusCreated, a.renderTag(tag))
}

func (a *API) HandleGetTag(w http.ResponseWriter, r *http.Request) {
	tag, herr := a.Service.GetTag(callerFrom(r), pathVar(r, "tag_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderTag(tag))
}

func (a *API) HandleUpdateTag(w http.ResponseWriter, r *http.Request) {
	var req asana.TagRequest
	if !a.readData(w, r, &req) {
		return
	}
	tag, herr := a.Service.UpdateTag(callerFrom(r), pathVar(r, "tag_gid"), req)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderTag(tag))
}

func (a *API) HandleDeleteTag(w http.ResponseWriter, r *http.Request) {
	if herr := a.Service.DeleteTag(callerFrom(r), pathVar(r, "tag_gid")); herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeEmpty(w, r)
}
