package api

import (
	"net/http"

	"github.com/TykTechnologies/asana-mock/asana"
)

type parentRequest struct {
	Parent asana.NullString `json:"parent"`
}

type dependenciesRequest struct {
	Dependencies gidList `json:"dependencies"`
}

type dependentsRequest struct {
	Dependents gidList `json:"dependents"`
}

type followersRequest struct {
	Followers gidList `json:"followers"`
}

type projectRef struct {
	Project string `json:"project"`
}

type tagRef struct {
	Tag string `json:"tag"`
}

func (a *API) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a.listTasks(w, r, asana.TaskFilter{
		Project:   q.Get("project"),
		Section:   q.Get("section"),
		Tag:       q.Get("tag"),
		Assignee:  q.Get("assignee"),
		Workspace: q.Get("workspace"),
	})
}

func (a *API) HandleListProjectTasks(w http.ResponseWriter, r *http.Request) {
	a.listTasks(w, r, asana.TaskFilter{Project: pathVar(r, "project_gid")})
}

func (a *API) HandleListSectionTasks(w http.ResponseWriter, r *http.Request) {
	a.listTasks(w, r, asana.TaskFilter{Section: pathVar(r, "section_gid")})
}

func (a *API) HandleListTagTasks(w http.ResponseWriter, r *http.Request) {
	a.listTasks(w, r, asana.TaskFilter{Tag: pathVar(r, "tag_gid")})
}

func (a *API) listTasks(w http.ResponseWriter, r *http.Request, f asana.TaskFilter) {
	now := a.Service.Now()
	var err error
	if f.CompletedSince, err = timeParam(r, "completed_since", now); err != nil {
		a.badRequest(w, r, err.Error(), err)
		return
	}
	if f.ModifiedSince, err = timeParam(r, "modified_since", now); err != nil {
		a.badRequest(w, r, err.Error(), err)
		return
	}
	tasks, herr := a.Service.ListTasks(callerFrom(r), f)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	writeList(a, w, r, tasks, a.compactTask, a.renderTask)
}

func (a *API) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req asana.TaskRequest
	if !a.readData(w, r, &req) {
		return
	}
	task, herr := a.Service.CreateTask(callerFrom(r), req)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusCreated, a.renderTask(task))
}

func (a *API) HandleGetTask(w http.ResponseWriter, r *http.Request) {
	task, herr := a.Service.GetTask(callerFrom(r), pathVar(r, "task_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderTask(task))
}

func (a *API) HandleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req asana.TaskRequest
	if !a.readData(w, r, &req) {
		return
	}
	task, herr := a.Service.UpdateTask(callerFrom(r), pathVar(r, "task_gid"), req)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderTask(task))
}

func (a *API) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if herr := a.Service.DeleteTask(callerFrom(r), pathVar(r, "task_gid")); herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeEmpty(w, r)
}

func (a *API) HandleListSubtasks(w http.ResponseWriter, r *http.Request) {
	tasks, herr := a.Service.ListSubtasks(callerFrom(r), pathVar(r, "task_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	writeList(a, w, r, tasks, a.compactTask, a.renderTask)
}

func (a *API) HandleCreateSubtask(w http.ResponseWriter, r *http.Request) {
	var req asana.TaskRequest
	if !a.readData(w, r, &req) {
		return
	}
	task, herr := a.Service.CreateSubtask(callerFrom(r), pathVar(r, "task_gid"), req)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusCreated, a.renderTask(task))
}

func (a *API) HandleSetParent(w http.ResponseWriter, r *http.Request) {
	var req parentRequest
	if !a.readData(w, r, &req) {
		return
	}
	task, herr := a.Service.SetParent(callerFrom(r), pathVar(r, "task_gid"), req.Parent)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderTask(task))
}

func (a *API) HandleListDependencies(w http.ResponseWriter, r *http.Request) {
	tasks, herr := a.Service.ListDependencies(callerFrom(r), pathVar(r, "task_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	writeList(a, w, r, tasks, a.compactTask, a.renderTask)
}

func (a *API) HandleListDependents(w http.ResponseWriter, r *http.Request) {
	tasks, herr := a.Service.ListDependents(callerFrom(r), pathVar(r, "task_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	writeList(a, w, r, tasks, a.compactTask, a.renderTask)
}

func (a *API) HandleAddDependencies(w http.ResponseWriter, r *http.Request) {
	var req dependenciesRequest
	if !a.readData(w, r, &req) {
		return
	}
	a.writeResult(w, r, a.Service.AddDependencies(callerFrom(r), pathVar(r, "task_gid"), req.Dependencies))
}

func (a *API) HandleRemoveDependencies(w http.ResponseWriter, r *http.Request) {
	var req dependenciesRequest
	if !a.readData(w, r, &req) {
		return
	}
	a.writeResult(w, r, a.Service.RemoveDependencies(callerFrom(r), pathVar(r, "task_gid"), req.Dependencies))
}

func (a *API) HandleAddDependents(w http.ResponseWriter, r *http.Request) {
	var req dependentsRequest
	if !a.readData(w, r, &req) {
		return
	}
	a.writeResult(w, r, a.Service.AddDependents(callerFrom(r), pathVar(r, "task_gid"), req.Dependents))
}

func (a *API) HandleRemoveDependents(w http.ResponseWriter, r *http.Request) {
	var req dependentsRequest
	if !a.readData(w, r, &req) {
		return
	}
	a.writeResult(w, r, a.Service.RemoveDependents(callerFrom(r), pathVar(r, "task_gid"), req.Dependents))
}

func (a *API) HandleAddProjectToTask(w http.ResponseWriter, r *http.Request) {
	var req asana.ProjectPlacement
	if !a.readData(w, r, &req) {
		return
	}
	a.writeResult(w, r, a.Service.AddProjectToTask(callerFrom(r), pathVar(r, "task_gid"), req))
}

func (a *API) HandleRemoveProjectFromTask(w http.ResponseWriter, r *http.Request) {
	var req projectRef
	if !a.readData(w, r, &req) {
		return
	}
	a.writeResult(w, r, a.Service.RemoveProjectFromTask(callerFrom(r), pathVar(r, "task_gid"), req.Project))
}

func (a *API) HandleAddTagToTask(w http.ResponseWriter, r *http.Request) {
	var req tagRef
	if !a.readData(w, r, &req) {
		return
	}
	a.writeResult(w, r, a.Service.AddTagToTask(callerFrom(r), pathVar(r, "task_gid"), req.Tag))
}

func (a *API) HandleRemoveTagFromTask(w http.ResponseWriter, r *http.Request) {
	var req tagRef
	if !a.readData(w, r, &req) {
		return
	}
	a.writeResult(w, r, a.Service.RemoveTagFromTask(callerFrom(r), pathVar(r, "task_gid"), req.Tag))
}

func (a *API) HandleAddFollowersToTask(w http.ResponseWriter, r *http.Request) {
	var req followersRequest
	if !a.readData(w, r, &req) {
		return
	}
	task, herr := a.Service.AddFollowersToTask(callerFrom(r), pathVar(r, "task_gid"), req.Followers)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderTask(task))
}

func (a *API) HandleRemoveFollowersFromTask(w http.ResponseWriter, r *http.Request) {
	var req followersRequest
	if !a.readData(w, r, &req) {
		return
	}
	task, herr := a.Service.RemoveFollowersFromTask(callerFrom(r), pathVar(r, "task_gid"), req.Followers)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderTask(task))
}

// writeResult answers an action with an empty data object, or its error
func (a *API) writeResult(w http.ResponseWriter, r *http.Request, herr *asana.HttpError) {
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeEmpty(w, r)
}
