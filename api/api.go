/*
Package api exposes the asana.Service over HTTP, under the same paths and
with the same envelopes as Asana's REST API.
*/
package api

import (
	"net/http"

	"github.com/TykTechnologies/asana-mock/asana"
	"github.com/TykTechnologies/asana-mock/configuration"
	"github.com/TykTechnologies/asana-mock/constants"
	tykerrors "github.com/TykTechnologies/asana-mock/error"
	logger "github.com/TykTechnologies/asana-mock/log"
	"github.com/gorilla/mux"
)

var log = logger.Get()
var handlerLogger = log.WithField("prefix", constants.HandlerLogTag)

// API holds what the handlers need to serve a request
type API struct {
	Service *asana.Service
	Config  configuration.Configuration
}

// NewRouter registers every resource route under constants.BasePath, behind
// the token check, plus an open health check
func NewRouter(svc *asana.Service, conf configuration.Configuration) *mux.Router {
	handlerLogger = log.WithField("prefix", constants.HandlerLogTag)
	a := &API{Service: svc, Config: conf}

	r := mux.NewRouter()
	r.HandleFunc("/health", HandleHealthCheck).Methods(http.MethodGet)

	base := r.PathPrefix(constants.BasePath).Subrouter()
	base.Use(a.IsAuthenticated, a.CheckGIDs)
	a.routes(base)

	r.NotFoundHandler = http.HandlerFunc(handleNoRoute)
	r.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)
	return r
}

func (a *API) routes(r *mux.Router) {
	get, post, put, del := http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete

	// users
	r.HandleFunc("/users", a.HandleListUsers).Methods(get)
	r.HandleFunc("/users", a.HandleCreateUser).Methods(post)
	r.HandleFunc("/users/{user_gid}", a.HandleGetUser).Methods(get)
	r.HandleFunc("/users/{user_gid}/teams", a.HandleListUserTeams).Methods(get)

	// workspaces
	r.HandleFunc("/workspaces", a.HandleListWorkspaces).Methods(get)
	r.HandleFunc("/workspaces", a.HandleCreateWorkspace).Methods(post)
	r.HandleFunc("/workspaces/{workspace_gid}", a.HandleGetWorkspace).Methods(get)
	r.HandleFunc("/workspaces/{workspace_gid}", a.HandleUpdateWorkspace).Methods(put)
	r.HandleFunc("/workspaces/{workspace_gid}/addUser", a.HandleAddUserToWorkspace).Methods(post)
	r.HandleFunc("/workspaces/{workspace_gid}/removeUser", a.HandleRemoveUserFromWorkspace).Methods(post)
	r.HandleFunc("/workspaces/{workspace_gid}/users", a.HandleListWorkspaceUsers).Methods(get)
	r.HandleFunc("/workspaces/{workspace_gid}/teams", a.HandleListWorkspaceTeams).Methods(get)
	r.HandleFunc("/workspaces/{workspace_gid}/projects", a.HandleListWorkspaceProjects).Methods(get)
	r.HandleFunc("/workspaces/{workspace_gid}/projects", a.HandleCreateWorkspaceProject).Methods(post)
	r.HandleFunc("/workspaces/{workspace_gid}/tags", a.HandleListWorkspaceTags).Methods(get)
	r.HandleFunc("/workspaces/{workspace_gid}/tags", a.HandleCreateWorkspaceTag).Methods(post)

	// teams
	r.HandleFunc("/teams", a.HandleCreateTeam).Methods(post)
	r.HandleFunc("/teams/{team_gid}", a.HandleGetTeam).Methods(get)
	r.HandleFunc("/teams/{team_gid}", a.HandleUpdateTeam).Methods(put)
	r.HandleFunc("/teams/{team_gid}/users", a.HandleListTeamUsers).Methods(get)
	r.HandleFunc("/teams/{team_gid}/addUser", a.HandleAddUserToTeam).Methods(post)
	r.HandleFunc("/teams/{team_gid}/removeUser", a.HandleRemoveUserFromTeam).Methods(post)
	r.HandleFunc("/teams/{team_gid}/projects", a.HandleListTeamProjects).Methods(get)
	r.HandleFunc("/teams/{team_gid}/projects", a.HandleCreateTeamProject).Methods(post)

	// projects
	r.HandleFunc("/projects", a.HandleListProjects).Methods(get)
	r.HandleFunc("/projects", a.HandleCreateProject).Methods(post)
	r.HandleFunc("/projects/{project_gid}", a.HandleGetProject).Methods(get)
	r.HandleFunc("/projects/{project_gid}", a.HandleUpdateProject).Methods(put)
	r.HandleFunc("/projects/{project_gid}", a.HandleDeleteProject).Methods(del)
	r.HandleFunc("/projects/{project_gid}/addMembers", a.HandleAddMembersToProject).Methods(post)
	r.HandleFunc("/projects/{project_gid}/removeMembers", a.HandleRemoveMembersFromProject).Methods(post)
	r.HandleFunc("/projects/{project_gid}/tasks", a.HandleListProjectTasks).Methods(get)
	r.HandleFunc("/projects/{project_gid}/sections", a.HandleListProjectSections).Methods(get)
	r.HandleFunc("/projects/{project_gid}/sections", a.HandleCreateSection).Methods(post)
	r.HandleFunc("/projects/{project_gid}/sections/insert", a.HandleInsertSection).Methods(post)

	// sections
	r.HandleFunc("/sections/{section_gid}", a.HandleGetSection).Methods(get)
	r.HandleFunc("/sections/{section_gid}", a.HandleUpdateSection).Methods(put)
	r.HandleFunc("/sections/{section_gid}", a.HandleDeleteSection).Methods(del)
	r.HandleFunc("/sections/{section_gid}/addTask", a.HandleAddTaskToSection).Methods(post)
	r.HandleFunc("/sections/{section_gid}/tasks", a.HandleListSectionTasks).Methods(get)

	// tasks
	r.HandleFunc("/tasks", a.HandleListTasks).Methods(get)
	r.HandleFunc("/tasks", a.HandleCreateTask).Methods(post)
	r.HandleFunc("/tasks/{task_gid}", a.HandleGetTask).Methods(get)
	r.HandleFunc("/tasks/{task_gid}", a.HandleUpdateTask).Methods(put)
	r.HandleFunc("/tasks/{task_gid}", a.HandleDeleteTask).Methods(del)
	r.HandleFunc("/tasks/{task_gid}/subtasks", a.HandleListSubtasks).Methods(get)
	r.HandleFunc("/tasks/{task_gid}/subtasks", a.HandleCreateSubtask).Methods(post)
	r.HandleFunc("/tasks/{task_gid}/setParent", a.HandleSetParent).Methods(post)
	r.HandleFunc("/tasks/{task_gid}/dependencies", a.HandleListDependencies).Methods(get)
	r.HandleFunc("/tasks/{task_gid}/addDependencies", a.HandleAddDependencies).Methods(post)
	r.HandleFunc("/tasks/{task_gid}/removeDependencies", a.HandleRemoveDependencies).Methods(post)
	r.HandleFunc("/tasks/{task_gid}/dependents", a.HandleListDependents).Methods(get)
	r.HandleFunc("/tasks/{task_gid}/addDependents", a.HandleAddDependents).Methods(post)
	r.HandleFunc("/tasks/{task_gid}/removeDependents", a.HandleRemoveDependents).Methods(post)
	r.HandleFunc("/tasks/{task_gid}/projects", a.HandleListTaskProjects).Methods(get)
	r.HandleFunc("/tasks/{task_gid}/addProject", a.HandleAddProjectToTask).Methods(post)
	r.HandleFunc("/tasks/{task_gid}/removeProject", a.HandleRemoveProjectFromTask).Methods(post)
	r.HandleFunc("/tasks/{task_gid}/tags", a.HandleListTaskTags).Methods(get)
	r.HandleFunc("/tasks/{task_gid}/addTag", a.HandleAddTagToTask).Methods(post)
	r.HandleFunc("/tasks/{task_gid}/removeTag", a.HandleRemoveTagFromTask).Methods(post)
	r.HandleFunc("/tasks/{task_gid}/addFollowers", a.HandleAddFollowersToTask).Methods(post)
	r.HandleFunc("/tasks/{task_gid}/removeFollowers", a.HandleRemoveFollowersFromTask).Methods(post)
	r.HandleFunc("/tasks/{task_gid}/stories", a.HandleListTaskStories).Methods(get)
	r.HandleFunc("/tasks/{task_gid}/stories", a.HandleCreateStory).Methods(post)

	// tags
	r.HandleFunc("/tags", a.HandleListTags).Methods(get)
	r.HandleFunc("/tags", a.HandleCreateTag).Methods(post)
	r.HandleFunc("/tags/{tag_gid}", a.HandleGetTag).Methods(get)
	r.HandleFunc("/tags/{tag_gid}", a.HandleUpdateTag).Methods(put)
	r.HandleFunc("/tags/{tag_gid}", a.HandleDeleteTag).Methods(del)
	r.HandleFunc("/tags/{tag_gid}/tasks", a.HandleListTagTasks).Methods(get)

	// stories
	r.HandleFunc("/stories/{story_gid}", a.HandleGetStory).Methods(get)
	r.HandleFunc("/stories/{story_gid}", a.HandleUpdateStory).Methods(put)
	r.HandleFunc("/stories/{story_gid}", a.HandleDeleteStory).Methods(del)
}

// HandleHealthCheck reports that the process is up
func HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func handleNoRoute(w http.ResponseWriter, r *http.Request) {
	tykerrors.HandleError(constants.HandlerLogTag, "No matching route for request", nil, http.StatusNotFound, w, r)
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	tykerrors.HandleError(constants.HandlerLogTag, "Method not allowed", nil, http.StatusMethodNotAllowed, w, r)
}

// handleError writes the error envelope of a failed service call
func (a *API) handleError(w http.ResponseWriter, r *http.Request, herr *asana.HttpError) {
	tykerrors.HandleError(constants.HandlerLogTag, herr.Message, herr.Error, herr.Code, w, r)
}

func (a *API) badRequest(w http.ResponseWriter, r *http.Request, msg string, err error) {
	tykerrors.HandleError(constants.HandlerLogTag, msg, err, http.StatusBadRequest, w, r)
}
