package api

import (
	"net/http"

	"github.com/TykTechnologies/asana-mock/asana"
)

func (a *API) HandleListTaskStories(w http.ResponseWriter, r *http.Request) {
	stories, herr := a.Service.ListTaskStories(callerFrom(r), pathVar(r, "task_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	writeList(a, w, r, stories, a.compactStory, a.renderStory)
}

func (a *API) HandleCreateStory(w http.ResponseWriter, r *http.Request) {
	var req asana.StoryRequest
	if !a.readData(w, r, &req) {
		return
	}
	story, herr := a.Service.CreateStoryOnTask(callerFrom(r), pathVar(r, "task_gid"), req)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusCreated, a.renderStory(story))
}

func (a *API) HandleGetStory(w http.ResponseWriter, r *http.Request) {
	story, herr := a.Service.GetStory(callerFrom(r), pathVar(r, "story_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderStory(story))
}

func (a *API) HandleUpdateStory(w http.ResponseWriter, r *http.Request) {
	var req asana.StoryRequest
	if !a.readData(w, r, &req) {
		return
	}
	story, herr := a.Service.UpdateStory(callerFrom(r), pathVar(r, "story_gid"), req)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderStory(story))
}

func (a *API) HandleDeleteStory(w http.ResponseWriter, r *http.Request) {
	if herr := a.Service.DeleteStory(callerFrom(r), pathVar(r, "story_gid")); herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeEmpty(w, r)
}
