package api

import (
	"errors"
	"net/http"

	"github.com/TykTechnologies/asana-mock/asana"
)

type insertSectionRequest struct {
	Section       string `json:"section"`
	BeforeSection string `json:"before_section"`
	AfterSection  string `json:"after_section"`
}

func (a *API) HandleListProjectSections(w http.ResponseWriter, r *http.Request) {
	sections, herr := a.Service.ListProjectSections(callerFrom(r), pathVar(r, "project_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	writeList(a, w, r, sections, a.compactSection, a.renderSection)
}

func (a *API) HandleCreateSection(w http.ResponseWriter, r *http.Request) {
	var req asana.SectionRequest
	if !a.readData(w, r, &req) {
		return
	}
	section, herr := a.Service.CreateSection(callerFrom(r), pathVar(r, "project_gid"), req)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusCreated, a.renderSection(section))
}

// HandleInsertSection moves a section of the project before or after another one
func (a *API) HandleInsertSection(w http.ResponseWriter, r *http.Request) {
	var req insertSectionRequest
	if !a.readData(w, r, &req) {
		return
	}
	caller := callerFrom(r)
	section, herr := a.Service.GetSection(caller, req.Section)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	if section.Project != pathVar(r, "project_gid") {
		msg := "section: Not in project " + pathVar(r, "project_gid")
		a.badRequest(w, r, msg, errors.New(msg))
		return
	}
	if req.BeforeSection == "" && req.AfterSection == "" {
		msg := "Must specify one of before_section or after_section"
		a.badRequest(w, r, msg, errors.New(msg))
		return
	}
	_, herr = a.Service.UpdateSection(caller, section.GID, asana.SectionRequest{
		InsertBefore: req.BeforeSection,
		InsertAfter:  req.AfterSection,
	})
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeEmpty(w, r)
}

func (a *API) HandleGetSection(w http.ResponseWriter, r *http.Request) {
	section, herr := a.Service.GetSection(callerFrom(r), pathVar(r, "section_gid"))
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderSection(section))
}

func (a *API) HandleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var req asana.SectionRequest
	if !a.readData(w, r, &req) {
		return
	}
	section, herr := a.Service.UpdateSection(callerFrom(r), pathVar(r, "section_gid"), req)
	if herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeData(w, r, http.StatusOK, a.renderSection(section))
}

func (a *API) HandleDeleteSection(w http.ResponseWriter, r *http.Request) {
	if herr := a.Service.DeleteSection(callerFrom(r), pathVar(r, "section_gid")); herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeEmpty(w, r)
}

func (a *API) HandleAddTaskToSection(w http.ResponseWriter, r *http.Request) {
	var req asana.SectionPlacement
	if !a.readData(w, r, &req) {
		return
	}
	if herr := a.Service.AddTaskToSection(callerFrom(r), pathVar(r, "section_gid"), req); herr != nil {
		a.handleError(w, r, herr)
		return
	}
	a.writeEmpty(w, r)
}
