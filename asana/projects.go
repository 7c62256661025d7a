package asana

import (
	"strings"
	"time"
)

// DefaultSectionName is given to the section every new project starts with
const DefaultSectionName = "Untitled section"

var projectColors = map[string]bool{
	"dark-pink": true, "dark-green": true, "dark-blue": true, "dark-red": true,
	"dark-teal": true, "dark-brown": true, "dark-orange": true, "dark-purple": true,
	"dark-warm-gray": true, "light-pink": true, "light-green": true, "light-blue": true,
	"light-red": true, "light-teal": true, "light-brown": true, "light-orange": true,
	"light-purple": true, "light-warm-gray": true, "none": true,
}

type ProjectRequest struct {
	Name      *string    `json:"name"`
	Notes     *string    `json:"notes"`
	Color     *string    `json:"color"`
	Archived  *bool      `json:"archived"`
	Public    *bool      `json:"public"`
	Workspace string     `json:"workspace"`
	Team      string     `json:"team"`
	Owner     NullString `json:"owner"`
	DueOn     NullString `json:"due_on"`
	StartOn   NullString `json:"start_on"`
}

// ProjectFilter narrows ListProjects; one of Workspace or Team is required
type ProjectFilter struct {
	Workspace string
	Team      string
	Archived  *bool
}

// CreateProject needs a workspace (or a team, which implies its organization).
// Projects in organizations must belong to a team.
func (s *Service) CreateProject(caller string, req ProjectRequest) (*Project, *HttpError) {
	defer s.lock()()

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, missingField("name")
	}
	if req.Workspace == "" && req.Team != "" {
		t, herr := get[Team](s, KindTeam, req.Team)
		if herr != nil {
			return nil, herr
		}
		req.Workspace = t.Organization
	}
	if req.Workspace == "" {
		return nil, missingField("workspace")
	}
	ws, herr := s.GetWorkspace(caller, req.Workspace)
	if herr != nil {
		return nil, herr
	}
	if req.Team != "" {
		t, herr := get[Team](s, KindTeam, req.Team)
		if herr != nil {
			return nil, herr
		}
		if t.Organization != ws.GID {
			return nil, badRequest("team: " + t.GID + " is not in workspace " + ws.GID)
		}
	} else if ws.IsOrganization {
		return nil, badRequest("team: Missing input, projects in organizations must be in a team")
	}

	now := s.now()
	p := &Project{
		GID:        NewGID(),
		Workspace:  ws.GID,
		Team:       req.Team,
		Color:      "none",
		Public:     true,
		Members:    []string{},
		Followers:  []string{},
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if caller != "" {
		p.Owner = caller
		p.Members = append(p.Members, caller)
		p.Followers = append(p.Followers, caller)
	}
	if herr := s.applyProjectRequest(caller, p, req); herr != nil {
		return nil, herr
	}

	sec := &Section{GID: NewGID(), Name: DefaultSectionName, Project: p.GID, Tasks: []string{}, CreatedAt: now}
	p.Sections = []string{sec.GID}
	if herr := s.put(KindSection, sec.GID, sec); herr != nil {
		return nil, herr
	}
	if herr := s.put(KindProject, p.GID, p); herr != nil {
		return nil, herr
	}
	return p, s.commit()
}

func (s *Service) applyProjectRequest(caller string, p *Project, req ProjectRequest) *HttpError {
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return badRequest("name: Cannot be empty")
		}
		p.Name = *req.Name
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}
	if req.Color != nil {
		if !projectColors[*req.Color] {
			return badRequest("color: Unknown color: " + *req.Color)
		}
		p.Color = *req.Color
	}
	if req.Archived != nil {
		p.Archived = *req.Archived
	}
	if req.Public != nil {
		p.Public = *req.Public
	}
	if req.Owner.Set {
		if !req.Owner.Valid {
			p.Owner = ""
		} else {
			gid, herr := s.resolveUserGID(caller, req.Owner.Value)
			if herr != nil {
				return herr
			}
			if _, herr := s.requireWorkspaceUser(p.Workspace, gid); herr != nil {
				return herr
			}
			p.Owner = gid
		}
	}
	if req.DueOn.Set {
		if req.DueOn.Valid && !validDate(req.DueOn.Value) {
			return badRequest("due_on: Invalid date: " + req.DueOn.Value)
		}
		p.DueOn = req.DueOn.Value
	}
	if req.StartOn.Set {
		if req.StartOn.Valid && !validDate(req.StartOn.Value) {
			return badRequest("start_on: Invalid date: " + req.StartOn.Value)
		}
		p.StartOn = req.StartOn.Value
	}
	if p.StartOn != "" && p.DueOn == "" {
		return badRequest("start_on: due_on must be set to set start_on")
	}
	if p.StartOn != "" && p.StartOn > p.DueOn {
		return badRequest("start_on: Must be before due_on")
	}
	return nil
}

func (s *Service) GetProject(caller, gid string) (*Project, *HttpError) {
	p, herr := get[Project](s, KindProject, gid)
	if herr != nil {
		return nil, herr
	}
	if herr := s.requireMember(caller, p.Workspace); herr != nil {
		return nil, herr
	}
	return p, nil
}

func (s *Service) UpdateProject(caller, gid string, req ProjectRequest) (*Project, *HttpError) {
	defer s.lock()()

	p, herr := s.GetProject(caller, gid)
	if herr != nil {
		return nil, herr
	}
	if req.Workspace != "" && req.Workspace != p.Workspace {
		return nil, badRequest("workspace: Cannot be changed")
	}
	if req.Team != "" && req.Team != p.Team {
		t, herr := get[Team](s, KindTeam, req.Team)
		if herr != nil {
			return nil, herr
		}
		if t.Organization != p.Workspace {
			return nil, badRequest("team: " + t.GID + " is not in workspace " + p.Workspace)
		}
		p.Team = t.GID
	}
	if herr := s.applyProjectRequest(caller, p, req); herr != nil {
		return nil, herr
	}
	p.ModifiedAt = s.now()
	if herr := s.put(KindProject, p.GID, p); herr != nil {
		return nil, herr
	}
	return p, s.commit()
}

// DeleteProject removes the project and its sections; tasks only lose the membership
func (s *Service) DeleteProject(caller, gid string) *HttpError {
	defer s.lock()()

	p, herr := s.GetProject(caller, gid)
	if herr != nil {
		return herr
	}
	tasks, herr := all[Task](s, KindTask)
	if herr != nil {
		return herr
	}
	for i := range tasks {
		t := &tasks[i]
		if !t.InProject(p.GID) {
			continue
		}
		t.Memberships = withoutProject(t.Memberships, p.GID)
		t.ModifiedAt = s.now()
		if herr := s.put(KindTask, t.GID, t); herr != nil {
			return herr
		}
	}
	for _, sec := range p.Sections {
		if herr := s.del(KindSection, sec); herr != nil {
			return herr
		}
	}
	if herr := s.del(KindProject, p.GID); herr != nil {
		return herr
	}
	return s.commit()
}

func (s *Service) ListProjects(caller string, f ProjectFilter) ([]Project, *HttpError) {
	switch {
	case f.Team != "":
		if _, herr := s.GetTeam(caller, f.Team); herr != nil {
			return nil, herr
		}
	case f.Workspace != "":
		if _, herr := s.GetWorkspace(caller, f.Workspace); herr != nil {
			return nil, herr
		}
	default:
		return nil, badRequest("Must specify either workspace or team")
	}

	projects, herr := all[Project](s, KindProject)
	if herr != nil {
		return nil, herr
	}
	out := projects[:0]
	for _, p := range projects {
		if f.Team != "" && p.Team != f.Team {
			continue
		}
		if f.Workspace != "" && p.Workspace != f.Workspace {
			continue
		}
		if f.Archived != nil && p.Archived != *f.Archived {
			continue
		}
		out = append(out, p)
	}
	byCreation(out, func(p *Project) (time.Time, string) { return p.CreatedAt, p.GID })
	return out, nil
}

func (s *Service) ListTaskProjects(caller, task string) ([]Project, *HttpError) {
	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return nil, herr
	}
	out := make([]Project, 0, len(t.Memberships))
	for _, m := range t.Memberships {
		p, herr := get[Project](s, KindProject, m.Project)
		if herr != nil {
			return nil, herr
		}
		out = append(out, *p)
	}
	return out, nil
}

// AddMembersToProject accepts gids, emails or "me"; members must be in the workspace
func (s *Service) AddMembersToProject(caller, gid string, members []string) (*Project, *HttpError) {
	defer s.lock()()

	p, herr := s.GetProject(caller, gid)
	if herr != nil {
		return nil, herr
	}
	if len(members) == 0 {
		return nil, missingField("members")
	}
	gids, herr := s.workspaceUserGIDs(caller, p.Workspace, members)
	if herr != nil {
		return nil, herr
	}
	p.Members = appendUnique(p.Members, gids...)
	p.ModifiedAt = s.now()
	if herr := s.put(KindProject, p.GID, p); herr != nil {
		return nil, herr
	}
	return p, s.commit()
}

func (s *Service) RemoveMembersFromProject(caller, gid string, members []string) (*Project, *HttpError) {
	defer s.lock()()

	p, herr := s.GetProject(caller, gid)
	if herr != nil {
		return nil, herr
	}
	if len(members) == 0 {
		return nil, missingField("members")
	}
	gids := make([]string, 0, len(members))
	for _, m := range members {
		g, herr := s.resolveUserGID(caller, m)
		if herr != nil {
			return nil, herr
		}
		gids = append(gids, g)
	}
	p.Members = without(p.Members, gids...)
	p.Followers = without(p.Followers, gids...)
	p.ModifiedAt = s.now()
	if herr := s.put(KindProject, p.GID, p); herr != nil {
		return nil, herr
	}
	return p, s.commit()
}

func (s *Service) workspaceUserGIDs(caller, workspace string, refs []string) ([]string, *HttpError) {
	gids := make([]string, 0, len(refs))
	for _, ref := range refs {
		g, herr := s.resolveUserGID(caller, ref)
		if herr != nil {
			return nil, herr
		}
		if _, herr := s.requireWorkspaceUser(workspace, g); herr != nil {
			return nil, herr
		}
		gids = append(gids, g)
	}
	return gids, nil
}

func withoutProject(ms []Membership, project string) []Membership {
	out := ms[:0:0]
	for _, m := range ms {
		if m.Project != project {
			out = append(out, m)
		}
	}
	return out
}
