package asana

import (
	"strings"
	"time"
)

type WorkspaceRequest struct {
	Name           *string  `json:"name"`
	IsOrganization *bool    `json:"is_organization"`
	EmailDomains   []string `json:"email_domains"`
}

// GetWorkspace reads a workspace, the caller must be a member
func (s *Service) GetWorkspace(caller, gid string) (*Workspace, *HttpError) {
	ws, herr := get[Workspace](s, KindWorkspace, gid)
	if herr != nil {
		return nil, herr
	}
	if herr := s.requireMember(caller, ws.GID); herr != nil {
		return nil, herr
	}
	return ws, nil
}

// ListWorkspaces returns the workspaces visible to caller
func (s *Service) ListWorkspaces(caller string) ([]Workspace, *HttpError) {
	workspaces, herr := all[Workspace](s, KindWorkspace)
	if herr != nil {
		return nil, herr
	}
	if caller != "" {
		me, herr := get[User](s, KindUser, caller)
		if herr != nil {
			return nil, herr
		}
		visible := workspaces[:0]
		for _, ws := range workspaces {
			if contains(me.Workspaces, ws.GID) {
				visible = append(visible, ws)
			}
		}
		workspaces = visible
	}
	byCreation(workspaces, func(w *Workspace) (time.Time, string) { return w.CreatedAt, w.GID })
	return workspaces, nil
}

// CreateWorkspace is not part of Asana's public API; the creator joins the
// new workspace.
func (s *Service) CreateWorkspace(caller string, req WorkspaceRequest) (*Workspace, *HttpError) {
	defer s.lock()()

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, missingField("name")
	}
	ws := &Workspace{
		GID:          NewGID(),
		Name:         *req.Name,
		EmailDomains: req.EmailDomains,
		CreatedAt:    s.now(),
	}
	if req.IsOrganization != nil {
		ws.IsOrganization = *req.IsOrganization
	}
	if ws.EmailDomains == nil {
		ws.EmailDomains = []string{}
	}
	var me *User
	if caller != "" {
		var herr *HttpError
		if me, herr = get[User](s, KindUser, caller); herr != nil {
			return nil, herr
		}
	}
	if herr := s.put(KindWorkspace, ws.GID, ws); herr != nil {
		return nil, herr
	}

	if me != nil {
		me.Workspaces = appendUnique(me.Workspaces, ws.GID)
		if herr := s.put(KindUser, me.GID, me); herr != nil {
			return nil, herr
		}
	}
	return ws, s.commit()
}

// UpdateWorkspace only changes the name, like Asana does
func (s *Service) UpdateWorkspace(caller, gid string, req WorkspaceRequest) (*Workspace, *HttpError) {
	defer s.lock()()

	ws, herr := s.GetWorkspace(caller, gid)
	if herr != nil {
		return nil, herr
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, badRequest("name: Cannot be empty")
		}
		ws.Name = *req.Name
	}
	if herr := s.put(KindWorkspace, ws.GID, ws); herr != nil {
		return nil, herr
	}
	return ws, s.commit()
}

// AddUserToWorkspace accepts a gid, an email or "me" as user
func (s *Service) AddUserToWorkspace(caller, workspace, user string) (*User, *HttpError) {
	defer s.lock()()

	ws, herr := s.GetWorkspace(caller, workspace)
	if herr != nil {
		return nil, herr
	}
	u, herr := s.resolveUser(caller, user)
	if herr != nil {
		return nil, herr
	}
	if contains(u.Workspaces, ws.GID) {
		return u, nil
	}
	u.Workspaces = append(u.Workspaces, ws.GID)
	if herr := s.put(KindUser, u.GID, u); herr != nil {
		return nil, herr
	}
	return u, s.commit()
}

// RemoveUserFromWorkspace also drops the user from the workspace's teams,
// projects and task followers, and unassigns their tasks there
func (s *Service) RemoveUserFromWorkspace(caller, workspace, user string) *HttpError {
	defer s.lock()()

	ws, herr := s.GetWorkspace(caller, workspace)
	if herr != nil {
		return herr
	}
	u, herr := s.resolveUser(caller, user)
	if herr != nil {
		return herr
	}
	if !contains(u.Workspaces, ws.GID) {
		return badRequest("user: " + u.GID + " is not a member of workspace " + ws.GID)
	}

	teams, herr := all[Team](s, KindTeam)
	if herr != nil {
		return herr
	}
	for i := range teams {
		t := &teams[i]
		if t.Organization == ws.GID && contains(t.Members, u.GID) {
			t.Members = without(t.Members, u.GID)
			if herr := s.put(KindTeam, t.GID, t); herr != nil {
				return herr
			}
		}
	}

	projects, herr := all[Project](s, KindProject)
	if herr != nil {
		return herr
	}
	for i := range projects {
		p := &projects[i]
		if p.Workspace != ws.GID {
			continue
		}
		if p.Owner != u.GID && !contains(p.Members, u.GID) && !contains(p.Followers, u.GID) {
			continue
		}
		if p.Owner == u.GID {
			p.Owner = ""
		}
		p.Members = without(p.Members, u.GID)
		p.Followers = without(p.Followers, u.GID)
		p.ModifiedAt = s.now()
		if herr := s.put(KindProject, p.GID, p); herr != nil {
			return herr
		}
	}

	tasks, herr := all[Task](s, KindTask)
	if herr != nil {
		return herr
	}
	for i := range tasks {
		t := &tasks[i]
		if t.Workspace != ws.GID || (t.Assignee != u.GID && !contains(t.Followers, u.GID)) {
			continue
		}
		if t.Assignee == u.GID {
			t.Assignee = ""
		}
		t.Followers = without(t.Followers, u.GID)
		t.ModifiedAt = s.now()
		if herr := s.put(KindTask, t.GID, t); herr != nil {
			return herr
		}
	}

	u.Workspaces = without(u.Workspaces, ws.GID)
	if herr := s.put(KindUser, u.GID, u); herr != nil {
		return herr
	}
	return s.commit()
}
