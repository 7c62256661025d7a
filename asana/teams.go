package asana

import (
	"strings"
	"time"
)

type TeamRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Organization string  `json:"organization"`
}

// CreateTeam needs an organization; the creator becomes the first member
func (s *Service) CreateTeam(caller string, req TeamRequest) (*Team, *HttpError) {
	defer s.lock()()

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, missingField("name")
	}
	ws, herr := s.GetWorkspace(caller, req.Organization)
	if herr != nil {
		return nil, herr
	}
	if !ws.IsOrganization {
		return nil, badRequest("organization: Teams can only be created in organizations")
	}

	t := &Team{
		GID:          NewGID(),
		Name:         *req.Name,
		Organization: ws.GID,
		Members:      []string{},
		CreatedAt:    s.now(),
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if caller != "" {
		t.Members = append(t.Members, caller)
	}
	if herr := s.put(KindTeam, t.GID, t); herr != nil {
		return nil, herr
	}
	return t, s.commit()
}

func (s *Service) GetTeam(caller, gid string) (*Team, *HttpError) {
	t, herr := get[Team](s, KindTeam, gid)
	if herr != nil {
		return nil, herr
	}
	if herr := s.requireMember(caller, t.Organization); herr != nil {
		return nil, herr
	}
	return t, nil
}

func (s *Service) UpdateTeam(caller, gid string, req TeamRequest) (*Team, *HttpError) {
	defer s.lock()()

	t, herr := s.GetTeam(caller, gid)
	if herr != nil {
		return nil, herr
	}
	if req.Organization != "" && req.Organization != t.Organization {
		return nil, badRequest("organization: Cannot be changed")
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, badRequest("name: Cannot be empty")
		}
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if herr := s.put(KindTeam, t.GID, t); herr != nil {
		return nil, herr
	}
	return t, s.commit()
}

func (s *Service) ListWorkspaceTeams(caller, workspace string) ([]Team, *HttpError) {
	ws, herr := s.GetWorkspace(caller, workspace)
	if herr != nil {
		return nil, herr
	}
	if !ws.IsOrganization {
		return nil, badRequest("workspace: Teams are only available in organizations")
	}
	return s.teamsWhere(func(t *Team) bool { return t.Organization == ws.GID })
}

// ListUserTeams returns the teams of user inside organization
func (s *Service) ListUserTeams(caller, user, organization string) ([]Team, *HttpError) {
	if organization == "" {
		return nil, missingField("organization")
	}
	if _, herr := s.GetWorkspace(caller, organization); herr != nil {
		return nil, herr
	}
	gid, herr := s.resolveUserGID(caller, user)
	if herr != nil {
		return nil, herr
	}
	return s.teamsWhere(func(t *Team) bool {
		return t.Organization == organization && contains(t.Members, gid)
	})
}

func (s *Service) ListTeamUsers(caller, team string) ([]User, *HttpError) {
	t, herr := s.GetTeam(caller, team)
	if herr != nil {
		return nil, herr
	}
	users := make([]User, 0, len(t.Members))
	for _, m := range t.Members {
		u, herr := get[User](s, KindUser, m)
		if herr != nil {
			return nil, herr
		}
		users = append(users, *u)
	}
	return users, nil
}

// AddUserToTeam requires the user to already belong to the organization
func (s *Service) AddUserToTeam(caller, team, user string) (*User, *HttpError) {
	defer s.lock()()

	t, herr := s.GetTeam(caller, team)
	if herr != nil {
		return nil, herr
	}
	u, herr := s.resolveUser(caller, user)
	if herr != nil {
		return nil, herr
	}
	if _, herr := s.requireWorkspaceUser(t.Organization, u.GID); herr != nil {
		return nil, herr
	}
	if contains(t.Members, u.GID) {
		return u, nil
	}
	t.Members = append(t.Members, u.GID)
	if herr := s.put(KindTeam, t.GID, t); herr != nil {
		return nil, herr
	}
	return u, s.commit()
}

func (s *Service) RemoveUserFromTeam(caller, team, user string) *HttpError {
	defer s.lock()()

	t, herr := s.GetTeam(caller, team)
	if herr != nil {
		return herr
	}
	gid, herr := s.resolveUserGID(caller, user)
	if herr != nil {
		return herr
	}
	if !contains(t.Members, gid) {
		return badRequest("user: " + gid + " is not a member of team " + t.GID)
	}
	t.Members = without(t.Members, gid)
	if herr := s.put(KindTeam, t.GID, t); herr != nil {
		return herr
	}
	return s.commit()
}

func (s *Service) teamsWhere(keep func(*Team) bool) ([]Team, *HttpError) {
	teams, herr := all[Team](s, KindTeam)
	if herr != nil {
		return nil, herr
	}
	out := teams[:0]
	for i := range teams {
		if keep(&teams[i]) {
			out = append(out, teams[i])
		}
	}
	byCreation(out, func(t *Team) (time.Time, string) { return t.CreatedAt, t.GID })
	return out, nil
}
