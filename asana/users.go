package asana

import (
	"strings"
	"time"
)

// Me is the alias clients use for the authenticated user
const Me = "me"

type UserRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Workspaces []string `json:"workspaces"`
}

// CreateUser registers a user. Asana provisions users out of band, the mock
// exposes this for fixtures and administration.
func (s *Service) CreateUser(req UserRequest) (*User, *HttpError) {
	defer s.lock()()

	if strings.TrimSpace(req.Name) == "" {
		return nil, missingField("name")
	}
	if !strings.Contains(req.Email, "@") {
		return nil, badRequest("email: Not a valid email address: " + req.Email)
	}
	if existing, herr := s.userByEmail(req.Email); herr != nil {
		return nil, herr
	} else if existing != nil {
		return nil, badRequest("email: A user with this email already exists: " + req.Email)
	}
	for _, ws := range req.Workspaces {
		if _, herr := get[Workspace](s, KindWorkspace, ws); herr != nil {
			return nil, herr
		}
	}

	u := &User{
		GID:        NewGID(),
		Name:       req.Name,
		Email:      strings.ToLower(req.Email),
		Workspaces: appendUnique(nil, req.Workspaces...),
		CreatedAt:  s.now(),
	}
	if herr := s.put(KindUser, u.GID, u); herr != nil {
		return nil, herr
	}
	return u, s.commit()
}

// GetUser accepts a gid, an email address or "me"
func (s *Service) GetUser(caller, ref string) (*User, *HttpError) {
	return s.resolveUser(caller, ref)
}

// ListUsers returns the users of workspace, or of every workspace the caller
// belongs to when workspace is empty
func (s *Service) ListUsers(caller, workspace string) ([]User, *HttpError) {
	if workspace != "" {
		return s.ListWorkspaceUsers(caller, workspace)
	}
	users, herr := all[User](s, KindUser)
	if herr != nil {
		return nil, herr
	}
	if caller != "" {
		me, herr := get[User](s, KindUser, caller)
		if herr != nil {
			return nil, herr
		}
		visible := users[:0]
		for _, u := range users {
			for _, ws := range u.Workspaces {
				if contains(me.Workspaces, ws) {
					visible = append(visible, u)
					break
				}
			}
		}
		users = visible
	}
	byCreation(users, func(u *User) (time.Time, string) { return u.CreatedAt, u.GID })
	return users, nil
}

func (s *Service) ListWorkspaceUsers(caller, workspace string) ([]User, *HttpError) {
	if _, herr := s.GetWorkspace(caller, workspace); herr != nil {
		return nil, herr
	}
	users, herr := all[User](s, KindUser)
	if herr != nil {
		return nil, herr
	}
	members := users[:0]
	for _, u := range users {
		if contains(u.Workspaces, workspace) {
			members = append(members, u)
		}
	}
	byCreation(members, func(u *User) (time.Time, string) { return u.CreatedAt, u.GID })
	return members, nil
}

func (s *Service) resolveUser(caller, ref string) (*User, *HttpError) {
	switch {
	case ref == Me:
		if caller == "" {
			return nil, badRequest("user: \"me\" requires an authenticated user")
		}
		return get[User](s, KindUser, caller)
	case strings.Contains(ref, "@"):
		u, herr := s.userByEmail(ref)
		if herr != nil {
			return nil, herr
		}
		if u == nil {
			return nil, notFound(KindUser, ref)
		}
		return u, nil
	default:
		return get[User](s, KindUser, ref)
	}
}

func (s *Service) resolveUserGID(caller, ref string) (string, *HttpError) {
	u, herr := s.resolveUser(caller, ref)
	if herr != nil {
		return "", herr
	}
	return u.GID, nil
}

func (s *Service) userByEmail(email string) (*User, *HttpError) {
	users, herr := all[User](s, KindUser)
	if herr != nil {
		return nil, herr
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, nil
}
