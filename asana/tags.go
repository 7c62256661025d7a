package asana

import (
	"strings"
	"time"
)

type TagRequest struct {
	Name      *string `json:"name"`
	Color     *string `json:"color"`
	Notes     *string `json:"notes"`
	Workspace string  `json:"workspace"`
}

func (s *Service) CreateTag(caller string, req TagRequest) (*Tag, *HttpError) {
	defer s.lock()()

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, missingField("name")
	}
	ws, herr := s.GetWorkspace(caller, req.Workspace)
	if herr != nil {
		return nil, herr
	}
	tg := &Tag{
		GID:       NewGID(),
		Name:      *req.Name,
		Color:     "none",
		Workspace: ws.GID,
		Followers: []string{},
		CreatedAt: s.now(),
	}
	if herr := applyTagRequest(tg, req); herr != nil {
		return nil, herr
	}
	if herr := s.put(KindTag, tg.GID, tg); herr != nil {
		return nil, herr
	}
	return tg, s.commit()
}

func applyTagRequest(tg *Tag, req TagRequest) *HttpError {
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return badRequest("name: Cannot be empty")
		}
		tg.Name = *req.Name
	}
	if req.Color != nil {
		if !projectColors[*req.Color] {
			return badRequest("color: Unknown color: " + *req.Color)
		}
		tg.Color = *req.Color
	}
	if req.Notes != nil {
		tg.Notes = *req.Notes
	}
	return nil
}

func (s *Service) GetTag(caller, gid string) (*Tag, *HttpError) {
	tg, herr := get[Tag](s, KindTag, gid)
	if herr != nil {
		return nil, herr
	}
	if herr := s.requireMember(caller, tg.Workspace); herr != nil {
		return nil, herr
	}
	return tg, nil
}

func (s *Service) UpdateTag(caller, gid string, req TagRequest) (*Tag, *HttpError) {
	defer s.lock()()

	tg, herr := s.GetTag(caller, gid)
	if herr != nil {
		return nil, herr
	}
	if req.Workspace != "" && req.Workspace != tg.Workspace {
		return nil, badRequest("workspace: Cannot be changed")
	}
	if herr := applyTagRequest(tg, req); herr != nil {
		return nil, herr
	}
	if herr := s.put(KindTag, tg.GID, tg); herr != nil {
		return nil, herr
	}
	return tg, s.commit()
}

// DeleteTag also strips the tag from every task carrying it
func (s *Service) DeleteTag(caller, gid string) *HttpError {
	defer s.lock()()

	tg, herr := s.GetTag(caller, gid)
	if herr != nil {
		return herr
	}
	tasks, herr := all[Task](s, KindTask)
	if herr != nil {
		return herr
	}
	for i := range tasks {
		t := &tasks[i]
		if contains(t.Tags, tg.GID) {
			t.Tags = without(t.Tags, tg.GID)
			t.ModifiedAt = s.now()
			if herr := s.put(KindTask, t.GID, t); herr != nil {
				return herr
			}
		}
	}
	if herr := s.del(KindTag, tg.GID); herr != nil {
		return herr
	}
	return s.commit()
}

func (s *Service) ListTags(caller, workspace string) ([]Tag, *HttpError) {
	if workspace == "" {
		return nil, missingField("workspace")
	}
	if _, herr := s.GetWorkspace(caller, workspace); herr != nil {
		return nil, herr
	}
	tags, herr := all[Tag](s, KindTag)
	if herr != nil {
		return nil, herr
	}
	out := tags[:0]
	for _, tg := range tags {
		if tg.Workspace == workspace {
			out = append(out, tg)
		}
	}
	byCreation(out, func(tg *Tag) (time.Time, string) { return tg.CreatedAt, tg.GID })
	return out, nil
}

func (s *Service) ListTaskTags(caller, task string) ([]Tag, *HttpError) {
	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return nil, herr
	}
	out := make([]Tag, 0, len(t.Tags))
	for _, gid := range t.Tags {
		tg, herr := get[Tag](s, KindTag, gid)
		if herr != nil {
			return nil, herr
		}
		out = append(out, *tg)
	}
	return out, nil
}
