package asana

import (
	"strings"
	"time"
)

type StoryRequest struct {
	Text *string `json:"text"`
}

type pendingStory struct {
	subtype string
	text    string
}

func (s *Service) writeStories(caller, task string, stories []pendingStory) *HttpError {
	now := s.now()
	for _, p := range stories {
		st := &Story{
			GID:             NewGID(),
			Type:            StorySystem,
			ResourceSubtype: p.subtype,
			Text:            p.text,
			CreatedBy:       caller,
			Target:          task,
			CreatedAt:       now,
		}
		if herr := s.put(KindStory, st.GID, st); herr != nil {
			return herr
		}
	}
	return nil
}

// CreateStoryOnTask adds a comment to a task
func (s *Service) CreateStoryOnTask(caller, task string, req StoryRequest) (*Story, *HttpError) {
	defer s.lock()()

	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return nil, herr
	}
	if req.Text == nil || strings.TrimSpace(*req.Text) == "" {
		return nil, missingField("text")
	}
	st := &Story{
		GID:             NewGID(),
		Type:            StoryComment,
		ResourceSubtype: "comment_added",
		Text:            *req.Text,
		CreatedBy:       caller,
		Target:          t.GID,
		CreatedAt:       s.now(),
	}
	if herr := s.put(KindStory, st.GID, st); herr != nil {
		return nil, herr
	}
	return st, s.commit()
}

func (s *Service) GetStory(caller, gid string) (*Story, *HttpError) {
	st, herr := get[Story](s, KindStory, gid)
	if herr != nil {
		return nil, herr
	}
	if _, herr := s.GetTask(caller, st.Target); herr != nil {
		return nil, herr
	}
	return st, nil
}

// UpdateStory edits the text of a comment; only its author may do so
func (s *Service) UpdateStory(caller, gid string, req StoryRequest) (*Story, *HttpError) {
	defer s.lock()()

	st, herr := s.editableStory(caller, gid)
	if herr != nil {
		return nil, herr
	}
	if req.Text == nil || strings.TrimSpace(*req.Text) == "" {
		return nil, missingField("text")
	}
	st.Text = *req.Text
	if herr := s.put(KindStory, st.GID, st); herr != nil {
		return nil, herr
	}
	return st, s.commit()
}

func (s *Service) DeleteStory(caller, gid string) *HttpError {
	defer s.lock()()

	st, herr := s.editableStory(caller, gid)
	if herr != nil {
		return herr
	}
	if herr := s.del(KindStory, st.GID); herr != nil {
		return herr
	}
	return s.commit()
}

func (s *Service) editableStory(caller, gid string) (*Story, *HttpError) {
	st, herr := s.GetStory(caller, gid)
	if herr != nil {
		return nil, herr
	}
	if st.Type != StoryComment {
		return nil, badRequest("story: Only comments can be edited or deleted")
	}
	if caller != "" && st.CreatedBy != caller {
		return nil, forbidden("story: Only the author of a comment can edit or delete it")
	}
	return st, nil
}

func (s *Service) ListTaskStories(caller, task string) ([]Story, *HttpError) {
	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return nil, herr
	}
	stories, herr := all[Story](s, KindStory)
	if herr != nil {
		return nil, herr
	}
	out := stories[:0]
	for _, st := range stories {
		if st.Target == t.GID {
			out = append(out, st)
		}
	}
	byCreation(out, func(st *Story) (time.Time, string) { return st.CreatedAt, st.GID })
	return out, nil
}
