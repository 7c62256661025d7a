package asana

import (
	"strings"
)

type SectionRequest struct {
	Name         *string `json:"name"`
	InsertBefore string  `json:"insert_before"`
	InsertAfter  string  `json:"insert_after"`
}

// SectionPlacement positions a task inside a section
type SectionPlacement struct {
	Task         string `json:"task"`
	InsertBefore string `json:"insert_before"`
	InsertAfter  string `json:"insert_after"`
}

func (s *Service) CreateSection(caller, project string, req SectionRequest) (*Section, *HttpError) {
	defer s.lock()()

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, missingField("name")
	}
	p, herr := s.GetProject(caller, project)
	if herr != nil {
		return nil, herr
	}
	sec := &Section{GID: NewGID(), Name: *req.Name, Project: p.GID, Tasks: []string{}, CreatedAt: s.now()}
	order, herr := insertAt(p.Sections, sec.GID, req.InsertBefore, req.InsertAfter, KindSection)
	if herr != nil {
		return nil, herr
	}
	p.Sections = order
	if herr := s.put(KindSection, sec.GID, sec); herr != nil {
		return nil, herr
	}
	if herr := s.put(KindProject, p.GID, p); herr != nil {
		return nil, herr
	}
	return sec, s.commit()
}

func (s *Service) GetSection(caller, gid string) (*Section, *HttpError) {
	sec, herr := get[Section](s, KindSection, gid)
	if herr != nil {
		return nil, herr
	}
	if _, herr := s.GetProject(caller, sec.Project); herr != nil {
		return nil, herr
	}
	return sec, nil
}

func (s *Service) UpdateSection(caller, gid string, req SectionRequest) (*Section, *HttpError) {
	defer s.lock()()

	sec, herr := s.GetSection(caller, gid)
	if herr != nil {
		return nil, herr
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, badRequest("name: Cannot be empty")
		}
		sec.Name = *req.Name
	}
	if req.InsertBefore != "" || req.InsertAfter != "" {
		p, herr := get[Project](s, KindProject, sec.Project)
		if herr != nil {
			return nil, herr
		}
		order, herr := insertAt(without(p.Sections, sec.GID), sec.GID, req.InsertBefore, req.InsertAfter, KindSection)
		if herr != nil {
			return nil, herr
		}
		p.Sections = order
		if herr := s.put(KindProject, p.GID, p); herr != nil {
			return nil, herr
		}
	}
	if herr := s.put(KindSection, sec.GID, sec); herr != nil {
		return nil, herr
	}
	return sec, s.commit()
}

// DeleteSection only deletes empty sections, and never the last one of a project
func (s *Service) DeleteSection(caller, gid string) *HttpError {
	defer s.lock()()

	sec, herr := s.GetSection(caller, gid)
	if herr != nil {
		return herr
	}
	if len(sec.Tasks) > 0 {
		return badRequest("section: Sections must be empty to be deleted")
	}
	p, herr := get[Project](s, KindProject, sec.Project)
	if herr != nil {
		return herr
	}
	if len(p.Sections) <= 1 {
		return badRequest("section: The last section of a project cannot be deleted")
	}
	p.Sections = without(p.Sections, sec.GID)
	if herr := s.put(KindProject, p.GID, p); herr != nil {
		return herr
	}
	if herr := s.del(KindSection, sec.GID); herr != nil {
		return herr
	}
	return s.commit()
}

func (s *Service) ListProjectSections(caller, project string) ([]Section, *HttpError) {
	p, herr := s.GetProject(caller, project)
	if herr != nil {
		return nil, herr
	}
	out := make([]Section, 0, len(p.Sections))
	for _, gid := range p.Sections {
		sec, herr := get[Section](s, KindSection, gid)
		if herr != nil {
			return nil, herr
		}
		out = append(out, *sec)
	}
	return out, nil
}

// AddTaskToSection moves a task, already in the section's project, into the section
func (s *Service) AddTaskToSection(caller, section string, req SectionPlacement) *HttpError {
	defer s.lock()()

	sec, herr := s.GetSection(caller, section)
	if herr != nil {
		return herr
	}
	t, herr := get[Task](s, KindTask, req.Task)
	if herr != nil {
		return herr
	}
	if !t.InProject(sec.Project) {
		return badRequest("task: " + t.GID + " is not in the project of section " + sec.GID)
	}
	if herr := s.placeTask(t, sec.Project, sec.GID, req.InsertBefore, req.InsertAfter); herr != nil {
		return herr
	}
	t.ModifiedAt = s.now()
	if herr := s.put(KindTask, t.GID, t); herr != nil {
		return herr
	}
	return s.commit()
}

// placeTask writes the membership of t in project, inside section (the first
// section of the project when empty). The task document itself is left for
// the caller to save.
func (s *Service) placeTask(t *Task, project, section, before, after string) *HttpError {
	p, herr := get[Project](s, KindProject, project)
	if herr != nil {
		return herr
	}
	if section == "" {
		if len(p.Sections) == 0 {
			return internal("Server Error", ErrNotFound)
		}
		section = p.Sections[0]
	}
	if !contains(p.Sections, section) {
		return badRequest("section: " + section + " is not in project " + p.GID)
	}

	for i, m := range t.Memberships {
		if m.Project == project && m.Section != section {
			if herr := s.unplaceTask(t.GID, m.Section); herr != nil {
				return herr
			}
			t.Memberships[i].Section = section
		}
	}
	if !t.InProject(project) {
		t.Memberships = append(t.Memberships, Membership{Project: project, Section: section})
	}

	sec, herr := get[Section](s, KindSection, section)
	if herr != nil {
		return herr
	}
	order, herr := insertAt(without(sec.Tasks, t.GID), t.GID, before, after, KindTask)
	if herr != nil {
		return herr
	}
	sec.Tasks = order
	return s.put(KindSection, sec.GID, sec)
}

func (s *Service) unplaceTask(task, section string) *HttpError {
	sec, herr := get[Section](s, KindSection, section)
	if herr != nil {
		if herr.Code == 404 {
			return nil
		}
		return herr
	}
	sec.Tasks = without(sec.Tasks, task)
	return s.put(KindSection, sec.GID, sec)
}

// insertAt places gid in order before or after an anchor, at the end when
// neither is given
func insertAt(order []string, gid, before, after, kind string) ([]string, *HttpError) {
	if before != "" && after != "" {
		return nil, badRequest("Only one of insert_before and insert_after may be given")
	}
	anchor := before
	if anchor == "" {
		anchor = after
	}
	if anchor == "" {
		return append(order, gid), nil
	}
	idx := -1
	for i, v := range order {
		if v == anchor {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, badRequest(kind + ": " + anchor + " is not a valid position anchor")
	}
	if after != "" {
		idx++
	}
	out := make([]string, 0, len(order)+1)
	out = append(out, order[:idx]...)
	out = append(out, gid)
	return append(out, order[idx:]...), nil
}
