package asana

import (
	"time"
)

type TaskRequest struct {
	Name        *string      `json:"name"`
	Notes       *string      `json:"notes"`
	Completed   *bool        `json:"completed"`
	Assignee    NullString   `json:"assignee"`
	Workspace   string       `json:"workspace"`
	Parent      NullString   `json:"parent"`
	Projects    []string     `json:"projects"`
	Memberships []Membership `json:"memberships"`
	Tags        []string     `json:"tags"`
	Followers   []string     `json:"followers"`
	DueOn       NullString   `json:"due_on"`
	DueAt       NullString   `json:"due_at"`
	StartOn     NullString   `json:"start_on"`
}

// TaskFilter selects the tasks of ListTasks. Exactly one of Project,
// Section, Tag or Assignee (with Workspace) must be set.
type TaskFilter struct {
	Project   string
	Section   string
	Tag       string
	Assignee  string
	Workspace string
	// CompletedSince keeps incomplete tasks and tasks completed after it
	CompletedSince *time.Time
	ModifiedSince  *time.Time
}

// ProjectPlacement adds a task to a project, optionally at a given position
type ProjectPlacement struct {
	Project      string `json:"project"`
	Section      string `json:"section"`
	InsertBefore string `json:"insert_before"`
	InsertAfter  string `json:"insert_after"`
}

func (s *Service) CreateTask(caller string, req TaskRequest) (*Task, *HttpError) {
	defer s.lock()()
	return s.createTask(caller, req)
}

// CreateSubtask creates a task under parent
func (s *Service) CreateSubtask(caller, parent string, req TaskRequest) (*Task, *HttpError) {
	defer s.lock()()
	req.Parent = Str(parent)
	return s.createTask(caller, req)
}

func (s *Service) createTask(caller string, req TaskRequest) (*Task, *HttpError) {
	memberships := uniqueMemberships(req.Memberships, req.Projects)

	var parent *Task
	if req.Parent.Valid {
		var herr *HttpError
		if parent, herr = get[Task](s, KindTask, req.Parent.Value); herr != nil {
			return nil, herr
		}
	}

	workspace := req.Workspace
	if workspace == "" && len(memberships) > 0 {
		p, herr := get[Project](s, KindProject, memberships[0].Project)
		if herr != nil {
			return nil, herr
		}
		workspace = p.Workspace
	}
	if workspace == "" && parent != nil {
		workspace = parent.Workspace
	}
	if workspace == "" {
		return nil, badRequest("workspace: Missing input, one of workspace, projects or parent is required")
	}
	if _, herr := s.GetWorkspace(caller, workspace); herr != nil {
		return nil, herr
	}
	if parent != nil && parent.Workspace != workspace {
		return nil, badRequest("parent: " + parent.GID + " is not in workspace " + workspace)
	}

	projects := make([]*Project, 0, len(memberships))
	for _, m := range memberships {
		p, herr := get[Project](s, KindProject, m.Project)
		if herr != nil {
			return nil, herr
		}
		if p.Workspace != workspace {
			return nil, badRequest("projects: " + p.GID + " is not in workspace " + workspace)
		}
		if m.Section != "" && !contains(p.Sections, m.Section) {
			return nil, badRequest("section: " + m.Section + " is not in project " + p.GID)
		}
		projects = append(projects, p)
	}
	for _, tag := range req.Tags {
		tg, herr := get[Tag](s, KindTag, tag)
		if herr != nil {
			return nil, herr
		}
		if tg.Workspace != workspace {
			return nil, badRequest("tags: " + tg.GID + " is not in workspace " + workspace)
		}
	}
	followers, herr := s.workspaceUserGIDs(caller, workspace, req.Followers)
	if herr != nil {
		return nil, herr
	}

	now := s.now()
	t := &Task{
		GID:          NewGID(),
		Workspace:    workspace,
		Memberships:  []Membership{},
		Tags:         appendUnique([]string{}, req.Tags...),
		Followers:    []string{},
		Dependencies: []string{},
		CreatedAt:    now,
		ModifiedAt:   now,
	}
	if parent != nil {
		t.Parent = parent.GID
	}
	if caller != "" {
		t.Followers = append(t.Followers, caller)
	}
	t.Followers = appendUnique(t.Followers, followers...)

	stories, herr := s.applyTaskRequest(caller, t, req)
	if herr != nil {
		return nil, herr
	}
	for i, m := range memberships {
		if herr := s.placeTask(t, m.Project, m.Section, "", ""); herr != nil {
			return nil, herr
		}
		stories = append(stories, pendingStory{"added_to_project", "added to " + projects[i].Name})
	}
	if herr := s.put(KindTask, t.GID, t); herr != nil {
		return nil, herr
	}
	if herr := s.writeStories(caller, t.GID, stories); herr != nil {
		return nil, herr
	}
	return t, s.commit()
}

// uniqueMemberships keeps the first placement given for each project
func uniqueMemberships(memberships []Membership, projects []string) []Membership {
	out := make([]Membership, 0, len(memberships)+len(projects))
	seen := map[string]bool{}
	for _, m := range memberships {
		if !seen[m.Project] {
			seen[m.Project] = true
			out = append(out, m)
		}
	}
	for _, p := range projects {
		if !seen[p] {
			seen[p] = true
			out = append(out, Membership{Project: p})
		}
	}
	return out
}

// applyTaskRequest copies the updatable fields of req onto t and returns the
// system stories the change produces
func (s *Service) applyTaskRequest(caller string, t *Task, req TaskRequest) ([]pendingStory, *HttpError) {
	var stories []pendingStory

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Notes != nil {
		t.Notes = *req.Notes
	}
	if req.Completed != nil && *req.Completed != t.Completed {
		t.Completed = *req.Completed
		if t.Completed {
			now := s.now()
			t.CompletedAt = &now
			stories = append(stories, pendingStory{"marked_complete", "completed this task"})
		} else {
			t.CompletedAt = nil
			stories = append(stories, pendingStory{"marked_incomplete", "marked incomplete"})
		}
	}
	if req.Assignee.Set {
		if !req.Assignee.Valid {
			if t.Assignee != "" {
				stories = append(stories, pendingStory{"unassigned", "unassigned"})
			}
			t.Assignee = ""
		} else {
			u, herr := s.resolveUser(caller, req.Assignee.Value)
			if herr != nil {
				return nil, herr
			}
			if _, herr := s.requireWorkspaceUser(t.Workspace, u.GID); herr != nil {
				return nil, herr
			}
			if t.Assignee != u.GID {
				stories = append(stories, pendingStory{"assigned", "assigned to " + u.Name})
			}
			t.Assignee = u.GID
			t.Followers = appendUnique(t.Followers, u.GID)
		}
	}

	if req.DueOn.Valid && req.DueAt.Valid {
		return nil, badRequest("You may only provide one of due_on or due_at!")
	}
	if req.DueOn.Set {
		if req.DueOn.Valid && !validDate(req.DueOn.Value) {
			return nil, badRequest("due_on: Invalid date: " + req.DueOn.Value)
		}
		t.DueOn = req.DueOn.Value
		t.DueAt = ""
	}
	if req.DueAt.Set {
		if req.DueAt.Valid {
			at, err := time.Parse(time.RFC3339, req.DueAt.Value)
			if err != nil {
				return nil, badRequest("due_at: Invalid date-time: " + req.DueAt.Value)
			}
			t.DueAt = at.UTC().Format(time.RFC3339)
			t.DueOn = at.UTC().Format("2006-01-02")
		} else {
			t.DueAt = ""
			if !req.DueOn.Set {
				t.DueOn = ""
			}
		}
	}
	if req.StartOn.Set {
		if req.StartOn.Valid && !validDate(req.StartOn.Value) {
			return nil, badRequest("start_on: Invalid date: " + req.StartOn.Value)
		}
		t.StartOn = req.StartOn.Value
	}
	if t.StartOn != "" && t.DueOn == "" {
		return nil, badRequest("start_on: due_on or due_at must be set to set start_on")
	}
	if t.StartOn != "" && t.StartOn > t.DueOn {
		return nil, badRequest("start_on: Must be before due_on")
	}
	return stories, nil
}

func (s *Service) GetTask(caller, gid string) (*Task, *HttpError) {
	t, herr := get[Task](s, KindTask, gid)
	if herr != nil {
		return nil, herr
	}
	if herr := s.requireMember(caller, t.Workspace); herr != nil {
		return nil, herr
	}
	return t, nil
}

// UpdateTask changes scalar fields; projects, tags, parent and followers
// have their own endpoints
func (s *Service) UpdateTask(caller, gid string, req TaskRequest) (*Task, *HttpError) {
	defer s.lock()()

	t, herr := s.GetTask(caller, gid)
	if herr != nil {
		return nil, herr
	}
	switch {
	case req.Workspace != "" && req.Workspace != t.Workspace:
		return nil, badRequest("workspace: Cannot be changed")
	case req.Parent.Set:
		return nil, badRequest("parent: Use setParent to change the parent of a task")
	case len(req.Projects) > 0 || len(req.Memberships) > 0:
		return nil, badRequest("projects: Use addProject and removeProject to change the projects of a task")
	case len(req.Tags) > 0:
		return nil, badRequest("tags: Use addTag and removeTag to change the tags of a task")
	case len(req.Followers) > 0:
		return nil, badRequest("followers: Use addFollowers and removeFollowers to change the followers of a task")
	}

	stories, herr := s.applyTaskRequest(caller, t, req)
	if herr != nil {
		return nil, herr
	}
	t.ModifiedAt = s.now()
	if herr := s.put(KindTask, t.GID, t); herr != nil {
		return nil, herr
	}
	if herr := s.writeStories(caller, t.GID, stories); herr != nil {
		return nil, herr
	}
	return t, s.commit()
}

// DeleteTask removes the task with its subtasks and stories, and drops it
// from every dependency list and section it appears in
func (s *Service) DeleteTask(caller, gid string) *HttpError {
	defer s.lock()()

	t, herr := s.GetTask(caller, gid)
	if herr != nil {
		return herr
	}
	tasks, herr := all[Task](s, KindTask)
	if herr != nil {
		return herr
	}

	doomed := map[string]bool{t.GID: true}
	for grew := true; grew; {
		grew = false
		for _, other := range tasks {
			if other.Parent != "" && doomed[other.Parent] && !doomed[other.GID] {
				doomed[other.GID] = true
				grew = true
			}
		}
	}

	for i := range tasks {
		other := &tasks[i]
		if doomed[other.GID] {
			continue
		}
		kept := other.Dependencies[:0:0]
		for _, d := range other.Dependencies {
			if !doomed[d] {
				kept = append(kept, d)
			}
		}
		if len(kept) != len(other.Dependencies) {
			other.Dependencies = kept
			other.ModifiedAt = s.now()
			if herr := s.put(KindTask, other.GID, other); herr != nil {
				return herr
			}
		}
	}

	stories, herr := all[Story](s, KindStory)
	if herr != nil {
		return herr
	}
	for _, st := range stories {
		if doomed[st.Target] {
			if herr := s.del(KindStory, st.GID); herr != nil {
				return herr
			}
		}
	}

	for _, other := range tasks {
		if !doomed[other.GID] {
			continue
		}
		for _, m := range other.Memberships {
			if herr := s.unplaceTask(other.GID, m.Section); herr != nil {
				return herr
			}
		}
		if herr := s.del(KindTask, other.GID); herr != nil {
			return herr
		}
	}
	return s.commit()
}

func (s *Service) ListTasks(caller string, f TaskFilter) ([]Task, *HttpError) {
	set := 0
	for _, v := range []string{f.Project, f.Section, f.Tag, f.Assignee} {
		if v != "" {
			set++
		}
	}
	if set != 1 || (f.Assignee != "") != (f.Workspace != "") {
		return nil, badRequest("Must specify exactly one of project, tag, section, or assignee + workspace")
	}

	var (
		out  []Task
		herr *HttpError
	)
	switch {
	case f.Project != "":
		out, herr = s.projectTasks(caller, f.Project)
	case f.Section != "":
		out, herr = s.sectionTasks(caller, f.Section)
	case f.Tag != "":
		var tag *Tag
		if tag, herr = s.GetTag(caller, f.Tag); herr == nil {
			out, herr = s.tasksWhere(func(t *Task) bool { return contains(t.Tags, tag.GID) })
		}
	default:
		if _, herr = s.GetWorkspace(caller, f.Workspace); herr == nil {
			var assignee string
			if assignee, herr = s.resolveUserGID(caller, f.Assignee); herr == nil {
				out, herr = s.tasksWhere(func(t *Task) bool {
					return t.Workspace == f.Workspace && t.Assignee == assignee
				})
			}
		}
	}
	if herr != nil {
		return nil, herr
	}

	filtered := out[:0]
	for _, t := range out {
		if f.CompletedSince != nil && t.Completed && (t.CompletedAt == nil || t.CompletedAt.Before(*f.CompletedSince)) {
			continue
		}
		if f.ModifiedSince != nil && t.ModifiedAt.Before(*f.ModifiedSince) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered, nil
}

// projectTasks lists tasks in section order, then in their order within each section
func (s *Service) projectTasks(caller, project string) ([]Task, *HttpError) {
	sections, herr := s.ListProjectSections(caller, project)
	if herr != nil {
		return nil, herr
	}
	var out []Task
	for _, sec := range sections {
		tasks, herr := s.orderedTasks(sec.Tasks)
		if herr != nil {
			return nil, herr
		}
		out = append(out, tasks...)
	}
	return out, nil
}

func (s *Service) sectionTasks(caller, section string) ([]Task, *HttpError) {
	sec, herr := s.GetSection(caller, section)
	if herr != nil {
		return nil, herr
	}
	return s.orderedTasks(sec.Tasks)
}

func (s *Service) orderedTasks(gids []string) ([]Task, *HttpError) {
	out := make([]Task, 0, len(gids))
	for _, gid := range gids {
		t, herr := get[Task](s, KindTask, gid)
		if herr != nil {
			if herr.Code == 404 {
				continue
			}
			return nil, herr
		}
		out = append(out, *t)
	}
	return out, nil
}

func (s *Service) tasksWhere(keep func(*Task) bool) ([]Task, *HttpError) {
	tasks, herr := all[Task](s, KindTask)
	if herr != nil {
		return nil, herr
	}
	out := tasks[:0]
	for i := range tasks {
		if keep(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	byCreation(out, func(t *Task) (time.Time, string) { return t.CreatedAt, t.GID })
	return out, nil
}

func (s *Service) ListSubtasks(caller, task string) ([]Task, *HttpError) {
	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return nil, herr
	}
	return s.tasksWhere(func(other *Task) bool { return other.Parent == t.GID })
}

// CountSubtasks backs the num_subtasks field
func (s *Service) CountSubtasks(task string) int {
	subtasks, herr := s.tasksWhere(func(other *Task) bool { return other.Parent == task })
	if herr != nil {
		return 0
	}
	return len(subtasks)
}

// SetParent moves a task under parent, or makes it top level when parent is
// null. A task cannot become a descendant of itself.
func (s *Service) SetParent(caller, task string, parent NullString) (*Task, *HttpError) {
	defer s.lock()()

	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return nil, herr
	}
	if !parent.Set {
		return nil, missingField("parent")
	}
	if !parent.Valid {
		t.Parent = ""
	} else {
		p, herr := get[Task](s, KindTask, parent.Value)
		if herr != nil {
			return nil, herr
		}
		if p.Workspace != t.Workspace {
			return nil, badRequest("parent: " + p.GID + " is not in workspace " + t.Workspace)
		}
		for cur := p; cur != nil; {
			if cur.GID == t.GID {
				return nil, badRequest("parent: Cannot make a task a subtask of itself or of one of its subtasks")
			}
			if cur.Parent == "" {
				break
			}
			if cur, herr = get[Task](s, KindTask, cur.Parent); herr != nil {
				return nil, herr
			}
		}
		t.Parent = p.GID
	}
	t.ModifiedAt = s.now()
	if herr := s.put(KindTask, t.GID, t); herr != nil {
		return nil, herr
	}
	return t, s.commit()
}

func (s *Service) AddProjectToTask(caller, task string, req ProjectPlacement) *HttpError {
	defer s.lock()()

	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return herr
	}
	p, herr := get[Project](s, KindProject, req.Project)
	if herr != nil {
		return herr
	}
	if p.Workspace != t.Workspace {
		return badRequest("project: " + p.GID + " is not in workspace " + t.Workspace)
	}
	added := !t.InProject(p.GID)
	if herr := s.placeTask(t, p.GID, req.Section, req.InsertBefore, req.InsertAfter); herr != nil {
		return herr
	}
	t.ModifiedAt = s.now()
	if herr := s.put(KindTask, t.GID, t); herr != nil {
		return herr
	}
	if added {
		if herr := s.writeStories(caller, t.GID, []pendingStory{{"added_to_project", "added to " + p.Name}}); herr != nil {
			return herr
		}
	}
	return s.commit()
}

func (s *Service) RemoveProjectFromTask(caller, task, project string) *HttpError {
	defer s.lock()()

	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return herr
	}
	p, herr := get[Project](s, KindProject, project)
	if herr != nil {
		return herr
	}
	if !t.InProject(p.GID) {
		return nil
	}
	for _, m := range t.Memberships {
		if m.Project == p.GID {
			if herr := s.unplaceTask(t.GID, m.Section); herr != nil {
				return herr
			}
		}
	}
	t.Memberships = withoutProject(t.Memberships, p.GID)
	t.ModifiedAt = s.now()
	if herr := s.put(KindTask, t.GID, t); herr != nil {
		return herr
	}
	if herr := s.writeStories(caller, t.GID, []pendingStory{{"removed_from_project", "removed from " + p.Name}}); herr != nil {
		return herr
	}
	return s.commit()
}

func (s *Service) AddTagToTask(caller, task, tag string) *HttpError {
	defer s.lock()()

	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return herr
	}
	tg, herr := get[Tag](s, KindTag, tag)
	if herr != nil {
		return herr
	}
	if tg.Workspace != t.Workspace {
		return badRequest("tag: " + tg.GID + " is not in workspace " + t.Workspace)
	}
	if contains(t.Tags, tg.GID) {
		return nil
	}
	t.Tags = append(t.Tags, tg.GID)
	t.ModifiedAt = s.now()
	if herr := s.put(KindTask, t.GID, t); herr != nil {
		return herr
	}
	return s.commit()
}

func (s *Service) RemoveTagFromTask(caller, task, tag string) *HttpError {
	defer s.lock()()

	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return herr
	}
	if _, herr := get[Tag](s, KindTag, tag); herr != nil {
		return herr
	}
	if !contains(t.Tags, tag) {
		return nil
	}
	t.Tags = without(t.Tags, tag)
	t.ModifiedAt = s.now()
	if herr := s.put(KindTask, t.GID, t); herr != nil {
		return herr
	}
	return s.commit()
}

func (s *Service) AddFollowersToTask(caller, task string, followers []string) (*Task, *HttpError) {
	defer s.lock()()

	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return nil, herr
	}
	if len(followers) == 0 {
		return nil, missingField("followers")
	}
	gids, herr := s.workspaceUserGIDs(caller, t.Workspace, followers)
	if herr != nil {
		return nil, herr
	}
	t.Followers = appendUnique(t.Followers, gids...)
	t.ModifiedAt = s.now()
	if herr := s.put(KindTask, t.GID, t); herr != nil {
		return nil, herr
	}
	return t, s.commit()
}

func (s *Service) RemoveFollowersFromTask(caller, task string, followers []string) (*Task, *HttpError) {
	defer s.lock()()

	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return nil, herr
	}
	if len(followers) == 0 {
		return nil, missingField("followers")
	}
	for _, f := range followers {
		gid, herr := s.resolveUserGID(caller, f)
		if herr != nil {
			return nil, herr
		}
		t.Followers = without(t.Followers, gid)
	}
	t.ModifiedAt = s.now()
	if herr := s.put(KindTask, t.GID, t); herr != nil {
		return nil, herr
	}
	return t, s.commit()
}
