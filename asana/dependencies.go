package asana

import (
	"fmt"
)

// MaxDependencies bounds the dependencies and dependents of one task, combined
const MaxDependencies = 30

// dependencyGraph maps a task gid to the gids it depends on
type dependencyGraph map[string][]string

func (s *Service) loadGraph() (map[string]*Task, dependencyGraph, *HttpError) {
	tasks, herr := all[Task](s, KindTask)
	if herr != nil {
		return nil, nil, herr
	}
	byGID := make(map[string]*Task, len(tasks))
	g := make(dependencyGraph, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		byGID[t.GID] = t
		g[t.GID] = append([]string{}, t.Dependencies...)
	}
	return byGID, g, nil
}

// reaches reports whether to can be reached from from by following dependencies
func (g dependencyGraph) reaches(from, to string) bool {
	seen := map[string]bool{}
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		stack = append(stack, g[cur]...)
	}
	return false
}

func (g dependencyGraph) dependents(gid string) []string {
	var out []string
	for t, deps := range g {
		if contains(deps, gid) {
			out = append(out, t)
		}
	}
	return out
}

func (g dependencyGraph) degree(gid string) int {
	return len(g[gid]) + len(g.dependents(gid))
}

// addEdge records that task depends on dep, refusing self references,
// cycles and tasks over the dependency limit
func (g dependencyGraph) addEdge(task, dep string) *HttpError {
	if task == dep {
		return badRequest("dependencies: A task cannot depend on itself")
	}
	if contains(g[task], dep) {
		return nil
	}
	if g.reaches(dep, task) {
		return badRequest(fmt.Sprintf("dependencies: Adding %s as a dependency of %s would create a cycle", dep, task))
	}
	for _, gid := range []string{task, dep} {
		if g.degree(gid)+1 > MaxDependencies {
			return badRequest(fmt.Sprintf("dependencies: Task %s would exceed %d dependencies and dependents combined", gid, MaxDependencies))
		}
	}
	g[task] = append(g[task], dep)
	return nil
}

func (s *Service) ListDependencies(caller, task string) ([]Task, *HttpError) {
	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return nil, herr
	}
	return s.orderedTasks(t.Dependencies)
}

func (s *Service) ListDependents(caller, task string) ([]Task, *HttpError) {
	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return nil, herr
	}
	return s.tasksWhere(func(other *Task) bool { return contains(other.Dependencies, t.GID) })
}

// AddDependencies marks task as dependent on each of deps. Either every edge
// is written or none is.
func (s *Service) AddDependencies(caller, task string, deps []string) *HttpError {
	defer s.lock()()

	if len(deps) == 0 {
		return missingField("dependencies")
	}
	edges := make([][2]string, 0, len(deps))
	for _, d := range deps {
		edges = append(edges, [2]string{task, d})
	}
	return s.addEdges(caller, task, edges)
}

// AddDependents marks each of dependents as dependent on task
func (s *Service) AddDependents(caller, task string, dependents []string) *HttpError {
	defer s.lock()()

	if len(dependents) == 0 {
		return missingField("dependents")
	}
	edges := make([][2]string, 0, len(dependents))
	for _, d := range dependents {
		edges = append(edges, [2]string{d, task})
	}
	return s.addEdges(caller, task, edges)
}

func (s *Service) addEdges(caller, task string, edges [][2]string) *HttpError {
	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return herr
	}
	byGID, g, herr := s.loadGraph()
	if herr != nil {
		return herr
	}
	for _, e := range edges {
		for _, gid := range e {
			other, ok := byGID[gid]
			if !ok {
				return notFound(KindTask, gid)
			}
			if other.Workspace != t.Workspace {
				return badRequest("dependencies: " + gid + " is not in workspace " + t.Workspace)
			}
		}
	}

	changed := map[string]bool{}
	for _, e := range edges {
		before := len(g[e[0]])
		if herr := g.addEdge(e[0], e[1]); herr != nil {
			return herr
		}
		if len(g[e[0]]) != before {
			changed[e[0]] = true
		}
	}

	now := s.now()
	for gid := range changed {
		other := byGID[gid]
		added := without(g[gid], other.Dependencies...)
		other.Dependencies = g[gid]
		other.ModifiedAt = now
		if herr := s.put(KindTask, other.GID, other); herr != nil {
			return herr
		}
		stories := make([]pendingStory, 0, len(added))
		for _, d := range added {
			stories = append(stories, pendingStory{"dependency_added", "marked this task as dependent on " + byGID[d].Name})
		}
		if herr := s.writeStories(caller, other.GID, stories); herr != nil {
			return herr
		}
	}
	return s.commit()
}

func (s *Service) RemoveDependencies(caller, task string, deps []string) *HttpError {
	defer s.lock()()

	if len(deps) == 0 {
		return missingField("dependencies")
	}
	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return herr
	}
	for _, d := range deps {
		if _, herr := get[Task](s, KindTask, d); herr != nil {
			return herr
		}
	}
	t.Dependencies = without(t.Dependencies, deps...)
	t.ModifiedAt = s.now()
	if herr := s.put(KindTask, t.GID, t); herr != nil {
		return herr
	}
	return s.commit()
}

func (s *Service) RemoveDependents(caller, task string, dependents []string) *HttpError {
	defer s.lock()()

	if len(dependents) == 0 {
		return missingField("dependents")
	}
	t, herr := s.GetTask(caller, task)
	if herr != nil {
		return herr
	}
	now := s.now()
	for _, d := range dependents {
		other, herr := get[Task](s, KindTask, d)
		if herr != nil {
			return herr
		}
		if !contains(other.Dependencies, t.GID) {
			continue
		}
		other.Dependencies = without(other.Dependencies, t.GID)
		other.ModifiedAt = now
		if herr := s.put(KindTask, other.GID, other); herr != nil {
			return herr
		}
	}
	return s.commit()
}
