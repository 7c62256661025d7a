package api

import (
	"time"

	"github.com/TykTechnologies/asana-mock/asana"
)

const timeLayout = "2006-01-02T15:04:05.000Z"

func timestamp(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func nullable(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

// ref renders a reference to another resource in its compact form, null when unset
func (a *API) ref(kind, gid string) interface{} {
	if gid == "" {
		return nil
	}
	return a.compactRef(kind, gid)
}

func (a *API) compactRef(kind, gid string) resource {
	out := resource{"gid": gid, "resource_type": kind, "name": a.Service.Name(kind, gid)}
	if kind == asana.KindTask {
		out["resource_subtype"] = "default_task"
	}
	return out
}

func (a *API) refs(kind string, gids []string) []resource {
	out := make([]resource, 0, len(gids))
	for _, gid := range gids {
		out = append(out, a.compactRef(kind, gid))
	}
	return out
}

func compact(kind, gid, name string) resource {
	return resource{"gid": gid, "resource_type": kind, "name": name}
}

func (a *API) compactWorkspace(ws *asana.Workspace) resource {
	return compact(asana.KindWorkspace, ws.GID, ws.Name)
}

func (a *API) renderWorkspace(ws *asana.Workspace) resource {
	domains := ws.EmailDomains
	if domains == nil {
		domains = []string{}
	}
	out := a.compactWorkspace(ws)
	out["is_organization"] = ws.IsOrganization
	out["email_domains"] = domains
	return out
}

func (a *API) compactUser(u *asana.User) resource {
	return compact(asana.KindUser, u.GID, u.Name)
}

func (a *API) renderUser(u *asana.User) resource {
	out := a.compactUser(u)
	out["email"] = u.Email
	out["photo"] = nil
	out["workspaces"] = a.refs(asana.KindWorkspace, u.Workspaces)
	return out
}

func (a *API) compactTeam(t *asana.Team) resource {
	return compact(asana.KindTeam, t.GID, t.Name)
}

func (a *API) renderTeam(t *asana.Team) resource {
	out := a.compactTeam(t)
	out["description"] = t.Description
	out["organization"] = a.ref(asana.KindWorkspace, t.Organization)
	out["permalink_url"] = "https://app.asana.com/0/" + t.GID + "/list"
	return out
}

func (a *API) compactProject(p *asana.Project) resource {
	return compact(asana.KindProject, p.GID, p.Name)
}

func (a *API) renderProject(p *asana.Project) resource {
	out := a.compactProject(p)
	out["notes"] = p.Notes
	out["color"] = nullable(p.Color)
	out["archived"] = p.Archived
	out["public"] = p.Public
	out["workspace"] = a.ref(asana.KindWorkspace, p.Workspace)
	out["team"] = a.ref(asana.KindTeam, p.Team)
	out["owner"] = a.ref(asana.KindUser, p.Owner)
	out["members"] = a.refs(asana.KindUser, p.Members)
	out["followers"] = a.refs(asana.KindUser, p.Followers)
	out["due_on"] = nullable(p.DueOn)
	out["start_on"] = nullable(p.StartOn)
	out["created_at"] = timestamp(p.CreatedAt)
	out["modified_at"] = timestamp(p.ModifiedAt)
	out["permalink_url"] = "https://app.asana.com/0/" + p.GID + "/list"
	return out
}

func (a *API) compactSection(s *asana.Section) resource {
	return compact(asana.KindSection, s.GID, s.Name)
}

func (a *API) renderSection(s *asana.Section) resource {
	out := a.compactSection(s)
	out["project"] = a.ref(asana.KindProject, s.Project)
	out["projects"] = a.refs(asana.KindProject, []string{s.Project})
	out["created_at"] = timestamp(s.CreatedAt)
	return out
}

func (a *API) compactTask(t *asana.Task) resource {
	out := compact(asana.KindTask, t.GID, t.Name)
	out["resource_subtype"] = "default_task"
	return out
}

// renderTask derives dependents and num_subtasks, which are not stored on the task
func (a *API) renderTask(t *asana.Task) resource {
	out := a.compactTask(t)
	out["notes"] = t.Notes
	out["completed"] = t.Completed
	if t.CompletedAt != nil {
		out["completed_at"] = timestamp(*t.CompletedAt)
	} else {
		out["completed_at"] = nil
	}
	out["assignee"] = a.ref(asana.KindUser, t.Assignee)
	out["workspace"] = a.ref(asana.KindWorkspace, t.Workspace)
	out["parent"] = a.ref(asana.KindTask, t.Parent)
	out["projects"] = a.refs(asana.KindProject, t.Projects())

	memberships := make([]resource, 0, len(t.Memberships))
	for _, m := range t.Memberships {
		memberships = append(memberships, resource{
			"project": a.ref(asana.KindProject, m.Project),
			"section": a.ref(asana.KindSection, m.Section),
		})
	}
	out["memberships"] = memberships
	out["tags"] = a.refs(asana.KindTag, t.Tags)
	out["followers"] = a.refs(asana.KindUser, t.Followers)
	out["dependencies"] = a.refs(asana.KindTask, t.Dependencies)

	dependents := []resource{}
	if tasks, herr := a.Service.ListDependents("", t.GID); herr == nil {
		for i := range tasks {
			dependents = append(dependents, a.compactTask(&tasks[i]))
		}
	}
	out["dependents"] = dependents
	out["num_subtasks"] = a.Service.CountSubtasks(t.GID)
	out["due_on"] = nullable(t.DueOn)
	out["due_at"] = nullable(t.DueAt)
	out["start_on"] = nullable(t.StartOn)
	out["created_at"] = timestamp(t.CreatedAt)
	out["modified_at"] = timestamp(t.ModifiedAt)

	project := "0"
	if len(t.Memberships) > 0 {
		project = t.Memberships[0].Project
	}
	out["permalink_url"] = "https://app.asana.com/0/" + project + "/" + t.GID
	return out
}

func (a *API) compactTag(t *asana.Tag) resource {
	return compact(asana.KindTag, t.GID, t.Name)
}

func (a *API) renderTag(t *asana.Tag) resource {
	out := a.compactTag(t)
	out["color"] = nullable(t.Color)
	out["notes"] = t.Notes
	out["workspace"] = a.ref(asana.KindWorkspace, t.Workspace)
	out["followers"] = a.refs(asana.KindUser, t.Followers)
	out["created_at"] = timestamp(t.CreatedAt)
	return out
}

func (a *API) compactStory(s *asana.Story) resource {
	return resource{
		"gid":              s.GID,
		"resource_type":    asana.KindStory,
		"created_at":       timestamp(s.CreatedAt),
		"created_by":       a.ref(asana.KindUser, s.CreatedBy),
		"resource_subtype": s.ResourceSubtype,
		"text":             s.Text,
		"type":             s.Type,
	}
}

func (a *API) renderStory(s *asana.Story) resource {
	out := a.compactStory(s)
	out["target"] = a.ref(asana.KindTask, s.Target)
	out["is_editable"] = s.Type == asana.StoryComment
	return out
}
