/*
Package asana holds the resource model of the mock and the operations that
act on it. Resources reference each other by gid; rendering them as compact
objects is left to the API layer.
*/
package asana

import "time"

// Workspace membership lives on the User, team membership on the Team
type Workspace struct {
	GID            string    `json:"gid"`
	Name           string    `json:"name"`
	IsOrganization bool      `json:"is_organization"`
	EmailDomains   []string  `json:"email_domains"`
	CreatedAt      time.Time `json:"created_at"`
}

type User struct {
	GID        string    `json:"gid"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Workspaces []string  `json:"workspaces"`
	CreatedAt  time.Time `json:"created_at"`
}

type Team struct {
	GID          string    `json:"gid"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Organization string    `json:"organization"`
	Members      []string  `json:"members"`
	CreatedAt    time.Time `json:"created_at"`
}

type Project struct {
	GID        string    `json:"gid"`
	Name       string    `json:"name"`
	Notes      string    `json:"notes"`
	Color      string    `json:"color"`
	Archived   bool      `json:"archived"`
	Public     bool      `json:"public"`
	Workspace  string    `json:"workspace"`
	Team       string    `json:"team"`
	Owner      string    `json:"owner"`
	Members    []string  `json:"members"`
	Followers  []string  `json:"followers"`
	Sections   []string  `json:"sections"`
	DueOn      string    `json:"due_on"`
	StartOn    string    `json:"start_on"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Section keeps the order of the tasks placed in it
type Section struct {
	GID       string    `json:"gid"`
	Name      string    `json:"name"`
	Project   string    `json:"project"`
	Tasks     []string  `json:"tasks"`
	CreatedAt time.Time `json:"created_at"`
}

// Membership places a task in a project, always inside one of its sections
type Membership struct {
	Project string `json:"project"`
	Section string `json:"section"`
}

// Task stores only its dependencies, dependents are derived from them
type Task struct {
	GID          string       `json:"gid"`
	Name         string       `json:"name"`
	Notes        string       `json:"notes"`
	Completed    bool         `json:"completed"`
	CompletedAt  *time.Time   `json:"completed_at"`
	Assignee     string       `json:"assignee"`
	Workspace    string       `json:"workspace"`
	Parent       string       `json:"parent"`
	Memberships  []Membership `json:"memberships"`
	Tags         []string     `json:"tags"`
	Followers    []string     `json:"followers"`
	Dependencies []string     `json:"dependencies"`
	DueOn        string       `json:"due_on"`
	DueAt        string       `json:"due_at"`
	StartOn      string       `json:"start_on"`
	CreatedAt    time.Time    `json:"created_at"`
	ModifiedAt   time.Time    `json:"modified_at"`
}

// Projects returns the gids of the projects the task is a member of
func (t *Task) Projects() []string {
	out := make([]string, 0, len(t.Memberships))
	for _, m := range t.Memberships {
		out = append(out, m.Project)
	}
	return out
}

// InProject reports whether the task is a member of project
func (t *Task) InProject(project string) bool {
	for _, m := range t.Memberships {
		if m.Project == project {
			return true
		}
	}
	return false
}

type Tag struct {
	GID       string    `json:"gid"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Notes     string    `json:"notes"`
	Workspace string    `json:"workspace"`
	Followers []string  `json:"followers"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	StoryComment = "comment"
	StorySystem  = "system"
)

type Story struct {
	GID             string    `json:"gid"`
	Type            string    `json:"type"`
	ResourceSubtype string    `json:"resource_subtype"`
	Text            string    `json:"text"`
	CreatedBy       string    `json:"created_by"`
	Target          string    `json:"target"`
	CreatedAt       time.Time `json:"created_at"`
}

// Dataset is a full dump of the store, used by the data loaders
type Dataset struct {
	Workspaces []Workspace `json:"workspaces"`
	Users      []User      `json:"users"`
	Teams      []Team      `json:"teams"`
	Projects   []Project   `json:"projects"`
	Sections   []Section   `json:"sections"`
	Tasks      []Task      `json:"tasks"`
	Tags       []Tag       `json:"tags"`
	Stories    []Story     `json:"stories"`
}
