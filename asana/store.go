package asana

import "errors"

// ErrNotFound is returned by a Store when a key does not exist
var ErrNotFound = errors.New("not found")

// Store is the document store every resource is persisted to. Values are
// JSON documents grouped by kind (the resource type) and keyed by gid.
type Store interface {
	Init(interface{}) error
	SetKey(kind string, key string, val interface{}) error
	GetKey(kind string, key string, target interface{}) error
	// GetAll decodes every document of kind into target, a pointer to a slice
	GetAll(kind string, target interface{}) error
	DeleteKey(kind string, key string) error
}

// Kinds double as the resource_type of the stored resources
const (
	KindWorkspace = "workspace"
	KindUser      = "user"
	KindTeam      = "team"
	KindProject   = "project"
	KindSection   = "section"
	KindTask      = "task"
	KindTag       = "tag"
	KindStory     = "story"
)

// Kinds lists every kind in dependency order, parents first
var Kinds = []string{KindWorkspace, KindUser, KindTeam, KindProject, KindSection, KindTask, KindTag, KindStory}
