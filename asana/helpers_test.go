package asana

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// mapStore keeps JSON documents in memory, enough to drive the service
type mapStore struct {
	mu   sync.Mutex
	docs map[string]map[string][]byte
}

func (m *mapStore) Init(interface{}) error {
	m.docs = map[string]map[string][]byte{}
	return nil
}

func (m *mapStore) SetKey(kind, key string, val interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	if m.docs[kind] == nil {
		m.docs[kind] = map[string][]byte{}
	}
	m.docs[kind][key] = b
	return nil
}

func (m *mapStore) GetKey(kind, key string, target interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.docs[kind][key]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(b, target)
}

func (m *mapStore) GetAll(kind string, target interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw := make([]json.RawMessage, 0, len(m.docs[kind]))
	for _, b := range m.docs[kind] {
		raw = append(raw, b)
	}
	b, _ := json.Marshal(raw)
	return json.Unmarshal(b, target)
}

func (m *mapStore) DeleteKey(kind, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[kind][key]; !ok {
		return ErrNotFound
	}
	delete(m.docs[kind], key)
	return nil
}

type fixture struct {
	ws      string
	org     string
	team    string
	alice   string
	bob     string
	project string
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// newTestService builds a service with a plain workspace, an organization
// with a team, two users and a project in the plain workspace
func newTestService(t *testing.T) (*Service, fixture) {
	t.Helper()

	store := &mapStore{}
	require.NoError(t, store.Init(nil))
	s := NewService(store, nil)

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	var f fixture
	ws, herr := s.CreateWorkspace("", WorkspaceRequest{Name: strPtr("Personal")})
	require.Nil(t, herr)
	f.ws = ws.GID

	org, herr := s.CreateWorkspace("", WorkspaceRequest{Name: strPtr("Acme"), IsOrganization: boolPtr(true)})
	require.Nil(t, herr)
	f.org = org.GID

	alice, herr := s.CreateUser(UserRequest{Name: "Alice", Email: "alice@example.com", Workspaces: []string{f.ws, f.org}})
	require.Nil(t, herr)
	f.alice = alice.GID

	bob, herr := s.CreateUser(UserRequest{Name: "Bob", Email: "bob@example.com", Workspaces: []string{f.ws}})
	require.Nil(t, herr)
	f.bob = bob.GID

	team, herr := s.CreateTeam(f.alice, TeamRequest{Name: strPtr("Engineering"), Organization: f.org})
	require.Nil(t, herr)
	f.team = team.GID

	p, herr := s.CreateProject(f.alice, ProjectRequest{Name: strPtr("Launch"), Workspace: f.ws})
	require.Nil(t, herr)
	f.project = p.GID

	return s, f
}

func mustTask(t *testing.T, s *Service, caller, workspace, name string) *Task {
	t.Helper()
	task, herr := s.CreateTask(caller, TaskRequest{Name: strPtr(name), Workspace: workspace})
	require.Nil(t, herr)
	return task
}

func gids(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.GID)
	}
	return out
}
