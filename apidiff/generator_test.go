package apidiff

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoName(t *testing.T) {
	cases := map[string]string{
		"getTasksForProject": "GetTasksForProject",
		"task_gid":           "TaskGid",
		"Time tracking":      "TimeTracking",
		"opt-fields":         "OptFields",
		"":                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, GoName(in), in)
	}
}

func TestNewTemplateEndpoint(t *testing.T) {
	te, err := newTemplateEndpoint(Endpoint{
		Method:  "post",
		Path:    "/tasks/{task_gid}/addTag",
		Summary: "Add a tag\nto a task",
		Parameters: []Parameter{
			{Name: "task_gid", In: "path", Required: true},
			{Name: "opt_fields", In: "query"},
			{Name: "body", In: "query"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "PostTasksAddTag", te.Name)
	assert.Equal(t, "POST", te.Method)
	assert.True(t, te.HasBody)
	assert.Equal(t, "Add a tag to a task", te.Summary)
	assert.Equal(t, []templateParam{{Name: "task_gid", Field: "TaskGid"}}, te.PathParams)
	assert.Equal(t, []templateParam{{Name: "opt_fields", Field: "OptFields"}}, te.QueryParams)

	_, err = newTemplateEndpoint(Endpoint{Method: "GET", Path: "/x", OperationID: "2fa"})
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	missing := []Endpoint{
		{Method: "GET", Path: "/tasks/{task_gid}/time_tracking_entries", OperationID: "getTimeTrackingEntriesForTask", Tag: "Time tracking entries",
			Parameters: []Parameter{{Name: "task_gid", In: "path", Required: true}, {Name: "limit", In: "query"}}},
		{Method: "POST", Path: "/tasks/{task_gid}/time_tracking_entries", OperationID: "createTimeTrackingEntry", Tag: "Time tracking entries"},
		{Method: "POST", Path: "/webhooks", OperationID: "createWebhook"},
		{Method: "GET", Path: "/bad", OperationID: "9lives", Tag: "Webhooks"},
		{Method: "GET", Path: "/webhooks/dup", OperationID: "createWebhook"},
	}

	g := &Generator{OutDir: dir, Package: "scaffold"}
	res, err := g.Generate(missing)
	require.NoError(t, err)

	assert.Len(t, res.Failed, 2)
	assert.Len(t, res.Written, 6)
	assert.Empty(t, res.Skipped)

	handlers, err := os.ReadFile(filepath.Join(dir, "time_tracking_entries_handlers.go"))
	require.NoError(t, err)
	src := string(handlers)
	assert.Contains(t, src, "package scaffold")
	assert.Contains(t, src, "func RegisterTimeTrackingEntriesRoutes(r *mux.Router)")
	assert.Contains(t, src, `r.HandleFunc("/tasks/{task_gid}/time_tracking_entries", HandleGetTimeTrackingEntriesForTask).Methods("GET")`)
	assert.Contains(t, src, `TaskGid: mux.Vars(r)["task_gid"],`)
	assert.Contains(t, src, `Limit:   r.URL.Query().Get("limit"),`)

	interactors, err := os.ReadFile(filepath.Join(dir, "time_tracking_entries_interactors.go"))
	require.NoError(t, err)
	assert.Contains(t, string(interactors), `errors.New("createTimeTrackingEntry is not implemented")`)

	serializers, err := os.ReadFile(filepath.Join(dir, "time_tracking_entries_serializers.go"))
	require.NoError(t, err)
	assert.Contains(t, string(serializers), "type CreateTimeTrackingEntryBody struct")
	assert.NotContains(t, string(serializers), "type GetTimeTrackingEntriesForTaskBody struct")

	_, err = os.Stat(filepath.Join(dir, "untagged_handlers.go"))
	assert.NoError(t, err)

	t.Run("existing files are kept", func(t *testing.T) {
		res, err := g.Generate(missing[:1])
		require.NoError(t, err)
		assert.Empty(t, res.Written)
		assert.Len(t, res.Skipped, 3)
	})

	t.Run("force overwrites", func(t *testing.T) {
		forced := &Generator{OutDir: dir, Package: "scaffold", Force: true}
		res, err := forced.Generate(missing[:1])
		require.NoError(t, err)
		assert.Len(t, res.Written, 3)
	})
}

func TestGenerateRejectsBadPackage(t *testing.T) {
	g := &Generator{OutDir: t.TempDir(), Package: "Not-A-Package"}
	_, err := g.Generate(nil)
	assert.Error(t, err)
}

func TestGenerateTagFileCollision(t *testing.T) {
	dir := t.TempDir()
	g := &Generator{OutDir: dir, Package: "scaffold"}
	res, err := g.Generate([]Endpoint{
		{Method: "GET", Path: "/goals", OperationID: "getGoals", Tag: "Goals"},
		{Method: "GET", Path: "/goal_relationships", OperationID: "getGoalRelationships", Tag: "goals"},
	})
	require.NoError(t, err)

	assert.Len(t, res.Written, 3)
	assert.Empty(t, res.Skipped)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "GET /goal_relationships", res.Failed[0].Target)
	assert.Contains(t, res.Failed[0].Err.Error(), `"Goals"`)

	handlers, err := os.ReadFile(filepath.Join(dir, "goals_handlers.go"))
	require.NoError(t, err)
	assert.Contains(t, string(handlers), "HandleGetGoals")
	assert.NotContains(t, string(handlers), "HandleGetGoalRelationships")

	t.Run("force does not let the later tag overwrite", func(t *testing.T) {
		forced := &Generator{OutDir: dir, Package: "scaffold", Force: true}
		res, err := forced.Generate([]Endpoint{
			{Method: "GET", Path: "/goals", OperationID: "getGoals", Tag: "Goals"},
			{Method: "GET", Path: "/goal_relationships", OperationID: "getGoalRelationships", Tag: "goals"},
		})
		require.NoError(t, err)
		assert.Len(t, res.Written, 3)
		assert.Len(t, res.Failed, 1)
	})
}
