package apidiff

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func noop(http.ResponseWriter, *http.Request) {}

func testRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", noop).Methods(http.MethodGet)
	api := r.PathPrefix("/api/1.0").Subrouter()
	api.HandleFunc("/tasks", noop).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/tasks/{id}", noop).Methods(http.MethodGet).Name("getTask")
	api.HandleFunc("/tasks/{id}/stories", noop).Methods(http.MethodGet)
	api.HandleFunc("/unrouted", noop)
	return r
}

func TestFromRouter(t *testing.T) {
	endpoints, err := FromRouter(testRouter(), "/api/1.0/")
	require.NoError(t, err)

	var got []string
	for _, e := range endpoints {
		got = append(got, e.String())
	}
	assert.Equal(t, []string{
		"GET /tasks",
		"POST /tasks",
		"GET /tasks/{id}",
		"GET /tasks/{id}/stories",
	}, got)
	assert.Equal(t, "getTask", endpoints[2].OperationID)
	assert.Equal(t, "tasks", endpoints[3].Tag)
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/tasks/{task_gid}":         "/tasks/{}",
		"/tasks/{id}/":              "/tasks/{}",
		"/a/{x}/b/{y}":              "/a/{}/b/{}",
		"/":                         "/",
		"/workspaces/{gid}/addUser": "/workspaces/{}/addUser",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePath(in), in)
	}
}

func specEndpoints(t *testing.T) []Endpoint {
	t.Helper()
	endpoints, err := LoadSpec(context.Background(), fixtureSpec, "")
	require.NoError(t, err)
	return endpoints
}

func TestCompare(t *testing.T) {
	implemented, err := FromRouter(testRouter(), "/api/1.0")
	require.NoError(t, err)
	d := Compare(specEndpoints(t), implemented)

	keys := func(list []Endpoint) []string {
		var out []string
		for _, e := range list {
			out = append(out, e.String())
		}
		return out
	}
	assert.Equal(t, []string{"GET /tasks", "POST /tasks", "GET /tasks/{task_gid}"}, keys(d.Matched))
	assert.Equal(t, []string{
		"DELETE /tasks/{task_gid}",
		"GET /tasks/{task_gid}/time_tracking_entries",
		"POST /webhooks",
	}, keys(d.Missing))
	assert.Equal(t, []string{"GET /tasks/{id}/stories"}, keys(d.Extra))
	assert.InDelta(t, 50.0, d.Coverage(), 0.001)

	groups := d.MissingByTag()
	assert.Equal(t, []string{"Tasks", "Time tracking entries", UntaggedGroup}, Tags(groups))
	assert.Len(t, groups["Tasks"], 1)
}

func TestCoverageOfEmptySpec(t *testing.T) {
	assert.Equal(t, 100.0, Compare(nil, nil).Coverage())
}

func TestWriteReport(t *testing.T) {
	implemented, err := FromRouter(testRouter(), "/api/1.0")
	require.NoError(t, err)
	d := Compare(specEndpoints(t), implemented)

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteReport(&buf, d, FormatText))
		out := buf.String()
		assert.Contains(t, out, "Coverage: 50.0% (3 of 6 endpoints)")
		assert.Contains(t, out, "Time tracking entries (1)")
		assert.Contains(t, out, "getTimeTrackingEntriesForTask")
		assert.Contains(t, out, "/tasks/{id}/stories")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteReport(&buf, d, FormatJSON))
		var r Report
		require.NoError(t, json.Unmarshal(buf.Bytes(), &r))
		assert.Equal(t, 6, r.Declared)
		assert.Equal(t, 3, r.Implemented)
		assert.Len(t, r.Missing, 3)
		assert.Equal(t, TagSummary{Tag: "Tasks", Missing: 1}, r.MissingByTag[0])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteReport(&buf, d, FormatYAML))
		var r Report
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &r))
		assert.Equal(t, 50.0, r.Coverage)
		assert.Len(t, r.Extra, 1)
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, WriteReport(&bytes.Buffer{}, d, "xml"))
	})
}
