package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectFields(t *testing.T) {
	obj := resource{
		"gid":           "1",
		"resource_type": "task",
		"name":          "Ship",
		"notes":         "soon",
		"assignee":      nil,
		"workspace":     resource{"gid": "2", "resource_type": "workspace", "name": "Personal"},
		"memberships": []resource{
			{"project": resource{"gid": "3", "resource_type": "project", "name": "Launch"}, "section": resource{"gid": "4", "resource_type": "section", "name": "Todo"}},
		},
	}

	cases := []struct {
		name   string
		fields []string
		want   string
	}{
		{
			name:   "top level",
			fields: []string{"name"},
			want:   `{"gid":"1","resource_type":"task","name":"Ship"}`,
		},
		{
			name:   "null reference",
			fields: []string{"assignee.name"},
			want:   `{"gid":"1","resource_type":"task","assignee":null}`,
		},
		{
			name:   "nested object keeps its identity",
			fields: []string{"workspace.name"},
			want:   `{"gid":"1","resource_type":"task","workspace":{"gid":"2","resource_type":"workspace","name":"Personal"}}`,
		},
		{
			name:   "arrays merge several paths",
			fields: []string{"memberships.project.name", "memberships.section.gid"},
			want:   `{"gid":"1","resource_type":"task","memberships":[{"project":{"gid":"3","resource_type":"project","name":"Launch"},"section":{"gid":"4","resource_type":"section"}}]}`,
		},
		{
			name:   "unknown field",
			fields: []string{"color"},
			want:   `{"gid":"1","resource_type":"task"}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := json.Marshal(projectFields(obj, tc.fields))
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(got))
		})
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 20, 12345} {
		got, err := decodeOffset(encodeOffset(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}

	for _, bad := range []string{"", "!!", "bm90LWFuLW9mZnNldA", encodeOffset(-1)} {
		_, err := decodeOffset(bad)
		assert.Error(t, err, bad)
	}
}

func TestGIDListUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want gidList
	}{
		{`["1","2"]`, gidList{"1", "2"}},
		{`"1, 2,,3"`, gidList{"1", "2", "3"}},
		{`""`, nil},
	}
	for _, tc := range cases {
		var got gidList
		require.NoError(t, json.Unmarshal([]byte(tc.in), &got))
		assert.Equal(t, tc.want, got)
	}

	var got gidList
	assert.Error(t, json.Unmarshal([]byte(`12`), &got))
}
