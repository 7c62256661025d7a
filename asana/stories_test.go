package asana

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditStories(t *testing.T) {
	s, f := newTestService(t)
	task, herr := s.CreateTask(f.alice, TaskRequest{Name: strPtr("discussed"), Projects: []string{f.project}})
	require.Nil(t, herr)
	comment, herr := s.CreateStoryOnTask(f.alice, task.GID, StoryRequest{Text: strPtr("first")})
	require.Nil(t, herr)

	stories, herr := s.ListTaskStories(f.alice, task.GID)
	require.Nil(t, herr)
	var system string
	for _, st := range stories {
		if st.Type == StorySystem {
			system = st.GID
		}
	}
	require.NotEmpty(t, system)

	tests := []struct {
		name   string
		caller string
		story  string
		code   int
	}{
		{name: "system story", caller: f.alice, story: system, code: http.StatusBadRequest},
		{name: "not the author", caller: f.bob, story: comment.GID, code: http.StatusForbidden},
		{name: "unknown story", caller: f.alice, story: "1234567890123456", code: http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, herr := s.UpdateStory(tc.caller, tc.story, StoryRequest{Text: strPtr("edited")})
			require.NotNil(t, herr)
			assert.Equal(t, tc.code, herr.Code)

			herr = s.DeleteStory(tc.caller, tc.story)
			require.NotNil(t, herr)
			assert.Equal(t, tc.code, herr.Code)
		})
	}

	_, herr = s.UpdateStory(f.alice, comment.GID, StoryRequest{Text: strPtr("")})
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusBadRequest, herr.Code)

	edited, herr := s.UpdateStory(f.alice, comment.GID, StoryRequest{Text: strPtr("second")})
	require.Nil(t, herr)
	assert.Equal(t, "second", edited.Text)

	require.Nil(t, s.DeleteStory(f.alice, comment.GID))
	_, herr = s.GetStory(f.alice, comment.GID)
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusNotFound, herr.Code)

	_, herr = s.GetStory(f.alice, system)
	assert.Nil(t, herr)
}
