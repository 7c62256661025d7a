package backends

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TykTechnologies/asana-mock/asana"
)

type aStruct struct {
	GID   string `json:"gid"`
	Thing string `json:"thing"`
}

func TestInMemoryBackend_GetAndSetKey(t *testing.T) {
	backend := &InMemoryBackend{}
	require.NoError(t, backend.Init(nil))

	saveVal := aStruct{GID: "1", Thing: "Test"}
	require.NoError(t, backend.SetKey(asana.KindTask, "1", saveVal))

	target := aStruct{}
	require.NoError(t, backend.GetKey(asana.KindTask, "1", &target))
	assert.Equal(t, saveVal, target)

	err := backend.GetKey(asana.KindProject, "1", &target)
	assert.ErrorIs(t, err, asana.ErrNotFound)
}

func TestInMemoryBackend_GetAll(t *testing.T) {
	backend := &InMemoryBackend{}
	require.NoError(t, backend.Init(nil))

	var empty []aStruct
	require.NoError(t, backend.GetAll(asana.KindTag, &empty))
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, backend.SetKey(asana.KindTag, "1", aStruct{GID: "1"}))
	require.NoError(t, backend.SetKey(asana.KindTag, "2", aStruct{GID: "2"}))
	require.NoError(t, backend.SetKey(asana.KindTask, "3", aStruct{GID: "3"}))

	var tags []aStruct
	require.NoError(t, backend.GetAll(asana.KindTag, &tags))
	assert.ElementsMatch(t, []aStruct{{GID: "1"}, {GID: "2"}}, tags)
}

func TestInMemoryBackend_DeleteKey(t *testing.T) {
	backend := &InMemoryBackend{}
	require.NoError(t, backend.Init(nil))
	require.NoError(t, backend.SetKey(asana.KindTag, "1", aStruct{GID: "1"}))

	require.NoError(t, backend.DeleteKey(asana.KindTag, "1"))
	assert.ErrorIs(t, backend.DeleteKey(asana.KindTag, "1"), asana.ErrNotFound)
}

func TestInMemoryBackend_NotInitialised(t *testing.T) {
	backend := &InMemoryBackend{}
	assert.Error(t, backend.SetKey(asana.KindTag, "1", aStruct{}))
}
