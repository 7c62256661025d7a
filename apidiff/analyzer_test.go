package apidiff

import (
	"testing"

	"github.com/TykTechnologies/asana-mock/api"
	"github.com/TykTechnologies/asana-mock/asana"
	"github.com/TykTechnologies/asana-mock/backends"
	"github.com/TykTechnologies/asana-mock/configuration"
	"github.com/TykTechnologies/asana-mock/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMockRouter(t *testing.T) {
	store := &backends.InMemoryBackend{}
	require.NoError(t, store.Init(nil))
	router := api.NewRouter(asana.NewService(store, nil), configuration.Configuration{})

	endpoints, err := FromRouter(router, constants.BasePath)
	require.NoError(t, err)

	served := map[string]bool{}
	for _, e := range endpoints {
		served[e.Key()] = true
	}
	for _, want := range []string{
		"GET /tasks/{}",
		"POST /tasks/{}/addDependencies",
		"GET /tasks/{}/dependents",
		"POST /projects/{}/sections/insert",
		"GET /workspaces/{}/users",
	} {
		assert.True(t, served[want], want)
	}
	assert.False(t, served["GET /health"])
}
