package initializer

import (
	"testing"

	"github.com/TykTechnologies/storage/persistent"
	temporal "github.com/TykTechnologies/storage/temporal/keyvalue"
	mocks "github.com/TykTechnologies/storage/temporal/tempmocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TykTechnologies/asana-mock/backends"
	"github.com/TykTechnologies/asana-mock/configuration"
	"github.com/TykTechnologies/asana-mock/constants"
)

func TestCreateBackendFromRedisConn(t *testing.T) {
	var kv temporal.KeyValue
	keyPrefix := "test-prefix"

	// Call the function
	result := CreateBackendFromRedisConn(kv, keyPrefix)

	// Assert that result is not nil
	assert.NotNil(t, result)
	redisBackend, ok := result.(*backends.RedisBackend)
	assert.True(t, ok)

	// Assert that the KeyPrefix is correctly set
	assert.Equal(t, keyPrefix, redisBackend.KeyPrefix)
}

func TestCreateBackendFromPersistent(t *testing.T) {
	var store persistent.PersistentStorage

	result, err := CreateBackendFromPersistent(store, "test_")
	require.NoError(t, err)
	mongoBackend, ok := result.(*backends.MongoBackend)
	require.True(t, ok)
	assert.Equal(t, "test_", mongoBackend.CollectionPrefix)

	result, err = CreateBackendFromPersistent(store, "")
	require.NoError(t, err)
	assert.Equal(t, backends.DefaultCollectionPrefix, result.(*backends.MongoBackend).CollectionPrefix)
}

func TestInitBackend(t *testing.T) {
	tests := []struct {
		name     string
		storage  *configuration.Storage
		expected interface{}
	}{
		{name: "default", storage: nil, expected: &backends.InMemoryBackend{}},
		{name: "memory", storage: &configuration.Storage{StorageType: constants.MemoryStorage}, expected: &backends.InMemoryBackend{}},
		{
			name: "sqlite",
			storage: &configuration.Storage{
				StorageType: constants.SQLiteStorage,
				SQLiteConf:  &configuration.SQLiteConf{Path: t.TempDir() + "/init.db"},
			},
			expected: &backends.SQLiteBackend{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, err := InitBackend(configuration.Configuration{Storage: tc.storage})
			require.NoError(t, err)
			assert.IsType(t, tc.expected, store)
		})
	}
}

func TestInitBackendUnknownType(t *testing.T) {
	_, err := InitBackend(configuration.Configuration{Storage: &configuration.Storage{StorageType: "cassandra"}})
	assert.Error(t, err)
}

func TestEmbeddedStart(t *testing.T) {
	e := &Embedded{Logger: logrus.New()}
	_, err := e.Start()
	assert.Error(t, err)

	e.KV = mocks.NewKeyValue(t)
	svc, err := e.Start()
	require.NoError(t, err)
	assert.IsType(t, &backends.RedisBackend{}, svc.Store)
	assert.Equal(t, configuration.DefaultRedisPrefix, svc.Store.(*backends.RedisBackend).KeyPrefix)
}
