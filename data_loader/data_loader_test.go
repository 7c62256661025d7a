package data_loader

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TykTechnologies/asana-mock/configuration"
)

func TestCreateDataLoader(t *testing.T) {
	tests := []struct {
		name     string
		conf     configuration.Configuration
		expected string
	}{
		{
			name:     "no storage settings",
			conf:     configuration.Configuration{},
			expected: "*data_loader.FileLoader",
		},
		{
			name:     "file",
			conf:     configuration.Configuration{Storage: &configuration.Storage{Loader: configuration.FILE}},
			expected: "*data_loader.FileLoader",
		},
		{
			name:     "none",
			conf:     configuration.Configuration{Storage: &configuration.Storage{Loader: configuration.NONE}},
			expected: "*data_loader.DumbLoader",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dataLoader, err := CreateDataLoader(tc.conf, "fixtures.json")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, reflect.TypeOf(dataLoader).String())
		})
	}
}

func TestCreateDataLoaderResolvesDataDir(t *testing.T) {
	conf := configuration.Configuration{DataDir: "/var/lib/asana-mock"}

	dataLoader, err := CreateDataLoader(conf, "")
	require.NoError(t, err)

	fl := dataLoader.(*FileLoader)
	assert.Equal(t, "/var/lib/asana-mock/fixtures.json", fl.config.FileName)

	dataLoader, err = CreateDataLoader(conf, "/tmp/other.json")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.json", dataLoader.(*FileLoader).config.FileName)
}
