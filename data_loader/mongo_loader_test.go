package data_loader

import (
	"context"
	"errors"
	"testing"

	"github.com/TykTechnologies/storage/persistent"
	"github.com/TykTechnologies/storage/persistent/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/mgo.v2"

	"github.com/TykTechnologies/asana-mock/asana"
)

// testCase represents a structure for test cases
type testCase struct {
	name        string
	errorToPass error
	expectError bool
}

// TestHandleEmptyDocumentsError tests the handleEmptyDocumentsError function using a matrix of test cases.
func TestHandleEmptyDocumentsError(t *testing.T) {
	testCases := []testCase{
		{
			name:        "Nil Error",
			errorToPass: nil,
			expectError: false,
		},
		{
			name:        "mongo: no documents in result",
			errorToPass: mongo.ErrNoDocuments,
			expectError: false,
		},
		{
			name:        "not found",
			errorToPass: mgo.ErrNotFound,
			expectError: false,
		},
		{
			name:        "Other Error",
			errorToPass: errors.New("some other error"),
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := handleEmptyDocumentsError(tc.errorToPass)

			isErr := err != nil
			if isErr != tc.expectError {
				t.Errorf("Test '%s' failed: Expected error: %v, Got error: %v", tc.name, tc.expectError, err)
			}
		})
	}
}

// fakeCollection stands in for the fixtures collection
type fakeCollection struct {
	persistent.PersistentStorage
	docs    []fixtureDocument
	dropped int
}

func (f *fakeCollection) Query(_ context.Context, _ model.DBObject, result interface{}, _ model.DBM) error {
	if len(f.docs) == 0 {
		return mongo.ErrNoDocuments
	}
	*(result.(*[]fixtureDocument)) = append([]fixtureDocument{}, f.docs...)
	return nil
}

func (f *fakeCollection) Drop(context.Context, model.DBObject) error {
	f.dropped++
	f.docs = nil
	return nil
}

func (f *fakeCollection) Insert(_ context.Context, rows ...model.DBObject) error {
	for _, r := range rows {
		f.docs = append(f.docs, *(r.(*fixtureDocument)))
	}
	return nil
}

func TestMongoLoaderRoundTrip(t *testing.T) {
	coll := &fakeCollection{docs: []fixtureDocument{
		{Kind: asana.KindWorkspace, Key: "1", Value: `{"gid":"1","name":"Acme"}`},
		{Kind: asana.KindTask, Key: "2", Value: `{"gid":"2","name":"Ship it","workspace":"1"}`},
	}}
	loader := &MongoLoader{}
	loader.SetStore(coll)

	store := newStore(t)
	require.NoError(t, loader.LoadIntoStore(store))

	var task asana.Task
	require.NoError(t, store.GetKey(asana.KindTask, "2", &task))
	assert.Equal(t, "Ship it", task.Name)

	require.NoError(t, store.SetKey(asana.KindTag, "3", asana.Tag{GID: "3", Name: "urgent"}))
	require.NoError(t, loader.Flush(store))

	assert.Equal(t, 1, coll.dropped)
	require.Len(t, coll.docs, 3)
	kinds := map[string]string{}
	for _, d := range coll.docs {
		kinds[d.Key] = d.Kind
	}
	assert.Equal(t, map[string]string{"1": asana.KindWorkspace, "2": asana.KindTask, "3": asana.KindTag}, kinds)
}

func TestMongoLoaderEmptyCollection(t *testing.T) {
	loader := &MongoLoader{}
	loader.SetStore(&fakeCollection{})
	assert.NoError(t, loader.LoadIntoStore(newStore(t)))
}

func TestMongoLoaderSkipFlush(t *testing.T) {
	coll := &fakeCollection{}
	loader := &MongoLoader{SkipFlush: true}
	loader.SetStore(coll)

	require.NoError(t, loader.Flush(newStore(t)))
	assert.Zero(t, coll.dropped)
}
