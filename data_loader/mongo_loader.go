package data_loader

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/TykTechnologies/storage/persistent"
	"github.com/TykTechnologies/storage/persistent/model"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/mgo.v2"

	"github.com/TykTechnologies/asana-mock/asana"
)

var (
	mongoPrefix = "mongo"
)

const (
	mongoInitAttempts = 3
	// FixturesCollection holds the dataset the mongo loader reads and flushes
	FixturesCollection = "asana_fixtures"
)

// MongoLoaderConf is the configuration struct for a MongoLoader
type MongoLoaderConf struct {
	ClientOpts *persistent.ClientOpts
}

// MongoLoader implements DataLoader and will load the dataset from a mongo collection
type MongoLoader struct {
	config    MongoLoaderConf
	store     persistent.PersistentStorage
	SkipFlush bool
	// retryDelay is the pause between connection attempts
	retryDelay time.Duration
}

// fixtureDocument is one resource of the dataset, JSON encoded
type fixtureDocument struct {
	ID    model.ObjectID `bson:"_id,omitempty" json:"_id"`
	Kind  string         `bson:"kind" json:"kind"`
	Key   string         `bson:"key" json:"key"`
	Value string         `bson:"value" json:"value"`
}

func (f *fixtureDocument) GetObjectID() model.ObjectID {
	return f.ID
}

func (f *fixtureDocument) SetObjectID(id model.ObjectID) {
	f.ID = id
}

func (f *fixtureDocument) TableName() string {
	return FixturesCollection
}

// Init initialises the mongo loader
func (m *MongoLoader) Init(conf interface{}) error {
	mongoConfig, ok := conf.(MongoLoaderConf)
	if !ok {
		return errors.New("mongo loader expects a MongoLoaderConf")
	}
	m.config = mongoConfig
	if m.retryDelay == 0 {
		m.retryDelay = 5 * time.Second
	}

	var err error
	for attempt := 1; attempt <= mongoInitAttempts; attempt++ {
		var store persistent.PersistentStorage
		if store, err = persistent.NewPersistentStorage(mongoConfig.ClientOpts); err == nil {
			m.store = store
			return nil
		}
		dataLogger.WithError(err).WithField("prefix", mongoPrefix).Errorf("failed to init MongoDB connection, attempt %d", attempt)
		if attempt < mongoInitAttempts {
			time.Sleep(m.retryDelay)
		}
	}
	return err
}

// SetStore reuses an existing connection
func (m *MongoLoader) SetStore(store persistent.PersistentStorage) {
	m.store = store
}

// LoadIntoStore will load, unmarshal and copy the dataset into a store
func (m *MongoLoader) LoadIntoStore(store asana.Store) error {
	var docs []fixtureDocument

	err := m.store.Query(context.Background(), &fixtureDocument{}, &docs, nil)
	if err = handleEmptyDocumentsError(err); err != nil {
		dataLogger.Error("error reading fixtures from mongo: " + err.Error())
		return err
	}

	var loaded int
	for _, d := range docs {
		inputErr := store.SetKey(d.Kind, d.Key, json.RawMessage(d.Value))
		if inputErr != nil {
			dataLogger.WithField("error", inputErr).Error("Couldn't store document")
			continue
		}
		loaded++
	}

	dataLogger.Infof("Loaded %d documents from Mongo", loaded)
	return nil
}

// Flush replaces the fixtures collection with the contents of the store
func (m *MongoLoader) Flush(store asana.Store) error {
	if m.SkipFlush {
		return nil
	}
	ctx := context.Background()

	var rows []model.DBObject
	for _, kind := range asana.Kinds {
		var values []json.RawMessage
		if err := store.GetAll(kind, &values); err != nil {
			dataLogger.WithError(err).Error("reading store for mongo flushing")
			return err
		}
		for _, v := range values {
			var ref struct {
				GID string `json:"gid"`
			}
			if err := json.Unmarshal(v, &ref); err != nil {
				dataLogger.WithError(err).Error("un-marshaling document for mongo flushing")
				return err
			}
			rows = append(rows, &fixtureDocument{Kind: kind, Key: ref.GID, Value: string(v)})
		}
	}

	//empty to store new changes
	if err := m.store.Drop(ctx, &fixtureDocument{}); err != nil && !isMissingCollection(err) {
		dataLogger.WithError(err).Error("emptying fixtures collection")
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	if err := m.store.Insert(ctx, rows...); err != nil {
		dataLogger.WithError(err).Error("error refreshing fixtures records in mongo")
		return err
	}
	return nil
}

// handleEmptyDocumentsError treats an empty collection as an empty dataset
func handleEmptyDocumentsError(err error) error {
	if err == nil || errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, mgo.ErrNotFound) {
		return nil
	}
	return err
}

// isMissingCollection reports the error mongo returns when dropping a collection that was never created
func isMissingCollection(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Name == "NamespaceNotFound"
	}
	return handleEmptyDocumentsError(err) == nil
}
