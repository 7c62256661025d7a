package backends

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/TykTechnologies/storage/persistent"
	"github.com/TykTechnologies/storage/persistent/model"
	"github.com/TykTechnologies/storage/persistent/utils"

	"github.com/TykTechnologies/asana-mock/asana"
)

var mongoPrefix = "mongo-backend"
var mongoLogger = log.WithField("prefix", mongoPrefix)

// DefaultCollectionPrefix names the collections as asana_<kind>
const DefaultCollectionPrefix = "asana_"

// MongoConfig is what Init expects: the storage client options and the
// collection naming
type MongoConfig struct {
	ClientOpts       *persistent.ClientOpts
	CollectionPrefix string
}

// MongoBackend implements asana.Store with one collection per kind. Each
// document keeps the gid and the JSON encoded resource.
type MongoBackend struct {
	store            persistent.PersistentStorage
	CollectionPrefix string
}

type mongoDocument struct {
	ID    model.ObjectID `bson:"_id,omitempty" json:"_id"`
	Key   string         `bson:"key" json:"key"`
	Value string         `bson:"value" json:"value"`
	table string
}

func (d *mongoDocument) GetObjectID() model.ObjectID {
	return d.ID
}

func (d *mongoDocument) SetObjectID(id model.ObjectID) {
	d.ID = id
}

func (d *mongoDocument) TableName() string {
	return d.table
}

func (m *MongoBackend) collection(kind string) *mongoDocument {
	return &mongoDocument{table: m.CollectionPrefix + kind}
}

// SetStore reuses an existing persistent storage connection
func (m *MongoBackend) SetStore(store persistent.PersistentStorage) {
	m.store = store
}

// Init opens the connection described by a MongoConfig. A nil config leaves
// the backend waiting for SetStore.
func (m *MongoBackend) Init(config interface{}) error {
	if m.CollectionPrefix == "" {
		m.CollectionPrefix = DefaultCollectionPrefix
	}
	if config == nil {
		return nil
	}
	conf, ok := config.(MongoConfig)
	if !ok {
		return errors.New("mongo backend expects a MongoConfig")
	}
	if conf.CollectionPrefix != "" {
		m.CollectionPrefix = conf.CollectionPrefix
	}

	store, err := persistent.NewPersistentStorage(conf.ClientOpts)
	if err != nil {
		mongoLogger.WithError(err).Error("failed to init MongoDB connection")
		return err
	}
	m.store = store
	return nil
}

func (m *MongoBackend) ready() error {
	if m.store == nil {
		return errors.New("mongo backend not initialised")
	}
	return nil
}

// SetKey upserts the document of kind with gid key
func (m *MongoBackend) SetKey(kind, key string, value interface{}) error {
	if err := m.ready(); err != nil {
		return err
	}
	asByte, err := json.Marshal(value)
	if err != nil {
		return err
	}

	row := m.collection(kind)
	err = m.store.Upsert(context.Background(), row,
		model.DBM{"key": key},
		model.DBM{"$set": model.DBM{"key": key, "value": string(asByte)}})
	if err != nil {
		mongoLogger.WithError(err).Error("error setting document in mongo")
	}
	return err
}

func (m *MongoBackend) GetKey(kind, key string, target interface{}) error {
	if err := m.ready(); err != nil {
		return err
	}

	row := m.collection(kind)
	err := m.store.Query(context.Background(), row, row, model.DBM{"key": key})
	if err != nil {
		if utils.IsErrNoRows(err) {
			return asana.ErrNotFound
		}
		mongoLogger.Error("error reading document from mongo: " + err.Error())
		return err
	}
	return json.Unmarshal([]byte(row.Value), target)
}

func (m *MongoBackend) GetAll(kind string, target interface{}) error {
	if err := m.ready(); err != nil {
		return err
	}

	var rows []mongoDocument
	err := m.store.Query(context.Background(), m.collection(kind), &rows, model.DBM{})
	if err != nil && !utils.IsErrNoRows(err) {
		mongoLogger.Error("error reading documents from mongo: " + err.Error())
		return err
	}
	docs := make([][]byte, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, []byte(r.Value))
	}
	return decodeAll(docs, target)
}

func (m *MongoBackend) DeleteKey(kind, key string) error {
	if err := m.ready(); err != nil {
		return err
	}

	err := m.store.Delete(context.Background(), m.collection(kind), model.DBM{"key": key})
	if err != nil {
		if utils.IsErrNoRows(err) {
			return asana.ErrNotFound
		}
		mongoLogger.WithError(err).Error("removing document")
	}
	return err
}
