package initializer

import (
	"errors"
	"fmt"

	"github.com/TykTechnologies/storage/persistent"
	temporal "github.com/TykTechnologies/storage/temporal/keyvalue"
	"github.com/sirupsen/logrus"

	"github.com/TykTechnologies/asana-mock/asana"
	"github.com/TykTechnologies/asana-mock/backends"
	"github.com/TykTechnologies/asana-mock/configuration"
	"github.com/TykTechnologies/asana-mock/constants"
	logger "github.com/TykTechnologies/asana-mock/log"
)

var log = logger.Get()
var initializerLogger = log.WithField("prefix", "ASANA MOCK INITIALIZER")

// InitBackend: Get our backend to use from configs files, new back-ends must be registered here
func InitBackend(conf configuration.Configuration) (asana.Store, error) {
	storage := conf.Storage
	if storage == nil {
		storage = &configuration.Storage{StorageType: constants.MemoryStorage}
	}

	var store asana.Store
	var storeConf interface{}

	switch storage.StorageType {
	case constants.MemoryStorage, "":
		store = &backends.InMemoryBackend{}
	case constants.RedisStorage:
		redisConf := storage.RedisConf
		if redisConf == nil {
			redisConf = &configuration.RedisConf{}
		}
		prefix := redisConf.KeyPrefix
		if prefix == "" {
			prefix = configuration.DefaultRedisPrefix
		}
		store = &backends.RedisBackend{KeyPrefix: prefix}
		storeConf = redisConf
	case constants.MongoStorage:
		mongoConf := storage.MongoConf
		if mongoConf == nil {
			mongoConf = &configuration.MongoConf{}
		}
		store = &backends.MongoBackend{}
		storeConf = backends.MongoConfig{
			ClientOpts:       mongoConf.MongoClientOpts(),
			CollectionPrefix: mongoConf.CollectionPrefix,
		}
	case constants.SQLiteStorage:
		path := configuration.DefaultSQLitePath
		if storage.SQLiteConf != nil && storage.SQLiteConf.Path != "" {
			path = storage.SQLiteConf.Path
		}
		store = &backends.SQLiteBackend{}
		storeConf = backends.SQLiteConfig{Path: path}
	default:
		return nil, fmt.Errorf("unknown storage type %q", storage.StorageType)
	}

	initializerLogger.WithField("storage_type", storage.StorageType).Info("Initialising Resource Store")
	if err := store.Init(storeConf); err != nil {
		return nil, err
	}
	return store, nil
}

// CreateBackendFromRedisConn: creates a redis backend from an existent redis Connection
func CreateBackendFromRedisConn(kv temporal.KeyValue, keyPrefix string) asana.Store {
	redisBackend := &backends.RedisBackend{KeyPrefix: keyPrefix}
	redisBackend.SetDb(kv)
	return redisBackend
}

// CreateBackendFromPersistent creates a mongo backend from an existent connection
func CreateBackendFromPersistent(store persistent.PersistentStorage, collectionPrefix string) (asana.Store, error) {
	mongoBackend := &backends.MongoBackend{CollectionPrefix: collectionPrefix}
	if err := mongoBackend.Init(nil); err != nil {
		return nil, err
	}
	mongoBackend.SetStore(store)
	return mongoBackend, nil
}

func setLogger(newLogger *logrus.Logger) {
	logger.SetLogger(newLogger)
	log = newLogger

	initializerLogger = &logrus.Entry{Logger: log}
	initializerLogger = initializerLogger.Logger.WithField("prefix", "ASANA MOCK INITIALIZER")
}

// Embedded runs the mock on a redis connection owned by another process
type Embedded struct {
	Logger    *logrus.Logger
	KV        temporal.KeyValue
	KeyPrefix string
}

// Start builds the service over the shared connection
func (e *Embedded) Start() (*asana.Service, error) {
	if e.Logger == nil {
		e.Logger = logrus.New()
	}
	setLogger(e.Logger)

	if e.KV == nil {
		return nil, errors.New("kv store cannot be nil")
	}
	prefix := e.KeyPrefix
	if prefix == "" {
		prefix = configuration.DefaultRedisPrefix
	}

	initializerLogger.Info("Initializing resource store")
	return asana.NewService(CreateBackendFromRedisConn(e.KV, prefix), nil), nil
}
