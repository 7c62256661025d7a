package configuration

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/TykTechnologies/storage/persistent"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/TykTechnologies/asana-mock/constants"
	logger "github.com/TykTechnologies/asana-mock/log"
)

// EnvPrefix is the prefix of every environment variable read into the configuration
const EnvPrefix = "ASANA_MOCK"

var failCount int
var log = logger.Get()
var mainLoggerTag = "CONFIG"
var mainLogger = log.WithField("prefix", mainLoggerTag)

// data loaders
const (
	MONGO = "mongo"
	FILE  = "file"
	NONE  = "none"
)

const (
	DefaultPort         = 8080
	DefaultPageLimit    = 20
	MaxPageLimit        = 100
	DefaultRedisPrefix  = "asana-mock."
	DefaultSQLitePath   = "asana-mock.db"
	DefaultMongoDbName  = "asana_mock"
	DefaultFixturesName = "fixtures.json"
)

type RedisConf struct {
	Username              string            `json:"username"`
	Password              string            `json:"password"`
	Host                  string            `json:"host"`
	Port                  int               `json:"port"`
	Database              int               `json:"database"`
	Timeout               int               `json:"timeout"`
	MaxActive             int               `json:"max_active"`
	UseSSL                bool              `json:"use_ssl"`
	SSLInsecureSkipVerify bool              `json:"ssl_insecure_skip_verify"`
	EnableCluster         bool              `json:"enable_cluster"`
	Addrs                 []string          `json:"addrs"`
	Hosts                 map[string]string `json:"hosts"` // Deprecated: Use Addrs instead.
	MasterName            string            `json:"master_name"`
	SentinelPassword      string            `json:"sentinel_password"`
	KeyPrefix             string            `json:"key_prefix"`
}

type MongoConf struct {
	DbName                     string `json:"db_name" mapstructure:"db_name"`
	MongoURL                   string `json:"mongo_url" mapstructure:"mongo_url"`
	MongoUseSSL                bool   `json:"mongo_use_ssl" mapstructure:"mongo_use_ssl"`
	MongoSSLInsecureSkipVerify bool   `json:"mongo_ssl_insecure_skip_verify" mapstructure:"mongo_ssl_insecure_skip_verify"`
	SessionConsistency         string `json:"session_consistency" mapstructure:"session_consistency"`
	Driver                     string `json:"driver" mapstructure:"driver"`
	DirectConnection           bool   `json:"direct_connection" mapstructure:"direct_connection"`
	// CollectionPrefix is put in front of the kind to name each collection
	CollectionPrefix string `json:"collection_prefix" mapstructure:"collection_prefix"`
}

type SQLiteConf struct {
	Path string `json:"path"`
}

// Storage selects where the resources live and where the initial dataset is
// read from. Loader defaults to "file" for the memory store and to "none"
// for the persistent ones.
type Storage struct {
	StorageType string      `json:"storage_type" mapstructure:"storage_type"`
	Loader      string      `json:"loader" mapstructure:"loader"`
	MongoConf   *MongoConf  `json:"mongo" mapstructure:"mongo"`
	RedisConf   *RedisConf  `json:"redis" mapstructure:"redis"`
	SQLiteConf  *SQLiteConf `json:"sqlite" mapstructure:"sqlite"`
}

// FileLoaderConf is the configuration struct for a FileLoader, takes a filename as main init
type FileLoaderConf struct {
	FileName string
	DataDir  string
}

type Pagination struct {
	DefaultLimit int
	MaxLimit     int
}

// Configuration holds all configuration settings for the mock
type Configuration struct {
	// Secret is a personal access token that authenticates as DefaultUser
	Secret      string
	DefaultUser string
	// Tokens maps personal access tokens to user gids
	Tokens            map[string]string
	Port              int
	DataDir           string
	BaseURL           string
	Pagination        Pagination
	HttpServerOptions struct {
		UseSSL   bool
		CertFile string
		KeyFile  string
	}
	Storage *Storage
}

// LoadConfig will load the config from a file
func LoadConfig(filePath string, conf *Configuration) {
	log = logger.Get()
	mainLogger = &logrus.Entry{Logger: log}
	mainLogger = mainLogger.Logger.WithField("prefix", mainLoggerTag)

	configuration, err := os.ReadFile(filePath)
	if err != nil {
		mainLogger.Error("Couldn't load configuration file: ", err)
		failCount += 1
		if failCount < 3 {
			LoadConfig(filePath, conf)
			return
		}
		mainLogger.Fatal("Could not open configuration, giving up.")
	} else {
		jsErr := json.Unmarshal(configuration, conf)
		if jsErr != nil {
			mainLogger.Error("Couldn't unmarshal configuration: ", jsErr)
		}
	}

	shouldOmit, omitEnvExist := os.LookupEnv(EnvPrefix + "_OMITCONFIGFILE")
	if omitEnvExist && strings.ToLower(shouldOmit) == "true" {
		*conf = Configuration{}
	}

	if err = envconfig.Process(EnvPrefix, conf); err != nil {
		mainLogger.Errorf("Failed to process config env vars: %v", err)
	}
	SetDefaults(conf)

	mainLogger.Debugf("Config Loaded: %+v", conf)
	mainLogger.Debugf("Storage conf: %+v", conf.Storage)
}

// SetDefaults fills in every setting left empty
func SetDefaults(conf *Configuration) {
	if conf.Port == 0 {
		conf.Port = DefaultPort
	}
	if conf.Pagination.MaxLimit <= 0 || conf.Pagination.MaxLimit > MaxPageLimit {
		conf.Pagination.MaxLimit = MaxPageLimit
	}
	if conf.Pagination.DefaultLimit <= 0 || conf.Pagination.DefaultLimit > conf.Pagination.MaxLimit {
		conf.Pagination.DefaultLimit = DefaultPageLimit
	}
	if conf.Tokens == nil {
		conf.Tokens = map[string]string{}
	}
	if conf.Storage == nil {
		conf.Storage = &Storage{}
	}
	if conf.Storage.StorageType == "" {
		conf.Storage.StorageType = constants.MemoryStorage
	}
	if conf.Storage.Loader == "" {
		conf.Storage.Loader = NONE
		if conf.Storage.StorageType == constants.MemoryStorage {
			conf.Storage.Loader = FILE
		}
	}
}

// GetMongoDriver returns a valid mongo driver to use, it receives the
// driver set in config, and check its validity
// otherwise default to mongo-go
func GetMongoDriver(driverFromConf string) string {
	if driverFromConf != persistent.Mgo && driverFromConf != persistent.OfficialMongo {
		return persistent.OfficialMongo
	}
	return driverFromConf
}

// MongoClientOpts maps the mongo settings to the storage library options
func (m *MongoConf) MongoClientOpts() *persistent.ClientOpts {
	return &persistent.ClientOpts{
		ConnectionString:      m.MongoURL,
		UseSSL:                m.MongoUseSSL,
		SSLInsecureSkipVerify: m.MongoSSLInsecureSkipVerify,
		SessionConsistency:    m.SessionConsistency,
		DirectConnection:      m.DirectConnection,
		Type:                  GetMongoDriver(m.Driver),
	}
}
