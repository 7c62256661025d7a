package backends

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/TykTechnologies/storage/temporal/connector"
	temporal "github.com/TykTechnologies/storage/temporal/keyvalue"
	"github.com/TykTechnologies/storage/temporal/model"
	"github.com/TykTechnologies/storage/temporal/temperr"
	"github.com/sirupsen/logrus"

	"github.com/TykTechnologies/asana-mock/asana"
)

var redisLogger = log.WithField("prefix", "REDIS STORE")

// RedisBackend implements asana.Store on top of a redis key-value connection.
// Keys are KeyPrefix + kind + ":" + gid.
type RedisBackend struct {
	kv        temporal.KeyValue
	config    *RedisConfig
	KeyPrefix string
}

type RedisConfig struct {
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
	Hosts                 map[string]string `json:"hosts"`
	MasterName            string            `json:"master_name"`
	SentinelPassword      string            `json:"sentinel_password"`
	KeyPrefix             string            `json:"key_prefix"`
}

func (r *RedisBackend) fixKey(keyName string) string {
	return r.KeyPrefix + keyName
}

func (r *RedisBackend) cleanKey(keyName string) string {
	return strings.TrimPrefix(keyName, r.KeyPrefix)
}

func docKey(kind, key string) string {
	return kind + ":" + key
}

// SetDb reuses an existing connection instead of dialing one
func (r *RedisBackend) SetDb(kv temporal.KeyValue) {
	r.kv = kv
}

// Connect returns the key-value connection, dialing it on first use
func (r *RedisBackend) Connect() (temporal.KeyValue, error) {
	if r.kv != nil {
		return r.kv, nil
	}
	if r.config == nil {
		return nil, errors.New("redis backend not configured")
	}

	redisLogger.Debug("Connecting to redis")
	opts := &model.RedisOptions{
		Username:         r.config.Username,
		Password:         r.config.Password,
		Host:             r.config.Host,
		Port:             r.config.Port,
		Timeout:          r.config.Timeout,
		Hosts:            r.config.Hosts,
		Addrs:            r.config.Addrs,
		MasterName:       r.config.MasterName,
		SentinelPassword: r.config.SentinelPassword,
		Database:         r.config.Database,
		MaxActive:        r.config.MaxActive,
		EnableCluster:    r.config.EnableCluster,
	}
	options := []model.Option{connector.WithRedisConfig(opts)}
	if r.config.UseSSL {
		options = append(options, model.WithTLS(&model.TLS{
			Enable:             true,
			InsecureSkipVerify: r.config.SSLInsecureSkipVerify,
		}))
	}
	if r.config.EnableCluster {
		redisLogger.Info("--> Using clustered mode")
	}

	conn, err := connector.NewConnector(model.RedisV9Type, options...)
	if err != nil {
		return nil, fmt.Errorf("creating redis connector: %w", err)
	}
	kv, err := temporal.NewKeyValue(conn)
	if err != nil {
		return nil, fmt.Errorf("creating redis key-value store: %w", err)
	}
	r.kv = kv
	return kv, nil
}

// Init reads the redis settings and connects
func (r *RedisBackend) Init(config interface{}) error {
	asJ, err := json.Marshal(config)
	if err != nil {
		return err
	}
	fixedConf := RedisConfig{}
	if err := json.Unmarshal(asJ, &fixedConf); err != nil {
		return err
	}
	r.config = &fixedConf
	if r.KeyPrefix == "" {
		r.KeyPrefix = fixedConf.KeyPrefix
	}

	if _, err := r.Connect(); err != nil {
		redisLogger.WithError(err).Error("Could not connect to redis")
		return err
	}
	redisLogger.Info("Initialised")
	return nil
}

// SetKey will store the JSON encoding of val under kind and key
func (r *RedisBackend) SetKey(kind, key string, val interface{}) error {
	kv, err := r.Connect()
	if err != nil {
		return err
	}
	asByte, err := json.Marshal(val)
	if err != nil {
		return err
	}

	redisLogger.Debug("Setting key: ", r.fixKey(docKey(kind, key)))
	if err := kv.Set(context.Background(), r.fixKey(docKey(kind, key)), string(asByte), 0); err != nil {
		redisLogger.WithField("error", err).Error("Error trying to set value")
		return err
	}
	return nil
}

// GetKey will decode the value stored under kind and key into target
func (r *RedisBackend) GetKey(kind, key string, target interface{}) error {
	kv, err := r.Connect()
	if err != nil {
		return err
	}

	val, err := kv.Get(context.Background(), r.fixKey(docKey(kind, key)))
	if err != nil {
		if errors.Is(err, temperr.KeyNotFound) {
			return asana.ErrNotFound
		}
		redisLogger.WithField("error", err).Debug("Error trying to get value")
		return err
	}
	return json.Unmarshal([]byte(val), target)
}

// GetAll collects every document of a kind with a key scan and a single
// multi-get
func (r *RedisBackend) GetAll(kind string, target interface{}) error {
	kv, err := r.Connect()
	if err != nil {
		return err
	}
	ctx := context.Background()

	keys, err := kv.Keys(ctx, r.fixKey(docKey(kind, "*")))
	if err != nil {
		redisLogger.WithError(err).Error("Error listing keys")
		return err
	}
	if len(keys) == 0 {
		return decodeAll(nil, target)
	}

	values, err := kv.GetMulti(ctx, keys)
	if err != nil {
		redisLogger.WithError(err).Error("Error reading keys")
		return err
	}
	docs := make([][]byte, 0, len(values))
	for i, v := range values {
		// keys deleted between the scan and the read come back empty
		s, ok := v.(string)
		if !ok {
			redisLogger.WithField("key", r.cleanKey(keys[i])).Debug("Skipping vanished key")
			continue
		}
		docs = append(docs, []byte(s))
	}
	return decodeAll(docs, target)
}

// DeleteKey will remove the document stored under kind and key
func (r *RedisBackend) DeleteKey(kind, key string) error {
	kv, err := r.Connect()
	if err != nil {
		return err
	}
	ctx := context.Background()
	fixed := r.fixKey(docKey(kind, key))

	exists, err := kv.Exists(ctx, fixed)
	if err != nil {
		return err
	}
	if !exists {
		return asana.ErrNotFound
	}

	redisLogger.Debug("DEL Key became: ", fixed)
	if err := kv.Delete(ctx, fixed); err != nil {
		redisLogger.WithFields(logrus.Fields{
			"error": err,
			"key":   fixed,
		}).Error("Error trying to delete key")
		return err
	}
	return nil
}
