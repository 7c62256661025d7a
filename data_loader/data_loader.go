package data_loader

import (
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/TykTechnologies/asana-mock/asana"
	"github.com/TykTechnologies/asana-mock/configuration"
	logger "github.com/TykTechnologies/asana-mock/log"
)

var log = logger.Get()
var dataLoaderLoggerTag = "DATA LOADER"
var dataLogger = log.WithField("prefix", dataLoaderLoggerTag)

// DataLoader is an interface that defines how data is loaded from a source into a store
type DataLoader interface {
	Init(conf interface{}) error
	LoadIntoStore(asana.Store) error
	Flush(asana.Store) error
}

func reloadDataLoaderLogger() {
	log = logger.Get()
	dataLogger = &logrus.Entry{Logger: log}
	dataLogger = dataLogger.Logger.WithField("prefix", dataLoaderLoggerTag)
}

// CreateDataLoader picks the loader named in the storage settings. The file
// loader reads fixturesFile, relative to DataDir unless absolute.
func CreateDataLoader(config configuration.Configuration, fixturesFile string) (DataLoader, error) {
	var dataLoader DataLoader
	var loaderConf interface{}
	reloadDataLoaderLogger()

	//default loader
	loaderType := configuration.FILE
	if config.Storage != nil && config.Storage.Loader != "" {
		loaderType = config.Storage.Loader
	}

	switch loaderType {
	case configuration.MONGO:
		dataLoader = &MongoLoader{}

		mongoConf := config.Storage.MongoConf
		if mongoConf == nil {
			mongoConf = &configuration.MongoConf{}
		}
		loaderConf = MongoLoaderConf{
			ClientOpts: mongoConf.MongoClientOpts(),
		}
	case configuration.NONE:
		dataLoader = &DumbLoader{}
	default:
		//default: FILE
		if fixturesFile == "" {
			fixturesFile = configuration.DefaultFixturesName
		}
		if !filepath.IsAbs(fixturesFile) && config.DataDir != "" {
			fixturesFile = filepath.Join(config.DataDir, fixturesFile)
		}
		dataLoader = &FileLoader{}
		loaderConf = configuration.FileLoaderConf{
			FileName: fixturesFile,
			DataDir:  config.DataDir,
		}
	}

	err := dataLoader.Init(loaderConf)
	return dataLoader, err
}
