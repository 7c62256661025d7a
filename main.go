package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/TykTechnologies/asana-mock/api"
	"github.com/TykTechnologies/asana-mock/asana"
	"github.com/TykTechnologies/asana-mock/configuration"
	"github.com/TykTechnologies/asana-mock/constants"
	"github.com/TykTechnologies/asana-mock/data_loader"
	"github.com/TykTechnologies/asana-mock/initializer"
	logger "github.com/TykTechnologies/asana-mock/log"
	"github.com/sirupsen/logrus"
)

var (
	mainLogger = logger.Get().WithField("prefix", constants.MainLogTag)
	config     configuration.Configuration
)

var confFile string
var fixturesFile string

func init() {
	flag.StringVar(&confFile, "c", "asana-mock.conf", "Path to the config file")
	flag.StringVar(&fixturesFile, "d", "", "Path to the fixtures file, used by the file loader")
}

func main() {
	flag.Parse()
	mainLogger.Info("Asana mock starting")

	configuration.LoadConfig(confFile, &config)

	store, err := initializer.InitBackend(config)
	if err != nil {
		mainLogger.WithError(err).Fatal("could not initialise the backend")
	}

	loader, err := data_loader.CreateDataLoader(config, fixturesFile)
	if err != nil {
		mainLogger.WithError(err).Fatal("could not create the data loader")
	}
	if err := loader.LoadIntoStore(store); err != nil {
		mainLogger.WithError(err).Fatal("could not load fixtures")
	}

	svc := asana.NewService(store, loader.Flush)
	router := api.NewRouter(svc, config)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	mainLogger.WithFields(logrus.Fields{
		"port":    config.Port,
		"storage": config.Storage.StorageType,
		"tls":     config.HttpServerOptions.UseSSL,
	}).Info("--> Listening on ", constants.BasePath)

	if config.HttpServerOptions.UseSSL {
		err = server.ListenAndServeTLS(config.HttpServerOptions.CertFile, config.HttpServerOptions.KeyFile)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		mainLogger.WithError(err).Fatal("server stopped")
	}
}
