// Command apidiff reports which endpoints of Asana's OpenAPI document the mock
// serves, and optionally scaffolds stubs for the missing ones.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/TykTechnologies/asana-mock/api"
	"github.com/TykTechnologies/asana-mock/apidiff"
	"github.com/TykTechnologies/asana-mock/asana"
	"github.com/TykTechnologies/asana-mock/backends"
	"github.com/TykTechnologies/asana-mock/configuration"
	"github.com/TykTechnologies/asana-mock/constants"
	logger "github.com/TykTechnologies/asana-mock/log"
)

var diffLogger = logger.Get().WithField("prefix", constants.DiffLogTag)

func main() {
	spec := flag.String("spec", apidiff.DefaultSpecURL, "OpenAPI document, a file or an http(s) URL")
	token := flag.String("token", os.Getenv("ASANA_MOCK_SPEC_TOKEN"), "Bearer token sent when downloading the document")
	format := flag.String("format", apidiff.FormatText, "Report format: text, json or yaml")
	scaffold := flag.String("scaffold", "", "Write stubs for the missing endpoints into this directory")
	pkg := flag.String("package", apidiff.DefaultPackage, "Package name of the scaffolded files")
	force := flag.Bool("force", false, "Overwrite scaffolded files that already exist")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	declared, err := apidiff.LoadSpec(ctx, *spec, *token)
	if err != nil {
		diffLogger.WithError(err).Fatal("could not load the spec")
	}

	store := &backends.InMemoryBackend{}
	if err := store.Init(nil); err != nil {
		diffLogger.WithError(err).Fatal("could not initialise the store")
	}
	router := api.NewRouter(asana.NewService(store, nil), configuration.Configuration{})
	implemented, err := apidiff.FromRouter(router, constants.BasePath)
	if err != nil {
		diffLogger.WithError(err).Fatal("could not walk the router")
	}

	diff := apidiff.Compare(declared, implemented)
	if err := apidiff.WriteReport(os.Stdout, diff, *format); err != nil {
		diffLogger.WithError(err).Fatal("could not write the report")
	}

	if *scaffold == "" {
		return
	}
	g := &apidiff.Generator{OutDir: *scaffold, Package: *pkg, Force: *force, Logger: diffLogger}
	res, err := g.Generate(diff.Missing)
	if err != nil {
		diffLogger.WithError(err).Fatal("scaffolding failed")
	}
	for _, path := range res.Written {
		logger.GetRaw().Info("wrote ", path)
	}
	if len(res.Failed) > 0 {
		stop()
		os.Exit(1)
	}
}
