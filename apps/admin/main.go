package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/xuandat7/tkb-ptit-react-sub000/core"
	"github.com/xuandat7/tkb-ptit-react-sub000/core/batch"
	catalogsvc "github.com/xuandat7/tkb-ptit-react-sub000/services/catalog"
	generatorsvc "github.com/xuandat7/tkb-ptit-react-sub000/services/generator"
	logsvc "github.com/xuandat7/tkb-ptit-react-sub000/services/logger"
	inmemdb "github.com/xuandat7/tkb-ptit-react-sub000/storage/inmem"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := inmemdb.Open()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	batch.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		svc: batch.NewService(
			inmemdb.NewSessionRepository(db),
			catalogsvc.NewClient(conf.Catalog),
			generatorsvc.NewClient(conf.Generator),
			logger,
		),
		validate: validate,
		out:      os.Stdout,
	}
	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
