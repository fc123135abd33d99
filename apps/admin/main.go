package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/campus"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/identity"
	logsvc "github.com/kowsik11/GradeKart-Dev-sub000/services/logger"
	"github.com/kowsik11/GradeKart-Dev-sub000/storage/airtable"
	inmemdb "github.com/kowsik11/GradeKart-Dev-sub000/storage/database/inmem"
)

func main() {
	conf := core.NewConfig()

	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)

	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	identity.InitValidators(validate, translator)

	scheme, err := identity.ParseCredentialScheme(conf.Identity.PasswordScheme)
	if err != nil {
		logger.Fatal(err.Error(), err)
	}

	var (
		identities identity.Repository
		campuses   campus.Repository
	)
	if conf.Identity.InMemory() {
		db, err := inmemdb.OpenSeeded()
		if err != nil {
			logger.Fatal(err.Error(), err)
		}
		identities, campuses = inmemdb.NewIdentityRepository(db), inmemdb.NewCampusRepository(db)
	} else {
		client := airtable.NewClient(conf.Airtable)
		identities = airtable.NewIdentityRepository(client)
		campuses = airtable.NewCampusRepository(client, conf.Airtable.CampusTable)
	}

	// start CLI
	cli := commandLine{
		campuses: campus.NewService(campuses, logger, conf.Airtable.CampusPageSize),
		resolver: identity.NewResolver(identities, identity.NewStore(), scheme, logger),
		validate: validate,
		out:      os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", describe(err, translator))
		}
		os.Exit(1)
	}
}

// describe renders validation errors field by field.
func describe(err error, translator ut.Translator) string {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msg := "invalid input"
	for _, vErr := range vErrs {
		msg += fmt.Sprintf("\n  %s: %s", vErr.Field(), vErr.Translate(translator))
	}
	return msg
}
