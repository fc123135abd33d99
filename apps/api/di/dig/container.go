package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/kowsik11/GradeKart-Dev-sub000/apps/api/echo"
	"github.com/kowsik11/GradeKart-Dev-sub000/core"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/campus"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/fee"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/identity"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/payment"
	emailsvc "github.com/kowsik11/GradeKart-Dev-sub000/services/email"
	logsvc "github.com/kowsik11/GradeKart-Dev-sub000/services/logger"
	paymentsvc "github.com/kowsik11/GradeKart-Dev-sub000/services/payment"
	"github.com/kowsik11/GradeKart-Dev-sub000/storage/airtable"
	"github.com/kowsik11/GradeKart-Dev-sub000/storage/database"
	inmemdb "github.com/kowsik11/GradeKart-Dev-sub000/storage/database/inmem"
	sqlxrepos "github.com/kowsik11/GradeKart-Dev-sub000/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

// newMemDB is the process-local store: fee schedule, and identities and campuses when the memory backend is selected.
func newMemDB(loggerParam DBLoggerParam) *inmemdb.DB {
	db, err := inmemdb.OpenSeeded()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("opening in-memory store: %v", err), err)
	}
	return db
}

func newFeeRepository(conf *core.Config, memDB *inmemdb.DB, loggerParam DBLoggerParam) fee.Repository {
	if !conf.Database.Enabled() {
		return inmemdb.NewFeeRepository(memDB)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(conf)
	if err == nil {
		err = database.Ping(ctx, db)
	}
	if err == nil {
		err = database.Migrate(ctx, db)
	}
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up fee ledger: %v", err), err)
	}
	return sqlxrepos.NewFeeRepository(db)
}

func newIdentityRepository(conf *core.Config, client *airtable.Client, memDB *inmemdb.DB) identity.Repository {
	if conf.Identity.InMemory() {
		return inmemdb.NewIdentityRepository(memDB)
	}
	return airtable.NewIdentityRepository(client)
}

func newCampusService(conf *core.Config, client *airtable.Client, memDB *inmemdb.DB, logger core.Logger) *campus.Service {
	var repo campus.Repository
	if conf.Identity.InMemory() {
		repo = inmemdb.NewCampusRepository(memDB)
	} else {
		repo = airtable.NewCampusRepository(client, conf.Airtable.CampusTable)
	}
	return campus.NewService(repo, logger, conf.Airtable.CampusPageSize)
}

func newResolver(conf *core.Config, repo identity.Repository, sessions *identity.Store, logger core.Logger) (*identity.Resolver, error) {
	scheme, err := identity.ParseCredentialScheme(conf.Identity.PasswordScheme)
	if err != nil {
		return nil, err
	}
	return identity.NewResolver(repo, sessions, scheme, logger), nil
}

func newAirtableClient(conf *core.Config) *airtable.Client {
	return airtable.NewClient(conf.Airtable)
}

func newPaymentClient(conf *core.Config) *paymentsvc.Client {
	return paymentsvc.NewClient(conf.Payment)
}

func newLoader(conf *core.Config, logger core.Logger) *paymentsvc.Loader {
	return paymentsvc.NewLoader(conf.Payment, logger)
}

func newWebCheckout(conf *core.Config, loader *paymentsvc.Loader, logger core.Logger) *paymentsvc.WebCheckout {
	return paymentsvc.NewWebCheckout(loader, conf.Payment.CheckoutKey, logger)
}

func newOrchestrator(
	conf *core.Config,
	intents *paymentsvc.Client,
	checkouts *paymentsvc.WebCheckout,
	mailer core.EmailService,
	logger core.Logger,
) (*payment.Orchestrator, error) {
	return payment.NewOrchestrator(
		payment.Deps{Intents: intents, Gateway: checkouts, Mailer: mailer, Logger: logger},
		payment.Settings{
			CheckoutKey:  conf.Payment.CheckoutKey,
			Currency:     conf.Payment.Currency,
			MerchantName: conf.Payment.MerchantName,
		},
	)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	validate *validator.Validate,
	translator ut.Translator,
	campuses *campus.Service,
	selection *campus.Selection,
	sessions *identity.Store,
	resolver *identity.Resolver,
	fees fee.Repository,
	payments *payment.Orchestrator,
	checkouts *paymentsvc.WebCheckout,
) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		Campuses:   campuses,
		Selection:  selection,
		Sessions:   sessions,
		Resolver:   resolver,
		Fees:       fees,
		Payments:   payments,
		Checkouts:  checkouts,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newMemDB))
	must(c.Provide(newFeeRepository))
	must(c.Provide(newAirtableClient))
	must(c.Provide(newIdentityRepository))
	must(c.Provide(newCampusService))
	must(c.Provide(campus.NewSelection))
	must(c.Provide(identity.NewStore))
	must(c.Provide(newResolver))
	must(c.Provide(newPaymentClient))
	must(c.Provide(newLoader))
	must(c.Provide(newWebCheckout))
	must(c.Provide(newEmailService))
	must(c.Provide(newOrchestrator))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
