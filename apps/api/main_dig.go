package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	dig_container "github.com/kowsik11/GradeKart-Dev-sub000/apps/api/di/dig"
	echoapi "github.com/kowsik11/GradeKart-Dev-sub000/apps/api/echo"
	"github.com/kowsik11/GradeKart-Dev-sub000/core"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/identity"
	paymentsvc "github.com/kowsik11/GradeKart-Dev-sub000/services/payment"
)

// abandoned checkouts are dismissed after checkoutMaxAge
const (
	checkoutMaxAge     = 30 * time.Minute
	checkoutPruneEvery = time.Minute
)

func startWithDig() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		validate *validator.Validate,
		translator ut.Translator,
		loader *paymentsvc.Loader,
		checkouts *paymentsvc.WebCheckout,
		server *echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		apiLogger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
		apiLogger.Info(conf.Airtable.String())
		defer apiLogger.Info("Application stopped")

		core.InitValidators(validate, translator)
		identity.InitValidators(validate, translator)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if conf.LiveCheckout() {
			loader.Load(ctx)
			go pruneCheckouts(ctx, checkouts)
		} else {
			apiLogger.Info("no checkout key configured, payments run in test mode")
		}

		// =========================================================================
		// Start Debug Service
		//
		// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
		// /debug/vars - Added to the default mux by importing the expvar package.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				apiLogger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()

		// =========================================================================
		// Start API Service

		go func() {
			server.Start()
		}()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			apiLogger.Fatal(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			apiLogger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				apiLogger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					apiLogger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

func pruneCheckouts(ctx context.Context, checkouts *paymentsvc.WebCheckout) {
	ticker := time.NewTicker(checkoutPruneEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkouts.Prune(checkoutMaxAge)
		}
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
