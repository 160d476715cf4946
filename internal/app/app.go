// Package app wires dependencies and manages the service lifecycle.
package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/votegate/votegate/internal/pkg/clock"
	"github.com/votegate/votegate/internal/pkg/config"
	"github.com/votegate/votegate/internal/pkg/goroutine"
	"github.com/votegate/votegate/internal/pkg/hash"
	"github.com/votegate/votegate/internal/pkg/idempotency"
	"github.com/votegate/votegate/internal/pkg/instrument"
	"github.com/votegate/votegate/internal/pkg/jwt"
	"github.com/votegate/votegate/internal/pkg/keymat"
	"github.com/votegate/votegate/internal/pkg/mail"
	"github.com/votegate/votegate/internal/pkg/router"
	"github.com/votegate/votegate/internal/pkg/uid"
	"github.com/votegate/votegate/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine   *goroutine.Manager
	validator   validator.Validator
	clock       clock.Clocker
	hmac        hash.Hash
	argon2id    hash.Hash
	bcrypt      hash.Hash
	uid         uid.NumberID
	uuid        uid.StringID
	jwt         jwt.JWT
	provisioner keymat.Provisioner

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
