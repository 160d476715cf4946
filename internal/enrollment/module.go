// Package enrollment wires the voter enrollment module: self-registration,
// email verification, and the admin review flow that provisions voter
// credentials.
package enrollment

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/votegate/votegate/internal/enrollment/inbound"
	"github.com/votegate/votegate/internal/enrollment/outbound/db"
	"github.com/votegate/votegate/internal/enrollment/outbound/mailer"
	"github.com/votegate/votegate/internal/enrollment/usecase"
	"github.com/votegate/votegate/internal/pkg/clock"
	"github.com/votegate/votegate/internal/pkg/config"
	"github.com/votegate/votegate/internal/pkg/goroutine"
	"github.com/votegate/votegate/internal/pkg/hash"
	"github.com/votegate/votegate/internal/pkg/idempotency"
	"github.com/votegate/votegate/internal/pkg/instrument"
	"github.com/votegate/votegate/internal/pkg/keymat"
	"github.com/votegate/votegate/internal/pkg/mail"
	"github.com/votegate/votegate/internal/pkg/router"
	"github.com/votegate/votegate/internal/pkg/uid"
	"github.com/votegate/votegate/internal/pkg/validator"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	CacheConn   *redis.Client              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Mail        mail.Mail                  `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	HMAC        hash.Hash                  `validate:"required"`
	Bcrypt      hash.Hash                  `validate:"required"`
	Argon2ID    hash.Hash                  `validate:"required"`
	Provisioner keymat.Provisioner         `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbEnrollment := db.NewDB(dep.DBConn, dep.Instrument)
	repoMail := mailer.NewMailer(dep.Mail, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:      dbEnrollment,
		Notifier:    repoMail,
		Idempotency: dep.Idempotency,
		Validator:   dep.Validator,
		Config:      dep.Config,
		HMAC:        dep.HMAC,
		Bcrypt:      dep.Bcrypt,
		Argon2ID:    dep.Argon2ID,
		Provisioner: dep.Provisioner,
		UID:         dep.UID,
		Clock:       dep.Clock,
		Instrument:  dep.Instrument,
		Goroutine:   dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
