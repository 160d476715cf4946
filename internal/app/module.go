package app

import (
	"log/slog"
	"os"

	"github.com/votegate/votegate/internal/enrollment"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.enrollment.enabled") {
		if err := enrollment.New(enrollment.Dependency{
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			Bcrypt:      a.bcrypt,
			HMAC:        a.hmac,
			Argon2ID:    a.argon2id,
			Provisioner: a.provisioner,
			Clock:       a.clock,
			Validator:   a.validator,
			Router:      a.router,
			DBConn:      a.dbConn,
			CacheConn:   a.cacheConn,
			Idempotency: a.idemp,
			Mail:        a.mail,
			Goroutine:   a.goroutine,
		}); err != nil {
			slog.Error("failed to init module enrollment", "error", err)
			os.Exit(1)
		}
	}
}
