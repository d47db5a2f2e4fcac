package main

import (
	"log"
	"os"

	dig_container "github.com/startupsl/backend/apps/api/di/dig"
	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
	"github.com/startupsl/backend/core/investor"
	"github.com/startupsl/backend/core/stats"
)

func main() {
	c := dig_container.New(core.NewConfig)

	var code int
	err := c.Invoke(func(
		conf *core.Config,
		logger core.Logger,
		mailSvc core.EmailService,
		compSvc *company.Service,
		invSvc *investor.Service,
		statsSvc *stats.Service,
		closer *dig_container.Closer,
	) {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close", err)
			}
		}()

		cli := &commandLine{
			conf:     conf,
			logger:   logger,
			mailSvc:  mailSvc,
			compSvc:  compSvc,
			invSvc:   invSvc,
			statsSvc: statsSvc,
			out:      os.Stdout,
		}
		if err := cli.run(os.Args); err != nil {
			if err != errHelp {
				logger.Error("admin command failed", err)
			}
			code = 1
		}
	})
	if err != nil {
		log.Fatal(err)
	}
	os.Exit(code)
}
