package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/startupsl/backend/apps/api/echo"
	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
	"github.com/startupsl/backend/core/interest"
	"github.com/startupsl/backend/core/investor"
	"github.com/startupsl/backend/core/notification"
	"github.com/startupsl/backend/core/round"
	"github.com/startupsl/backend/core/stats"
	emailsvc "github.com/startupsl/backend/services/email"
	logsvc "github.com/startupsl/backend/services/logger"
	"github.com/startupsl/backend/storage/cache"
	"github.com/startupsl/backend/storage/database"
	dummydb "github.com/startupsl/backend/storage/database/dummy"
	mongodb "github.com/startupsl/backend/storage/database/mongo"
)

const engineMemory = "memory"

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Repositories are the storage backends of the selected database engine.
type Repositories struct {
	dig.Out
	Companies     company.Repository
	Investors     investor.Repository
	Rounds        round.Repository
	Interests     interest.Repository
	Notifications notification.Repository
	Closer        *Closer
}

// Closer releases the connections opened while building the container.
type Closer struct {
	funcs []func() error
}

func (c *Closer) add(fn func() error) { c.funcs = append(c.funcs, fn) }

// Close runs the release functions in reverse order and returns the first error.
func (c *Closer) Close() error {
	var first error
	for i := len(c.funcs) - 1; i >= 0; i-- {
		if err := c.funcs[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
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

func newRepositories(conf *core.Config, loggerParam DBLoggerParam) Repositories {
	closer := new(Closer)

	if conf.Database.Engine == engineMemory {
		db, err := dummydb.Open()
		if err != nil {
			loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		return Repositories{
			Companies:     dummydb.NewCompanyRepository(db),
			Investors:     dummydb.NewInvestorRepository(db),
			Rounds:        dummydb.NewRoundRepository(db),
			Interests:     dummydb.NewInterestRepository(db),
			Notifications: dummydb.NewNotificationRepository(db),
			Closer:        closer,
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
	defer cancel()

	client, db, err := database.Open(ctx, conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	closer.add(func() error { return client.Disconnect(context.Background()) })

	if err = database.EnsureIndexes(ctx, db); err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("creating indexes: %v", err), err)
	}
	return Repositories{
		Companies:     mongodb.NewCompanyRepository(db),
		Investors:     mongodb.NewInvestorRepository(db),
		Rounds:        mongodb.NewRoundRepository(db),
		Interests:     mongodb.NewInterestRepository(db),
		Notifications: mongodb.NewNotificationRepository(db),
		Closer:        closer,
	}
}

func newCache(conf *core.Config, logger core.Logger, closer *Closer) stats.Cache {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, closeFn, err := cache.Open(ctx, conf)
	if err != nil {
		// aggregates are recomputed on every request without a cache
		logger.Error(fmt.Sprintf("connecting to cache: %v", err), err)
		return cache.Nop{}
	}
	closer.add(closeFn)
	return c
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newStatsService(
	conf *core.Config,
	compSvc *company.Service,
	rndSvc *round.Service,
	intSvc *interest.Service,
	c stats.Cache,
	logger core.Logger,
) *stats.Service {
	return stats.NewService(compSvc, rndSvc, intSvc, c, conf.Redis.StatsTTL, logger)
}

func newInterestService(
	repo interest.Repository,
	invSvc *investor.Service,
	rndSvc *round.Service,
	compSvc *company.Service,
	notifSvc *notification.Service,
	logger core.Logger,
) *interest.Service {
	return interest.NewService(repo, invSvc, rndSvc, compSvc, notifSvc, logger)
}

func newInvestorService(repo investor.Repository, notifSvc *notification.Service, logger core.Logger) *investor.Service {
	return investor.NewService(repo, notifSvc, logger)
}

func newServerDeps(
	conf *core.Config,
	logger core.Logger,
	mailSvc core.EmailService,
	compSvc *company.Service,
	invSvc *investor.Service,
	rndSvc *round.Service,
	intSvc *interest.Service,
	notifSvc *notification.Service,
	statsSvc *stats.Service,
) echoapi.ServerDeps {
	return echoapi.ServerDeps{
		Conf:            conf,
		Logger:          logger,
		MailSvc:         mailSvc,
		CompanySvc:      compSvc,
		InvestorSvc:     invSvc,
		RoundSvc:        rndSvc,
		InterestSvc:     intSvc,
		NotificationSvc: notifSvc,
		StatsSvc:        statsSvc,
	}
}

// New returns a new dependency injection dig.Container.
// The API server is provided too, the admin CLI simply never resolves it.
func New(newConfig func() *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepositories))
	must(c.Provide(newCache))
	must(c.Provide(newEmailService))
	must(c.Provide(notification.NewService))
	must(c.Provide(company.NewService))
	must(c.Provide(round.NewService))
	must(c.Provide(newInvestorService))
	must(c.Provide(newInterestService))
	must(c.Provide(newStatsService))
	must(c.Provide(newServerDeps))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
