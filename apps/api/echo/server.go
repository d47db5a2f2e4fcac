package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
	"github.com/startupsl/backend/core/interest"
	"github.com/startupsl/backend/core/investor"
	"github.com/startupsl/backend/core/notification"
	"github.com/startupsl/backend/core/round"
	"github.com/startupsl/backend/core/stats"
)

type (
	ServerDeps struct {
		Conf            *core.Config
		Logger          core.Logger
		MailSvc         core.EmailService
		CompanySvc      *company.Service
		InvestorSvc     *investor.Service
		RoundSvc        *round.Service
		InterestSvc     *interest.Service
		NotificationSvc *notification.Service
		StatsSvc        *stats.Service
	}

	Server struct {
		ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		ServerDeps: deps,
		app:        echo.New(),
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Server.ReadTimeout = s.Conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = s.Conf.Server.WriteTimeout
	s.app.Logger.SetLevel(log.INFO)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.Conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.Conf.Debug || s.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.Logger, s.signalShutdown)
	s.app.Debug = s.Conf.Debug

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1", jwtMiddleware(s.Conf), subjectMiddleware(s.Conf))

	registerCompanyAPI(v1, s.CompanySvc, s.RoundSvc, s.StatsSvc)
	registerRoundAPI(v1, s.RoundSvc, s.CompanySvc, s.InterestSvc, s.StatsSvc)
	registerInvestorAPI(v1, s.InvestorSvc)
	registerInterestAPI(v1, s.InterestSvc, s.StatsSvc)
	registerNotificationAPI(v1, s.NotificationSvc)
	registerStatsAPI(v1, s.StatsSvc)
	registerExportAPI(v1, s.CompanySvc, s.Logger)
}

// Start listens on the configured address until the server is shut down.
// Failures are reported on Errors, SIGINT and SIGTERM on ShutdownSignal.
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.Conf.AppName+" API!")
}
