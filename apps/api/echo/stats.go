package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/startupsl/backend/core/stats"
)

type statsApi struct {
	svc *stats.Service
}

func registerStatsAPI(g *echo.Group, svc *stats.Service) {
	api := statsApi{svc: svc}

	sg := g.Group("/stats")
	sg.GET("/dashboard", api.dashboard, adminMiddleware())
	sg.GET("/sectors", api.sectors)
	sg.GET("/sectors/growth", api.sectorGrowth)
}

// Handlers

func (api *statsApi) dashboard(ctx echo.Context) error {
	d, err := api.svc.Dashboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing dashboard statistics")
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *statsApi) sectors(ctx echo.Context) error {
	dist, err := api.svc.Sectors(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing sector distribution")
	}
	return ctx.JSON(http.StatusOK, dist)
}

func (api *statsApi) sectorGrowth(ctx echo.Context) error {
	rows, err := api.svc.SectorGrowth(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing sector growth")
	}
	return ctx.JSON(http.StatusOK, rows)
}
