package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/startupsl/backend/core/interest"
	"github.com/startupsl/backend/core/stats"
)

type interestApi struct {
	svc      *interest.Service
	statsSvc *stats.Service
}

func registerInterestAPI(g *echo.Group, svc *interest.Service, statsSvc *stats.Service) {
	api := interestApi{svc: svc, statsSvc: statsSvc}

	ig := g.Group("/interests")
	ig.GET("", api.query)
	ig.POST("/:id/status", api.setStatus)
}

// Handlers

func (api *interestApi) query(ctx echo.Context) error {
	sub, err := getContextSubject(ctx)
	if err != nil {
		return err
	}
	filter := new(interest.QueryFilter)
	ords, page, err := bindQuery(ctx, filter)
	if err != nil {
		return err
	}

	ints, count, err := api.svc.Query(ctx.Request().Context(), sub, *filter, ords, page)
	if err != nil {
		return errors.Wrap(err, "querying interests")
	}
	return ctx.JSON(http.StatusOK, newPageResponse(ints, count, page))
}

func (api *interestApi) setStatus(ctx echo.Context) error {
	sub, err := getContextSubject(ctx)
	if err != nil {
		return err
	}

	var data interest.StatusChange
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusChange")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	i, err := api.svc.SetStatus(ctx.Request().Context(), sub, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "setting interest status")
	}
	invalidateStats(ctx, api.statsSvc)
	return ctx.JSON(http.StatusOK, i)
}
