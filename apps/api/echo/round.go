package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
	"github.com/startupsl/backend/core/interest"
	"github.com/startupsl/backend/core/permission"
	"github.com/startupsl/backend/core/round"
	"github.com/startupsl/backend/core/stats"
)

type roundApi struct {
	svc         *round.Service
	companySvc  *company.Service
	interestSvc *interest.Service
	statsSvc    *stats.Service
}

func registerRoundAPI(g *echo.Group, svc *round.Service, companySvc *company.Service, interestSvc *interest.Service, statsSvc *stats.Service) {
	api := roundApi{svc: svc, companySvc: companySvc, interestSvc: interestSvc, statsSvc: statsSvc}

	rg := g.Group("/rounds")
	rg.GET("", api.query)

	// detail endpoints
	dg := rg.Group("/:id", roundMiddleware(svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, api.permissionMiddleware(permission.ActionEdit))
	dg.DELETE("", api.destroy, api.permissionMiddleware(permission.ActionDelete))
	dg.POST("/interests", api.submitInterest, roleMiddleware(permission.RoleInvestor))
}

// Handlers

func (api *roundApi) query(ctx echo.Context) error {
	filter := new(round.QueryFilter)
	ords, page, err := bindQuery(ctx, filter)
	if err != nil {
		return err
	}

	rnds, count, err := api.svc.Query(ctx.Request().Context(), *filter, ords, page)
	if err != nil {
		return errors.Wrap(err, "querying rounds")
	}
	return ctx.JSON(http.StatusOK, newPageResponse(rnds, count, page))
}

func (api *roundApi) retrieve(ctx echo.Context) error {
	r, ok := ctx.Get(contextObjectKey).(round.Round)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving round from context")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *roundApi) update(ctx echo.Context) error {
	orig, ok := ctx.Get(contextObjectKey).(round.Round)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving round from context")
	}

	var data round.UpdateRound
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRound")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	r, err := api.svc.Update(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating round")
	}
	invalidateStats(ctx, api.statsSvc)
	return ctx.JSON(http.StatusOK, r)
}

func (api *roundApi) destroy(ctx echo.Context) error {
	r, ok := ctx.Get(contextObjectKey).(round.Round)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving round from context")
	}
	if err := api.svc.Delete(ctx.Request().Context(), r.ID); err != nil {
		return errors.Wrap(err, "deleting round")
	}
	invalidateStats(ctx, api.statsSvc)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *roundApi) submitInterest(ctx echo.Context) error {
	r, ok := ctx.Get(contextObjectKey).(round.Round)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving round from context")
	}
	sub, err := getContextSubject(ctx)
	if err != nil {
		return err
	}

	var data interest.NewInterest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInterest")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	i, err := api.interestSvc.Submit(ctx.Request().Context(), sub, r.ID, data)
	if err != nil {
		return errors.Wrap(err, "submitting interest")
	}
	invalidateStats(ctx, api.statsSvc)
	return ctx.JSON(http.StatusCreated, i)
}

// permissionMiddleware checks act against the company owning the loaded round.
func (api *roundApi) permissionMiddleware(act permission.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sub, err := getContextSubject(ctx)
			if err != nil {
				return err
			}
			r, ok := ctx.Get(contextObjectKey).(round.Round)
			if !ok {
				return errors.Wrap(errObjNotFoundInCtx, "retrieving round from context")
			}
			c, err := api.companySvc.Get(ctx.Request().Context(), r.CompanyID)
			if err != nil && !core.IsNotFound(err) {
				return errors.Wrap(err, "loading round company")
			}
			// a round whose company is gone is only manageable by admins
			if !permission.Evaluate(sub, act, c.Resource()) {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

func roundMiddleware(svc *round.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			r, err := svc.Get(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return err
			}
			ctx.Set(contextObjectKey, r)
			return next(ctx)
		}
	}
}
