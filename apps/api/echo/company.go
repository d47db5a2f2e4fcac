package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/startupsl/backend/core/company"
	"github.com/startupsl/backend/core/permission"
	"github.com/startupsl/backend/core/round"
	"github.com/startupsl/backend/core/stats"
)

const contextObjectKey = "object"

var errObjNotFoundInCtx = errors.New("object not found in echo.Context")

type companyApi struct {
	svc      *company.Service
	roundSvc *round.Service
	statsSvc *stats.Service
}

func registerCompanyAPI(g *echo.Group, svc *company.Service, roundSvc *round.Service, statsSvc *stats.Service) {
	api := companyApi{svc: svc, roundSvc: roundSvc, statsSvc: statsSvc}

	cg := g.Group("/companies")
	cg.GET("", api.query)
	cg.POST("", api.create)

	// detail endpoints
	dg := cg.Group("/:id", companyMiddleware(svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, companyPermissionMiddleware(permission.ActionEdit))
	dg.DELETE("", api.destroy, companyPermissionMiddleware(permission.ActionDelete))
	dg.GET("/rounds", api.queryRounds)
	dg.POST("/rounds", api.createRound, companyPermissionMiddleware(permission.ActionEdit))
}

// Handlers

func (api *companyApi) query(ctx echo.Context) error {
	filter := new(company.QueryFilter)
	ords, page, err := bindQuery(ctx, filter)
	if err != nil {
		return err
	}

	comps, count, err := api.svc.Query(ctx.Request().Context(), *filter, ords, page)
	if err != nil {
		return errors.Wrap(err, "querying companies")
	}
	return ctx.JSON(http.StatusOK, newPageResponse(comps, count, page))
}

func (api *companyApi) create(ctx echo.Context) error {
	sub, err := getContextSubject(ctx)
	if err != nil {
		return err
	}
	if !permission.Evaluate(sub, permission.ActionAdd, &permission.Resource{Type: permission.ResourceCompany}) {
		return errHttpForbidden
	}

	var data company.NewCompany
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCompany")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), sub.UserID, data)
	if err != nil {
		return errors.Wrap(err, "creating company")
	}
	invalidateStats(ctx, api.statsSvc)
	return ctx.JSON(http.StatusCreated, c)
}

func (api *companyApi) retrieve(ctx echo.Context) error {
	c, ok := ctx.Get(contextObjectKey).(company.Company)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving company from context")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *companyApi) update(ctx echo.Context) error {
	orig, ok := ctx.Get(contextObjectKey).(company.Company)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving company from context")
	}

	var data company.UpdateCompany
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCompany")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	c, err := api.svc.Update(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating company")
	}
	invalidateStats(ctx, api.statsSvc)
	return ctx.JSON(http.StatusOK, c)
}

func (api *companyApi) destroy(ctx echo.Context) error {
	c, ok := ctx.Get(contextObjectKey).(company.Company)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving company from context")
	}
	if err := api.svc.Delete(ctx.Request().Context(), c.ID); err != nil {
		return errors.Wrap(err, "deleting company")
	}
	invalidateStats(ctx, api.statsSvc)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *companyApi) queryRounds(ctx echo.Context) error {
	c, ok := ctx.Get(contextObjectKey).(company.Company)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving company from context")
	}

	filter := new(round.QueryFilter)
	ords, page, err := bindQuery(ctx, filter)
	if err != nil {
		return err
	}
	filter.CompanyID = c.ID

	rnds, count, err := api.roundSvc.Query(ctx.Request().Context(), *filter, ords, page)
	if err != nil {
		return errors.Wrap(err, "querying company rounds")
	}
	return ctx.JSON(http.StatusOK, newPageResponse(rnds, count, page))
}

func (api *companyApi) createRound(ctx echo.Context) error {
	c, ok := ctx.Get(contextObjectKey).(company.Company)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving company from context")
	}

	var data round.NewRound
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRound")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	r, err := api.roundSvc.Create(ctx.Request().Context(), c.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating round")
	}
	invalidateStats(ctx, api.statsSvc)
	return ctx.JSON(http.StatusCreated, r)
}

// companyMiddleware loads the company named by the :id path parameter.
func companyMiddleware(svc *company.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			c, err := svc.Get(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return err
			}
			ctx.Set(contextObjectKey, c)
			return next(ctx)
		}
	}
}

// companyPermissionMiddleware checks that the subject may perform act on the loaded company.
func companyPermissionMiddleware(act permission.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sub, err := getContextSubject(ctx)
			if err != nil {
				return err
			}
			c, ok := ctx.Get(contextObjectKey).(company.Company)
			if !ok {
				return errors.Wrap(errObjNotFoundInCtx, "retrieving company from context")
			}
			if !permission.Evaluate(sub, act, c.Resource()) {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

// invalidateStats drops the cached aggregates after a write. Failures only cost freshness.
func invalidateStats(ctx echo.Context, svc *stats.Service) {
	if svc == nil {
		return
	}
	if err := svc.Invalidate(ctx.Request().Context()); err != nil {
		ctx.Logger().Warnf("%+v", err)
	}
}
