package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/investor"
	"github.com/startupsl/backend/core/permission"
)

type investorApi struct {
	svc *investor.Service
}

func registerInvestorAPI(g *echo.Group, svc *investor.Service) {
	api := investorApi{svc: svc}

	ig := g.Group("/investors")
	ig.GET("", api.query)
	ig.POST("", api.create, roleMiddleware(permission.RoleInvestor))
	ig.GET("/me", api.retrieveOwn, roleMiddleware(permission.RoleInvestor))

	// detail endpoints
	dg := ig.Group("/:id", selfOrAdminInvestorMiddleware(svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.POST("/status", api.setStatus, adminMiddleware())
}

// Handlers

// query lists investors; only admins see profiles that are not approved.
func (api *investorApi) query(ctx echo.Context) error {
	sub, err := getContextSubject(ctx)
	if err != nil {
		return err
	}
	filter := new(investor.QueryFilter)
	ords, page, err := bindQuery(ctx, filter)
	if err != nil {
		return err
	}
	if !sub.IsAdmin() {
		filter.Status = string(investor.StatusApproved)
	}

	invs, count, err := api.svc.Query(ctx.Request().Context(), *filter, ords, page)
	if err != nil {
		return errors.Wrap(err, "querying investors")
	}
	return ctx.JSON(http.StatusOK, newPageResponse(invs, count, page))
}

func (api *investorApi) create(ctx echo.Context) error {
	sub, err := getContextSubject(ctx)
	if err != nil {
		return err
	}

	var data investor.NewInvestor
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInvestor")
	}
	if data.Email == "" {
		data.Email = sub.Email
	}
	if data.Name == "" {
		data.Name = sub.Name
	}
	if err = data.Validate(); err != nil {
		return err
	}

	inv, err := api.svc.Create(ctx.Request().Context(), sub.UserID, data)
	if err != nil {
		return errors.Wrap(err, "creating investor")
	}
	return ctx.JSON(http.StatusCreated, inv)
}

func (api *investorApi) retrieveOwn(ctx echo.Context) error {
	sub, err := getContextSubject(ctx)
	if err != nil {
		return err
	}
	inv, err := api.svc.GetByUserID(ctx.Request().Context(), sub.UserID)
	if err != nil {
		return errors.Wrap(err, "finding investor by user ID")
	}
	return ctx.JSON(http.StatusOK, inv)
}

func (api *investorApi) retrieve(ctx echo.Context) error {
	inv, ok := ctx.Get(contextObjectKey).(investor.Investor)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving investor from context")
	}
	return ctx.JSON(http.StatusOK, inv)
}

func (api *investorApi) update(ctx echo.Context) error {
	orig, ok := ctx.Get(contextObjectKey).(investor.Investor)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving investor from context")
	}

	var data investor.UpdateInvestor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateInvestor")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	inv, err := api.svc.Update(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating investor")
	}
	return ctx.JSON(http.StatusOK, inv)
}

func (api *investorApi) setStatus(ctx echo.Context) error {
	inv, ok := ctx.Get(contextObjectKey).(investor.Investor)
	if !ok {
		return errors.Wrap(errObjNotFoundInCtx, "retrieving investor from context")
	}
	sub, err := getContextSubject(ctx)
	if err != nil {
		return err
	}

	var data investor.StatusChange
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusChange")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	inv, err = api.svc.ApplyStatus(ctx.Request().Context(), inv.ID, sub.UserID, data)
	if err != nil {
		return errors.Wrap(err, "applying investor status")
	}
	return ctx.JSON(http.StatusOK, inv)
}

// selfOrAdminInvestorMiddleware loads the investor named by :id when it belongs to the subject
// or the subject is an admin. Anyone else gets a 404.
func selfOrAdminInvestorMiddleware(svc *investor.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sub, err := getContextSubject(ctx)
			if err != nil {
				return err
			}
			inv, err := svc.Get(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if core.IsNotFound(err) {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding investor by ID")
			}
			if inv.UserID != sub.UserID && !sub.IsAdmin() {
				return errHttpNotFound
			}
			ctx.Set(contextObjectKey, inv)
			return next(ctx)
		}
	}
}
