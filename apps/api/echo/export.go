package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
	exportsvc "github.com/startupsl/backend/services/export"
)

type exportApi struct {
	companySvc *company.Service
	logger     core.Logger
}

func registerExportAPI(g *echo.Group, companySvc *company.Service, logger core.Logger) {
	api := exportApi{companySvc: companySvc, logger: logger}

	eg := g.Group("/admin/export", adminMiddleware())
	eg.GET("/companies", api.companies)
}

// Handlers

func (api *exportApi) companies(ctx echo.Context) error {
	comps, err := api.companySvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "loading companies")
	}
	company.SortByName(comps)

	data, err := exportsvc.Companies(comps)
	if err != nil {
		return errors.Wrap(err, "exporting companies")
	}
	api.logger.Info("companies exported", map[string]interface{}{"count": len(comps)})

	filename := "companies-" + core.NowFunc().Format("20060102") + ".xlsx"
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, exportsvc.ContentType, data)
}
