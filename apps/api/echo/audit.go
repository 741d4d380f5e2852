package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shsportal/backend/core/audit"
)

type auditApi struct {
	svc *audit.Service
}

func registerAuditAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *audit.Service) {
	api := auditApi{svc: svc}

	g.GET("/audit", api.page, jwt, adminMiddleware())
}

func (api *auditApi) page(ctx echo.Context) error {
	var query audit.PageQuery
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to PageQuery")
	}

	page, err := api.svc.Page(ctx.Request().Context(), query)
	if err != nil {
		return errors.Wrap(err, "paging audit trail")
	}
	return ctx.JSON(http.StatusOK, page)
}
