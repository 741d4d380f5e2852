package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shsportal/backend/core/directory"
)

type directoryApi struct {
	svc directory.Service
}

func registerDirectoryAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc directory.Service) {
	api := directoryApi{svc: svc}

	dg := g.Group("/directory", jwt)
	dg.GET("/strands", api.strands)
	dg.GET("/strands/:id/sections", api.sections)
	dg.GET("/strands/:id/subjects", api.subjects)
	dg.GET("/teachers", api.teachers)
}

func (api *directoryApi) strands(ctx echo.Context) error {
	strands, err := api.svc.ListStrands(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing strands")
	}
	return ctx.JSON(http.StatusOK, strands)
}

func (api *directoryApi) sections(ctx echo.Context) error {
	sections, err := api.svc.ListSectionsByStrand(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing sections")
	}
	return ctx.JSON(http.StatusOK, sections)
}

func (api *directoryApi) subjects(ctx echo.Context) error {
	subjects, err := api.svc.ListSubjectsByStrand(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *directoryApi) teachers(ctx echo.Context) error {
	teachers, err := api.svc.ListTeachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}
