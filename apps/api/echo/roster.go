package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shsportal/backend/core/roster"
)

type rosterApi struct {
	svc      roster.Service
	validate *validator.Validate
}

func registerRosterAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc roster.Service,
	validate *validator.Validate,
) {
	api := rosterApi{
		svc:      svc,
		validate: validate,
	}

	rg := g.Group("/rosters", jwt)

	rg.POST("", api.create, teacherMiddleware())
	rg.GET("", api.query)

	// detail endpoints
	dg := rg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy, teacherMiddleware())
	dg.GET("/candidates", api.candidates, teacherMiddleware())
	dg.POST("/students", api.addStudent, teacherMiddleware())
	dg.DELETE("/students/:studentId", api.removeStudent, teacherMiddleware())
	dg.PUT("/grades", api.submitGrades, teacherMiddleware())
	dg.GET("/grades", api.gradeSheet)
}

// Handlers

func (api *rosterApi) create(ctx echo.Context) error {
	var data roster.NewRoster
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRoster")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ros, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating roster")
	}
	return ctx.JSON(http.StatusCreated, ros)
}

func (api *rosterApi) query(ctx echo.Context) error {
	filter := new(roster.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []roster.ClassRoster{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	rosters, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying rosters")
	}
	if rosters == nil {
		rosters = []roster.ClassRoster{}
	}
	return ctx.JSON(http.StatusOK, rosters)
}

func (api *rosterApi) retrieve(ctx echo.Context) error {
	ros, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding roster by ID")
	}
	return ctx.JSON(http.StatusOK, ros)
}

func (api *rosterApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting roster")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *rosterApi) candidates(ctx echo.Context) error {
	cands, err := api.svc.ListCandidates(ctx.Request().Context(), ctx.Param("id"), ctx.QueryParam("search"))
	if err != nil {
		return errors.Wrap(err, "listing candidates")
	}
	return ctx.JSON(http.StatusOK, cands)
}

func (api *rosterApi) addStudent(ctx echo.Context) error {
	var data AddStudentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddStudentRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ros, err := api.svc.AddStudent(ctx.Request().Context(), ctx.Param("id"), data.StudentID)
	if err != nil {
		return errors.Wrap(err, "adding student")
	}
	return ctx.JSON(http.StatusOK, ros)
}

func (api *rosterApi) removeStudent(ctx echo.Context) error {
	confirm, _ := strconv.ParseBool(ctx.QueryParam("confirm"))

	ros, err := api.svc.RemoveStudent(ctx.Request().Context(), ctx.Param("id"), ctx.Param("studentId"), confirm)
	if err != nil {
		return errors.Wrap(err, "removing student")
	}
	return ctx.JSON(http.StatusOK, ros)
}

func (api *rosterApi) submitGrades(ctx echo.Context) error {
	var data []roster.GradeSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeSubmissions")
	}

	entries, err := api.svc.SubmitGrades(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "submitting grades")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *rosterApi) gradeSheet(ctx echo.Context) error {
	entries, err := api.svc.ReadDisplayState(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "reading grade sheet")
	}
	return ctx.JSON(http.StatusOK, entries)
}

type AddStudentRequest struct {
	StudentID string `json:"student_id" validate:"required"`
}

func (ar *AddStudentRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(ar)
}
