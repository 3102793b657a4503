package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wasilisha/core/assignment"
	"github.com/trezcool/wasilisha/core/submission"
	"github.com/trezcool/wasilisha/core/user"
)

type facultyApi struct {
	userSvc       *user.Service
	assignmentSvc *assignment.Service
	submissionSvc *submission.Service
}

func registerFacultyAPI(e *echo.Echo, jwt echo.MiddlewareFunc, userSvc *user.Service, assignmentSvc *assignment.Service, submissionSvc *submission.Service) {
	api := facultyApi{userSvc: userSvc, assignmentSvc: assignmentSvc, submissionSvc: submissionSvc}

	g := e.Group("/faculty", jwt, roleMiddleware(user.RoleFaculty))
	g.GET("", api.dashboard)
	g.POST("", api.createAssignment)
	g.POST("/review", api.review)
}

// Handlers

func (api *facultyApi) dashboard(ctx echo.Context) error {
	assignments, err := api.assignmentSvc.List()
	if err != nil {
		return errors.Wrap(err, "listing assignments")
	}
	submissions, err := api.submissionSvc.ListAll()
	if err != nil {
		return errors.Wrap(err, "listing submissions")
	}
	logins, err := api.userSvc.RecentLogins()
	if err != nil {
		return errors.Wrap(err, "listing recent logins")
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"assignments": assignments,
		"submissions": submissions,
		"logins":      logins,
	})
}

func (api *facultyApi) createAssignment(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}

	a, err := api.assignmentSvc.Create(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *facultyApi) review(ctx echo.Context) error {
	usr, err := contextUser(ctx)
	if err != nil {
		return err
	}

	var data submission.Review
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Review")
	}

	sub, err := api.submissionSvc.Review(usr, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}
