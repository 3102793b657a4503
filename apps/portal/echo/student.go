package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wasilisha/core/assignment"
	"github.com/trezcool/wasilisha/core/submission"
	"github.com/trezcool/wasilisha/core/user"
)

type studentApi struct {
	assignmentSvc *assignment.Service
	submissionSvc *submission.Service
}

func registerStudentAPI(e *echo.Echo, jwt echo.MiddlewareFunc, assignmentSvc *assignment.Service, submissionSvc *submission.Service) {
	api := studentApi{assignmentSvc: assignmentSvc, submissionSvc: submissionSvc}

	g := e.Group("/student", jwt, roleMiddleware(user.RoleStudent))
	g.GET("", api.dashboard)
	g.POST("", api.submit)

	e.POST("/delete-submission/:id", api.deleteSubmission, jwt, roleMiddleware(user.RoleStudent))
}

// Handlers

func (api *studentApi) dashboard(ctx echo.Context) error {
	usr, err := contextUser(ctx)
	if err != nil {
		return err
	}

	assignments, err := api.assignmentSvc.List()
	if err != nil {
		return errors.Wrap(err, "listing assignments")
	}
	submissions, err := api.submissionSvc.ListForStudent(usr.ID)
	if err != nil {
		return errors.Wrap(err, "listing student submissions")
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"assignments": assignments,
		"submissions": submissions,
	})
}

// submit accepts a multipart form with an assignment_id field and a pdf_file part.
func (api *studentApi) submit(ctx echo.Context) error {
	usr, err := contextUser(ctx)
	if err != nil {
		return err
	}

	assignmentID, _ := strconv.Atoi(ctx.FormValue("assignment_id"))

	var up submission.Upload
	if fh, err := ctx.FormFile("pdf_file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "opening uploaded file")
		}
		defer func() { _ = f.Close() }()
		up = submission.Upload{Filename: fh.Filename, File: f, Size: fh.Size}
	}

	sub, err := api.submissionSvc.Submit(usr, assignmentID, up)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *studentApi) deleteSubmission(ctx echo.Context) error {
	usr, err := contextUser(ctx)
	if err != nil {
		return err
	}
	id, _ := strconv.Atoi(ctx.Param("id"))

	if err := api.submissionSvc.Delete(usr, id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "submission deleted"})
}
