package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/wasilisha/core/submission"
)

type uploadsApi struct {
	submissionSvc *submission.Service
}

func registerUploadsAPI(e *echo.Echo, jwt echo.MiddlewareFunc, submissionSvc *submission.Service) {
	api := uploadsApi{submissionSvc: submissionSvc}

	e.GET("/uploads/:filename", api.download, jwt)
}

// download streams a stored PDF back to an authorized requester: faculty may
// fetch any file, a student only their own.
func (api *uploadsApi) download(ctx echo.Context) error {
	usr, err := contextUser(ctx)
	if err != nil {
		return err
	}

	filename := ctx.Param("filename")
	rc, err := api.submissionSvc.OpenFile(usr, filename)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Stream(http.StatusOK, "application/pdf", rc)
}
