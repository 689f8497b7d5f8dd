package handler

import (
	"github.com/campus-compass/calendar-manager/internal/errdef"

	"github.com/gin-gonic/gin"
)

// DataBinder binds the request body into req. Errors are added to the gin context so callers only
// need to return.
func DataBinder(c *gin.Context, req any) error {
	if c.ContentType() != "application/json" && c.ContentType() != "multipart/form-data" {
		err := errdef.NewUnsupportedMediaType("%s only accepts content of type application/json or multipart/form-data", c.FullPath())
		_ = c.Error(err)
		return err
	}

	if err := c.ShouldBind(req); err != nil {
		badRequest := errdef.NewBadRequest("error binding data: %v", err)
		_ = c.Error(badRequest)
		return badRequest
	}

	return nil
}
