package controller

import (
	"coder_edu_catalog/internal/catalog"
	"coder_edu_catalog/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

// respondError 把服务层错误映射为统一响应，查找未命中一律 404
func respondError(ctx *gin.Context, err error) {
	var nf *catalog.NotFoundError
	switch {
	case errors.As(err, &nf):
		util.NotFoundMessage(ctx, nf.Error())
	case errors.Is(err, catalog.ErrNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrCatalogNotLoaded), errors.Is(err, util.ErrPublishingDisabled):
		util.ServiceUnavailable(ctx, err.Error())
	case errors.Is(err, util.ErrNothingToPublish):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
