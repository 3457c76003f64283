package handler

import (
	"net/http"

	apperrors "go-gin-ecommerce/pkg/app_errors"
	"go-gin-ecommerce/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondInvalidInput(c, "Invalid request format")
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		respondInvalidInput(c, "Invalid query parameters")
		return err
	}
	return nil
}

func BindUri(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindUri(obj); err != nil {
		respondInvalidInput(c, "Invalid path parameters")
		return err
	}
	return nil
}

func respondInvalidInput(c *gin.Context, cause string) {
	appErr := apperrors.ErrInvalidInput.WithCause(cause)
	c.AbortWithStatusJSON(appErr.Status(), appErr.Response())
}

// handleError 業務錯誤原樣回傳，其他錯誤只寫 log 並回 500
func handleError(c *gin.Context, err error, operation string) {
	appErr := apperrors.From(err)
	log := logger.WithComponent("handler").With(
		zap.String("operation", operation),
		zap.String("code", appErr.Code),
		zap.Error(err),
	)
	if appErr.Kind == apperrors.KindInternal {
		log.Error("Unexpected error")
	} else {
		log.Warn("Request rejected")
	}
	c.JSON(appErr.Status(), appErr.Response())
}

func handleSuccess(c *gin.Context, data interface{}, statusCode int) {
	if data != nil {
		c.JSON(statusCode, data)
	} else {
		c.Status(statusCode)
	}
}

// Ping health check
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}
