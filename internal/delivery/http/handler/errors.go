package handler

import (
	"errors"
	"net/http"

	"job-board/internal/logger"
	"job-board/internal/middleware"
	appErrors "job-board/pkg/errors"
	"job-board/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, appErrors.ErrInvalidToken),
		errors.Is(err, appErrors.ErrActivationCodeRequired),
		errors.Is(err, appErrors.ErrActivationTokenRequired),
		errors.Is(err, appErrors.ErrInvalidActivationCode),
		errors.Is(err, appErrors.ErrCredentialsRequired),
		errors.Is(err, appErrors.ErrPasswordRequired):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, appErrors.ErrInvalidCredentials),
		errors.Is(err, appErrors.ErrTokenInvalid),
		errors.Is(err, appErrors.ErrTokenExpired),
		errors.Is(err, appErrors.ErrUnauthorized):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, appErrors.ErrForbidden):
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, appErrors.ErrUserNotFound),
		errors.Is(err, appErrors.ErrJobNotFound),
		errors.Is(err, appErrors.ErrResetLinkInvalid):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, appErrors.ErrUsernameTaken),
		errors.Is(err, appErrors.ErrEmailTaken),
		errors.Is(err, appErrors.ErrAlreadyVerified):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, appErrors.ErrActivationCodeExpired):
		utils.ErrorResponse(c, http.StatusGone, err.Error())
	case errors.Is(err, appErrors.ErrUserNotVerified):
		utils.ErrorResponse(c, http.StatusPreconditionFailed, err.Error())
	default:
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) && !appErr.Internal() {
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
			return
		}

		requestID := middleware.GetRequestID(c)
		logger.Error("Internal server error",
			zap.String("request_id", requestID),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

// currentUserID reads the id the auth middleware stored on the context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	return middleware.UserIDFromContext(c)
}
