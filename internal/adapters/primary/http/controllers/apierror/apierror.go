package apierror

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YusufBro01/ymastar/internal/domain"
)

// Response тело ошибки API; коды непрозрачные, тексты локализует мини-приложение
type Response struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Code  string `json:"code,omitempty"`
}

// Status HTTP статус для класса ошибки
func Status(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInputInvalid:
		return http.StatusBadRequest
	case domain.KindValidationFailed:
		return http.StatusUnprocessableEntity
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindLookupFailed, domain.KindDispatchFailed:
		return http.StatusBadGateway
	case domain.KindExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// Write отвечает ошибкой бизнес-логики; внутренние ошибки логируются и наружу не уходят
func Write(c *gin.Context, log *slog.Logger, err error) {
	kind := domain.KindOf(err)
	resp := Response{Error: string(kind)}

	if domainErr, ok := domain.AsError(err); ok {
		resp.Field = domainErr.Field
		resp.Code = domainErr.Code
	}

	status := Status(kind)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		log.Error("request failed", "path", c.FullPath(), "error", err)
	} else {
		log.Debug("request rejected", "path", c.FullPath(), "kind", kind, "code", resp.Code)
	}

	c.AbortWithStatusJSON(status, resp)
}
