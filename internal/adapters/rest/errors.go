package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dinnerbell/internal/domain"
)

const codeInternal = "internal"

var statusByCode = map[string]int{
	"event_not_found":     http.StatusNotFound,
	"invite_invalid":      http.StatusNotFound,
	"guest_not_found":     http.StatusNotFound,
	"item_not_found":      http.StatusNotFound,
	"group_not_found":     http.StatusNotFound,
	"profile_not_found":   http.StatusNotFound,
	"forbidden":           http.StatusForbidden,
	"unauthenticated":     http.StatusUnauthorized,
	"validation":          http.StatusBadRequest,
	"datetime_in_past":    http.StatusBadRequest,
	"item_not_claimable":  http.StatusConflict,
	"invalid_transition":  http.StatusConflict,
	"event_cancelled":     http.StatusConflict,
	"channel_unavailable": http.StatusServiceUnavailable,
}

var errBadRequest = errors.New("malformed request body")

// fail writes the localized error body for err. Unknown errors are logged
// and reported as internal.
func (h *handler) fail(c *gin.Context, err error) {
	status, body := h.errorBody(c, err)
	c.JSON(status, body)
}

func (h *handler) abort(c *gin.Context, err error) {
	status, body := h.errorBody(c, err)
	c.AbortWithStatusJSON(status, body)
}

func (h *handler) errorBody(c *gin.Context, err error) (int, gin.H) {
	if errors.Is(err, errBadRequest) {
		err = domain.ErrValidation
	}
	code := domain.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		h.log.Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
		code, status = codeInternal, http.StatusInternalServerError
	}
	return status, gin.H{
		"error": h.svc.Translator.T(h.locale(c), "error."+code, nil),
		"code":  code,
	}
}

func (h *handler) locale(c *gin.Context) string {
	return h.svc.Translator.Match(c.GetHeader("Accept-Language"))
}

// bind decodes the JSON body into dst.
func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errBadRequest
	}
	return nil
}
