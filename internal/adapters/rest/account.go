package rest

import (
	"crypto/subtle"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/ports/input"
)

const maxAnalyticsBody = 64 << 10

func (h *handler) listGroups(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Groups.List(c.Request.Context(), userID(c)))
}

type groupRequest struct {
	Name string `json:"name"`
}

func (h *handler) createGroup(c *gin.Context) {
	var req groupRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	group, err := h.svc.Groups.Create(c.Request.Context(), userID(c), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

type memberRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

func (h *handler) addGroupMember(c *gin.Context) {
	var req memberRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	member, err := h.svc.Groups.AddMember(c.Request.Context(), userID(c), c.Param("id"), req.Name, req.Contact)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *handler) deleteGroup(c *gin.Context) {
	if err := h.svc.Groups.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) getProfile(c *gin.Context) {
	profile, err := h.svc.Profiles.Get(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *handler) updateProfile(c *gin.Context) {
	var patch input.ProfilePatch
	if err := bind(c, &patch); err != nil {
		h.fail(c, err)
		return
	}
	profile, err := h.svc.Profiles.Update(c.Request.Context(), userID(c), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type pushTokenRequest struct {
	Token string `json:"token"`
}

func (h *handler) registerPushToken(c *gin.Context) {
	var req pushTokenRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Profiles.RegisterPushToken(c.Request.Context(), userID(c), req.Token); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// forwardAnalytics relays the client payload. Forwarding failures are
// logged and never surface to the app.
func (h *handler) forwardAnalytics(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAnalyticsBody))
	if err != nil {
		h.fail(c, fmt.Errorf("%w: unreadable body", domain.ErrValidation))
		return
	}
	if h.svc.Analytics != nil && len(body) > 0 {
		if err := h.svc.Analytics.Forward(c.Request.Context(), body); err != nil {
			h.log.Warn().Err(err).Msg("analytics forward failed")
		}
	}
	c.Status(http.StatusAccepted)
}

type devLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handler) devLogin(c *gin.Context) {
	var req devLoginRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	dev := h.opts.DevLogin
	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(dev.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(dev.Password)) == 1
	if !emailOK || !passOK {
		h.fail(c, domain.ErrUnauthenticated)
		return
	}
	token, err := IssueToken(h.opts.JWTSecret, dev.UserID, h.opts.Now())
	if err != nil {
		h.fail(c, fmt.Errorf("issue dev token: %w", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": dev.UserID})
}
