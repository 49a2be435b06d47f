package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/ports/input"
)

const defaultQRSize = 256

func (h *handler) listEvents(c *gin.Context) {
	list, err := h.svc.Events.List(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) createEvent(c *gin.Context) {
	var draft input.EventDraft
	if err := bind(c, &draft); err != nil {
		h.fail(c, err)
		return
	}
	view, err := h.svc.Events.Create(c.Request.Context(), userID(c), draft)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *handler) getEvent(c *gin.Context) {
	view, err := h.svc.Events.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handler) updateEvent(c *gin.Context) {
	var patch input.EventPatch
	if err := bind(c, &patch); err != nil {
		h.fail(c, err)
		return
	}
	event, err := h.svc.Events.Update(c.Request.Context(), userID(c), c.Param("id"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *handler) cancelEvent(c *gin.Context) {
	if err := h.svc.Events.Cancel(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type bellRequest struct {
	Message string `json:"message"`
}

func (h *handler) ringBell(c *gin.Context) {
	var req bellRequest
	// the message is optional, so an empty body is fine
	if c.Request.ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			h.fail(c, err)
			return
		}
	}
	sent, err := h.svc.Bell.Ring(c.Request.Context(), userID(c), c.Param("id"), req.Message)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}

type coHostRequest struct {
	UserID string `json:"user_id"`
}

func (h *handler) addCoHost(c *gin.Context) {
	var req coHostRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Events.AddCoHost(c.Request.Context(), userID(c), c.Param("id"), req.UserID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) uploadCover(c *gin.Context) {
	header, err := c.FormFile("cover")
	if err != nil {
		h.fail(c, fmt.Errorf("%w: cover file is required", domain.ErrValidation))
		return
	}
	file, err := header.Open()
	if err != nil {
		h.fail(c, fmt.Errorf("open cover upload: %w", err))
		return
	}
	defer file.Close()

	event, err := h.svc.Events.SetCover(c.Request.Context(), userID(c), c.Param("id"), file)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *handler) addBringItem(c *gin.Context) {
	var draft input.BringItemDraft
	if err := bind(c, &draft); err != nil {
		h.fail(c, err)
		return
	}
	item, err := h.svc.Claims.AddItem(c.Request.Context(), userID(c), c.Param("id"), draft)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *handler) markProvided(c *gin.Context) {
	item, err := h.svc.Claims.MarkProvided(c.Request.Context(), userID(c), c.Param("itemId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handler) markArrived(c *gin.Context) {
	if err := h.svc.RSVP.MarkArrived(c.Request.Context(), userID(c), c.Param("guestId")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) inviteQR(c *gin.Context) {
	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 64 || n > 1024 {
			h.fail(c, fmt.Errorf("%w: size must be between 64 and 1024", domain.ErrValidation))
			return
		}
		size = n
	}
	png, err := h.svc.Invites.QRCode(c.Request.Context(), userID(c), c.Param("id"), size)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

type deliveryRequest struct {
	To string `json:"to"`
}

func (h *handler) sendInviteEmail(c *gin.Context) {
	h.deliver(c, h.svc.Delivery.SendEmail)
}

func (h *handler) sendInviteSMS(c *gin.Context) {
	h.deliver(c, h.svc.Delivery.SendSMS)
}

// sendInvitePush expects the target user id in "to".
func (h *handler) sendInvitePush(c *gin.Context) {
	h.deliver(c, h.svc.Delivery.SendPush)
}

func (h *handler) deliver(c *gin.Context, send func(ctx context.Context, userID, eventID, to string) error) {
	var req deliveryRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := send(c.Request.Context(), userID(c), c.Param("id"), req.To); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
