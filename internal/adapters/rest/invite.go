package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/ports/input"
)

func (h *handler) getInvite(c *gin.Context) {
	full := c.Query("guests") == "1"
	snap, err := h.svc.Invites.Resolve(c.Request.Context(), c.Param("eventId"), c.Query("token"), full)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *handler) submitRSVP(c *gin.Context) {
	var req input.RSVPRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	req.EventID = c.Param("eventId")
	req.UserID = userID(c)
	if req.Token == "" {
		req.Token = c.Query("token")
	}

	guestID, err := h.svc.RSVP.Submit(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guest_id": guestID})
}

func (h *handler) getGuestEvent(c *gin.Context) {
	view, err := h.svc.Events.GetForGuest(c.Request.Context(), c.Param("guestId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handler) claimItem(c *gin.Context) {
	var req input.ClaimRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	req.ItemID = c.Param("itemId")

	claimed, err := h.svc.Claims.Claim(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !claimed {
		c.JSON(http.StatusConflict, gin.H{
			"claimed": false,
			"error":   h.svc.Translator.T(h.locale(c), "error.item_already_claimed", nil),
			"code":    "item_already_claimed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"claimed": true})
}

// feed upgrades to a websocket carrying the event's bring-item changes.
// The invite token gates access for hosts and guests alike.
func (h *handler) feed(c *gin.Context) {
	if h.svc.Feed == nil {
		h.fail(c, domain.ErrChannelUnavailable)
		return
	}
	eventID := c.Param("id")
	if _, err := h.svc.Invites.Authorize(c.Request.Context(), eventID, c.Query("token")); err != nil {
		h.fail(c, err)
		return
	}
	h.svc.Feed.Serve(c.Writer, c.Request, eventID)
}
