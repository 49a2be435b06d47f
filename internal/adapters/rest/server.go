// Package rest exposes the use cases over HTTP with gin.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"dinnerbell/internal/ports/input"
	"dinnerbell/internal/ports/output"
)

// FeedServer streams an event's bring-item changes over a websocket.
type FeedServer interface {
	Serve(w http.ResponseWriter, r *http.Request, eventID string)
}

// Services are the use cases served by the router.
type Services struct {
	Events     input.EventUseCase
	Invites    input.InviteUseCase
	RSVP       input.RSVPUseCase
	Claims     input.ClaimUseCase
	Bell       input.BellUseCase
	Delivery   input.InviteDeliveryUseCase
	Groups     input.GroupUseCase
	Profiles   input.ProfileUseCase
	Feed       FeedServer
	Analytics  output.AnalyticsForwarder
	Translator output.Translator
}

// DevLogin holds the credentials accepted by /auth/dev-login. A nil
// *DevLogin disables the route.
type DevLogin struct {
	UserID   string
	Email    string
	Password string
}

type Options struct {
	JWTSecret []byte
	DevLogin  *DevLogin
	Log       zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type handler struct {
	svc  Services
	opts Options
	log  zerolog.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc Services, opts Options) *gin.Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := &handler{svc: svc, opts: opts, log: opts.Log.With().Str("component", "http").Logger()}

	r := gin.New()
	r.Use(gin.Recovery(), h.accessLog())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// public, gated by invite token or guest id
	r.GET("/invite/:eventId", h.getInvite)
	r.POST("/invite/:eventId/rsvp", h.optionalAuth(), h.submitRSVP)
	r.GET("/guests/:guestId/event", h.getGuestEvent)
	r.POST("/bring-items/:itemId/claim", h.claimItem)
	r.GET("/events/:id/feed", h.feed)
	if opts.DevLogin != nil {
		r.POST("/auth/dev-login", h.devLogin)
	}

	// protected
	auth := h.requireAuth()

	events := r.Group("/events")
	events.Use(auth)
	{
		events.GET("", h.listEvents)
		events.POST("", h.createEvent)
		events.GET("/:id", h.getEvent)
		events.PATCH("/:id", h.updateEvent)
		events.POST("/:id/cancel", h.cancelEvent)
		events.POST("/:id/bell", h.ringBell)
		events.POST("/:id/cohosts", h.addCoHost)
		events.POST("/:id/cover", h.uploadCover)
		events.POST("/:id/bring-items", h.addBringItem)
		events.GET("/:id/invite/qr", h.inviteQR)
		events.POST("/:id/invites/email", h.sendInviteEmail)
		events.POST("/:id/invites/sms", h.sendInviteSMS)
		events.POST("/:id/invites/push", h.sendInvitePush)
	}

	r.POST("/bring-items/:itemId/provided", auth, h.markProvided)
	r.POST("/guests/:guestId/arrived", auth, h.markArrived)

	groups := r.Group("/groups")
	groups.Use(auth)
	{
		groups.GET("", h.listGroups)
		groups.POST("", h.createGroup)
		groups.POST("/:id/members", h.addGroupMember)
		groups.DELETE("/:id", h.deleteGroup)
	}

	profile := r.Group("/profile")
	profile.Use(auth)
	{
		profile.GET("", h.getProfile)
		profile.PATCH("", h.updateProfile)
		profile.POST("/push-token", h.registerPushToken)
	}

	r.POST("/analytics", auth, h.forwardAnalytics)
	return r
}

// Serve runs the HTTP server until ctx is done, then shuts it down.
func Serve(ctx context.Context, addr string, handler http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
