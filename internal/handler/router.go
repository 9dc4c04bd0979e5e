package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"barberbook/internal/handler/api"
	"barberbook/internal/handler/middleware"
	"barberbook/internal/pkg/config"
	"barberbook/internal/usecase/queries"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Booking      *api.BookingHandler
	Commanda     *api.CommandaHandler
	Payment      *api.PaymentHandler
	Availability *api.AvailabilityHandler
	WaitList     *api.WaitListHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		locations := apiGroup.Group("/locations/:locationId")
		{
			// Slot discovery is public; walk-in clients browse without a token.
			addRoutes(locations, []route{
				{Method: http.MethodGet, Path: "/professionals/:professionalId/availability", Handler: h.Availability.DayAvailability},
			})

			staff := locations.Group("")
			staff.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRoleAtLeast(queries.RoleStaff))
			addRoutes(staff, []route{
				{Method: http.MethodGet, Path: "/bookings", Handler: h.Booking.ListByLocation},
				{Method: http.MethodGet, Path: "/waitlist", Handler: h.WaitList.ListActive},
			})
		}

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Booking.CreateBooking},
				{Method: http.MethodGet, Path: "", Handler: h.Booking.ListMine},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.GetBooking},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Booking.CancelBooking},
				{Method: http.MethodGet, Path: "/:id/payments", Handler: h.Payment.ListPayments},
			})

			staff := bookings.Group("")
			staff.Use(authMiddleware.RequireRoleAtLeast(queries.RoleStaff))
			addRoutes(staff, []route{
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: h.Booking.ConfirmBooking},
				{Method: http.MethodPost, Path: "/:id/start", Handler: h.Booking.StartBooking},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: h.Booking.CompleteBooking},
				{Method: http.MethodPost, Path: "/:id/items", Handler: h.Commanda.AddItem},
				{Method: http.MethodPatch, Path: "/:id/items/:itemId", Handler: h.Commanda.UpdateItem},
				{Method: http.MethodDelete, Path: "/:id/items/:itemId", Handler: h.Commanda.RemoveItem},
				{Method: http.MethodPost, Path: "/:id/payments", Handler: h.Payment.RecordPayment},
				{Method: http.MethodDelete, Path: "/:id/payments/:paymentId", Handler: h.Payment.RemovePayment},
			})
		}

		waitlist := apiGroup.Group("/waitlist")
		waitlist.Use(authMiddleware.OptionalAuth())
		{
			addRoutes(waitlist, []route{
				{Method: http.MethodPost, Path: "", Handler: h.WaitList.Join},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.WaitList.Leave},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
