package transport

import (
	"net/http"
	"strconv"
	"strings"

	"nextshop/internal/middleware"
	"nextshop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DashboardStat is a single labelled dashboard figure
type DashboardStat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DashboardOrder is a recent order shaped for display
type DashboardOrder struct {
	ID        string `json:"id"`
	Customer  string `json:"customer"`
	Total     string `json:"total"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// DashboardResponse aggregates the admin overview payload
type DashboardResponse struct {
	Stats    []DashboardStat  `json:"stats"`
	Orders   []DashboardOrder `json:"orders"`
	Products []AdminProduct   `json:"products"`
}

// DashboardHandler serves the admin overview aggregates
type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, logger: logger}
}

// RegisterRoutes registers the dashboard route behind admin auth
func (h *DashboardHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/admin/dashboard", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Get("/", h.Overview)
	})
}

// Overview returns user/product/order counts, gross revenue, and the
// latest orders and products
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboardService.Overview(r.Context())
	if err != nil {
		h.logger.Error("Failed to load dashboard overview", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Unable to load dashboard")
		return
	}

	response := DashboardResponse{
		Stats: []DashboardStat{
			{Label: "Active customers", Value: strconv.Itoa(overview.UserCount)},
			{Label: "Shippable products", Value: strconv.Itoa(overview.ProductCount)},
			{Label: "Orders processed", Value: strconv.Itoa(overview.OrderCount)},
			{Label: "Gross revenue", Value: "$" + overview.GrossRevenue.StringFixed(2)},
		},
		Orders:   make([]DashboardOrder, 0, len(overview.Orders)),
		Products: make([]AdminProduct, 0, len(overview.Products)),
	}

	for _, ro := range overview.Orders {
		response.Orders = append(response.Orders, DashboardOrder{
			ID:        strings.ToUpper(ro.Order.ID.String()[:8]),
			Customer:  ro.Customer,
			Total:     "$" + ro.Order.Total.StringFixed(2),
			Status:    string(ro.Order.Status),
			CreatedAt: ro.Order.CreatedAt.Format("2006-01-02"),
		})
	}

	for _, p := range overview.Products {
		response.Products = append(response.Products, AdminProduct{
			ID:          p.ID,
			Name:        p.Name,
			PriceLabel:  "$" + p.Price.StringFixed(2),
			PriceValue:  p.Price.InexactFloat64(),
			Featured:    p.Featured,
			Description: p.Description,
			Image:       p.Image,
			Tags:        p.Tags,
			Inventory:   p.Inventory,
			Rating:      p.Rating.InexactFloat64(),
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}
