package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/floracart/floracart/app/services"
	"github.com/floracart/floracart/app/views"
	"github.com/floracart/floracart/pkg/bind"
	"github.com/floracart/floracart/pkg/logger"
	"github.com/floracart/floracart/pkg/response"
	"github.com/floracart/floracart/pkg/router"
	"github.com/floracart/floracart/pkg/session"
	"github.com/floracart/floracart/pkg/validate"
)

const (
	msgOrderFailed      = "Failed to place order."
	msgOrderNotFound    = "Order not found."
	msgOrderDetailError = "Error retrieving order details."
	msgHistoryError     = "Error fetching order history."
)

// orderPayload is the typed body of POST /submit-order. Price and date
// arrive as strings and are converted after validation.
type orderPayload struct {
	ProductName     string `form:"productName"     json:"productName"     validate:"required"`
	ProductPrice    string `form:"productPrice"    json:"productPrice"    validate:"required,numeric"`
	Size            string `form:"size"            json:"size"            validate:"required"`
	DeliveryDate    string `form:"deliveryDate"    json:"deliveryDate"    validate:"required,date"`
	DeliveryAddress string `form:"deliveryAddress" json:"deliveryAddress" validate:"required"`
	CardMessage     string `form:"cardMessage"     json:"cardMessage"     validate:"nullable,max=500"`
}

// OrderController serves order placement and viewing.
type OrderController struct {
	orders *services.OrderService
	router *router.Router
}

// NewOrderController builds an OrderController. The router is used for
// reverse URL building on the success redirect.
func NewOrderController(orders *services.OrderService, r *router.Router) *OrderController {
	return &OrderController{orders: orders, router: r}
}

// Submit places an order for the logged-in user and answers with JSON
// containing the confirmation page URL.
func (c *OrderController) Submit(w http.ResponseWriter, r *http.Request) {
	identity, _ := session.FromCtx(r.Context())

	var payload orderPayload
	errs, err := bind.Request(r, &payload)
	if err != nil {
		response.Error(w, http.StatusBadRequest, msgOrderFailed)
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	price, err := strconv.ParseFloat(payload.ProductPrice, 64)
	if err != nil {
		response.ValidationError(w, map[string]string{"productPrice": "productPrice must be numeric"})
		return
	}
	deliveryDate, err := validate.ParseDate(payload.DeliveryDate)
	if err != nil {
		response.ValidationError(w, map[string]string{"deliveryDate": "deliveryDate must be a valid date"})
		return
	}

	order, err := c.orders.Place(r.Context(), identity.UserID, services.OrderInput{
		ProductName:     payload.ProductName,
		Size:            payload.Size,
		DeliveryDate:    deliveryDate,
		DeliveryAddress: payload.DeliveryAddress,
		CardMessage:     payload.CardMessage,
		TotalPrice:      price,
	})
	if err != nil {
		logger.WithCtx(r.Context()).Error("submit order", "error", err)
		response.Error(w, http.StatusInternalServerError, msgOrderFailed)
		return
	}

	redirectURL, err := c.router.URL("orders.success", map[string]string{"orderId": order.ID.Hex()})
	if err != nil {
		logger.WithCtx(r.Context()).Error("submit order: build redirect", "error", err)
		response.Error(w, http.StatusInternalServerError, msgOrderFailed)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"redirectUrl": redirectURL,
	})
}

// Show renders the confirmation page for one of the caller's orders.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	identity, _ := session.FromCtx(r.Context())

	order, err := c.orders.Get(r.Context(), identity.UserID, chi.URLParam(r, "orderId"))
	if errors.Is(err, services.ErrNotFound) {
		http.Error(w, msgOrderNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("show order", "error", err)
		http.Error(w, msgOrderDetailError, http.StatusInternalServerError)
		return
	}

	views.Render(w, http.StatusOK, "order_success.html", map[string]interface{}{
		"Order": order,
		"User":  identity,
	})
}

// History renders the caller's orders, newest first.
func (c *OrderController) History(w http.ResponseWriter, r *http.Request) {
	identity, _ := session.FromCtx(r.Context())

	orders, err := c.orders.History(r.Context(), identity.UserID)
	if err != nil {
		logger.WithCtx(r.Context()).Error("order history", "error", err)
		http.Error(w, msgHistoryError, http.StatusInternalServerError)
		return
	}

	views.Render(w, http.StatusOK, "order_history.html", map[string]interface{}{
		"Orders": orders,
		"User":   identity,
	})
}
