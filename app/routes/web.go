// Package routes wires controllers onto the router.
package routes

import (
	"time"

	"github.com/floracart/floracart/app/controllers"
	"github.com/floracart/floracart/app/services"
	"github.com/floracart/floracart/pkg/middleware"
	"github.com/floracart/floracart/pkg/router"
	"github.com/floracart/floracart/pkg/session"
)

// RegisterWeb mounts the storefront routes. Credential endpoints carry a
// per-IP rate limit; order routes require a logged-in session.
func RegisterWeb(r *router.Router, sessions *session.Manager, auth *services.AuthService, orders *services.OrderService) {
	home := controllers.NewHomeController()
	authCtrl := controllers.NewAuthController(auth, sessions)
	orderCtrl := controllers.NewOrderController(orders, r)

	credLimit := middleware.RateLimit(10, time.Minute)

	r.Get("/", "home", home.Index)

	r.Get("/signup", "auth.signup.form", authCtrl.SignupForm)
	r.Post("/signup", "auth.signup", authCtrl.Signup, credLimit)
	r.Get("/login", "auth.login.form", authCtrl.LoginForm)
	r.Post("/login", "auth.login", authCtrl.Login, credLimit)
	r.Get("/logout", "auth.logout", authCtrl.Logout)

	protected := r.Group("/", session.RequireLogin)
	protected.Post("/submit-order", "orders.submit", orderCtrl.Submit)
	protected.Get("/order-success/{orderId}", "orders.success", orderCtrl.Show)
	protected.Get("/order-history", "orders.history", orderCtrl.History)
}
