package controllers

import (
	"net/http"

	"github.com/floracart/floracart/app/views"
	"github.com/floracart/floracart/pkg/session"
)

// HomeController serves the storefront landing page.
type HomeController struct{}

// NewHomeController builds a HomeController.
func NewHomeController() *HomeController {
	return &HomeController{}
}

// Index renders the landing page. The identity is optional; the page
// adapts to anonymous visitors.
func (c *HomeController) Index(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{}
	if identity, ok := session.FromCtx(r.Context()); ok {
		data["User"] = identity
	}
	views.Render(w, http.StatusOK, "index.html", data)
}
