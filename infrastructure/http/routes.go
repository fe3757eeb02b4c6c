package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"weighbridge/frontend/login"
	"weighbridge/frontend/receipts"
	"weighbridge/frontend/settings"
)

// RegisterLoginRoutes registers login/logout routes. Without a configured
// password the login screen just bounces back to the editor.
func (s *Server) RegisterLoginRoutes() {
	if s.PasswordHash == "" {
		s.router.Get("/login", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/receipts", http.StatusSeeOther)
		})
		return
	}
	s.router.Get("/login", login.GetLoginScreenHandler)
	s.router.Post("/login", login.CreateLoginHandler(s.PasswordHash, s.Sessions))
	s.router.Post("/logout", login.LogoutHandler(s.Sessions))
}

// RegisterAppRoutes registers the editor, collection and template routes.
func (s *Server) RegisterAppRoutes(r chi.Router) chi.Router {
	r.Get("/receipts", receipts.EditorPageQueryHandler(s.Receipts))
	r.Post("/receipts/save", receipts.SaveReceiptCommandHandler(s.Receipts))
	r.Get("/receipts/{id}/delete", receipts.DeleteConfirmQueryHandler(s.Receipts))
	r.Post("/receipts/{id}/delete", receipts.DeleteCommitCommandHandler(s.Receipts))
	r.Get("/receipts/{id}/receipt.pdf", receipts.ReceiptPDFQueryHandler(s.Receipts, s.KV))
	r.Get("/receipts.csv", receipts.ReceiptsCSVQueryHandler(s.Receipts))

	r.Get("/settings", settings.TemplatePageQueryHandler(s.KV))
	r.Post("/settings", settings.TemplateUpdateCommandHandler(s.KV))
	return r
}
