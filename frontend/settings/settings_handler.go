package settings

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"weighbridge/infrastructure/kv"
	"weighbridge/models"
)

// TemplatePageQueryHandler renders the receipt template editor.
func TemplatePageQueryHandler(kvStore *kv.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := LoadTemplateConfig(r.Context(), kvStore)
		if err != nil {
			http.Error(w, "failed to load template config", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := TemplatePage(cfg, r.URL.Query().Get("status"), r.URL.Query().Get("error")).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render template page", http.StatusInternalServerError)
		}
	}
}

// TemplateUpdateCommandHandler overwrites the config from the form.
func TemplateUpdateCommandHandler(kvStore *kv.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/settings?error="+url.QueryEscape("invalid form"), http.StatusSeeOther)
			return
		}

		cfg := models.TemplateConfig{
			CompanyName: strings.TrimSpace(r.FormValue("company_name")),
			Address:     strings.TrimSpace(r.FormValue("address")),
			Footer:      strings.TrimSpace(r.FormValue("footer")),
			ShowCharges: r.FormValue("show_charges") != "",
			ShowBarcode: r.FormValue("show_barcode") != "",
		}
		if err := SaveTemplateConfig(r.Context(), kvStore, cfg); err != nil {
			slog.Error("save template config failed", slog.Any("err", err))
			http.Redirect(w, r, "/settings?error="+url.QueryEscape("failed to save template"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/settings?status="+url.QueryEscape("Template saved"), http.StatusSeeOther)
	}
}
