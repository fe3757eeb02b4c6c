package receipts

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"weighbridge/frontend/settings"
	"weighbridge/infrastructure/kv"
	"weighbridge/models"
)

// exportMu keeps at most one PDF export in flight.
var exportMu sync.Mutex

// EditorPageQueryHandler renders the editor with the current record and the
// saved collection. ?load= swaps in a saved record, ?q= filters the list.
func EditorPageQueryHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := models.NewReceipt()
		if raw := strings.TrimSpace(r.URL.Query().Get("load")); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				http.Redirect(w, r, "/receipts?error="+url.QueryEscape("invalid receipt id"), http.StatusSeeOther)
				return
			}
			loaded, ok := store.Load(id)
			if !ok {
				http.Redirect(w, r, "/receipts?error="+url.QueryEscape("receipt not found"), http.StatusSeeOther)
				return
			}
			current = loaded
		}

		query := strings.TrimSpace(r.URL.Query().Get("q"))
		data := EditorData{
			Current:     current,
			Saved:       store.Search(query),
			Query:       query,
			Status:      r.URL.Query().Get("status"),
			Error:       r.URL.Query().Get("error"),
			NegativeNet: current.NetWeight < 0,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := EditorPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render editor", http.StatusInternalServerError)
		}
	}
}

// SaveReceiptCommandHandler applies the derived-field rule and upserts the
// record into the saved collection.
func SaveReceiptCommandHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/receipts?error="+url.QueryEscape("invalid form"), http.StatusSeeOther)
			return
		}

		rec := receiptFromForm(r)
		saved, err := store.Save(r.Context(), rec)
		if err != nil {
			slog.Error("save receipt failed", slog.Int64("id", rec.ID), slog.Any("err", err))
			http.Redirect(w, r, "/receipts?error="+url.QueryEscape("failed to save receipt"), http.StatusSeeOther)
			return
		}

		target := "/receipts?load=" + strconv.FormatInt(saved.ID, 10) + "&status=" + url.QueryEscape("Receipt saved")
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

// DeleteConfirmQueryHandler is phase one of the delete: show the prompt.
func DeleteConfirmQueryHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseReceiptID(r)
		if err != nil {
			http.Error(w, "invalid receipt id", http.StatusBadRequest)
			return
		}
		rec, ok := store.Load(id)
		if !ok {
			http.Redirect(w, r, "/receipts?error="+url.QueryEscape("receipt not found"), http.StatusSeeOther)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := DeleteConfirmPage(BuildDeletePrompt(rec)).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render confirmation", http.StatusInternalServerError)
		}
	}
}

// DeleteCommitCommandHandler is phase two: remove and persist. Deleting an
// id that is already gone stays a quiet no-op.
func DeleteCommitCommandHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseReceiptID(r)
		if err != nil {
			http.Error(w, "invalid receipt id", http.StatusBadRequest)
			return
		}

		removed, err := store.Delete(r.Context(), id)
		if err != nil {
			slog.Error("delete receipt failed", slog.Int64("id", id), slog.Any("err", err))
			http.Redirect(w, r, "/receipts?error="+url.QueryEscape("failed to delete receipt"), http.StatusSeeOther)
			return
		}
		status := "Receipt deleted"
		if !removed {
			status = "Receipt was already deleted"
		}
		http.Redirect(w, r, "/receipts?status="+url.QueryEscape(status), http.StatusSeeOther)
	}
}

// ReceiptPDFQueryHandler serves the 3-up page. Inline by default for
// printing; ?download=1 attaches it under the export file name.
func ReceiptPDFQueryHandler(store *Store, kvStore *kv.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseReceiptID(r)
		if err != nil {
			http.Error(w, "invalid receipt id", http.StatusBadRequest)
			return
		}
		rec, ok := store.Load(id)
		if !ok {
			http.NotFound(w, r)
			return
		}

		cfg, err := settings.LoadTemplateConfig(r.Context(), kvStore)
		if err != nil {
			slog.Error("load template config failed", slog.Any("err", err))
			http.Redirect(w, r, "/receipts?error="+url.QueryEscape("failed to load template config"), http.StatusSeeOther)
			return
		}

		exportMu.Lock()
		pdfBytes, err := RenderReceiptPDF(rec, cfg)
		exportMu.Unlock()
		if err != nil {
			slog.Error("render receipt pdf failed", slog.Int64("id", id), slog.Any("err", err))
			http.Redirect(w, r, "/receipts?error="+url.QueryEscape("export failed: "+err.Error()), http.StatusSeeOther)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		if r.URL.Query().Get("download") != "" {
			w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFileName(rec)+`"`)
		} else {
			w.Header().Set("Content-Disposition", "inline")
		}
		_, _ = w.Write(pdfBytes)
	}
}

// ReceiptsCSVQueryHandler exports the saved collection as CSV.
func ReceiptsCSVQueryHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=receipts.csv")
		if err := writeReceiptsCSV(w, store.All()); err != nil {
			slog.Error("csv export failed", slog.Any("err", err))
		}
	}
}

// receiptFromForm builds the record from the editor form, silently coercing
// bad numeric input to zero and applying the net-weight rule.
func receiptFromForm(r *http.Request) models.Receipt {
	id, _ := strconv.ParseInt(strings.TrimSpace(r.FormValue("id")), 10, 64)
	gross := ParseWeight(r.FormValue("gross_weight"))
	tare := ParseWeight(r.FormValue("tare_weight"))
	manual := r.FormValue("manual_net_weight") != ""
	net := ComputeNetWeight(gross, tare, ParseWeight(r.FormValue("net_weight")), manual)

	return models.Receipt{
		ID:              id,
		RSTNo:           strings.TrimSpace(r.FormValue("rst_no")),
		VehicleNo:       strings.TrimSpace(r.FormValue("vehicle_no")),
		Customer:        strings.TrimSpace(r.FormValue("customer")),
		Supplier:        strings.TrimSpace(r.FormValue("supplier")),
		Material:        strings.TrimSpace(r.FormValue("material")),
		GrossWeight:     gross,
		TareWeight:      tare,
		NetWeight:       net,
		ManualNetWeight: manual,
		DateTimeIn:      ParseLocalDateTime(r.FormValue("date_time_in")),
		DateTimeOut:     ParseLocalDateTime(r.FormValue("date_time_out")),
		Charges:         ParseCharges(r.FormValue("charges")),
		Remarks:         strings.TrimSpace(r.FormValue("remarks")),
	}
}

func parseReceiptID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
