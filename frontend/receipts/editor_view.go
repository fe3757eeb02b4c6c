package receipts

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	layout "weighbridge/frontend/shared/html"
)

// EditorPage is the main screen: the current ticket form on top, the saved
// collection below it.
func EditorPage(data EditorData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := layout.Toast(data.Status, data.Error).Render(ctx, w); err != nil {
			return err
		}

		var b strings.Builder
		writeEditorForm(&b, data)
		writeSavedList(&b, data)
		b.WriteString(netWeightScript)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return layout.Layout("Weighbridge Receipts", body)
}

func writeEditorForm(b *strings.Builder, data EditorData) {
	rec := data.Current

	b.WriteString(`<section class="card"><h1>Weighbridge Receipt</h1>`)
	b.WriteString(`<form method="post" action="/receipts/save" class="editor">`)
	fmt.Fprintf(b, `<input type="hidden" name="id" value="%d">`, rec.ID)
	fmt.Fprintf(b, `<input type="hidden" id="manual_net_weight" name="manual_net_weight" value="%s">`, boolValue(rec.ManualNetWeight))

	b.WriteString(`<div class="row">`)
	textField(b, "rst_no", "RST No", rec.RSTNo)
	textField(b, "vehicle_no", "Vehicle No", rec.VehicleNo)
	b.WriteString(`</div><div class="row">`)
	textField(b, "customer", "Customer", rec.Customer)
	textField(b, "supplier", "Supplier", rec.Supplier)
	b.WriteString(`</div><div class="row">`)
	textField(b, "material", "Material", rec.Material)
	b.WriteString(`</div><div class="row weights">`)
	numberField(b, "gross_weight", "Gross Weight (kg)", FormatWeight(rec.GrossWeight))
	numberField(b, "tare_weight", "Tare Weight (kg)", FormatWeight(rec.TareWeight))
	numberField(b, "net_weight", "Net Weight (kg)", FormatWeight(rec.NetWeight))
	b.WriteString(`</div>`)
	if data.NegativeNet {
		b.WriteString(`<p class="warning">Net weight is negative. Check gross and tare readings.</p>`)
	}
	b.WriteString(`<div class="row">`)
	datetimeField(b, "date_time_in", "Tare In", FormatLocalDateTime(rec.DateTimeIn))
	datetimeField(b, "date_time_out", "Gross Out", FormatLocalDateTime(rec.DateTimeOut))
	b.WriteString(`</div><div class="row">`)
	numberField(b, "charges", "Charges", rec.Charges.String())
	b.WriteString(`</div><div class="row">`)
	b.WriteString(`<label class="field wide">Remarks <span class="hint">(shown on receipt footer when filled)</span><textarea name="remarks" rows="2">`)
	b.WriteString(html.EscapeString(rec.Remarks))
	b.WriteString(`</textarea></label></div>`)

	b.WriteString(`<div class="actions"><button type="submit" class="btn primary">Save</button>`)
	b.WriteString(`<a class="btn" href="/receipts">New</a>`)
	if rec.ID != 0 {
		fmt.Fprintf(b, `<a class="btn" href="/receipts/%d/receipt.pdf" target="_blank">Print</a>`, rec.ID)
		fmt.Fprintf(b, `<a class="btn" href="/receipts/%d/receipt.pdf?download=1">Export PDF</a>`, rec.ID)
	}
	b.WriteString(`</div></form></section>`)
}

func writeSavedList(b *strings.Builder, data EditorData) {
	b.WriteString(`<section class="card"><h2>Saved Receipts</h2>`)
	b.WriteString(`<form method="get" action="/receipts" class="search"><input type="search" name="q" placeholder="Search vehicle, customer or RST" value="`)
	b.WriteString(html.EscapeString(data.Query))
	b.WriteString(`"><button type="submit" class="btn">Search</button></form>`)

	if len(data.Saved) == 0 {
		b.WriteString(`<p class="empty">No saved receipts.</p></section>`)
		return
	}

	b.WriteString(`<table class="list"><thead><tr><th>RST</th><th>Vehicle</th><th>Customer</th><th>Net (kg)</th><th>Out</th><th></th></tr></thead><tbody>`)
	for _, rec := range data.Saved {
		b.WriteString(`<tr><td>`)
		b.WriteString(html.EscapeString(rec.RSTNo))
		b.WriteString(`</td><td>`)
		b.WriteString(html.EscapeString(rec.VehicleNo))
		b.WriteString(`</td><td>`)
		b.WriteString(html.EscapeString(rec.Customer))
		b.WriteString(`</td><td>`)
		b.WriteString(html.EscapeString(FormatWeight(rec.NetWeight)))
		b.WriteString(`</td><td>`)
		b.WriteString(html.EscapeString(strings.TrimSpace(FormatDate(rec.DateTimeOut) + " " + FormatTime(rec.DateTimeOut))))
		b.WriteString(`</td><td class="row-actions">`)
		fmt.Fprintf(b, `<a href="/receipts?load=%d">Load</a> `, rec.ID)
		fmt.Fprintf(b, `<a href="/receipts/%d/receipt.pdf" target="_blank">PDF</a> `, rec.ID)
		fmt.Fprintf(b, `<a class="danger" href="/receipts/%d/delete">Delete</a>`, rec.ID)
		b.WriteString(`</td></tr>`)
	}
	b.WriteString(`</tbody></table></section>`)
}

// DeleteConfirmPage is the first phase of the two-phase delete.
func DeleteConfirmPage(prompt DeletePrompt) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="card confirm"><h1>Confirm Delete</h1><p>`)
		b.WriteString(html.EscapeString(prompt.Message))
		b.WriteString(`</p><div class="actions">`)
		fmt.Fprintf(&b, `<form method="post" action="/receipts/%d/delete"><button type="submit" class="btn danger">Delete</button></form>`, prompt.ID)
		b.WriteString(`<a class="btn" href="/receipts">Cancel</a></div></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return layout.Layout("Confirm Delete", body)
}

func textField(b *strings.Builder, name, label, value string) {
	fmt.Fprintf(b, `<label class="field">%s<input type="text" name="%s" value="%s"></label>`,
		html.EscapeString(label), name, html.EscapeString(value))
}

func numberField(b *strings.Builder, name, label, value string) {
	fmt.Fprintf(b, `<label class="field">%s<input type="text" inputmode="decimal" id="%s" name="%s" value="%s"></label>`,
		html.EscapeString(label), name, name, html.EscapeString(value))
}

func datetimeField(b *strings.Builder, name, label, value string) {
	fmt.Fprintf(b, `<label class="field">%s<input type="datetime-local" name="%s" value="%s"></label>`,
		html.EscapeString(label), name, html.EscapeString(value))
}

func boolValue(v bool) string {
	if v {
		return "1"
	}
	return ""
}

// netWeightScript mirrors the server-side derived-field rule for live
// feedback: net follows gross minus tare until the operator edits net
// directly, which flips the manual flag for good.
const netWeightScript = `<script>
(function () {
  var gross = document.getElementById("gross_weight");
  var tare = document.getElementById("tare_weight");
  var net = document.getElementById("net_weight");
  var manual = document.getElementById("manual_net_weight");
  if (!gross || !tare || !net || !manual) return;
  function num(el) { var f = parseFloat(el.value); return isNaN(f) ? 0 : f; }
  function recompute() {
    if (manual.value !== "") return;
    net.value = num(gross) - num(tare);
  }
  gross.addEventListener("input", recompute);
  tare.addEventListener("input", recompute);
  net.addEventListener("input", function () { manual.value = "1"; });
})();
</script>`
