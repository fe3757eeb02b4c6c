package settings

import (
	"context"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	layout "weighbridge/frontend/shared/html"
	"weighbridge/models"
)

// TemplatePage is the receipt template editor form.
func TemplatePage(cfg models.TemplateConfig, status, errMsg string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := layout.Toast(status, errMsg).Render(ctx, w); err != nil {
			return err
		}

		var b strings.Builder
		b.WriteString(`<section class="card"><h1>Receipt Template</h1>`)
		b.WriteString(`<form method="post" action="/settings" class="editor">`)

		b.WriteString(`<label class="field wide">Company Name<input type="text" name="company_name" value="`)
		b.WriteString(html.EscapeString(cfg.CompanyName))
		b.WriteString(`"></label>`)

		b.WriteString(`<label class="field wide">Address<textarea name="address" rows="3">`)
		b.WriteString(html.EscapeString(cfg.Address))
		b.WriteString(`</textarea></label>`)

		b.WriteString(`<label class="field wide">Footer<textarea name="footer" rows="2">`)
		b.WriteString(html.EscapeString(cfg.Footer))
		b.WriteString(`</textarea></label>`)

		b.WriteString(`<label class="check"><input type="checkbox" name="show_charges" value="1"`)
		if cfg.ShowCharges {
			b.WriteString(` checked`)
		}
		b.WriteString(`> Show charges line on receipt</label>`)

		b.WriteString(`<label class="check"><input type="checkbox" name="show_barcode" value="1"`)
		if cfg.ShowBarcode {
			b.WriteString(` checked`)
		}
		b.WriteString(`> Print RST barcode on receipt</label>`)

		b.WriteString(`<div class="actions"><button type="submit" class="btn primary">Save Template</button>`)
		b.WriteString(`<a class="btn" href="/receipts">Back</a></div></form></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return layout.Layout("Receipt Template", body)
}
