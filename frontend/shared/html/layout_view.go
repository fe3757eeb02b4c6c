package html

import (
	"context"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Layout wraps a page body in the app chrome: head, top bar, toast area.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString(`<title>`)
		b.WriteString(html.EscapeString(title))
		b.WriteString(`</title><link rel="stylesheet" href="/assets/app.css"></head><body>`)
		b.WriteString(`<nav class="topnav"><a class="brand" href="/receipts">Weighbridge</a><span class="links"><a href="/receipts">Receipts</a><a href="/settings">Template</a><a href="/receipts.csv">CSV</a></span></nav>`)
		b.WriteString(`<main class="page">`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// Toast renders a dismissible notification that hides itself after 3 seconds.
// Empty messages render nothing.
func Toast(status, errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		status = strings.TrimSpace(status)
		errMsg = strings.TrimSpace(errMsg)
		if status == "" && errMsg == "" {
			return nil
		}
		kind := "success"
		message := status
		if errMsg != "" {
			kind = "error"
			message = errMsg
		}

		var b strings.Builder
		b.WriteString(`<div id="toast" class="toast toast-`)
		b.WriteString(kind)
		b.WriteString(`" role="status"><span>`)
		b.WriteString(html.EscapeString(message))
		b.WriteString(`</span><button type="button" onclick="document.getElementById('toast').remove()">&times;</button></div>`)
		b.WriteString(`<script>setTimeout(function(){var t=document.getElementById("toast");if(t)t.remove();},3000);</script>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
