// Package login is the optional single-password gate. It only exists when
// APP_PASSWORD is configured; the tool is single-user either way.
package login

import (
	"context"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	layout "weighbridge/frontend/shared/html"
	"weighbridge/infrastructure/auth"
)

// GetLoginScreenHandler renders the password prompt.
func GetLoginScreenHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := loginPage(r.URL.Query().Get("error")).Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render login page", http.StatusInternalServerError)
	}
}

// CreateLoginHandler checks the password and issues a session cookie.
func CreateLoginHandler(passwordHash string, sessions *auth.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/login?error=invalid+form", http.StatusSeeOther)
			return
		}

		ok, err := auth.VerifyPassword(r.FormValue("password"), passwordHash)
		if err != nil {
			slog.Error("password verify failed", slog.Any("err", err))
			http.Redirect(w, r, "/login?error=login+failed", http.StatusSeeOther)
			return
		}
		if !ok {
			http.Redirect(w, r, "/login?error=wrong+password", http.StatusSeeOther)
			return
		}

		token, err := sessions.Issue()
		if err != nil {
			slog.Error("issue session failed", slog.Any("err", err))
			http.Redirect(w, r, "/login?error=login+failed", http.StatusSeeOther)
			return
		}
		http.SetCookie(w, auth.SessionCookie(token, int(auth.SessionTTL.Seconds())))
		http.Redirect(w, r, "/receipts", http.StatusSeeOther)
	}
}

// LogoutHandler revokes the session and clears the cookie.
func LogoutHandler(sessions *auth.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(auth.CookieName); err == nil {
			sessions.Revoke(cookie.Value)
		}
		http.SetCookie(w, auth.SessionCookie("", -1))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

func loginPage(errMsg string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="card login"><h1>Weighbridge</h1>`)
		if msg := strings.TrimSpace(errMsg); msg != "" {
			b.WriteString(`<p class="warning">`)
			b.WriteString(html.EscapeString(msg))
			b.WriteString(`</p>`)
		}
		b.WriteString(`<form method="post" action="/login"><label class="field">Password<input type="password" name="password" autofocus></label>`)
		b.WriteString(`<div class="actions"><button type="submit" class="btn primary">Sign In</button></div></form></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return layout.Layout("Sign In", body)
}
