package server

import (
	"html"
	"net/http"

	"github.com/goliatone/go-backoffice/pkg/client"
	"github.com/goliatone/go-backoffice/pkg/render"
)

// The login page is one of the few hand-built pages: a plain form posting
// to the external auth endpoint, outside the metadata pipeline.
func loginPage(tenant, email, errorMessage string) []byte {
	var b []byte
	b = append(b, `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Sign in</title>
  <link rel="stylesheet" href="/assets/backoffice-vanilla.css">
</head>
<body class="bo-page">
<main class="bo-login">
  <h1 class="bo-page-title">Sign in</h1>
`...)
	if errorMessage != "" {
		b = append(b, `  <p class="bo-form-error">`+html.EscapeString(errorMessage)+"</p>\n"...)
	}
	b = append(b, `  <form method="post" action="/login">
    <input type="hidden" name="_tenant" value="`+html.EscapeString(tenant)+`">
    <div class="bo-field">
      <label for="bo-email">Email</label>
      <input type="email" id="bo-email" name="email" value="`+html.EscapeString(email)+`" required>
    </div>
    <div class="bo-field">
      <label for="bo-password">Password</label>
      <input type="password" id="bo-password" name="password" required>
    </div>
    <div class="bo-actions">
      <button type="submit" class="bo-button bo-button-primary">Sign in</button>
    </div>
  </form>
</main>
</body>
</html>
`...)
	return b
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.session.Snapshot().Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	tenant := tenantFrom(r.Context())
	notice := ""
	if exists, err := s.api(r).CheckTenant(r.Context(), tenant); err == nil && !exists {
		notice = "Workspace \"" + tenant + "\" was not found."
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(loginPage(tenant, "", notice))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	result, err := s.api(r).Login(r.Context(), email, password)
	if err != nil {
		s.logger.Warn("login failed", "tenant", tenantFrom(r.Context()), "email", email)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write(loginPage(tenantFrom(r.Context()), email, render.ErrorMessage(client.ErrorPayload(err))))
		return
	}

	s.session.Login(result.Token, result.User)
	s.logger.Info("login", "tenant", tenantFrom(r.Context()), "user", result.User.Email)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.session.Logout()
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func agentTokenPage(token string) []byte {
	var b []byte
	b = append(b, `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Agent token</title>
  <link rel="stylesheet" href="/assets/backoffice-vanilla.css">
</head>
<body class="bo-page">
<main class="bo-login">
  <h1 class="bo-page-title">Agent token</h1>
  <p>Issue a long-lived token for headless agents acting on your behalf.</p>
`...)
	if token != "" {
		b = append(b, `  <pre class="bo-token">`+html.EscapeString(token)+"</pre>\n"...)
	}
	b = append(b, `  <form method="post" action="/agent-token">
    <div class="bo-actions">
      <button type="submit" class="bo-button bo-button-primary">Generate token</button>
      <a class="bo-button" href="/">Back</a>
    </div>
  </form>
</main>
</body>
</html>
`...)
	return b
}

func (s *Server) handleAgentTokenPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(agentTokenPage(""))
}

func (s *Server) handleAgentToken(w http.ResponseWriter, r *http.Request) {
	token, err := s.api(r).GenerateAgentToken(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(agentTokenPage(token))
}
