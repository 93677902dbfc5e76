package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/yoocash/idbroker/internal/observability/logger"
	"github.com/yoocash/idbroker/internal/store"
)

var welcomeHTML = template.Must(template.New("welcome").Parse(`<!doctype html>
<html>
  <body>
    <p>Hi {{.Name}},</p>
    <p>Your account was created with your <strong>{{.Provider}}</strong> login.
       You can now sign in with it any time.</p>
    <p>If this wasn't you, please contact support.</p>
  </body>
</html>`))

// WelcomeMailer greets newly provisioned accounts. It runs as a
// registration hook: delivery failures are logged and never surfaced to
// the login that created the account.
type WelcomeMailer struct {
	Sender  Sender
	Subject string
}

func NewWelcomeMailer(s Sender) *WelcomeMailer {
	return &WelcomeMailer{Sender: s, Subject: "Welcome!"}
}

func (w *WelcomeMailer) OnRegistered(ctx context.Context, user *store.User) {
	log := logger.FromWithFields(ctx,
		logger.Component("WelcomeMailer"),
		logger.UserID(user.ID),
		logger.Provider(user.Provider),
	)

	name := user.DisplayName
	if name == "" {
		name = user.Username
	}

	var html bytes.Buffer
	data := struct {
		Name     string
		Provider string
	}{Name: name, Provider: user.Provider}
	if err := welcomeHTML.Execute(&html, data); err != nil {
		log.Error("render welcome email", logger.Err(err))
		return
	}
	text := fmt.Sprintf("Hi %s,\n\nYour account was created with your %s login. You can now sign in with it any time.\n", name, user.Provider)

	if err := w.Sender.Send(user.Email, w.Subject, html.String(), text); err != nil {
		log.Error("send welcome email", logger.Err(err))
		return
	}
	log.Debug("welcome email sent")
}
