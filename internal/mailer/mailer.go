package mailer

import "embed"

const (
	FromName              = "FitClub"
	maxRetries            = 3
	RoleChangeTemplate    = "role_change.tmpl"
	UserBlockedTemplate   = "user_blocked.tmpl"
	UserUnblockedTemplate = "user_unblocked.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
