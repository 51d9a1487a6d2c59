// Package view renders the HTML pages. Components are hand-authored
// implementations of templ.Component built on the library's public
// ComponentFunc and EscapeString API.
package view

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// esc HTML-escapes user-controlled text before interpolation.
func esc(s string) string {
	return templ.EscapeString(s)
}

// page wraps a body renderer in the shared document shell. The admin flag
// switches the navigation between the public and the admin menu.
func page(title string, admin bool, body func(sb *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		sb.WriteString("<meta charset=\"utf-8\">\n")
		sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		fmt.Fprintf(&sb, "<title>%s - Regdesk</title>\n", esc(title))
		sb.WriteString("<link rel=\"stylesheet\" href=\"https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css\">\n")
		sb.WriteString("<script type=\"module\" src=\"https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js\"></script>\n")
		sb.WriteString("</head>\n<body>\n")

		sb.WriteString("<nav class=\"navbar navbar-expand bg-body-tertiary mb-4\"><div class=\"container\">\n")
		sb.WriteString("<a class=\"navbar-brand\" href=\"/\">Regdesk</a>\n<div class=\"navbar-nav\">\n")
		if admin {
			sb.WriteString("<a class=\"nav-link\" href=\"/dashboard\">Dashboard</a>\n")
			sb.WriteString("<a class=\"nav-link\" href=\"/users\">Users</a>\n")
			sb.WriteString("<a class=\"nav-link\" href=\"/create\">New user</a>\n")
			sb.WriteString("<a class=\"nav-link\" href=\"/export\">Export CSV</a>\n")
			sb.WriteString("<a class=\"nav-link\" href=\"/logout\">Logout</a>\n")
		} else {
			sb.WriteString("<a class=\"nav-link\" href=\"/\">Register</a>\n")
			sb.WriteString("<a class=\"nav-link\" href=\"/about\">About</a>\n")
			sb.WriteString("<a class=\"nav-link\" href=\"/admin\">Admin</a>\n")
		}
		sb.WriteString("</div>\n</div></nav>\n")

		sb.WriteString("<main class=\"container\">\n")
		body(&sb)
		sb.WriteString("</main>\n</body>\n</html>\n")

		_, err := io.WriteString(w, sb.String())
		return err
	})
}

func alert(sb *strings.Builder, kind, message string) {
	if message == "" {
		return
	}
	fmt.Fprintf(sb, "<div class=\"alert alert-%s\" role=\"alert\">%s</div>\n", kind, esc(message))
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
