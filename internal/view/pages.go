package view

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

// FormValues carries the raw field values echoed back into a registration
// form after a failed submission.
type FormValues struct {
	Name    string
	Email   string
	DOB     string
	Contact string
	State   string
	Country string
}

// HomePage renders the public submission form. Error and success are
// mutually exclusive banners above the form.
func HomePage(values FormValues, errMsg, successMsg string) templ.Component {
	return page("Register", false, func(sb *strings.Builder) {
		sb.WriteString("<h1 class=\"mb-4\">Register</h1>\n")
		alert(sb, "danger", errMsg)
		alert(sb, "success", successMsg)
		userForm(sb, "/submit", "Register", values)
	})
}

// AboutPage renders the static info page.
func AboutPage() templ.Component {
	return page("About", false, func(sb *strings.Builder) {
		sb.WriteString("<h1 class=\"mb-4\">About</h1>\n")
		sb.WriteString("<p>Regdesk collects registrations and verifies each email address against a deliverability service before saving it.</p>\n")
		sb.WriteString("<p>Submitted details are only used to manage your registration.</p>\n")
	})
}

// AdminLoginPage renders the login form, optionally with a failure banner.
func AdminLoginPage(errMsg string) templ.Component {
	return page("Admin login", false, func(sb *strings.Builder) {
		sb.WriteString("<div class=\"row justify-content-center\"><div class=\"col-md-5\">\n")
		sb.WriteString("<h1 class=\"mb-4\">Admin login</h1>\n")
		alert(sb, "danger", errMsg)
		sb.WriteString("<form method=\"post\" action=\"/admin\">\n")
		sb.WriteString("<div class=\"mb-3\"><label class=\"form-label\" for=\"username\">Username</label>\n")
		sb.WriteString("<input class=\"form-control\" type=\"text\" id=\"username\" name=\"username\" required></div>\n")
		sb.WriteString("<div class=\"mb-3\"><label class=\"form-label\" for=\"password\">Password</label>\n")
		sb.WriteString("<input class=\"form-control\" type=\"password\" id=\"password\" name=\"password\" required></div>\n")
		sb.WriteString("<button class=\"btn btn-primary\" type=\"submit\">Log in</button>\n")
		sb.WriteString("</form>\n</div></div>\n")
	})
}

// ErrorPage renders the generic failure page. The message is deliberately
// vague; details stay in the server log.
func ErrorPage(message string) templ.Component {
	return page("Error", false, func(sb *strings.Builder) {
		sb.WriteString("<h1 class=\"mb-4\">Something went wrong</h1>\n")
		alert(sb, "danger", message)
		sb.WriteString("<p><a href=\"/\">Back to the home page</a></p>\n")
	})
}

// userForm writes the shared registration field set posting to the given
// action.
func userForm(sb *strings.Builder, action, submitLabel string, values FormValues) {
	fmt.Fprintf(sb, "<form method=\"post\" action=\"%s\" class=\"col-md-6\">\n", esc(action))

	field := func(label, name, typ, value, hint string) {
		fmt.Fprintf(sb, "<div class=\"mb-3\"><label class=\"form-label\" for=\"%s\">%s</label>\n", name, esc(label))
		fmt.Fprintf(sb, "<input class=\"form-control\" type=\"%s\" id=\"%s\" name=\"%s\" value=\"%s\">\n", typ, name, name, esc(value))
		if hint != "" {
			fmt.Fprintf(sb, "<div class=\"form-text\">%s</div>\n", esc(hint))
		}
		sb.WriteString("</div>\n")
	}

	field("Name", "name", "text", values.Name, "")
	field("Email", "email", "email", values.Email, "")
	field("Date of birth", "dob", "date", values.DOB, "")
	field("Contact number", "contact", "tel", values.Contact, "10 digits")
	field("State", "state", "text", values.State, "")
	field("Country", "country", "text", values.Country, "")

	fmt.Fprintf(sb, "<button class=\"btn btn-primary\" type=\"submit\">%s</button>\n", esc(submitLabel))
	sb.WriteString("</form>\n")
}
