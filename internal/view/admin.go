package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/kmareda/regdesk/internal/domain"
)

// DashboardPage renders the admin dashboard. chartJSON is the
// JSON-encoded series payload consumed by the chart script; it is written
// raw because encoding/json escapes HTML metacharacters.
func DashboardPage(stats *domain.DashboardStats, chartJSON string) templ.Component {
	return page("Dashboard", true, func(sb *strings.Builder) {
		sb.WriteString("<h1 class=\"mb-4\">Dashboard</h1>\n")
		fmt.Fprintf(sb, "<p class=\"lead\">Total registrations: <strong>%d</strong></p>\n", stats.TotalUsers)

		if stats.TotalUsers == 0 {
			sb.WriteString("<p>No registrations yet.</p>\n")
			return
		}

		sb.WriteString("<div class=\"row\">\n")
		for _, chart := range []struct{ id, title string }{
			{"users-over-time", "Registrations per year"},
			{"users-by-country", "Registrations by country"},
			{"age-distribution", "Age distribution"},
			{"top-states", "Top states"},
		} {
			sb.WriteString("<div class=\"col-md-6 mb-4\"><div class=\"card\"><div class=\"card-body\">\n")
			fmt.Fprintf(sb, "<h5 class=\"card-title\">%s</h5>\n", esc(chart.title))
			fmt.Fprintf(sb, "<canvas id=\"%s\"></canvas>\n", chart.id)
			sb.WriteString("</div></div></div>\n")
		}
		sb.WriteString("</div>\n")

		sb.WriteString("<h2 class=\"h4\">Recent registrations</h2>\n")
		usersTable(sb, stats.RecentUsers, false)

		fmt.Fprintf(sb, "<script id=\"dashboard-data\" type=\"application/json\">%s</script>\n", chartJSON)
		sb.WriteString("<script src=\"https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js\"></script>\n")
		sb.WriteString(dashboardScript)
	})
}

const dashboardScript = `<script>
(function () {
  const data = JSON.parse(document.getElementById("dashboard-data").textContent);
  const draw = (id, type, series) => {
    if (!series || series.length === 0) return;
    new Chart(document.getElementById(id), {
      type: type,
      data: {
        labels: series.map(p => p.label),
        datasets: [{ label: "Registrations", data: series.map(p => p.count) }],
      },
      options: { plugins: { legend: { display: false } } },
    });
  };
  draw("users-over-time", "line", data.usersOverTime);
  draw("users-by-country", "bar", data.usersByCountry);
  draw("age-distribution", "bar", data.ageDistribution);
  draw("top-states", "bar", data.topStates);
})();
</script>
`

// UsersPage renders the paginated admin list with the live name search.
func UsersPage(users []domain.User, pageNum, totalPages, total int) templ.Component {
	return page("Users", true, func(sb *strings.Builder) {
		sb.WriteString("<h1 class=\"mb-4\">Users</h1>\n")
		fmt.Fprintf(sb, "<p>%d registered</p>\n", total)

		// The search input patches the table fragment over SSE as the
		// admin types.
		sb.WriteString("<div class=\"mb-3\" data-signals=\"{q: ''}\">\n")
		sb.WriteString("<input class=\"form-control\" type=\"search\" placeholder=\"Search by name\" data-bind-q " +
			"data-on-input__debounce.300ms=\"@get('/users/search')\">\n")
		sb.WriteString("</div>\n")

		usersTable(sb, users, true)

		sb.WriteString("<p><a class=\"btn btn-outline-danger\" href=\"/delete-all\" " +
			"onclick=\"return confirm('Delete every record?')\">Delete all</a></p>\n")

		if totalPages > 1 {
			sb.WriteString("<nav><ul class=\"pagination\">\n")
			for p := 1; p <= totalPages; p++ {
				active := ""
				if p == pageNum {
					active = " active"
				}
				fmt.Fprintf(sb, "<li class=\"page-item%s\"><a class=\"page-link\" href=\"/users?page=%d\">%d</a></li>\n", active, p, p)
			}
			sb.WriteString("</ul></nav>\n")
		}
	})
}

// UsersTableFragment renders just the table, for SSE patches from the live
// search endpoint.
func UsersTableFragment(users []domain.User) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		usersTable(&sb, users, true)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

// CreatePage renders the admin create form.
func CreatePage(values FormValues, errMsg string) templ.Component {
	return page("New user", true, func(sb *strings.Builder) {
		sb.WriteString("<h1 class=\"mb-4\">New user</h1>\n")
		alert(sb, "danger", errMsg)
		userForm(sb, "/create", "Create", values)
	})
}

// EditPage renders the admin edit form for one record.
func EditPage(user *domain.User, errMsg string) templ.Component {
	values := FormValues{
		Name:    user.Name,
		Email:   user.Email,
		DOB:     formatDate(user.DOB),
		Contact: user.Contact,
		State:   user.State,
		Country: user.Country,
	}
	return page("Edit user", true, func(sb *strings.Builder) {
		fmt.Fprintf(sb, "<h1 class=\"mb-4\">Edit %s</h1>\n", esc(user.Name))
		alert(sb, "danger", errMsg)
		if user.ValidationStatus != "" {
			fmt.Fprintf(sb, "<p class=\"text-muted\">Last email check: %s</p>\n", esc(user.ValidationStatus))
		}
		userForm(sb, fmt.Sprintf("/update/%d", user.ID), "Save", values)
	})
}

func usersTable(sb *strings.Builder, users []domain.User, actions bool) {
	sb.WriteString("<div id=\"users-table\" class=\"table-responsive\">\n")
	sb.WriteString("<table class=\"table table-striped\">\n<thead><tr>" +
		"<th>Name</th><th>Email</th><th>DOB</th><th>Contact</th><th>State</th><th>Country</th><th>Registered</th><th>Status</th>")
	if actions {
		sb.WriteString("<th></th>")
	}
	sb.WriteString("</tr></thead>\n<tbody>\n")

	if len(users) == 0 {
		cols := 8
		if actions {
			cols = 9
		}
		fmt.Fprintf(sb, "<tr><td colspan=\"%d\" class=\"text-muted\">No records</td></tr>\n", cols)
	}
	for _, u := range users {
		sb.WriteString("<tr>")
		fmt.Fprintf(sb, "<td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td>",
			esc(u.Name), esc(u.Email), formatDate(u.DOB), esc(u.Contact),
			esc(u.State), esc(u.Country), formatTimestamp(u.CreatedAt), esc(u.ValidationStatus))
		if actions {
			fmt.Fprintf(sb, "<td><a class=\"btn btn-sm btn-outline-primary\" href=\"/edit/%d\">Edit</a> "+
				"<a class=\"btn btn-sm btn-outline-danger\" href=\"/delete/%d\">Delete</a></td>", u.ID, u.ID)
		}
		sb.WriteString("</tr>\n")
	}

	sb.WriteString("</tbody>\n</table>\n</div>\n")
}
