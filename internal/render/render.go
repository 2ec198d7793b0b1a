package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/metinatakli/movie-booking-web/internal/domain"
	"github.com/metinatakli/movie-booking-web/internal/session"
	"github.com/metinatakli/movie-booking-web/internal/workflow"
	"github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

//go:embed templates
var templateFS embed.FS

const (
	PageHome    = "home"
	PageLogin   = "login"
	PageSignup  = "signup"
	PageConfirm = "confirm"
	PageError   = "error"
)

// Prompt asks the user to approve an irreversible action.
type Prompt struct {
	Message       string
	Action        string
	ReservationID int
}

// PageData is the view model of every page.
type PageData struct {
	Title  string
	User   *domain.User
	Flash  *session.Flash
	Movies []domain.Movie
	Menu   []domain.SnackItem
	View   workflow.View
	Prompt *Prompt
	Form   map[string]string
	Error  string
	// MenuError replaces the snack menu when it could not be loaded.
	MenuError string
	Status    int
	Version   string
}

type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	pages, err := fs.Glob(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}

	for _, page := range pages {
		name := strings.TrimSuffix(path.Base(page), ".gohtml")
		if name == "base" {
			continue
		}

		tmpl, err := template.New("base").Funcs(funcs).ParseFS(templateFS,
			"templates/base.gohtml",
			"templates/partials/*.gohtml",
			page,
		)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", page, err)
		}

		r.pages[name] = tmpl
	}

	return r, nil
}

// Render executes a page into w. Output is buffered so a template error never
// leaves a half written page.
func (r *Renderer) Render(w io.Writer, page string, data PageData) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("template %q does not exist", page)
	}

	if data.Form == nil {
		data.Form = map[string]string{}
	}

	var buf bytes.Buffer

	err := tmpl.ExecuteTemplate(&buf, "base", data)
	if err != nil {
		return err
	}

	_, err = buf.WriteTo(w)

	return err
}

var funcs = template.FuncMap{
	"money":       money,
	"releaseDate": releaseDate,
	"showDate":    showDate,
	"lineTotal":   func(l domain.SnackOrderLine) string { return money(l.LineTotal()) },
	"stateIs":     func(v workflow.View, name string) bool { return v.State.String() == name },
	"seatMax": func(f *workflow.FormView) int {
		if f.SeatCap != nil {
			return max(min(*f.SeatCap, 10), 1)
		}
		return 10
	},
}

func money(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

func releaseDate(m domain.Movie) string {
	if t, ok := m.ParseReleaseDate(); ok {
		return t.Format("January 2, 2006")
	}

	if strings.TrimSpace(m.ReleaseDate) == "" {
		return "N/A"
	}

	return m.ReleaseDate
}

func showDate(d types.Date) string {
	if d.Time.IsZero() {
		return "N/A"
	}

	return d.Time.Format("Mon, Jan 2")
}
