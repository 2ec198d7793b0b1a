package app

import (
	"net/http"

	"github.com/metinatakli/movie-booking-web/internal/domain"
	"github.com/metinatakli/movie-booking-web/internal/render"
)

// Home renders the movie listing, the snack menu and the current step of the
// booking workflow. Catalog failures are shown in place of the listing.
func (app *Application) Home(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	wf := app.contextGetWorkflow(r)

	data := render.PageData{View: wf.Snapshot()}

	movies, err := app.catalog.Movies(r.Context())
	if err != nil {
		logger.Warn("failed to load movies", "error", err)
		data.Error = err.Error()
	} else {
		data.Movies = domain.SortMovies(movies)
	}

	snacks, err := app.catalog.Snacks(r.Context())
	if err != nil {
		logger.Warn("failed to load snacks", "error", err)
		data.MenuError = err.Error()
	} else {
		data.Menu = domain.SortSnacks(snacks)
	}

	app.render(w, r, http.StatusOK, render.PageHome, data)
}
