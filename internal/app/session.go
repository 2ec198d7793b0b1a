package app

import (
	"log/slog"
	"net/http"

	"github.com/metinatakli/movie-booking-web/internal/workflow"
)

type contextKey string

const (
	contextKeyLogger   = contextKey("logger")
	contextKeyWorkflow = contextKey("workflow")
)

func (app *Application) contextGetLogger(r *http.Request) *slog.Logger {
	logger, ok := r.Context().Value(contextKeyLogger).(*slog.Logger)
	if !ok {
		return app.logger
	}

	return logger
}

func (app *Application) contextGetWorkflow(r *http.Request) *workflow.Workflow {
	wf, ok := r.Context().Value(contextKeyWorkflow).(*workflow.Workflow)
	if !ok {
		panic("missing booking workflow from context")
	}

	return wf
}
