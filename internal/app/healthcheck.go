package app

import (
	"context"
	"net/http"
	"time"
)

type healthcheckResponse struct {
	Status       string            `json:"status"`
	SystemInfo   systemInfo        `json:"systemInfo"`
	Dependencies map[string]string `json:"dependencies"`
}

type systemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

func (app *Application) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthcheckResponse{
		Status: "UP",
		SystemInfo: systemInfo{
			Version:     version,
			Environment: app.config.Env,
		},
		Dependencies: map[string]string{"sessions": "memory"},
	}

	status := http.StatusOK

	if app.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp.Dependencies["sessions"] = "UP"

		err := app.redis.Ping(ctx).Err()
		if err != nil {
			app.contextGetLogger(r).Warn("redis ping failed", "error", err)

			resp.Status = "DOWN"
			resp.Dependencies["sessions"] = "DOWN"
			status = http.StatusServiceUnavailable
		}
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
