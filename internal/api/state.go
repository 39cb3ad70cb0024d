package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swinglab/pendctl/internal/state"
)

func registerStateEndpoints(rest *echo.Echo, shared *state.SharedState) {
	rest.GET("/state/", getState(shared))
	rest.POST("/stop/", stopSession(shared))
}

// returns a snapshot of the shared scalar cells
func getState(shared *state.SharedState) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSONPretty(http.StatusOK, shared.Snapshot(), indentationChar)
	}
}

// clears the run flag, all loops exit between ticks
func stopSession(shared *state.SharedState) echo.HandlerFunc {
	return func(c echo.Context) error {
		shared.SetRunning(false)
		return c.JSONPretty(http.StatusOK, &Result{
			Name:    "Stopped",
			Message: "run flag cleared",
		}, indentationChar)
	}
}
