package gorouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	router "github.com/goliatone/go-router"

	dashboard "github.com/vitalboard/go-vitalboard/components/dashboard"
	"github.com/vitalboard/go-vitalboard/components/dashboard/commands"
)

// Executor is the command surface the JSON routes call into; httpapi.CommandExecutor
// satisfies it.
type Executor interface {
	SelectDay(ctx context.Context, input commands.SelectDayInput) error
	NavigateWeek(ctx context.Context, input commands.NavigateWeekInput) error
	SyncData(ctx context.Context, input commands.SyncDataInput) error
	SetWeekChart(ctx context.Context, input commands.SetWeekChartInput) error
}

// Config wires go-router with the dashboard controller, command API, and slot stream.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *dashboard.Controller
	API        Executor
	Broadcast  *dashboard.SlotBroadcast
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML         string
	Snapshot     string
	Day          string
	Week         string
	Sync         string
	WeekChart    string
	Capabilities string
	WebSocket    string
}

// Register mounts dashboard routes (HTML, JSON, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/dashboard"
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderPage(ctx.Context(), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.Snapshot, router.WrapHandler(func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, cfg.Controller.Snapshot(ctx.Context()))
	}))

	group.Get(routes.Capabilities, router.WrapHandler(func(ctx router.Context) error {
		topic := ctx.Query("topic")
		values, err := cfg.Controller.Capabilities(ctx.Context(), topic)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		return ctx.JSON(http.StatusOK, map[string][]string{topic: values})
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api Executor, routes RouteConfig) {
	r.Post(routes.Day, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SelectDayInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.SelectDay(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusUnprocessableEntity, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "selected"})
	}))

	r.Post(routes.Week, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.NavigateWeekInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.NavigateWeek(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusUnprocessableEntity, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "navigated"})
	}))

	r.Post(routes.Sync, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SyncDataInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.SyncData(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))

	r.Post(routes.WeekChart, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SetWeekChartInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.SetWeekChart(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusUnprocessableEntity, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "saved"})
	}))
}

func registerWebSocket[T any](r router.Router[T], broadcast *dashboard.SlotBroadcast, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := broadcast.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/"
	}
	if routes.Snapshot == "" {
		routes.Snapshot = "/state"
	}
	if routes.Day == "" {
		routes.Day = "/day"
	}
	if routes.Week == "" {
		routes.Week = "/week"
	}
	if routes.Sync == "" {
		routes.Sync = "/sync"
	}
	if routes.WeekChart == "" {
		routes.WeekChart = "/week/chart"
	}
	if routes.Capabilities == "" {
		routes.Capabilities = "/capabilities"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
