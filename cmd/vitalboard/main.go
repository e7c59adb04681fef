package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"

	dashboard "github.com/vitalboard/go-vitalboard/components/dashboard"
	"github.com/vitalboard/go-vitalboard/components/dashboard/commands"
	dashrouter "github.com/vitalboard/go-vitalboard/components/dashboard/gorouter"
	"github.com/vitalboard/go-vitalboard/components/dashboard/httpapi"
	"github.com/vitalboard/go-vitalboard/components/dashboard/queries"
	"github.com/vitalboard/go-vitalboard/pkg/vizclient"
	"github.com/vitalboard/go-vitalboard/pkg/vizserver"
)

var version = "dev"

type cli struct {
	Serve   serveCmd   `cmd:"" help:"Serve the activity dashboard."`
	Help    helpCmd    `cmd:"" help:"Query the visualization service's capability listings."`
	Version versionCmd `cmd:"" help:"Print the build version."`
}

type serveCmd struct {
	Addr     string `default:":9876" help:"Address the dashboard listens on."`
	Manifest string `type:"path" help:"Path to a dashboard manifest YAML (omit with --demo)."`
	Demo     bool   `help:"Run an embedded visualization service seeded with sample data."`
	DemoAddr string `default:"127.0.0.1:9877" help:"Address the embedded service listens on."`
	Locale   string `default:"en" help:"Locale for weekday and month names."`
	Debug    bool   `help:"Verbose logging."`
}

type helpCmd struct {
	Endpoint string `required:"" help:"Visualization service URL."`
	Topic    string `default:"visualizations" enum:"visualizations,processingmethods" help:"Listing to fetch."`
}

type versionCmd struct{}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Activity dashboard: calendar navigation over a remote visualization service."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (cmd *versionCmd) Run(_ context.Context) error {
	fmt.Fprintln(os.Stdout, version)
	return nil
}

func (cmd *helpCmd) Run(ctx context.Context) error {
	client, err := vizclient.New(vizclient.Config{Endpoint: cmd.Endpoint})
	if err != nil {
		return err
	}
	listing, err := client.Capabilities(ctx, cmd.Topic)
	if err != nil {
		return err
	}
	for _, entry := range listing {
		fmt.Fprintln(os.Stdout, entry)
	}
	return nil
}

func (cmd *serveCmd) Run(ctx context.Context) error {
	logger, err := cmd.buildLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	manifest, err := cmd.resolveManifest(logger)
	if err != nil {
		return err
	}

	day, week, err := manifest.Bindings()
	if err != nil {
		return err
	}

	presets := dashboard.NewPresetRegistry()
	if err := manifest.ApplyPresets(presets); err != nil {
		return err
	}

	timeout := time.Duration(manifest.Service.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	gateway, err := vizclient.New(vizclient.Config{
		Endpoint:   manifest.Service.URL,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return err
	}

	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return err
	}

	broadcast := dashboard.NewSlotBroadcast()
	telemetry := dashboard.NewZapTelemetry(logger)

	controller := dashboard.NewController(dashboard.Options{
		Gateway:   gateway,
		Presets:   presets,
		Telemetry: telemetry,
		Hook:      broadcast,
		Logger:    logger,
		Renderer:  renderer,
		Day:       day,
		Week:      week,
		Locale:    cmd.pickLocale(manifest),
	})
	if err := controller.Start(ctx); err != nil {
		return err
	}

	executor := &httpapi.CommandExecutor{
		SelectDayCommander:    commands.NewSelectDayCommand(controller, telemetry),
		NavigateWeekCommander: commands.NewNavigateWeekCommand(controller, telemetry),
		SyncDataCommander:     commands.NewSyncDataCommand(controller, telemetry),
		SetWeekChartCommander: commands.NewSetWeekChartCommand(controller, telemetry),
		SnapshotQuerier:       queries.NewSnapshotQuery(controller),
		CapabilitiesQuerier:   queries.NewCapabilitiesQuery(controller),
	}

	server := router.NewFiberAdapter()
	if err := dashrouter.Register(dashrouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		API:        executor,
		Broadcast:  broadcast,
	}); err != nil {
		return err
	}

	logger.Info("dashboard listening",
		zap.String("addr", cmd.Addr),
		zap.String("service", manifest.Service.URL),
	)
	return server.Serve(cmd.Addr)
}

func (cmd *serveCmd) buildLogger() (*zap.Logger, error) {
	if cmd.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func (cmd *serveCmd) pickLocale(manifest dashboard.Manifest) string {
	if manifest.Locale != "" {
		return manifest.Locale
	}
	return cmd.Locale
}

// resolveManifest loads the configured manifest, or, in demo mode, boots an
// embedded vizserver with seeded datasets and synthesizes a manifest pointing
// at it.
func (cmd *serveCmd) resolveManifest(logger *zap.Logger) (dashboard.Manifest, error) {
	if !cmd.Demo {
		if cmd.Manifest == "" {
			return dashboard.Manifest{}, fmt.Errorf("vitalboard: --manifest is required (or pass --demo)")
		}
		return dashboard.LoadManifest(cmd.Manifest)
	}

	service := vizserver.New(vizserver.Options{Logger: logger.Named("vizserver")})
	dayDataset := service.Store().CreateDataset()
	weekDataset := service.Store().CreateDataset()
	seedSamples(service.Store(), dayDataset, weekDataset)

	go func() {
		if err := service.Listen(cmd.DemoAddr); err != nil {
			logger.Error("embedded service stopped", zap.Error(err))
		}
	}()

	return dashboard.Manifest{
		Version: dashboard.ManifestVersion,
		Locale:  cmd.Locale,
		Service: dashboard.ServiceManifest{URL: "http://" + cmd.DemoAddr + "/"},
		Slots: []dashboard.SlotManifest{
			{
				Name:    "Day Activity",
				Scope:   dashboard.ScopeDay,
				Dataset: dayDataset,
				Chart:   string(dashboard.ChartLine),
			},
			{
				Name:    "Week Activity",
				Scope:   dashboard.ScopeWeek,
				Dataset: weekDataset,
				Chart:   string(dashboard.ChartBar),
				Aggregation: &dashboard.AggregationManifest{
					Method: "aggregation",
					Mode:   "mean",
					Param:  "hour",
				},
			},
		},
	}, nil
}

// seedSamples writes an hourly series covering the last two weeks so the demo
// dashboard has something to draw in both slots.
func seedSamples(store *vizserver.Store, datasets ...string) {
	rng := rand.New(rand.NewSource(42))
	now := time.Now()
	start := now.AddDate(0, 0, -14)
	for _, id := range datasets {
		var samples []vizserver.Sample
		for t := start; t.Before(now); t = t.Add(time.Hour) {
			samples = append(samples, vizserver.Sample{
				T:     t.UnixMilli(),
				Value: 40 + rng.Float64()*80,
			})
		}
		store.Seed(id, samples)
	}
}
