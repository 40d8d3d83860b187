package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mvalens/leadkeeper/internal/client/client"
	"github.com/mvalens/leadkeeper/internal/client/config"
	"github.com/mvalens/leadkeeper/internal/client/connectivity"
	"github.com/mvalens/leadkeeper/internal/client/models"
	"github.com/mvalens/leadkeeper/internal/client/services"
	"github.com/mvalens/leadkeeper/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the local storage, services, and remote client together and
// exposes the interactive command surface.
type App struct {
	config    *config.Config
	apiClient client.Client
	repos     *client.Repositories
	prospects *services.ProspectService
	queue     *services.QueueService
	syncer    *services.SyncService
	monitor   *connectivity.Monitor
	log       logging.Logger
	reader    *bufio.Reader
	loggedIn  bool
}

// queueReporter prints queue outcomes the user should see: mutations
// dropped after exhausting retries and a fully drained queue.
type queueReporter struct{}

func (queueReporter) ActionFailed(action models.OfflineAction, err error) {
	printlnFn(fmt.Sprintf("Offline %s of %s discarded: %v", action.Kind, action.Entity, err))
}

func (queueReporter) QueueDrained() {
	printlnFn("All offline changes delivered")
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient := client.NewHTTPClient(c.ServerEndpointAddr)

	monitor := connectivity.NewMonitor(logger)
	online := monitor.Online

	prospects := services.NewProspectService(repos.Prospects, logger)
	queue := services.NewQueueService(repos.Queue, services.NewRemoteExecutor(apiClient), online, logger)
	queue.SetNotifier(queueReporter{})
	syncer := services.NewSyncService(apiClient, prospects, repos.SyncState, online, logger)

	app := &App{
		config:    c,
		apiClient: apiClient,
		repos:     repos,
		prospects: prospects,
		queue:     queue,
		syncer:    syncer,
		monitor:   monitor,
		log:       logger,
		reader:    bufio.NewReader(os.Stdin),
	}

	// Reconnecting replays queued mutations first, then reconciles.
	monitor.OnOnline(func(ctx context.Context) {
		if _, err := queue.Drain(ctx); err != nil {
			logger.Warn(ctx, "queue drain after reconnect failed", "error", err)
		}
		syncer.AutoSync(ctx)
	})

	return app, nil
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn
}

func (a *App) getStatus() string {
	if a.monitor.Online() {
		return "(online)"
	}
	return "(offline)"
}

// Run starts the connectivity watcher and the REPL, and releases
// resources on exit.
func (a *App) Run(ctx context.Context) {
	defer a.apiClient.Close()
	defer a.repos.DB.Close()

	go a.monitor.Watch(ctx, a.apiClient, a.config.OnlineCheckInterval)

	printlnFn("LeadKeeper CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
