package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/dmitrijs2005/todokeeper/internal/client/account"
	"github.com/dmitrijs2005/todokeeper/internal/client/config"
	"github.com/dmitrijs2005/todokeeper/internal/client/localdb"
	"github.com/dmitrijs2005/todokeeper/internal/client/models"
	sessionrepo "github.com/dmitrijs2005/todokeeper/internal/client/repositories/session"
	"github.com/dmitrijs2005/todokeeper/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/todokeeper/internal/client/services"
	"github.com/dmitrijs2005/todokeeper/internal/client/usecases"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
)

// App is the interactive client. NewApp is the composition point: it is the
// single place where the storage backend is selected and the adapters are
// wired into services and use cases.
type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	api      *account.HTTPClient
	sessions *services.SessionManager

	registerUser      *usecases.RegisterUser
	loginUser         *usecases.LoginUser
	logoutUser        *usecases.LogoutUser
	updateProfile     *usecases.UpdateProfile
	sendPasswordReset *usecases.SendPasswordReset
	createTask        *usecases.CreateTask
	listTasks         *usecases.ListTasks
	getTask           *usecases.GetTask
	updateTask        *usecases.UpdateTask
	deleteTask        *usecases.DeleteTask

	reader *bufio.Reader

	mu      sync.Mutex
	session models.Session
	unsub   func()
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := localdb.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	api := account.NewHTTPClient(cfg.AccountServiceURL, cfg.RequestTimeout)
	cache := sessionrepo.NewSQLiteCache(db)

	var store tasks.Store
	switch cfg.StorageBackend {
	case config.BackendLocal:
		store = tasks.NewSQLiteStore(db)
	case config.BackendRemote:
		store = tasks.NewHTTPStore(cfg.TaskServiceURL, cfg.RequestTimeout, api)
	default:
		_ = db.Close()
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.StorageBackend)
	}
	logger.Info(ctx, "storage backend selected", "backend", cfg.StorageBackend)

	sessions := services.NewSessionManager(api, cache, logger)
	taskService := services.NewTaskService(store, logger)

	a := &App{
		config:            cfg,
		logger:            logger,
		db:                db,
		api:               api,
		sessions:          sessions,
		registerUser:      usecases.NewRegisterUser(sessions),
		loginUser:         usecases.NewLoginUser(sessions),
		logoutUser:        usecases.NewLogoutUser(sessions),
		updateProfile:     usecases.NewUpdateProfile(sessions),
		sendPasswordReset: usecases.NewSendPasswordReset(sessions),
		createTask:        usecases.NewCreateTask(taskService),
		listTasks:         usecases.NewListTasks(taskService),
		getTask:           usecases.NewGetTask(taskService),
		updateTask:        usecases.NewUpdateTask(taskService),
		deleteTask:        usecases.NewDeleteTask(taskService),
		reader:            bufio.NewReader(os.Stdin),
	}

	// The prompt and the whoami command render whatever the session
	// manager last pushed, independent of any command in flight.
	a.unsub = sessions.Subscribe(a.onSessionChange)

	return a, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.close()
	a.Root(ctx)
}

func (a *App) close() {
	if a.unsub != nil {
		a.unsub()
	}
	a.sessions.Close()
	_ = a.api.Close()
	_ = a.db.Close()
}

func (a *App) onSessionChange(s models.Session) {
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()

	if s.IsAuthenticated() {
		a.logger.Info(context.Background(), "session changed", "user", s.User.Email)
	} else {
		a.logger.Info(context.Background(), "session changed", "user", "anonymous")
	}
}

func (a *App) currentUser() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.User
}
