package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"design-order-bot/internal/api"
	"design-order-bot/internal/bot"
	"design-order-bot/internal/botconfig_parser"
	"design-order-bot/internal/config"
	"design-order-bot/internal/database"
	"design-order-bot/internal/logger"
	ordersclient "design-order-bot/internal/orders/client"
	"design-order-bot/internal/store"
	tgclient "design-order-bot/internal/telegram/client"

	"github.com/gin-gonic/gin"
	"gopkg.in/fsnotify.v1"
)

func main() {
	var (
		cnf = &config.Conf{}

		configFile   = flag.String("config", "./config/config.yml", "Usage: -config=<config_file>")
		screensFile  = flag.String("screens", "", "Usage: -screens=<screens_file>")
		loggerConfig = flag.String("logger", "./config/logger.yml", "Usage: -logger=<logger_config_file>")
		debug        = flag.Bool("debug", false, "Print debug information on stderr")
	)

	flag.Parse()

	logFile := logger.InitLogger("BOT", *debug, *loggerConfig)
	if logFile != nil {
		defer logFile.Close()
	}

	config.GetConfig(*configFile, cnf)
	cnf.RunInDebug = *debug
	if *screensFile != "" {
		cnf.ScreensConfig = *screensFile
	}

	logger.Info("Application starting...")

	if *debug {
		logger.Debug("Config:", cnf)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	cache := database.ConnectInMemoryCache(cnf.SessionTTL)
	screens := botconfig_parser.InitScreens(cnf.ScreensConfig)
	st := openStore(cnf)

	tg := tgclient.New(cnf.Telegram.Server, cnf.Telegram.Token)
	orders := ordersclient.New(cnf.OrdersAddr(), cnf.Orders.Path, cnf.Orders.Timeout)
	b := bot.New(tg, orders, st)

	app := gin.Default()
	app.Use(
		config.Inject(database.CTX_CONFIG, cnf),
		database.InjectInMemoryCache(database.CTX_CACHE, cache),
		botconfig_parser.InjectScreens(database.CTX_SCREENS, screens),
	)

	if cnf.ServeOrders() {
		logger.Info("Serving orders API on", cnf.Orders.Path)
		api.SetupRoutes(app.Group(cnf.Orders.Path), st)
	}

	srv := &http.Server{
		Addr:    cnf.Server.Listen,
		Handler: app,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Crit("Listen:", err)
		}
	}()

	b.InitHooks(app, cnf, tg)

	watcher := watchScreens(cnf.ScreensConfig, screens)
	defer watcher.Close()

	logger.Info("Application started")

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	// kill -SIGHUP XXXX, kill -SIGINT XXXX или Ctrl+c
	<-signals
	logger.Info("Catch OS signal! Exiting...")

	bot.DestroyHooks(cnf, tg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warning("App forced to shutdown:", err)
	}
	b.Wait()

	if err := st.Close(); err != nil {
		logger.Warning("Error while close store:", err)
	}

	logger.Info("Application stopped correctly!")
}

// openStore - PostgreSQL, если задан DSN, иначе заказы хранятся в памяти процесса
func openStore(cnf *config.Conf) store.Store {
	if cnf.Database.DSN == "" {
		logger.Warning("Database is not configured, orders are kept in memory")
		return store.NewMemory()
	}

	db, err := store.Open(cnf.Database.DSN, cnf.Database.Schema)
	if err != nil {
		logger.Crit("Error while connect to database:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Migrate(ctx); err != nil {
		logger.Crit("Error while migrate database:", err)
	}

	logger.Info("Connected to database, schema", cnf.Database.Schema)
	return db
}

// Следим за изменениями файла экранов во всех папках рядом с ним
func watchScreens(screensFile string, screens *botconfig_parser.Holder) *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Crit(err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				logger.Debug("Config event:", event.String())

				if event.Op&fsnotify.Create == fsnotify.Create || event.Op&fsnotify.Rename == fsnotify.Rename {
					if event.Name != "" {
						if err := watcher.Add(event.Name); err != nil {
							logger.Warning("Не удалось найти:", event.Name)
							_ = watcher.Remove(event.Name)
						}
					}
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					if err := screens.UpdateScreens(screensFile); err != nil {
						logger.Warning("Не корректный конфиг экранов!", err)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warning("Watcher error:", err)
			}
		}
	}()

	// ищем все директории в папке
	var directories []string
	err = filepath.Walk(filepath.Dir(screensFile), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			directories = append(directories, path)
		}
		return nil
	})
	if err != nil {
		logger.Crit(err)
	}

	// устанавливаем триггер на все папки
	for _, dir := range directories {
		if err := watcher.Add(dir); err != nil {
			logger.Crit(err)
		}
	}

	return watcher
}
