package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"design-order-bot/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

const (
	TELEGRAM_SERVER = "https://api.telegram.org"
	WEBHOOK_PATH    = "/telegram/webhook/"
	ORDERS_PATH     = "/api/orders"

	ENV_BOT_TOKEN   = "TELEGRAM_BOT_TOKEN"
	ENV_DATABASE    = "DATABASE_URL"
	ENV_DB_SCHEMA   = "MAIN_DB_SCHEMA"
	ENV_ORDERS_API  = "ORDERS_API_URL"
	defaultTTL      = 2 * time.Hour
	defaultTimeout  = 10 * time.Second
	defaultDBSchema = "public"
)

type (
	// Conf - настройки приложения
	Conf struct {
		Server Server `yaml:"server"`

		Telegram Telegram `yaml:"telegram"`
		Orders   Orders   `yaml:"orders"`
		Database Database `yaml:"database"`

		// время жизни сессии пользователя в кеше
		SessionTTL time.Duration `yaml:"session_ttl"`
		// файл с экранами бота
		ScreensConfig string `yaml:"screens_config"`

		RunInDebug bool `yaml:"-"`
	}

	Server struct {
		// внешний адрес, на него Telegram шлет webhook
		Host   string `yaml:"host"`
		Listen string `yaml:"listen"`
	}

	Telegram struct {
		Token       string `yaml:"token"`
		Server      string `yaml:"server"`
		WebhookPath string `yaml:"webhook_path"`
		// X-Telegram-Bot-Api-Secret-Token для проверки webhook
		Secret string `yaml:"secret"`
		// не регистрировать webhook при старте
		SkipHook bool `yaml:"skip_hook"`
	}

	Orders struct {
		// адрес API заказов; пусто - API обслуживает само приложение
		Addr    string        `yaml:"addr"`
		Path    string        `yaml:"path"`
		Timeout time.Duration `yaml:"timeout"`
	}

	Database struct {
		DSN    string `yaml:"dsn"`
		Schema string `yaml:"schema"`
	}
)

// GetConfig читает конфиг, при ошибке завершает приложение
func GetConfig(configPath string, cnf *Conf) {
	logger.Debug("Loading configuration")

	if err := Load(configPath, cnf); err != nil {
		logger.Crit("Error while reading config!", err)
	}
}

// Load читает yaml, подмешивает .env и переменные окружения и выставляет значения по умолчанию
func Load(configPath string, cnf *Conf) error {
	if err := read(configPath, cnf); err != nil {
		return err
	}
	return cnf.Validate()
}

// LoadClient - настройки для панели оператора, токен бота не проверяется
func LoadClient(configPath string, cnf *Conf) error {
	return read(configPath, cnf)
}

func read(configPath string, cnf *Conf) error {
	input, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer input.Close()

	if err := yaml.NewDecoder(input).Decode(cnf); err != nil {
		return fmt.Errorf("decode %s: %w", configPath, err)
	}

	// .env не обязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warning("Error while loading .env", err)
	}
	cnf.applyEnv()
	cnf.setDefaults()

	return nil
}

func (cnf *Conf) applyEnv() {
	if v := os.Getenv(ENV_BOT_TOKEN); v != "" {
		cnf.Telegram.Token = v
	}
	if v := os.Getenv(ENV_DATABASE); v != "" {
		cnf.Database.DSN = v
	}
	if v := os.Getenv(ENV_DB_SCHEMA); v != "" {
		cnf.Database.Schema = v
	}
	if v := os.Getenv(ENV_ORDERS_API); v != "" {
		cnf.Orders.Addr = v
	}
}

func (cnf *Conf) setDefaults() {
	if cnf.Server.Listen == "" {
		cnf.Server.Listen = ":8080"
	}
	if cnf.Telegram.Server == "" {
		cnf.Telegram.Server = TELEGRAM_SERVER
	}
	if cnf.Telegram.WebhookPath == "" {
		cnf.Telegram.WebhookPath = WEBHOOK_PATH
	}
	if cnf.Orders.Path == "" {
		cnf.Orders.Path = ORDERS_PATH
	}
	if cnf.Orders.Timeout <= 0 {
		cnf.Orders.Timeout = defaultTimeout
	}
	if cnf.Database.Schema == "" {
		cnf.Database.Schema = defaultDBSchema
	}
	if cnf.SessionTTL <= 0 {
		cnf.SessionTTL = defaultTTL
	}
	if cnf.ScreensConfig == "" {
		cnf.ScreensConfig = "./config/screens.yml"
	}
}

func (cnf *Conf) Validate() error {
	if cnf.Telegram.Token == "" {
		return fmt.Errorf("telegram token is not set (telegram.token or %s)", ENV_BOT_TOKEN)
	}
	if !cnf.Telegram.SkipHook && cnf.Server.Host == "" {
		return fmt.Errorf("server.host is required to register webhook")
	}
	if !strings.HasPrefix(cnf.Telegram.WebhookPath, "/") {
		return fmt.Errorf("telegram.webhook_path must start with /: %q", cnf.Telegram.WebhookPath)
	}
	return nil
}

// OrdersAddr - адрес API заказов для клиента
func (cnf *Conf) OrdersAddr() string {
	if cnf.Orders.Addr != "" {
		return strings.TrimRight(cnf.Orders.Addr, "/")
	}
	listen := cnf.Server.Listen
	if strings.HasPrefix(listen, ":") {
		listen = "127.0.0.1" + listen
	}
	return "http://" + listen
}

// ServeOrders - нужно ли поднимать API заказов в этом процессе
func (cnf *Conf) ServeOrders() bool {
	return cnf.Orders.Addr == ""
}

func (cnf *Conf) WebhookURL() string {
	return strings.TrimRight(cnf.Server.Host, "/") + cnf.Telegram.WebhookPath
}

func Inject(key string, cnf *Conf) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(key, cnf)
	}
}
