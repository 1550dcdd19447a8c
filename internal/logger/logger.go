package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
)

var (
	isDebug = false

	// задержка перед выходом в Crit, чтобы лог успел уйти в файл
	critDelay = 5 * time.Second

	CritColor    = color.RGB(255, 0, 0).SprintFunc()
	DebugColor   = color.RGB(255, 165, 0).SprintFunc()
	WarningColor = color.RGB(255, 255, 0).SprintFunc()
	EventColor   = color.RGB(0, 255, 0).SprintFunc()
)

type (
	loggerConfig struct {
		Logging *struct {
			// Сохранять ли логи
			Enabled bool `yaml:"enabled"`
			// Папка для логов, по умолчанию "./log"
			Directory string `yaml:"directory"`
			// Формат даты и времени в имени файла
			FilenameFormat string `yaml:"filename_format"`
		} `yaml:"logging"`

		// Настройки цветов
		Color *struct {
			// Отключить все цвета
			NoColor bool `yaml:"no_color"`

			Crit    colorConf `yaml:"crit"`
			Debug   colorConf `yaml:"debug"`
			Warning colorConf `yaml:"warning"`
			Event   colorConf `yaml:"event"`
		} `yaml:"color"`
	}

	colorConf struct {
		Enabled bool    `yaml:"enabled"`
		Rgb     *[3]int `yaml:"rgb"`
	}
)

// InitLogger настраивает вывод логов. prefix - имя процесса в логе (BOT, DASHBOARD).
// Возвращает открытый файл логов, если запись в файл включена.
func InitLogger(prefix string, debug bool, configPath string) *os.File {
	isDebug = debug
	color.NoColor = true

	log.SetPrefix("[" + prefix + "] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lmsgprefix)

	if configPath == "" {
		return nil
	}

	cnf, err := loadConfig(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			Info("Logger settings not found, using defaults")
		} else {
			Warning("Error while loading logger settings", err)
		}
		return nil
	}

	applyColors(cnf)

	if cnf.Logging == nil || !cnf.Logging.Enabled {
		return nil
	}

	logFile, err := openLogFile(cnf.Logging.Directory, cnf.Logging.FilenameFormat, prefix)
	if err != nil {
		Warning("Error while opening log file, logs are not saved:", err)
		return nil
	}
	log.SetOutput(io.MultiWriter(os.Stdout, logFile))

	return logFile
}

// SetOutput перенаправляет логи, нужен тестам
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func loadConfig(path string) (*loggerConfig, error) {
	input, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer input.Close()

	cnf := &loggerConfig{}
	if err := yaml.NewDecoder(input).Decode(cnf); err != nil {
		return nil, err
	}
	return cnf, nil
}

func applyColors(cnf *loggerConfig) {
	if cnf.Color == nil || cnf.Color.NoColor {
		return
	}
	color.NoColor = false

	set := func(cData colorConf, globColor *func(a ...interface{}) string) {
		if !cData.Enabled {
			d := new(color.Color)
			d.DisableColor()
			*globColor = d.SprintFunc()
			return
		}
		if cData.Rgb != nil {
			*globColor = color.RGB(cData.Rgb[0], cData.Rgb[1], cData.Rgb[2]).SprintFunc()
		}
	}

	set(cnf.Color.Crit, &CritColor)
	set(cnf.Color.Debug, &DebugColor)
	set(cnf.Color.Warning, &WarningColor)
	set(cnf.Color.Event, &EventColor)
}

func openLogFile(dir, format, prefix string) (*os.File, error) {
	if dir == "" {
		dir = "./log"
	}
	if format == "" {
		format = "2006-01-02"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%s_%s.log", prefix, time.Now().Format(format))
	return os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func Info(v ...interface{}) {
	log.Print("[INFO] ", fmt.Sprintln(v...))
}

func Event(v ...interface{}) {
	log.Print(EventColor("[EVENT] ", fmt.Sprintln(v...)))
}

func Warning(v ...interface{}) {
	log.Print(WarningColor("[WARNING] ", fmt.Sprintln(v...)))
}

// Debug выводит сообщение только в режиме отладки. Не строковые аргументы
// выводятся как json.
func Debug(v ...interface{}) {
	if !isDebug {
		return
	}

	message := new(bytes.Buffer)
	for _, arg := range v {
		if s, ok := arg.(string); ok {
			_, _ = fmt.Fprintf(message, "%s ", s)
			continue
		}
		b, err := json.MarshalIndent(arg, "", " ")
		if err != nil {
			_, _ = fmt.Fprintf(message, "%v ", arg)
			continue
		}
		_, _ = fmt.Fprintf(message, "%s ", b)
	}

	log.Print(DebugColor("[DEBUG] ", message))
}

func IsDebug() bool {
	return isDebug
}

func Crit(v ...interface{}) {
	log.Print(CritColor("[CRIT] ", fmt.Sprintln(v...)))
	time.Sleep(critDelay)
	os.Exit(1)
}
