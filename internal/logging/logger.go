package logging

import (
	"fmt"
	"log"
	"os"

	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/config"
)

type LoggerService interface {
	Log(value string)
	LogError(value string, err error)
	LogWarning(value string)
	LogSuccess(value string)
}

const (
	iconInfo    = "ℹ️"
	iconError   = "❌"
	iconWarning = "⚠️"
	iconSuccess = "✅"
)

type Logger struct {
	out      *log.Logger
	telegram *telegramClient
}

// NewLogger always logs to stdout. When telegram credentials are
// configured, errors, warnings and successes are additionally pushed to
// the bot chat; per-product info lines stay on the console only.
func NewLogger(cfg config.TelegramBotConfig) LoggerService {
	l := &Logger{out: log.New(os.Stdout, "", log.LstdFlags)}
	if cfg.ChatId != "" && cfg.Token != "" {
		l.telegram = newTelegramClient(cfg)
	} else {
		l.out.Println("[WARNING]: telegram credentials missing, console only")
	}
	return l
}

func (l *Logger) Log(value string) {
	l.out.Println(value)
}

func (l *Logger) LogError(value string, err error) {
	if err != nil {
		value = fmt.Sprintf("%s: %v", value, err)
	}
	l.out.Printf("ERROR: %s\n", value)
	l.notify(iconError, "ERROR", value)
}

func (l *Logger) LogWarning(value string) {
	l.out.Printf("WARNING: %s\n", value)
	l.notify(iconWarning, "WARNING", value)
}

func (l *Logger) LogSuccess(value string) {
	l.out.Println(value)
	l.notify(iconSuccess, "SUCCESS", value)
}

func (l *Logger) notify(icon, level, value string) {
	if l.telegram == nil {
		return
	}
	if err := l.telegram.send(formatMessage(icon, level, value)); err != nil {
		l.out.Printf("WARNING: telegram notify failed: %v\n", err)
	}
}
