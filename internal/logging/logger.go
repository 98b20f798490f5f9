package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tripeak/tripeak/pkg"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

func Setup(params LoggerSetupParams) error {
	if params.SentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         params.SentryDSN,
			Environment: params.Environment,
			ServerName:  params.SentryServerName,
			// Set TracesSampleRate to 1.0 to capture 100%
			// of transactions for performance monitoring.
			TracesSampleRate: 1.0,
		}); err != nil {
			return fmt.Errorf("sentry init: %w", err)
		}
		log.AddHook(NewSentryHook([]log.Level{
			log.PanicLevel,
			log.FatalLevel,
			log.ErrorLevel,
		}))
	}

	log.SetLevel(GetLevel(params.LogLevel))

	if params.LogFormatJSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})
	}

	if params.LogFileName == "" {
		log.SetOutput(os.Stdout)
		return nil
	}

	logFilePath, err := filepath.Abs(params.LogFileName)
	if err != nil {
		return fmt.Errorf("get log file absolute path: %w", err)
	}

	rollingLogFile := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		LocalTime:  false,
		Compress:   true,
	}

	var logWriter io.Writer = rollingLogFile
	if params.LogToStdout {
		logWriter = pkg.NewCombinedWriter(os.Stdout, rollingLogFile)
	}

	log.SetOutput(logWriter)
	return nil
}

func GetLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "panic":
		return log.PanicLevel
	case "fatal":
		return log.FatalLevel
	case "error":
		return log.ErrorLevel
	case "warn", "warning":
		return log.WarnLevel
	case "info":
		return log.InfoLevel
	case "debug":
		return log.DebugLevel
	default:
		return log.TraceLevel
	}
}
