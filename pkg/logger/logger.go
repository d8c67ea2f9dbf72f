package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

func Init() {
	log = logrus.New()
	log.SetOutput(os.Stdout)

	if os.Getenv("ENVIRONMENT") == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		log.SetLevel(logrus.DebugLevel)
	}
}

// L returns the process logger, initializing a default one if Init has not
// been called yet (library use, tests).
func L() *logrus.Logger {
	if log == nil {
		Init()
	}
	return log
}

func WithFields(fields map[string]interface{}) *logrus.Entry {
	return L().WithFields(fields)
}

func Info(args ...interface{}) {
	L().Info(args...)
}

func Error(args ...interface{}) {
	L().Error(args...)
}

func Debug(args ...interface{}) {
	L().Debug(args...)
}

func Warn(args ...interface{}) {
	L().Warn(args...)
}

func Fatal(args ...interface{}) {
	L().Fatal(args...)
}
