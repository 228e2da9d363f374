package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func GetLogger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)
	logg.SetLevel(logrus.InfoLevel)
}

// LogError records an error with module/function context for grepping in
// aggregated logs.
func LogError(module, funcName string, data any, err error) {
	entry := logg.WithFields(logrus.Fields{
		"module":   module,
		"funcName": funcName,
	})
	if data != nil {
		entry = entry.WithField("data", data)
	}
	entry.Error(err.Error())
}
