package internal

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Logger can be modified by external for testing
var Logger = logrus.New()

// SetLogLevel changes level of Logger. level is case insensitive such as "DEBUG" or "warn".
func SetLogLevel(level string) error {
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "Invalid log level: %s", level)
	}

	Logger.SetLevel(lv)
	return nil
}
