package logging

import "github.com/sirupsen/logrus"

var logger *logrus.Entry

// Fields is re-exported so callers do not need to import logrus themselves.
type Fields = logrus.Fields

func init() {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
}

// Init sets the level of the shared logger from a level name such as "debug"
// or "warn". An unrecognized name is an error and leaves the level alone.
func Init(level string) error {
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	logger.Logger.SetLevel(lv)
	return nil
}

// Entry returns the shared logger.
func Entry() *logrus.Entry {
	return logger
}

func WithError(err error) *logrus.Entry {
	return logger.WithError(err)
}

func WithFields(f Fields) *logrus.Entry {
	return logger.WithFields(f)
}
