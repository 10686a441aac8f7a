package logger

import (
	"os"

	"go.uber.org/zap"
)

// Log is a no-op until Init; packages may log during tests without any
// setup.
var Log = zap.NewNop().Sugar()

func Init() {
	var (
		l   *zap.Logger
		err error
	)
	if os.Getenv("WORDBOMB_DEBUG") != "" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = l.Sugar()
}

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	_ = Log.Sync()
}
