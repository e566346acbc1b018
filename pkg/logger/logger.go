package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// The globals default to no-ops so packages can log before Init runs
// (notably under go test).
var (
	Log   = zap.NewNop()
	Sugar = Log.Sugar()
)

// Init initializes the global logger configuration.
func Init() {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	encoder := zapcore.NewJSONEncoder(encoderConfig)
	writer := zapcore.AddSync(os.Stdout)

	core := zapcore.NewCore(encoder, writer, levelFromEnv())

	Log = zap.New(core, zap.AddCaller())
	Sugar = Log.Sugar()
}

// LOG_LEVEL=debug enables debug output; anything else stays at info.
func levelFromEnv() zapcore.Level {
	if os.Getenv("LOG_LEVEL") == "debug" {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}
