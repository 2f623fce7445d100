package utils

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger builds the application logger from AppConfig. Output always goes
// to stdout; a rotated file under LogPath is added when LogPath is set.
func InitLogger(app AppConfig) (*zap.Logger, error) {
	// JSON in production, coloured console output in debug mode
	encoderConfig := zap.NewProductionEncoderConfig()
	if app.Debug {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.CallerKey = "caller"                      // file:line of the log call
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder // relative to the module

	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if app.Debug {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	level := zap.InfoLevel
	if app.Debug {
		level = zap.DebugLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level),
	}

	if app.LogPath != "" {
		if err := os.MkdirAll(app.LogPath, 0o755); err != nil {
			return nil, err
		}

		// Files are always plain JSON so they stay machine readable
		fileConfig := encoderConfig
		fileConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(app.LogPath, logFileName(app.Name)),
			MaxSize:    10, // MB
			MaxBackups: 7,
			MaxAge:     28, // days
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileConfig), fileWriter, level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	if app.Name != "" {
		logger = logger.With(zap.String("app", app.Name))
	}
	return logger, nil
}

// logFileName turns the app name into a file name, "YaMDb API" -> "yamdb-api.log".
func logFileName(name string) string {
	if slug := Slugify(name); slug != "" {
		return slug + ".log"
	}
	return "yamdb.log"
}
