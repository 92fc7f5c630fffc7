package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide logger. It is usable before Init with logrus defaults.
var Logger = logrus.New()

var once sync.Once

// Options controls logger output.
type Options struct {
	Level  string
	Format string
	File   string
	Source string
}

// Init configures the global logger once. Later calls are no-ops.
func Init(opts Options) {
	once.Do(func() {
		configure(Logger, opts)
		Logger.Info("logger initialized")
	})
}

func configure(l *logrus.Logger, opts Options) {
	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	l.SetOutput(out)

	if opts.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if opts.Source != "" {
		l.AddHook(sourceHook{source: opts.Source})
	}
}

// sourceHook stamps every entry with the process that wrote it.
type sourceHook struct {
	source string
}

func (h sourceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h sourceHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["source"]; !ok {
		entry.Data["source"] = h.source
	}
	return nil
}
