package logconfig

import (
	"io"
	"os"
	"strings"

	myLogger "github.com/sirupsen/logrus"
)

// preset is one logger setup selectable by name.
type preset struct {
	level  myLogger.Level
	caller bool
	json   bool
	out    io.Writer
}

func terminalFormatter() myLogger.Formatter {
	return &myLogger.TextFormatter{
		ForceColors:            true,
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	}
}

func (p preset) apply() {
	myLogger.SetReportCaller(p.caller)
	myLogger.SetLevel(p.level)
	if p.out != nil {
		myLogger.SetOutput(p.out)
	}
	if p.json {
		myLogger.SetFormatter(&myLogger.JSONFormatter{})
	} else {
		myLogger.SetFormatter(terminalFormatter())
	}
}

// Used in tests and when running the CLI with --verbosity debug.
func ConfigDebugLogger() {
	preset{level: myLogger.DebugLevel, caller: true}.apply()
}

func ConfigInfoLogger() {
	preset{level: myLogger.InfoLevel}.apply()
}

// This output format is used by the long running server.
func ConfigProductionLogger() {
	preset{level: myLogger.InfoLevel, json: true, out: os.Stderr}.apply()
}

// ConfigByName picks one of the presets above. Any logrus level name
// ("warn", "trace", ...) selects the terminal output at that level.
// Unknown names fall back to the info logger.
func ConfigByName(name string) {
	switch name = strings.ToLower(strings.TrimSpace(name)); name {
	case "debug":
		ConfigDebugLogger()
	case "production", "prod":
		ConfigProductionLogger()
	case "", "info":
		ConfigInfoLogger()
	default:
		level, err := myLogger.ParseLevel(name)
		if err != nil {
			ConfigInfoLogger()
			myLogger.Warnf("unknown log level %q, using info", name)
			return
		}
		preset{level: level, caller: level >= myLogger.DebugLevel}.apply()
	}
}
