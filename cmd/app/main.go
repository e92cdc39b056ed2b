package main

import (
	"context"
	"esq/internal/journal"
	"esq/internal/repl"
	"esq/internal/util"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/dc0d/onexit"
)

var (
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// logging
	logLevel string
	logFile  string
	// config vars
	configFile    string
	historyFile   string
	maxDepth      int
	journalDriver string
	journalDSN    string
	resume        string
	sessions      bool
	watch         bool
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configFile, "config", "", "Read settings from a TOML file")
	// evaluator config
	flag.IntVar(&maxDepth, "max-depth", 0, "Maximum evaluation depth, 0 for unlimited")
	flag.StringVar(&historyFile, "history", "", "REPL history file (default $ESQ_HOME/"+util.HistoryFileName+")")
	// journal config
	flag.StringVar(&journalDriver, "journal-driver", "", "Journal driver: sqlite3, mysql, postgres (enables the journal)")
	flag.StringVar(&journalDSN, "journal-dsn", "", "Journal data source name (default "+journal.DefaultDSN+" for sqlite3)")
	flag.StringVar(&resume, "resume", "", "Replay the journal session with this id before the prompt")
	flag.BoolVar(&sessions, "sessions", false, "List the journal sessions and exit")
	flag.BoolVar(&watch, "watch", false, "Evaluate the given files again whenever they change")
	// log config
	flag.StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {

	flag.Parse()

	if version {
		printVersion()
		return
	}

	if help {
		printHelp()
		return
	}

	config := util.Configuration{
		Version:   Version,
		BuildDate: BuildDate,
		Commit:    Commit,
		EsqHome:   os.Getenv("ESQ_HOME"),
		LogLevel:  logLevel,
	}
	if configFile != "" {
		if err := util.LoadConfig(configFile, &config); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	applyFlags(&config)

	// Creates a new Logger that uses a JSONHandler to write to standard error
	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(config.LogLevel),
	}
	logWriter := configureLogWriter(config.LogFile)
	defaultLogger := slog.New(slog.NewJSONHandler(logWriter, loggerOptions))
	slog.SetDefault(defaultLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, config, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyFlags copies the flags given on the command line over the config.
func applyFlags(config *util.Configuration) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			config.LogLevel = logLevel
		case "log-file":
			config.LogFile = logFile
		case "history":
			config.HistoryFile = historyFile
		case "max-depth":
			config.MaxDepth = maxDepth
		case "journal-driver":
			config.Journal.Enabled = true
			config.Journal.Driver = journalDriver
		case "journal-dsn":
			config.Journal.Enabled = true
			config.Journal.DSN = journalDSN
		}
	})
	if resume != "" || sessions {
		config.Journal.Enabled = true
	}
	if config.Journal.Enabled && config.Journal.Driver == "" {
		config.Journal.Driver = journal.DefaultDriver
	}
	if config.Journal.Enabled && config.Journal.DSN == "" && config.Journal.Driver == journal.DefaultDriver {
		config.Journal.DSN = journal.DefaultDSN
	}
	if config.HistoryFile == "" {
		config.HistoryFile = util.DefaultHistoryFile(config.EsqHome)
	}
}

func run(ctx context.Context, config util.Configuration, files []string) error {
	session := repl.NewSession(os.Stdout, config.MaxDepth)

	if config.Journal.Enabled {
		store, err := journal.Open(ctx, config.Journal.Driver, config.Journal.DSN)
		if err != nil {
			return err
		}
		defer store.Close()
		onexit.Register(func() { store.Close() })
		session.Journal = store
		slog.Info("journal opened",
			slog.String("driver", config.Journal.Driver),
			slog.String("session", session.ID))

		if sessions {
			ids, err := store.Sessions(ctx)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		}
	}

	if watch {
		if len(files) == 0 {
			return fmt.Errorf("-watch needs at least one file")
		}
		return repl.Watch(ctx, session, files)
	}

	for _, f := range config.Prelude {
		if err := session.LoadFile(ctx, f); err != nil {
			return fmt.Errorf("prelude: %w", err)
		}
	}
	for _, f := range files {
		if err := session.LoadFile(ctx, f); err != nil {
			slog.Warn("file not loaded", slog.String("file", f), slog.Any("error", err))
		}
	}

	if resume != "" {
		if err := session.Resume(ctx, resume); err != nil {
			return err
		}
	}

	if repl.IsTerminal(int(os.Stdin.Fd())) {
		return repl.Run(ctx, session, config.HistoryFile)
	}
	return repl.Start(ctx, os.Stdin, session)
}

func configureLogWriter(logFile string) *os.File {
	var logWriter *os.File
	var err error
	if logFile != "" {
		// Create parent directories if they don't exist
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
			return os.Stderr
		}
		logWriter, err = os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
			logWriter = os.Stderr
		}
	} else {
		logWriter = os.Stderr
	}
	return logWriter
}

func printVersion() {

	fmt.Printf("esq version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: esq [options] [file...]

Options:
  -config <path>           Read settings from a TOML file. Flags override it.
  -history <path>          REPL history file. Default is $ESQ_HOME/%s.
  -max-depth <n>           Fail evaluations nested deeper than n. Default 0 (unlimited).
  -journal-driver <name>   Record the session with sqlite3, mysql or postgres.
  -journal-dsn <dsn>       Journal data source name. Default is '%s' for sqlite3.
  -resume <session-id>     Replay a recorded session before the prompt.
  -sessions                List the recorded sessions and exit.
  -watch                   Evaluate the files again whenever they change.
  -help                    Display this help information and exit.
  -version                 Display version information and exit.
  -log-level <level>       Set the log level: debug, info, warn, error. Default is 'error'.
  -log-file <path>         Specify a log file to write logs. Default is stderr.

Details:
Files are loaded in order before the prompt starts. At the prompt,
'load <file>' loads another file, 'reset' clears every definition and
'quit' leaves.

Examples:
  esq                              Start the interactive prompt
  esq lib.esq                      Load lib.esq, then start the prompt
  esq -watch main.esq              Print the results of main.esq on every save
  esq -journal-driver sqlite3      Record the session in %s

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, util.HistoryFileName, journal.DefaultDSN, journal.DefaultDSN, Version, BuildDate, Commit)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
