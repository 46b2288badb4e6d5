package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	logger  *log.Logger
	logFile *os.File
	once    sync.Once
)

// open creates the log file on first use. The TUI owns the terminal, so
// output goes to a file under QRSCAN_LOG_DIR (default "tmp").
func open() {
	logDir := os.Getenv("QRSCAN_LOG_DIR")
	if logDir == "" {
		logDir = "tmp"
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		// If we can't create log dir, just use stderr
		logger = log.New(os.Stderr, "[cli] ", log.LstdFlags|log.Lshortfile)
		return
	}

	// Create log file with timestamp
	logFileName := filepath.Join(logDir, fmt.Sprintf("cli-%s.log", time.Now().Format("20060102-150405")))

	var err error
	logFile, err = os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logger = log.New(os.Stderr, "[cli] ", log.LstdFlags|log.Lshortfile)
		return
	}

	logger = log.New(logFile, "[cli] ", log.LstdFlags|log.Lshortfile)
}

// SetOutput redirects logging, e.g. to io.Discard in tests
func SetOutput(w io.Writer) {
	once.Do(func() {})
	logger = log.New(w, "[cli] ", log.LstdFlags|log.Lshortfile)
}

// Log writes a log message
func Log(format string, v ...interface{}) {
	once.Do(open)
	if logger != nil {
		logger.Output(2, fmt.Sprintf(format, v...))
	}
}

// LogError writes an error log message
func LogError(err error, format string, v ...interface{}) {
	once.Do(open)
	if logger != nil {
		msg := fmt.Sprintf(format, v...)
		logger.Output(2, fmt.Sprintf("ERROR: %s: %v", msg, err))
	}
}

// CloseLog closes the log file
func CloseLog() {
	if logFile != nil {
		logFile.Close()
	}
}
