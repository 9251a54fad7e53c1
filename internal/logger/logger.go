package logger

import (
	"io"
	"log"
	"os"
	"time"
)

const flags = log.Ldate | log.Ltime | log.Lmicroseconds

var (
	InfoLogger  = log.New(os.Stdout, "[INFO] ", flags)
	ErrorLogger = log.New(os.Stderr, "[ERROR] ", flags)
	DebugLogger = log.New(io.Discard, "[DEBUG] ", flags)
)

// Init switches the debug logger on for development builds.
func Init(debug bool) {
	log.SetFlags(flags)
	InfoLogger.SetOutput(os.Stdout)
	ErrorLogger.SetOutput(os.Stderr)
	if debug {
		DebugLogger.SetOutput(os.Stdout)
	} else {
		DebugLogger.SetOutput(io.Discard)
	}
}

func LogRequest(requestID, method, path, remoteAddr string, status int, duration time.Duration) {
	InfoLogger.Printf("%s %s %s %s %d %v", requestID, method, path, remoteAddr, status, duration)
}

func LogError(err error, context string) {
	ErrorLogger.Printf("%s: %v", context, err)
}

func LogDebug(format string, v ...any) {
	DebugLogger.Printf(format, v...)
}

func LogInfo(format string, v ...any) {
	InfoLogger.Printf(format, v...)
}
