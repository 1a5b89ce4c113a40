package loggerfile

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Global log directory configuration
var globalLogDir = "logs"

// SetGlobalLogDir sets the global log directory
func SetGlobalLogDir(logDir string) {
	globalLogDir = logDir
}

// GetGlobalLogDir returns the current global log directory
func GetGlobalLogDir() string {
	return globalLogDir
}

// FileLogger writes per-node trace files under the global log directory.
type FileLogger struct {
	file    *os.File
	entries []LogEntry
	mutex   sync.Mutex
}

// NewFileLogger creates the log directory if needed and opens the file in append mode.
func NewFileLogger(filePath string) (*FileLogger, error) {
	logDir := globalLogDir
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		err := os.MkdirAll(logDir, os.ModePerm)
		if err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
	}

	dir := filepath.Dir(fmt.Sprintf("%s/%s", logDir, filePath))
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err := os.MkdirAll(dir, os.ModePerm)
		if err != nil {
			return nil, fmt.Errorf("failed to create sub logs directory: %w", err)
		}
	}

	file, err := os.OpenFile(fmt.Sprintf("%s/%s", logDir, filePath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &FileLogger{
		file:    file,
		entries: make([]LogEntry, 0),
	}, nil
}

// Log writes a plain message with an RFC3339 timestamp.
func (fl *FileLogger) Log(message string) {
	if fl == nil {
		log.Println("FileLogger is nil. Skipping Log.")
		return
	}

	fl.mutex.Lock()
	defer fl.mutex.Unlock()

	timestamp := time.Now().Format(time.RFC3339)
	logMessage := fmt.Sprintf("%s: %s\n", timestamp, message)
	if _, err := fl.file.WriteString(logMessage); err != nil {
		log.Printf("Failed to write log message: %v", err)
	}
}

// Info writes a formatted message with an RFC3339 timestamp.
func (fl *FileLogger) Info(message interface{}, a ...interface{}) {
	if fl == nil {
		log.Println("FileLogger is nil. Skipping Info log.")
		return
	}

	fl.mutex.Lock()
	defer fl.mutex.Unlock()

	timestamp := time.Now().Format(time.RFC3339)
	logMessage := fmt.Sprintf("%s: %s\n", timestamp, fmt.Sprintf(fmt.Sprint(message), a...))
	if _, err := fl.file.WriteString(logMessage); err != nil {
		log.Printf("Failed to write log message: %v", err)
	}
}

// LogEntry is one buffered record of a consensus round.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	NodeID    int32     `json:"node_id"`
	Round     int       `json:"round"`
	Estimate  string    `json:"estimate"`
	Decided   bool      `json:"decided"`
	VoteCount int       `json:"vote_count"`
}

// Append buffers an entry; it is written out on the next Flush.
func (fl *FileLogger) Append(entry LogEntry) {
	if fl == nil {
		return
	}
	fl.mutex.Lock()
	defer fl.mutex.Unlock()
	fl.entries = append(fl.entries, entry)
}

// Flush writes buffered entries to the file as indented JSON.
func (fl *FileLogger) Flush() {
	if fl == nil {
		log.Println("FileLogger is nil. Skipping Flush.")
		return
	}

	fl.mutex.Lock()
	defer fl.mutex.Unlock()

	if len(fl.entries) == 0 {
		return
	}

	data, err := json.MarshalIndent(fl.entries, "", "  ")
	if err != nil {
		log.Printf("Error marshaling JSON: %v", err)
		return
	}

	data = append(data, '\n')
	if _, err := fl.file.Write(data); err != nil {
		log.Printf("Error writing to file: %v", err)
		return
	}
	fl.entries = fl.entries[:0]
}

// FlushPeriodically flushes on a fixed interval until the process exits.
func (fl *FileLogger) FlushPeriodically(interval time.Duration) {
	if fl == nil {
		log.Println("FileLogger is nil. Skipping FlushPeriodically.")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		fl.Flush()
	}
}

// Close closes the underlying file.
func (fl *FileLogger) Close() {
	if fl == nil {
		log.Println("FileLogger is nil. Skipping Close.")
		return
	}

	if err := fl.file.Close(); err != nil {
		log.Printf("Error closing file: %v", err)
	}
}
