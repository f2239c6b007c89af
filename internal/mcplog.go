package internal

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

// stdout carries the MCP protocol, so tool activity goes to a file instead
var (
	mcpLogger     *log.Logger
	mcpLogFile    *os.File
	mcpLoggerOnce sync.Once
	mcpLoggerMu   sync.Mutex
)

// MCPLogPath returns where MCP activity is logged when mcp_log is enabled
func MCPLogPath() string {
	return filepath.Join(xdg.CacheHome, "chanscribe", "mcp.log")
}

// InitMCPLogging opens the MCP log file if the config enables it
func InitMCPLogging(config *Config) error {
	var err error
	mcpLoggerOnce.Do(func() {
		if config.MCPLogEnabled {
			err = openMCPLog(MCPLogPath())
		}
	})
	return err
}

func openMCPLog(path string) error {
	if err := EnsureDirs(filepath.Dir(path)); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening MCP log: %w", err)
	}

	mcpLoggerMu.Lock()
	defer mcpLoggerMu.Unlock()
	mcpLogFile = file
	mcpLogger = log.New(file, "", log.LstdFlags|log.Lmicroseconds)
	return nil
}

// CloseMCPLog closes the MCP log file
func CloseMCPLog() error {
	mcpLoggerMu.Lock()
	defer mcpLoggerMu.Unlock()
	if mcpLogFile == nil {
		return nil
	}
	err := mcpLogFile.Close()
	mcpLogFile = nil
	mcpLogger = nil
	return err
}

func mcpLogf(level, format string, args ...any) {
	mcpLoggerMu.Lock()
	defer mcpLoggerMu.Unlock()
	if mcpLogger == nil {
		return
	}
	mcpLogger.Printf("[MCP] [%s] "+format, append([]any{level}, args...)...)
}

// MCPLogInfo logs an info message
func MCPLogInfo(format string, args ...any) {
	mcpLogf("INFO", format, args...)
}

// MCPLogError logs an error message
func MCPLogError(format string, args ...any) {
	mcpLogf("ERROR", format, args...)
}

// MCPLogDebug logs a debug message
func MCPLogDebug(format string, args ...any) {
	mcpLogf("DEBUG", format, args...)
}
