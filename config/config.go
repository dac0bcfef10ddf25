package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("ECOUI_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("ECOUI_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("ECOUI_DB_FOLDER")
	if dbFolderPath == "" {
		if IsDebug() {
			return "db"
		}
		dbFolderPath = "/etc/eco-ui"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetAttachmentFolderPath() string {
	dir := os.Getenv("ECOUI_ATTACHMENT_FOLDER")
	if dir == "" {
		dir = fmt.Sprintf("%s/attachments", GetDBFolderPath())
	}
	return dir
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("ECOUI_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

func GetListen() string {
	return os.Getenv("ECOUI_LISTEN")
}

func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("ECOUI_PORT"))
	if err != nil || port <= 0 {
		return 8080
	}
	return port
}

// GetMaxUploadSize returns the attachment upload cap in bytes.
func GetMaxUploadSize() int64 {
	mb, err := strconv.Atoi(os.Getenv("ECOUI_MAX_UPLOAD_MB"))
	if err != nil || mb <= 0 {
		mb = 50
	}
	return int64(mb) << 20
}
