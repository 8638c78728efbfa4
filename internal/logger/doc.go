// Package logger holds the process-wide zap logger of the command line tool.
// It provides context-aware helpers, a shared atomic level and
// redirection of the output to a log file.
package logger
