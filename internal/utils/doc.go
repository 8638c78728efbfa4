// Package utils provides small helpers shared by the command line tool:
// content type checks, file name sanitizing, file system probes
// and the User-Agent provider used by the HTTP transport.
package utils
