package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/oshokin/exchange-logger/internal/config"
	"github.com/oshokin/exchange-logger/internal/constants"
	"github.com/oshokin/exchange-logger/internal/logger"
	"github.com/oshokin/exchange-logger/internal/utils"
	"github.com/oshokin/exchange-logger/pkg/exchangelog"
	transporthttp "github.com/oshokin/exchange-logger/pkg/transport/http"
)

// FetchOptions describes the request issued by the fetch command.
type FetchOptions struct {
	// URL is the absolute target URL.
	URL string
	// Method is the HTTP method; empty means GET.
	Method string
	// Headers holds "Name: value" pairs.
	Headers []string
	// Data is the request body.
	Data string
	// Output is a file or directory to save the response body to; empty discards it.
	Output string
}

// FetchResult summarizes a completed fetch.
type FetchResult struct {
	// StatusCode is the response status code.
	StatusCode int
	// BytesRead is the size of the response body.
	BytesRead int64
	// SavedTo is the path of the saved body, if any.
	SavedTo string
	// Duration is the time from sending the request to reading the whole body.
	Duration time.Duration
}

// Static error definitions for better error handling.
var (
	// ErrInvalidHeader indicates a header flag that is not in "Name: value" form.
	ErrInvalidHeader = errors.New("header must be in 'Name: value' form")
)

const overwriteFileOptions = os.O_CREATE | os.O_WRONLY | os.O_TRUNC

// ExecuteFetchCommand sends one request through the logging transport and
// prints a summary. Every exchange is printed through the process-wide logger.
func ExecuteFetchCommand(ctx context.Context, cfg *config.Config, opts FetchOptions) (*FetchResult, error) {
	exchanges := exchangelog.From(logger.Logger(), exchangelog.WithSettings(cfg.Partial()))

	return fetch(ctx, newHTTPClient(cfg, http.DefaultTransport, exchanges), opts)
}

// newHTTPClient chains the header injectors in front of the logging transport,
// so the printed request carries the injected headers.
func newHTTPClient(cfg *config.Config, base http.RoundTripper, exchanges *exchangelog.Logger) *http.Client {
	transport := transporthttp.NewLogTransport(base, exchanges)
	transport = transporthttp.NewRequestIDInjector(transport)
	transport = transporthttp.NewUserAgentInjector(transport, utils.NewSimpleUserAgentProvider(cfg.UserAgent))

	return &http.Client{
		Timeout:   cfg.ParsedTimeout,
		Transport: transport,
	}
}

func fetch(ctx context.Context, client *http.Client, opts FetchOptions) (*FetchResult, error) {
	req, err := newRequest(ctx, opts)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch '%s': %w", opts.URL, err)
	}

	defer resp.Body.Close() //nolint:errcheck // Error on close is not critical here.

	result := &FetchResult{StatusCode: resp.StatusCode}

	if opts.Output == "" {
		result.BytesRead, err = io.Copy(io.Discard, resp.Body)
	} else {
		result.SavedTo = outputPath(opts.Output, req.URL.Path)
		result.BytesRead, err = saveBody(result.SavedTo, resp)
	}

	if err != nil {
		return nil, err
	}

	result.Duration = time.Since(startTime)

	size := humanize.Bytes(uint64(result.BytesRead)) //nolint:gosec // Copy counts are never negative.

	logger.Infof(ctx, "Fetched %s %s: %s, %s in %s", req.Method, opts.URL, resp.Status, size, result.Duration)

	if result.SavedTo != "" {
		logger.Infof(ctx, "Saved to '%s'", result.SavedTo)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return result, fmt.Errorf("%w %d", transporthttp.ErrUnsuccessfulStatus, resp.StatusCode)
	}

	return result, nil
}

func newRequest(ctx context.Context, opts FetchOptions) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Data != "" {
		body = strings.NewReader(opts.Data)
	}

	req, err := http.NewRequestWithContext(ctx, method, opts.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for _, header := range opts.Headers {
		name, value, ok := strings.Cut(header, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidHeader, header)
		}

		req.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	return req, nil
}

// outputPath resolves the destination file; a directory gets a file named after the URL path.
func outputPath(output, urlPath string) string {
	if utils.IsDirExist(output) {
		return filepath.Join(output, utils.FilenameFromURLPath(urlPath))
	}

	return output
}

// saveBody downloads the body to a temporary .part file and renames it when complete.
// Missing parent folders are created.
func saveBody(path string, resp *http.Response) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.DefaultFolderPermissions); err != nil {
		return 0, fmt.Errorf("failed to create output folder: %w", err)
	}

	tempFilePath := path + constants.PartialFileSuffix

	f, err := os.OpenFile(filepath.Clean(tempFilePath), overwriteFileOptions, constants.DefaultFilePermissions)
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}

	var writer io.Writer = f

	if logger.Level() <= zap.InfoLevel {
		bar := progressbar.DefaultBytes(resp.ContentLength, "Downloading")
		writer = io.MultiWriter(f, bar)
	}

	bytesWritten, copyErr := io.Copy(writer, resp.Body)
	closeErr := f.Close()

	if err = errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(tempFilePath)

		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	if err = os.Rename(tempFilePath, path); err != nil {
		return 0, fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return bytesWritten, nil
}
