// Package errors provides error handling and recovery mechanisms for the bot.
// It implements an error counter with automatic shutdown on excessive errors
// and the user-facing error kinds returned by the striker and tracker workflows.
package errors

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PancyStudios/StrikeTrackerBot/pkg/logger"
	"github.com/goccy/go-json"
)

const (
	reportColor = 0xFF0000
	// Discord caps embed descriptions at 4096 characters
	maxReportStack = 3500
)

// ErrorHandler counts recovered panics and shuts the bot down when too many
// land in one window
type ErrorHandler struct {
	errorCount    int32
	panics        int64
	webhookURL    string
	client        *http.Client
	mu            sync.Mutex
	stopChan      chan struct{}
	shutdownFunc  func()
	maxErrors     int32
	resetInterval time.Duration
	checkInterval time.Duration
}

// ReportErrorOptions contains options for reporting an error
type ReportErrorOptions struct {
	Error   string
	Message string
	Source  string
}

type webhookEmbed struct {
	Author      webhookText    `json:"author"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []webhookField `json:"fields,omitempty"`
	Footer      webhookText    `json:"footer"`
	Timestamp   string         `json:"timestamp"`
}

type webhookText struct {
	Name string `json:"name,omitempty"`
	Text string `json:"text,omitempty"`
}

type webhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

var (
	handler *ErrorHandler
	once    sync.Once
)

// Init initializes the global error handler
func Init(webhookURL string, shutdownFunc func()) *ErrorHandler {
	once.Do(func() {
		handler = NewErrorHandler(webhookURL, shutdownFunc)
	})
	return handler
}

// Get returns the global error handler instance
func Get() *ErrorHandler {
	return handler
}

// NewErrorHandler creates a handler allowing 15 errors per 5 second window
func NewErrorHandler(webhookURL string, shutdownFunc func()) *ErrorHandler {
	h := newErrorHandler(webhookURL, shutdownFunc)
	h.start()
	return h
}

func newErrorHandler(webhookURL string, shutdownFunc func()) *ErrorHandler {
	return &ErrorHandler{
		webhookURL:    webhookURL,
		client:        &http.Client{Timeout: 10 * time.Second},
		stopChan:      make(chan struct{}),
		shutdownFunc:  shutdownFunc,
		maxErrors:     15,
		resetInterval: 5 * time.Second,
		checkInterval: 1 * time.Second,
	}
}

func (h *ErrorHandler) start() {
	go func() {
		reset := time.NewTicker(h.resetInterval)
		check := time.NewTicker(h.checkInterval)
		defer reset.Stop()
		defer check.Stop()

		for {
			select {
			case <-reset.C:
				atomic.StoreInt32(&h.errorCount, 0)
			case <-check.C:
				if h.overLimit() {
					h.shutdown()
				}
			case <-h.stopChan:
				return
			}
		}
	}()
}

func (h *ErrorHandler) overLimit() bool {
	return atomic.LoadInt32(&h.errorCount) > h.maxErrors
}

func (h *ErrorHandler) shutdown() {
	start := time.Now()
	logger.Warn(fmt.Sprintf("%d errors in %v, shutting down", atomic.LoadInt32(&h.errorCount), h.resetInterval), "CRITICAL")

	h.Report(ReportErrorOptions{
		Error:   "Critical Error",
		Message: "Unusual number of errors. Shutting down...",
	})

	if h.shutdownFunc != nil {
		h.shutdownFunc()
	}

	logger.Warn(fmt.Sprintf("Exiting process... total time: %v", time.Since(start)), "CRITICAL")
	os.Exit(1)
}

// Stop stops the monitoring goroutine; safe to call twice
func (h *ErrorHandler) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.stopChan:
	default:
		close(h.stopChan)
	}
}

// Count returns the number of errors seen in the current window
func (h *ErrorHandler) Count() int32 {
	return atomic.LoadInt32(&h.errorCount)
}

// Panics returns the number of panics recovered since start
func (h *ErrorHandler) Panics() int64 {
	return atomic.LoadInt64(&h.panics)
}

// IncrementError increments the error count
func (h *ErrorHandler) IncrementError() {
	count := atomic.AddInt32(&h.errorCount, 1)
	logger.Error(fmt.Sprintf("Error count: %d", count), "AntiCrash")
}

// HandlePanic counts a recovered panic, logs it with the stack and reports it
// to the error webhook in the background. source names what was running, e.g.
// "/strikes" or "launcher refresh 123".
func (h *ErrorHandler) HandlePanic(source string, recovered interface{}) {
	atomic.AddInt64(&h.panics, 1)
	h.IncrementError()

	stack := string(debug.Stack())
	logger.Error(fmt.Sprintf("Panic in %s: %v\n%s", source, recovered, stack), "AntiCrash")

	go h.Report(ReportErrorOptions{
		Error:   "Panic",
		Message: fmt.Sprintf("%v\n```\n%s\n```", recovered, truncate(stack, maxReportStack)),
		Source:  source,
	})
}

// Report sends an error report to the Discord webhook
func (h *ErrorHandler) Report(data ReportErrorOptions) {
	if h.webhookURL == "" {
		return
	}

	embed := webhookEmbed{
		Author:      webhookText{Name: "Error " + data.Error},
		Description: data.Message,
		Color:       reportColor,
		Footer:      webhookText{Text: "StrikeTracker Bot"},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if data.Source != "" {
		embed.Fields = []webhookField{{Name: "Source", Value: data.Source, Inline: true}}
	}

	body, err := json.Marshal(map[string][]webhookEmbed{"embeds": {embed}})
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to marshal error report: %v", err), "AntiCrash")
		return
	}

	resp, err := h.client.Post(h.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send error report: %v", err), "AntiCrash")
		return
	}
	defer resp.Body.Close()

	logger.Debug(fmt.Sprintf("Error report sent, status %d", resp.StatusCode), "AntiCrash")
}

// RecoverMiddleware returns a recovery function for use in deferred calls
func RecoverMiddleware(source string) func() {
	return func() {
		if r := recover(); r != nil {
			Recovered(source, r)
		}
	}
}

// Recovered records a panic value already taken with recover()
func Recovered(source string, r interface{}) {
	if handler != nil {
		handler.HandlePanic(source, r)
		return
	}
	logger.Error(fmt.Sprintf("Panic in %s (no handler): %v", source, r), "AntiCrash")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "") + "…"
}
