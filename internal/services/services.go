// Package services builds the domain services once and hands them to the
// commands, events and web routes.
package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/StrikeTrackerBot/internal/striker"
	"github.com/PancyStudios/StrikeTrackerBot/internal/tracker"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/store"
)

// EventSink receives domain events
type EventSink interface {
	PublishEvent(topic string, payload interface{})
}

// Options configures New
type Options struct {
	Backend       store.Backend
	BackendName   string
	Messenger     discord.Messenger
	ImagesDir     string
	LogChannelEnv []string
	Events        EventSink
	RefreshDelay  time.Duration
}

// Services holds the bot's domain services
type Services struct {
	Striker  *striker.Service
	Launcher *striker.Launcher
	Recorder *striker.Recorder
	Refresh  *striker.Debouncer
	Tracker  *tracker.Service

	// BackendName is the storage actually in use ("file" or "mongo")
	BackendName string
}

var (
	current *Services
	mu      sync.RWMutex
)

// New wires every service from opts
func New(opts Options) *Services {
	var strikerEvents striker.EventSink
	var trackerEvents tracker.EventSink
	if opts.Events != nil {
		strikerEvents = opts.Events
		trackerEvents = opts.Events
	}

	delay := opts.RefreshDelay
	if delay <= 0 {
		delay = striker.DefaultRefreshDelay
	}

	svc := striker.NewService(opts.Backend, opts.LogChannelEnv)
	launcher := striker.NewLauncher(svc, opts.Messenger, strikerEvents)

	return &Services{
		Striker:  svc,
		Launcher: launcher,
		Recorder: striker.NewRecorder(svc, opts.Messenger, launcher, strikerEvents),
		Refresh:  striker.NewDebouncer(delay),
		Tracker:  tracker.NewService(opts.Backend, opts.Messenger, tracker.NewImages(opts.ImagesDir), trackerEvents),

		BackendName: opts.BackendName,
	}
}

// Init builds the global Services
func Init(opts Options) *Services {
	s := New(opts)
	mu.Lock()
	current = s
	mu.Unlock()
	return s
}

// Get returns the global Services
func Get() *Services {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Close stops pending launcher refreshes
func (s *Services) Close() {
	if s != nil {
		s.Refresh.Stop()
	}
}

// TrackersRequest answers the "trackers" broker request with the trackers
// of payload["guildId"]
func (s *Services) TrackersRequest(payload map[string]interface{}) (interface{}, error) {
	guildID, _ := payload["guildId"].(string)
	if guildID == "" {
		return nil, fmt.Errorf("guildId is required")
	}
	return s.Tracker.List(guildID), nil
}

// ChiefsRequest answers the "chiefs" broker request with every chief summary
func (s *Services) ChiefsRequest(map[string]interface{}) (interface{}, error) {
	return s.Striker.Summaries(), nil
}
