// Package scanner runs scanner sessions. Each session owns its history,
// de-duplication state, webhook URL and capture source, and mutates them only
// from its own event loop goroutine. Webhook deliveries run concurrently and
// report back to the loop, which applies them by record timestamp.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"qrscan-go/pkg/decoder"
	"qrscan-go/pkg/dedup"
	"qrscan-go/pkg/history"
	"qrscan-go/pkg/models"
	"qrscan-go/pkg/webhook"

	"github.com/google/uuid"
)

var (
	// ErrClosed is returned by operations on a closed session
	ErrClosed = errors.New("session closed")

	// ErrUnknownDevice is returned when selecting a device not in the session's list
	ErrUnknownDevice = errors.New("unknown capture device")
)

// Deliverer sends one decoded value to a webhook URL
type Deliverer interface {
	Deliver(ctx context.Context, url, text string, capturedAt time.Time) error
}

// Options configures new sessions
type Options struct {
	Cooldown   time.Duration
	WebhookURL string
	Live       decoder.LiveConfig
	Now        func() time.Time
	Logger     *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Cooldown <= 0 {
		o.Cooldown = dedup.DefaultCooldown
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = log.New(os.Stderr, "[scanner] ", log.LstdFlags)
	}
	return o
}

// subscriberBuffer is how many views a slow subscriber may lag behind
const subscriberBuffer = 8

// Session is one scanner's volatile state
type Session struct {
	id        uuid.UUID
	createdAt time.Time
	opts      Options
	decoder   *decoder.Decoder
	deliverer Deliverer
	logger    *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	cmds      chan func()
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	inflight  sync.WaitGroup

	// Owned by the event loop
	history       *history.Store
	dedup         *dedup.Deduplicator
	webhookURL    string
	devices       []models.Device
	selected      string
	live          *decoder.LiveSource
	lastTimestamp int64
	subscribers   map[int]chan models.SessionView
	nextSubID     int
}

// NewSession creates a session and starts its event loop
func NewSession(opts Options, dec *decoder.Decoder, deliverer Deliverer) *Session {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		id:          uuid.New(),
		createdAt:   opts.Now(),
		opts:        opts,
		decoder:     dec,
		deliverer:   deliverer,
		logger:      opts.Logger,
		ctx:         ctx,
		cancel:      cancel,
		cmds:        make(chan func()),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
		history:     history.New(),
		dedup:       dedup.New(opts.Cooldown),
		webhookURL:  opts.WebhookURL,
		subscribers: make(map[int]chan models.SessionView),
	}
	s.live = dec.OpenLive("", opts.Live)

	go s.run()
	return s
}

// ID returns the session's identity
func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) run() {
	defer close(s.done)
	for {
		select {
		case cmd := <-s.cmds:
			cmd()
		case <-s.stop:
			s.live.Close()
			for id, ch := range s.subscribers {
				close(ch)
				delete(s.subscribers, id)
			}
			return
		}
	}
}

// exec runs fn on the event loop and waits for it to finish
func (s *Session) exec(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	cmd := func() {
		fn()
		close(finished)
	}

	select {
	case s.cmds <- cmd:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// post queues fn on the event loop without waiting; dropped once closed
func (s *Session) post(fn func()) {
	select {
	case s.cmds <- fn:
	case <-s.done:
	}
}

// Submit feeds an already-decoded string into the pipeline
func (s *Session) Submit(ctx context.Context, text string) (models.ScanResult, error) {
	var result models.ScanResult
	err := s.exec(ctx, func() {
		result = s.accept(text)
	})
	return result, err
}

// Upload decodes a single uploaded image. A decode failure returns
// decoder.ErrNoCode and leaves the history untouched.
func (s *Session) Upload(ctx context.Context, r io.Reader) (models.ScanResult, error) {
	text, err := s.decoder.DecodeFile(r)
	if err != nil {
		return models.ScanResult{}, err
	}
	return s.Submit(ctx, text)
}

// Frame decodes one live camera frame. Frames tagged with a device other
// than the selected one, frames over the rate limit and frames without a
// code all return ok=false with no error.
func (s *Session) Frame(ctx context.Context, deviceID string, r io.Reader) (result models.ScanResult, ok bool, err error) {
	var live *decoder.LiveSource
	if err := s.exec(ctx, func() { live = s.live }); err != nil {
		return models.ScanResult{}, false, err
	}
	if deviceID != "" && deviceID != live.DeviceID() {
		return models.ScanResult{}, false, nil
	}

	text, found, err := live.DecodeFrame(r, s.opts.Now())
	if errors.Is(err, decoder.ErrSourceClosed) {
		// The device was switched while this frame was in flight
		return models.ScanResult{}, false, nil
	}
	if err != nil || !found {
		return models.ScanResult{}, false, err
	}

	err = s.exec(ctx, func() {
		if s.live != live {
			return
		}
		result = s.accept(text)
		ok = result.Record != nil
	})
	return result, ok, err
}

// accept runs on the event loop
func (s *Session) accept(text string) models.ScanResult {
	now := s.opts.Now()
	if !s.dedup.Accept(text, now) {
		return models.ScanResult{Suppressed: true}
	}

	ts := now.UnixMilli()
	if ts <= s.lastTimestamp {
		ts = s.lastTimestamp + 1
	}
	s.lastTimestamp = ts

	record := models.ScanRecord{
		Text:           text,
		Timestamp:      ts,
		WebhookEnabled: s.webhookURL != "",
		WebhookStatus:  models.WebhookDisabled,
	}
	if record.WebhookEnabled {
		record.WebhookStatus = models.WebhookPending
	}
	s.history.Append(record)
	s.logger.Printf("session %s: accepted scan %d (%d chars)", s.id, ts, len(text))

	if record.WebhookEnabled {
		s.deliver(s.webhookURL, record)
	}
	s.publish()

	return models.ScanResult{Record: &record}
}

// deliver runs on the event loop and starts one asynchronous attempt
func (s *Session) deliver(url string, record models.ScanRecord) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		err := s.deliverer.Deliver(s.ctx, url, record.Text, record.CapturedAt())
		status, msg := models.WebhookSuccess, ""
		if err != nil {
			status, msg = models.WebhookError, webhook.UserMessage(err)
			s.logger.Printf("session %s: webhook for scan %d failed: %v", s.id, record.Timestamp, err)
		} else {
			s.logger.Printf("session %s: webhook for scan %d delivered", s.id, record.Timestamp)
		}

		s.post(func() {
			if s.history.UpdateStatus(record.Timestamp, status, msg) {
				s.publish()
			}
		})
	}()
}

// SetWebhookURL changes where future scans are delivered. Records already in
// the history keep their status.
func (s *Session) SetWebhookURL(ctx context.Context, url string) error {
	return s.exec(ctx, func() {
		s.webhookURL = url
		if url == "" {
			s.logger.Printf("session %s: webhook disabled", s.id)
		} else {
			s.logger.Printf("session %s: webhook set to %s", s.id, url)
		}
		s.publish()
	})
}

// Clear empties the history
func (s *Session) Clear(ctx context.Context) error {
	return s.exec(ctx, func() {
		s.history.Clear()
		s.publish()
	})
}

// Reset clears the history and the cooldown and restarts the live source on
// the selected device
func (s *Session) Reset(ctx context.Context) error {
	return s.exec(ctx, func() {
		s.history.Clear()
		s.dedup.Reset()
		s.reopenLive(s.selected)
		s.publish()
	})
}

// SetDevices replaces the device list from a raw media-device listing. The
// first device is selected when none is selected yet.
func (s *Session) SetDevices(ctx context.Context, listing []models.MediaDevice) ([]models.Device, error) {
	devices := decoder.NormalizeDevices(listing)
	err := s.exec(ctx, func() {
		s.devices = devices
		if s.selected == "" && len(devices) > 0 {
			s.selected = devices[0].DeviceID
			s.reopenLive(s.selected)
		}
		s.publish()
	})
	return devices, err
}

// SelectDevice switches live decoding to deviceID
func (s *Session) SelectDevice(ctx context.Context, deviceID string) error {
	var selectErr error
	err := s.exec(ctx, func() {
		if len(s.devices) > 0 && !containsDevice(s.devices, deviceID) {
			selectErr = fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID)
			return
		}
		s.selected = deviceID
		s.reopenLive(deviceID)
		s.publish()
	})
	if err != nil {
		return err
	}
	return selectErr
}

// reopenLive runs on the event loop
func (s *Session) reopenLive(deviceID string) {
	s.live.Close()
	s.live = s.decoder.OpenLive(deviceID, s.opts.Live)
	s.logger.Printf("session %s: live source bound to device %q", s.id, deviceID)
}

func containsDevice(devices []models.Device, id string) bool {
	for _, d := range devices {
		if d.DeviceID == id {
			return true
		}
	}
	return false
}

// View returns a snapshot of the session
func (s *Session) View(ctx context.Context) (models.SessionView, error) {
	var view models.SessionView
	err := s.exec(ctx, func() {
		view = s.view()
	})
	return view, err
}

func (s *Session) view() models.SessionView {
	devices := make([]models.Device, len(s.devices))
	copy(devices, s.devices)
	return models.SessionView{
		ID:             s.id,
		History:        s.history.Records(),
		WebhookURL:     s.webhookURL,
		Devices:        devices,
		SelectedDevice: s.selected,
		CreatedAt:      s.createdAt,
	}
}

// Subscribe returns a channel receiving a view after every change, starting
// with the current one. Updates are dropped for a subscriber that falls
// behind. The channel is closed by cancel or when the session closes.
func (s *Session) Subscribe(ctx context.Context) (<-chan models.SessionView, func(), error) {
	ch := make(chan models.SessionView, subscriberBuffer)
	var id int
	err := s.exec(ctx, func() {
		id = s.nextSubID
		s.nextSubID++
		s.subscribers[id] = ch
		ch <- s.view()
	})
	if err != nil {
		return nil, func() {}, err
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			_ = s.exec(context.Background(), func() {
				if sub, ok := s.subscribers[id]; ok {
					close(sub)
					delete(s.subscribers, id)
				}
			})
		})
	}
	return ch, cancel, nil
}

// publish runs on the event loop
func (s *Session) publish() {
	if len(s.subscribers) == 0 {
		return
	}
	view := s.view()
	for _, ch := range s.subscribers {
		select {
		case ch <- view:
		default:
		}
	}
}

// Close stops the event loop and cancels in-flight deliveries
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		close(s.stop)
		<-s.done
		s.inflight.Wait()
	})
}
