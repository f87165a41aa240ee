package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Mavwarf/shortcut-icons/internal/config"
	"github.com/Mavwarf/shortcut-icons/internal/mqtt"
	"github.com/Mavwarf/shortcut-icons/internal/webhook"
)

// IconSummary is the per-icon part of a Summary.
type IconSummary struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Color  string `json:"color"`
	Output string `json:"output,omitempty"`
	Bytes  int    `json:"bytes,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Summary is the JSON payload sent to completion targets.
type Summary struct {
	Run        string        `json:"run"`
	Started    time.Time     `json:"started"`
	DurationMs int64         `json:"duration_ms"`
	DryRun     bool          `json:"dry_run,omitempty"`
	Total      int           `json:"total"`
	Failed     int           `json:"failed"`
	Font       string        `json:"font,omitempty"`
	Icons      []IconSummary `json:"icons"`
}

// Summary condenses r for completion notifications.
func (r *Report) Summary() Summary {
	s := Summary{
		Run:        r.ID,
		Started:    r.Started,
		DurationMs: r.Duration.Milliseconds(),
		DryRun:     r.DryRun,
		Total:      len(r.Results),
		Failed:     r.Failed(),
		Icons:      make([]IconSummary, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		is := IconSummary{
			Name:   res.Icon.Name,
			Label:  res.Icon.Label,
			Color:  res.Icon.Color.Hex(),
			Output: res.Output,
			Bytes:  res.Bytes,
		}
		if res.Err != nil {
			is.Error = res.Err.Error()
		}
		if s.Font == "" {
			s.Font = res.Font
		}
		s.Icons = append(s.Icons, is)
	}
	return s
}

// Announce sends the run summary to every configured completion target
// (MQTT, webhook) in parallel and returns the first error.
func Announce(ctx context.Context, r *Report, o config.Options) error {
	if o.MQTT == nil && o.Webhook == nil {
		return nil
	}
	payload, err := json.Marshal(r.Summary())
	if err != nil {
		return fmt.Errorf("announce: %w", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error
	fire := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
			}
		}()
	}

	if o.MQTT != nil {
		c := *o.MQTT
		fire("mqtt", func() error { return mqtt.Publish(c, payload) })
	}
	if o.Webhook != nil {
		w := *o.Webhook
		fire("webhook", func() error { return webhook.Send(ctx, w.URL, payload, w.Headers) })
	}
	wg.Wait()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
