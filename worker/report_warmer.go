package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"daybrief/internal/cache"
	"daybrief/internal/model"
	"daybrief/internal/platform"
	"daybrief/internal/report"
)

// ReportSource produces daily reports.
type ReportSource interface {
	Get(ctx context.Context, t model.ReportType, skipCache bool) (model.Report, error)
}

// ReportWarmer generates the morning report during the morning window and the evening
// report during the evening window, once per day each, and announces them.
type ReportWarmer struct {
	Reports  ReportSource
	Notifier platform.Notifier
	Interval time.Duration
	Location *time.Location
	Now      func() time.Time
	// ArchiveDir, when set, receives each generated report as Markdown.
	ArchiveDir string
	Order      []string

	done map[model.ReportType]string // report type -> date last generated
}

func (w *ReportWarmer) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 15 * time.Minute
	}
	if w.Location == nil {
		w.Location = time.Local
	}
	if w.Now == nil {
		w.Now = time.Now
	}
	// run immediately then on interval
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

// due returns the report that should exist for the current window, if any.
func due(win cache.Window) (model.ReportType, bool) {
	switch win.Label {
	case cache.Morning:
		return model.ReportMorning, true
	case cache.Evening:
		return model.ReportEvening, true
	default:
		return "", false
	}
}

func (w *ReportWarmer) runOnce(ctx context.Context) {
	if w.done == nil {
		w.done = map[model.ReportType]string{}
	}
	now := w.Now().In(w.Location)
	win := cache.NewsWindow(now)
	t, ok := due(win)
	if !ok || w.done[t] == win.Date {
		return
	}
	// Between midnight and 06:00 the evening window belongs to yesterday, but a
	// report generated now would be dated today. Wait for tonight's window.
	if win.Date != cache.DayWindow(now).Date {
		return
	}
	if w.ArchiveDir != "" {
		// after a restart the archive tells us the report already went out
		if found, err := report.Archived(w.ArchiveDir, t, win.Date); err != nil {
			slog.Warn("report-warmer: archive unreadable", "type", t, "error", err)
		} else if found {
			w.done[t] = win.Date
			return
		}
	}
	r, err := w.Reports.Get(ctx, t, false)
	if err != nil {
		slog.Error("report-warmer: generate failed", "type", t, "error", err)
		return
	}
	w.done[t] = win.Date
	count := len(r.Headlines)
	for _, arts := range r.Categories {
		count += len(arts)
	}
	slog.Info("report-warmer: report ready", "type", t, "date", r.Date, "articles", count, "failures", len(r.Failures))
	if w.ArchiveDir != "" {
		if path, err := report.Archive(w.ArchiveDir, r, w.Order); err != nil {
			slog.Error("report-warmer: archive failed", "type", t, "error", err)
		} else {
			slog.Info("report-warmer: archived", "path", path)
		}
	}
	if w.Notifier == nil {
		return
	}
	title := fmt.Sprintf("Your %s briefing is ready", t)
	body := fmt.Sprintf("%d stories for %s", count, r.Date)
	if err := w.Notifier.Notify(ctx, title, body); err != nil {
		slog.Warn("report-warmer: notify failed", "error", err)
	}
}
