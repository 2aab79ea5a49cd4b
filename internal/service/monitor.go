package service

import (
	"context"
	"log"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/icewatch/ice-news-monitor/internal/model"
	"github.com/icewatch/ice-news-monitor/internal/repository"
)

// Status is the terminal state of a run.
type Status string

const (
	// StatusUnchanged means the page still shows the last-notified item.
	StatusUnchanged Status = "unchanged"
	// StatusNotified means the full cycle completed and state was persisted.
	StatusNotified Status = "notified"
	// StatusDryRun means a change was detected and translated but delivery
	// and persistence were skipped.
	StatusDryRun Status = "dry-run"
)

// RunResult describes a completed run.
type RunResult struct {
	Status Status         `json:"status"`
	Item   model.NewsItem `json:"item"`
	// Message is the formatted notification; empty when Status is unchanged.
	Message string `json:"message,omitempty"`
}

// Monitor orchestrates one check cycle:
// fetch latest item, compare against the seen record, and on change
// translate, notify and persist, in that strict order. Persistence happens
// only after confirmed delivery so a saved record always means a completed
// notification.
type Monitor struct {
	news       repository.NewsRepository
	state      repository.StateRepository
	translator *Translator
	notifier   *Notifier
}

func NewMonitor(
	news repository.NewsRepository,
	state repository.StateRepository,
	translator *Translator,
	notifier *Notifier,
) *Monitor {
	return &Monitor{
		news:       news,
		state:      state,
		translator: translator,
		notifier:   notifier,
	}
}

// Run executes one cycle. With dryRun the change is detected and
// translated but nothing is sent or persisted, so the next run starts from
// the same point. A failed run leaves the prior seen record untouched.
func (m *Monitor) Run(ctx context.Context, dryRun bool) (*RunResult, error) {
	logger := log.New(funcframework.LogWriter(ctx), "", 0)
	startTime := time.Now()

	logger.Printf("📡 Checking news page")
	fetchStart := time.Now()
	item, err := m.news.FetchLatest(ctx)
	if err != nil {
		return nil, &StageError{Stage: StageFetch, Err: err}
	}
	fetchDuration := time.Since(fetchStart)

	record, err := m.state.Load(ctx)
	if err != nil {
		return nil, &StageError{Stage: StageFetch, Err: err}
	}

	if !model.IsNew(item, record) {
		logger.Printf("📋 Latest item already notified, nothing to do title=%q duration_ms=%d",
			item.Title, time.Since(startTime).Milliseconds())
		return &RunResult{Status: StatusUnchanged, Item: item}, nil
	}

	logger.Printf("🔍 New update detected title=%q", item.Title)

	translateStart := time.Now()
	titleEN, err := m.translator.Translate(ctx, item.Title)
	if err != nil {
		return nil, &StageError{Stage: StageTranslate, Err: err}
	}
	snippetEN, err := m.translator.Translate(ctx, item.Snippet)
	if err != nil {
		return nil, &StageError{Stage: StageTranslate, Err: err}
	}
	translateDuration := time.Since(translateStart)

	message := BuildMessage(item, titleEN, snippetEN)

	if dryRun {
		logger.Printf("✅ Dry run complete, delivery and persistence skipped title=%q fetch_ms=%d translate_ms=%d",
			item.Title, fetchDuration.Milliseconds(), translateDuration.Milliseconds())
		return &RunResult{Status: StatusDryRun, Item: item, Message: message}, nil
	}

	notifyStart := time.Now()
	if err := m.notifier.Notify(ctx, message); err != nil {
		return nil, &StageError{Stage: StageNotify, Err: err}
	}
	notifyDuration := time.Since(notifyStart)

	if err := m.state.Save(ctx, model.RecordOf(item)); err != nil {
		return nil, &StageError{Stage: StagePersist, Err: err}
	}

	logger.Printf("🎉 Notification sent and state persisted title=%q total_ms=%d fetch_ms=%d translate_ms=%d notify_ms=%d",
		item.Title, time.Since(startTime).Milliseconds(), fetchDuration.Milliseconds(),
		translateDuration.Milliseconds(), notifyDuration.Milliseconds())

	return &RunResult{Status: StatusNotified, Item: item, Message: message}, nil
}
