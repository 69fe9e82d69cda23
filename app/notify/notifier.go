package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/scannerd/eventwatch/app/events"
)

const botAPIBase = "https://api.telegram.org"

// ErrNotConfigured is returned when no transport has the parameters it
// needs. The caller disables notifications instead of failing startup.
var ErrNotConfigured = errors.New("no notification transport configured")

type webhookPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type botPayload struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Notifier sends quest boundary messages over the configured transports:
// a generic webhook POST and a bot message send. Both are fire-and-forget,
// response codes are logged but never acted upon.
type Notifier struct {
	httpClient *http.Client
	templates  Templates

	webhookURL string
	botAPI     string
	botToken   string
	botChatID  string

	rescanStart int
	rescanEnd   int
}

func NewNotifier(templates Templates, webhookURL, botToken, botChatID,
	rescanStart, rescanEnd string, timeout time.Duration) (*Notifier, error) {
	if botToken != "" && botChatID == "" || botToken == "" && botChatID != "" {
		slog.Error("Bot transport needs both token and chat id, disabling it")
		botToken, botChatID = "", ""
	}
	if webhookURL == "" && botToken == "" {
		return nil, ErrNotConfigured
	}

	startMinutes, err := parseClock(rescanStart)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rescan window start: %w", err)
	}
	endMinutes, err := parseClock(rescanEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rescan window end: %w", err)
	}

	return &Notifier{
		httpClient:  &http.Client{Timeout: timeout},
		templates:   templates,
		webhookURL:  webhookURL,
		botAPI:      botAPIBase,
		botToken:    botToken,
		botChatID:   botChatID,
		rescanStart: startMinutes,
		rescanEnd:   endMinutes,
	}, nil
}

// parseClock converts an "HH:MM" time of day to minutes since midnight.
func parseClock(value string) (int, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// QuestBoundary formats and sends the boundary message on every configured
// transport. Transport failures are collected, not short-circuited.
func (n *Notifier) QuestBoundary(ctx context.Context, ev events.Event, edge events.Edge) error {
	description := n.describe(ev, edge, time.Now())

	var errs []error
	if n.webhookURL != "" {
		if err := n.sendWebhook(ctx, description); err != nil {
			errs = append(errs, fmt.Errorf("webhook: %w", err))
		}
	}
	if n.botToken != "" {
		if err := n.sendBotMessage(ctx, description); err != nil {
			errs = append(errs, fmt.Errorf("bot: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (n *Notifier) describe(ev events.Event, edge events.Edge, now time.Time) string {
	body := n.templates.QuestEnd
	boundary := ev.End
	if edge == events.EdgeStart {
		body = n.templates.QuestStart
		if ev.Start != nil {
			boundary = *ev.Start
		}
	}

	replacer := strings.NewReplacer(
		"{event}", ev.Name,
		"{time}", boundary.Format("2006-01-02 15:04"),
		"{window_start}", fmt.Sprintf("%02d:%02d", n.rescanStart/60, n.rescanStart%60),
	)
	return replacer.Replace(body) + " " + replacer.Replace(n.rescanHint(now))
}

// rescanHint picks the message variant describing when quests get rescanned,
// comparing the current time of day against the configured rescan window.
func (n *Notifier) rescanHint(now time.Time) string {
	minutes := now.Hour()*60 + now.Minute()
	switch {
	case minutes < n.rescanStart:
		return n.templates.RescanBefore
	case minutes < n.rescanEnd:
		return n.templates.RescanWithin
	default:
		return n.templates.RescanAfter
	}
}

func (n *Notifier) sendWebhook(ctx context.Context, description string) error {
	payload := webhookPayload{Title: n.templates.Title, Description: description}
	status, err := n.post(ctx, n.webhookURL, payload)
	if err != nil {
		return err
	}

	slog.Info("Sent webhook notification", "status", status)
	return nil
}

func (n *Notifier) sendBotMessage(ctx context.Context, description string) error {
	payload := botPayload{ChatID: n.botChatID, Text: n.templates.Title + "\n" + description}
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.botAPI, n.botToken)

	status, err := n.post(ctx, url, payload)
	if err != nil {
		return err
	}

	slog.Info("Sent bot notification", "status", status)
	return nil
}

func (n *Notifier) post(ctx context.Context, url string, payload any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}
