package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Feed configuration
	FeedURL             string `long:"feed-url" env:"FEED_URL" default:"https://raw.githubusercontent.com/ccev/pogoinfo/v2/active/events.json" description:"Remote event feed URL"`
	FeedRefreshInterval int    `long:"feed-refresh-interval" env:"FEED_REFRESH_INTERVAL" default:"3600" description:"Feed refresh interval in seconds"`
	FetchTimeout        int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"HTTP timeout for feed and notification calls in seconds"`
	MaxEventDuration    int    `long:"max-event-duration" env:"MAX_EVENT_DURATION" default:"999" description:"Ignore events longer than this many days"`

	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./eventwatch.db" description:"Path to the SQLite database file"`

	// Watcher configuration
	TickInterval        int  `long:"tick-interval" env:"TICK_INTERVAL" default:"60" description:"Boundary check interval in seconds"`
	ResetCooldown       int  `long:"reset-cooldown" env:"RESET_COOLDOWN" default:"1800" description:"Minimum seconds between two resets of the same kind"`
	DeleteRemovedEvents bool `long:"delete-removed-events" env:"DELETE_REMOVED_EVENTS" description:"Delete persisted event records not managed by the watcher"`

	// Monster reset configuration
	ResetMonstersEnable   bool `long:"reset-monsters" env:"RESET_MONSTERS_ENABLE" description:"Reset monster sightings on monster pool boundaries"`
	ResetMonstersTruncate bool `long:"reset-monsters-truncate" env:"RESET_MONSTERS_TRUNCATE" description:"Truncate all sightings instead of deleting stale ones"`
	RestartDevicesEnable  bool `long:"restart-devices" env:"RESTART_DEVICES_ENABLE" description:"Restart scanning devices after a monster reset"`

	// Quest reset configuration
	ResetQuestsEnable bool   `long:"reset-quests" env:"RESET_QUESTS_ENABLE" description:"Reset quests on quest boundaries"`
	ResetQuestsFor    string `long:"reset-quests-for" env:"RESET_QUESTS_FOR" default:"event" description:"Space-separated event types to react to, each optionally suffixed with :start or :end"`
	QuestRescanStart  string `long:"quest-rescan-start" env:"QUEST_RESCAN_START" default:"06:00" description:"Start of the daily quest rescan window (HH:MM)"`
	QuestRescanEnd    string `long:"quest-rescan-end" env:"QUEST_RESCAN_END" default:"10:00" description:"End of the daily quest rescan window (HH:MM)"`

	// Collaborator endpoints
	ScannerURL string `long:"scanner-url" env:"SCANNER_URL" description:"Base URL of the scanner controller API (device restarts, mapping refresh)"`
	WebhookURL string `long:"webhook-url" env:"WEBHOOK_URL" description:"Webhook URL for quest boundary notifications (optional)"`
	BotToken   string `long:"bot-token" env:"BOT_TOKEN" description:"Bot token for quest boundary notifications (optional)"`
	BotChatID  string `long:"bot-chat-id" env:"BOT_CHAT_ID" description:"Chat ID for bot notifications (optional)"`

	// Notification templates
	TemplatesPath string `long:"templates-path" env:"TEMPLATES_PATH" default:"./notify.yml" description:"Path to the notification templates YAML file"`

	// HTTP server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"EventWatch/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" description:"Timezone override for feed timestamps (e.g., Europe/Berlin); system default when empty"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		FeedURL:               raw.FeedURL,
		FeedRefreshInterval:   raw.FeedRefreshInterval,
		FetchTimeout:          raw.FetchTimeout,
		MaxEventDuration:      raw.MaxEventDuration,
		DBPath:                raw.DBPath,
		TickInterval:          raw.TickInterval,
		ResetCooldown:         raw.ResetCooldown,
		DeleteRemovedEvents:   raw.DeleteRemovedEvents,
		ResetMonstersEnable:   raw.ResetMonstersEnable,
		ResetMonstersTruncate: raw.ResetMonstersTruncate,
		RestartDevicesEnable:  raw.RestartDevicesEnable,
		ResetQuestsEnable:     raw.ResetQuestsEnable,
		ResetQuestsFor:        raw.ResetQuestsFor,
		QuestRescanStart:      raw.QuestRescanStart,
		QuestRescanEnd:        raw.QuestRescanEnd,
		ScannerURL:            raw.ScannerURL,
		WebhookURL:            raw.WebhookURL,
		BotToken:              raw.BotToken,
		BotChatID:             raw.BotChatID,
		TemplatesPath:         raw.TemplatesPath,
		Port:                  raw.Port,
		APIAccessKey:          raw.APIAccessKey,
		UserAgent:             raw.UserAgent,
		Timezone:              raw.Timezone,
		Debug:                 raw.Debug,
		Version:               GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
