package cfg

type Cfg struct {
	// Feed configuration
	FeedURL             string
	FeedRefreshInterval int
	FetchTimeout        int
	MaxEventDuration    int

	// Database configuration
	DBPath string

	// Watcher configuration
	TickInterval        int
	ResetCooldown       int
	DeleteRemovedEvents bool

	// Monster reset configuration
	ResetMonstersEnable   bool
	ResetMonstersTruncate bool
	RestartDevicesEnable  bool

	// Quest reset configuration
	ResetQuestsEnable bool
	ResetQuestsFor    string
	QuestRescanStart  string
	QuestRescanEnd    string

	// Collaborator endpoints
	ScannerURL string
	WebhookURL string
	BotToken   string
	BotChatID  string

	// Notification templates
	TemplatesPath string

	// HTTP server configuration
	Port         string
	APIAccessKey string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
