package notify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Templates holds the message bodies used for quest boundary notifications.
// Placeholders {event}, {time} and {window_start} are substituted at send
// time.
type Templates struct {
	Title        string `yaml:"title"`
	QuestStart   string `yaml:"quest_start"`
	QuestEnd     string `yaml:"quest_end"`
	RescanBefore string `yaml:"rescan_before"`
	RescanWithin string `yaml:"rescan_within"`
	RescanAfter  string `yaml:"rescan_after"`
}

func defaultTemplates() Templates {
	return Templates{
		Title:        "Event Watcher",
		QuestStart:   "Quest changing event {event} started at {time}. All quests were removed.",
		QuestEnd:     "Quest changing event {event} ended at {time}. All quests were removed.",
		RescanBefore: "Quests will be rescanned today starting at {window_start}.",
		RescanWithin: "Quests are being rescanned right now.",
		RescanAfter:  "Quests will be rescanned tomorrow starting at {window_start}.",
	}
}

// LoadTemplates reads the YAML template file at path. An empty path or a
// missing file yields the built-in defaults; fields left empty in the file
// fall back to their defaults individually.
func LoadTemplates(path string) (Templates, error) {
	templates := defaultTemplates()
	if path == "" {
		return templates, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return templates, nil
		}
		return templates, fmt.Errorf("failed to read templates file: %w", err)
	}

	var loaded Templates
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return templates, fmt.Errorf("failed to parse templates file: %w", err)
	}

	templates.merge(loaded)
	return templates, nil
}

func (t *Templates) merge(loaded Templates) {
	if loaded.Title != "" {
		t.Title = loaded.Title
	}
	if loaded.QuestStart != "" {
		t.QuestStart = loaded.QuestStart
	}
	if loaded.QuestEnd != "" {
		t.QuestEnd = loaded.QuestEnd
	}
	if loaded.RescanBefore != "" {
		t.RescanBefore = loaded.RescanBefore
	}
	if loaded.RescanWithin != "" {
		t.RescanWithin = loaded.RescanWithin
	}
	if loaded.RescanAfter != "" {
		t.RescanAfter = loaded.RescanAfter
	}
}
