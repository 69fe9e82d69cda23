package events

// Raw is one element of the remote feed's JSON array, as delivered.
type Raw struct {
	Name           string     `json:"name"`
	Type           *string    `json:"type"`
	Start          *string    `json:"start"`
	End            *string    `json:"end"`
	HasSpawnpoints bool       `json:"has_spawnpoints"`
	HasQuests      bool       `json:"has_quests"`
	Spawns         bool       `json:"spawns"`
	Bonuses        []RawBonus `json:"bonuses"`
}

// RawBonus is a bonus entry attached to a raw event. Value is in hours for
// the lure duration template and may be absent.
type RawBonus struct {
	Template string   `json:"template"`
	Value    *float64 `json:"value"`
}
