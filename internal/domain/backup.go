package domain

import "time"

const BackupFormatVersion = 1

type ConfigEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type BackupData struct {
	Preferences      []Preference      `json:"preferences"`
	Schedules        []Schedule        `json:"schedules"`
	Travel           []Travel          `json:"travel"`
	Config           []ConfigEntry     `json:"config"`
	RuleSetRevisions []RuleSetRevision `json:"ruleSetRevisions"`
}

type Backup struct {
	Version    int        `json:"version"`
	ExportedAt time.Time  `json:"exportedAt"`
	Data       BackupData `json:"data"`
}
