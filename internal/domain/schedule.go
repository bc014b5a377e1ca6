package domain

import "time"

type ScheduleStatus string

const (
	ScheduleStatusDraft ScheduleStatus = "draft"
	ScheduleStatusFinal ScheduleStatus = "final"
)

type Schedule struct {
	ID        int64          `json:"id"`
	Month     string         `json:"month"`
	Status    ScheduleStatus `json:"status"`
	Table     string         `json:"table"`
	Tally     string         `json:"tally"`
	ChangeLog string         `json:"changeLog"`
	CreatedAt time.Time      `json:"createdAt"`
	Version   int32          `json:"version"`
}
