package domain

import "time"

type Travel struct {
	Month     string    `json:"month"`
	Staff     string    `json:"staff"`
	Days      *int32    `json:"days"`  // 为空表示未填写
	Dates     *string   `json:"dates"` // 为空表示未填写
	CreatedAt time.Time `json:"createdAt"`
}
