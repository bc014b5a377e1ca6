package domain

import "time"

// 备注在希望文本中的分隔符，生成 prompt 和统计出差天数时会用到
const PreferenceNoteSeparator = " / 備考: "

type Preference struct {
	ID        int64     `json:"id"`
	Month     string    `json:"month"`
	Staff     string    `json:"staff"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
