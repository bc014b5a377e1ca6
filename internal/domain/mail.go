package domain

const MailTypeSchedulePublished = "schedule_published"

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type SchedulePublishedMailData struct {
	AppName   string `json:"appName"`
	Month     string `json:"month"`
	ViewURL   string `json:"viewURL"`
	ChangeLog string `json:"changeLog"`
}
