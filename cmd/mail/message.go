package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/och-dev/shiftkun/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// incomingMessage 与 domain.MailMessage 对应，Data 按类型再解析
type incomingMessage struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

// buildMessage 把队列中的消息转换成邮件
func buildMessage(from string, body []byte) (*mail.Msg, error) {
	in := incomingMessage{}
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, fmt.Errorf("邮件信息反序列化失败: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := m.To(in.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}

	switch in.Type {
	case domain.MailTypeSchedulePublished:
		data := domain.SchedulePublishedMailData{}
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, fmt.Errorf("邮件数据反序列化失败: %w", err)
		}
		if err := m.SetBodyHTMLTemplate(templates.Lookup("schedule_published_email.html"), data); err != nil {
			return nil, fmt.Errorf("无法设置邮件正文: %w", err)
		}
		m.Subject(fmt.Sprintf("%s - %sの勤務表が確定しました", data.AppName, data.Month))
	default:
		return nil, fmt.Errorf("不支持的邮件类型: %s", in.Type)
	}

	return m, nil
}
