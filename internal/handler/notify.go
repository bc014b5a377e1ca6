package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/och-dev/shiftkun/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// publishSchedulePublished 给每个收件人投递一条消息，由 mail 服务负责发送邮件
func (h *Handler) publishSchedulePublished(schedule *domain.Schedule) error {
	if h.mailChannel == nil || len(h.config.Email.Recipients) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	data := domain.SchedulePublishedMailData{
		AppName:   h.config.App.Name,
		Month:     schedule.Month,
		ViewURL:   h.viewURL(schedule.Month),
		ChangeLog: schedule.ChangeLog,
	}

	for _, to := range h.config.Email.Recipients {
		body, err := json.Marshal(domain.MailMessage{
			Type: domain.MailTypeSchedulePublished,
			To:   to,
			Data: data,
		})
		if err != nil {
			return err
		}

		if err := h.mailChannel.PublishWithContext(ctx,
			"",
			h.config.RabbitMQ.Queue,
			true,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
			},
		); err != nil {
			return fmt.Errorf("发送给 %s 的通知失败: %w", to, err)
		}
	}

	return nil
}

func (h *Handler) viewURL(month string) string {
	return strings.TrimRight(h.config.App.BaseURL, "/") + "/view?" + url.Values{"month": {month}}.Encode()
}
