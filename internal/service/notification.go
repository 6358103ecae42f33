package service

import (
	"context"
	"sync"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
)

type notificationDispatcher struct {
	senders map[domain.NotificationChannel]Sender
}

// NewNotificationDispatcher wires the channel senders into a dispatcher.
// A nil sender disables its channel.
func NewNotificationDispatcher(senders ...Sender) NotificationDispatcher {
	m := make(map[domain.NotificationChannel]Sender)
	for _, s := range senders {
		if s != nil {
			m[s.Channel()] = s
		}
	}
	return &notificationDispatcher{senders: m}
}

type dispatchTarget struct {
	channel     domain.NotificationChannel
	destination string
}

// Dispatch sends the rendered template on every channel in the booking's
// notification preference that has usable contact info. When no preferred
// channel is usable it falls back to whichever channel has contact info,
// phone first. Sends run concurrently and are all awaited; failures are
// logged and swallowed, never rolled back into the transition.
func (d *notificationDispatcher) Dispatch(ctx context.Context, b *domain.Booking, templateKey string, vars map[string]string) DispatchSummary {
	tpl, ok := notificationTemplates[templateKey]
	if !ok {
		logger.Error("Unknown notification template", "template", templateKey, "booking_id", b.ID)
		return DispatchSummary{}
	}
	subject, body := renderTemplate(tpl, vars)

	targets := d.resolveTargets(b)
	if len(targets) == 0 {
		logger.Warn("No usable notification channel for booking", "booking_id", b.ID)
		return DispatchSummary{}
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		summary DispatchSummary
	)
	for _, t := range targets {
		wg.Add(1)
		go func(t dispatchTarget) {
			defer wg.Done()
			err := d.senders[t.channel].Send(ctx, t.destination, subject, body)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("Notification send failed",
					"booking_id", b.ID, "channel", t.channel, "template", templateKey, "error", err)
				summary.Failed = append(summary.Failed, t.channel)
				return
			}
			summary.Sent = append(summary.Sent, t.channel)
		}(t)
	}
	wg.Wait()
	return summary
}

func (d *notificationDispatcher) resolveTargets(b *domain.Booking) []dispatchTarget {
	var targets []dispatchTarget
	for _, ch := range b.NotificationPreference {
		switch {
		case ch == domain.ChannelSMS && b.Customer.Phone != "" && d.senders[domain.ChannelSMS] != nil:
			targets = append(targets, dispatchTarget{domain.ChannelSMS, b.Customer.Phone})
		case ch == domain.ChannelEmail && b.Customer.Email != "" && d.senders[domain.ChannelEmail] != nil:
			targets = append(targets, dispatchTarget{domain.ChannelEmail, b.Customer.Email})
		}
	}
	if len(targets) > 0 {
		return targets
	}

	// Fallback: no preference, or preferred channels lack contact info.
	// Phone wins over email.
	if b.Customer.Phone != "" && d.senders[domain.ChannelSMS] != nil {
		return []dispatchTarget{{domain.ChannelSMS, b.Customer.Phone}}
	}
	if b.Customer.Email != "" && d.senders[domain.ChannelEmail] != nil {
		return []dispatchTarget{{domain.ChannelEmail, b.Customer.Email}}
	}
	return nil
}
