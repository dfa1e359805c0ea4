package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/repos"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type pushPayload struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Icon     string `json:"icon,omitempty"`
	DeepLink string `json:"deep_link,omitempty"`
	Class    string `json:"class"`
}

// PushSender posts the notification payload to each of the owner's registered
// push endpoints. No active subscription is the normal "user never opted in"
// case and surfaces as ErrNothingToDo.
type PushSender struct {
	log        *logger.Logger
	subRepo    repos.SubscriptionRepo
	httpClient *http.Client
}

func NewPushSender(baseLog *logger.Logger, subRepo repos.SubscriptionRepo) *PushSender {
	return &PushSender{
		log:        baseLog.With("channel", "push"),
		subRepo:    subRepo,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *PushSender) Channel() types.DeliveryChannel { return types.ChannelPush }

func (s *PushSender) Send(ctx context.Context, item *types.NotificationQueueItem) error {
	subs, err := s.subRepo.ActiveByUserID(ctx, nil, item.UserID)
	if err != nil {
		return fmt.Errorf("load subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return ErrNothingToDo
	}

	raw, err := json.Marshal(pushPayload{
		Title:    item.Title,
		Body:     item.Body,
		Icon:     item.Icon,
		DeepLink: item.DeepLink,
		Class:    string(item.Class),
	})
	if err != nil {
		return err
	}

	var lastErr error
	delivered := 0
	for _, sub := range subs {
		if err := s.post(ctx, sub, raw); err != nil {
			lastErr = err
			s.log.Warn("Push endpoint rejected notification", "notification_id", item.ID, "subscription_id", sub.ID, "error", err)
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return fmt.Errorf("push: all %d endpoints failed: %w", len(subs), lastErr)
	}
	return nil
}

func (s *PushSender) post(ctx context.Context, sub *types.NotificationSubscription, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("TTL", "86400")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	// 404/410 mean the endpoint is gone; deactivate so we stop retrying it.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		if err := s.subRepo.Deactivate(ctx, nil, sub.ID); err != nil {
			s.log.Warn("Failed to deactivate dead push subscription", "subscription_id", sub.ID, "error", err)
		}
		return fmt.Errorf("push endpoint gone (status %d)", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push endpoint status %d", resp.StatusCode)
	}
	return nil
}
