package channels

import (
	"context"
	"fmt"

	"github.com/yungbote/studyhall-backend/internal/clients/sendgrid"
	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/repos"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type EmailSender struct {
	log      *logger.Logger
	client   sendgrid.Client
	userRepo repos.UserRepo
}

func NewEmailSender(baseLog *logger.Logger, client sendgrid.Client, userRepo repos.UserRepo) *EmailSender {
	return &EmailSender{
		log:      baseLog.With("channel", "email"),
		client:   client,
		userRepo: userRepo,
	}
}

func (s *EmailSender) Channel() types.DeliveryChannel { return types.ChannelEmail }

func (s *EmailSender) Send(ctx context.Context, item *types.NotificationQueueItem) error {
	if s.client == nil {
		// Process started without sendgrid configured.
		return ErrNothingToDo
	}
	user, err := s.userRepo.GetByID(ctx, nil, item.UserID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if user.Email == "" {
		return ErrNothingToDo
	}

	_, err = s.client.Send(ctx, sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: user.Email, Name: user.DisplayName}},
		Subject: item.Title,
		Text:    item.Body,
	})
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	return nil
}
