package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/tokendrop/wallet-backend/internal/apperrors"
	"github.com/tokendrop/wallet-backend/internal/cache"
	"github.com/tokendrop/wallet-backend/internal/config"
	"github.com/tokendrop/wallet-backend/internal/events"
	"github.com/tokendrop/wallet-backend/internal/models"
	"github.com/tokendrop/wallet-backend/internal/repositories"
	"go.uber.org/zap"
)

// RegistryService is the identity registry: get-or-create by telegram id,
// referral linking, bot suspicion and the new-user monitoring buffer.
type RegistryService struct {
	users     UserRepository
	buffer    NewUserPusher
	publisher events.Publisher
	cfg       *config.Config
	log       *zap.Logger
}

func NewRegistryService(
	users UserRepository,
	buffer NewUserPusher,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *RegistryService {
	return &RegistryService{users: users, buffer: buffer, publisher: publisher, cfg: cfg, log: log}
}

type RegisterInput struct {
	TelegramID int64
	UsernameTG *string
	FirstName  *string
	LastName   *string

	// At most one referrer reference: the registration API carries the
	// internal id, the mini-app start_param carries the telegram id.
	ReferredByInternalID *uuid.UUID
	ReferredByTelegramID *int64
}

type RegisterResult struct {
	User    *models.User
	Created bool
	// Telegram id of the referrer, absent when there is none or when the
	// referral payout signal is suppressed for a suspected bot.
	ReferrerTelegramID *int64
}

func (s *RegistryService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if in.TelegramID == 0 {
		return nil, apperrors.RequiredError("telegram_id")
	}

	// Unknown referrer is not an error, just no referrer.
	referrer := s.resolveReferrer(ctx, in)

	var referredByID *uuid.UUID
	if referrer != nil {
		referredByID = &referrer.ID
	}

	user, created, err := s.users.GetOrCreate(ctx, repositories.GetOrCreateParams{
		TelegramID:           in.TelegramID,
		UsernameTG:           in.UsernameTG,
		FirstName:            in.FirstName,
		LastName:             in.LastName,
		ReferredByID:         referredByID,
		BotReferralThreshold: s.cfg.BotReferralThreshold,
	})
	if err != nil {
		return nil, err
	}

	result := &RegisterResult{User: user, Created: created}

	if created {
		// Suppress the referral payout signal for suspected bot chains so
		// downstream reward logic does not pay a bonus for them.
		if referrer != nil && !user.IsBotSuspected {
			tid := referrer.TelegramUserID
			result.ReferrerTelegramID = &tid
		}

		if err := s.buffer.Push(ctx, cache.NewUserEntry{
			TelegramUserID: user.TelegramUserID,
			UsernameTG:     user.UsernameTG,
			FirstName:      user.FirstName,
		}); err != nil {
			s.log.Warn("failed to push new-user buffer entry", zap.Error(err))
		}

		_ = s.publisher.Publish(ctx, events.StreamLedger, events.Event{
			Type: events.EventUserRegistered,
			Payload: map[string]any{
				"telegram_user_id": user.TelegramUserID,
				"bot_suspected":    user.IsBotSuspected,
			},
		})

		s.log.Info("user registered",
			zap.Int64("telegram_user_id", user.TelegramUserID),
			zap.Bool("bot_suspected", user.IsBotSuspected),
		)
	}

	return result, nil
}

func (s *RegistryService) resolveReferrer(ctx context.Context, in RegisterInput) *models.User {
	switch {
	case in.ReferredByInternalID != nil:
		u, err := s.users.GetByID(ctx, *in.ReferredByInternalID)
		if err != nil {
			return nil
		}
		return u
	case in.ReferredByTelegramID != nil:
		u, err := s.users.GetByTelegramID(ctx, *in.ReferredByTelegramID)
		if err != nil {
			return nil
		}
		return u
	default:
		return nil
	}
}
