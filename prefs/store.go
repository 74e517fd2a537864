// Package prefs persists per-subscriber notification preferences.
package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/fiffu/matchday/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewStore(lc fx.Lifecycle, db *gorm.DB, log *zap.Logger) *Store {
	return &Store{db, log}
}

// GetOrCreate upserts a subscriber by chat id. An existing record has its
// username refreshed when it changed; a new record gets default preferences.
func (s *Store) GetOrCreate(ctx context.Context, chatID, username string) (*models.Subscriber, error) {
	var sub models.Subscriber
	tx := s.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&sub)

	switch err := tx.Error; {
	case err == nil:
		if username != "" && sub.Username != username {
			sub.Username = username
			if err := s.db.WithContext(ctx).Model(&sub).Update("username", username).Error; err != nil {
				return nil, err
			}
		}
		return &sub, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = models.Subscriber{
			ChatID:              chatID,
			Username:            username,
			MorningEnabled:      true,
			MorningHour:         9,
			ReminderLeadMinutes: 30,
			GoalEnabled:         true,
			LineupEnabled:       true,
		}
		if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
			return nil, err
		}
		s.log.Sugar().Infof("Created subscriber chat_id:%s", chatID)
		return &sub, nil

	default:
		return nil, err
	}
}

// Get returns the subscriber for chatID, or nil if none exists.
func (s *Store) Get(ctx context.Context, chatID string) (*models.Subscriber, error) {
	var sub models.Subscriber
	tx := s.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&sub)
	if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &sub, nil
}

func (s *Store) ListAll(ctx context.Context) (models.Subscribers, error) {
	var subs models.Subscribers
	tx := s.db.WithContext(ctx).Find(&subs)
	return subs, tx.Error
}

// SetMorningHour updates the digest hour. Returns false if no such subscriber.
func (s *Store) SetMorningHour(ctx context.Context, chatID string, hour int) (bool, error) {
	return s.updateColumn(ctx, chatID, "morning_hour", hour)
}

// SetReminderLead updates the reminder lead minutes (0 disables reminders).
// Pending reminder jobs are unaffected; the new lead applies to matches not
// yet scheduled.
func (s *Store) SetReminderLead(ctx context.Context, chatID string, minutes int) (bool, error) {
	return s.updateColumn(ctx, chatID, "reminder_lead_minutes", minutes)
}

func (s *Store) updateColumn(ctx context.Context, chatID, column string, value any) (bool, error) {
	tx := s.db.WithContext(ctx).
		Model(&models.Subscriber{}).
		Where("chat_id = ?", chatID).
		Update(column, value)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// Toggle flips a boolean setting ("morning", "goal" or "lineup") and returns
// the new value. ok is false when the subscriber does not exist; no write is
// attempted in that case.
func (s *Store) Toggle(ctx context.Context, chatID, setting string) (newValue, ok bool, err error) {
	column, current, err := s.currentBool(ctx, chatID, setting)
	if err != nil {
		return false, false, err
	}
	if column == "" {
		return false, false, nil
	}

	newValue = !current
	if _, err := s.updateColumn(ctx, chatID, column, newValue); err != nil {
		return false, false, err
	}
	return newValue, true, nil
}

func (s *Store) currentBool(ctx context.Context, chatID, setting string) (column string, value bool, err error) {
	sub, err := s.Get(ctx, chatID)
	if err != nil || sub == nil {
		return "", false, err
	}

	switch setting {
	case "morning":
		return "morning_enabled", sub.MorningEnabled, nil
	case "goal":
		return "goal_enabled", sub.GoalEnabled, nil
	case "lineup":
		return "lineup_enabled", sub.LineupEnabled, nil
	default:
		return "", false, fmt.Errorf("unknown setting: %s", setting)
	}
}

// ListByMorningHour returns subscribers with the morning digest enabled at
// the given hour.
func (s *Store) ListByMorningHour(ctx context.Context, hour int) (models.Subscribers, error) {
	var subs models.Subscribers
	tx := s.db.WithContext(ctx).
		Where("morning_enabled = ? AND morning_hour = ?", true, hour).
		Find(&subs)
	return subs, tx.Error
}

func (s *Store) ListByGoalEnabled(ctx context.Context) (models.Subscribers, error) {
	var subs models.Subscribers
	tx := s.db.WithContext(ctx).Where("goal_enabled = ?", true).Find(&subs)
	return subs, tx.Error
}

func (s *Store) ListByLineupEnabled(ctx context.Context) (models.Subscribers, error) {
	var subs models.Subscribers
	tx := s.db.WithContext(ctx).Where("lineup_enabled = ?", true).Find(&subs)
	return subs, tx.Error
}
