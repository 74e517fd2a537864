package models

import (
	"gorm.io/gorm"
)

// Subscriber is one chat endpoint with its notification preferences.
// Created on first interaction; never deleted.
type Subscriber struct {
	gorm.Model
	ChatID              string `gorm:"uniqueIndex"`
	Username            string
	MorningEnabled      bool `gorm:"default:true"`
	MorningHour         int  `gorm:"default:9"`
	ReminderLeadMinutes int  `gorm:"default:30"`
	GoalEnabled         bool `gorm:"default:true"`
	LineupEnabled       bool `gorm:"default:true"`
}

type Subscribers []Subscriber
