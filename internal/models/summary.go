package models

import "time"

type DailySummary struct {
	User        string    `json:"user"`
	Date        DateKey   `json:"date"`
	SummaryText string    `json:"summary"`
	GeneratedAt time.Time `json:"generatedAt"`
}
