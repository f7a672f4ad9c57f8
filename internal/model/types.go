// Package model defines shared data structures.
package model

import "time"

// Config defines monkey session settings.
type Config struct {
	Lang           string
	TypingInterval time.Duration
	Duration       time.Duration
	TieBreak       string
	Seed           int64
	CharsPerLine   int
	LinesPerPage   int
	Stars          bool
	Repo           string
}

// HistoryConfig defines filters for session history output.
type HistoryConfig struct {
	Lang  string
	Since *time.Time
	Last  int
}

// SessionRecord captures a finished monkey run.
type SessionRecord struct {
	StartedAt   time.Time
	EndedAt     time.Time
	Lang        string
	Chars       int
	TargetMs    int64
	ElapsedMs   int64
	LeadingWord string
	Words       []FoundWord
}

// FoundWord is a collected word and the span where it was first detected.
type FoundWord struct {
	Word  string
	Start int
	End   int
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID   int64
	EndedAt     time.Time
	Chars       int
	Words       int
	ElapsedMs   int64
	LeadingWord string
}

// WordAggregate counts how many sessions discovered a word.
type WordAggregate struct {
	Word     string
	Sessions int
}

// User is a local account.
type User struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// Profile holds the public details of a user.
type Profile struct {
	ID        string
	Nickname  string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}
