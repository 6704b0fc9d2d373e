package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitTitleEmpty   = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong = errors.New("habit title is too long (max 100 chars)")
	ErrHabitDescTooLong  = errors.New("habit description is too long (max 500 chars)")
	ErrInvalidUserID     = errors.New("invalid user id")
	ErrInvalidColor      = errors.New("invalid color format (must be #RRGGBB)")
	ErrInvalidFrequency  = errors.New("invalid frequency (must be DAILY, WEEKLY, MONTHLY or YEARLY)")
	ErrInvalidAnchor     = errors.New("anchor date-time is required")
	ErrInvalidHabitID    = errors.New("habit id must be a UUID")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	DefaultIcon = "default_icon"
	MaxTitleLen = 100
	MaxDescLen  = 500
)

// Frequency is the length of a habit cycle.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	default:
		return false
	}
}

// ParseFrequency accepts any letter case and surrounding spaces.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToUpper(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", ErrInvalidFrequency
	}
	return f, nil
}

// HabitOccurrence is the immutable input of the occurrence calculator.
type HabitOccurrence struct {
	Frequency     Frequency
	Anchor        time.Time
	LastCompleted *time.Time
}

type Habit struct {
	ID              string     `json:"id" db:"id"`
	UserID          string     `json:"user_id" db:"user_id"`
	Title           string     `json:"title" db:"title"`
	Description     string     `json:"description,omitempty" db:"description"`
	Color           string     `json:"color" db:"color"`
	Icon            string     `json:"icon" db:"icon"`
	SortOrder       int        `json:"sort_order" db:"sort_order"`
	Frequency       Frequency  `json:"frequency" db:"frequency"`
	AnchorAt        time.Time  `json:"anchor_at" db:"anchor_at"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty" db:"last_completed_at"`
	CurrentStreak   int        `json:"current_streak" db:"current_streak"`
	LongestStreak   int        `json:"longest_streak" db:"longest_streak"`
	Version         int        `json:"version" db:"version"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func validate(title, desc, color string, freq Frequency, anchor time.Time) error {
	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" {
		return ErrHabitTitleEmpty
	}
	if len(trimmedTitle) > MaxTitleLen {
		return ErrHabitTitleTooLong
	}

	if len(strings.TrimSpace(desc)) > MaxDescLen {
		return ErrHabitDescTooLong
	}

	if color != "" && !colorRegex.MatchString(color) {
		return ErrInvalidColor
	}

	if !freq.IsValid() {
		return ErrInvalidFrequency
	}

	if anchor.IsZero() {
		return ErrInvalidAnchor
	}

	return nil
}

func NewHabit(userID, title string, freq Frequency, anchor time.Time) (*Habit, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	if err := validate(title, "", "", freq, anchor); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Habit{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		Icon:      DefaultIcon,
		Frequency: freq,
		AnchorAt:  anchor,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (h *Habit) Update(title, description, color, icon string, freq Frequency, anchor time.Time) error {
	cleanDesc := strings.TrimSpace(description)

	if err := validate(title, cleanDesc, color, freq, anchor); err != nil {
		return err
	}

	if icon == "" {
		icon = DefaultIcon
	}

	h.Title = strings.TrimSpace(title)
	h.Description = cleanDesc
	h.Color = color
	h.Icon = icon
	h.Frequency = freq
	h.AnchorAt = anchor

	h.UpdatedAt = time.Now().UTC()

	return nil
}

func (h *Habit) ChangePosition(newOrder int) {
	h.SortOrder = newOrder
	h.UpdatedAt = time.Now().UTC()
}

// RecordCompletions stores the values derived from the habit's entries.
func (h *Habit) RecordCompletions(last *time.Time, current, longest int) {
	h.LastCompletedAt = last
	h.CurrentStreak = current
	h.LongestStreak = longest
	h.UpdatedAt = time.Now().UTC()
}

func (h *Habit) Occurrence() HabitOccurrence {
	return HabitOccurrence{
		Frequency:     h.Frequency,
		Anchor:        h.AnchorAt,
		LastCompleted: h.LastCompletedAt,
	}
}
