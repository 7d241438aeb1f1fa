// README: Trip request value objects shared by the planner, trips and user preferences.
package types

import "strings"

type BudgetType string

const (
	BudgetPerPerson BudgetType = "per_person"
	BudgetTotal     BudgetType = "total"
)

type BudgetDuration string

const (
	BudgetEntireTrip BudgetDuration = "entire_trip"
	BudgetPerDay     BudgetDuration = "per_day"
)

type TransportMode string

const (
	TransportFlight TransportMode = "flight"
	TransportTrain  TransportMode = "train"
	TransportBus    TransportMode = "bus"
)

type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "low"
	ActivityModerate ActivityLevel = "moderate"
	ActivityHigh     ActivityLevel = "high"
)

func (t BudgetType) Valid() bool {
	return t == BudgetPerPerson || t == BudgetTotal
}

func (d BudgetDuration) Valid() bool {
	return d == BudgetEntireTrip || d == BudgetPerDay
}

func (m TransportMode) Valid() bool {
	switch m {
	case TransportFlight, TransportTrain, TransportBus:
		return true
	}
	return false
}

func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivityLow, ActivityModerate, ActivityHigh:
		return true
	}
	return false
}

// Budget is the traveller's spending limit for a trip.
type Budget struct {
	Money
	Type     BudgetType     `json:"type" firestore:"type"`
	Duration BudgetDuration `json:"duration" firestore:"duration"`
}

// Preferences are optional trip-shaping hints. The zero value means "no preference".
type Preferences struct {
	ActivityLevel       ActivityLevel `json:"activityLevel,omitempty" firestore:"activityLevel"`
	Interests           []string      `json:"interests,omitempty" firestore:"interests"`
	DietaryRestrictions []string      `json:"dietaryRestrictions,omitempty" firestore:"dietaryRestrictions"`
	AccommodationType   string        `json:"accommodationType,omitempty" firestore:"accommodationType"`
}

// IsZero reports whether no preference is set.
func (p Preferences) IsZero() bool {
	return p.ActivityLevel == "" && len(p.Interests) == 0 &&
		len(p.DietaryRestrictions) == 0 && p.AccommodationType == ""
}

// Clean trims entries, drops blanks and lower-cases the activity level.
func (p Preferences) Clean() Preferences {
	return Preferences{
		ActivityLevel:       ActivityLevel(strings.ToLower(strings.TrimSpace(string(p.ActivityLevel)))),
		Interests:           cleanList(p.Interests),
		DietaryRestrictions: cleanList(p.DietaryRestrictions),
		AccommodationType:   strings.TrimSpace(p.AccommodationType),
	}
}

func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
