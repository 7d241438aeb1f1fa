// README: TripRequest input, alias-tolerant decoding, defaults and validation.
package planner

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"voyager/internal/types"
)

const (
	dateLayout = "2006-01-02"
	// MaxDays bounds the itinerary length a single request may ask for.
	MaxDays = 30
)

type TripRequest struct {
	Destination   string              `json:"destination"`
	NumberOfDays  int                 `json:"numberOfDays"`
	TravelerCount int                 `json:"travelerCount"`
	Budget        types.Budget        `json:"budget"`
	TransportMode types.TransportMode `json:"transportMode,omitempty"`
	StartDate     string              `json:"startDate,omitempty"`
	EndDate       string              `json:"endDate,omitempty"`
	Preferences   *types.Preferences  `json:"preferences,omitempty"`
}

type requestWire struct {
	Destination        string  `json:"destination"`
	NumberOfDays       *Number `json:"numberOfDays"`
	Days               *Number `json:"days"`
	TravelerCount      *Number `json:"travelerCount"`
	Travelers          *Number `json:"travelers"`
	TransportMode      string  `json:"transportMode"`
	TransportationType string  `json:"transportationType"`
	StartDate          string  `json:"startDate"`
	EndDate            string  `json:"endDate"`
	Budget             struct {
		Amount   Number `json:"amount"`
		Type     string `json:"type"`
		Duration string `json:"duration"`
		Currency string `json:"currency"`
	} `json:"budget"`
	Preferences *types.Preferences `json:"preferences"`
}

// UnmarshalJSON accepts both the canonical field names and the short
// aliases days, travelers and transportationType.
func (r *TripRequest) UnmarshalJSON(b []byte) error {
	var w requestWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = TripRequest{
		Destination:   w.Destination,
		NumberOfDays:  firstNumber(w.NumberOfDays, w.Days),
		TravelerCount: firstNumber(w.TravelerCount, w.Travelers),
		TransportMode: types.TransportMode(firstString(w.TransportMode, w.TransportationType)),
		StartDate:     w.StartDate,
		EndDate:       w.EndDate,
		Budget: types.Budget{
			Money:    types.Money{Amount: float64(w.Budget.Amount), Currency: w.Budget.Currency},
			Type:     types.BudgetType(w.Budget.Type),
			Duration: types.BudgetDuration(w.Budget.Duration),
		},
		Preferences: w.Preferences,
	}
	return nil
}

func firstNumber(vals ...*Number) int {
	for _, v := range vals {
		if v != nil {
			return v.Int()
		}
	}
	return 0
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// WithDefaults returns a copy with blanks filled in and enums folded to lower case.
// It never fails; Validate reports what is still wrong.
func (r TripRequest) WithDefaults(currency string) TripRequest {
	r.Destination = strings.TrimSpace(r.Destination)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
	if r.TravelerCount == 0 {
		r.TravelerCount = 1
	}
	r.Budget.Currency = types.NormalizeCurrency(r.Budget.Currency, currency)
	r.Budget.Type = types.BudgetType(strings.ToLower(strings.TrimSpace(string(r.Budget.Type))))
	if r.Budget.Type == "" {
		r.Budget.Type = types.BudgetTotal
	}
	r.Budget.Duration = types.BudgetDuration(strings.ToLower(strings.TrimSpace(string(r.Budget.Duration))))
	if r.Budget.Duration == "" {
		r.Budget.Duration = types.BudgetEntireTrip
	}
	r.TransportMode = types.TransportMode(strings.ToLower(strings.TrimSpace(string(r.TransportMode))))
	if r.NumberOfDays == 0 {
		if n, ok := daySpan(r.StartDate, r.EndDate); ok {
			r.NumberOfDays = n
		}
	}
	if r.Preferences != nil {
		p := r.Preferences.Clean()
		r.Preferences = &p
	}
	return r
}

// Validate reports every problem at once, wrapped in ErrInvalidRequest.
func (r TripRequest) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(r.Destination) == "" {
		add("destination is required")
	}

	hasDates := r.StartDate != "" || r.EndDate != ""
	switch {
	case hasDates && (r.StartDate == "" || r.EndDate == ""):
		add("startDate and endDate must be given together")
	case hasDates:
		span, ok := daySpan(r.StartDate, r.EndDate)
		if !ok {
			add("dates must be YYYY-MM-DD with endDate on or after startDate")
		} else if r.NumberOfDays != 0 && r.NumberOfDays != span {
			add("numberOfDays %d does not match the %d days between startDate and endDate", r.NumberOfDays, span)
		}
	}
	switch {
	case r.NumberOfDays < 1 && !hasDates:
		add("either dates or numberOfDays is required")
	case r.NumberOfDays < 0:
		add("numberOfDays must be positive")
	case r.NumberOfDays > MaxDays:
		add("numberOfDays must be at most %d", MaxDays)
	}

	if r.TravelerCount < 1 {
		add("travelerCount must be at least 1")
	}
	if r.Budget.Amount <= 0 {
		add("budget amount must be positive")
	}
	if !r.Budget.Type.Valid() {
		add("budget type must be per_person or total")
	}
	if !r.Budget.Duration.Valid() {
		add("budget duration must be entire_trip or per_day")
	}
	if r.TransportMode != "" && !r.TransportMode.Valid() {
		add("transportMode must be flight, train or bus")
	}
	if r.Preferences != nil && r.Preferences.ActivityLevel != "" && !r.Preferences.ActivityLevel.Valid() {
		add("activityLevel must be low, moderate or high")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(problems, "; "))
	}
	return nil
}

// daySpan counts calendar days from start to end inclusive.
func daySpan(start, end string) (int, bool) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return 0, false
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return 0, false
	}
	if e.Before(s) {
		return 0, false
	}
	return int(e.Sub(s).Hours()/24) + 1, true
}
