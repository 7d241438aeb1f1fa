// README: Trip aggregate, lifecycle statuses and the stored document shape.
package trip

import (
	"time"

	"voyager/internal/types"
)

type Status string

const (
	StatusPlanned   Status = "planned"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

// NoImage marks an accommodation whose image lookups all came back empty.
const NoImage = "no image available"

// AllowedTransitions represents the trip lifecycle as code.
var AllowedTransitions = map[Status][]Status{
	StatusPlanned: {StatusOngoing},
	StatusOngoing: {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

type Trip struct {
	ID                  string               `json:"id" firestore:"-"`
	UserID              string               `json:"userId" firestore:"userId"`
	Title               string               `json:"title" firestore:"title"`
	Destination         string               `json:"destination" firestore:"destination"`
	StartDate           string               `json:"startDate,omitempty" firestore:"startDate"`
	EndDate             string               `json:"endDate,omitempty" firestore:"endDate"`
	NumberOfDays        int                  `json:"numberOfDays" firestore:"numberOfDays"`
	Travelers           int                  `json:"travelers" firestore:"travelers"`
	Budget              types.Budget         `json:"budget" firestore:"budget"`
	TransportMode       types.TransportMode  `json:"transportMode,omitempty" firestore:"transportMode"`
	Preferences         types.Preferences    `json:"preferences" firestore:"preferences"`
	Status              Status               `json:"status" firestore:"status"`
	Image               string               `json:"image" firestore:"image"`
	Itinerary           []DaySummary         `json:"itinerary" firestore:"itinerary"`
	Accommodation       []Accommodation      `json:"accommodation" firestore:"accommodation"`
	Transportation      Transportation       `json:"transportation" firestore:"transportation"`
	FoodRecommendations []FoodRecommendation `json:"foodRecommendations" firestore:"foodRecommendations"`
	TotalCost           CostBreakdown        `json:"totalCost" firestore:"totalCost"`
	Version             int                  `json:"version" firestore:"version"`
	CreatedAt           time.Time            `json:"createdAt" firestore:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt" firestore:"updatedAt"`
}

// DaySummary is one itinerary day reduced to its activity titles.
type DaySummary struct {
	Day        int      `json:"day" firestore:"day"`
	Date       string   `json:"date,omitempty" firestore:"date"`
	Activities []string `json:"activities" firestore:"activities"`
	Weather    Weather  `json:"weather" firestore:"weather"`
}

type Weather struct {
	Condition   string `json:"condition,omitempty" firestore:"condition"`
	Temperature string `json:"temperature,omitempty" firestore:"temperature"`
	Humidity    string `json:"humidity,omitempty" firestore:"humidity"`
	Description string `json:"description,omitempty" firestore:"description"`
}

type Accommodation struct {
	Name      string     `json:"name" firestore:"name"`
	Rating    float64    `json:"rating" firestore:"rating"`
	Price     float64    `json:"price" firestore:"price"`
	Amenities []string   `json:"amenities" firestore:"amenities"`
	RoomTypes []RoomType `json:"roomTypes" firestore:"roomTypes"`
	Contact   Contact    `json:"contact" firestore:"contact"`
	Image     string     `json:"image" firestore:"image"`
}

type RoomType struct {
	Type  string  `json:"type" firestore:"type"`
	Price float64 `json:"price" firestore:"price"`
}

type Contact struct {
	Phone   string `json:"phone,omitempty" firestore:"phone"`
	Email   string `json:"email,omitempty" firestore:"email"`
	Address string `json:"address,omitempty" firestore:"address"`
	Website string `json:"website,omitempty" firestore:"website"`
}

// Transportation keeps travel legs flattened to "from → to".
type Transportation struct {
	Mode     string   `json:"mode" firestore:"mode"`
	Outbound string   `json:"outbound" firestore:"outbound"`
	Return   string   `json:"return" firestore:"return"`
	Local    []string `json:"local" firestore:"local"`
}

type FoodRecommendation struct {
	Day         int     `json:"day" firestore:"day"`
	Time        string  `json:"time,omitempty" firestore:"time"`
	Name        string  `json:"name" firestore:"name"`
	Description string  `json:"description,omitempty" firestore:"description"`
	Location    string  `json:"location,omitempty" firestore:"location"`
	Cost        float64 `json:"cost" firestore:"cost"`
}

type CostBreakdown struct {
	Accommodation  float64 `json:"accommodation" firestore:"accommodation"`
	Transportation float64 `json:"transportation" firestore:"transportation"`
	Activities     float64 `json:"activities" firestore:"activities"`
	Food           float64 `json:"food" firestore:"food"`
	Miscellaneous  float64 `json:"miscellaneous" firestore:"miscellaneous"`
	Total          float64 `json:"total" firestore:"total"`
	Currency       string  `json:"currency" firestore:"currency"`
}

// Event records one lifecycle transition.
type Event struct {
	TripID     string    `json:"tripId" firestore:"tripId"`
	FromStatus Status    `json:"fromStatus" firestore:"fromStatus"`
	ToStatus   Status    `json:"toStatus" firestore:"toStatus"`
	ActorType  string    `json:"actorType" firestore:"actorType"`
	ActorID    string    `json:"actorId" firestore:"actorId"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
}

// EnsureImages replaces blank accommodation images with NoImage.
func (t *Trip) EnsureImages() {
	for i := range t.Accommodation {
		if t.Accommodation[i].Image == "" {
			t.Accommodation[i].Image = NoImage
		}
	}
}

// ListFilter narrows trip listings. Zero fields match everything.
type ListFilter struct {
	UserID string
	Status Status
	Limit  int
}
