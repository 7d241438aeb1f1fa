// README: GeneratedPlan, the parsed and enriched model output.
package planner

import "strings"

type GeneratedPlan struct {
	Title          string              `json:"title"`
	Destination    string              `json:"destination"`
	Image          string              `json:"image"`
	Travelers      Number              `json:"travelers,omitempty"`
	Itinerary      []PlanDay           `json:"itinerary"`
	Accommodation  []PlanAccommodation `json:"accommodation"`
	Transportation PlanTransportation  `json:"transportation"`
	TotalCost      PlanCost            `json:"totalCost"`
}

type PlanDay struct {
	Day     Number      `json:"day"`
	Date    Text        `json:"date"`
	Events  []PlanEvent `json:"events"`
	Weather PlanWeather `json:"weather"`
}

const (
	EventActivity      = "activity"
	EventTransport     = "transport"
	EventFood          = "food"
	EventAccommodation = "accommodation"
)

type PlanEvent struct {
	Time        Text        `json:"time"`
	Title       Text        `json:"title"`
	Description Text        `json:"description"`
	Type        Text        `json:"type"`
	Location    Text        `json:"location,omitempty"`
	Cost        Number      `json:"cost"`
	Duration    Text        `json:"duration,omitempty"`
	Booking     PlanBooking `json:"booking"`
}

// Kind folds the event type onto the known set; anything unknown is an activity.
func (e PlanEvent) Kind() string {
	switch k := strings.ToLower(strings.TrimSpace(string(e.Type))); k {
	case EventTransport, EventFood, EventAccommodation:
		return k
	case "meal", "restaurant", "dining", "breakfast", "lunch", "dinner":
		return EventFood
	default:
		return EventActivity
	}
}

type PlanBooking struct {
	Required Flag `json:"required"`
	Details  Text `json:"details,omitempty"`
	URL      Text `json:"url,omitempty"`
}

type PlanWeather struct {
	Condition   Text `json:"condition"`
	Temperature Text `json:"temperature"`
	Humidity    Text `json:"humidity,omitempty"`
	Description Text `json:"description,omitempty"`
}

type PlanAccommodation struct {
	Name      Text           `json:"name"`
	Rating    Number         `json:"rating"`
	Price     Number         `json:"price"`
	Amenities TextList       `json:"amenities"`
	RoomTypes []PlanRoomType `json:"roomTypes"`
	Contact   PlanContact    `json:"contact"`
	Image     string         `json:"image"`
}

type PlanRoomType struct {
	Type  Text   `json:"type"`
	Price Number `json:"price"`
}

type PlanContact struct {
	Phone   Text `json:"phone,omitempty"`
	Email   Text `json:"email,omitempty"`
	Address Text `json:"address,omitempty"`
	Website Text `json:"website,omitempty"`
}

type PlanTransportation struct {
	Type     Text     `json:"type"`
	Outbound PlanLeg  `json:"outbound"`
	Return   PlanLeg  `json:"return"`
	Local    TextList `json:"local"`
}

type PlanLeg struct {
	From      Text   `json:"from"`
	To        Text   `json:"to"`
	Departure Text   `json:"departure,omitempty"`
	Arrival   Text   `json:"arrival,omitempty"`
	Provider  Text   `json:"provider,omitempty"`
	Cost      Number `json:"cost"`
}

// Route renders the leg as "from → to", or whichever end is known.
func (l PlanLeg) Route() string {
	from, to := strings.TrimSpace(string(l.From)), strings.TrimSpace(string(l.To))
	switch {
	case from != "" && to != "":
		return from + " → " + to
	case from != "":
		return from
	default:
		return to
	}
}

type PlanCost struct {
	Accommodation  Number `json:"accommodation"`
	Transportation Number `json:"transportation"`
	Activities     Number `json:"activities"`
	Food           Number `json:"food"`
	Miscellaneous  Number `json:"miscellaneous"`
	Total          Number `json:"total"`
	Currency       Text   `json:"currency"`
}
