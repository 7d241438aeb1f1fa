// README: Converts an enriched GeneratedPlan into the persisted trip document.
package planner

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"voyager/internal/modules/trip"
	"voyager/internal/types"
)

// Normalize builds a planned trip for userID. req is expected to have had
// WithDefaults applied. Cost figures are copied as the model reported them,
// except that a zero total is replaced by the sum of its parts.
func Normalize(plan *GeneratedPlan, userID string, req TripRequest, now time.Time) *trip.Trip {
	now = now.UTC()
	t := &trip.Trip{
		ID:            uuid.NewString(),
		UserID:        userID,
		Title:         strings.TrimSpace(plan.Title),
		Destination:   req.Destination,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		NumberOfDays:  req.NumberOfDays,
		Travelers:     req.TravelerCount,
		Budget:        req.Budget,
		TransportMode: req.TransportMode,
		Status:        trip.StatusPlanned,
		Image:         plan.Image,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if t.Title == "" {
		t.Title = "Trip to " + req.Destination
	}
	if req.Preferences != nil {
		t.Preferences = *req.Preferences
	}

	t.Itinerary = make([]trip.DaySummary, 0, len(plan.Itinerary))
	for i, d := range plan.Itinerary {
		day := d.Day.Int()
		if day < 1 {
			day = i + 1
		}
		summary := trip.DaySummary{
			Day:        day,
			Date:       d.Date.String(),
			Activities: []string{},
			Weather: trip.Weather{
				Condition:   d.Weather.Condition.String(),
				Temperature: d.Weather.Temperature.String(),
				Humidity:    d.Weather.Humidity.String(),
				Description: d.Weather.Description.String(),
			},
		}
		for _, ev := range d.Events {
			if ev.Kind() == EventFood {
				t.FoodRecommendations = append(t.FoodRecommendations, trip.FoodRecommendation{
					Day:         day,
					Time:        ev.Time.String(),
					Name:        ev.Title.String(),
					Description: ev.Description.String(),
					Location:    ev.Location.String(),
					Cost:        float64(ev.Cost),
				})
				continue
			}
			if title := ev.Title.String(); title != "" {
				summary.Activities = append(summary.Activities, title)
			}
		}
		t.Itinerary = append(t.Itinerary, summary)
	}
	if t.FoodRecommendations == nil {
		t.FoodRecommendations = []trip.FoodRecommendation{}
	}

	t.Accommodation = make([]trip.Accommodation, 0, len(plan.Accommodation))
	for _, a := range plan.Accommodation {
		rooms := make([]trip.RoomType, 0, len(a.RoomTypes))
		for _, r := range a.RoomTypes {
			rooms = append(rooms, trip.RoomType{Type: r.Type.String(), Price: float64(r.Price)})
		}
		amenities := []string(a.Amenities)
		if amenities == nil {
			amenities = []string{}
		}
		t.Accommodation = append(t.Accommodation, trip.Accommodation{
			Name:      a.Name.String(),
			Rating:    float64(a.Rating),
			Price:     float64(a.Price),
			Amenities: amenities,
			RoomTypes: rooms,
			Contact: trip.Contact{
				Phone:   a.Contact.Phone.String(),
				Email:   a.Contact.Email.String(),
				Address: a.Contact.Address.String(),
				Website: a.Contact.Website.String(),
			},
			Image: a.Image,
		})
	}

	mode := strings.ToLower(plan.Transportation.Type.String())
	if mode == "" {
		mode = string(req.TransportMode)
	}
	local := []string(plan.Transportation.Local)
	if local == nil {
		local = []string{}
	}
	t.Transportation = trip.Transportation{
		Mode:     mode,
		Outbound: plan.Transportation.Outbound.Route(),
		Return:   plan.Transportation.Return.Route(),
		Local:    local,
	}

	t.TotalCost = normalizeCost(plan.TotalCost, req.Budget.Currency)
	t.EnsureImages()
	return t
}

func normalizeCost(c PlanCost, currency string) trip.CostBreakdown {
	out := trip.CostBreakdown{
		Accommodation:  float64(c.Accommodation),
		Transportation: float64(c.Transportation),
		Activities:     float64(c.Activities),
		Food:           float64(c.Food),
		Miscellaneous:  float64(c.Miscellaneous),
		Total:          float64(c.Total),
		Currency:       types.NormalizeCurrency(c.Currency.String(), currency),
	}
	if out.Total == 0 {
		out.Total = out.Accommodation + out.Transportation + out.Activities + out.Food + out.Miscellaneous
	}
	return out
}
