// README: Renders a validated TripRequest into the model prompt.
package planner

import (
	"fmt"
	"strconv"
	"strings"

	"voyager/internal/types"
)

// BuildPrompt is pure: the same request always yields the same prompt.
// Blank optional fields get their defaults before validation.
func BuildPrompt(req TripRequest) (string, error) {
	req = req.WithDefaults(types.DefaultCurrency)
	if err := req.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert travel planner. Create a detailed %d-day trip itinerary for %s.\n\n",
		req.NumberOfDays, req.Destination)

	b.WriteString("Trip details:\n")
	fmt.Fprintf(&b, "- Destination: %s\n", req.Destination)
	fmt.Fprintf(&b, "- Number of days: %d\n", req.NumberOfDays)
	if req.StartDate != "" {
		fmt.Fprintf(&b, "- Dates: %s to %s\n", req.StartDate, req.EndDate)
	}
	fmt.Fprintf(&b, "- Travelers: %d\n", req.TravelerCount)
	fmt.Fprintf(&b, "- Budget: %s %s (%s, %s)\n",
		formatAmount(req.Budget.Amount), req.Budget.Currency,
		budgetTypeLabel(req.Budget.Type), budgetDurationLabel(req.Budget.Duration))
	if req.TransportMode != "" {
		fmt.Fprintf(&b, "- Preferred transport to the destination: %s\n", req.TransportMode)
	} else {
		b.WriteString("- Preferred transport to the destination: choose the most practical of flight, train or bus\n")
	}

	if p := req.Preferences; p != nil && !p.IsZero() {
		b.WriteString("\nTraveler preferences:\n")
		if p.ActivityLevel != "" {
			fmt.Fprintf(&b, "- Activity level: %s\n", p.ActivityLevel)
		}
		if len(p.Interests) > 0 {
			fmt.Fprintf(&b, "- Interests: %s\n", strings.Join(p.Interests, ", "))
		}
		if len(p.DietaryRestrictions) > 0 {
			fmt.Fprintf(&b, "- Dietary restrictions: %s\n", strings.Join(p.DietaryRestrictions, ", "))
		}
		if p.AccommodationType != "" {
			fmt.Fprintf(&b, "- Accommodation type: %s\n", p.AccommodationType)
		}
	}

	fmt.Fprintf(&b, `
Rules:
- The itinerary must contain exactly %d day entries, numbered from 1.
- Every day needs breakfast, lunch and dinner as events of type "food".
- Suggest at least 3 accommodation options that fit the budget.
- All costs are plain numbers in %s, with no currency symbols or ranges.
- Keep the total cost within the budget.

Return the response STRICTLY as a single JSON object with no prose and no markdown, using this schema:
`, req.NumberOfDays, req.Budget.Currency)
	b.WriteString(responseSchema(req))
	return b.String(), nil
}

func responseSchema(req TripRequest) string {
	return fmt.Sprintf(`{
  "title": "string",
  "destination": %q,
  "itinerary": [
    {
      "day": 1,
      "date": "YYYY-MM-DD or empty",
      "events": [
        {
          "time": "HH:MM",
          "title": "string",
          "description": "string",
          "type": "activity" | "transport" | "food" | "accommodation",
          "location": "string",
          "cost": number,
          "duration": "string",
          "booking": {"required": boolean, "details": "string", "url": "string"}
        }
      ],
      "weather": {"condition": "string", "temperature": "string", "humidity": "string", "description": "string"}
    }
  ],
  "accommodation": [
    {
      "name": "string",
      "rating": number,
      "price": number,
      "amenities": ["string"],
      "roomTypes": [{"type": "string", "price": number}],
      "contact": {"phone": "string", "email": "string", "address": "string", "website": "string"}
    }
  ],
  "transportation": {
    "type": "flight" | "train" | "bus",
    "outbound": {"from": "string", "to": "string", "departure": "string", "arrival": "string", "provider": "string", "cost": number},
    "return": {"from": "string", "to": "string", "departure": "string", "arrival": "string", "provider": "string", "cost": number},
    "local": ["string"]
  },
  "totalCost": {
    "accommodation": number,
    "transportation": number,
    "activities": number,
    "food": number,
    "miscellaneous": number,
    "total": number,
    "currency": %q
  }
}
`, req.Destination, req.Budget.Currency)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func budgetTypeLabel(t types.BudgetType) string {
	if t == types.BudgetPerPerson {
		return "per_person, per traveler"
	}
	return "total, for the whole group"
}

func budgetDurationLabel(d types.BudgetDuration) string {
	if d == types.BudgetPerDay {
		return "per_day, each day"
	}
	return "entire_trip, for the whole trip"
}
