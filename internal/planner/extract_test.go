// README: Response extractor tests.
package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goaPlan = `{
  "title": "Sun, Sand and Spice in Goa",
  "destination": "Goa",
  "itinerary": [
    {
      "day": 1,
      "date": "2025-12-20",
      "events": [
        {"time": "09:00", "title": "Arrive at Madgaon", "description": "Train from Mumbai", "type": "transport", "cost": 0, "booking": {"required": false}},
        {"time": "13:00", "title": "Fish thali at Ritz Classic", "description": "Goan lunch {famous}", "type": "food", "location": "Panaji", "cost": "₹600"},
        {"time": "16:00", "title": "Calangute Beach", "description": "Sunset walk", "type": "activity", "cost": 0, "booking": {"required": "no"}}
      ],
      "weather": {"condition": "Sunny", "temperature": 31, "humidity": "60%"}
    },
    {
      "day": "2",
      "date": "2025-12-21",
      "events": [
        {"time": "10:00", "title": "Fort Aguada", "type": "activity", "cost": 100},
        {"time": "20:00", "title": "Dinner at Gunpowder", "type": "dinner", "cost": "1,200 INR"}
      ],
      "weather": {"condition": "Clear", "temperature": "30°C"}
    },
    {
      "day": 3,
      "date": "2025-12-22",
      "events": [
        {"time": "11:00", "title": "Spice plantation tour", "type": "sightseeing", "cost": 800, "booking": {"required": true, "url": "https://spices.example"}}
      ],
      "weather": {"condition": "Sunny", "temperature": "32"}
    }
  ],
  "accommodation": [
    {"name": "Taj Exotica", "rating": 4.8, "price": "₹12,500", "amenities": ["Pool", "Spa"], "roomTypes": [{"type": "Deluxe", "price": 12500}], "contact": {"phone": "+91 832 668 3333"}},
    {"name": "Palm Inn", "rating": "4.1", "price": 3500, "amenities": "Wifi, Breakfast", "roomTypes": []}
  ],
  "transportation": {
    "type": "train",
    "outbound": {"from": "Mumbai", "to": "Madgaon", "provider": "Konkan Kanya Express", "cost": 1500},
    "return": {"from": "Madgaon", "to": "Mumbai", "cost": "1500"},
    "local": [{"type": "Scooter rental", "description": "Per day"}, "Taxi"]
  },
  "totalCost": {
    "accommodation": 25000,
    "transportation": 3000,
    "activities": 900,
    "food": 4500,
    "miscellaneous": 1000,
    "total": 34400,
    "currency": "INR"
  }
}`

func TestExtractJSONFromProse(t *testing.T) {
	text := "Here is your plan:\n```json\n" + goaPlan + "\n```\nHave a great trip! {not json}"

	raw, err := ExtractJSON(text)
	require.NoError(t, err)

	var got, want map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	require.NoError(t, json.Unmarshal([]byte(goaPlan), &want))
	assert.Equal(t, want, got)
}

func TestExtractJSONSkipsInvalidBraces(t *testing.T) {
	raw, err := ExtractJSON(`Use {placeholders} carefully. {"title": "ok"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title": "ok"}`, string(raw))
}

func TestExtractJSONSkipsUnclosedBrace(t *testing.T) {
	raw, err := ExtractJSON("Note: budget {approx.\n{\"a\":1}")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(raw))

	raw, err = ExtractJSON("Here is the plan {as JSON, prices in INR:\n" + goaPlan)
	require.NoError(t, err)
	var got, want map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	require.NoError(t, json.Unmarshal([]byte(goaPlan), &want))
	assert.Equal(t, want, got)
}

func TestExtractJSONBracesInsideStrings(t *testing.T) {
	raw, err := ExtractJSON(`{"description": "a } inside and a \" quote {", "n": 1} trailing`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"description": "a } inside and a \" quote {", "n": 1}`, string(raw))
}

func TestExtractJSONFailures(t *testing.T) {
	cases := map[string]string{
		"no braces":  "Sorry, I cannot help with that.",
		"unbalanced": `{"title": "Goa", "itinerary": [`,
		"only close": "} nothing {",
		"empty":      "",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ExtractJSON(text)
			assert.ErrorIs(t, err, ErrMalformedOutput)
		})
	}
}

func TestParsePlanLenientFields(t *testing.T) {
	plan, err := ParsePlan(goaPlan)
	require.NoError(t, err)

	require.Len(t, plan.Itinerary, 3)
	assert.Equal(t, 2, plan.Itinerary[1].Day.Int())
	assert.Equal(t, Number(600), plan.Itinerary[0].Events[1].Cost)
	assert.Equal(t, Number(1200), plan.Itinerary[1].Events[1].Cost)
	assert.Equal(t, EventFood, plan.Itinerary[1].Events[1].Kind())
	assert.Equal(t, EventActivity, plan.Itinerary[2].Events[0].Kind())
	assert.True(t, bool(plan.Itinerary[2].Events[0].Booking.Required))
	assert.False(t, bool(plan.Itinerary[0].Events[2].Booking.Required))
	assert.Equal(t, Text("31"), plan.Itinerary[0].Weather.Temperature)

	require.Len(t, plan.Accommodation, 2)
	assert.Equal(t, Number(12500), plan.Accommodation[0].Price)
	assert.Equal(t, Number(4.1), plan.Accommodation[1].Rating)
	assert.Equal(t, TextList{"Wifi", "Breakfast"}, plan.Accommodation[1].Amenities)

	assert.Equal(t, "Mumbai → Madgaon", plan.Transportation.Outbound.Route())
	assert.Equal(t, TextList{"Scooter rental - Per day", "Taxi"}, plan.Transportation.Local)
	assert.Equal(t, Number(34400), plan.TotalCost.Total)
}

func TestParsePlanRejectsEmptyItinerary(t *testing.T) {
	_, err := ParsePlan(`{"title": "Goa", "itinerary": []}`)
	assert.ErrorIs(t, err, ErrMalformedOutput)
}

func TestParsePlanRejectsWrongShape(t *testing.T) {
	_, err := ParsePlan(`{"itinerary": "three days of fun"}`)
	assert.ErrorIs(t, err, ErrMalformedOutput)
}
