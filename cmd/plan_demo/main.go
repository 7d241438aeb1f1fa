// README: Demo; generates one trip against the live Gemini API with in-memory storage and prints it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"voyager/internal/ai"
	"voyager/internal/imagesearch"
	"voyager/internal/logger"
	"voyager/internal/modules/trip"
	"voyager/internal/planner"
	"voyager/internal/retry"
	"voyager/internal/types"
)

func main() {
	_ = godotenv.Load()

	destination := flag.String("destination", "Goa", "trip destination")
	days := flag.Int("days", 3, "number of days")
	travelers := flag.Int("travelers", 2, "number of travelers")
	budget := flag.Float64("budget", 45000, "total budget")
	mode := flag.String("mode", "train", "flight, train or bus")
	flag.Parse()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}
	lg, err := logger.New("development", "debug")
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	gemini, err := ai.NewGeminiProvider(ctx, apiKey, ai.GeminiOptions{JSONMode: true, Temperature: 0.7})
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer gemini.Close()

	var images imagesearch.Searcher = imagesearch.SearcherFunc(func(context.Context, string) (string, error) {
		return "", nil
	})
	if key := os.Getenv("UNSPLASH_ACCESS_KEY"); key != "" {
		images = imagesearch.NewUnsplash("https://api.unsplash.com", key)
	}

	trips := trip.NewService(trip.NewMemoryStore())
	gen := planner.NewGenerator(
		ai.NewRetryingGenerator(gemini, retry.Default, lg),
		planner.NewEnricher(images, planner.WithEnricherLogger(lg)),
		trips,
		planner.WithLogger(lg),
	)

	req := planner.TripRequest{
		Destination:   *destination,
		NumberOfDays:  *days,
		TravelerCount: *travelers,
		TransportMode: types.TransportMode(*mode),
		Budget: types.Budget{
			Money:    types.Money{Amount: *budget},
			Type:     types.BudgetTotal,
			Duration: types.BudgetEntireTrip,
		},
	}
	fmt.Printf("Planning %d days in %s for %d...\n", req.NumberOfDays, req.Destination, req.TravelerCount)

	res, err := gen.Generate(ctx, "demo-user", req)
	if err != nil {
		lg.Fatal("generation failed", zap.Error(err))
	}

	out, _ := json.MarshalIndent(res.Trip, "", "  ")
	fmt.Println(string(out))
}
