package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"wastewatch/internal/service"
	"wastewatch/pkg/types"
)

// DemoLocationPrefix marks locations written by the demo seed.
const DemoLocationPrefix = "[seed] "

type demoUser struct {
	UID   string
	Email string
}

var demoUsers = []demoUser{
	{UID: "11111111-1111-1111-1111-111111111111", Email: "ava.williams+seed1@example.com"},
	{UID: "22222222-2222-2222-2222-222222222222", Email: "liam.johnson+seed2@example.com"},
	{UID: "33333333-3333-3333-3333-333333333333", Email: "noah.brown+seed3@example.com"},
	{UID: "44444444-4444-4444-4444-444444444444", Email: "mia.davis+seed4@example.com"},
	// no email, like an anonymous sign in
	{UID: "anon-seed5"},
}

var demoLocations = []string{
	"Riverside Park",
	"North Beach",
	"Market Square",
	"Old Harbour",
	"Hilltop Trail",
	"Station Road",
}

var demoVolumes = []string{"1 bag", "2 bags", "5 kg", "half a skip", "3 crates"}

type weightedWasteType struct {
	Type   string
	Weight int
}

var weightedWasteTypes = []weightedWasteType{
	{Type: types.WasteTypePlastic, Weight: 35},
	{Type: types.WasteTypeMixed, Weight: 20},
	{Type: types.WasteTypePaper, Weight: 15},
	{Type: types.WasteTypeGlass, Weight: 12},
	{Type: types.WasteTypeOrganic, Weight: 10},
	{Type: types.WasteTypeOther, Weight: 5},
	// untyped entries count as Unknown
	{Type: "", Weight: 3},
}

// SeedDemo writes count waste entries and a handful of events through the
// services, attributed to a fixed set of demo users.
func SeedDemo(ctx context.Context, waste *service.WasteService, events *service.EventService, count int, rng *rand.Rand) error {
	if count <= 0 {
		fmt.Println("Skipping demo seed because count <= 0")
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	created := 0
	for i := 0; i < count; i++ {
		user := demoUsers[rng.Intn(len(demoUsers))]
		input := types.WasteEntryInput{
			Type:     pickWeightedWasteType(rng),
			Volume:   demoVolumes[rng.Intn(len(demoVolumes))],
			Location: DemoLocationPrefix + demoLocations[rng.Intn(len(demoLocations))],
		}

		if _, err := waste.CreateWasteEntry(ctx, input, types.User{UID: user.UID, Email: user.Email}); err != nil {
			return fmt.Errorf("failed to create demo waste entry %d: %w", i, err)
		}
		created++
	}

	eventCount := count/10 + 1
	for i := 0; i < eventCount; i++ {
		user := demoUsers[i%len(demoUsers)]
		location := demoLocations[i%len(demoLocations)]
		input := types.EventInput{
			Title:       fmt.Sprintf("Clean-up at %s", location),
			Description: "Gloves and bags provided. Meet at the entrance.",
			Location:    DemoLocationPrefix + location,
			Date:        time.Now().AddDate(0, 0, 7*(i+1)).Format(time.DateOnly),
		}

		if _, err := events.CreateEvent(ctx, input, types.User{UID: user.UID, Email: user.Email}); err != nil {
			return fmt.Errorf("failed to create demo event %d: %w", i, err)
		}
	}

	fmt.Printf("Demo seed complete: %d waste entries, %d events\n", created, eventCount)

	return nil
}

func pickWeightedWasteType(rng *rand.Rand) string {
	total := 0
	for _, w := range weightedWasteTypes {
		total += w.Weight
	}

	n := rng.Intn(total)
	for _, w := range weightedWasteTypes {
		if n < w.Weight {
			return w.Type
		}
		n -= w.Weight
	}

	return weightedWasteTypes[0].Type
}
