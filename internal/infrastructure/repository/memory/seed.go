package memory

import (
	"github.com/melechlapson/CastNCatch/internal/domain/gear"
	"github.com/melechlapson/CastNCatch/internal/domain/user"
)

// SeedLocations lists the playable fishing spots in catalog order. Challenge
// creation only draws from the first ten.
func SeedLocations() []string {
	return []string{
		"mountainLake",
		"willowRiver",
		"oldHarborPier",
		"reedMarsh",
		"deepFjord",
		"sunsetLagoon",
		"graniteFalls",
		"kelpForest",
		"frozenBay",
		"cypressSwamp",
		"midnightTrench",
	}
}

func SeedGearItems() []gear.Item {
	return []gear.Item{
		{ID: "rod-bamboo", Category: "rod"},
		{ID: "rod-carbon", Category: "rod"},
		{ID: "rod-heritage", Category: "rod"},
		{ID: "reel-brass", Category: "reel"},
		{ID: "reel-spinning", Category: "reel"},
		{ID: "lure-spoon", Category: "lure"},
		{ID: "lure-popper", Category: "lure"},
		{ID: "lure-jig", Category: "lure"},
		{ID: "hat-straw", Category: "hat"},
		{ID: "hat-bucket", Category: "hat"},
		{ID: "vest-canvas", Category: "vest"},
		{ID: "vest-neoprene", Category: "vest"},
	}
}

// SeedUsers provides demo accounts for local development without a database.
func SeedUsers() []user.User {
	return []user.User{
		{ID: "demo-annie", DisplayName: "Angler Annie", Coins: 500},
		{ID: "demo-bob", DisplayName: "Bass Bob", Coins: 250},
		{ID: "demo-carl", DisplayName: "Captain Carl", Coins: 120, LootBoxes: 1},
		{ID: "demo-dora", DisplayName: "Deckhand Dora", Coins: 0},
	}
}
