package gear

// Item is a catalog entry players can unlock from loot boxes.
type Item struct {
	ID       string
	Category string
}

type Unlock struct {
	UserID     string
	ItemID     string
	IsEquipped bool
}

// LootBoxPrice is the coin cost of a single loot box.
const LootBoxPrice = 100
