package stats

// CaughtFish describes a single catch reported at the end of a round.
type CaughtFish struct {
	Name   string
	Ounces float64
}

type FishTally struct {
	TotalCaught int
	TotalOunces float64
}

type UserStats struct {
	UserID        string
	PlayerName    string
	TotalCasts    int
	TotalCatches  int
	TotalOunces   float64
	BiggestCatch  CaughtFish
	CatchesByFish map[string]FishTally
}

// Merge folds a round into the lifetime totals.
func (s *UserStats) Merge(casts int, catches []CaughtFish) {
	s.TotalCasts += casts
	s.TotalCatches += len(catches)
	if s.CatchesByFish == nil {
		s.CatchesByFish = make(map[string]FishTally)
	}
	for _, c := range catches {
		s.TotalOunces += c.Ounces
		if c.Ounces > s.BiggestCatch.Ounces {
			s.BiggestCatch = c
		}
		tally := s.CatchesByFish[c.Name]
		tally.TotalCaught++
		tally.TotalOunces += c.Ounces
		s.CatchesByFish[c.Name] = tally
	}
}
