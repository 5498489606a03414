package usecase

import "strconv"

// rankOrdinal renders a 1-based rank as "1st", "2nd", "3rd", "4th" and so on.
func rankOrdinal(rank int) string {
	suffix := "th"
	if rank%100 < 11 || rank%100 > 13 {
		switch rank % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(rank) + suffix
}
