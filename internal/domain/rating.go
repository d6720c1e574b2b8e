package domain

// Ratings are 1-5 stars, 0 meaning unset. Once a fountain has a non-zero
// rating it is locked; later writes are no-ops returning the stored value.
const (
	RatingUnset = 0
	RatingMax   = 5
)

// ClampRating forces v into the valid [0,5] range.
func ClampRating(v int) int {
	if v < RatingUnset {
		return RatingUnset
	}
	if v > RatingMax {
		return RatingMax
	}
	return v
}
