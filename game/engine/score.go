package engine

import "math"

const (
	maxComponentScore = 1000
	attemptPenalty    = 10
)

// Score computes the leaderboard score for a completed game. Both components
// start at 1000 and floor at 0: attempts cost 10 points each, and every
// second of play costs one point. The final score is the rounded average of
// the two, so it is deterministic, never negative and non-increasing in both
// inputs.
func Score(attempts int, completionTimeMs int64) int {
	attemptScore := math.Max(0, float64(maxComponentScore-attemptPenalty*attempts))
	timeScore := math.Max(0, maxComponentScore-float64(completionTimeMs)/1000.0)
	return int(math.Round((attemptScore + timeScore) / 2))
}
