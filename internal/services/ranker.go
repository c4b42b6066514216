package services

import (
	"sort"
	"strings"

	"nearmeet-server/internal/geo"
	"nearmeet-server/internal/models"
)

// Scoring weights for candidate ranking.
const (
	intentScore   = 3
	interestScore = 1
)

// RankCandidates orders candidates by affinity to self and truncates to max.
// Scoring: +3 per shared intent (case-insensitive), +1 per shared interest
// (case-insensitive, trimmed), plus a proximity bonus when both sides have
// coordinates. Ties keep input order. Pure function; self may be nil for
// neutral scoring.
func RankCandidates(self *models.User, candidates []models.User, max int) []models.User {
	type scored struct {
		user  models.User
		score float64
	}

	var (
		myIntents   map[string]struct{}
		myInterests map[string]struct{}
	)
	if self != nil {
		myIntents = normalizeSet(self.Intents, false)
		myInterests = normalizeSet(self.Interests, true)
	}

	ranked := make([]scored, 0, len(candidates))
	for _, candidate := range candidates {
		var sum float64
		if self != nil {
			for _, intent := range candidate.Intents {
				if _, ok := myIntents[strings.ToLower(intent)]; ok {
					sum += intentScore
				}
			}
			for _, interest := range candidate.Interests {
				if _, ok := myInterests[strings.TrimSpace(strings.ToLower(interest))]; ok {
					sum += interestScore
				}
			}
			if self.HasCoords() && candidate.HasCoords() {
				sum += geo.DistanceBonus(*self.Latitude, *self.Longitude, *candidate.Latitude, *candidate.Longitude)
			}
		}
		ranked = append(ranked, scored{user: candidate, score: sum})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if max < 0 || max > len(ranked) {
		max = len(ranked)
	}
	result := make([]models.User, 0, max)
	for _, s := range ranked[:max] {
		result = append(result, s.user)
	}
	return result
}

func normalizeSet(values []string, trim bool) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(v)
		if trim {
			v = strings.TrimSpace(v)
		}
		set[v] = struct{}{}
	}
	return set
}
