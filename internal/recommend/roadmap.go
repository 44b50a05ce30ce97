package recommend

// maxPhaseItems caps how many recommendations a roadmap phase lists.
const maxPhaseItems = 5

// buildRoadmap lays the ordered recommendations out on three fixed
// phases. Phase 1 takes critical items plus quick wins (low effort,
// deliverable inside 12 weeks); phase 2 the remaining high and medium
// priorities; phase 3 everything else. Input order is composite-score
// descending, so each phase naturally lists its best items first.
func buildRoadmap(recommendations []Recommendation) *Roadmap {
	var phase1, phase2, phase3 []Recommendation
	for _, rec := range recommendations {
		switch {
		case rec.Priority == PriorityCritical,
			rec.Effort == EffortLow && rec.TimeframeWeeks <= 12:
			phase1 = append(phase1, rec)
		case rec.Priority == PriorityHigh, rec.Priority == PriorityMedium:
			phase2 = append(phase2, rec)
		default:
			phase3 = append(phase3, rec)
		}
	}

	trim := func(items []Recommendation) []Recommendation {
		if items == nil {
			return []Recommendation{}
		}
		if len(items) > maxPhaseItems {
			return items[:maxPhaseItems]
		}
		return items
	}

	return &Roadmap{Phases: []Phase{
		{Name: "Phase 1: stabilize", StartWeek: 0, EndWeek: 12, Recommendations: trim(phase1)},
		{Name: "Phase 2: improve", StartWeek: 12, EndWeek: 24, Recommendations: trim(phase2)},
		{Name: "Phase 3: optimize", StartWeek: 24, EndWeek: 40, Recommendations: trim(phase3)},
	}}
}
