package services

import "sort"

// StatusThreshold names a tier and the balance it unlocks. Thresholds must
// include a zero floor so every balance resolves to some tier.
type StatusThreshold struct {
	Name           string `json:"name"`
	PointsRequired int64  `json:"points_required"`
}

type Status struct {
	Name         string  `json:"name"`
	Rank         int     `json:"rank"`
	Progress     float64 `json:"progress"`
	PointsToNext *int64  `json:"points_to_next"`
}

func DefaultThresholds() []StatusThreshold {
	return []StatusThreshold{
		{Name: "fan", PointsRequired: 0},
		{Name: "supporter", PointsRequired: 1000},
		{Name: "insider", PointsRequired: 5000},
		{Name: "superfan", PointsRequired: 25000},
	}
}

// StatusEngine derives a user's tier from a ledger balance against an ordered
// threshold table.
type StatusEngine struct {
	thresholds []StatusThreshold
}

func NewStatusEngine(thresholds []StatusThreshold) *StatusEngine {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds()
	}
	ts := make([]StatusThreshold, len(thresholds))
	copy(ts, thresholds)
	sort.Slice(ts, func(i, j int) bool { return ts[i].PointsRequired < ts[j].PointsRequired })
	return &StatusEngine{thresholds: ts}
}

// StatusFor resolves the highest threshold at or below balance. A balance
// below the smallest threshold still resolves to that smallest tier, so a
// user always holds some status.
func (e *StatusEngine) StatusFor(balance int64) Status {
	current := 0
	for i, t := range e.thresholds {
		if t.PointsRequired <= balance {
			current = i
		}
	}

	st := Status{
		Name:     e.thresholds[current].Name,
		Rank:     current,
		Progress: 1,
	}
	if current+1 >= len(e.thresholds) {
		return st
	}

	next := e.thresholds[current+1]
	span := next.PointsRequired - e.thresholds[current].PointsRequired
	gained := balance - e.thresholds[current].PointsRequired
	if gained < 0 {
		gained = 0
	}
	progress := float64(gained) / float64(span)
	if progress > 1 {
		progress = 1
	}
	st.Progress = progress

	toNext := next.PointsRequired - balance
	if toNext < 0 {
		toNext = 0
	}
	st.PointsToNext = &toNext
	return st
}
