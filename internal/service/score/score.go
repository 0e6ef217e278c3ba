// Package score computes credit points from a user's active ideas.
package score

import "kaizen-ideas/internal/domain"

const (
	PointsImplemented = 30
	PointsApproved    = 20
	PointsDefault     = 10
)

// Value returns the points an idea in status s is worth. Each idea counts in
// exactly one tier, chosen by its current status; unknown statuses fall into
// the default tier.
func Value(s domain.IdeaStatus) int {
	switch s {
	case domain.StatusImplemented:
		return PointsImplemented
	case domain.StatusApproved:
		return PointsApproved
	default:
		return PointsDefault
	}
}

// Compute sums Value over ideas. Callers pass only active ideas.
func Compute(ideas []domain.Idea) int {
	total := 0
	for _, idea := range ideas {
		total += Value(idea.Status)
	}
	return total
}
