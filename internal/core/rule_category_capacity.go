package core

import (
	"context"
	"fmt"

	"eventcore/pkg/domain"
)

// NewCategoryCapacityRule returns the in-transaction rule enforcing per-center
// gender capacity of participant categories.
func NewCategoryCapacityRule() domain.Rule {
	return categoryCapacityRule{}
}

type categoryCapacityRule struct{}

func (categoryCapacityRule) Name() string { return "participant_category_capacity" }

func (categoryCapacityRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	type key struct {
		centerID   string
		categoryID string
		gender     domain.Gender
	}
	counts := make(map[key]int)
	for _, participant := range view.ListParticipants() {
		counts[key{participant.CenterID, participant.ParticipantCategoryID, participant.Gender}]++
	}

	res := domain.Result{}
	for k, count := range counts {
		category, ok := view.FindParticipantCategory(k.categoryID)
		if !ok {
			continue
		}
		capacity := category.CapacityFor(k.gender)
		if count > capacity {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "participant_category_capacity",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("category %s over %s capacity at center %s: %d/%d", category.Name, k.gender, k.centerID, count, capacity),
				Entity:   domain.EntityParticipantCategory,
				EntityID: category.ID,
			})
		}
	}
	return res, nil
}
