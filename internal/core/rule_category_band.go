package core

import (
	"context"
	"fmt"

	"eventcore/pkg/domain"
)

// NewCategoryBandRule returns the in-transaction rule checking that every
// participant's recorded age lies within its assigned category band.
func NewCategoryBandRule() domain.Rule {
	return categoryBandRule{}
}

type categoryBandRule struct{}

func (categoryBandRule) Name() string { return "participant_category_band" }

func (categoryBandRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, participant := range view.ListParticipants() {
		category, ok := view.FindParticipantCategory(participant.ParticipantCategoryID)
		if !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "participant_category_band",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("participant %s references missing category %s", participant.ID, participant.ParticipantCategoryID),
				Entity:   domain.EntityParticipant,
				EntityID: participant.ID,
			})
			continue
		}
		if !category.Contains(participant.Age) {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "participant_category_band",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("participant %s age %d outside category %s band [%d,%d]", participant.ID, participant.Age, category.Name, category.MinAge, category.MaxAge),
				Entity:   domain.EntityParticipant,
				EntityID: participant.ID,
			})
		}
	}
	return res, nil
}
