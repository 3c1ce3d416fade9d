package core

import (
	"context"
	"fmt"

	"eventcore/pkg/domain"
)

// NewSubEventParentRule returns the in-transaction rule rejecting sub-events
// whose owning event is gone, the backstop for mutator-driven cascades.
func NewSubEventParentRule() domain.Rule {
	return subEventParentRule{}
}

type subEventParentRule struct{}

func (subEventParentRule) Name() string { return "subevent_parent" }

func (subEventParentRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, subEvent := range view.ListSubEvents() {
		if _, ok := view.FindEvent(subEvent.EventID); !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "subevent_parent",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("sub-event %s references missing event %s", subEvent.ID, subEvent.EventID),
				Entity:   domain.EntitySubEvent,
				EntityID: subEvent.ID,
			})
		}
	}
	for _, row := range view.ListSubEventParticipants() {
		if _, ok := view.FindSubEvent(row.SubEventID); !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "subevent_parent",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("registration %s references missing sub-event %s", row.ID, row.SubEventID),
				Entity:   domain.EntitySubEventParticipant,
				EntityID: row.ID,
			})
		}
	}
	return res, nil
}
