// Package core implements the named mutator set, the dispatch runtime for
// client and server execution locations, commit-time invariant rules, and the
// synced query definitions.
package core

import "eventcore/pkg/domain"

type (
	// Actor aliases domain.Actor carried by every mutator invocation.
	Actor = domain.Actor
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView.
	TransactionView = domain.TransactionView
	// PersistentStore aliases domain.PersistentStore.
	PersistentStore = domain.PersistentStore
)

// NewRulesEngine returns an empty rules engine.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}
