package core

// NewDefaultRulesEngine returns an engine with the standard invariant rules
// registered. The rules are a commit-time backstop: mutators pre-check the
// same conditions, and any blocking violation aborts the commit regardless.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewCategoryCapacityRule())
	engine.Register(NewCategoryBandRule())
	engine.Register(NewInventoryBalanceRule())
	engine.Register(NewGroupSizeRule())
	engine.Register(NewSubEventParentRule())
	return engine
}
