// Package engine evaluates text and externally-detected entities against a
// rule store, producing compliance violations.
//
// Each rule is evaluated independently, with no short-circuiting across
// rules. Within a rule the match criteria are conjunctive: a rule that
// specifies entity types AND keywords matches only when both are satisfied.
// High-severity frameworks like HIPAA pair an identifier criterion with a
// context criterion precisely to cut false positives; an OR reading would
// fire on either signal alone.
//
// A matching rule yields exactly one violation. Violation order follows rule
// order in the store (framework load order, then declaration order), so
// results are deterministic for a given store and input.
//
// # Usage
//
//	store, err := rules.LoadDir("rules/")
//	if err != nil { ... }
//	eng := engine.New(store, nil)
//
//	result, err := eng.Evaluate(text, entities, rules.FrameworkHIPAA)
//	if err != nil { ... }
//	if !result.Compliant {
//	    for _, v := range result.Violations { ... }
//	}
//
// Evaluation is synchronous, allocates no shared state, and is safe to call
// concurrently from any number of goroutines against the same engine.
package engine
