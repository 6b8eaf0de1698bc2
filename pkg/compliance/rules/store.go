package rules

// Store is an immutable, indexed collection of compliance rules. It is built
// once by a loader and safe for unsynchronized concurrent reads afterwards.
//
// Ordering is stable: frameworks appear in load order (sorted file names for
// directory loads), and rules keep their declaration order within each
// framework. This ordering flows through to violation ordering in evaluation
// results, which keeps test output deterministic.
type Store struct {
	// frameworks preserves framework load order.
	frameworks []Framework

	// byFramework indexes rules per framework, declaration order preserved.
	byFramework map[Framework][]*Rule

	// byID indexes every rule by its unique ID.
	byID map[string]*Rule
}

// newStore creates an empty store for loaders to populate.
func newStore() *Store {
	return &Store{
		byFramework: make(map[Framework][]*Rule),
		byID:        make(map[string]*Rule),
	}
}

// NewStore builds a store directly from already-validated rules, preserving
// the given order. This is the construction path for tests and for callers
// that assemble rules programmatically instead of from files.
func NewStore(ruleSet ...*Rule) *Store {
	s := newStore()
	s.add(ruleSet...)
	return s
}

// register records a framework in load order. Registering a framework with
// no rules is how a valid zero-rule framework file becomes visible to
// HasFramework and RulesFor.
func (s *Store) register(fw Framework) {
	if _, ok := s.byFramework[fw]; !ok {
		s.frameworks = append(s.frameworks, fw)
		s.byFramework[fw] = nil
	}
}

// add appends rules to the store. Only loaders call this; once a Store is
// returned to a caller it is never mutated.
func (s *Store) add(ruleSet ...*Rule) {
	for _, r := range ruleSet {
		s.register(r.Framework)
		s.byFramework[r.Framework] = append(s.byFramework[r.Framework], r)
		s.byID[r.ID] = r
	}
}

// Frameworks returns the loaded frameworks in load order.
func (s *Store) Frameworks() []Framework {
	out := make([]Framework, len(s.frameworks))
	copy(out, s.frameworks)
	return out
}

// HasFramework reports whether the framework was loaded. A loaded framework
// with zero rules still reports true.
func (s *Store) HasFramework(fw Framework) bool {
	_, ok := s.byFramework[fw]
	return ok
}

// RulesFor returns rules for the given frameworks, in framework load order
// and declaration order within each framework. With no frameworks given, it
// returns rules from all loaded frameworks.
//
// Requesting a framework that was never loaded returns an
// *UnknownFrameworkError; requesting a loaded framework with zero rules
// succeeds with no rules contributed.
func (s *Store) RulesFor(frameworks ...Framework) ([]*Rule, error) {
	if len(frameworks) == 0 {
		frameworks = s.frameworks
	} else {
		for _, fw := range frameworks {
			if !s.HasFramework(fw) {
				return nil, &UnknownFrameworkError{Framework: fw}
			}
		}
		// Preserve load order regardless of the order the caller asked in.
		frameworks = s.inLoadOrder(frameworks)
	}

	var out []*Rule
	for _, fw := range frameworks {
		out = append(out, s.byFramework[fw]...)
	}
	return out, nil
}

// inLoadOrder filters the store's framework load order down to the requested
// set, deduplicating repeated requests.
func (s *Store) inLoadOrder(requested []Framework) []Framework {
	want := make(map[Framework]bool, len(requested))
	for _, fw := range requested {
		want[fw] = true
	}
	var out []Framework
	for _, fw := range s.frameworks {
		if want[fw] {
			out = append(out, fw)
		}
	}
	return out
}

// RuleByID returns the rule with the given ID, or nil if absent.
func (s *Store) RuleByID(id string) *Rule {
	return s.byID[id]
}

// Len returns the total number of rules across all frameworks.
func (s *Store) Len() int {
	return len(s.byID)
}
