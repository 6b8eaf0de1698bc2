package detect

// Common entity type names emitted by RegexDetector and referenced by the
// default rule definitions. The type space is open: rules and external
// detectors may use any uppercase name.
const (
	TypePerson      = "PERSON"
	TypeSSN         = "SSN"
	TypeEmail       = "EMAIL"
	TypeCreditCard  = "CREDIT_CARD"
	TypePhoneNumber = "PHONE_NUMBER"
	TypeIPAddress   = "IP_ADDRESS"
	TypeAPIKey      = "API_KEY"
	TypeDate        = "DATE"
	TypeLocation    = "GPE"
	TypeOrg         = "ORG"
	TypeUnknown     = "UNKNOWN"
)

// Entity is a detected span of sensitive text. Entities are produced outside
// the compliance core (by this package's detectors or an external NER
// pipeline) and are read-only once produced.
type Entity struct {
	// Type is the entity type name (e.g. SSN, EMAIL, PERSON).
	Type string

	// Value is the matched substring of the analyzed text.
	Value string

	// Start and End are byte offsets of the span in the analyzed text,
	// with End exclusive.
	Start int
	End   int

	// Confidence is the detection confidence in [0, 1].
	Confidence float64
}

// Len returns the span length in bytes.
func (e Entity) Len() int {
	return e.End - e.Start
}

// Overlaps reports whether the two spans share at least one byte.
func (e Entity) Overlaps(other Entity) bool {
	return e.Start < other.End && other.Start < e.End
}

// Detector produces entities for a text. Implementations must be safe for
// concurrent use; the compliance core may be called from many goroutines.
type Detector interface {
	Detect(text string) []Entity
}
