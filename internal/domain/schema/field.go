package schema

// FieldType enumerates payload field types a schema can declare.
type FieldType string

const (
	// Keyword is an exact-match string field.
	Keyword FieldType = "keyword"
	// Numeric is an integer or float field filtered by range.
	Numeric FieldType = "numeric"
	// Boolean is a true/false field.
	Boolean FieldType = "boolean"
	// Text is a full-text field matched by tokenized search.
	Text FieldType = "text"
)

// Condition is the comparison a field's tool parameter applies.
// The empty condition means the field is indexed but not exposed
// as a tool parameter.
type Condition string

const (
	Eq  Condition = "=="
	Gt  Condition = ">"
	Gte Condition = ">="
	Lt  Condition = "<"
	Lte Condition = "<="
	// Any matches if any of the supplied values is present (set membership).
	Any Condition = "any"
)

// Bucket selects the combine semantics a field's conditions use in the
// predicate tree.
type Bucket int

const (
	// BucketMust conditions are strict conjunction: a record must match.
	BucketMust Bucket = iota
	// BucketShould conditions are soft disjunction: they influence
	// preference but never exclude records lacking the field.
	BucketShould
)

// Field declares a single filterable payload attribute.
type Field struct {
	Name        string
	Description string
	Type        FieldType
	Condition   Condition
	Required    bool
}

// Exposed reports whether the field is offered as a tool parameter.
func (f Field) Exposed() bool { return f.Condition != "" }

// conditionSupported reports whether the declared comparison can be compiled
// into a predicate for the field's type. Checked at schema construction so a
// mis-declared field fails startup, not a request.
func (f Field) conditionSupported() bool {
	switch f.Condition {
	case "", Eq:
		return true
	case Gt, Gte, Lt, Lte:
		return f.Type == Numeric
	case Any:
		return f.Type == Keyword || f.Type == Text
	default:
		return false
	}
}

// MultiValued reports whether the field's tool parameter accepts a
// JSON-array string rather than a scalar.
func (f Field) MultiValued() bool {
	return f.Condition == Any
}

// Bucket returns the combine bucket the field's conditions belong to.
// Full-text and multi-valued fields are soft (should); scalar keyword,
// numeric, boolean fields and the mandatory scope field are strict (must).
func (f Field) Bucket() Bucket {
	if f.Required {
		return BucketMust
	}
	if f.Type == Text || f.MultiValued() {
		return BucketShould
	}
	return BucketMust
}
