package tracker

// Condition selects which issue field a query clause constrains.
type Condition string

const (
	ConditionType   Condition = "type"
	ConditionLabel  Condition = "label"
	ConditionStatus Condition = "status"
)

// Operator is the comparison applied by a clause. Matching is always
// case-insensitive on the tracker side.
type Operator string

const (
	Matching    Operator = "matching"
	NotMatching Operator = "not_matching"
)

// Clause is one predicate of a search query. A Matching label clause requires
// the label to be present; a NotMatching status clause excludes every listed
// status.
type Clause struct {
	Condition Condition
	Operator  Operator
	Values    []string
}

// Query is a tracker-agnostic conjunction of clauses.
type Query struct {
	Clauses []Clause
}

// Add appends a clause and returns the query for chaining.
func (q *Query) Add(condition Condition, operator Operator, values ...string) *Query {
	q.Clauses = append(q.Clauses, Clause{Condition: condition, Operator: operator, Values: values})
	return q
}
