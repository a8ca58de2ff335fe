package domain

// Filter expresses a simple filter clause.
type Filter struct {
	Field string `json:"field"`
	Op    string `json:"op"` // eq, like
	Value any    `json:"value"`
}

// Sort defines sorting preference.
type Sort struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // asc / desc
}

const (
	OpEq   = "eq"
	OpLike = "like"
)

func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

func Like(field string, value string) Filter {
	return Filter{Field: field, Op: OpLike, Value: value}
}

// Operator is the authenticated staff member (petugas) behind a request.
type Operator struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}
