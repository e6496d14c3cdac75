package domain

// Term is one distinct field value and the number of records holding it.
type Term struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}
