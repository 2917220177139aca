package types

// QueryRequest is the body of the batch query endpoint. Documents holds a
// single document URL; Questions are answered in order against it.
type QueryRequest struct {
	Documents string   `json:"documents"`
	Questions []string `json:"questions"`
}
