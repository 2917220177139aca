package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// QueryResponse carries one answer per requested question, same order.
type QueryResponse struct {
	Answers []string `json:"answers"`
}
