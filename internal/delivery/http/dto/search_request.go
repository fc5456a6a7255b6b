package dto

type SearchRequest struct {
	Query    string `json:"query"`
	Location string `json:"location"`
}

type SearchResponse struct {
	TaskID string `json:"task_id"`
}
