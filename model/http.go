package model

type DecodeRequestBody struct {
	Text string `json:"text"`
}

type SkippedText struct {
	Offset int    `json:"offset"`
	Text   string `json:"text"`
}

type DecodeResponse struct {
	Events  []NoteEvent   `json:"events"`
	Skipped []SkippedText `json:"skipped"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
