package model

// MaxTopQuestions caps the number of repeated questions kept in a result.
const MaxTopQuestions = 10

// TopQuestion is one frequently repeated exam question identified by the
// model. Subtopic is optional; the model returns null for general questions.
type TopQuestion struct {
	Topic     string   `json:"topic"`
	Subtopic  string   `json:"subtopic,omitempty"`
	Text      string   `json:"text"`
	Frequency int      `json:"frequency"`
	Years     []string `json:"years"`
}

// TopicWeight is the model's estimate of how much one topic contributes to
// the papers. Percentages are model-generated and not validated to sum to 100.
type TopicWeight struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// AnalysisResult is the structured study-guide payload produced by the
// analysis engine and cached per course code.
type AnalysisResult struct {
	TopQuestions   []TopQuestion `json:"topQuestions"`
	TopicWeightage []TopicWeight `json:"topicWeightage"`
}

// Truncate enforces the top-question cap, preserving order.
func (r *AnalysisResult) Truncate() {
	if len(r.TopQuestions) > MaxTopQuestions {
		r.TopQuestions = r.TopQuestions[:MaxTopQuestions]
	}
}
