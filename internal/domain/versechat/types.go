package versechat

import (
	"time"

	"github.com/mannadev/scriptura/pkg/metrics"
)

// SearchMode identifies the question lookup strategy.
type SearchMode string

const (
	// SearchModeExact only considers literal text equality.
	SearchModeExact SearchMode = "exact"
	// SearchModeSimilarity uses pgvector nearest neighbour lookups.
	SearchModeSimilarity SearchMode = "similarity"
	// SearchModeHybrid tries exact before falling back to similarity.
	SearchModeHybrid SearchMode = "hybrid"
)

// Request is a verse analysis query. Reference is optional context such as
// "Romans 8:28".
type Request struct {
	Question  string     `json:"question"`
	Reference string     `json:"reference"`
	Mode      SearchMode `json:"mode"`
}

// Response is returned to the HTTP transport.
type Response struct {
	Question        string              `json:"question"`
	Reference       string              `json:"reference,omitempty"`
	Answer          string              `json:"answer"`
	Source          string              `json:"source"`
	MatchedQuestion string              `json:"matchedQuestion"`
	Mode            SearchMode          `json:"mode"`
	Recommendations []TrendingQuery     `json:"recommendations"`
	TokenUsage      *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// TrendingQuery represents a frequently asked question.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// QuestionRecord represents the stored question row.
type QuestionRecord struct {
	ID           int64
	QuestionText string
	Reference    string
}

// AnswerRecord captures the payload persisted in the KV cache.
type AnswerRecord struct {
	QuestionID int64     `json:"questionId"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Config holds runtime knobs for the verse chat service.
type Config struct {
	Model               string
	EmbeddingModel      string
	Temperature         float32
	Prompt              string
	CacheTTL            time.Duration
	TopRecommendations  int
	SimilarityThreshold float64
}
