package versechat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mannadev/scriptura/internal/infra/llm/chatgpt"
	apperrors "github.com/mannadev/scriptura/pkg/errors"
)

type stubRepo struct {
	exact       map[string]QuestionRecord
	nearest     *SimilarityMatch
	inserted    []QuestionRecord
	nextID      int64
	embedSeen   [][]float32
	exactCalls  int
	insertCalls int
}

func newStubRepo() *stubRepo {
	return &stubRepo{exact: make(map[string]QuestionRecord), nextID: 100}
}

func (r *stubRepo) FindExact(_ context.Context, question string) (QuestionRecord, bool, error) {
	r.exactCalls++
	record, ok := r.exact[question]
	return record, ok, nil
}

func (r *stubRepo) FindNearest(_ context.Context, embedding []float32) (SimilarityMatch, bool, error) {
	r.embedSeen = append(r.embedSeen, embedding)
	if r.nearest == nil {
		return SimilarityMatch{}, false, nil
	}
	return *r.nearest, true, nil
}

func (r *stubRepo) InsertQuestion(_ context.Context, question, reference string, _ []float32) (QuestionRecord, error) {
	r.insertCalls++
	r.nextID++
	record := QuestionRecord{ID: r.nextID, QuestionText: question, Reference: reference}
	r.inserted = append(r.inserted, record)
	return record, nil
}

type stubCache struct {
	answers   map[int64]AnswerRecord
	counts    map[string]int64
	saveCalls int
}

func newStubCache() *stubCache {
	return &stubCache{answers: make(map[int64]AnswerRecord), counts: make(map[string]int64)}
}

func (s *stubCache) GetAnswer(_ context.Context, questionID int64) (AnswerRecord, bool, error) {
	record, ok := s.answers[questionID]
	return record, ok, nil
}

func (s *stubCache) SaveAnswer(_ context.Context, record AnswerRecord, _ time.Duration) error {
	s.saveCalls++
	s.answers[record.QuestionID] = record
	return nil
}

func (s *stubCache) IncrementQuery(_ context.Context, canonical, _ string) error {
	s.counts[canonical]++
	return nil
}

func (s *stubCache) TopQueries(_ context.Context, limit int) ([]TrendingQuery, error) {
	out := make([]TrendingQuery, 0, len(s.counts))
	for query, count := range s.counts {
		out = append(out, TrendingQuery{Query: query, Count: count})
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubChat struct {
	answer        string
	completionErr error
	embedding     []float32
	embeddingErr  error
	chatCalls     int
	embedCalls    int
	lastMessages  []chatgpt.Message
}

func (c *stubChat) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	c.chatCalls++
	c.lastMessages = req.Messages
	if c.completionErr != nil {
		return chatgpt.ChatCompletionResponse{}, c.completionErr
	}
	var resp chatgpt.ChatCompletionResponse
	resp.Choices = []struct {
		Message chatgpt.Message `json:"message"`
	}{
		{Message: chatgpt.Message{Role: "assistant", Content: c.answer}},
	}
	resp.Usage.PromptTokens = 12
	resp.Usage.CompletionTokens = 30
	resp.Usage.TotalTokens = 42
	return resp, nil
}

func (c *stubChat) CreateEmbedding(_ context.Context, _ chatgpt.EmbeddingRequest) (chatgpt.EmbeddingResponse, error) {
	c.embedCalls++
	if c.embeddingErr != nil {
		return chatgpt.EmbeddingResponse{}, c.embeddingErr
	}
	var resp chatgpt.EmbeddingResponse
	resp.Data = []struct {
		Embedding []float32 `json:"embedding"`
	}{
		{Embedding: c.embedding},
	}
	return resp, nil
}

func newTestVerseChat(repo QuestionRepository, store Store, client ChatClient) *service {
	return &service{
		cfg: Config{
			Model:               "gpt-test",
			EmbeddingModel:      "embed-test",
			Prompt:              "Explain the passage.",
			CacheTTL:            time.Hour,
			TopRecommendations:  5,
			SimilarityThreshold: 0.5,
		},
		repo:   repo,
		store:  store,
		client: client,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestAnalyzeRejectsEmptyQuestion(t *testing.T) {
	svc := newTestVerseChat(newStubRepo(), newStubCache(), &stubChat{})
	_, err := svc.Analyze(context.Background(), Request{Question: "   "})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestAnalyzeExactHitServesCachedAnswer(t *testing.T) {
	repo := newStubRepo()
	repo.exact["What does John 3:16 mean?"] = QuestionRecord{ID: 7, QuestionText: "What does John 3:16 mean?"}

	cache := newStubCache()
	cache.answers[7] = AnswerRecord{QuestionID: 7, Answer: "It speaks of God's love."}

	chat := &stubChat{answer: "unused"}
	svc := newTestVerseChat(repo, cache, chat)

	resp, err := svc.Analyze(context.Background(), Request{Question: "What does John 3:16 mean?"})
	require.NoError(t, err)
	require.Equal(t, "cache", resp.Source)
	require.Equal(t, "It speaks of God's love.", resp.Answer)
	require.Equal(t, SearchModeExact, resp.Mode)
	require.Zero(t, chat.chatCalls)
	require.Zero(t, chat.embedCalls)
	require.Nil(t, resp.TokenUsage)
}

func TestAnalyzeMissInsertsAndAsksLLM(t *testing.T) {
	repo := newStubRepo()
	cache := newStubCache()
	chat := &stubChat{answer: "Paul is writing to the church in Rome.", embedding: []float32{0.1, 0.2}}
	svc := newTestVerseChat(repo, cache, chat)

	resp, err := svc.Analyze(context.Background(), Request{
		Question:  "Who wrote Romans?",
		Reference: "Romans 1:1",
	})
	require.NoError(t, err)
	require.Equal(t, "llm", resp.Source)
	require.Equal(t, "Paul is writing to the church in Rome.", resp.Answer)
	require.Equal(t, 1, repo.insertCalls)
	require.Equal(t, 1, cache.saveCalls)
	require.Equal(t, 1, chat.chatCalls)
	require.NotNil(t, resp.TokenUsage)
	require.Equal(t, 42, resp.TokenUsage.TotalTokens)

	// The passage context rides along in the user message.
	require.Len(t, chat.lastMessages, 2)
	require.Contains(t, chat.lastMessages[1].Content, "Passage: Romans 1:1")
	require.Contains(t, chat.lastMessages[1].Content, "Question: Who wrote Romans?")

	// A repeat of the same question now hits the cache.
	repo.exact["Who wrote Romans?"] = repo.inserted[0]
	resp, err = svc.Analyze(context.Background(), Request{Question: "Who wrote Romans?"})
	require.NoError(t, err)
	require.Equal(t, "cache", resp.Source)
	require.Equal(t, 1, chat.chatCalls)
}

func TestAnalyzeSimilarityRespectsThreshold(t *testing.T) {
	near := QuestionRecord{ID: 9, QuestionText: "What does the good shepherd passage mean?"}

	repo := newStubRepo()
	repo.nearest = &SimilarityMatch{Question: near, Distance: 0.3}

	cache := newStubCache()
	cache.answers[9] = AnswerRecord{QuestionID: 9, Answer: "Jesus describes his care for his own."}

	chat := &stubChat{embedding: []float32{0.5, 0.5}}
	svc := newTestVerseChat(repo, cache, chat)

	resp, err := svc.Analyze(context.Background(), Request{
		Question: "Explain John 10 to me",
		Mode:     SearchModeSimilarity,
	})
	require.NoError(t, err)
	require.Equal(t, SearchModeSimilarity, resp.Mode)
	require.Equal(t, "cache", resp.Source)
	require.Equal(t, near.QuestionText, resp.MatchedQuestion)

	// Beyond the threshold the match is discarded and a fresh answer is
	// generated.
	repo.nearest.Distance = 0.9
	chat.answer = "A fresh answer."
	resp, err = svc.Analyze(context.Background(), Request{
		Question: "Explain John 10 to me",
		Mode:     SearchModeSimilarity,
	})
	require.NoError(t, err)
	require.Equal(t, "llm", resp.Source)
	require.Equal(t, "Explain John 10 to me", resp.MatchedQuestion)
}

func TestAnalyzeHybridTriesExactFirst(t *testing.T) {
	repo := newStubRepo()
	repo.exact["Why did Jonah flee?"] = QuestionRecord{ID: 3, QuestionText: "Why did Jonah flee?"}

	cache := newStubCache()
	cache.answers[3] = AnswerRecord{QuestionID: 3, Answer: "He fled from the call to Nineveh."}

	chat := &stubChat{}
	svc := newTestVerseChat(repo, cache, chat)

	resp, err := svc.Analyze(context.Background(), Request{Question: "Why did Jonah flee?"})
	require.NoError(t, err)
	require.Equal(t, SearchModeExact, resp.Mode)
	require.Zero(t, chat.embedCalls)
}

func TestAnalyzeLLMFailure(t *testing.T) {
	chat := &stubChat{completionErr: errors.New("upstream 500"), embedding: []float32{0.1}}
	svc := newTestVerseChat(newStubRepo(), newStubCache(), chat)

	_, err := svc.Analyze(context.Background(), Request{Question: "Who was Melchizedek?"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "llm_error"))
}

func TestAnalyzeTrendingAccumulates(t *testing.T) {
	cache := newStubCache()
	chat := &stubChat{answer: "An answer.", embedding: []float32{0.1}}
	svc := newTestVerseChat(newStubRepo(), cache, chat)

	_, err := svc.Analyze(context.Background(), Request{Question: "What is grace?"})
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), Request{Question: "What is GRACE??"})
	require.NoError(t, err)

	require.Equal(t, int64(2), cache.counts["what is grace"])

	trending, err := svc.Trending(context.Background())
	require.NoError(t, err)
	require.Len(t, trending, 1)
	require.Equal(t, int64(2), trending[0].Count)
}

func TestNormalizeQuery(t *testing.T) {
	require.Equal(t, "what is grace", normalizeQuery("  What is GRACE??  "))
	require.Equal(t, "who wrote romans 1 1", normalizeQuery("Who wrote Romans 1:1?"))
	require.Equal(t, "", normalizeQuery("?!.,"))
}

func TestSanitizeMode(t *testing.T) {
	require.Equal(t, SearchModeHybrid, sanitizeMode(""))
	require.Equal(t, SearchModeHybrid, sanitizeMode("semantic"))
	require.Equal(t, SearchModeExact, sanitizeMode(SearchModeExact))
	require.Equal(t, SearchModeSimilarity, sanitizeMode(SearchModeSimilarity))
}
