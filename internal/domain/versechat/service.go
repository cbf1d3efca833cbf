package versechat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/mannadev/scriptura/internal/infra/llm/chatgpt"
	apperrors "github.com/mannadev/scriptura/pkg/errors"
	"github.com/mannadev/scriptura/pkg/metrics"
)

// Service exposes AI-assisted verse analysis.
type Service interface {
	Analyze(ctx context.Context, req Request) (Response, error)
	Trending(ctx context.Context) ([]TrendingQuery, error)
}

// ChatClient is the opaque completion/embedding collaborator.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
	CreateEmbedding(ctx context.Context, req chatgpt.EmbeddingRequest) (chatgpt.EmbeddingResponse, error)
}

type service struct {
	cfg     Config
	repo    QuestionRepository
	store   Store
	client  ChatClient
	logger  *slog.Logger
	encoder *tiktoken.Tiktoken
}

// NewService wires up the verse chat domain.
func NewService(cfg Config, repo QuestionRepository, store Store, client ChatClient, logger *slog.Logger) Service {
	encoder, err := tiktoken.EncodingForModel(cfg.Model)
	if err != nil {
		encoder, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			encoder = nil
		}
	}
	return &service{
		cfg:     cfg,
		repo:    repo,
		store:   store,
		client:  client,
		logger:  logger.With("component", "versechat.service"),
		encoder: encoder,
	}
}

func (s *service) Analyze(ctx context.Context, req Request) (Response, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Response{}, apperrors.Wrap("invalid_input", "question cannot be empty", nil)
	}
	reference := strings.TrimSpace(req.Reference)
	mode := sanitizeMode(req.Mode)

	var (
		embedding  []float32
		record     QuestionRecord
		foundMatch bool
		actualMode = mode
	)

	for _, candidate := range resolveSearchPlan(mode) {
		switch candidate {
		case SearchModeExact:
			rec, found, err := s.repo.FindExact(ctx, question)
			if err != nil {
				return Response{}, apperrors.Wrap("versechat_error", "exact lookup failed", err)
			}
			if found {
				record = rec
				foundMatch = true
				actualMode = SearchModeExact
			}
		case SearchModeSimilarity:
			var err error
			embedding, err = s.ensureEmbedding(ctx, embedding, question)
			if err != nil {
				return Response{}, apperrors.Wrap("versechat_error", "embedding failed", err)
			}
			match, found, err := s.repo.FindNearest(ctx, embedding)
			if err != nil {
				return Response{}, apperrors.Wrap("versechat_error", "similarity lookup failed", err)
			}
			if found && match.Distance <= s.cfg.SimilarityThreshold {
				record = match.Question
				foundMatch = true
				actualMode = SearchModeSimilarity
			}
		}
		if foundMatch {
			break
		}
	}

	var (
		answer          string
		source          = "cache"
		matchedQuestion = question
		usage           *metrics.TokenUsage
	)

	if foundMatch {
		matchedQuestion = record.QuestionText
		cached, ok, err := s.store.GetAnswer(ctx, record.ID)
		if err != nil {
			return Response{}, apperrors.Wrap("versechat_error", "cache lookup failed", err)
		}
		if ok {
			answer = cached.Answer
		} else {
			source = "llm"
			answer, usage, err = s.generateAndCacheAnswer(ctx, record.ID, matchedQuestion, record.Reference)
			if err != nil {
				return Response{}, err
			}
		}
	} else {
		var err error
		embedding, err = s.ensureEmbedding(ctx, embedding, question)
		if err != nil {
			return Response{}, apperrors.Wrap("versechat_error", "embedding failed", err)
		}
		record, err = s.repo.InsertQuestion(ctx, question, reference, embedding)
		if err != nil {
			return Response{}, apperrors.Wrap("versechat_error", "failed to insert question", err)
		}
		source = "llm"
		answer, usage, err = s.generateAndCacheAnswer(ctx, record.ID, question, reference)
		if err != nil {
			return Response{}, err
		}
	}

	if err := s.store.IncrementQuery(ctx, normalizeQuery(question), question); err != nil {
		s.logger.Warn("trending increment failed", "error", err)
	}

	recs, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		s.logger.Warn("trending fetch failed", "error", err)
		recs = nil
	}

	return Response{
		Question:        question,
		Reference:       reference,
		Answer:          answer,
		Source:          source,
		MatchedQuestion: matchedQuestion,
		Mode:            actualMode,
		Recommendations: recs,
		TokenUsage:      usage,
	}, nil
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	recs, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		return nil, apperrors.Wrap("versechat_error", "failed to load trending queries", err)
	}
	return recs, nil
}

func (s *service) generateAndCacheAnswer(ctx context.Context, questionID int64, question, reference string) (string, *metrics.TokenUsage, error) {
	answer, usage, err := s.askLLM(ctx, question, reference)
	if err != nil {
		return "", nil, err
	}
	record := AnswerRecord{
		QuestionID: questionID,
		Question:   question,
		Answer:     answer,
		CreatedAt:  time.Now(),
	}
	if err := s.store.SaveAnswer(ctx, record, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("answer cache save failed", "error", err)
	}
	return answer, usage, nil
}

func (s *service) askLLM(ctx context.Context, question, reference string) (string, *metrics.TokenUsage, error) {
	prompt := strings.TrimSpace(s.cfg.Prompt)
	if prompt == "" {
		prompt = "You are a thoughtful Bible study assistant."
	}
	userContent := fmt.Sprintf("Question: %s", question)
	if reference != "" {
		userContent = fmt.Sprintf("Passage: %s\n%s", reference, userContent)
	}
	messages := []chatgpt.Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: userContent},
	}
	resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", nil, apperrors.Wrap("llm_error", "completion request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil, apperrors.Wrap("llm_error", "completion returned no choices", errors.New("empty choices"))
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", nil, apperrors.Wrap("llm_error", "completion response empty", nil)
	}
	return answer, s.tokenUsage(messages, resp), nil
}

// tokenUsage prefers the provider's accounting and falls back to a local
// tiktoken estimate of the prompt.
func (s *service) tokenUsage(messages []chatgpt.Message, resp chatgpt.ChatCompletionResponse) *metrics.TokenUsage {
	if resp.Usage.TotalTokens > 0 {
		return &metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	if s.encoder == nil {
		return nil
	}
	promptTokens := 0
	for _, message := range messages {
		promptTokens += len(s.encoder.Encode(message.Content, nil, nil))
	}
	if promptTokens == 0 {
		return nil
	}
	return &metrics.TokenUsage{PromptTokens: promptTokens, TotalTokens: promptTokens}
}

func (s *service) ensureEmbedding(ctx context.Context, current []float32, question string) ([]float32, error) {
	if len(current) > 0 {
		return current, nil
	}
	resp, err := s.client.CreateEmbedding(ctx, chatgpt.EmbeddingRequest{
		Model: s.cfg.EmbeddingModel,
		Input: question,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("embedding response empty")
	}
	vector := make([]float32, len(resp.Data[0].Embedding))
	copy(vector, resp.Data[0].Embedding)
	return vector, nil
}

func resolveSearchPlan(mode SearchMode) []SearchMode {
	switch mode {
	case SearchModeExact:
		return []SearchMode{SearchModeExact}
	case SearchModeSimilarity:
		return []SearchMode{SearchModeSimilarity}
	default:
		return []SearchMode{SearchModeExact, SearchModeSimilarity}
	}
}

func sanitizeMode(mode SearchMode) SearchMode {
	switch mode {
	case SearchModeExact, SearchModeSimilarity, SearchModeHybrid:
		return mode
	default:
		return SearchModeHybrid
	}
}
