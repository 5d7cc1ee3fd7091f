package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"edumate/internal/ai"
	"edumate/internal/extract"
	"edumate/internal/metrics"
	"edumate/internal/model"
)

const (
	emptyAnswerText   = "The model returned an empty response."
	shortTextSummary  = "Text is too short to summarize."
	noTextGuidance    = "No text could be extracted from the document."
	minSummaryChars   = 50
	titleQuestionRune = 25
)

// Suggestions are the canned prompts offered once a document is loaded.
var Suggestions = []string{
	"What is the main idea of the text?",
	"Summarize in 3 key points",
	"What is the tone or mood?",
	"Who is the audience?",
}

// Inference is the text model backing every study capability.
type Inference interface {
	Answer(ctx context.Context, question, context string) (string, error)
	Summarize(ctx context.Context, text string, maxLen int) (string, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

type TextExtractor interface {
	ExtractText(ctx context.Context, r io.Reader, kind extract.Kind) (string, error)
}

type StudyService struct {
	history   *HistoryService
	inference Inference
	extractor TextExtractor
	metrics   *metrics.Registry
	log       *zap.Logger
}

type ExtractionResult struct {
	Kind        extract.Kind `json:"kind"`
	Empty       bool         `json:"empty"`
	Characters  int          `json:"characters"`
	Message     string       `json:"message,omitempty"`
	Suggestions []string     `json:"suggestions"`
}

func NewStudyService(history *HistoryService, inference Inference, extractor TextExtractor, reg *metrics.Registry, log *zap.Logger) *StudyService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StudyService{
		history:   history,
		inference: inference,
		extractor: extractor,
		metrics:   reg,
		log:       log,
	}
}

// AnswerAndRecord answers question at the session's education level and
// stores the exchange. Inference problems become a diagnostic answer; only
// storage failures are returned.
func (s *StudyService) AnswerAndRecord(ctx context.Context, session *StudySession, question string, useContext bool) (*model.ChatRecord, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrInvalidInput
	}

	session.mu.Lock()
	level, docContext := session.level(), session.Context
	session.mu.Unlock()

	prompt := level.Prompt() + question
	grounding := prompt
	if useContext && docContext != "" {
		grounding = docContext
	}

	record := &model.ChatRecord{
		Title:    questionTitle(level, question),
		Question: question,
		Answer:   s.answer(ctx, prompt, grounding),
	}
	if err := s.history.save(ctx, record); err != nil {
		return nil, err
	}
	s.activate(session, record.ID)
	return record, nil
}

// AskSuggestion answers one of the smart suggestions against the uploaded
// document. The suggestion doubles as the record title.
func (s *StudyService) AskSuggestion(ctx context.Context, session *StudySession, suggestion string) (*model.ChatRecord, error) {
	suggestion = strings.TrimSpace(suggestion)
	if suggestion == "" {
		return nil, ErrInvalidInput
	}

	session.mu.Lock()
	level, docContext := session.level(), session.Context
	session.mu.Unlock()
	if docContext == "" {
		return nil, ErrNoContext
	}

	record := &model.ChatRecord{
		Title:    suggestion,
		Question: suggestion,
		Answer:   s.answer(ctx, level.Prompt()+suggestion, docContext),
	}
	if err := s.history.save(ctx, record); err != nil {
		return nil, err
	}
	s.activate(session, record.ID)
	return record, nil
}

// SummarizeAndRecord summarizes documentText, or the session context when it
// is blank. An identical earlier summary is reused and created is false.
func (s *StudyService) SummarizeAndRecord(ctx context.Context, session *StudySession, documentText string) (record *model.ChatRecord, created bool, err error) {
	session.mu.Lock()
	level, docContext := session.level(), session.Context
	session.mu.Unlock()

	text := strings.TrimSpace(documentText)
	if text == "" {
		text = strings.TrimSpace(docContext)
	}
	if text == "" {
		return nil, false, ErrNoContext
	}

	title := fmt.Sprintf("Summary (%s)", level)
	question := fmt.Sprintf("Summarize this document (%s)", level)
	answer := s.summarize(ctx, text, level.SummaryMaxLen())

	existing, err := s.history.records.FindByContent(title, question, answer)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		s.activate(session, existing.ID)
		return existing, false, nil
	}

	record = &model.ChatRecord{Title: title, Question: question, Answer: answer}
	if err := s.history.save(ctx, record); err != nil {
		return nil, false, err
	}
	s.activate(session, record.ID)
	return record, true, nil
}

// IngestDocument extracts the text of an uploaded document into the session
// context. A document without text clears the context and reports Empty.
func (s *StudyService) IngestDocument(ctx context.Context, session *StudySession, r io.Reader, kind extract.Kind) (*ExtractionResult, error) {
	text, err := s.extractor.ExtractText(ctx, r, kind)
	if err != nil {
		s.metrics.DocumentExtracted(string(kind), "error")
		return nil, err
	}
	text = strings.TrimSpace(text)

	session.mu.Lock()
	session.Context = text
	session.mu.Unlock()

	if text == "" {
		s.metrics.DocumentExtracted(string(kind), "empty")
		return &ExtractionResult{
			Kind:        kind,
			Empty:       true,
			Message:     noTextGuidance,
			Suggestions: []string{},
		}, nil
	}

	s.metrics.DocumentExtracted(string(kind), "text")
	s.log.Info("document ingested",
		zap.String("session_id", session.ID),
		zap.String("kind", string(kind)),
		zap.Int("characters", utf8.RuneCountInString(text)),
	)
	return &ExtractionResult{
		Kind:        kind,
		Characters:  utf8.RuneCountInString(text),
		Suggestions: append([]string(nil), Suggestions...),
	}, nil
}

// SuggestionsFor returns the smart suggestions when the session holds a document.
func (s *StudyService) SuggestionsFor(session *StudySession) []string {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.Context == "" {
		return []string{}
	}
	return append([]string(nil), Suggestions...)
}

// ActiveRecord returns the record the session last produced or opened, or
// nil when there is none or it has been deleted.
func (s *StudyService) ActiveRecord(session *StudySession) (*model.ChatRecord, error) {
	session.mu.Lock()
	id := session.ActiveRecordID
	session.mu.Unlock()
	if id == "" {
		return nil, nil
	}

	record, err := s.history.records.Get(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		session.mu.Lock()
		if session.ActiveRecordID == id {
			session.ActiveRecordID = ""
		}
		session.mu.Unlock()
	}
	return record, nil
}

func (s *StudyService) answer(ctx context.Context, prompt, grounding string) string {
	start := time.Now()
	out, err := s.inference.Answer(ctx, prompt, grounding)
	out = strings.TrimSpace(out)
	s.metrics.ObserveInference(metrics.CapabilityAnswer, start, err != nil || out == "")

	switch {
	case errors.Is(err, ai.ErrEmptyOutput):
		return emptyAnswerText
	case err != nil:
		s.log.Warn("answer generation failed", zap.Error(err))
		return "Answer generation failed: " + err.Error()
	case out == "":
		return emptyAnswerText
	}
	return out
}

func (s *StudyService) summarize(ctx context.Context, text string, maxLen int) string {
	if utf8.RuneCountInString(text) < minSummaryChars {
		return shortTextSummary
	}

	start := time.Now()
	out, err := s.inference.Summarize(ctx, text, maxLen)
	out = strings.TrimSpace(out)
	s.metrics.ObserveInference(metrics.CapabilitySummarize, start, err != nil || out == "")

	switch {
	case errors.Is(err, ai.ErrEmptyOutput):
		return emptyAnswerText
	case err != nil:
		s.log.Warn("summary generation failed", zap.Error(err))
		return "Summary generation failed: " + err.Error()
	case out == "":
		return emptyAnswerText
	}
	return out
}

func (s *StudyService) activate(session *StudySession, recordID string) {
	session.mu.Lock()
	session.ActiveRecordID = recordID
	session.mu.Unlock()
}

func questionTitle(level EducationLevel, question string) string {
	runes := []rune(question)
	if len(runes) <= titleQuestionRune {
		return fmt.Sprintf("%s - %s", level, question)
	}
	return fmt.Sprintf("%s - %s...", level, string(runes[:titleQuestionRune]))
}
