package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"edumate/internal/metrics"
	"edumate/internal/model"
	"edumate/internal/repository"
)

var ErrQuizSubmitted = errors.New("quiz already submitted")

// AllowedQuizSizes lists the supported numbers of questions per quiz.
var AllowedQuizSizes = []int{5, 10, 15, 20}

// AttemptRecorder persists graded quiz attempts.
type AttemptRecorder interface {
	Record(ctx context.Context, attempt model.QuizAttempt) error
}

// AttemptStats reports attempts already persisted for a session.
type AttemptStats interface {
	StatsBySessionID(sessionID string) (repository.QuizStats, error)
}

type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  int      `json:"-"`
}

type Quiz struct {
	ID        string         `json:"id"`
	Topic     string         `json:"topic"`
	Questions []QuizQuestion `json:"questions"`
	Submitted bool           `json:"submitted"`
	CreatedAt time.Time      `json:"created_at"`
}

func (q *Quiz) clone() *Quiz {
	out := *q
	out.Questions = append([]QuizQuestion(nil), q.Questions...)
	return &out
}

type QuestionFeedback struct {
	Index     int    `json:"index"`
	Chosen    string `json:"chosen"`
	Answer    string `json:"answer"`
	IsCorrect bool   `json:"is_correct"`
	Message   string `json:"message"`
}

type QuizResult struct {
	QuizID   string             `json:"quiz_id"`
	Score    int                `json:"score"`
	Total    int                `json:"total"`
	Feedback []QuestionFeedback `json:"feedback"`
}

type ProgressReport struct {
	QuizzesTaken     int     `json:"quizzes_taken"`
	TotalCorrect     int     `json:"total_correct"`
	AverageScore     float64 `json:"average_score"`
	AttemptsRecorded int     `json:"attempts_recorded"`
	PlanSteps        int     `json:"plan_steps"`
	PlanCompleted    int     `json:"plan_completed"`
}

type QuizService struct {
	inference Inference
	recorder  AttemptRecorder
	stats     AttemptStats
	metrics   *metrics.Registry
	log       *zap.Logger
}

// NewQuizService builds the quiz service. stats may be nil.
func NewQuizService(inference Inference, recorder AttemptRecorder, stats AttemptStats, reg *metrics.Registry, log *zap.Logger) *QuizService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuizService{
		inference: inference,
		recorder:  recorder,
		stats:     stats,
		metrics:   reg,
		log:       log,
	}
}

// Generate creates an n-question multiple choice quiz on topic and stores it
// on the session. Generated questions are topped up with built-in ones.
func (s *QuizService) Generate(ctx context.Context, session *StudySession, topic string, n int) (*Quiz, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" || !validQuizSize(n) {
		return nil, ErrInvalidInput
	}

	prompt := fmt.Sprintf("Generate %d multiple choice quiz questions about %s with 1 correct answer and 2 distractors for each. "+
		"Format: Q: ...\nA) ...\nB) ...\nC) ...\nCorrect: ...", n, topic)
	start := time.Now()
	out, err := s.inference.Generate(ctx, prompt)
	s.metrics.ObserveInference(metrics.CapabilityGenerate, start, err != nil)

	var questions []QuizQuestion
	if err != nil {
		s.log.Warn("quiz generation failed", zap.Error(err))
	} else {
		questions = parseQuiz(out, n)
	}
	questions = padQuiz(questions, topic, n)

	quiz := &Quiz{
		ID:        uuid.NewString(),
		Topic:     topic,
		Questions: questions,
		CreatedAt: time.Now().UTC(),
	}
	session.mu.Lock()
	session.Quiz = quiz
	session.mu.Unlock()
	return quiz.clone(), nil
}

func (s *QuizService) Current(session *StudySession) (*Quiz, error) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.Quiz == nil {
		return nil, ErrNoQuiz
	}
	return session.Quiz.clone(), nil
}

// Submit grades one answer index per question and records the attempt.
func (s *QuizService) Submit(ctx context.Context, session *StudySession, answers []int) (*QuizResult, error) {
	session.mu.Lock()
	quiz := session.Quiz
	if quiz == nil {
		session.mu.Unlock()
		return nil, ErrNoQuiz
	}
	if quiz.Submitted {
		session.mu.Unlock()
		return nil, ErrQuizSubmitted
	}
	if len(answers) != len(quiz.Questions) {
		session.mu.Unlock()
		return nil, ErrInvalidInput
	}
	for i, a := range answers {
		if a < 0 || a >= len(quiz.Questions[i].Options) {
			session.mu.Unlock()
			return nil, ErrInvalidInput
		}
	}

	result := &QuizResult{
		QuizID:   quiz.ID,
		Total:    len(quiz.Questions),
		Feedback: make([]QuestionFeedback, 0, len(quiz.Questions)),
	}
	for i, q := range quiz.Questions {
		fb := QuestionFeedback{
			Index:     i,
			Chosen:    q.Options[answers[i]],
			Answer:    q.Options[q.Correct],
			IsCorrect: answers[i] == q.Correct,
		}
		if fb.IsCorrect {
			result.Score++
			fb.Message = "Correct! The answer is: " + fb.Answer
		} else {
			fb.Message = fmt.Sprintf("Not quite. You chose: %s. Correct answer: %s", fb.Chosen, fb.Answer)
		}
		result.Feedback = append(result.Feedback, fb)
	}
	quiz.Submitted = true
	session.QuizzesTaken++
	session.QuizzesCorrect += result.Score
	attempt := model.QuizAttempt{
		SessionID: session.ID,
		Topic:     quiz.Topic,
		Total:     result.Total,
		Correct:   result.Score,
		CreatedAt: time.Now().UTC(),
	}
	session.mu.Unlock()

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, attempt); err != nil {
			s.log.Warn("record quiz attempt failed", zap.String("session_id", attempt.SessionID), zap.Error(err))
		}
	}
	return result, nil
}

// Progress summarizes the session's quizzes and study plan. The average is
// correct answers per quiz taken.
func (s *QuizService) Progress(session *StudySession) (*ProgressReport, error) {
	session.mu.Lock()
	report := &ProgressReport{
		QuizzesTaken: session.QuizzesTaken,
		TotalCorrect: session.QuizzesCorrect,
	}
	if session.Plan != nil {
		report.PlanSteps = len(session.Plan.Steps)
		report.PlanCompleted = session.Plan.Completed()
	}
	sessionID := session.ID
	session.mu.Unlock()

	if report.QuizzesTaken > 0 {
		report.AverageScore = float64(report.TotalCorrect) / float64(report.QuizzesTaken)
	}
	if s.stats != nil {
		stats, err := s.stats.StatsBySessionID(sessionID)
		if err != nil {
			return nil, err
		}
		report.AttemptsRecorded = stats.Taken
	}
	return report, nil
}

func validQuizSize(n int) bool {
	for _, size := range AllowedQuizSizes {
		if n == size {
			return true
		}
	}
	return false
}

// parseQuiz reads up to n "Q: / A) / B) / C) / Correct:" blocks.
func parseQuiz(raw string, n int) []QuizQuestion {
	var out []QuizQuestion
	for _, block := range strings.Split(raw, "Q:") {
		var lines []string
		for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) < 5 {
			continue
		}

		options := make([]string, 0, 3)
		for _, line := range lines[1:4] {
			options = append(options, trimOptionLabel(line))
		}
		correct := strings.TrimSpace(strings.TrimPrefix(lines[4], "Correct:"))
		out = append(out, QuizQuestion{
			Question: lines[0],
			Options:  options,
			Correct:  correctIndex(correct, options),
		})
		if len(out) >= n {
			break
		}
	}
	return out
}

func trimOptionLabel(line string) string {
	for _, label := range []string{"A)", "B)", "C)"} {
		if strings.HasPrefix(line, label) {
			return strings.TrimSpace(line[len(label):])
		}
	}
	return line
}

func correctIndex(correct string, options []string) int {
	for i, opt := range options {
		if correct == opt {
			return i
		}
	}
	switch strings.ToUpper(strings.TrimSuffix(correct, ")")) {
	case "B":
		return 1
	case "C":
		return 2
	}
	return 0
}

func padQuiz(questions []QuizQuestion, topic string, n int) []QuizQuestion {
	fallback := []QuizQuestion{
		{
			Question: fmt.Sprintf("What is the main idea of %s?", topic),
			Options:  []string{"It is a key concept.", "It is a random topic.", "It is not important."},
		},
		{
			Question: fmt.Sprintf("List one important fact about %s.", topic),
			Options:  []string{"It is widely studied.", "It is rarely discussed.", "It is a new discovery."},
		},
		{
			Question: fmt.Sprintf("Why is %s important?", topic),
			Options:  []string{"It has a big impact.", "It is not useful.", "It is only for fun."},
		},
	}
	for len(questions) < n {
		questions = append(questions, fallback[len(questions)%len(fallback)])
	}
	return questions[:n]
}
