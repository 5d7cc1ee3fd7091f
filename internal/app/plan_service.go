package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"edumate/internal/metrics"
)

const maxPlanWeeks = 52

type PlanStep struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type StudyPlan struct {
	Goal      string     `json:"goal"`
	Steps     []PlanStep `json:"steps"`
	CreatedAt time.Time  `json:"created_at"`
}

func (p *StudyPlan) Completed() int {
	n := 0
	for _, step := range p.Steps {
		if step.Done {
			n++
		}
	}
	return n
}

func (p *StudyPlan) clone() *StudyPlan {
	out := *p
	out.Steps = append([]PlanStep(nil), p.Steps...)
	return &out
}

type PlanService struct {
	inference Inference
	metrics   *metrics.Registry
	log       *zap.Logger
}

func NewPlanService(inference Inference, reg *metrics.Registry, log *zap.Logger) *PlanService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlanService{inference: inference, metrics: reg, log: log}
}

// Generate builds a one-subtopic-per-week plan for goal and stores it on the
// session, replacing any earlier plan.
func (s *PlanService) Generate(ctx context.Context, session *StudySession, goal string, weeks int) (*StudyPlan, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" || weeks < 1 || weeks > maxPlanWeeks {
		return nil, ErrInvalidInput
	}

	subtopics := s.subtopics(ctx, goal, weeks)
	plan := &StudyPlan{
		Goal:      goal,
		Steps:     make([]PlanStep, 0, weeks),
		CreatedAt: time.Now().UTC(),
	}
	for i := 0; i < weeks; i++ {
		plan.Steps = append(plan.Steps, PlanStep{Title: fmt.Sprintf("Week %d: Study %s", i+1, subtopics[i])})
	}

	session.mu.Lock()
	session.Plan = plan
	session.mu.Unlock()
	return plan.clone(), nil
}

func (s *PlanService) Current(session *StudySession) (*StudyPlan, error) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.Plan == nil {
		return nil, ErrNoPlan
	}
	return session.Plan.clone(), nil
}

func (s *PlanService) ToggleStep(session *StudySession, index int) (*StudyPlan, error) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.Plan == nil {
		return nil, ErrNoPlan
	}
	if index < 0 || index >= len(session.Plan.Steps) {
		return nil, ErrInvalidInput
	}
	session.Plan.Steps[index].Done = !session.Plan.Steps[index].Done
	return session.Plan.clone(), nil
}

// subtopics asks the generator for n subtopics and falls back to numbered
// placeholders when it fails or comes up short.
func (s *PlanService) subtopics(ctx context.Context, goal string, n int) []string {
	start := time.Now()
	out, err := s.inference.Generate(ctx, fmt.Sprintf("List %d important subtopics to study for %s.", n, goal))
	s.metrics.ObserveInference(metrics.CapabilityGenerate, start, err != nil)
	if err != nil {
		s.log.Warn("study plan generation failed", zap.Error(err))
	}

	topics := parseSubtopics(out)
	if err != nil || len(topics) < n {
		topics = make([]string, n)
		for i := range topics {
			topics[i] = fmt.Sprintf("Subtopic %d of %s", i+1, goal)
		}
	}
	return topics
}

func parseSubtopics(raw string) []string {
	var parts []string
	if strings.Contains(raw, "\n") {
		for _, line := range strings.Split(raw, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if topic := strings.TrimSpace(strings.Trim(line, "- ")); topic != "" {
				parts = append(parts, topic)
			}
		}
		return parts
	}
	for _, item := range strings.Split(raw, ",") {
		if topic := strings.TrimSpace(item); topic != "" {
			parts = append(parts, topic)
		}
	}
	return parts
}
