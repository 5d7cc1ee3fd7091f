package app

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

type EducationLevel string

const (
	LevelBasic    EducationLevel = "Basic"
	LevelSHS      EducationLevel = "SHS"
	LevelTertiary EducationLevel = "Tertiary"
)

func ParseEducationLevel(raw string) (EducationLevel, error) {
	for _, level := range []EducationLevel{LevelBasic, LevelSHS, LevelTertiary} {
		if strings.EqualFold(strings.TrimSpace(raw), string(level)) {
			return level, nil
		}
	}
	return "", fmt.Errorf("%w: unknown education level %q", ErrInvalidInput, raw)
}

// Prompt returns the instruction prefixed to questions asked at this level.
func (l EducationLevel) Prompt() string {
	switch l {
	case LevelSHS:
		return "Explain for high school level: "
	case LevelTertiary:
		return "Provide detailed academic explanation: "
	default:
		return "Explain simply like to a 10-year-old: "
	}
}

// SummaryMaxLen is the summary length budget for this level.
func (l EducationLevel) SummaryMaxLen() int {
	if l == LevelBasic {
		return 130
	}
	return 200
}

type LearningStyle string

const (
	StyleVisual         LearningStyle = "visual"
	StyleAuditory       LearningStyle = "auditory"
	StyleReadingWriting LearningStyle = "reading_writing"
	StyleKinesthetic    LearningStyle = "kinesthetic"
)

func ParseLearningStyle(raw string) (LearningStyle, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("/", "_", "-", "_", " ", "_").Replace(normalized)
	for _, style := range []LearningStyle{StyleVisual, StyleAuditory, StyleReadingWriting, StyleKinesthetic} {
		if normalized == string(style) {
			return style, nil
		}
	}
	return "", fmt.Errorf("%w: unknown learning style %q", ErrInvalidInput, raw)
}

// StudySession is the transient per-client state. Every mutation goes through
// the owning service while holding mu.
type StudySession struct {
	mu sync.Mutex

	ID             string
	EducationLevel EducationLevel
	LearningStyle  LearningStyle
	Context        string
	ActiveRecordID string
	Plan           *StudyPlan
	Quiz           *Quiz
	QuizzesTaken   int
	QuizzesCorrect int
	CreatedAt      time.Time
}

// SessionView is a point-in-time copy of a session for presentation.
type SessionView struct {
	ID             string         `json:"id"`
	EducationLevel EducationLevel `json:"education_level"`
	LearningStyle  LearningStyle  `json:"learning_style"`
	HasContext     bool           `json:"has_context"`
	ActiveRecordID string         `json:"active_record_id,omitempty"`
	HasPlan        bool           `json:"has_plan"`
	HasQuiz        bool           `json:"has_quiz"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (s *StudySession) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionView{
		ID:             s.ID,
		EducationLevel: s.EducationLevel,
		LearningStyle:  s.LearningStyle,
		HasContext:     s.Context != "",
		ActiveRecordID: s.ActiveRecordID,
		HasPlan:        s.Plan != nil,
		HasQuiz:        s.Quiz != nil,
		CreatedAt:      s.CreatedAt,
	}
}

func (s *StudySession) level() EducationLevel {
	if s.EducationLevel == "" {
		return LevelBasic
	}
	return s.EducationLevel
}

type SessionSettings struct {
	EducationLevel *string
	LearningStyle  *string
}

// SessionStore keeps sessions in memory and expires them after idleTTL
// without access.
type SessionStore struct {
	cache *gocache.Cache
	now   func() time.Time
}

func NewSessionStore(idleTTL time.Duration) *SessionStore {
	if idleTTL <= 0 {
		idleTTL = 2 * time.Hour
	}
	return &SessionStore{
		cache: gocache.New(idleTTL, idleTTL/2),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *SessionStore) Create(settings SessionSettings) (*StudySession, error) {
	session := &StudySession{
		ID:             uuid.NewString(),
		EducationLevel: LevelBasic,
		LearningStyle:  StyleReadingWriting,
		CreatedAt:      s.now(),
	}
	if err := applySettings(session, settings); err != nil {
		return nil, err
	}
	s.cache.Set(session.ID, session, gocache.DefaultExpiration)
	return session, nil
}

// Get returns the session and restarts its idle timer.
func (s *SessionStore) Get(id string) (*StudySession, error) {
	item, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	session := item.(*StudySession)
	s.cache.Set(id, session, gocache.DefaultExpiration)
	return session, nil
}

func (s *SessionStore) Update(session *StudySession, settings SessionSettings) error {
	session.mu.Lock()
	defer session.mu.Unlock()
	return applySettings(session, settings)
}

func (s *SessionStore) Delete(id string) {
	s.cache.Delete(id)
}

func (s *SessionStore) Count() int {
	return s.cache.ItemCount()
}

func applySettings(session *StudySession, settings SessionSettings) error {
	level, style := session.EducationLevel, session.LearningStyle
	if settings.EducationLevel != nil {
		parsed, err := ParseEducationLevel(*settings.EducationLevel)
		if err != nil {
			return err
		}
		level = parsed
	}
	if settings.LearningStyle != nil {
		parsed, err := ParseLearningStyle(*settings.LearningStyle)
		if err != nil {
			return err
		}
		style = parsed
	}
	session.EducationLevel, session.LearningStyle = level, style
	return nil
}
