package dto

import "fmt"

// Event type names as they appear on the wire and in the event ledger.
const (
	EventUserLogin           = "user_login"
	EventOnboardingCompleted = "onboarding_completed"
	EventStreakUpdated       = "streak_updated"
	EventTrailCompleted      = "trail_completed"
	EventArticleRead         = "article_read"
	EventArticleBookmarked   = "article_bookmarked"
	EventQuestionAnswered    = "question_answered"
	EventQuizCompleted       = "quiz_completed"
	EventCertificateEarned   = "certificate_earned"
	EventTimeSpent           = "time_spent"
)

// Event is the closed set of domain events the achievement engine
// evaluates. Payload feeds the event ledger row.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
}

type LoginEvent struct{}

func (LoginEvent) EventType() string { return EventUserLogin }
func (LoginEvent) Payload() map[string]interface{} { return map[string]interface{}{} }

type OnboardingCompletedEvent struct{}

func (OnboardingCompletedEvent) EventType() string { return EventOnboardingCompleted }
func (OnboardingCompletedEvent) Payload() map[string]interface{} { return map[string]interface{}{} }

type StreakUpdatedEvent struct {
	CurrentStreak int `json:"current_streak"`
}

func (StreakUpdatedEvent) EventType() string { return EventStreakUpdated }
func (e StreakUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"current_streak": e.CurrentStreak}
}

type TrailCompletedEvent struct {
	TrailID      string `json:"trail_id"`
	PerfectScore bool   `json:"perfect_score"`
	Sequential   bool   `json:"sequential"`
}

func (TrailCompletedEvent) EventType() string { return EventTrailCompleted }
func (e TrailCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"trail_id":      e.TrailID,
		"perfect_score": e.PerfectScore,
		"sequential":    e.Sequential,
	}
}

type ArticleReadEvent struct {
	ArticleID string `json:"article_id"`
}

func (ArticleReadEvent) EventType() string { return EventArticleRead }
func (e ArticleReadEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"article_id": e.ArticleID}
}

type ArticleBookmarkedEvent struct {
	ArticleID string `json:"article_id"`
}

func (ArticleBookmarkedEvent) EventType() string { return EventArticleBookmarked }
func (e ArticleBookmarkedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"article_id": e.ArticleID}
}

type QuestionAnsweredEvent struct {
	QuestionID string `json:"question_id"`
	Correct    bool   `json:"correct"`
}

func (QuestionAnsweredEvent) EventType() string { return EventQuestionAnswered }
func (e QuestionAnsweredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"question_id": e.QuestionID, "correct": e.Correct}
}

type QuizCompletedEvent struct {
	QuizID       string `json:"quiz_id"`
	Score        int    `json:"score"`
	PerfectScore bool   `json:"perfect_score"`
}

func (QuizCompletedEvent) EventType() string { return EventQuizCompleted }
func (e QuizCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"quiz_id":       e.QuizID,
		"score":         e.Score,
		"perfect_score": e.PerfectScore,
	}
}

type CertificateEarnedEvent struct {
	CertificateID string `json:"certificate_id"`
	Score         int    `json:"score"`
}

func (CertificateEarnedEvent) EventType() string { return EventCertificateEarned }
func (e CertificateEarnedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"certificate_id": e.CertificateID, "score": e.Score}
}

type TimeSpentEvent struct {
	Seconds int `json:"seconds"`
}

func (TimeSpentEvent) EventType() string { return EventTimeSpent }
func (e TimeSpentEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"seconds": e.Seconds}
}

// TrackEventRequest is the HTTP shape for event ingestion; content
// modules push their domain events here. Fields beyond Type are read
// per event type.
type TrackEventRequest struct {
	Type          string `json:"type" validate:"required"`
	ResourceID    string `json:"resource_id"`
	Score         int    `json:"score" validate:"gte=0"`
	Correct       bool   `json:"correct"`
	PerfectScore  bool   `json:"perfect_score"`
	Sequential    bool   `json:"sequential"`
	Seconds       int    `json:"seconds" validate:"gte=0"`
	CurrentStreak int    `json:"current_streak" validate:"gte=0"`
}

func (r TrackEventRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ToEvent converts the wire shape into the typed event.
func (r *TrackEventRequest) ToEvent() (Event, error) {
	switch r.Type {
	case EventUserLogin:
		return LoginEvent{}, nil
	case EventOnboardingCompleted:
		return OnboardingCompletedEvent{}, nil
	case EventStreakUpdated:
		return StreakUpdatedEvent{CurrentStreak: r.CurrentStreak}, nil
	case EventTrailCompleted:
		return TrailCompletedEvent{TrailID: r.ResourceID, PerfectScore: r.PerfectScore, Sequential: r.Sequential}, nil
	case EventArticleRead:
		return ArticleReadEvent{ArticleID: r.ResourceID}, nil
	case EventArticleBookmarked:
		return ArticleBookmarkedEvent{ArticleID: r.ResourceID}, nil
	case EventQuestionAnswered:
		return QuestionAnsweredEvent{QuestionID: r.ResourceID, Correct: r.Correct}, nil
	case EventQuizCompleted:
		return QuizCompletedEvent{QuizID: r.ResourceID, Score: r.Score, PerfectScore: r.PerfectScore}, nil
	case EventCertificateEarned:
		return CertificateEarnedEvent{CertificateID: r.ResourceID, Score: r.Score}, nil
	case EventTimeSpent:
		return TimeSpentEvent{Seconds: r.Seconds}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", r.Type)
	}
}
