package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/vanshm/study-assistant/internal/core/domain"
	"github.com/vanshm/study-assistant/internal/core/ports"
)

const quizMaxTokens = 2000

// QuizUseCase generates MCQ quizzes scoped to a portion of the user's
// syllabus and evaluates submitted attempts.
type QuizUseCase struct {
	profiles   ports.ProfileStore
	completion ports.TextCompletion
}

func NewQuizUseCase(profiles ports.ProfileStore, completion ports.TextCompletion) *QuizUseCase {
	return &QuizUseCase{profiles: profiles, completion: completion}
}

// Generate builds a quiz from the named subjects of the user's syllabus, or
// from the whole syllabus when portion is empty.
func (uc *QuizUseCase) Generate(ctx context.Context, userID string, portion []string, numQuestions int) (*domain.Quiz, error) {
	if userID == "" {
		return nil, domain.WrapError(domain.ErrMissingUserID, "generate quiz", fmt.Errorf("empty user_id"))
	}
	if numQuestions <= 0 {
		numQuestions = 5
	}

	profile, err := uc.profiles.FindProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		return nil, domain.WrapError(domain.ErrProfileNotFound, "generate quiz", fmt.Errorf("user %s", userID))
	}

	allowed := filterSyllabusPortion(profile.Syllabus, portion)
	portionJSON, err := json.Marshal(allowed)
	if err != nil {
		return nil, fmt.Errorf("marshal syllabus portion: %w", err)
	}

	raw, err := uc.completion.CompleteJSON(ctx, buildQuizPrompt(string(portionJSON), numQuestions), quizMaxTokens, 0.3)
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	var quiz domain.Quiz
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &quiz); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse quiz json", err)
	}
	if len(quiz.Questions) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse quiz json", fmt.Errorf("quiz has no questions"))
	}
	return &quiz, nil
}

// filterSyllabusPortion keeps the syllabus entries whose subject is named in
// portion; an empty portion means the whole syllabus.
func filterSyllabusPortion(syllabus []domain.SyllabusEntry, portion []string) []domain.SyllabusEntry {
	if len(portion) == 0 {
		return syllabus
	}
	allowed := make([]domain.SyllabusEntry, 0, len(portion))
	for _, entry := range syllabus {
		for _, subject := range portion {
			if entry.Subject == subject {
				allowed = append(allowed, entry)
				break
			}
		}
	}
	return allowed
}

// Evaluate scores a submitted attempt. Answers are keyed by question number.
func (uc *QuizUseCase) Evaluate(quiz *domain.Quiz, answers map[int]string) (*domain.QuizEvaluation, error) {
	if quiz == nil || len(quiz.Questions) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "evaluate quiz", fmt.Errorf("quiz has no questions"))
	}

	eval := &domain.QuizEvaluation{
		TotalQuestions: len(quiz.Questions),
		Details:        make([]domain.QuizAnswerDetail, 0, len(quiz.Questions)),
		BySubject:      make(map[string]domain.QuizGroupResult),
		ByChapter:      make(map[string]domain.QuizGroupResult),
	}

	for _, question := range quiz.Questions {
		userAnswer := answers[question.QuestionNumber]
		isCorrect := userAnswer != "" && userAnswer == question.Answer

		obtained := 0
		if isCorrect {
			eval.CorrectAnswers++
			obtained = question.Marks
		}
		eval.TotalMarks += question.Marks
		eval.ObtainedMarks += obtained

		eval.Details = append(eval.Details, domain.QuizAnswerDetail{
			QuestionNumber: question.QuestionNumber,
			Question:       question.Question,
			UserAnswer:     userAnswer,
			CorrectAnswer:  question.Answer,
			IsCorrect:      isCorrect,
			Subject:        question.Subject,
			Chapter:        question.Chapter,
			Marks:          question.Marks,
			ObtainedMarks:  obtained,
		})

		accumulateGroup(eval.BySubject, question.Subject, question.Marks, obtained, isCorrect)
		accumulateGroup(eval.ByChapter, question.Chapter, question.Marks, obtained, isCorrect)
	}

	if eval.TotalMarks > 0 {
		eval.Percentage = math.Round(float64(eval.ObtainedMarks)/float64(eval.TotalMarks)*10000) / 100
	}
	return eval, nil
}

func accumulateGroup(groups map[string]domain.QuizGroupResult, key string, marks, obtained int, correct bool) {
	group := groups[key]
	group.TotalQuestions++
	group.TotalMarks += marks
	if correct {
		group.CorrectAnswers++
		group.ObtainedMarks += obtained
	}
	groups[key] = group
}
