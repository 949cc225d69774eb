package domain

type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

type QuizQuestion struct {
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	Answer         string   `json:"answer"`
	Subject        string   `json:"subject"`
	Chapter        string   `json:"chapter"`
	Difficulty     string   `json:"difficulty"`
	Marks          int      `json:"marks"`
	Hint           string   `json:"hint,omitempty"`
	QuestionNumber int      `json:"question_number"`
}

// QuizEvaluation summarizes a submitted attempt, with per-subject breakdowns.
type QuizEvaluation struct {
	TotalQuestions int                        `json:"total_questions"`
	CorrectAnswers int                        `json:"correct_answers"`
	TotalMarks     int                        `json:"total_marks"`
	ObtainedMarks  int                        `json:"obtained_marks"`
	Percentage     float64                    `json:"percentage"`
	Details        []QuizAnswerDetail         `json:"details"`
	BySubject      map[string]QuizGroupResult `json:"subject_analysis"`
	ByChapter      map[string]QuizGroupResult `json:"chapter_analysis"`
}

type QuizAnswerDetail struct {
	QuestionNumber int    `json:"question_number"`
	Question       string `json:"question"`
	UserAnswer     string `json:"user_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
	Subject        string `json:"subject"`
	Chapter        string `json:"chapter"`
	Marks          int    `json:"marks"`
	ObtainedMarks  int    `json:"obtained_marks"`
}

type QuizGroupResult struct {
	TotalQuestions int `json:"total_questions"`
	CorrectAnswers int `json:"correct_answers"`
	TotalMarks     int `json:"total_marks"`
	ObtainedMarks  int `json:"obtained_marks"`
}
