package domain

import "strings"

// Classification is the query-routing label. The classifier may also emit
// ClassDocument/ClassGeneral; the orchestrator only branches on study/profile
// and surfaces everything else as an InvalidResult.
type Classification string

const (
	ClassStudyRelated   Classification = "study-related"
	ClassProfileRelated Classification = "profile-related"
	ClassDocument       Classification = "document"
	ClassGeneral        Classification = "general"
)

// NormalizeClassification lowercases and trims a raw label and reports
// whether it belongs to the recognized set.
func NormalizeClassification(raw string) (Classification, bool) {
	label := Classification(strings.ToLower(strings.TrimSpace(raw)))
	switch label {
	case ClassStudyRelated, ClassProfileRelated, ClassDocument, ClassGeneral:
		return label, true
	default:
		return label, false
	}
}

// QueryParams carries per-request retrieval options. Classification, Subject
// and Chapter, when set, bypass the classifier and the syllabus filter.
type QueryParams struct {
	UserID         string `json:"user_id,omitempty"`
	Classification string `json:"classification,omitempty"`
	Subject        string `json:"subject,omitempty"`
	Chapter        string `json:"chapter,omitempty"`
}

// RetrievalResult is the closed set of retrieval outcomes. Exactly one of
// StudyResult, ProfileResult or InvalidResult comes out of a retrieve call;
// consumers switch on the concrete type.
type RetrievalResult interface {
	retrievalResult()
	ResultClassification() Classification
}

// StudyResult holds ranked document texts, most relevant first, plus the
// resolved syllabus filters. Chapters is advisory metadata; document
// candidates are narrowed by subject only.
type StudyResult struct {
	Documents      []string
	Subjects       []string
	Chapters       []string
	Classification Classification
}

func (StudyResult) retrievalResult() {}

func (r StudyResult) ResultClassification() Classification { return r.Classification }

// ProfileResult carries the user's profile, or a nil Profile when the user
// has none. Absence is an explicit state, not an error.
type ProfileResult struct {
	Profile        *Profile
	Classification Classification
}

func (ProfileResult) retrievalResult() {}

func (r ProfileResult) ResultClassification() Classification { return r.Classification }

// InvalidResult reports a well-formed but unsupported classification.
type InvalidResult struct {
	Classification Classification
	Reason         string
}

func (InvalidResult) retrievalResult() {}

func (r InvalidResult) ResultClassification() Classification { return r.Classification }

// RankedCandidate pairs a candidate document with its ranking signals during
// one retrieval pass.
type RankedCandidate struct {
	Document      Document
	LexicalScore  float64
	SemanticScore float64
}

// QueryResponse is the caller-facing outcome of ProcessQuery.
type QueryResponse struct {
	ParamsInfo    string `json:"params_info"`
	GeneratedText string `json:"generated_text"`
}
