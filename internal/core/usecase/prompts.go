package usecase

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

func buildClassificationPrompt(queryText string) string {
	return fmt.Sprintf(`Classify this query: '%s' into exactly one of: 'study-related', 'profile-related', 'document', 'general'.
Respond with only the label.
Study-related queries are about academic content such as subjects, chapters and topics.
Profile-related queries are about the user themselves: their information, their syllabus for the year, their upcoming events.
Document queries ask about one specific uploaded document. General queries fit none of the above.`, queryText)
}

func buildSyllabusPrompt(queryText, syllabusJSON string) string {
	return fmt.Sprintf(`From the following syllabus, determine the subjects and chapters most relevant to the query: '%s'

Syllabus:
%s

Respond with a JSON object in the format: {"subjects": ["subject1", "subject2"], "chapters": ["chapter1", "chapter2"]}`, queryText, syllabusJSON)
}

func buildGroundedAnswerPrompt(documents []string, queryText string) string {
	return fmt.Sprintf(`Using the following study materials, answer the query:

%s

Query: %s

Answer:`, strings.Join(documents, "\n\n"), queryText)
}

func buildProfileAnswerPrompt(profileJSON, queryText string) string {
	return fmt.Sprintf(`Using the following user profile, answer the query:

%s

Query: %s

Answer:`, profileJSON, queryText)
}

func buildFallbackAnswerPrompt(queryText string) string {
	return fmt.Sprintf(`Answer the following query to the best of your ability:

Query: %s

Answer:`, queryText)
}

func buildDocumentClassificationPrompt(extractedText, syllabusJSON string) string {
	const maxSnippet = 4000
	snippet := extractedText
	if len(snippet) > maxSnippet {
		// Back off to a rune boundary so the cut never splits a
		// multi-byte character.
		cut := maxSnippet
		for cut > 0 && !utf8.RuneStart(snippet[cut]) {
			cut--
		}
		snippet = snippet[:cut]
	}

	return fmt.Sprintf(`You classify study documents against a student's syllabus.
Return a strict JSON object with keys: subject (string), chapter_name (string).
Pick the closest subject and chapter from the syllabus; use an empty string when nothing fits.
No markdown, no extra keys.

Syllabus:
%s

Document:
%s`, syllabusJSON, snippet)
}

func buildQuizPrompt(portionJSON string, numQuestions int) string {
	return fmt.Sprintf(`You are a mcq quiz generator. From the following syllabus, generate a quiz with %d questions based on the user's syllabus.
The syllabus is: %s
Return a JSON object with the following format:
{
  "questions": [
    {
      "question": "What is 2+2?",
      "options": ["3", "4", "5", "6"],
      "answer": "4",
      "subject": "Math",
      "chapter": "Arithmetic",
      "difficulty": "easy",
      "marks": 1,
      "hint": "The answer is 4.",
      "question_number": 1
    }
  ]
}`, numQuestions, portionJSON)
}

func buildFlashcardPrompt(chunk, source string, chunkIndex, cardsPerChunk int) string {
	return fmt.Sprintf(`Create educational flashcards from this content chunk %d.
Focus on key concepts, definitions, relationships, and practical applications.

Content: %s

Generate %d high-quality flashcards that:
1. Cover different difficulty levels (basic to advanced)
2. Include both factual and conceptual questions
3. Encourage critical thinking
4. Are clear and unambiguous

Return a strict JSON object with a single key "flashcards" holding an array of objects with these fields:
{
  "question": "Clear, specific question",
  "answer": "Concise but complete answer",
  "topic": "Specific topic or concept",
  "difficulty": "basic|intermediate|advanced",
  "type": "factual|conceptual|application",
  "source": "%s",
  "chunk_index": %d
}`, chunkIndex+1, chunk, cardsPerChunk, source, chunkIndex)
}

func buildSlidePrompt(chunk string) string {
	return fmt.Sprintf(`You are a teacher generating educational slides. Return a JSON object with the key 'slides' holding an array of markdown strings, one per slide. The content should be aesthetically pleasing and in markdown format to make it easier for beginners to understand. The current context is %s`, chunk)
}

func buildRoadmapPrompt(prompt string, now time.Time) string {
	return fmt.Sprintf(`Generate a study roadmap for the most efficient learning. Additional prompt by the student: %s
Today's date is %s.
Return a strict JSON object with keys: goal (string), steps (array of objects with keys title, description, duration_days).
No markdown, no extra keys.`, prompt, now.Format("2006-01-02"))
}
