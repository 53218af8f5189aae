package memory

import (
	"github.com/quizmaster-pro/exam-service/internal/repositories"
)

// seed loads the demo dataset: five math chapters, a question bank
// covering each, and the two demo accounts.
func (m *repositoryManager) seed() {
	for _, c := range repositories.DemoChapters() {
		m.chapters[c.ID] = c
	}
	for _, q := range repositories.DemoQuestions() {
		m.questions[q.ID] = q
	}
	for _, u := range repositories.DemoUsers() {
		m.users[u.ID] = u
	}
}
