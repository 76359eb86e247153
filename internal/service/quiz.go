package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/aliskhannn/wordplan/internal/clock"
	"github.com/aliskhannn/wordplan/internal/domain/entities"
)

// TestScope selects the words a test is built from.
type TestScope string

const (
	ScopeToday    TestScope = "today"    // words touched today
	ScopeMistakes TestScope = "mistakes" // all missed words, most missed first
	ScopeLearned  TestScope = "learned"  // every learned word
)

const optionsPerQuestion = 4

func ParseTestScope(s string) (TestScope, error) {
	switch sc := TestScope(s); sc {
	case ScopeToday, ScopeMistakes, ScopeLearned:
		return sc, nil
	}
	return "", fmt.Errorf("unknown test scope %q", s)
}

// Question is a multiple choice question asking for the meaning of a word.
type Question struct {
	Word    entities.Word
	Options []string
	Correct int
}

// IsCorrect reports whether option i is the right answer.
func (q Question) IsCorrect(i int) bool {
	return i == q.Correct
}

// BuildTest selects up to size words for scope and generates meaning
// questions with distractors from the plan's pool.
func (s *Session) BuildTest(ctx context.Context, scope TestScope, size int) []Question {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick(ctx)
	pool := s.pool()

	var words []entities.Word
	switch scope {
	case ScopeToday:
		words = ReviewTask(pool, s.st.progress, ReviewToday, now, clock.StartOfDay(now, s.loc))
	case ScopeMistakes:
		for _, m := range MistakesList(pool, s.st.progress, s.st.day, MistakesAll) {
			words = append(words, m.Word)
		}
	default:
		for _, w := range pool {
			if !isNew(s.st.progress, w.Word) {
				words = append(words, w)
			}
		}
	}
	if size > 0 && len(words) > size {
		words = words[:size]
	}

	var seed uint64
	if s.st.plan != nil {
		seed = uint64(s.st.plan.Seed)
	}
	gen := newOptionGenerator(pool, rand.New(rand.NewPCG(seed, uint64(now.UnixNano()))))

	questions := make([]Question, 0, len(words))
	for _, w := range words {
		questions = append(questions, gen.question(w))
	}
	return questions
}

// optionGenerator builds answer options from the meanings of other words.
type optionGenerator struct {
	pool []entities.Word
	rng  *rand.Rand
}

func newOptionGenerator(pool []entities.Word, rng *rand.Rand) *optionGenerator {
	return &optionGenerator{pool: pool, rng: rng}
}

func (g *optionGenerator) question(w entities.Word) Question {
	wrong := g.wrongOptions(w, optionsPerQuestion-1)

	correct := g.rng.IntN(len(wrong) + 1)
	options := slices.Insert(wrong, correct, w.Meaning)

	return Question{Word: w, Options: options, Correct: correct}
}

// wrongOptions returns up to count distinct meanings other than w's.
func (g *optionGenerator) wrongOptions(w entities.Word, count int) []string {
	used := map[string]bool{w.Meaning: true}
	out := make([]string, 0, count)

	for _, i := range g.rng.Perm(len(g.pool)) {
		if len(out) == count {
			break
		}
		m := g.pool[i].Meaning
		if m == "" || used[m] {
			continue
		}
		used[m] = true
		out = append(out, m)
	}
	return out
}
