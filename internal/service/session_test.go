package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/wordplan/internal/catalog"
	"github.com/aliskhannn/wordplan/internal/clock"
	"github.com/aliskhannn/wordplan/internal/domain/entities"
	"github.com/aliskhannn/wordplan/internal/repository"
)

var t0 = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func testCatalog() *catalog.Catalog {
	return catalog.New([]entities.Book{
		{ID: "fruits", Words: []entities.Word{
			{Word: "cherry"}, {Word: "apple"}, {Word: "banana"},
		}},
		{ID: "pets", Words: []entities.Word{
			{Word: "dog"}, {Word: "cat"}, {Word: "bird"}, {Word: "fish"}, {Word: "mouse"},
		}},
	}, nil)
}

type fixture struct {
	ctx   context.Context
	store *repository.MemoryStore
	clock *clock.Logical
	sess  *Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ctx:   context.Background(),
		store: repository.NewMemoryStore(),
		clock: clock.NewLogical(t0),
	}
	var err error
	f.sess, err = OpenSession(f.ctx, "alice", f.store, testCatalog(), f.clock, time.UTC, zap.NewNop())
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	return f
}

func (f *fixture) savePlan(t *testing.T, books []string, limit int, order entities.LearnOrder) bool {
	t.Helper()
	reset, err := f.sess.SavePlan(f.ctx, entities.PlanDraft{
		SelectedBooks: books,
		PlanMode:      entities.PlanModeCount,
		DailyLimit:    limit,
		LearnOrder:    order,
	})
	if err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	return reset
}

func (f *fixture) learn(t *testing.T, word string, o entities.Outcome) entities.ProgressRecord {
	t.Helper()
	rec, err := f.sess.RecordLearnResult(f.ctx, word, o)
	if err != nil {
		t.Fatalf("RecordLearnResult(%s): %v", word, err)
	}
	return rec
}

func wordsOf(ws []entities.Word) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Word
	}
	return out
}

func TestTodayTaskAlphabeticalPrefix(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits"}, 2, entities.LearnOrderAlphabetical)

	got := wordsOf(f.sess.TodayTask(f.ctx))
	if want := []string{"apple", "banana"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("TodayTask = %v, want %v", got, want)
	}

	f.learn(t, "apple", entities.OutcomeKnow)
	got = wordsOf(f.sess.TodayTask(f.ctx))
	if want := []string{"banana"}; !reflect.DeepEqual(got, want) {
		t.Errorf("TodayTask after one learn = %v, want %v", got, want)
	}

	f.learn(t, "banana", entities.OutcomeKnow)
	if got := f.sess.TodayTask(f.ctx); len(got) != 0 {
		t.Errorf("TodayTask with quota used = %v, want empty", wordsOf(got))
	}

	raw := wordsOf(f.sess.FetchRawNewWords(f.ctx, 5))
	if want := []string{"cherry"}; !reflect.DeepEqual(raw, want) {
		t.Errorf("FetchRawNewWords = %v, want %v", raw, want)
	}
}

func TestTodayTaskWithoutPlan(t *testing.T) {
	f := newFixture(t)
	if got := f.sess.TodayTask(f.ctx); len(got) != 0 {
		t.Errorf("TodayTask without plan = %v", wordsOf(got))
	}
}

func TestLearnDontKnowOnNewWord(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits"}, 2, entities.LearnOrderAlphabetical)

	rec := f.learn(t, "apple", entities.OutcomeDontKnow)
	if rec.Status != entities.StatusLearning || rec.Stage != 0 || rec.ErrorCount != 1 {
		t.Errorf("record = %+v", rec)
	}
	if !rec.NextReview.Equal(t0.Add(5 * time.Minute)) {
		t.Errorf("NextReview = %v, want now+5m", rec.NextReview)
	}

	day := f.sess.DayState(f.ctx)
	if !day.HasMistake("apple") {
		t.Errorf("todayMistakes = %v, want apple", day.TodayMistakes)
	}
	if day.TodayLearnedCount != 1 {
		t.Errorf("TodayLearnedCount = %d, want 1", day.TodayLearnedCount)
	}
}

func TestRepeatedLearnCountsOnce(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits"}, 10, entities.LearnOrderAlphabetical)

	for i := 0; i < 4; i++ {
		f.learn(t, "apple", entities.OutcomeKnow)
		f.clock.Advance(time.Minute)
	}
	f.learn(t, "apple", entities.OutcomeDontKnow)

	if got := f.sess.DayState(f.ctx).TodayLearnedCount; got != 1 {
		t.Errorf("TodayLearnedCount = %d, want 1", got)
	}
}

func TestLearnRejectsUnknownOutcome(t *testing.T) {
	f := newFixture(t)
	if _, err := f.sess.RecordLearnResult(f.ctx, "apple", "maybe"); err == nil {
		t.Error("expected error for unknown outcome")
	}
	if _, err := f.sess.RecordLearnResult(f.ctx, "", entities.OutcomeKnow); err != ErrEmptyWord {
		t.Errorf("err = %v, want ErrEmptyWord", err)
	}
}

func TestReviewOfUnknownWordIsNoop(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits"}, 2, entities.LearnOrderAlphabetical)

	_, ok, err := f.sess.RecordReviewResult(f.ctx, "apple", entities.OutcomeKnow)
	if err != nil || ok {
		t.Fatalf("RecordReviewResult = %v, %v; want no-op", ok, err)
	}
	if _, exists := f.sess.Progress("apple"); exists {
		t.Error("review created a record")
	}
}

func TestReviewAdvancesLearnedWord(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits"}, 2, entities.LearnOrderAlphabetical)

	f.learn(t, "apple", entities.OutcomeKnow)
	now := f.clock.Advance(time.Hour)

	rec, ok, err := f.sess.RecordReviewResult(f.ctx, "apple", entities.OutcomeKnow)
	if err != nil || !ok {
		t.Fatalf("RecordReviewResult = %v, %v", ok, err)
	}
	if rec.Stage != 2 || !rec.NextReview.Equal(now.Add(12*time.Hour)) {
		t.Errorf("record = %+v", rec)
	}
	if got := f.sess.DayState(f.ctx).TodayLearnedCount; got != 1 {
		t.Errorf("review changed TodayLearnedCount to %d", got)
	}

	rec, _, _ = f.sess.RecordReviewResult(f.ctx, "apple", entities.OutcomeDontKnow)
	if rec.Stage != 0 || rec.ErrorCount != 1 {
		t.Errorf("after failed review = %+v", rec)
	}
	if !f.sess.DayState(f.ctx).HasMistake("apple") {
		t.Error("failed review not marked as mistake")
	}
}

func TestTestResultRegressesOneStage(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits"}, 2, entities.LearnOrderAlphabetical)

	for i := 0; i < 3; i++ {
		f.learn(t, "apple", entities.OutcomeKnow)
	}
	before, _ := f.sess.Progress("apple")
	if before.Stage != 3 {
		t.Fatalf("setup stage = %d, want 3", before.Stage)
	}

	rec, err := f.sess.RecordTestResult(f.ctx, "apple", true)
	if err != nil || rec != before {
		t.Fatalf("correct answer changed record: %+v, %v", rec, err)
	}

	rec, _ = f.sess.RecordTestResult(f.ctx, "apple", false)
	if rec.Stage != 2 || rec.ErrorCount != before.ErrorCount+1 || rec.Status != before.Status {
		t.Errorf("after wrong answer = %+v", rec)
	}
	if !f.sess.DayState(f.ctx).HasMistake("apple") {
		t.Error("wrong answer not marked as mistake")
	}
}

func TestTestResultCreatesRecord(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits"}, 2, entities.LearnOrderAlphabetical)

	rec, _ := f.sess.RecordTestResult(f.ctx, "cherry", false)
	if rec.Status != entities.StatusNew || rec.Stage != 0 || rec.ErrorCount != 1 || !rec.FirstLearnedAt.IsZero() {
		t.Errorf("record = %+v", rec)
	}
	if got := wordsOf(f.sess.FetchRawNewWords(f.ctx, 10)); !reflect.DeepEqual(got, []string{"apple", "banana", "cherry"}) {
		t.Errorf("tested word left the new pool: %v", got)
	}
}

func TestDayRollover(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"pets"}, 10, entities.LearnOrderAlphabetical)

	f.learn(t, "cat", entities.OutcomeDontKnow)
	for _, w := range []string{"dog", "bird", "fish", "mouse"} {
		f.learn(t, w, entities.OutcomeKnow)
	}
	day := f.sess.DayState(f.ctx)
	if day.TodayLearnedCount != 5 || !reflect.DeepEqual(day.TodayMistakes, []string{"cat"}) {
		t.Fatalf("setup day = %+v", day)
	}
	before := f.sess.ProgressSnapshot()

	f.clock.Set(time.Date(2024, 3, 11, 0, 0, 1, 0, time.UTC))
	if !f.sess.Rollover(f.ctx) {
		t.Fatal("Rollover reported no change")
	}
	if f.sess.Rollover(f.ctx) {
		t.Error("second Rollover on the same day reported a change")
	}

	day = f.sess.DayState(f.ctx)
	if day.TodayDate != "2024-03-11" || day.TodayLearnedCount != 0 || len(day.TodayMistakes) != 0 {
		t.Errorf("day after rollover = %+v", day)
	}
	if after := f.sess.ProgressSnapshot(); !reflect.DeepEqual(after, before) {
		t.Error("rollover changed progress records")
	}
}

func TestDayRolloverOnAnyOperation(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits"}, 2, entities.LearnOrderAlphabetical)
	f.learn(t, "apple", entities.OutcomeKnow)
	f.learn(t, "banana", entities.OutcomeKnow)

	f.clock.Advance(24 * time.Hour)
	if got := wordsOf(f.sess.TodayTask(f.ctx)); !reflect.DeepEqual(got, []string{"cherry"}) {
		t.Errorf("TodayTask on the next day = %v, want [cherry]", got)
	}
}

func TestSavePlanBookChangeWipesProgress(t *testing.T) {
	f := newFixture(t)
	if !f.savePlan(t, []string{"fruits"}, 2, entities.LearnOrderAlphabetical) {
		t.Fatal("first plan was not a reset")
	}
	first := f.sess.Plan()

	f.learn(t, "apple", entities.OutcomeDontKnow)
	f.sess.AppendTestRecord(f.ctx, entities.TestRecord{Scope: "today", Count: 1, Mistakes: []string{"apple"}})

	f.clock.Advance(time.Hour)
	if !f.savePlan(t, []string{"fruits", "pets"}, 2, entities.LearnOrderAlphabetical) {
		t.Fatal("book change was not a reset")
	}

	p := f.sess.Plan()
	if p.ID == first.ID || !p.CreatedAt.Equal(t0.Add(time.Hour)) {
		t.Errorf("plan identity not renewed: %+v", p)
	}
	if n := len(f.sess.ProgressSnapshot()); n != 0 {
		t.Errorf("progress records = %d, want 0", n)
	}
	if n := len(f.sess.TestHistory()); n != 0 {
		t.Errorf("test history = %d, want 0", n)
	}
	day := f.sess.DayState(f.ctx)
	if day.TodayLearnedCount != 0 || len(day.TodayMistakes) != 0 {
		t.Errorf("day state not reset: %+v", day)
	}
}

func TestSavePlanSameBooksMerges(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"pets", "fruits"}, 2, entities.LearnOrderAlphabetical)
	first := f.sess.Plan()
	f.learn(t, "apple", entities.OutcomeKnow)

	if f.savePlan(t, []string{"fruits", "pets"}, 5, entities.LearnOrderRandom) {
		t.Fatal("same books caused a reset")
	}

	p := f.sess.Plan()
	if p.ID != first.ID || !p.CreatedAt.Equal(first.CreatedAt) || p.Seed != first.Seed {
		t.Errorf("identity changed: %+v vs %+v", p, first)
	}
	if p.DailyLimit != 5 || p.LearnOrder != entities.LearnOrderRandom {
		t.Errorf("settings not merged: %+v", p)
	}
	if _, ok := f.sess.Progress("apple"); !ok {
		t.Error("merge wiped progress")
	}
}

func TestSavePlanValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.sess.SavePlan(f.ctx, entities.PlanDraft{PlanMode: entities.PlanModeCount, DailyLimit: 1})
	if err == nil {
		t.Error("expected validation error")
	}
	if f.sess.Plan() != nil {
		t.Error("invalid draft created a plan")
	}
}

func TestSavePlanDaysModeDerivesQuota(t *testing.T) {
	f := newFixture(t)
	_, err := f.sess.SavePlan(f.ctx, entities.PlanDraft{
		SelectedBooks: []string{"pets"},
		PlanMode:      entities.PlanModeDays,
		DaysTarget:    2,
		LearnOrder:    entities.LearnOrderAlphabetical,
	})
	if err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	if got := f.sess.Plan().DailyLimit; got != 3 {
		t.Errorf("DailyLimit = %d, want 3", got)
	}
	if got := f.sess.Stats(f.ctx).DaysTarget; got != 2 {
		t.Errorf("DaysTarget = %d, want 2", got)
	}
}

func TestRandomOrderIsReproducible(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits", "pets"}, 8, entities.LearnOrderRandom)

	first := wordsOf(f.sess.TodayTask(f.ctx))
	second := wordsOf(f.sess.TodayTask(f.ctx))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("random order changed between calls: %v vs %v", first, second)
	}
	if len(first) != 8 {
		t.Fatalf("TodayTask = %v, want all 8 words", first)
	}

	f.learn(t, first[0], entities.OutcomeKnow)
	if got := wordsOf(f.sess.FetchRawNewWords(f.ctx, 10)); !reflect.DeepEqual(got, first[1:]) {
		t.Errorf("order after learning = %v, want %v", got, first[1:])
	}
}

func TestReviewTaskModes(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits"}, 3, entities.LearnOrderAlphabetical)

	f.learn(t, "apple", entities.OutcomeKnow)
	f.learn(t, "banana", entities.OutcomeKnow)
	for i := 0; i < 3; i++ {
		f.learn(t, "banana", entities.OutcomeKnow)
	}

	// Next day: apple (stage 1, 30m) is due, banana (stage 4, 2d) is not.
	f.clock.Set(time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC))
	if got := wordsOf(f.sess.ReviewTask(f.ctx, ReviewScientific)); !reflect.DeepEqual(got, []string{"apple"}) {
		t.Errorf("scientific = %v, want [apple]", got)
	}
	if got := f.sess.ReviewTask(f.ctx, ReviewToday); len(got) != 0 {
		t.Errorf("today = %v, want empty", wordsOf(got))
	}

	f.learn(t, "cherry", entities.OutcomeKnow)
	if got := wordsOf(f.sess.ReviewTask(f.ctx, ReviewToday)); !reflect.DeepEqual(got, []string{"cherry"}) {
		t.Errorf("today = %v, want [cherry]", got)
	}
	if got := wordsOf(f.sess.ReviewTask(f.ctx, ReviewScientific)); !reflect.DeepEqual(got, []string{"cherry", "apple"}) {
		t.Errorf("scientific = %v, want [cherry apple]", got)
	}
}

func TestMistakesList(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits", "pets"}, 10, entities.LearnOrderAlphabetical)

	f.learn(t, "dog", entities.OutcomeDontKnow)
	f.learn(t, "dog", entities.OutcomeDontKnow)
	f.learn(t, "dog", entities.OutcomeDontKnow)
	f.learn(t, "cat", entities.OutcomeDontKnow)
	f.learn(t, "cat", entities.OutcomeDontKnow)
	f.learn(t, "apple", entities.OutcomeKnow)

	f.clock.Advance(24 * time.Hour)
	f.learn(t, "fish", entities.OutcomeDontKnow)
	_, _ = f.sess.RecordTestResult(f.ctx, "cat", false)

	names := func(ms []Mistake) []string {
		out := make([]string, len(ms))
		for i, m := range ms {
			out[i] = m.Word.Word
		}
		return out
	}

	all := f.sess.MistakesList(f.ctx, MistakesAll)
	if got, want := names(all), []string{"dog", "cat", "fish"}; !reflect.DeepEqual(got, want) {
		t.Errorf("all = %v, want %v", got, want)
	}
	if all[0].ErrorCount != 3 || all[1].ErrorCount != 3 {
		t.Errorf("error counts = %+v", all)
	}

	high := names(f.sess.MistakesList(f.ctx, MistakesHighFreq))
	if want := []string{"dog", "cat"}; !reflect.DeepEqual(high, want) {
		t.Errorf("high-freq = %v, want %v", high, want)
	}

	today := names(f.sess.MistakesList(f.ctx, MistakesToday))
	if want := []string{"cat", "fish"}; !reflect.DeepEqual(today, want) {
		t.Errorf("today = %v, want %v", today, want)
	}

	inAll := make(map[string]bool)
	for _, w := range names(all) {
		inAll[w] = true
	}
	for _, w := range today {
		if !inAll[w] {
			t.Errorf("today mistake %q missing from all", w)
		}
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"pets"}, 2, entities.LearnOrderAlphabetical)

	f.learn(t, "cat", entities.OutcomeKnow)
	f.learn(t, "dog", entities.OutcomeDontKnow)

	st := f.sess.Stats(f.ctx)
	want := entities.Stats{
		TotalWords:     5,
		LearnedUnique:  2,
		Remaining:      3,
		DaysSinceStart: 1,
		DaysTarget:     3,
		TodayLearned:   2,
		TodayMistakes:  1,
	}
	if st != want {
		t.Errorf("Stats = %+v, want %+v", st, want)
	}

	f.clock.Set(time.Date(2024, 3, 12, 0, 30, 0, 0, time.UTC))
	st = f.sess.Stats(f.ctx)
	if st.DaysSinceStart != 3 {
		t.Errorf("DaysSinceStart = %d, want 3", st.DaysSinceStart)
	}
	if st.DueCount != 2 || st.TodayLearned != 0 {
		t.Errorf("Stats next days = %+v", st)
	}
}

func TestStatsFinished(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits"}, 5, entities.LearnOrderAlphabetical)
	for _, w := range []string{"apple", "banana", "cherry"} {
		f.learn(t, w, entities.OutcomeKnow)
	}
	st := f.sess.Stats(f.ctx)
	if !st.IsFinished || st.Remaining != 0 || st.DaysTarget != 1 {
		t.Errorf("Stats = %+v", st)
	}
}

func TestSessionPersistsAcrossReload(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits"}, 2, entities.LearnOrderAlphabetical)
	f.learn(t, "apple", entities.OutcomeDontKnow)
	f.sess.SetProfile(f.ctx, entities.Profile{Username: "Alice", AvatarColor: "#fff"})

	again, err := OpenSession(f.ctx, "alice", f.store, testCatalog(), f.clock, time.UTC, zap.NewNop())
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if again.Plan().ID != f.sess.Plan().ID {
		t.Error("plan not reloaded")
	}
	if rec, ok := again.Progress("apple"); !ok || rec.ErrorCount != 1 {
		t.Errorf("progress not reloaded: %+v", rec)
	}
	if !again.DayState(f.ctx).HasMistake("apple") {
		t.Error("day state not reloaded")
	}
	if p := again.Profile(); p.Username != "Alice" || p.ID != "alice" {
		t.Errorf("profile = %+v", p)
	}
}

func TestSessionStaleDayIsRolledOverOnLoad(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits"}, 2, entities.LearnOrderAlphabetical)
	f.learn(t, "apple", entities.OutcomeDontKnow)

	f.clock.Advance(48 * time.Hour)
	again, err := OpenSession(f.ctx, "alice", f.store, testCatalog(), f.clock, time.UTC, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	day := again.DayState(f.ctx)
	if day.TodayDate != "2024-03-12" || day.TodayLearnedCount != 0 || len(day.TodayMistakes) != 0 {
		t.Errorf("day = %+v", day)
	}
}

func TestSwitchUserIsolatesState(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits"}, 2, entities.LearnOrderAlphabetical)
	f.learn(t, "apple", entities.OutcomeKnow)

	if err := f.sess.SwitchUser(f.ctx, "bob"); err != nil {
		t.Fatal(err)
	}
	if f.sess.Plan() != nil || len(f.sess.ProgressSnapshot()) != 0 {
		t.Error("state of alice visible to bob")
	}
	if err := f.sess.SwitchUser(f.ctx, ""); err != ErrNoUser {
		t.Errorf("err = %v, want ErrNoUser", err)
	}

	_ = f.sess.SwitchUser(f.ctx, "alice")
	if f.sess.DerivedScore() != 1 {
		t.Errorf("DerivedScore = %d, want 1", f.sess.DerivedScore())
	}
}

func TestCorruptDocumentIsIgnored(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	_ = store.Save(ctx, "alice", repository.KeyProgress, []byte(`{not json`))

	s, err := OpenSession(ctx, "alice", store, testCatalog(), clock.NewLogical(t0), time.UTC, zap.NewNop())
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if n := len(s.ProgressSnapshot()); n != 0 {
		t.Errorf("records = %d, want 0", n)
	}
}

func TestTestHistory(t *testing.T) {
	f := newFixture(t)
	rec := f.sess.AppendTestRecord(f.ctx, entities.TestRecord{Scope: "book:fruits", Count: 3, Score: 2})
	if rec.ID == "" || !rec.Timestamp.Equal(t0) || rec.Mistakes == nil {
		t.Errorf("record = %+v", rec)
	}
	if h := f.sess.TestHistory(); len(h) != 1 || h[0].ID != rec.ID {
		t.Errorf("history = %+v", h)
	}
}

func TestBuildTest(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	words := catalog.New([]entities.Book{{ID: "b", Words: []entities.Word{
		{Word: "apple", Meaning: "fruit"},
		{Word: "run", Meaning: "move fast"},
		{Word: "blue", Meaning: "a colour"},
		{Word: "dog", Meaning: "an animal"},
		{Word: "sing", Meaning: "make music"},
	}}}, nil)
	clk := clock.NewLogical(t0)
	s, err := OpenSession(ctx, "alice", store, words, clk, time.UTC, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	_, _ = s.SavePlan(ctx, entities.PlanDraft{
		SelectedBooks: []string{"b"}, PlanMode: entities.PlanModeCount,
		DailyLimit: 5, LearnOrder: entities.LearnOrderAlphabetical,
	})
	_, _ = s.RecordLearnResult(ctx, "apple", entities.OutcomeKnow)
	_, _ = s.RecordLearnResult(ctx, "run", entities.OutcomeDontKnow)

	qs := s.BuildTest(ctx, ScopeLearned, 10)
	if len(qs) != 2 || qs[0].Word.Word != "apple" || qs[1].Word.Word != "run" {
		t.Fatalf("questions = %+v", qs)
	}
	for _, q := range qs {
		if len(q.Options) != 4 {
			t.Errorf("%s: options = %v", q.Word.Word, q.Options)
		}
		if q.Options[q.Correct] != q.Word.Meaning || !q.IsCorrect(q.Correct) {
			t.Errorf("%s: correct option = %q", q.Word.Word, q.Options[q.Correct])
		}
		seen := make(map[string]bool)
		for _, o := range q.Options {
			if seen[o] {
				t.Errorf("%s: duplicate option %q", q.Word.Word, o)
			}
			seen[o] = true
		}
	}

	if qs := s.BuildTest(ctx, ScopeMistakes, 10); len(qs) != 1 || qs[0].Word.Word != "run" {
		t.Errorf("mistakes test = %+v", qs)
	}
	if qs := s.BuildTest(ctx, ScopeToday, 1); len(qs) != 1 {
		t.Errorf("today test size = %d, want 1", len(qs))
	}
}

func TestTestedWordStaysOutOfReviews(t *testing.T) {
	f := newFixture(t)
	f.savePlan(t, []string{"fruits"}, 3, entities.LearnOrderAlphabetical)

	if _, err := f.sess.RecordTestResult(f.ctx, "cherry", false); err != nil {
		t.Fatal(err)
	}
	for _, mode := range []ReviewMode{ReviewToday, ReviewScientific} {
		if got := f.sess.ReviewTask(f.ctx, mode); len(got) != 0 {
			t.Errorf("%s reviews = %v, want empty", mode, wordsOf(got))
		}
	}
	if _, ok, _ := f.sess.RecordReviewResult(f.ctx, "cherry", entities.OutcomeKnow); ok {
		t.Error("review of an unlearned word applied")
	}

	// Once learned the word is reviewable like any other.
	f.learn(t, "cherry", entities.OutcomeKnow)
	if got := wordsOf(f.sess.ReviewTask(f.ctx, ReviewToday)); !reflect.DeepEqual(got, []string{"cherry"}) {
		t.Errorf("today = %v, want [cherry]", got)
	}
	if _, ok, _ := f.sess.RecordReviewResult(f.ctx, "cherry", entities.OutcomeKnow); !ok {
		t.Error("review of a learned word ignored")
	}
}

func TestLocationWhileSwitchingUsers(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("UTC+3", 3*3600)
	s, err := OpenSession(ctx, "alice", repository.NewMemoryStore(), testCatalog(), clock.NewLogical(t0), loc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, id := range []string{"bob", "alice", "carol", "alice"} {
			_ = s.SwitchUser(ctx, id)
		}
	}()
	for i := 0; i < 100; i++ {
		if got := s.Location(); got != loc {
			t.Fatalf("Location = %v, want %v", got, loc)
		}
	}
	<-done

	if got := NewSession(nil, nil, nil, nil, zap.NewNop()).Location(); got != time.UTC {
		t.Errorf("nil location = %v, want UTC", got)
	}
}
