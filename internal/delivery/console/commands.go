package console

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/aliskhannn/wordplan/internal/catalog"
	"github.com/aliskhannn/wordplan/internal/domain/entities"
	"github.com/aliskhannn/wordplan/internal/service"
	"github.com/aliskhannn/wordplan/internal/storage"
)

var errUsage = errors.New("invalid usage")

func (a *app) commands() []cli.Command {
	return []cli.Command{
		{
			Name:   "books",
			Usage:  "list the books of the catalog",
			Action: a.withEnv(a.books),
		},
		{
			Name:      "import",
			Usage:     "import books from an .xlsx sheet into a JSON catalog",
			ArgsUsage: "FILE",
			Action:    a.importBooks,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "sheet", Value: "Sheet1", Usage: "sheet to read"},
				cli.StringFlag{Name: "out, o", Usage: "catalog to write (default: the configured .json catalog)"},
			},
		},
		{
			Name:   "plan",
			Usage:  "show the study plan, or change it with flags",
			Action: a.withEnv(a.plan),
			Flags: []cli.Flag{
				cli.StringFlag{Name: "books, b", Usage: "comma separated book ids"},
				cli.IntFlag{Name: "limit, l", Usage: "new words per day"},
				cli.IntFlag{Name: "days, d", Usage: "finish the books in this many days"},
				cli.StringFlag{Name: "order, o", Usage: "alphabetical or random"},
			},
		},
		{
			Name:   "today",
			Usage:  "list the new words left for today",
			Action: a.withEnv(a.today),
		},
		{
			Name:   "next",
			Usage:  "list upcoming new words regardless of the daily limit",
			Action: a.withEnv(a.next),
			Flags: []cli.Flag{
				cli.IntFlag{Name: "count, n", Value: 10, Usage: "number of words"},
			},
		},
		{
			Name:      "learn",
			Usage:     "record the outcome of learning a new word",
			ArgsUsage: "WORD",
			Action:    a.withEnv(a.learn),
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "dont-know, x", Usage: "the word was not known"},
			},
		},
		{
			Name:   "reviews",
			Usage:  "list the words to review",
			Action: a.withEnv(a.reviews),
			Flags: []cli.Flag{
				cli.StringFlag{Name: "mode, m", Value: string(service.ReviewScientific), Usage: "scientific or today"},
			},
		},
		{
			Name:      "review",
			Usage:     "record the outcome of reviewing a word",
			ArgsUsage: "WORD",
			Action:    a.withEnv(a.review),
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "dont-know, x", Usage: "the word was forgotten"},
			},
		},
		{
			Name:      "answer",
			Usage:     "record a test answer for a word",
			ArgsUsage: "WORD",
			Action:    a.withEnv(a.answer),
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "wrong, w", Usage: "the answer was wrong"},
			},
		},
		{
			Name:   "quiz",
			Usage:  "take a multiple choice test, answers are read from stdin",
			Action: a.withEnv(a.quiz),
			Flags: []cli.Flag{
				cli.StringFlag{Name: "scope, s", Value: string(service.ScopeLearned), Usage: "today, mistakes or learned"},
				cli.IntFlag{Name: "size, n", Value: 10, Usage: "number of questions"},
			},
		},
		{
			Name:   "mistakes",
			Usage:  "list missed words",
			Action: a.withEnv(a.mistakes),
			Flags: []cli.Flag{
				cli.StringFlag{Name: "filter, f", Value: string(service.MistakesAll), Usage: "today, high-freq or all"},
			},
		},
		{
			Name:   "stats",
			Usage:  "show learning statistics",
			Action: a.withEnv(a.stats),
		},
		{
			Name:   "history",
			Usage:  "show past test results",
			Action: a.withEnv(a.history),
		},
		{
			Name:   "profile",
			Usage:  "show the public profile, or change it with flags",
			Action: a.withEnv(a.profile),
			Flags: []cli.Flag{
				cli.StringFlag{Name: "name", Usage: "display name"},
				cli.StringFlag{Name: "color", Usage: "avatar color, e.g. #4f46e5"},
				cli.StringFlag{Name: "avatar", Usage: "avatar id"},
			},
		},
		{
			Name:   "reminders",
			Usage:  "show the study reminder settings, or change them with flags",
			Action: a.withEnv(a.reminders),
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "on", Usage: "enable reminders"},
				cli.BoolFlag{Name: "off", Usage: "disable reminders"},
				cli.IntFlag{Name: "interval", Usage: "hours between reminders"},
				cli.StringFlag{Name: "window", Usage: "local hours, e.g. 8-20"},
			},
		},
		{
			Name:   "sync",
			Usage:  "publish the score to the ranking service",
			Action: a.withEnv(a.sync),
		},
		{
			Name:    "leaderboard",
			Aliases: []string{"top"},
			Usage:   "show the leaderboard",
			Action:  a.withEnv(a.leaderboard),
		},
	}
}

func (a *app) books(_ *cli.Context, e *env) error {
	books := e.books.Books()
	if len(books) == 0 {
		fmt.Fprintln(a.out, "no books")
		return nil
	}
	for _, b := range books {
		fmt.Fprintf(a.out, "%-12s %-24s %5d words\n", b.ID, b.Title, len(b.Words))
	}
	return nil
}

func (a *app) importBooks(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("%w: import FILE", errUsage)
	}

	cfg, log, err := a.setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	out := c.String("out")
	if out == "" {
		out = cfg.Catalog.Path
	}
	if !strings.HasSuffix(strings.ToLower(out), ".json") {
		return fmt.Errorf("%w: --out must name a .json catalog", errUsage)
	}

	icfg := catalog.DefaultImportConfig()
	icfg.SheetName = c.String("sheet")
	books, res, err := catalog.ImportExcel(a.fs, c.Args().First(), icfg)
	if err != nil {
		return err
	}

	cat := catalog.New(nil, nil)
	if ok, _ := afero.Exists(a.fs, out); ok {
		if cat, err = catalog.LoadJSON(a.fs, out); err != nil {
			return err
		}
	}

	added := 0
	for _, b := range books {
		if err = cat.AddBook(b); err != nil {
			if errors.Is(err, catalog.ErrDuplicateBook) {
				log.Warn("book already in catalog", zap.String("book_id", b.ID))
				continue
			}
			return err
		}
		added++
	}

	if err = catalog.SaveJSON(a.fs, out, cat); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "rows: %d, imported: %d, skipped: %d, books added: %d\n",
		res.TotalProcessed, res.Imported, res.Skipped, added)
	for _, msg := range res.Errors {
		fmt.Fprintf(a.out, "  %s\n", msg)
	}
	return nil
}

func (a *app) plan(c *cli.Context, e *env) error {
	current := e.session.Plan()
	if c.NumFlags() == 0 {
		if current == nil {
			fmt.Fprintln(a.out, "no plan")
			return nil
		}
		a.printPlan(current)
		return nil
	}

	draft := entities.PlanDraft{PlanMode: entities.PlanModeCount, LearnOrder: entities.LearnOrderAlphabetical}
	if current != nil {
		draft = current.Draft()
	}
	if c.IsSet("books") {
		draft.SelectedBooks = strings.Split(c.String("books"), ",")
	}
	if c.IsSet("limit") {
		draft.PlanMode = entities.PlanModeCount
		draft.DailyLimit = c.Int("limit")
	}
	if c.IsSet("days") {
		draft.PlanMode = entities.PlanModeDays
		draft.DaysTarget = c.Int("days")
		draft.DailyLimit = 0
	}
	if c.IsSet("order") {
		draft.LearnOrder = entities.LearnOrder(c.String("order"))
	}

	reset, err := e.session.SavePlan(a.ctx, draft)
	if err != nil {
		return err
	}
	if reset {
		fmt.Fprintln(a.out, "new plan started, progress cleared")
	}
	a.printPlan(e.session.Plan())
	return nil
}

func (a *app) printPlan(p *entities.PlanSettings) {
	fmt.Fprintf(a.out, "books:   %s\n", strings.Join(p.SelectedBooks, ","))
	fmt.Fprintf(a.out, "mode:    %s\n", p.PlanMode)
	if p.PlanMode == entities.PlanModeDays {
		fmt.Fprintf(a.out, "days:    %d\n", p.DaysTarget)
	}
	fmt.Fprintf(a.out, "limit:   %d\n", p.DailyLimit)
	fmt.Fprintf(a.out, "order:   %s\n", p.LearnOrder)
	fmt.Fprintf(a.out, "started: %s\n", p.CreatedAt.Format("2006-01-02"))
}

func (a *app) printWords(words []entities.Word) {
	if len(words) == 0 {
		fmt.Fprintln(a.out, "nothing to do")
		return
	}
	for _, w := range words {
		fmt.Fprintf(a.out, "%-20s %-6s %s\n", w.Word, w.PartOfSpeech, w.Meaning)
	}
}

func (a *app) today(_ *cli.Context, e *env) error {
	a.printWords(e.session.TodayTask(a.ctx))
	return nil
}

func (a *app) next(c *cli.Context, e *env) error {
	a.printWords(e.session.FetchRawNewWords(a.ctx, c.Int("count")))
	return nil
}

func outcomeFlag(c *cli.Context) entities.Outcome {
	if c.Bool("dont-know") {
		return entities.OutcomeDontKnow
	}
	return entities.OutcomeKnow
}

func (a *app) learn(c *cli.Context, e *env) error {
	if c.NArg() != 1 {
		return fmt.Errorf("%w: learn WORD", errUsage)
	}
	rec, err := e.session.RecordLearnResult(a.ctx, c.Args().First(), outcomeFlag(c))
	if err != nil {
		return err
	}
	a.printRecord(c.Args().First(), rec)
	return nil
}

func (a *app) reviews(c *cli.Context, e *env) error {
	mode, err := service.ParseReviewMode(c.String("mode"))
	if err != nil {
		return err
	}
	a.printWords(e.session.ReviewTask(a.ctx, mode))
	return nil
}

func (a *app) review(c *cli.Context, e *env) error {
	if c.NArg() != 1 {
		return fmt.Errorf("%w: review WORD", errUsage)
	}
	word := c.Args().First()
	rec, ok, err := e.session.RecordReviewResult(a.ctx, word, outcomeFlag(c))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(a.out, "%s has not been learned yet\n", word)
		return nil
	}
	a.printRecord(word, rec)
	return nil
}

func (a *app) answer(c *cli.Context, e *env) error {
	if c.NArg() != 1 {
		return fmt.Errorf("%w: answer WORD", errUsage)
	}
	rec, err := e.session.RecordTestResult(a.ctx, c.Args().First(), !c.Bool("wrong"))
	if err != nil {
		return err
	}
	a.printRecord(c.Args().First(), rec)
	return nil
}

func (a *app) printRecord(word string, rec entities.ProgressRecord) {
	next := "-"
	if !rec.NextReview.IsZero() {
		next = rec.NextReview.Format("2006-01-02 15:04")
	}
	fmt.Fprintf(a.out, "%s: %s, stage %d, errors %d, next review %s\n",
		word, rec.Status, rec.Stage, rec.ErrorCount, next)
}

func (a *app) quiz(c *cli.Context, e *env) error {
	scope, err := service.ParseTestScope(c.String("scope"))
	if err != nil {
		return err
	}

	questions := e.session.BuildTest(a.ctx, scope, c.Int("size"))
	if len(questions) == 0 {
		fmt.Fprintln(a.out, "no words to test")
		return nil
	}

	run := &storage.TestRun{Scope: scope, Questions: questions}
	scanner := bufio.NewScanner(a.in)

	for !run.Done() {
		q, _ := run.Current()
		fmt.Fprintf(a.out, "\n%d/%d  %s\n", run.Index+1, len(run.Questions), q.Word.Word)
		for i, opt := range q.Options {
			fmt.Fprintf(a.out, "  %d) %s\n", i+1, opt)
		}
		fmt.Fprint(a.out, "> ")

		if !scanner.Scan() {
			break
		}
		choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil {
			choice = 0
		}

		_, correct, _ := run.Answer(choice - 1)
		if _, err = e.session.RecordTestResult(a.ctx, q.Word.Word, correct); err != nil {
			return err
		}
		if correct {
			fmt.Fprintln(a.out, "correct")
		} else {
			fmt.Fprintf(a.out, "wrong: %s\n", q.Word.Meaning)
		}
	}

	if run.Index == 0 {
		return nil
	}
	rec := e.session.AppendTestRecord(a.ctx, entities.TestRecord{
		Scope:    string(run.Scope),
		Count:    run.Index,
		Score:    run.Correct,
		Mistakes: run.Mistakes,
	})
	fmt.Fprintf(a.out, "\nscore: %d/%d\n", rec.Score, rec.Count)
	return nil
}

func (a *app) mistakes(c *cli.Context, e *env) error {
	filter, err := service.ParseMistakeFilter(c.String("filter"))
	if err != nil {
		return err
	}

	list := e.session.MistakesList(a.ctx, filter)
	if len(list) == 0 {
		fmt.Fprintln(a.out, "no mistakes")
		return nil
	}
	for _, m := range list {
		fmt.Fprintf(a.out, "%-20s x%-3d %s\n", m.Word.Word, m.ErrorCount, m.Word.Meaning)
	}
	return nil
}

func (a *app) stats(_ *cli.Context, e *env) error {
	st := e.session.Stats(a.ctx)
	fmt.Fprintf(a.out, "learned:   %d/%d\n", st.LearnedUnique, st.TotalWords)
	fmt.Fprintf(a.out, "mastered:  %d\n", st.MasteredCount)
	fmt.Fprintf(a.out, "remaining: %d\n", st.Remaining)
	fmt.Fprintf(a.out, "due:       %d\n", st.DueCount)
	fmt.Fprintf(a.out, "day:       %d/%d\n", st.DaysSinceStart, st.DaysTarget)
	fmt.Fprintf(a.out, "today:     %d learned, %d mistakes\n", st.TodayLearned, st.TodayMistakes)
	if st.IsFinished {
		fmt.Fprintln(a.out, "all words learned")
	}
	return nil
}

func (a *app) history(_ *cli.Context, e *env) error {
	records := e.session.TestHistory()
	if len(records) == 0 {
		fmt.Fprintln(a.out, "no tests yet")
		return nil
	}
	for _, r := range records {
		fmt.Fprintf(a.out, "%s  %-10s %d/%d\n", r.Timestamp.Format("2006-01-02 15:04"), r.Scope, r.Score, r.Count)
	}
	return nil
}

func (a *app) profile(c *cli.Context, e *env) error {
	p := e.session.Profile()
	if c.NumFlags() > 0 {
		if c.IsSet("name") {
			p.Username = c.String("name")
		}
		if c.IsSet("color") {
			p.AvatarColor = c.String("color")
		}
		if c.IsSet("avatar") {
			p.AvatarID = c.String("avatar")
		}
		e.session.SetProfile(a.ctx, p)
		p = e.session.Profile()
	}

	fmt.Fprintf(a.out, "id:     %s\nname:   %s\ncolor:  %s\nscore:  %d\n",
		p.ID, p.Username, p.AvatarColor, e.session.DerivedScore())
	return nil
}

func (a *app) sync(_ *cli.Context, e *env) error {
	if err := e.scores.SyncScore(a.ctx, e.session); err != nil {
		return fmt.Errorf("sync score: %w", err)
	}
	fmt.Fprintf(a.out, "synced score %d\n", e.session.DerivedScore())
	return nil
}

func (a *app) leaderboard(_ *cli.Context, e *env) error {
	entries, fallback := e.scores.Leaderboard(a.ctx, e.session)
	if fallback {
		fmt.Fprintln(a.out, "ranking service unavailable, showing local ranking")
	}
	self := e.session.UserID()
	for i, en := range entries {
		marker := " "
		if en.ID == self {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s%3d. %-20s %d\n", marker, i+1, en.Username, en.Score)
	}
	return nil
}

func (a *app) reminders(c *cli.Context, e *env) error {
	r := e.session.Reminders()
	if c.NumFlags() > 0 {
		if c.Bool("on") {
			r.Enabled = true
		}
		if c.Bool("off") {
			r.Enabled = false
		}
		if c.IsSet("interval") {
			r.IntervalHours = c.Int("interval")
		}
		if c.IsSet("window") {
			start, end, ok := strings.Cut(c.String("window"), "-")
			s, err1 := strconv.Atoi(start)
			en, err2 := strconv.Atoi(end)
			if !ok || err1 != nil || err2 != nil {
				return fmt.Errorf("%w: --window START-END", errUsage)
			}
			r.StartHour, r.EndHour = s, en
		}

		var err error
		if r, err = e.session.SetReminders(a.ctx, r); err != nil {
			return err
		}
	}

	state := "off"
	if r.Enabled {
		state = "on"
	}
	fmt.Fprintf(a.out, "reminders: %s\nevery:     %dh\nwindow:    %02d:00-%02d:00\n",
		state, r.IntervalHours, r.StartHour, r.EndHour)
	if r.NextSendAt != nil {
		fmt.Fprintf(a.out, "next:      %s\n", r.NextSendAt.In(e.session.Location()).Format("2006-01-02 15:04"))
	}
	return nil
}
