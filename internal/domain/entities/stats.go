package entities

// Stats is a read-only projection of a plan's progress.
type Stats struct {
	TotalWords     int
	LearnedUnique  int
	MasteredCount  int
	Remaining      int
	IsFinished     bool
	DaysSinceStart int
	DaysTarget     int
	TodayLearned   int
	TodayMistakes  int
	DueCount       int
}
