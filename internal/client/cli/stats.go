package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/scanvocab/scanvocab/internal/validation"
)

func (c *Cli) runStats(ctx context.Context, args []string) error {
	now := time.Now()
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	from := fs.String("from", validation.DateKey(now.AddDate(0, 0, -29)), "start date (YYYY-MM-DD)")
	to := fs.String("to", validation.DateKey(now), "end date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validation.ValidateDateKey(*from); err != nil {
		return fmt.Errorf("invalid -from: %w", err)
	}
	if err := validation.ValidateDateKey(*to); err != nil {
		return fmt.Errorf("invalid -to: %w", err)
	}

	stats, err := c.progress.Stats(ctx, *from, *to)
	if err != nil {
		return err
	}
	streak, err := c.progress.Streak(ctx)
	if err != nil {
		return err
	}

	c.io.Printf("Stats %s .. %s\n", stats.From, stats.To)
	c.io.Printf("  Questions: %d\n", stats.QuizCount)
	c.io.Printf("  Correct:   %d", stats.CorrectCount)
	if stats.QuizCount > 0 {
		c.io.Printf(" (%.0f%%)", float64(stats.CorrectCount)/float64(stats.QuizCount)*100)
	}
	c.io.Println("")
	c.io.Printf("  Mastered:  %d\n", stats.MasteredCount)
	c.io.Printf("  Active days: %d\n", stats.ActiveDays)
	c.io.Printf("  Streak: %d day(s)\n", streak.StreakCount)
	return nil
}
