package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/scanvocab/scanvocab/internal/client/progress"
)

func (c *Cli) runQuiz(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("quiz", flag.ContinueOnError)
	correct := fs.Bool("correct", false, "the answer was correct")
	mastered := fs.Bool("mastered", false, "the word crossed its mastery threshold")
	wordID := fs.String("word", "", "word id, required for a wrong answer")
	project := fs.String("project", "", "project id")
	english := fs.String("en", "", "english side of the word")
	japanese := fs.String("ja", "", "japanese side of the word")
	distractors := fs.String("distractors", "", "comma-separated distractors shown")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := c.progress.RecordQuizResult(ctx, progress.QuizResult{
		Correct:  *correct,
		Mastered: *mastered,
	}); err != nil {
		return err
	}

	if !*correct {
		if *wordID == "" {
			return fmt.Errorf("a wrong answer needs -word to land on the review list")
		}
		word := progress.WrongWord{
			WordID:    *wordID,
			ProjectID: *project,
			English:   *english,
			Japanese:  *japanese,
		}
		if *distractors != "" {
			word.Distractors = strings.Split(*distractors, ",")
		}
		if err := c.progress.RecordWrongAnswer(ctx, word); err != nil {
			return err
		}
	}

	streak, err := c.progress.Streak(ctx)
	if err != nil {
		return err
	}
	if *correct {
		c.io.Printf("Recorded correct answer. Streak: %d day(s)\n", streak.StreakCount)
	} else {
		c.io.Printf("Recorded wrong answer for %s. Streak: %d day(s)\n", *wordID, streak.StreakCount)
	}
	return nil
}
