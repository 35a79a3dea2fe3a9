package cli

import (
	"context"
	"flag"
	"time"
)

func (c *Cli) runReview(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("review", flag.ContinueOnError)
	resolve := fs.String("resolve", "", "word id to remove from the review list")
	clear := fs.Bool("clear", false, "remove every word from the review list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *clear:
		if err := c.progress.ClearWrongAnswers(ctx); err != nil {
			return err
		}
		c.io.Println("Review list cleared.")
		return nil

	case *resolve != "":
		if err := c.progress.ResolveWrongAnswer(ctx, *resolve); err != nil {
			return err
		}
		c.io.Printf("Resolved %s.\n", *resolve)
		return nil
	}

	words, err := c.progress.ReviewList(ctx)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		c.io.Println("Nothing to review.")
		return nil
	}

	c.io.Printf("%d word(s) to review:\n", len(words))
	for _, w := range words {
		last := time.UnixMilli(w.LastWrongAt).UTC().Format("2006-01-02")
		c.io.Printf("  %s  %s / %s  missed %d time(s), last %s\n",
			w.WordID, w.English, w.Japanese, w.WrongCount, last)
	}
	return nil
}
