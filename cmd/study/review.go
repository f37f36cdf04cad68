package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vytor/flashdeck/internal/client"
	"github.com/vytor/flashdeck/internal/session"
)

// review walks due cards until none are left or the user quits.
func (cli *commandLine) review(ctx context.Context) error {
	sess := session.New(cli.client)
	if err := sess.Start(ctx); err != nil {
		if errors.Is(err, session.ErrNoDueCard) && !client.IsUnauthorized(err) {
			fmt.Fprintln(cli.out, "Nothing is due for review.")
			return nil
		}
		return err
	}

	var reviewed, correct int
loop:
	for sess.State() != session.Idle {
		card := sess.Card()
		fmt.Fprintf(cli.out, "\n%s  (score %d)\nQ: %s\n", card.Path(), card.Score, card.Question)

		line, err := cli.prompt("Press Enter to reveal, q to quit: ")
		if err != nil {
			return err
		}
		if strings.EqualFold(line, "q") {
			break
		}
		if err := sess.Reveal(); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "A: %s\n", card.Answer)

		var ok bool
		for {
			line, err := cli.prompt("Correct? [y/n/q]: ")
			if err != nil {
				return err
			}
			switch strings.ToLower(line) {
			case "y", "yes":
				ok = true
			case "n", "no":
				ok = false
			case "q":
				break loop
			default:
				continue
			}
			break
		}

		if err := sess.Submit(ctx, ok); err != nil {
			return err
		}
		reviewed++
		if ok {
			correct++
		}
	}

	if sess.State() == session.Idle {
		fmt.Fprintln(cli.out, "\nNothing else is due.")
	}
	fmt.Fprintf(cli.out, "Reviewed %d cards, %d correct.\n", reviewed, correct)
	return nil
}
