package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/vytor/flashdeck/internal/client"
	"github.com/vytor/flashdeck/internal/config"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/session"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	cfg    config.ClientConfig
	client *client.Client
	store  *client.Store
	in     *bufio.Reader
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login [-username NAME]     - sign in and save the session token")
	fmt.Fprintln(cli.out, "  logout                     - forget the saved session token")
	fmt.Fprintln(cli.out, "  review                     - review due cards")
	fmt.Fprintln(cli.out, "  list [-q TEXT]             - list cards, optionally filtered")
	fmt.Fprintln(cli.out, "  tree                       - show cards grouped by course, chapter and notion")
	fmt.Fprintln(cli.out, "  dashboard                  - show per-course scores and the watchlist")
	fmt.Fprintln(cli.out, "  import FILE                - import cards from a CSV file")
	fmt.Fprintln(cli.out, "  edit ID [-question TEXT]   - change a card, see edit -h for every field")
	fmt.Fprintln(cli.out, "  delete ID                  - delete a card")
	fmt.Fprintln(cli.out, "  history ID                 - show a card's recent reviews")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "login":
		return cli.login(ctx, rest)
	case "logout":
		return cli.logout(ctx)
	case "review":
		return cli.review(ctx)
	case "list":
		return cli.list(ctx, rest)
	case "tree":
		return cli.tree(ctx)
	case "dashboard":
		return cli.dashboard(ctx)
	case "import":
		if len(rest) != 1 {
			cli.printUsage()
			return errHelp
		}
		return cli.importFile(ctx, rest[0])
	case "edit":
		return cli.edit(ctx, rest)
	case "delete":
		id, err := cli.cardID(rest)
		if err != nil {
			return err
		}
		if err := cli.store.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "deleted card %d\n", id)
		return nil
	case "history":
		return cli.history(ctx, rest)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) cardID(args []string) (int64, error) {
	if len(args) == 0 {
		cli.printUsage()
		return 0, errHelp
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid card ID %q", args[0])
	}
	return id, nil
}

// prompt prints label and returns the trimmed line. End of input reads as "q".
func (cli *commandLine) prompt(label string) (string, error) {
	fmt.Fprint(cli.out, label)
	line, err := cli.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(cli.out)
		return "q", nil
	}
	return strings.TrimSpace(line), nil
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	username := fs.String("username", "", "Account name. Prompted when empty.")
	if err := fs.Parse(args); err != nil {
		return errHelp
	}

	if *username == "" {
		name, err := cli.prompt("Username: ")
		if err != nil {
			return err
		}
		*username = name
	}
	fmt.Fprint(cli.out, "Password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return err
	}

	token, err := cli.client.Login(ctx, *username, string(pwd))
	if err != nil {
		return err
	}
	if cli.cfg.TokenFile != "" {
		if err := os.MkdirAll(filepath.Dir(cli.cfg.TokenFile), 0o700); err != nil {
			return err
		}
		if err := os.WriteFile(cli.cfg.TokenFile, []byte(token+"\n"), 0o600); err != nil {
			return err
		}
	}
	fmt.Fprintf(cli.out, "logged in as %s\n", *username)
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	if err := cli.client.Logout(ctx); err != nil {
		return err
	}
	if cli.cfg.TokenFile != "" {
		if err := os.Remove(cli.cfg.TokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	fmt.Fprintln(cli.out, "logged out")
	return nil
}

func (cli *commandLine) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	query := fs.String("q", "", "Only show cards containing this text.")
	if err := fs.Parse(args); err != nil {
		return errHelp
	}

	if err := cli.store.Refresh(ctx); err != nil {
		return err
	}
	cards := cli.store.Filter(*query)
	if len(cards) == 0 {
		fmt.Fprintln(cli.out, "no cards")
		return nil
	}

	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOURSE\tCHAPTER\tNOTION\tSCORE\tQUESTION")
	for _, c := range cards {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", c.ID, c.Course, c.Chapter, c.Notion, c.Score, oneLine(c.Question))
	}
	return tw.Flush()
}

func (cli *commandLine) tree(ctx context.Context) error {
	if err := cli.store.Refresh(ctx); err != nil {
		return err
	}
	h := cli.store.Hierarchy()
	if len(h.Courses) == 0 {
		fmt.Fprintln(cli.out, "no cards")
		return nil
	}
	for _, course := range h.Courses {
		fmt.Fprintf(cli.out, "%s (%d)\n", course.Name, course.Count())
		for _, chapter := range course.Chapters {
			fmt.Fprintf(cli.out, "  %s\n", chapter.Name)
			for _, notion := range chapter.Notions {
				fmt.Fprintf(cli.out, "    %s\n", notion.Name)
				for _, c := range notion.Cards {
					fmt.Fprintf(cli.out, "      [%d] %s\n", c.Score, oneLine(c.Question))
				}
			}
		}
	}
	return nil
}

// dashboard refreshes the cards and peeks at the next due card concurrently.
func (cli *commandLine) dashboard(ctx context.Context) error {
	var next *models.Card
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return cli.store.Refresh(gctx)
	})
	g.Go(func() error {
		card, err := cli.client.NextReviewCard(gctx)
		if err != nil && (client.IsUnauthorized(err) || !errors.Is(err, session.ErrNoDueCard)) {
			return err
		}
		next = card
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	d := cli.store.Dashboard()
	fmt.Fprintf(cli.out, "%d cards, average score %.2f, %d need review\n",
		d.Summary.TotalCards, d.Summary.AverageScore, d.Summary.LowScoreCount)
	if next != nil {
		fmt.Fprintf(cli.out, "next due: [%d] %s\n", next.ID, oneLine(next.Question))
	} else {
		fmt.Fprintln(cli.out, "nothing is due")
	}

	if len(d.Courses) > 0 {
		fmt.Fprintln(cli.out)
		tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "COURSE\tSCORE\tCARDS")
		for _, c := range d.Courses {
			fmt.Fprintf(tw, "%s\t%.2f\t%d\n", c.Course, c.Score, c.Count)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(d.Watchlist) > 0 {
		fmt.Fprintln(cli.out, "\nwatchlist:")
		for _, c := range d.Watchlist {
			fmt.Fprintf(cli.out, "  [%d] %s: %s\n", c.ID, c.Path(), oneLine(c.Question))
		}
	}
	return nil
}

func (cli *commandLine) importFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := cli.store.Import(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "imported %d cards\n", n)
	return nil
}

// edit overwrites only the fields given as flags.
func (cli *commandLine) edit(ctx context.Context, args []string) error {
	id, err := cli.cardID(args)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	course := fs.String("course", "", "New course.")
	chapter := fs.String("chapter", "", "New chapter.")
	notion := fs.String("notion", "", "New notion.")
	question := fs.String("question", "", "New question.")
	answer := fs.String("answer", "", "New answer.")
	if err := fs.Parse(args[1:]); err != nil {
		return errHelp
	}
	if fs.NFlag() == 0 {
		fs.Usage()
		return errHelp
	}

	card, err := cli.client.GetCard(ctx, id)
	if err != nil {
		return err
	}
	in := card.Input()
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "course":
			in.Course = *course
		case "chapter":
			in.Chapter = *chapter
		case "notion":
			in.Notion = *notion
		case "question":
			in.Question = *question
		case "answer":
			in.Answer = *answer
		}
	})

	if err := cli.store.Update(ctx, id, in); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "updated card %d\n", id)
	return nil
}

func (cli *commandLine) history(ctx context.Context, args []string) error {
	id, err := cli.cardID(args)
	if err != nil {
		return err
	}
	records, err := cli.client.History(ctx, id)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cli.out, "not reviewed yet")
		return nil
	}
	for _, r := range records {
		outcome := "incorrect"
		if r.Correct {
			outcome = "correct"
		}
		fmt.Fprintf(cli.out, "%s  %-9s  %d -> %d\n", r.ReviewedAt.Local().Format("2006-01-02 15:04"), outcome, r.ScoreBefore, r.ScoreAfter)
	}
	return nil
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 60 {
		return string(r[:57]) + "..."
	}
	return s
}
