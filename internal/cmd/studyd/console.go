package studyd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/studyforge/internal/study/catalog"
	"github.com/louisbranch/studyforge/internal/study/engine"
	"github.com/louisbranch/studyforge/internal/study/gear"
	"github.com/louisbranch/studyforge/internal/study/ledger"
	"github.com/louisbranch/studyforge/internal/study/runtime"
	"github.com/louisbranch/studyforge/internal/study/session"
)

const consoleHelp = `commands:
  study                       start or pause studying
  away                        report that the study window lost visibility
  skip                        end the rest phase early
  topic <id>                  select the topic to study
  add <id> <category> <name>  add a custom topic
  review <topic> <0-5>        record a recall review
  craft <operation> <item>    apply a crafting operation
  equip <item>                equip an inventory item
  unequip <slot>              return an equipped item to the inventory
  earn|spend <currency> <n>   adjust the ledger
  exam <YYYY-MM-DD|clear>     set or clear the exam date
  lengths <cycle> <rest>      set phase lengths, e.g. lengths 50m 10m
  effect <kind> <value> <duration> [<currency> <n>]
  decay                       recompute topic decay
  reset                       discard progress
  status                      print the character`

var errEmptyCommand = errors.New("empty command")

func runConsole(ctx context.Context, rt *runtime.Runtime, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "help":
			fmt.Fprintln(out, consoleHelp)
			continue
		case "status":
			writeStatus(out, rt.State(), rt.Now())
			continue
		}

		action, err := parseCommand(line, rt.Now())
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		outcome := rt.Dispatch(ctx, action)
		if !outcome.Accepted {
			fmt.Fprintf(out, "rejected: %s\n", outcome.Rejection.Message)
			continue
		}
		fmt.Fprintln(out, "ok")
	}
}

// parseCommand turns one console line into an engine action.
func parseCommand(line string, now time.Time) (engine.Action, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errEmptyCommand
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	want := func(n int) error {
		if len(args) < n {
			return fmt.Errorf("%s needs %d arguments", name, n)
		}
		return nil
	}

	switch name {
	case "study":
		return engine.ToggleStudy{Now: now}, nil
	case "away":
		return engine.VisibilityLost{Now: now}, nil
	case "skip":
		return engine.SkipRest{Now: now}, nil
	case "decay":
		return engine.RefreshDecay{Now: now}, nil
	case "reset":
		return engine.Reset{Now: now}, nil
	case "topic":
		if err := want(1); err != nil {
			return nil, err
		}
		return engine.SetActiveTopic{TopicID: args[0]}, nil
	case "add":
		if err := want(3); err != nil {
			return nil, err
		}
		category, ok := catalog.ParseCategory(args[1])
		if !ok {
			return nil, fmt.Errorf("unknown category %q", args[1])
		}
		return engine.AddTopic{ID: args[0], Name: strings.Join(args[2:], " "), Category: category}, nil
	case "review":
		if err := want(2); err != nil {
			return nil, err
		}
		quality, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("quality: %w", err)
		}
		return engine.Review{TopicID: args[0], Quality: quality, Now: now}, nil
	case "craft":
		if err := want(2); err != nil {
			return nil, err
		}
		return engine.Craft{Operation: gear.Operation(strings.ToLower(args[0])), ItemID: args[1], Now: now}, nil
	case "equip":
		if err := want(1); err != nil {
			return nil, err
		}
		return engine.Equip{ItemID: args[0]}, nil
	case "unequip":
		if err := want(1); err != nil {
			return nil, err
		}
		return engine.Unequip{Slot: gear.Slot(strings.ToLower(args[0]))}, nil
	case "earn", "spend":
		if err := want(2); err != nil {
			return nil, err
		}
		amount, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("amount: %w", err)
		}
		currency := ledger.Currency(strings.ToLower(args[0]))
		if name == "earn" {
			return engine.EarnCurrency{Currency: currency, Amount: amount, Now: now}, nil
		}
		return engine.ConsumeCurrency{Currency: currency, Amount: amount, Now: now}, nil
	case "exam":
		if err := want(1); err != nil {
			return nil, err
		}
		if strings.EqualFold(args[0], "clear") {
			return engine.SetExamDate{}, nil
		}
		date, err := time.Parse(time.DateOnly, args[0])
		if err != nil {
			return nil, fmt.Errorf("exam date: %w", err)
		}
		return engine.SetExamDate{Date: &date}, nil
	case "lengths":
		if err := want(2); err != nil {
			return nil, err
		}
		cycle, err := time.ParseDuration(args[0])
		if err != nil {
			return nil, fmt.Errorf("cycle length: %w", err)
		}
		rest, err := time.ParseDuration(args[1])
		if err != nil {
			return nil, fmt.Errorf("rest length: %w", err)
		}
		return engine.SetCycleLengths{Cycle: cycle, Rest: rest}, nil
	case "effect":
		return parseEffect(args, now)
	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}
}

func parseEffect(args []string, now time.Time) (engine.Action, error) {
	if len(args) != 3 && len(args) != 5 {
		return nil, errors.New("effect needs <kind> <value> <duration> [<currency> <n>]")
	}
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return nil, fmt.Errorf("effect value: %w", err)
	}
	duration, err := time.ParseDuration(args[2])
	if err != nil {
		return nil, fmt.Errorf("effect duration: %w", err)
	}
	action := engine.ActivateEffect{
		Effect:   engine.EffectKind(strings.ToLower(args[0])),
		Value:    value,
		Duration: duration,
		Now:      now,
	}
	if len(args) == 5 {
		amount, err := strconv.Atoi(args[4])
		if err != nil {
			return nil, fmt.Errorf("effect cost: %w", err)
		}
		action.Cost = ledger.Currency(strings.ToLower(args[3]))
		action.Amount = amount
	}
	return action, nil
}

func writeStatus(out io.Writer, state engine.State, now time.Time) {
	fmt.Fprintf(out, "level %d (%.0f xp)  focus %.2f  stamina %.0f  gold %d\n",
		state.Player.Level, state.Player.XP, state.Focus.Multiplier, state.Stamina.Current,
		state.Ledger.Balance(ledger.CurrencyGold))

	s := state.Session
	switch {
	case s.Mode == session.ModeRest:
		fmt.Fprintf(out, "resting, %s left\n", seconds(s.RestRemaining()))
	case s.Active:
		fmt.Fprintf(out, "studying %s, %s left\n", s.LockedTopicID, seconds(s.Remaining()))
	case s.SelectedTopicID != "":
		fmt.Fprintf(out, "paused on %s, %s left\n", s.SelectedTopicID, seconds(s.Remaining()))
	default:
		fmt.Fprintln(out, "no topic selected")
	}

	for _, item := range state.Player.Inventory {
		fmt.Fprintf(out, "  %s %s %s ilvl %d\n", item.ID, item.Rarity, item.Slot, item.ItemLevel)
	}
	if state.Exam.Date != nil {
		fmt.Fprintf(out, "exam in %s\n", state.Exam.Date.Sub(now).Round(time.Hour))
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second)).Round(time.Second)
}
