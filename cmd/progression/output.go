package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/KirkDiggler/dnd-progression/internal/domain/character"
	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-progression/internal/errors"
)

func printRecord(w io.Writer, record *character.Record) {
	fmt.Fprintf(w, "%s (%s)\n", record.Name, record.ID)
	fmt.Fprintf(w, "Race: %s\n", rulebook.DisplayName(record.Race))

	state := record.State
	if state == nil {
		return
	}

	classes := make([]string, 0, len(state.Classes))
	for _, cl := range state.Classes {
		entry := fmt.Sprintf("%s %d", rulebook.DisplayName(string(cl.Class)), cl.Level)
		if cl.Subclass != "" {
			entry += fmt.Sprintf(" (%s)", rulebook.DisplayName(cl.Subclass))
		}
		classes = append(classes, entry)
	}
	fmt.Fprintf(w, "Level %d: %s\n", state.Level, strings.Join(classes, " / "))
	fmt.Fprintf(w, "Abilities: %s\n", state.Abilities)
	fmt.Fprintf(w, "Experience: %d\n", state.Experience)
	if len(state.Feats) > 0 {
		fmt.Fprintf(w, "Feats: %s\n", strings.Join(state.Feats, ", "))
	}
	if len(state.PendingASILevels) > 0 {
		fmt.Fprintf(w, "Pending ASI at levels: %v\n", state.PendingASILevels)
	}
	if state.PendingSubclassSelection {
		fmt.Fprintln(w, "Pending subclass selection")
	}

	pool := record.Resources
	if pool == nil {
		return
	}
	fmt.Fprintf(w, "HP: %d/%d", pool.HitPoints.Current, pool.HitPoints.Max)
	if pool.HitPoints.Temporary > 0 {
		fmt.Fprintf(w, " (+%d temp)", pool.HitPoints.Temporary)
	}
	fmt.Fprintln(w)

	for _, size := range pool.HitDice.Sizes() {
		fmt.Fprintf(w, "Hit dice d%d: %d/%d\n", size, pool.HitDice.Remaining[size], pool.HitDice.Max[size])
	}
	printSlots(w, pool.SpellSlots.Max, pool.SpellSlots.RemainingAll())
	if pool.PactSlots.Max > 0 {
		fmt.Fprintf(w, "Pact slots (level %d): %d/%d\n", pool.PactSlots.SlotLevel, pool.PactSlots.Remaining(), pool.PactSlots.Max)
	}

	keys := make([]string, 0, len(pool.Resources))
	for key := range pool.Resources {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		res := pool.Resources[key]
		if res.Unlimited() {
			fmt.Fprintf(w, "%s: unlimited\n", res.Name)
			continue
		}
		fmt.Fprintf(w, "%s: %d/%d\n", res.Name, res.Current, res.Max)
	}
}

func printSlots(w io.Writer, maxSlots, remaining map[int]int) {
	levels := make([]int, 0, len(maxSlots))
	for level := range maxSlots {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	for _, level := range levels {
		if remaining == nil {
			fmt.Fprintf(w, "Level %d slots: %d\n", level, maxSlots[level])
			continue
		}
		fmt.Fprintf(w, "Level %d slots: %d/%d\n", level, remaining[level], maxSlots[level])
	}
}

// parseScores reads "str=15,dex=14,..."
func parseScores(s string) (map[string]int, error) {
	out := map[string]int{}
	for _, part := range splitList(s) {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, dnderr.InvalidArgumentf("expected ability=score, got %q", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, dnderr.InvalidArgumentf("score for %s must be a number, got %q", key, value)
		}
		out[strings.TrimSpace(key)] = n
	}
	return out, nil
}

// parseIncreases reads "str=1,dex=1" into ability increases
func parseIncreases(s string) (map[shared.Attribute]int, error) {
	raw, err := parseScores(s)
	if err != nil {
		return nil, err
	}
	out := make(map[shared.Attribute]int, len(raw))
	for key, n := range raw {
		attr, ok := shared.ParseAttribute(key)
		if !ok {
			return nil, dnderr.InvalidArgumentf("unknown ability %q", key)
		}
		out[attr] += n
	}
	return out, nil
}

// parseHitDice reads "d10=2,d8=1" or "10=2"
func parseHitDice(s string) (map[int]int, error) {
	out := map[int]int{}
	for _, part := range splitList(s) {
		die, count, ok := strings.Cut(part, "=")
		if !ok {
			return nil, dnderr.InvalidArgumentf("expected die=count, got %q", part)
		}
		size, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(die)), "d"))
		if err != nil {
			return nil, dnderr.InvalidArgumentf("invalid die %q", die)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			return nil, dnderr.InvalidArgumentf("invalid count %q", count)
		}
		out[size] += n
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
