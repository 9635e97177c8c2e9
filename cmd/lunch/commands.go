package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/korjavin/whatsforlunch/pkg/lunch"
	"github.com/korjavin/whatsforlunch/pkg/lunchdata"
	"github.com/korjavin/whatsforlunch/pkg/picker"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// LunchCmd implements the CLI commands on top of the lunch service
type LunchCmd struct {
	lunch *lunch.Service
	out   io.Writer
	in    io.Reader
}

func newLunchCmd(service *lunch.Service) LunchCmd {
	return LunchCmd{lunch: service, out: os.Stdout, in: os.Stdin}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the restaurant list",
	Args:  cobra.NoArgs,
	RunE: runWith(func(cmd *cobra.Command, l LunchCmd, args []string) error {
		return l.List(cmd.Context())
	}),
}

var addCmd = &cobra.Command{
	Use:   "add <restaurant>...",
	Short: "Add restaurants to the list",
	Args:  cobra.MinimumNArgs(1),
	RunE: runWith(func(cmd *cobra.Command, l LunchCmd, args []string) error {
		return l.Add(cmd.Context(), args)
	}),
}

var removeCmd = &cobra.Command{
	Use:   "remove <restaurant>",
	Short: "Remove a restaurant from the list",
	Args:  cobra.MinimumNArgs(1),
	RunE: runWith(func(cmd *cobra.Command, l LunchCmd, args []string) error {
		return l.Remove(cmd.Context(), strings.Join(args, " "))
	}),
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded lunches",
	Args:  cobra.NoArgs,
	RunE: runWith(func(cmd *cobra.Command, l LunchCmd, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return l.History(cmd.Context(), limit)
	}),
}

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick a restaurant for today",
	Args:  cobra.NoArgs,
	RunE: runWith(func(cmd *cobra.Command, l LunchCmd, args []string) error {
		return l.Pick(cmd.Context())
	}),
}

var eatCmd = &cobra.Command{
	Use:   "eat <restaurant>",
	Short: "Record a lunch",
	Args:  cobra.MinimumNArgs(1),
	RunE: runWith(func(cmd *cobra.Command, l LunchCmd, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		return l.Eat(cmd.Context(), strings.Join(args, " "), date)
	}),
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the most visited restaurants",
	Args:  cobra.NoArgs,
	RunE: runWith(func(cmd *cobra.Command, l LunchCmd, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return l.Stats(cmd.Context(), limit)
	}),
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print all stored data as JSON",
	Args:  cobra.NoArgs,
	RunE: runWith(func(cmd *cobra.Command, l LunchCmd, args []string) error {
		return l.Export(cmd.Context())
	}),
}

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Write restaurantList and lunchHistory from a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: runWith(func(cmd *cobra.Command, l LunchCmd, args []string) error {
		return l.Import(cmd.Context(), args[0])
	}),
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 0, "Show only the last n lunches")
	statsCmd.Flags().IntP("limit", "n", 5, "Number of restaurants to show")
	eatCmd.Flags().String("date", "", "Date of the lunch (defaults to today)")
}

// List prints the restaurant list
func (l LunchCmd) List(ctx context.Context) error {
	list, err := l.lunch.Restaurants(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		pterm.Info.Println("The restaurant list is empty. Add some with 'lunch add'.")
		return nil
	}

	rows := pterm.TableData{{"#", "Restaurant"}}
	for i, name := range list {
		rows = append(rows, []string{strconv.Itoa(i + 1), name})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// Add appends restaurants to the list
func (l LunchCmd) Add(ctx context.Context, names []string) error {
	added, err := l.lunch.AddRestaurants(ctx, names)
	if err != nil {
		return err
	}
	pterm.Success.Printf("Added %d restaurants\n", added)
	return nil
}

// Remove deletes a restaurant from the list
func (l LunchCmd) Remove(ctx context.Context, name string) error {
	if err := l.lunch.RemoveRestaurant(ctx, name); err != nil {
		if errors.Is(err, lunch.ErrNotFound) {
			return fmt.Errorf("%s is not on the list: %w", name, lunch.ErrNotFound)
		}
		return err
	}
	pterm.Success.Printf("Removed %s\n", name)
	return nil
}

// History prints recorded lunches, newest first
func (l LunchCmd) History(ctx context.Context, limit int) error {
	history, err := l.lunch.History(ctx, limit)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		pterm.Info.Println("No lunches recorded yet.")
		return nil
	}

	rows := pterm.TableData{{"Date", "Restaurant"}}
	for i := len(history) - 1; i >= 0; i-- {
		rows = append(rows, []string{history[i].DateString(), history[i].Restaurant})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// Pick suggests a restaurant
func (l LunchCmd) Pick(ctx context.Context) error {
	choice, err := l.lunch.Suggest(ctx)
	if errors.Is(err, picker.ErrNoRestaurants) {
		pterm.Warning.Println("The restaurant list is empty. Add some with 'lunch add'.")
		return nil
	}
	if err != nil {
		return err
	}
	pterm.Success.Printf("How about %s today?\n", pterm.Bold.Sprint(choice))
	return nil
}

// Eat records a lunch at restaurant on date, today when date is empty
func (l LunchCmd) Eat(ctx context.Context, restaurant, date string) error {
	record, err := l.lunch.RecordLunch(ctx, restaurant, date)
	if err != nil {
		return err
	}
	pterm.Success.Printf("Recorded %s on %s\n", record.Restaurant, record.DateString())
	return nil
}

// Stats prints the most visited restaurants
func (l LunchCmd) Stats(ctx context.Context, limit int) error {
	top, err := l.lunch.Stats(ctx, limit)
	if err != nil {
		return err
	}
	if len(top) == 0 {
		pterm.Info.Println("No lunches recorded yet.")
		return nil
	}

	rows := pterm.TableData{{"Restaurant", "Visits", "Last visit"}}
	for _, stat := range top {
		rows = append(rows, []string{stat.Restaurant, strconv.Itoa(stat.Visits), stat.LastDate})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// Export writes all stored data as indented JSON
func (l LunchCmd) Export(ctx context.Context) error {
	data, err := l.lunch.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(l.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Import reads a JSON document from path, or stdin for "-", and stores it
func (l LunchCmd) Import(ctx context.Context, path string) error {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(l.in)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := l.lunch.Import(ctx, json.RawMessage(raw)); err != nil {
		if errors.Is(err, lunchdata.ErrValidation) {
			return fmt.Errorf("nothing was imported: %w", err)
		}
		return err
	}
	pterm.Success.Println("Import complete")
	return nil
}
