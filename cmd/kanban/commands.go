package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/baiirun/kanban/internal/api"
	"github.com/baiirun/kanban/internal/board"
	"github.com/baiirun/kanban/internal/logging"
	"github.com/baiirun/kanban/internal/model"
	"github.com/baiirun/kanban/internal/tui"
	"github.com/baiirun/kanban/internal/view"
)

// now is swapped in tests.
var now = time.Now

var (
	flagDescription string
	flagDue         string
	flagPriority    string
	flagStatus      string
	flagBefore      string
	flagAfter       string
	flagColumn      string
	flagAddr        string
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive board",
	RunE:  runBoard,
}

func runBoard(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()
	return tui.Run(cmd.Context(), a.store)
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task to the To Do column",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var due *model.Date
		if flagDue != "" {
			d, err := model.ParseDate(flagDue)
			if err != nil {
				return err
			}
			due = &d
		}
		priority := model.PriorityMedium
		if flagPriority != "" {
			p, err := model.ParsePriority(flagPriority)
			if err != nil {
				return err
			}
			priority = p
		}

		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		t, ok, err := a.store.Add(cmd.Context(), strings.Join(args, " "), flagDescription, due, priority)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("title must not be empty")
		}

		if flagJSON {
			return printJSON(toTaskJSON(t, now()))
		}
		fmt.Printf("Created %s\n", t.ID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks column by column",
	RunE: func(cmd *cobra.Command, args []string) error {
		var only model.Status
		if flagStatus != "" {
			s, err := model.ParseStatus(flagStatus)
			if err != nil {
				return err
			}
			only = s
		}

		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		today := now()
		var cols []view.ColumnView
		for _, c := range view.Board(a.store.Tasks()) {
			if only == "" || c.Status == only {
				cols = append(cols, c)
			}
		}

		if flagJSON {
			out := []TaskJSON{}
			for _, c := range cols {
				for _, t := range c.Tasks {
					out = append(out, toTaskJSON(t, today))
				}
			}
			return printJSON(out)
		}

		for i, c := range cols {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s (%d)\n", c.Title, c.Count())
			if c.Count() == 0 {
				fmt.Println("  (empty)")
			}
			for _, t := range c.Tasks {
				fmt.Println("  " + formatTaskLine(t, today))
			}
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		t, ok := a.store.Get(model.TaskID(args[0]))
		if !ok {
			return fmt.Errorf("task not found: %s", args[0])
		}

		today := now()
		if flagJSON {
			return printJSON(toTaskJSON(t, today))
		}

		fmt.Printf("ID:          %s\n", t.ID)
		fmt.Printf("Title:       %s\n", t.Title)
		if t.Description != "" {
			fmt.Printf("Description: %s\n", t.Description)
		}
		fmt.Printf("Status:      %s\n", t.Status.Title())
		fmt.Printf("Priority:    %s\n", t.Priority)
		if t.DueDate != nil {
			due := t.DueDate.String()
			if u, ok := view.DueUrgency(t.DueDate, today); ok {
				due += " (" + u.Label() + ")"
			}
			fmt.Printf("Due:         %s\n", due)
		}
		fmt.Printf("Created:     %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
		fmt.Printf("Position:    %d\n", t.Order+1)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, board.DeleteIntent{ID: model.TaskID(args[0])}, args[0], func(*board.Store) {
			fmt.Printf("Deleted %s\n", args[0])
		})
	},
}

var priorityCmd = &cobra.Command{
	Use:   "priority <id>",
	Short: "Cycle a task's priority (low → medium → high → low)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := model.TaskID(args[0])
		return mutate(cmd, board.CyclePriorityIntent{ID: id}, args[0], func(s *board.Store) {
			t, _ := s.Get(id)
			fmt.Printf("%s priority: %s\n", id, t.Priority)
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <id>",
	Short: "Move a task next to another task or to the end of a column",
	Long: `Move a task the way a drag and drop would.

  kanban move tk-1 --before tk-2   # drop on the top half of tk-2
  kanban move tk-1 --after tk-2    # drop on the bottom half of tk-2
  kanban move tk-1 --column done   # drop on the Done column's background`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := model.TaskID(args[0])

		var in board.Intent
		switch {
		case flagBefore != "":
			in = board.ReorderIntent{Dragged: id, Target: model.TaskID(flagBefore), Before: true}
		case flagAfter != "":
			in = board.ReorderIntent{Dragged: id, Target: model.TaskID(flagAfter)}
		default:
			s, err := model.ParseStatus(flagColumn)
			if err != nil {
				return err
			}
			in = board.AppendIntent{Dragged: id, Status: s}
		}

		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		for _, ref := range []string{args[0], flagBefore, flagAfter} {
			if _, ok := a.store.Get(model.TaskID(ref)); ref != "" && !ok {
				return fmt.Errorf("task not found: %s", ref)
			}
		}
		if _, err := a.store.Apply(cmd.Context(), in); err != nil {
			return err
		}

		t, _ := a.store.Get(id)
		if flagJSON {
			return printJSON(toTaskJSON(t, now()))
		}
		fmt.Printf("Moved %s to %s, position %d\n", id, t.Status.Title(), t.Order+1)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show board overview and upcoming due dates",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		today := now()
		report := view.Summarize(a.store.Tasks(), today)

		if flagJSON {
			return printJSON(toStatusJSON(report, today))
		}

		fmt.Printf("Tasks: %d\n", report.Total)
		for _, s := range model.Statuses {
			fmt.Printf("  %-12s %d\n", s.Title()+":", report.Counts[s])
		}
		printDueSection("Overdue", report.Overdue, today)
		printDueSection("Due today", report.DueToday, today)
		printDueSection("Due soon", report.DueSoon, today)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		addr := a.cfg.Server.Addr
		if flagAddr != "" {
			addr = flagAddr
		}
		h := api.NewHandler(a.store, logging.Logger.WithField("component", "api"))
		return api.Serve(ctx, addr, h.Router(), logging.Logger)
	},
}

// mutate applies in and calls report when it changed the board. An unknown
// id leaves the board untouched and is reported as an error.
func mutate(cmd *cobra.Command, in board.Intent, id string, report func(*board.Store)) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	changed, err := a.store.Apply(cmd.Context(), in)
	if err != nil {
		return err
	}
	if !changed {
		return fmt.Errorf("task not found: %s", id)
	}
	report(a.store)
	return nil
}

func formatTaskLine(t model.Task, today time.Time) string {
	line := fmt.Sprintf("%-12s [%s] %s", t.ID, t.Priority, t.Title)
	if u, ok := view.DueUrgency(t.DueDate, today); ok {
		line += " (" + u.Label() + ")"
	}
	return line
}

func printDueSection(title string, tasks []model.Task, today time.Time) {
	if len(tasks) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, t := range tasks {
		fmt.Println("  " + formatTaskLine(t, today))
	}
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(b))
	return nil
}

func init() {
	addCmd.Flags().StringVarP(&flagDescription, "description", "d", "", "task description")
	addCmd.Flags().StringVar(&flagDue, "due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().StringVarP(&flagPriority, "priority", "p", "", "priority: low, medium or high (default medium)")
	addCmd.Flags().BoolVar(&flagJSON, "json", false, "output as JSON")

	listCmd.Flags().StringVar(&flagStatus, "status", "", "only list one column: todo, inprogress or done")
	listCmd.Flags().BoolVar(&flagJSON, "json", false, "output as JSON")

	showCmd.Flags().BoolVar(&flagJSON, "json", false, "output as JSON")
	statusCmd.Flags().BoolVar(&flagJSON, "json", false, "output as JSON")

	moveCmd.Flags().StringVar(&flagBefore, "before", "", "place above this task")
	moveCmd.Flags().StringVar(&flagAfter, "after", "", "place below this task")
	moveCmd.Flags().StringVar(&flagColumn, "column", "", "append to this column")
	moveCmd.Flags().BoolVar(&flagJSON, "json", false, "output as JSON")
	moveCmd.MarkFlagsMutuallyExclusive("before", "after", "column")
	moveCmd.MarkFlagsOneRequired("before", "after", "column")

	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default from config, :8080)")

	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(priorityCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
}
