package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskline/internal/cfg"
	"github.com/sandeepkv93/taskline/internal/service"
	"github.com/sandeepkv93/taskline/internal/storage"
	"github.com/sandeepkv93/taskline/internal/update"
)

func main() {
	config, err := cfg.Load(os.Args[1:])
	if err != nil {
		fatal(err)
	}
	if config == nil {
		return
	}
	if config.ShowVer {
		fmt.Println("taskline " + cfg.GetVersion())
		return
	}

	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		fatal(fmt.Errorf("create data directory: %w", err))
	}

	repo, err := openRepository(config)
	if err != nil {
		fatal(err)
	}
	defer repo.Close()

	svc := service.New(repo)
	ctx := context.Background()

	switch {
	case config.ImportFile != "":
		if err := runImport(ctx, svc, config.ImportFile); err != nil {
			fatal(err)
		}
	case config.List:
		if err := runList(ctx, svc); err != nil {
			fatal(err)
		}
	default:
		program := tea.NewProgram(update.NewModel(svc))
		if _, err := program.Run(); err != nil {
			fatal(fmt.Errorf("run ui: %w", err))
		}
	}
}

func openRepository(config *cfg.Config) (storage.Repository, error) {
	if config.Backend == cfg.BackendJSON {
		return storage.OpenJSON(config.SnapshotPath(), config.Backups)
	}
	return storage.OpenSQLite(config.DatabasePath())
}

// runImport adds one task per line of the file. Bad lines are
// reported with their 1-based position and do not stop the rest.
func runImport(ctx context.Context, svc *service.TaskService, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	added, failed := svc.ImportLines(ctx, lines)
	fmt.Printf("imported %d task(s)\n", len(added))
	if len(failed) > 0 {
		for _, lineErr := range failed {
			fmt.Fprintln(os.Stderr, lineErr.Error())
		}
		return fmt.Errorf("%d line(s) failed", len(failed))
	}
	return nil
}

func runList(ctx context.Context, svc *service.TaskService) error {
	tasks, err := svc.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		marker := "[ ]"
		if task.IsComplete() {
			marker = "[x]"
		}
		parts := []string{marker, task.Description}
		if task.Priority != "" {
			parts = append(parts, "#"+string(task.Priority))
		}
		if task.DueDate != "" {
			parts = append(parts, "due:"+task.DueDate)
		}
		if task.Time != "" {
			parts = append(parts, "at "+task.Time)
		}
		if task.AssignedTo != "" {
			parts = append(parts, "assigned:"+task.AssignedTo)
		}
		for _, tag := range task.Tags {
			parts = append(parts, "@"+tag)
		}
		fmt.Println(strings.Join(parts, " "))
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "taskline: %v\n", err)
	os.Exit(1)
}
