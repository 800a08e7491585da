package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ocalint/internal/diag"
	"ocalint/internal/driver"
	"ocalint/internal/ui"
)

type analyzeOutcome struct {
	ds  []diag.Diagnostic
	err error
}

func analyzeWithUI(ctx context.Context, sess *driver.Session, files []string) ([]diag.Diagnostic, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	go func() {
		s := *sess
		s.Progress = driver.ChannelSink{Ch: events}
		ds, err := s.AnalyzeFiles(ctx, files)
		outcomeCh <- analyzeOutcome{ds: ds, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("ocalint", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	// ошибка UI не влияет на результат анализа
	_, _ = program.Run()
	// если UI закрыли раньше, воркеры не должны блокироваться на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	return outcome.ds, outcome.err
}
