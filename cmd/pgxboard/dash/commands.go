// Package dash async commands: everything that leaves the UI thread runs
// inside a tea.Cmd and comes back as a typed message.
package dash

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"pgxboard/internal/analyze"
	"pgxboard/internal/export"
	"pgxboard/internal/report"
	"pgxboard/internal/vcf"
)

// readAndValidate runs the upload gate against a file on disk. Only the
// sniff window is read for rejected files; accepted files are read in full
// so the upload no longer depends on the path.
func readAndValidate(path string) tea.Cmd {
	return func() tea.Msg {
		info, err := os.Stat(path)
		if err != nil {
			return fileRejectedMsg{path: path, err: vcf.ErrUnreadable}
		}
		size := info.Size()
		name := filepath.Base(path)

		f, err := os.Open(path)
		if err != nil {
			return fileRejectedMsg{path: path, size: size, err: vcf.ErrUnreadable}
		}
		checkErr := vcf.Check(name, size, f)
		f.Close()
		if checkErr != nil {
			return fileRejectedMsg{path: path, size: size, err: checkErr}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fileRejectedMsg{path: path, size: size, err: vcf.ErrUnreadable}
		}
		return fileValidatedMsg{path: path, up: analyze.Upload{Name: name, Data: data}, size: size}
	}
}

// runAnalysis performs the one outstanding backend call. No cancellation:
// once sent, the orchestrator waits for resolution or failure.
func (m Model) runAnalysis(up analyze.Upload, drugs []string) tea.Cmd {
	return func() tea.Msg {
		rep, err := m.client.Run(context.Background(), up, drugs)
		if err != nil {
			return analysisFailedMsg{err: err}
		}
		return analysisDoneMsg{rep: rep}
	}
}

// loadingTick schedules the next caption rotation. The seq ties the timer
// to one in-flight request; Update drops ticks whose seq no longer matches.
func loadingTick(seq int) tea.Cmd {
	return tea.Tick(loadingInterval, func(time.Time) tea.Msg {
		return loadingTickMsg{seq: seq}
	})
}

// watchSelectedFile re-arms the fsnotify watcher on the accepted file,
// closing any watcher for a previously selected file.
func (m *Model) watchSelectedFile(path string) error {
	if m.watcher != nil {
		_ = m.watcher.Close()
		m.watcher = nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		return err
	}
	m.watcher = w
	return nil
}

// waitForChange blocks until the watched file is rewritten. A closed
// watcher ends the command without a message.
func waitForChange(w *fsnotify.Watcher, path string) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					return fileChangedMsg{path: path}
				}
			case _, ok := <-w.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

// copyReport puts the pretty-printed report JSON on the clipboard.
func copyReport(rep report.Report) tea.Cmd {
	return func() tea.Msg {
		raw, err := rep.RawJSON()
		if err != nil {
			return clipboardMsg{err: err}
		}
		return clipboardMsg{err: export.Clipboard(raw)}
	}
}

// saveReport writes the report JSON next to the working directory, named by
// the patient identifier.
func saveReport(rep report.Report) tea.Cmd {
	return func() tea.Msg {
		raw, err := rep.RawJSON()
		if err != nil {
			return reportSavedMsg{err: err}
		}
		dir, err := os.Getwd()
		if err != nil {
			dir = "."
		}
		path, err := export.WriteReport(dir, rep.PatientID(), raw)
		return reportSavedMsg{path: path, err: err}
	}
}
