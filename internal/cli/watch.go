package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stackwatch-io/stackwatch/internal/logging"
	"github.com/stackwatch-io/stackwatch/internal/observer"
	"github.com/stackwatch-io/stackwatch/internal/stack"
	"github.com/stackwatch-io/stackwatch/internal/trigger"
)

var (
	watchTemplate string
	watchExec     string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch stack resources and react to meaningful changes",
	Long: `Watches the template and every watchable resource it declares.

A meaningful change is one that survives the gating rules: template and API
definition edits must still parse and differ structurally from the last
observed content; code directory edits always count. Resources that cannot
be resolved are skipped with a warning instead of aborting the watch set.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchTemplate, "template", "t", "template.yaml", "Stack template file to watch")
	watchCmd.Flags().StringVar(&watchExec, "exec", "", "Shell command to run after each meaningful change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	obs, err := observer.New()
	if err != nil {
		return err
	}

	session := &watchSession{
		observer:     obs,
		templatePath: watchTemplate,
		execCommand:  watchExec,
	}
	if err := session.start(); err != nil {
		return err
	}

	logging.Info("watching for changes", "template", watchTemplate)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := obs.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// watchSession tracks the live resource registrations so a template change
// can tear them down and rebuild them from the fresh stack snapshot.
type watchSession struct {
	observer     *observer.Observer
	templatePath string
	execCommand  string

	mu      sync.Mutex
	handles []string
}

func (w *watchSession) start() error {
	tmpl, err := trigger.NewTemplateTrigger(w.templatePath, w.onTemplateChange)
	if err != nil {
		return fmt.Errorf("watch template %s: %w", w.templatePath, err)
	}
	for _, target := range tmpl.Resolve() {
		if _, err := w.observer.Register(target); err != nil {
			return err
		}
	}
	return w.registerResources()
}

// registerResources loads a fresh stack snapshot and registers one trigger
// per watchable resource. Construction failures skip that resource only.
func (w *watchSession) registerResources() error {
	root, err := stack.LoadTemplate(w.templatePath)
	if err != nil {
		return fmt.Errorf("load template %s: %w", w.templatePath, err)
	}
	stacks := []*stack.Stack{root}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, id := range stack.AllResourceIDs(stacks) {
		tr, err := trigger.ForResource(id, stacks, w.onCodeChange(id))
		if err != nil {
			logging.Warn("skipping resource", "id", id.String(), "reason", err)
			continue
		}
		for _, target := range tr.Resolve() {
			handle, err := w.observer.Register(target)
			if err != nil {
				logging.Warn("failed to register watch target", "id", id.String(), "error", err)
				continue
			}
			w.handles = append(w.handles, handle)
		}
		logging.Info("watching resource", "id", id.String())
	}
	return nil
}

func (w *watchSession) onCodeChange(id stack.ResourceIdentifier) trigger.OnChangeFunc {
	return func(event *trigger.Event) {
		if event != nil {
			logging.Info("resource changed", "id", id.String(), "path", event.Path, "op", string(event.Op))
		} else {
			logging.Info("resource changed", "id", id.String())
		}
		w.runExec()
	}
}

// onTemplateChange rebuilds the resource watch set against the edited
// template. It runs on the observer's dispatch goroutine.
func (w *watchSession) onTemplateChange(event *trigger.Event) {
	logging.Info("template changed, reloading watch set", "template", w.templatePath)

	w.mu.Lock()
	handles := w.handles
	w.handles = nil
	w.mu.Unlock()
	for _, h := range handles {
		w.observer.Unregister(h)
	}

	if err := w.registerResources(); err != nil {
		logging.Error("failed to reload watch set", "error", err)
	}
	w.runExec()
}

func (w *watchSession) runExec() {
	if w.execCommand == "" {
		return
	}
	cmd := exec.Command("sh", "-c", w.execCommand)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		logging.Error("exec command failed", "command", w.execCommand, "error", err)
	}
}
