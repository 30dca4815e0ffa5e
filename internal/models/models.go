// internal/models/models.go
// Package models handles model availability on the configured host.
package models

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/tmcfarlane/valet/internal/providers"
)

// ErrDeclined is returned when the user declines to pull a missing model.
var ErrDeclined = errors.New("model pull declined")

var (
	infoLine = color.New(color.FgCyan).SprintFunc()
	okLine   = color.New(color.FgGreen).SprintFunc()
	warnLine = color.New(color.FgYellow).SprintFunc()
)

// HasModel reports whether the named model is present on the host.
func HasModel(ctx context.Context, provider providers.ChatProvider, model string) (bool, error) {
	names, err := provider.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == model {
			return true, nil
		}
	}
	return false, nil
}

// EnsureModelAvailable checks the host for the configured model. When
// interactive is true and the model is missing, the user is asked whether to
// pull it; declining returns ErrDeclined. When interactive is false a
// missing model aborts startup.
func EnsureModelAvailable(ctx context.Context, provider providers.ChatProvider, model string, interactive bool, in io.Reader, out io.Writer) error {
	ok, err := HasModel(ctx, provider, model)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	if !interactive {
		return fmt.Errorf("model %q is not available on the host; run \"valet pull\" first", model)
	}

	fmt.Fprintln(out, warnLine(fmt.Sprintf("Model %q was not found on the host.", model)))
	fmt.Fprint(out, "Would you like to pull it now? [Y/n]: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	choice := strings.ToLower(strings.TrimSpace(line))
	if choice != "" && choice != "y" && choice != "yes" {
		fmt.Fprintln(out, "Pull declined. Exiting.")
		return ErrDeclined
	}

	return Pull(ctx, provider, model, out)
}

// Pull downloads the model, printing each new status line as it arrives.
func Pull(ctx context.Context, provider providers.ChatProvider, model string, out io.Writer) error {
	fmt.Fprintln(out, infoLine(fmt.Sprintf("Pulling model %s...", model)))

	lastStatus := ""
	err := provider.PullModel(ctx, model, func(p providers.PullProgress) {
		if p.Status == lastStatus {
			return
		}
		lastStatus = p.Status
		if p.Total > 0 {
			fmt.Fprintf(out, "  -> %s (%d/%d bytes)\n", p.Status, p.Completed, p.Total)
			return
		}
		fmt.Fprintf(out, "  -> %s\n", p.Status)
	})
	if err != nil {
		return fmt.Errorf("pull model %s: %w", model, err)
	}

	fmt.Fprintln(out, okLine("Model pull complete."))
	return nil
}
