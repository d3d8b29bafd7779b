package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/entrhq/webscout/pkg/agent/tools"
	"github.com/entrhq/webscout/pkg/logging"
	"github.com/entrhq/webscout/pkg/tools/browser"
)

const (
	// maxToolCallInput bounds a single <tool> block read from stdin.
	maxToolCallInput = 1 << 20

	// janitorInterval is how often idle sessions are looked for.
	janitorInterval = time.Minute
)

var closeToolTag = []byte("</tool>")

// runToolCall serves <tool> blocks from stdin until it is closed. Browser
// sessions opened by one call stay open for the calls that follow.
func runToolCall(ctx context.Context, a *app, stdin io.Reader, stdout io.Writer) error {
	registry := browser.NewToolRegistry(a.sessions, a.memory)

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go registry.GetSessionManager().RunJanitor(janitorCtx, janitorInterval)

	return serveToolCalls(ctx, registry, a.logger.With("toolcall"), stdin, stdout)
}

// serveToolCalls dispatches each <tool> block read from stdin and writes
// one <tool_result> or <tool_error> element per call. A failed call does
// not stop the ones after it.
func serveToolCalls(ctx context.Context, registry *browser.ToolRegistry, logger *logging.Logger, stdin io.Reader, stdout io.Writer) error {
	dispatcher, err := registry.Registry()
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxToolCallInput)
	scanner.Split(splitToolCalls)

	calls, failed := 0, 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		calls++

		name, result, err := dispatchToolCall(ctx, registry, dispatcher, scanner.Text())
		if err != nil {
			failed++
			logger.Warnf("tool %s failed: %v", name, err)
			fmt.Fprintf(stdout, "<tool_error tool_name=%q>\n%v\n</tool_error>\n", name, err)
			continue
		}
		logger.Infof("tool %s done", name)
		fmt.Fprintf(stdout, "<tool_result tool_name=%q>\n%s\n</tool_result>\n", name, result)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read tool calls: %w", err)
	}

	switch {
	case calls == 0:
		return errors.New("no tool call found on stdin")
	case failed > 0:
		return fmt.Errorf("%d of %d tool calls failed", failed, calls)
	}
	return nil
}

// dispatchToolCall parses block and runs it if the tool is currently
// offered. It returns the tool name for reporting.
func dispatchToolCall(ctx context.Context, registry *browser.ToolRegistry, dispatcher *tools.Registry, block string) (string, string, error) {
	call, _, err := tools.ParseToolCall(block)
	if err != nil {
		return "", "", err
	}

	if _, known := dispatcher.Get(call.ToolName); known && !registry.Visible(call.ToolName) {
		return call.ToolName, "", fmt.Errorf("tool %q is not available yet: open a browser session or read a page first", call.ToolName)
	}

	result, _, err := dispatcher.Dispatch(ctx, call)
	return call.ToolName, result, err
}

// splitToolCalls is a bufio.SplitFunc yielding text up to and including
// each </tool>. Trailing whitespace is ignored; any other trailing text is
// an incomplete call.
func splitToolCalls(data []byte, atEOF bool) (int, []byte, error) {
	if i := bytes.Index(data, closeToolTag); i >= 0 {
		end := i + len(closeToolTag)
		return end, data[:end], nil
	}
	if !atEOF {
		return 0, nil, nil
	}
	if len(bytes.TrimSpace(data)) > 0 {
		return 0, nil, errors.New("incomplete tool call: missing </tool>")
	}
	return len(data), nil, nil
}
