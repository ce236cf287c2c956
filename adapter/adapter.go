// Package adapter implements C1: a thin, stateless bridge from the
// executor's typed operation calls to the external headless-browser CLI
// driver. Every call spawns a fresh subprocess, passes a --json flag and
// operation-specific arguments, and parses a single JSON envelope from its
// stdout. There is no persistent session or protocol connection to the
// browser here — that lives entirely inside the external driver.
package adapter

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/9wick/enbu/selector"
)

// Adapter is the executor-facing surface: one method per flow operation.
// BrowserAdapter is the only production implementation; tests use a fake
// satisfying the same interface.
type Adapter interface {
	Open(ctx context.Context, url string) error
	Click(ctx context.Context, sel selector.Interactable) error
	DblClick(ctx context.Context, sel selector.Interactable) error
	Hover(ctx context.Context, sel selector.Interactable) error
	Focus(ctx context.Context, sel selector.Interactable) error
	Check(ctx context.Context, sel selector.Interactable) error
	Uncheck(ctx context.Context, sel selector.Interactable) error
	Type(ctx context.Context, sel selector.Interactable, value string) error
	Fill(ctx context.Context, sel selector.Interactable, value string) error
	Select(ctx context.Context, sel selector.Interactable, option string) error
	Press(ctx context.Context, key string) error
	KeyDown(ctx context.Context, key string) error
	KeyUp(ctx context.Context, key string) error
	Scroll(ctx context.Context, direction string, amount int) error
	ScrollIntoView(ctx context.Context, sel selector.Any) error

	IsVisible(ctx context.Context, sel selector.Any) (bool, error)
	IsChecked(ctx context.Context, sel selector.Interactable) (bool, error)
	IsEnabled(ctx context.Context, sel selector.Interactable) (bool, error)

	WaitForSelector(ctx context.Context, sel string, timeoutMS int64) error
	WaitForText(ctx context.Context, text string, timeoutMS int64) error
	WaitForNetworkIdle(ctx context.Context, timeoutMS int64) error
	WaitForLoad(ctx context.Context, timeoutMS int64) error
	WaitForURL(ctx context.Context, pattern string, timeoutMS int64) error
	WaitForFunction(ctx context.Context, expr string, timeoutMS int64) error
	WaitForMS(ctx context.Context, ms int64) error

	Screenshot(ctx context.Context, path string, fullPage bool) error
	Eval(ctx context.Context, expr string) (string, error)
}

// Config configures a BrowserAdapter. BinaryPath, if set, is tried before
// ENBU_DRIVER_PATH and PATH (see resolveBinary). DefaultTimeout bounds
// every call that doesn't carry its own explicit timeout.
type Config struct {
	BinaryPath     string
	DefaultTimeout time.Duration
	Metrics        *Metrics // optional; nil disables instrumentation
}

// BrowserAdapter is the production Adapter, backed by the external driver
// CLI resolved once at construction time.
type BrowserAdapter struct {
	binary  string
	timeout time.Duration
	metrics *Metrics
	tracer  trace.Tracer
}

// New resolves the driver binary and returns a ready-to-use BrowserAdapter.
func New(cfg Config) (*BrowserAdapter, error) {
	binary, err := resolveBinary(cfg.BinaryPath)
	if err != nil {
		return nil, err
	}
	timeout := cfg.DefaultTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BrowserAdapter{
		binary:  binary,
		timeout: timeout,
		metrics: cfg.Metrics,
		tracer:  otel.Tracer("github.com/9wick/enbu/adapter"),
	}, nil
}

// call runs op with args under a per-call deadline, recording a span and,
// if metrics are configured, a counter/histogram observation.
func (a *BrowserAdapter) call(ctx context.Context, op string, args []string, timeoutOverride time.Duration) (*envelope, error) {
	ctx, span := a.tracer.Start(ctx, "adapter."+op, trace.WithAttributes(attribute.String("enbu.op", op)))
	defer span.End()

	timeout := a.timeout
	if timeoutOverride > 0 {
		timeout = timeoutOverride
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	env, err := runDriver(callCtx, op, a.binary, args, timeout.Milliseconds())
	if a.metrics != nil {
		a.metrics.observeCall(op, time.Since(start), err)
	}
	if err != nil {
		span.RecordError(err)
	}
	return env, err
}

func msArg(ms int64) string { return strconv.FormatInt(ms, 10) }

func (a *BrowserAdapter) Open(ctx context.Context, url string) error {
	_, err := a.call(ctx, "open", []string{"open", url}, 0)
	return err
}

func (a *BrowserAdapter) Click(ctx context.Context, sel selector.Interactable) error {
	_, err := a.call(ctx, "click", []string{"click", sel.CLIToken()}, 0)
	return err
}

func (a *BrowserAdapter) DblClick(ctx context.Context, sel selector.Interactable) error {
	_, err := a.call(ctx, "dblclick", []string{"dblclick", sel.CLIToken()}, 0)
	return err
}

func (a *BrowserAdapter) Hover(ctx context.Context, sel selector.Interactable) error {
	_, err := a.call(ctx, "hover", []string{"hover", sel.CLIToken()}, 0)
	return err
}

func (a *BrowserAdapter) Focus(ctx context.Context, sel selector.Interactable) error {
	_, err := a.call(ctx, "focus", []string{"focus", sel.CLIToken()}, 0)
	return err
}

func (a *BrowserAdapter) Check(ctx context.Context, sel selector.Interactable) error {
	_, err := a.call(ctx, "check", []string{"check", sel.CLIToken()}, 0)
	return err
}

func (a *BrowserAdapter) Uncheck(ctx context.Context, sel selector.Interactable) error {
	_, err := a.call(ctx, "uncheck", []string{"uncheck", sel.CLIToken()}, 0)
	return err
}

func (a *BrowserAdapter) Type(ctx context.Context, sel selector.Interactable, value string) error {
	_, err := a.call(ctx, "type", []string{"type", sel.CLIToken(), value}, 0)
	return err
}

func (a *BrowserAdapter) Fill(ctx context.Context, sel selector.Interactable, value string) error {
	_, err := a.call(ctx, "fill", []string{"fill", sel.CLIToken(), value}, 0)
	return err
}

func (a *BrowserAdapter) Select(ctx context.Context, sel selector.Interactable, option string) error {
	_, err := a.call(ctx, "select", []string{"select", sel.CLIToken(), option}, 0)
	return err
}

func (a *BrowserAdapter) Press(ctx context.Context, key string) error {
	_, err := a.call(ctx, "press", []string{"press", key}, 0)
	return err
}

func (a *BrowserAdapter) KeyDown(ctx context.Context, key string) error {
	_, err := a.call(ctx, "keydown", []string{"keydown", key}, 0)
	return err
}

func (a *BrowserAdapter) KeyUp(ctx context.Context, key string) error {
	_, err := a.call(ctx, "keyup", []string{"keyup", key}, 0)
	return err
}

func (a *BrowserAdapter) Scroll(ctx context.Context, direction string, amount int) error {
	_, err := a.call(ctx, "scroll", []string{"scroll", direction, strconv.Itoa(amount)}, 0)
	return err
}

func (a *BrowserAdapter) ScrollIntoView(ctx context.Context, sel selector.Any) error {
	_, err := a.call(ctx, "scrollIntoView", []string{"scrollIntoView", sel.CLIToken()}, 0)
	return err
}

func (a *BrowserAdapter) IsVisible(ctx context.Context, sel selector.Any) (bool, error) {
	env, err := a.call(ctx, "isVisible", []string{"isVisible", sel.CLIToken()}, 0)
	if err != nil {
		return false, err
	}
	var visible bool
	if err := decodeData("isVisible", env, &visible); err != nil {
		return false, err
	}
	return visible, nil
}

func (a *BrowserAdapter) IsChecked(ctx context.Context, sel selector.Interactable) (bool, error) {
	env, err := a.call(ctx, "isChecked", []string{"isChecked", sel.CLIToken()}, 0)
	if err != nil {
		return false, err
	}
	var checked bool
	if err := decodeData("isChecked", env, &checked); err != nil {
		return false, err
	}
	return checked, nil
}

func (a *BrowserAdapter) IsEnabled(ctx context.Context, sel selector.Interactable) (bool, error) {
	env, err := a.call(ctx, "isEnabled", []string{"isEnabled", sel.CLIToken()}, 0)
	if err != nil {
		return false, err
	}
	var enabled bool
	if err := decodeData("isEnabled", env, &enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

func (a *BrowserAdapter) WaitForSelector(ctx context.Context, sel string, timeoutMS int64) error {
	_, err := a.call(ctx, "waitForSelector", []string{"waitForSelector", sel, msArg(timeoutMS)}, time.Duration(timeoutMS)*time.Millisecond)
	return err
}

func (a *BrowserAdapter) WaitForText(ctx context.Context, text string, timeoutMS int64) error {
	_, err := a.call(ctx, "waitForText", []string{"waitForText", text, msArg(timeoutMS)}, time.Duration(timeoutMS)*time.Millisecond)
	return err
}

func (a *BrowserAdapter) WaitForNetworkIdle(ctx context.Context, timeoutMS int64) error {
	_, err := a.call(ctx, "waitForNetworkIdle", []string{"waitForNetworkIdle", msArg(timeoutMS)}, time.Duration(timeoutMS)*time.Millisecond)
	return err
}

func (a *BrowserAdapter) WaitForLoad(ctx context.Context, timeoutMS int64) error {
	_, err := a.call(ctx, "waitForLoad", []string{"waitForLoad", msArg(timeoutMS)}, time.Duration(timeoutMS)*time.Millisecond)
	return err
}

func (a *BrowserAdapter) WaitForURL(ctx context.Context, pattern string, timeoutMS int64) error {
	_, err := a.call(ctx, "waitForUrl", []string{"waitForUrl", pattern, msArg(timeoutMS)}, time.Duration(timeoutMS)*time.Millisecond)
	return err
}

func (a *BrowserAdapter) WaitForFunction(ctx context.Context, expr string, timeoutMS int64) error {
	_, err := a.call(ctx, "waitForFunction", []string{"waitForFunction", expr, msArg(timeoutMS)}, time.Duration(timeoutMS)*time.Millisecond)
	return err
}

func (a *BrowserAdapter) WaitForMS(ctx context.Context, ms int64) error {
	_, err := a.call(ctx, "waitForMs", []string{"waitForMs", msArg(ms)}, time.Duration(ms)*time.Millisecond+a.timeout)
	return err
}

func (a *BrowserAdapter) Screenshot(ctx context.Context, path string, fullPage bool) error {
	_, err := a.call(ctx, "screenshot", []string{"screenshot", path, strconv.FormatBool(fullPage)}, 0)
	return err
}

func (a *BrowserAdapter) Eval(ctx context.Context, expr string) (string, error) {
	env, err := a.call(ctx, "eval", []string{"eval", expr}, 0)
	if err != nil {
		return "", err
	}
	var result string
	if err := decodeData("eval", env, &result); err != nil {
		return "", err
	}
	return result, nil
}
