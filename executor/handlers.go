package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/9wick/enbu/adapter"
	"github.com/9wick/enbu/flow"
	"github.com/9wick/enbu/selector"
)

// dispatch type-switches on cmd.Payload and drives the adapter. Every
// interaction (click, type, fill, select, check, uncheck, hover, focus,
// dblclick) is preceded by an auto-wait on its selector: the flow author
// never writes an explicit wait before an ordinary interaction.
func (e *Executor) dispatch(ctx context.Context, cmd flow.Command) (ScreenshotResult, error) {
	a := e.cfg.Adapter

	switch p := cmd.Payload.(type) {
	case flow.OpenPayload:
		return ScreenshotDisabled(), a.Open(ctx, p.URL.String())

	case flow.InteractionPayload:
		if err := e.autoWaitInteractable(ctx, p.Selector); err != nil {
			return ScreenshotDisabled(), err
		}
		return ScreenshotDisabled(), e.dispatchInteraction(ctx, cmd.Tag, p.Selector)

	case flow.TypePayload:
		if err := e.autoWaitInteractable(ctx, p.Selector); err != nil {
			return ScreenshotDisabled(), err
		}
		if cmd.Tag == flow.TagFill {
			return ScreenshotDisabled(), a.Fill(ctx, p.Selector, p.Value)
		}
		return ScreenshotDisabled(), a.Type(ctx, p.Selector, p.Value)

	case flow.SelectPayload:
		if err := e.autoWaitInteractable(ctx, p.Selector); err != nil {
			return ScreenshotDisabled(), err
		}
		return ScreenshotDisabled(), a.Select(ctx, p.Selector, p.Option)

	case flow.KeyPayload:
		switch cmd.Tag {
		case flow.TagKeyDown:
			return ScreenshotDisabled(), a.KeyDown(ctx, p.Key.String())
		case flow.TagKeyUp:
			return ScreenshotDisabled(), a.KeyUp(ctx, p.Key.String())
		default:
			return ScreenshotDisabled(), a.Press(ctx, p.Key.String())
		}

	case flow.ScrollPayload:
		return ScreenshotDisabled(), a.Scroll(ctx, string(p.Direction), p.Amount)

	case flow.ScrollIntoViewPayload:
		return ScreenshotDisabled(), e.scrollIntoView(ctx, p.Selector)

	case flow.WaitPayload:
		return ScreenshotDisabled(), e.dispatchWait(ctx, p)

	case flow.ScreenshotPayload:
		return e.dispatchScreenshot(ctx, p)

	case flow.EvalPayload:
		_, err := a.Eval(ctx, p.Expr.String())
		return ScreenshotDisabled(), err

	case flow.AssertVisiblePayload:
		if cmd.Tag == flow.TagAssertVisible {
			return ScreenshotDisabled(), e.assertVisible(ctx, p.Selector)
		}
		return ScreenshotDisabled(), e.assertNotVisible(ctx, p.Selector)

	case flow.AssertEnabledPayload:
		enabled, err := a.IsEnabled(ctx, p.Selector)
		if err != nil {
			return ScreenshotDisabled(), err
		}
		if !enabled {
			return ScreenshotDisabled(), fmt.Errorf("assertion failed: selector is not enabled")
		}
		return ScreenshotDisabled(), nil

	case flow.AssertCheckedPayload:
		checked, err := a.IsChecked(ctx, p.Selector)
		if err != nil {
			return ScreenshotDisabled(), err
		}
		want := p.Expected.ValueOr(true)
		if checked != want {
			return ScreenshotDisabled(), fmt.Errorf("assertion failed: selector checked is %v, want %v", checked, want)
		}
		return ScreenshotDisabled(), nil

	default:
		return ScreenshotDisabled(), fmt.Errorf("executor: unhandled payload type %T for tag %q", p, cmd.Tag)
	}
}

func (e *Executor) dispatchInteraction(ctx context.Context, tag flow.Tag, sel selector.Interactable) error {
	a := e.cfg.Adapter
	switch tag {
	case flow.TagClick:
		return a.Click(ctx, sel)
	case flow.TagDblClick:
		return a.DblClick(ctx, sel)
	case flow.TagHover:
		return a.Hover(ctx, sel)
	case flow.TagFocus:
		return a.Focus(ctx, sel)
	case flow.TagCheck:
		return a.Check(ctx, sel)
	case flow.TagUncheck:
		return a.Uncheck(ctx, sel)
	default:
		return fmt.Errorf("executor: unhandled interaction tag %q", tag)
	}
}

// autoWaitInteractable waits for sel to be present before an interaction.
// A ref selector needs no wait: it already names a live element handle
// returned by a prior call.
func (e *Executor) autoWaitInteractable(ctx context.Context, sel selector.Interactable) error {
	if sel.Kind() == selector.KindRef {
		return nil
	}
	return e.autoWaitToken(ctx, sel.Kind(), sel.CLIToken(), sel.Value())
}

func (e *Executor) autoWaitAny(ctx context.Context, sel selector.Any) error {
	if sel.Kind() == selector.KindRef {
		return nil
	}
	return e.autoWaitToken(ctx, sel.Kind(), sel.CLIToken(), sel.Value())
}

func (e *Executor) autoWaitToken(ctx context.Context, kind selector.Kind, token, value string) error {
	timeoutMS := e.cfg.DefaultWaitTimeout.Milliseconds()
	switch kind {
	case selector.KindInteractableText, selector.KindAnyText:
		return e.cfg.Adapter.WaitForText(ctx, value, timeoutMS)
	default:
		return e.cfg.Adapter.WaitForSelector(ctx, token, timeoutMS)
	}
}

// scrollIntoView special-cases a ref selector: the driver's
// scrollIntoView only accepts fresh CSS/XPath/text tokens, so a ref is
// resolved via Focus instead, which every driver implementation accepts
// for any previously-handed-out element.
func (e *Executor) scrollIntoView(ctx context.Context, sel selector.Any) error {
	if sel.Kind() == selector.KindRef {
		return e.cfg.Adapter.Focus(ctx, selector.NewInteractableRef(sel.Value()))
	}
	if err := e.autoWaitAny(ctx, sel); err != nil {
		return err
	}
	return e.cfg.Adapter.ScrollIntoView(ctx, sel)
}

// shortAssertWaitCeiling bounds the assertNotVisible/anyText probe: a
// text node that is genuinely absent shouldn't make the flow wait out the
// full auto-wait timeout just to conclude a negative.
const shortAssertWaitCeiling = time.Second

// assertVisible implements the §4.6 auto-wait policy for assertVisible:
// css/xpath selectors wait for presence then check visibility (a ref
// selector skips the wait and goes straight to the check);
// anyText/interactableText selectors fold the check into the wait itself
// (a successful waitForText *is* the positive assertion).
func (e *Executor) assertVisible(ctx context.Context, sel selector.Any) error {
	if isTextSelector(sel.Kind()) {
		return e.cfg.Adapter.WaitForText(ctx, sel.Value(), e.cfg.DefaultWaitTimeout.Milliseconds())
	}
	if err := e.autoWaitAny(ctx, sel); err != nil {
		return err
	}
	visible, err := e.cfg.Adapter.IsVisible(ctx, sel)
	if err != nil {
		return err
	}
	if !visible {
		return fmt.Errorf("assertion failed: selector visibility is %v, want true", visible)
	}
	return nil
}

// assertNotVisible implements the §4.6 auto-wait policy for
// assertNotVisible: wait for network-idle first so a navigation in
// flight can't produce a false pass, then check for the selector's
// absence. css/xpath/ref selectors are checked with isVisible;
// anyText/interactableText selectors are checked with a short-ceiling
// waitForText, where the wait succeeding means the text *is* visible
// (assertion fails) and the wait timing out means it's absent (assertion
// passes).
func (e *Executor) assertNotVisible(ctx context.Context, sel selector.Any) error {
	if err := e.cfg.Adapter.WaitForNetworkIdle(ctx, e.cfg.DefaultWaitTimeout.Milliseconds()); err != nil {
		return err
	}

	if isTextSelector(sel.Kind()) {
		err := e.cfg.Adapter.WaitForText(ctx, sel.Value(), shortAssertWaitCeiling.Milliseconds())
		if err == nil {
			return fmt.Errorf("assertion failed: text %q is visible, want not visible", sel.Value())
		}
		if isTimeoutError(err) {
			return nil
		}
		return err
	}

	visible, err := e.cfg.Adapter.IsVisible(ctx, sel)
	if err != nil {
		return err
	}
	if visible {
		return fmt.Errorf("assertion failed: selector visibility is %v, want false", visible)
	}
	return nil
}

func isTextSelector(kind selector.Kind) bool {
	return kind == selector.KindInteractableText || kind == selector.KindAnyText
}

// isTimeoutError reports whether err is the adapter's typed timeout
// error, as opposed to some other failure a short wait might surface.
func isTimeoutError(err error) bool {
	type kinder interface{ Kind() adapter.Kind }
	k, ok := err.(kinder)
	return ok && k.Kind() == adapter.KindTimeout
}

func (e *Executor) dispatchWait(ctx context.Context, p flow.WaitPayload) error {
	a := e.cfg.Adapter
	timeoutMS := e.cfg.DefaultWaitTimeout.Milliseconds()

	switch {
	case p.MS != nil:
		return a.WaitForMS(ctx, int64(*p.MS))
	case p.CSS != nil:
		return a.WaitForSelector(ctx, *p.CSS, timeoutMS)
	case p.XPath != nil:
		return a.WaitForSelector(ctx, "xpath="+*p.XPath, timeoutMS)
	case p.AnyText != nil:
		return a.WaitForText(ctx, *p.AnyText, timeoutMS)
	case p.LoadState != nil:
		if *p.LoadState == flow.LoadStateNetworkIdle {
			return a.WaitForNetworkIdle(ctx, timeoutMS)
		}
		return a.WaitForLoad(ctx, timeoutMS)
	case p.URLPattern != nil:
		return a.WaitForURL(ctx, *p.URLPattern, timeoutMS)
	case p.JSExpr != nil:
		return a.WaitForFunction(ctx, p.JSExpr.String(), timeoutMS)
	default:
		return fmt.Errorf("executor: wait payload carries no mode")
	}
}

// dispatchScreenshot always captures: the explicit screenshot command is
// independent of the error-screenshot-on-failure policy (Config.ScreenshotOnError),
// which only governs the automatic capture attempted after a failed step.
func (e *Executor) dispatchScreenshot(ctx context.Context, p flow.ScreenshotPayload) (ScreenshotResult, error) {
	fullPage := p.FullPage.ValueOr(false)
	if err := e.cfg.Adapter.Screenshot(ctx, p.Path.String(), fullPage); err != nil {
		return ScreenshotFailed(err.Error()), err
	}
	return ScreenshotCaptured(p.Path.String()), nil
}
