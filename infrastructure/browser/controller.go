package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ui_workflows/domain/entities"
	"ui_workflows/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const browserStateDir = ".browser_state"
const browserStateFile = "state.json"

const (
	defaultActionTimeout     = 5 * time.Second
	defaultNavigationTimeout = 30 * time.Second
)

// Options configures the browser launched by NewController
type Options struct {
	Headless          bool
	SlowMo            time.Duration
	StateDir          string
	DownloadDir       string
	ActionTimeout     time.Duration
	NavigationTimeout time.Duration
	Logger            *logrus.Logger
}

// Controller drives a Chromium browser through playwright
type Controller struct {
	pw          *playwright.Playwright
	browser     playwright.Browser
	context     playwright.BrowserContext
	storagePath string
	downloadDir string
	opts        Options
	logger      *logrus.Entry

	pagesMutex sync.Mutex
	page       playwright.Page
	pages      []playwright.Page
	frames     []playwright.FrameLocator
}

var _ interfaces.BrowserDriver = (*Controller)(nil)

// element wraps a locator pinned to one match
type element struct {
	loc  playwright.Locator
	desc string
}

func (e *element) String() string { return e.desc }

// NewController - starts playwright, restores the saved session and opens a page
func NewController(opts Options) (*Controller, error) {
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = defaultActionTimeout
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = defaultNavigationTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	stateDir := opts.StateDir
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		stateDir = filepath.Join(homeDir, browserStateDir)
	}
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	if opts.DownloadDir != "" {
		if err := os.MkdirAll(opts.DownloadDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create download directory: %w", err)
		}
	}
	storagePath := filepath.Join(stateDir, browserStateFile)

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
		Args: []string{
			"--disable-popup-blocking",
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--disable-infobars",
			"--disable-notifications",
		},
	})
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to launch browser: %w", err), pw.Stop())
	}

	controller := &Controller{
		pw:          pw,
		browser:     browser,
		storagePath: storagePath,
		downloadDir: opts.DownloadDir,
		opts:        opts,
		logger:      logrus.NewEntry(opts.Logger).WithField("component", "browser"),
	}
	if err := controller.openContext(); err != nil {
		return nil, multierr.Combine(err, browser.Close(), pw.Stop())
	}
	return controller, nil
}

// openContext starts a browser context from the saved session and opens its first page
func (b *Controller) openContext() error {
	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
		AcceptDownloads:   playwright.Bool(true),
		Permissions: []string{
			"clipboard-read",
			"clipboard-write",
		},
	}
	if state, ok := loadStorageState(b.storagePath); ok {
		contextOptions.StorageState = state.ToOptionalStorageState()
	}

	bctx, err := b.browser.NewContext(contextOptions)
	if err != nil {
		return fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		return multierr.Append(fmt.Errorf("failed to create page: %w", err), bctx.Close())
	}

	b.pagesMutex.Lock()
	b.context = bctx
	b.page = page
	b.pages = []playwright.Page{page}
	b.frames = nil
	b.pagesMutex.Unlock()
	b.watchPage(page)

	bctx.OnPage(func(newPage playwright.Page) {
		b.pagesMutex.Lock()
		b.pages = append(b.pages, newPage)
		b.page = newPage
		b.frames = nil
		b.pagesMutex.Unlock()

		b.watchPage(newPage)
	})
	return nil
}

// Reset - replaces the browser context with a fresh one. The saved session
// is written first and restored into the new context, so only a login survives.
func (b *Controller) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.browser == nil {
		return errors.New("browser is closed")
	}

	var resetErr error
	resetErr = multierr.Append(resetErr, ignoreClosed(b.SaveState()))
	if b.context != nil {
		if err := ignoreClosed(b.context.Close()); err != nil {
			resetErr = multierr.Append(resetErr, fmt.Errorf("failed to close context: %w", err))
		}
		b.context = nil
	}
	if resetErr != nil {
		return resetErr
	}

	if err := b.openContext(); err != nil {
		return err
	}
	b.logger.Debug("browser context reset")
	return nil
}

// loadStorageState reads a session saved by SaveState; a missing or broken file means a fresh session
func loadStorageState(path string) (playwright.StorageState, bool) {
	var storageState playwright.StorageState
	data, err := os.ReadFile(path)
	if err != nil {
		return storageState, false
	}
	if err := json.Unmarshal(data, &storageState); err != nil {
		return storageState, false
	}
	return storageState, true
}

// watchPage accepts dialogs, saves downloads and tracks when the page closes
func (b *Controller) watchPage(page playwright.Page) {
	page.OnDialog(func(dialog playwright.Dialog) {
		if err := dialog.Accept(); err != nil {
			b.logger.WithError(err).Warn("failed to accept dialog")
		}
	})

	page.OnDownload(func(download playwright.Download) {
		if b.downloadDir == "" {
			return
		}
		path := filepath.Join(b.downloadDir, downloadName(download.SuggestedFilename()))
		if err := download.SaveAs(path); err != nil {
			b.logger.WithError(err).WithField("file", path).Error("failed to save download")
			return
		}
		b.logger.WithField("file", path).Debug("download saved")
	})

	page.OnClose(func(closedPage playwright.Page) {
		b.pagesMutex.Lock()
		defer b.pagesMutex.Unlock()

		for i, p := range b.pages {
			if p == closedPage {
				b.pages = append(b.pages[:i], b.pages[i+1:]...)
				break
			}
		}

		if b.page == closedPage && len(b.pages) > 0 {
			b.page = b.pages[0]
			b.frames = nil
		}
	})
}

// downloadName keeps only the base name a page suggested for a download
func downloadName(suggested string) string {
	name := filepath.Base(strings.ReplaceAll(suggested, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "download"
	}
	return name
}

// Navigate - navigates to the specified URL
func (b *Controller) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.pagesMutex.Lock()
	currentPage := b.page
	b.frames = nil
	b.pagesMutex.Unlock()

	_, err := currentPage.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   timeoutFor(ctx, b.opts.NavigationTimeout),
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Find - returns every current match of query below scope, or below the current page or frame
func (b *Controller) Find(ctx context.Context, scope interfaces.Element, query entities.Query) ([]interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	selector, text, err := selectorFor(query)
	if err != nil {
		return nil, err
	}

	locate, err := b.root(scope)
	if err != nil {
		return nil, err
	}
	locator := locate(selector)
	if text != "" {
		locator = locator.Filter(playwright.LocatorFilterOptions{HasText: text})
	}

	matches, err := locator.All()
	if err != nil {
		return nil, fmt.Errorf("failed to locate elements %s: %w", query, err)
	}

	prefix := query.String()
	if scope != nil {
		prefix = scope.String() + " >> " + prefix
	}
	elements := make([]interfaces.Element, len(matches))
	for i, m := range matches {
		elements[i] = &element{loc: m, desc: fmt.Sprintf("%s [%d]", prefix, i)}
	}
	return elements, nil
}

// root returns the locator factory for lookups inside scope
func (b *Controller) root(scope interfaces.Element) (func(string) playwright.Locator, error) {
	if scope != nil {
		loc, err := unwrap(scope)
		if err != nil {
			return nil, err
		}
		return func(selector string) playwright.Locator { return loc.Locator(selector) }, nil
	}

	b.pagesMutex.Lock()
	defer b.pagesMutex.Unlock()

	if n := len(b.frames); n > 0 {
		frame := b.frames[n-1]
		return func(selector string) playwright.Locator { return frame.Locator(selector) }, nil
	}
	page := b.page
	return func(selector string) playwright.Locator { return page.Locator(selector) }, nil
}

// selectorFor translates a query into a playwright selector plus an optional text filter
func selectorFor(q entities.Query) (string, string, error) {
	if q.Selector == "" {
		return "", "", errors.New("empty selector")
	}
	switch q.Strategy {
	case entities.StrategyCSS, entities.StrategyDeepCSS, "":
		// playwright css already pierces open shadow roots
		return "css=" + q.Selector, "", nil
	case entities.StrategyCSSContainingText:
		return "css=" + q.Selector, q.Text, nil
	case entities.StrategyRole:
		if q.Text == "" {
			return "role=" + q.Selector, "", nil
		}
		return fmt.Sprintf("role=%s[name=%s]", q.Selector, quoteSelector(q.Text)), "", nil
	case entities.StrategyXPath:
		return "xpath=" + q.Selector, "", nil
	default:
		return "", "", fmt.Errorf("unsupported query strategy %q", q.Strategy)
	}
}

func quoteSelector(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func unwrap(el interfaces.Element) (playwright.Locator, error) {
	e, ok := el.(*element)
	if !ok || e == nil {
		return nil, fmt.Errorf("element %v was not found by this browser", el)
	}
	return e.loc, nil
}

// timeoutFor caps limit by the context deadline, in the milliseconds playwright expects
func timeoutFor(ctx context.Context, limit time.Duration) *float64 {
	d := limit
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < d {
			d = remaining
		}
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return playwright.Float(float64(d.Milliseconds()))
}

// with runs fn against the element's locator unless ctx is already done
func (b *Controller) with(ctx context.Context, el interfaces.Element, fn func(loc playwright.Locator, timeout *float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	loc, err := unwrap(el)
	if err != nil {
		return err
	}
	return fn(loc, timeoutFor(ctx, b.opts.ActionTimeout))
}

// Click - clicks on an element
func (b *Controller) Click(ctx context.Context, el interfaces.Element) error {
	return b.with(ctx, el, func(loc playwright.Locator, timeout *float64) error {
		return loc.Click(playwright.LocatorClickOptions{Timeout: timeout})
	})
}

// SetValue - replaces the value of an input field
func (b *Controller) SetValue(ctx context.Context, el interfaces.Element, text string) error {
	return b.with(ctx, el, func(loc playwright.Locator, timeout *float64) error {
		return loc.Fill(text, playwright.LocatorFillOptions{Timeout: timeout})
	})
}

// SetFiles - sets the files of a file input
func (b *Controller) SetFiles(ctx context.Context, el interfaces.Element, paths []string) error {
	return b.with(ctx, el, func(loc playwright.Locator, timeout *float64) error {
		return loc.SetInputFiles(paths, playwright.LocatorSetInputFilesOptions{Timeout: timeout})
	})
}

// Press - presses keys one after another on an element
func (b *Controller) Press(ctx context.Context, el interfaces.Element, keys ...string) error {
	return b.with(ctx, el, func(loc playwright.Locator, timeout *float64) error {
		for _, key := range keys {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := loc.Press(key, playwright.LocatorPressOptions{Timeout: timeout}); err != nil {
				return fmt.Errorf("failed to press %s: %w", key, err)
			}
		}
		return nil
	})
}

// SelectOption - selects an option of a select element by its label
func (b *Controller) SelectOption(ctx context.Context, el interfaces.Element, label string) error {
	return b.with(ctx, el, func(loc playwright.Locator, timeout *float64) error {
		_, err := loc.SelectOption(playwright.SelectOptionValues{Labels: &[]string{label}}, playwright.LocatorSelectOptionOptions{Timeout: timeout})
		return err
	})
}

// ReadText - returns the rendered text of an element
func (b *Controller) ReadText(ctx context.Context, el interfaces.Element) (string, error) {
	var text string
	err := b.with(ctx, el, func(loc playwright.Locator, timeout *float64) error {
		var err error
		text, err = loc.InnerText(playwright.LocatorInnerTextOptions{Timeout: timeout})
		return err
	})
	return text, err
}

// ReadHTML - returns the inner HTML of an element
func (b *Controller) ReadHTML(ctx context.Context, el interfaces.Element) (string, error) {
	var html string
	err := b.with(ctx, el, func(loc playwright.Locator, timeout *float64) error {
		var err error
		html, err = loc.InnerHTML(playwright.LocatorInnerHTMLOptions{Timeout: timeout})
		return err
	})
	return html, err
}

// ReadAttribute - returns an attribute value, empty when the attribute is absent
func (b *Controller) ReadAttribute(ctx context.Context, el interfaces.Element, name string) (string, error) {
	var value string
	err := b.with(ctx, el, func(loc playwright.Locator, timeout *float64) error {
		var err error
		value, err = loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: timeout})
		return err
	})
	return value, err
}

// ReadValue - returns the current value of an input field
func (b *Controller) ReadValue(ctx context.Context, el interfaces.Element) (string, error) {
	var value string
	err := b.with(ctx, el, func(loc playwright.Locator, timeout *float64) error {
		var err error
		value, err = loc.InputValue(playwright.LocatorInputValueOptions{Timeout: timeout})
		return err
	})
	return value, err
}

// IsVisible - checks if an element is visible right now
func (b *Controller) IsVisible(ctx context.Context, el interfaces.Element) (bool, error) {
	var visible bool
	err := b.with(ctx, el, func(loc playwright.Locator, _ *float64) error {
		var err error
		visible, err = loc.IsVisible()
		return err
	})
	return visible, err
}

// SwitchFrame - makes the content of an iframe the root of later lookups
func (b *Controller) SwitchFrame(ctx context.Context, frame interfaces.Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	loc, err := unwrap(frame)
	if err != nil {
		return err
	}

	b.pagesMutex.Lock()
	defer b.pagesMutex.Unlock()
	b.frames = append(b.frames, loc.ContentFrame())
	return nil
}

// SwitchToParentFrame - leaves the innermost frame entered with SwitchFrame
func (b *Controller) SwitchToParentFrame(ctx context.Context) error {
	b.pagesMutex.Lock()
	defer b.pagesMutex.Unlock()

	if len(b.frames) == 0 {
		return errors.New("not inside a frame")
	}
	b.frames = b.frames[:len(b.frames)-1]
	return nil
}

// SaveState - saves cookies and local storage for the next run
func (b *Controller) SaveState() error {
	if b.context == nil {
		return nil
	}
	if _, err := b.context.StorageState(b.storagePath); err != nil {
		return fmt.Errorf("failed to save browser state: %w", err)
	}
	return nil
}

// Close - saves state and shuts the browser down
func (b *Controller) Close() error {
	var closeErr error

	closeErr = multierr.Append(closeErr, ignoreClosed(b.SaveState()))

	if b.context != nil {
		if err := ignoreClosed(b.context.Close()); err != nil {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to close context: %w", err))
		}
		b.context = nil
	}

	if b.browser != nil {
		if err := ignoreClosed(b.browser.Close()); err != nil {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to close browser: %w", err))
		}
		b.browser = nil
	}

	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to stop playwright: %w", err))
		}
		b.pw = nil
	}

	return closeErr
}

// ignoreClosed drops errors caused by a browser that is already gone
func ignoreClosed(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTargetClosed) || strings.Contains(err.Error(), "closed") {
		return nil
	}
	return err
}
