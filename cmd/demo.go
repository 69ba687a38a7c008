package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/marcus/sheet/internal/config"
	"github.com/marcus/sheet/internal/logging"
	"github.com/marcus/sheet/pkg/sheet"
	"github.com/marcus/sheet/pkg/tui"
)

const defaultContent = `# Order #4821

Drag the handle to resize the sheet. Release it low on the screen to
minimize, or flick it to let it coast.

- **o** opens, **m** minimizes, **c** closes
- **t** toggles snap-to-top, **r** toggles no-resize
- **n** toggles whether the sheet can minimize
- **a** detaches and reattaches the sheet

Clicking above the sheet closes it. While the sheet is open the page
behind it does not scroll.
`

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the sheet in the terminal",
	Long: `Run the sheet over a scrollable page in the terminal.

Attributes come from the config file (.sheet/config.json by default), then
from flags. The config file is watched and edits apply live.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	f := demoCmd.Flags()
	f.String("config", "", "attribute file (default .sheet/config.json)")
	f.String("content", "", "markdown file shown in the sheet body")
	f.String("title", "", "sheet header title")
	f.Bool("configure", false, "pick attributes in a form before starting")
	f.Bool("no-watch", false, "do not reload the config file on change")
	f.Bool("touch", false, "emit touch events instead of mouse events")
	f.String("log-file", "", "write logs to this file (rotated)")
	f.String("log-level", "", "log level: debug, info, warn, error")
	addAttributeFlags(f)
	rootCmd.AddCommand(demoCmd)
}

// addAttributeFlags registers one flag per sheet attribute plus --attr for
// anything else.
func addAttributeFlags(f *pflag.FlagSet) {
	f.Bool(sheet.AttrOpen, false, "start open")
	f.Bool(sheet.AttrMinimize, false, "allow minimizing to the header rail")
	f.Bool(sheet.AttrNoResize, false, "disable dragging")
	f.Bool(sheet.AttrSnapToTop, false, "fill the viewport when open")
	f.Float64(sheet.AttrMinContentHeight, 0, "rows kept visible when minimized")
	f.StringToString("attr", nil, "extra attributes as name=value")
}

// applyAttributeFlags overlays changed attribute flags onto attrs. A bool
// flag set to false removes the attribute.
func applyAttributeFlags(f *pflag.FlagSet, attrs map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	for _, name := range []string{sheet.AttrOpen, sheet.AttrMinimize, sheet.AttrNoResize, sheet.AttrSnapToTop} {
		if !f.Changed(name) {
			continue
		}
		on, err := f.GetBool(name)
		if err != nil {
			return nil, err
		}
		if on {
			out[name] = ""
		} else {
			delete(out, name)
		}
	}
	if f.Changed(sheet.AttrMinContentHeight) {
		h, err := f.GetFloat64(sheet.AttrMinContentHeight)
		if err != nil {
			return nil, err
		}
		out[sheet.AttrMinContentHeight] = strconv.FormatFloat(h, 'f', -1, 64)
	}
	extra, err := f.GetStringToString("attr")
	if err != nil {
		return nil, err
	}
	for k, v := range extra {
		out[k] = v
	}
	return out, nil
}

func runDemo(c *cobra.Command, _ []string) error {
	f := c.Flags()
	logFile, _ := f.GetString("log-file")
	logLevel, _ := f.GetString("log-level")
	closer, err := logging.Init(logging.Options{Level: logLevel, File: logFile, Quiet: true}.FromEnv(), os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	cfgPath, _ := f.GetString("config")
	if cfgPath == "" {
		cfgPath = config.Path(getBaseDir())
	}
	cfg, err := config.LoadFile(cfgPath)
	if err != nil {
		return err
	}
	attrs, err := applyAttributeFlags(f, cfg.Attributes)
	if err != nil {
		return err
	}

	if configure, _ := f.GetBool("configure"); configure {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("--configure needs an interactive terminal")
		}
		save := false
		attrs, save, err = configureAttributes(attrs)
		if err != nil {
			return err
		}
		if save {
			cfg.Attributes = attrs
			if err := config.SaveFile(cfgPath, cfg); err != nil {
				return err
			}
			slog.Info("demo: saved attributes", "path", cfgPath)
		}
	}

	content, err := demoContent(f, cfg, cfgPath)
	if err != nil {
		return err
	}
	title, _ := f.GetString("title")
	if title == "" {
		title = cfg.Title
	}
	touch, _ := f.GetBool("touch")
	points := 0
	if touch {
		points = 1
	}

	m := tui.New(tui.Options{
		Title:          title,
		Content:        content,
		Page:           demoPage(),
		Attributes:     attrs,
		MaxTouchPoints: points,
		Logger:         slog.Default(),
	})

	ctx, cancel := context.WithCancel(c.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(gctx))

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	if noWatch, _ := f.GetBool("no-watch"); !noWatch {
		if _, err := os.Stat(filepath.Dir(cfgPath)); err == nil {
			initial := &config.Config{Title: cfg.Title, Content: cfg.Content, Attributes: attrs}
			g.Go(func() error {
				return config.Watch(gctx, cfgPath, initial, func(u config.Update) {
					forwardUpdate(p, u, cfgPath)
				})
			})
		} else {
			slog.Debug("demo: config dir missing, not watching", "path", cfgPath)
		}
	}
	return g.Wait()
}

// forwardUpdate turns a config reload into program messages.
func forwardUpdate(p *tea.Program, u config.Update, cfgPath string) {
	for _, ch := range u.Changes {
		p.Send(tui.AttributeMsg{Name: ch.Name, Value: ch.Value})
	}
	if u.ContentChanged {
		md, err := u.Config.ReadContent(cfgPath)
		if err != nil {
			slog.Warn("demo: reload content", "err", err)
			return
		}
		if md != "" {
			p.Send(tui.ContentMsg{Markdown: md})
		}
	}
}

func demoContent(f *pflag.FlagSet, cfg *config.Config, cfgPath string) (string, error) {
	if path, _ := f.GetString("content"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read content: %w", err)
		}
		return string(data), nil
	}
	md, err := cfg.ReadContent(cfgPath)
	if err != nil {
		return "", err
	}
	if md == "" {
		md = defaultContent
	}
	return md, nil
}

func demoPage() string {
	var lines []byte
	for i := 1; i <= 200; i++ {
		lines = fmt.Appendf(lines, "%3d  The page behind the sheet. Scroll it with the wheel or j/k.\n", i)
	}
	return string(lines)
}

// configureAttributes asks for attribute values in a form. It returns the
// new attributes and whether to save them.
func configureAttributes(current map[string]string) (map[string]string, bool, error) {
	has := func(name string) bool {
		_, ok := current[name]
		return ok
	}
	open, minimize := has(sheet.AttrOpen), has(sheet.AttrMinimize)
	noResize, snapToTop := has(sheet.AttrNoResize), has(sheet.AttrSnapToTop)
	minHeight := current[sheet.AttrMinContentHeight]
	save := false

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title("Start open?").Value(&open),
			huh.NewConfirm().Title("Allow minimizing?").Value(&minimize),
			huh.NewConfirm().Title("Disable dragging?").Value(&noResize),
			huh.NewConfirm().Title("Snap to top when open?").Value(&snapToTop),
			huh.NewInput().
				Title("Minimum content height").
				Description("Rows kept visible when minimized. Empty uses the header.").
				Value(&minHeight).
				Validate(validateHeight),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Save to the config file?").Value(&save),
		),
	)
	if err := form.Run(); err != nil {
		return nil, false, err
	}

	out := make(map[string]string)
	for k, v := range current {
		out[k] = v
	}
	set := func(name string, on bool) {
		if on {
			out[name] = ""
		} else {
			delete(out, name)
		}
	}
	set(sheet.AttrOpen, open)
	set(sheet.AttrMinimize, minimize)
	set(sheet.AttrNoResize, noResize)
	set(sheet.AttrSnapToTop, snapToTop)
	if minHeight == "" {
		delete(out, sheet.AttrMinContentHeight)
	} else {
		out[sheet.AttrMinContentHeight] = minHeight
	}
	return out, save, nil
}

func validateHeight(s string) error {
	if s == "" {
		return nil
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil || h < 0 || math.IsInf(h, 0) || math.IsNaN(h) {
		return errors.New("enter a non-negative number")
	}
	return nil
}
