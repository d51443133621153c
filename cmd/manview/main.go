package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/term"
	"pkt.systems/manview"
	"pkt.systems/version"
)

const (
	defaultThemeName = "default"
	defaultWidth     = 80
	defaultHeight    = 24
)

func init() {
	version.SetDefaultModule("pkt.systems/manview")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	width      int
	height     int
	wrap       string
	page       int
	themeName  string
	osc8       string
	boring     bool
	titleLines bool
	pageMarks  bool
	verbose    bool
	listThemes bool
	outPath    string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	flags := pflag.NewFlagSet("manview", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.IntVarP(&opts.width, "width", "w", 0, "Page width (0 uses terminal width if available)")
	flags.IntVarP(&opts.height, "height", "H", 0, "Page height (0 uses terminal height if available)")
	flags.StringVar(&opts.wrap, "wrap", "full", "Wrap mode: full|long|none")
	flags.IntVarP(&opts.page, "page", "p", 0, "Print only this page (0 prints every page)")
	flags.StringVarP(&opts.themeName, "theme", "t", defaultThemeName, "Theme name")
	flags.StringVarP(&opts.osc8, "osc8", "8", "auto", "OSC8 hyperlinks: auto|on|off")
	flags.BoolVarP(&opts.boring, "boring", "b", false, "Plain text output without ANSI styling")
	flags.BoolVar(&opts.titleLines, "title-lines", false, "Render the header and footer lines from .TH")
	flags.BoolVar(&opts.pageMarks, "page-marks", false, "Print a marker line between pages")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log parse diagnostics to stderr")
	flags.BoolVar(&opts.listThemes, "list-themes", false, "List available themes")
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output file instead of stdout")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: manview [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nIf no input is provided, the document is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if opts.listThemes {
		printThemes(stdout)
		return 0
	}

	log, err := newLogger(opts.verbose)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	mode, err := manview.ParseWrapMode(opts.wrap)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --wrap: %v\n", err)
		return 2
	}
	osc8, err := resolveOSC8(opts.osc8)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --osc8 %q: %v\n", opts.osc8, err)
		return 2
	}
	theme, ok := manview.ThemeByName(opts.themeName)
	if !ok {
		fmt.Fprintf(stderr, "unknown theme %q\n\n", opts.themeName)
		printThemes(stderr)
		return 2
	}

	text, err := readInputs(flags.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "read input: %v\n", err)
		return 1
	}
	if err := manview.ValidateInput(text); err != nil {
		fmt.Fprintf(stderr, "input: %v\n", err)
		return 1
	}

	doc := manview.Parse(string(text), manview.WithLogger(log))
	width, height := resolveSize(opts.width, opts.height)
	pager, err := manview.NewPager(doc, width, height, mode, manview.WithTitleLines(opts.titleLines))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	if err := writeOutput(opts.outPath, stdout, func(w io.Writer) error {
		return printPages(w, pager, opts, theme, osc8)
	}); err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func printPages(w io.Writer, pager *manview.Pager, opts options, theme manview.Theme, osc8 bool) error {
	pages, err := pager.Pages()
	if err != nil {
		return err
	}
	first, last := 1, pages.Len()
	if opts.page != 0 {
		first, last = opts.page, opts.page
	}
	for n := first; n <= last; n++ {
		page, err := pages.Page(n)
		if err != nil {
			return err
		}
		if opts.pageMarks && n > first {
			if _, err := fmt.Fprintf(w, "-- %d/%d --\n", n, pages.Len()); err != nil {
				return err
			}
		}
		if opts.boring {
			if _, err := io.WriteString(w, manview.PlainText(page.Lines)); err != nil {
				return err
			}
			continue
		}
		if err := manview.WriteANSI(w, page.Lines, theme, manview.WithOSC8(osc8)); err != nil {
			return err
		}
	}
	return nil
}

func printThemes(w io.Writer) {
	for _, name := range manview.AvailableThemes() {
		fmt.Fprintln(w, name)
	}
}

func resolveSize(width, height int) (int, int) {
	tw, th := terminalSize()
	if width <= 0 {
		width = firstPositive(tw, envInt("COLUMNS"), defaultWidth)
	}
	if height <= 0 {
		height = firstPositive(th, envInt("LINES"), defaultHeight)
	}
	return width, height
}

func terminalSize() (int, int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, 0
	}
	w, h, err := term.GetSize(fd)
	if err != nil {
		return 0, 0
	}
	return w, h
}

func envInt(name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(name)))
	if err != nil {
		return 0
	}
	return n
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return manview.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

// readInputs concatenates every input, or stdin when there is none.
func readInputs(args []string, stdin io.Reader) (data []byte, err error) {
	if len(args) == 0 {
		return io.ReadAll(stdin)
	}
	for _, raw := range args {
		src, err := openInput(raw)
		if err != nil {
			return nil, err
		}
		chunk, readErr := io.ReadAll(src)
		if err := multierr.Combine(readErr, src.Close()); err != nil {
			return nil, fmt.Errorf("%s: %w", raw, err)
		}
		data = append(data, chunk...)
	}
	return data, nil
}

func openInput(raw string) (io.ReadCloser, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return openURL(raw)
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return os.Open(normalizePath(path))
		}
	}
	return os.Open(normalizePath(raw))
}

func openURL(raw string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, raw, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, multierr.Append(fmt.Errorf("http %s: %s", raw, resp.Status), resp.Body.Close())
	}
	return resp.Body, nil
}

// writeOutput runs render against path, or stdout when path is empty, and
// reports the close error of the output file along with any render error.
func writeOutput(path string, stdout io.Writer, render func(io.Writer) error) (err error) {
	if strings.TrimSpace(path) == "" {
		return render(stdout)
	}
	clean := normalizePath(path)
	if dir := filepath.Dir(clean); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	return render(f)
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}
