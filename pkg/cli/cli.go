// Package cli is the command front-end of gridshot. Each subcommand owns a
// flag.FlagSet; the core packages stay I/O-free, so every file and network
// touch lives here.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/joho/godotenv"

	"github.com/Fepozopo/gridshot/pkg/board"
	"github.com/Fepozopo/gridshot/pkg/game"
	"github.com/Fepozopo/gridshot/pkg/level"
)

// Exit codes of the gridshot binary.
const (
	ExitOK         = 0
	ExitError      = 1
	ExitUnknownCmd = 2
	ExitValidation = 3
)

var debugEnabled bool

func init() {
	// .env is optional; it carries OPENAI_API_KEY for the prompt provider.
	_ = godotenv.Load()
	d := os.Getenv("GRIDSHOT_DEBUG")
	debugEnabled = d == "1" || d == "true"
}

func debugf(format string, args ...any) {
	if debugEnabled {
		fmt.Fprintf(os.Stderr, "gridshot: "+format+"\n", args...)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: gridshot <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  from-text    build a level from a text silhouette")
	fmt.Fprintln(os.Stderr, "  from-word    build a level from a built-in template word")
	fmt.Fprintln(os.Stderr, "  from-image   build a level from a PNG/JPEG/GIF image")
	fmt.Fprintln(os.Stderr, "  from-prompt  build a level from a free-form prompt")
	fmt.Fprintln(os.Stderr, "  preview      print an ASCII preview of a level JSON")
	fmt.Fprintln(os.Stderr, "  export-png   render a level layer to a PNG file")
	fmt.Fprintln(os.Stderr, "  validate     re-check a level JSON's invariants")
	fmt.Fprintln(os.Stderr, "  solve        search for a winning action sequence")
	fmt.Fprintln(os.Stderr, "  version      print the gridshot version")
	fmt.Fprintln(os.Stderr, "  update       self-update from the latest release")
}

// Run dispatches a subcommand and returns the process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		usage()
		return ExitUnknownCmd
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "from-text":
		return cmdFromText(rest)
	case "from-word":
		return cmdFromWord(rest)
	case "from-image":
		return cmdFromImage(rest)
	case "from-prompt":
		return cmdFromPrompt(rest)
	case "preview":
		return cmdPreview(rest)
	case "export-png":
		return cmdExportPNG(rest)
	case "validate":
		return cmdValidate(rest)
	case "solve":
		return cmdSolve(rest)
	case "version":
		fmt.Println("gridshot " + CurrentVersion)
		return ExitOK
	case "update":
		return cmdUpdate(rest)
	case "help", "-h", "--help":
		usage()
		return ExitOK
	default:
		fmt.Fprintf(os.Stderr, "gridshot: unknown command %q\n", cmd)
		usage()
		return ExitUnknownCmd
	}
}

// fail prints the error and maps its kind to an exit code.
func fail(err error) int {
	fmt.Fprintf(os.Stderr, "gridshot: %v\n", err)
	if errors.Is(err, board.ErrValidation) || errors.Is(err, board.ErrInfeasible) {
		return ExitValidation
	}
	return ExitError
}

// writeLevel serializes the level to out, '-' meaning stdout.
func writeLevel(lvl *level.Level, out string) int {
	data, err := lvl.Encode()
	if err != nil {
		return fail(err)
	}
	if out == "-" {
		os.Stdout.Write(data)
		return ExitOK
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fail(err)
	}
	debugf("wrote %s (%d bytes)", out, len(data))
	return ExitOK
}

func cmdFromText(args []string) int {
	fs := flag.NewFlagSet("from-text", flag.ContinueOnError)
	opt, out := buildFlags(fs)
	if err := fs.Parse(args); err != nil {
		return ExitError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "gridshot from-text: expected exactly one TEXT argument")
		return ExitError
	}
	lvl, err := level.FromText(fs.Arg(0), opt())
	if err != nil {
		return fail(err)
	}
	return writeLevel(lvl, *out)
}

func cmdFromWord(args []string) int {
	fs := flag.NewFlagSet("from-word", flag.ContinueOnError)
	opt, out := buildFlags(fs)
	if err := fs.Parse(args); err != nil {
		return ExitError
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "gridshot from-word: expected exactly one WORD argument (available: %s)\n",
			strings.Join(level.TemplateWords(), ", "))
		return ExitError
	}
	lvl, err := level.FromWord(fs.Arg(0), opt())
	if err != nil {
		return fail(err)
	}
	return writeLevel(lvl, *out)
}

// buildFlags registers the flags shared by the mask-driven builders and
// returns a getter that materializes the options after parsing.
func buildFlags(fs *flag.FlagSet) (func() level.BuildOptions, *string) {
	w := fs.Int("w", 16, "board width")
	h := fs.Int("h", 16, "board height")
	colors := fs.Int("colors", 4, "palette size")
	mode := fs.String("color-mode", "vertical_stripes", "solid | vertical_stripes | quadrants")
	padding := fs.Int("padding", 1, "margin cells around the silhouette")
	fillBG := fs.Bool("fill-background", false, "fill empty cells with a background color index")
	bgIndex := fs.Int("background-index", 0, "palette index used with -fill-background")
	slots := fs.String("slots-mode", "derangement", "same | rotate | derangement")
	out := fs.String("out", "-", "output path or '-' for stdout")
	return func() level.BuildOptions {
		return level.BuildOptions{
			W: *w, H: *h,
			PaletteSize:     *colors,
			ColorMode:       board.ColorMode(*mode),
			Padding:         *padding,
			FillBackground:  *fillBG,
			BackgroundIndex: *bgIndex,
			SlotsMode:       board.SlotsMode(*slots),
		}
	}, out
}

func cmdFromImage(args []string) int {
	fs := flag.NewFlagSet("from-image", flag.ContinueOnError)
	var opt level.ImageOptions
	fs.IntVar(&opt.W, "w", 16, "board width")
	fs.IntVar(&opt.H, "h", 16, "board height")
	fs.IntVar(&opt.Colors, "colors", 5, "palette size to quantize to")
	fs.IntVar(&opt.AlphaThreshold, "alpha-threshold", 16, "alpha below this is background")
	fs.IntVar(&opt.MinComponentSize, "min-component-size", 2, "remove foreground specks smaller than this")
	fs.BoolVar(&opt.FillBackground, "fill-background", false, "fill transparent pixels with -background")
	fs.StringVar(&opt.BackgroundHex, "background", "#000000", "background color with -fill-background")
	recolor := fs.String("recolor-mode", "source", "source | palette_map")
	recolorPalette := fs.String("recolor-palette", "", "comma-separated #RRGGBB list with -recolor-mode palette_map")
	mapMode := fs.String("palette-map-mode", "nearest", "nearest | luma_buckets, with -recolor-mode palette_map")
	slots := fs.String("slots-mode", "derangement", "same | rotate | derangement")
	out := fs.String("out", "-", "output path or '-' for stdout")
	outPNG := fs.String("out-png", "", "optional PNG preview path")
	pngScale := fs.Int("png-scale", 16, "cell size for -out-png")
	pngLayer := fs.String("png-layer", "slots", "slots | top")
	noGrid := fs.Bool("no-png-grid", false, "disable grid lines in -out-png")
	if err := fs.Parse(args); err != nil {
		return ExitError
	}
	opt.RecolorMode = level.RecolorMode(*recolor)
	opt.PaletteMapMode = level.PaletteMapMode(*mapMode)
	if *recolorPalette != "" {
		opt.RecolorPalette = strings.Split(*recolorPalette, ",")
	}
	opt.SlotsMode = board.SlotsMode(*slots)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "gridshot from-image: expected exactly one PATH argument")
		return ExitError
	}
	lvl, err := level.FromImage(fs.Arg(0), opt)
	if err != nil {
		return fail(err)
	}
	if code := writeLevel(lvl, *out); code != ExitOK {
		return code
	}
	if *outPNG != "" {
		if err := lvl.WritePNG(*outPNG, level.Layer(*pngLayer), *pngScale, !*noGrid); err != nil {
			return fail(err)
		}
	}
	return ExitOK
}

func cmdFromPrompt(args []string) int {
	fs := flag.NewFlagSet("from-prompt", flag.ContinueOnError)
	var req level.PromptRequest
	fs.IntVar(&req.W, "w", 24, "board width")
	fs.IntVar(&req.H, "h", 24, "board height")
	fs.IntVar(&req.Colors, "colors", 5, "palette size")
	mode := fs.String("color-mode", "vertical_stripes", "solid | vertical_stripes | quadrants")
	fs.IntVar(&req.Padding, "padding", 1, "margin cells around the silhouette")
	fs.StringVar(&req.Provider, "provider", "offline", "offline | openai")
	fs.StringVar(&req.Model, "model", "gpt-4o-mini", "model name with -provider openai")
	fs.StringVar(&req.CacheDir, "cache-dir", ".gridshot_cache", "response cache with -provider openai")
	fs.IntVar(&req.Candidates, "candidates", 6, "candidate masks with -provider openai")
	fs.IntVar(&req.MinFGComponent, "min-fg-component", 2, "remove foreground specks smaller than this")
	slots := fs.String("slots-mode", "derangement", "same | rotate | derangement")
	out := fs.String("out", "-", "output path or '-' for stdout")
	if err := fs.Parse(args); err != nil {
		return ExitError
	}
	req.ColorMode = board.ColorMode(*mode)
	req.SlotsMode = board.SlotsMode(*slots)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "gridshot from-prompt: expected exactly one PROMPT argument")
		return ExitError
	}
	req.Prompt = fs.Arg(0)
	lvl, err := level.FromPrompt(req)
	if err != nil {
		return fail(err)
	}
	return writeLevel(lvl, *out)
}

func cmdPreview(args []string) int {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	view := fs.String("view", "mask", "mask | idx")
	copyOut := fs.Bool("copy", false, "also copy the preview to the clipboard")
	if err := fs.Parse(args); err != nil {
		return ExitError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "gridshot preview: expected exactly one level JSON path")
		return ExitError
	}
	path := fs.Arg(0)
	lvl, err := level.Load(path)
	if err != nil {
		return fail(err)
	}
	text, err := lvl.Preview(path, level.PreviewView(*view))
	if err != nil {
		return fail(err)
	}
	os.Stdout.WriteString(text)
	if *copyOut {
		if err := clipboard.WriteAll(text); err != nil {
			fmt.Fprintf(os.Stderr, "gridshot: clipboard copy failed: %v\n", err)
		}
	}
	return ExitOK
}

func cmdExportPNG(args []string) int {
	fs := flag.NewFlagSet("export-png", flag.ContinueOnError)
	layer := fs.String("layer", "slots", "slots | top")
	scale := fs.Int("scale", 16, "pixels per cell")
	noGrid := fs.Bool("no-grid", false, "disable grid lines")
	out := fs.String("out", "", "output PNG path (required)")
	if err := fs.Parse(args); err != nil {
		return ExitError
	}
	if fs.NArg() != 1 || *out == "" {
		fmt.Fprintln(os.Stderr, "gridshot export-png: expected a level JSON path and -out PATH")
		return ExitError
	}
	lvl, err := level.Load(fs.Arg(0))
	if err != nil {
		return fail(err)
	}
	if err := lvl.WritePNG(*out, level.Layer(*layer), *scale, !*noGrid); err != nil {
		return fail(err)
	}
	return ExitOK
}

func cmdValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	var th board.RegionThresholds
	fs.IntVar(&th.MinLargestRegion, "min-largest-region", 0, "per-color largest region floor")
	fs.IntVar(&th.MaxTotalRegions, "max-total-regions", 0, "region count ceiling")
	fs.Float64Var(&th.MaxFragmentation, "max-fragmentation", 0, "regions per occupied cell ceiling")
	fs.IntVar(&th.MinOccupiedCells, "min-occupied-cells", 0, "occupied cell floor")
	copyOut := fs.Bool("copy", false, "also copy the report to the clipboard")
	if err := fs.Parse(args); err != nil {
		return ExitError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "gridshot validate: expected exactly one level JSON path")
		return ExitError
	}
	path := fs.Arg(0)
	lvl, err := level.Load(path)
	if err != nil {
		return fail(err)
	}

	ok, reasons := lvl.Validate()
	report, err := board.ValidateGridRegions(lvl.Top, th)
	if err != nil {
		return fail(err)
	}
	reasons = append(reasons, report.Reasons...)
	ok = ok && report.OK

	var b strings.Builder
	fmt.Fprintf(&b, "%s: ", path)
	if ok {
		b.WriteString("ok\n")
	} else {
		b.WriteString("INVALID\n")
		for _, r := range reasons {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}
	fmt.Fprintf(&b, "occupied=%d regions=%d fragmentation=%.4f\n",
		report.Stats.OccupiedCells, report.Stats.TotalRegions, report.Stats.Fragmentation())

	os.Stdout.WriteString(b.String())
	if *copyOut {
		if err := clipboard.WriteAll(b.String()); err != nil {
			fmt.Fprintf(os.Stderr, "gridshot: clipboard copy failed: %v\n", err)
		}
	}
	if !ok {
		return ExitValidation
	}
	return ExitOK
}

func cmdSolve(args []string) int {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	maxExpanded := fs.Int("max-expanded", 50000, "state expansion budget")
	maxSteps := fs.Int("max-steps", 80, "solution depth cap")
	allowWait := fs.Bool("allow-wait", true, "allow wait actions")
	capacity := fs.Int("conveyor", 5, "conveyor capacity")
	entrance := fs.Int("entrance", 0, "shooter entrance perimeter index")
	fireFirst := fs.Bool("fire-then-move", false, "fire before moving on each tick")
	if err := fs.Parse(args); err != nil {
		return ExitError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "gridshot solve: expected exactly one level JSON path")
		return ExitError
	}
	lvl, err := level.Load(fs.Arg(0))
	if err != nil {
		return fail(err)
	}

	cfg := game.Config{
		ConveyorCapacity: *capacity,
		EntrancePos:      *entrance,
		MoveThenFire:     !*fireFirst,
	}
	res := game.Solve(lvl.Top, lvl.Slots, lvl.W, lvl.H, cfg, game.SolveOptions{
		MaxExpanded: *maxExpanded,
		MaxSteps:    *maxSteps,
		AllowWait:   *allowWait,
	})

	fmt.Printf("solvable=%v reason=%s expanded=%d\n", res.Solvable, res.Reason, res.Expanded)
	if res.Solvable {
		fmt.Printf("steps=%d\n", res.Steps)
		for i, a := range res.Solution {
			if a.Kind == game.ActionTap {
				fmt.Printf("  %3d tap (%d,%d)\n", i+1, a.X, a.Y)
			} else {
				fmt.Printf("  %3d wait\n", i+1)
			}
		}
		return ExitOK
	}
	return ExitValidation
}
