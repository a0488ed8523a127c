package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"looneygrep/internal"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:      "looneygrep",
		Usage:     "Search a file, a directory or a web page for a string, with context and interactive replace",
		ArgsUsage: "<query> [file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Search every regular file in the directory (see --dir)",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Directory searched with --all",
				Value: ".",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Fetch and search a web page instead of a file",
			},
			&cli.BoolFlag{
				Name:    "ignore-case",
				Aliases: []string{"i"},
				Usage:   "Case-insensitive search (also enabled by the IGNORE_CASE environment variable)",
			},
			&cli.BoolFlag{
				Name:  "replace",
				Usage: "Prompt to replace each match (y/n/all/quit)",
			},
			&cli.StringFlag{
				Name:  "with",
				Usage: "Replacement text used by --replace",
			},
			&cli.IntFlag{
				Name:  "context",
				Usage: "Lines of context around each match",
			},
			&cli.IntFlag{
				Name:  "max-blocks",
				Usage: "Match blocks shown per source before output is truncated (0 - unlimited)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colours and syntax highlighting",
			},
			&cli.StringFlag{
				Name:  "theme",
				Usage: "Syntax highlighting theme",
			},
			&cli.BoolFlag{
				Name:  "html-text",
				Usage: "With --url, convert HTML pages to text before searching",
			},
			&cli.BoolFlag{
				Name:  "archives",
				Usage: "With --all, also search files inside archives (read-only)",
			},
			&cli.StringSliceFlag{
				Name:  "ext",
				Usage: "With --all, only search these extensions (comma separated, e.g. txt,log)",
			},
			&cli.StringSliceFlag{
				Name:  "skip-ext",
				Usage: "With --all, skip these extensions. Ignored when --ext is set.",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "With --all, files read ahead in parallel while results stay in order",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for fetching --url (e.g. 10s, 1m)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Config file with defaults (.toml, .yaml)",
			},
			&cli.StringFlag{
				Name:  "logfile",
				Usage: "Write logs into file instead of stderr",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
				Value: "warn",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	internal.InitLogger(c.String("logfile"), c.String("log-level"))

	defaults := internal.BaseDefaults().EnvDefaults(os.LookupEnv)
	if path := c.String("config"); path != "" {
		d, err := internal.LoadConfigFile(path, defaults)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		defaults = d
	}

	opts, err := optionsFromCLI(c, defaults)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	searcher := internal.NewSearcher(opts, os.Stdout, os.Stdin)
	err = searcher.Run(ctx)
	if opts.All {
		searcher.Stats().Summary(os.Stdout)
	}
	if err != nil {
		if ctx.Err() != nil {
			logrus.Warn("Search cancelled")
			return cli.Exit("Search cancelled", 130)
		}
		return cli.Exit(fmt.Sprintf("Application error: %v", err), 1)
	}
	fmt.Println("Search completed successfully.")
	return nil
}

// optionsFromCLI applies flags on top of defaults. Flags win only when set.
func optionsFromCLI(c *cli.Context, d internal.Defaults) (internal.Options, error) {
	opts := internal.NewOptions(d)
	opts.Query = c.Args().Get(0)
	opts.Path = c.Args().Get(1)
	if c.Args().Len() > 2 {
		return opts, fmt.Errorf("%w: unexpected arguments: %s", internal.ErrConfig, strings.Join(c.Args().Slice()[2:], " "))
	}
	opts.URL = c.String("url")
	opts.All = c.Bool("all")
	opts.Dir = c.String("dir")
	opts.Replace = c.Bool("replace")
	opts.HTMLText = c.Bool("html-text")
	opts.Archives = c.Bool("archives")
	opts.Whitelist = c.StringSlice("ext")
	opts.Blacklist = c.StringSlice("skip-ext")

	if c.Bool("ignore-case") {
		opts.IgnoreCase = true
	}
	if c.IsSet("with") {
		opts.Replacement = c.String("with")
	}
	if c.IsSet("context") {
		opts.Context = c.Int("context")
	}
	if c.IsSet("max-blocks") {
		opts.MaxBlocks = c.Int("max-blocks")
	}
	if c.Bool("no-color") {
		opts.Color = false
	}
	if c.IsSet("theme") {
		opts.Theme = c.String("theme")
	}
	if c.IsSet("workers") {
		opts.Workers = c.Int("workers")
	}
	if c.IsSet("timeout") {
		opts.Timeout = c.Duration("timeout")
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	opts.Prepare() // build fast lookup maps, set defaults
	return opts, nil
}

// hoistFlags moves flags given after positional arguments in front of them,
// so `looneygrep foo file.txt --context 2` parses like the flag-first form.
func hoistFlags(args []string, flags []cli.Flag) []string {
	if len(args) < 2 {
		return args
	}
	takesValue := map[string]bool{}
	for _, f := range flags {
		_, isBool := f.(*cli.BoolFlag)
		for _, name := range f.Names() {
			takesValue[name] = !isBool
		}
	}

	var flagArgs, positional []string
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		a := rest[i]
		if a == "--" {
			positional = append(positional, rest[i+1:]...)
			break
		}
		if !strings.HasPrefix(a, "-") || a == "-" {
			positional = append(positional, a)
			continue
		}
		flagArgs = append(flagArgs, a)
		name := strings.TrimLeft(a, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if takesValue[name] && i+1 < len(rest) {
			flagArgs = append(flagArgs, rest[i+1])
			i++
		}
	}
	out := append([]string{args[0]}, flagArgs...)
	if len(positional) > 0 {
		out = append(out, "--")
		out = append(out, positional...)
	}
	return out
}

func main() {
	app := newApp()
	if err := app.Run(hoistFlags(os.Args, app.Flags)); err != nil {
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			os.Exit(exit.ExitCode())
		}
		logrus.Fatal(err)
	}
}
