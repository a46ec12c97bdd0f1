package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/elitelearners/coursegen/internal/app/layout"
	"github.com/elitelearners/coursegen/internal/app/manifest"
	appServices "github.com/elitelearners/coursegen/internal/app/services"
	"github.com/elitelearners/coursegen/internal/app/wizard"
	"github.com/elitelearners/coursegen/internal/bootstrap"
	"github.com/elitelearners/coursegen/internal/server"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errNotInteractive = errors.New("the form needs an interactive terminal, use `coursegen build -f <manifest>` instead")
)

// commandLine carries the streams and the dependencies shared by all commands
type commandLine struct {
	stdin  io.Reader
	stdout io.Writer
	deps   *bootstrap.Dependencies
}

func newApp(stdin io.Reader, stdout io.Writer) *cli.App {
	cmd := &commandLine{stdin: stdin, stdout: stdout}

	return &cli.App{
		Name:      "coursegen",
		Usage:     "generate static e-learning course sites",
		Writer:    stdout,
		ErrWriter: stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   filepath.Join("configs", "config.yaml"),
				EnvVars: []string{"COURSEGEN_CONFIG"},
				Usage:   "path of the YAML configuration file",
			},
		},
		Before: cmd.setup,
		Commands: []*cli.Command{
			{
				Name:  "new",
				Usage: "create a course interactively, one module at a time",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "save", Usage: "also write the entered course to this manifest file"},
				},
				Action: cmd.newCourse,
			},
			{
				Name:  "build",
				Usage: "generate a course from a YAML manifest",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "manifest file"},
				},
				Action: cmd.build,
			},
			{
				Name:  "scaffold",
				Usage: "write the AUTH/ progress backend into an existing course",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Required: true, Usage: "course root directory"},
				},
				Action: cmd.scaffold,
			},
			{
				Name:  "describe",
				Usage: "generate a stand-alone course description page",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "image", Usage: "image URL"},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "objectives"},
					&cli.IntFlag{Name: "chapters"},
					&cli.StringFlag{Name: "duration"},
					&cli.StringFlag{Name: "assessment"},
					&cli.StringFlag{Name: "dir", Usage: "output directory (default: output root)"},
				},
				Action: cmd.describe,
			},
			{
				Name:  "preview",
				Usage: "serve a generated course over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Required: true, Usage: "course root directory"},
					&cli.StringFlag{Name: "port", Usage: "listen port (default: preview.port)"},
				},
				Action: cmd.preview,
			},
			{
				Name:  "publish",
				Usage: "register a course from a manifest in the catalog database",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "manifest file"},
					&cli.BoolFlag{Name: "replace", Usage: "replace a course already published under the same title"},
				},
				Action: cmd.publish,
			},
			{
				Name:   "migrate",
				Usage:  "apply the catalog database migrations",
				Action: cmd.migrate,
			},
		},
	}
}

func (cmd *commandLine) setup(c *cli.Context) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return err
	}
	cmd.deps, err = bootstrap.BuildDependencies(cfg, lgr)
	return err
}

func (cmd *commandLine) newCourse(c *cli.Context) error {
	if f, ok := cmd.stdin.(*os.File); !ok || !isTerminalFunc(int(f.Fd())) {
		return errNotInteractive
	}

	cfg := cmd.deps.Config
	interval := cfg.AutosaveInterval()
	if !cfg.Autosave.Enabled {
		interval = 0
	}

	prompter := wizard.NewTerminalPrompter(cmd.stdin, cmd.stdout)
	runner := wizard.NewRunner(prompter, cmd.deps.Courses, cmd.deps.Validator, interval, cmd.deps.Logger)
	result, err := runner.Run(c.Context)
	if err != nil {
		return err
	}

	if path := c.String("save"); path != "" {
		if err := manifest.Save(path, result.Course); err != nil {
			return err
		}
		fmt.Fprintf(cmd.stdout, "Manifest saved to %s\n", path)
	}
	cmd.printBuild(result.Build)
	return nil
}

func (cmd *commandLine) build(c *cli.Context) error {
	course, err := manifest.Load(c.String("file"), cmd.deps.Validator, cmd.deps.Logger)
	if err != nil {
		return err
	}
	b, err := cmd.deps.Courses.Build(course)
	if err != nil {
		return err
	}
	cmd.printBuild(b)
	return nil
}

func (cmd *commandLine) printBuild(b *appServices.Build) {
	fmt.Fprintf(cmd.stdout, "Course %q written to %s (%d modules)\n", b.Info.Title, b.Layout.Root, len(b.ModulesWritten))
}

func (cmd *commandLine) scaffold(c *cli.Context) error {
	authDir := filepath.Join(c.String("dir"), layout.AuthDir)
	if err := os.MkdirAll(authDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", authDir, err)
	}
	report, err := cmd.deps.Scaffold.EmitScaffold(authDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.stdout, "created: %s\nskipped: %s\n", list(report.Created), list(report.Skipped))
	return nil
}

func list(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func (cmd *commandLine) describe(c *cli.Context) error {
	dir := c.String("dir")
	if dir == "" {
		dir = cmd.deps.Config.Output.Root
	}
	path, err := cmd.deps.Descriptions.Generate(dir, appServices.Description{
		Title:       c.String("title"),
		ImageURL:    c.String("image"),
		Description: c.String("description"),
		Objectives:  c.String("objectives"),
		Chapters:    c.Int("chapters"),
		Duration:    c.String("duration"),
		Assessment:  c.String("assessment"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.stdout, "Description page written to %s\n", path)
	return nil
}

func (cmd *commandLine) preview(c *cli.Context) error {
	cfg := cmd.deps.Config
	port := c.String("port")
	if port == "" {
		port = cfg.Preview.Port
	}
	srv, err := server.NewServer(server.Options{
		Dir:            c.String("dir"),
		Port:           port,
		AllowedOrigins: cfg.Preview.AllowedOrigins,
		Debug:          strings.ToLower(cfg.Logging.Level) == "debug",
	}, cmd.deps.Logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.stdout, "Previewing %s on http://localhost:%s/\n", c.String("dir"), port)
	return srv.Run(c.Context)
}

func (cmd *commandLine) publish(c *cli.Context) error {
	course, err := manifest.Load(c.String("file"), cmd.deps.Validator, cmd.deps.Logger)
	if err != nil {
		return err
	}
	database, err := bootstrap.SetupDatabase(c.Context, cmd.deps.Config, cmd.deps.Logger)
	if err != nil {
		return err
	}
	defer database.Close()

	result, err := appServices.NewCatalogService(database, cmd.deps.Logger).Publish(c.Context, course, c.Bool("replace"))
	if err != nil {
		return err
	}
	verb := "Published"
	if result.Replaced {
		verb = "Replaced"
	}
	fmt.Fprintf(cmd.stdout, "%s %q as course %d (%d modules, %d slides)\n", verb, course.Title, result.CourseID, result.Modules, result.Slides)
	return nil
}

func (cmd *commandLine) migrate(c *cli.Context) error {
	database, err := bootstrap.SetupDatabase(c.Context, cmd.deps.Config, cmd.deps.Logger)
	if err != nil {
		return err
	}
	database.Close()
	fmt.Fprintln(cmd.stdout, "Catalog database is up to date")
	return nil
}
