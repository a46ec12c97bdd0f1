package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/elitelearners/coursegen/internal/app/layout"
	appMigrations "github.com/elitelearners/coursegen/internal/app/migrations"
	"github.com/elitelearners/coursegen/internal/app/render"
	appServices "github.com/elitelearners/coursegen/internal/app/services"
	"github.com/elitelearners/coursegen/internal/config"
	"github.com/elitelearners/coursegen/internal/db"
	"github.com/elitelearners/coursegen/internal/pkg/logger"
	"github.com/elitelearners/coursegen/internal/pkg/validation"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Config       *config.Config
	Logger       zerolog.Logger
	Validator    *validation.Validator
	Renderer     *render.Renderer
	Readme       *appServices.ReadmeLog
	Scaffold     appServices.ScaffoldService
	Courses      appServices.CourseService
	Descriptions appServices.DescriptionService
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	// text format is only pretty-printed when a person is watching
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text" && term.IsTerminal(int(os.Stderr.Fd()))

	lgr := logger.Configure(logger.Config{
		Level:      logLevel,
		Pretty:     prettyLog,
		File:       cfg.Logging.File,
		MaxSizeMB:  10,
		MaxBackups: 3,
	})

	lgr.Debug().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to the catalog database and applies the embedded migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(database.Pool, lgr).Migrate(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes the renderer, the validator and the generation services.
func BuildDependencies(cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Logger: lgr}

	var err error
	deps.Renderer, err = render.New(render.Site{
		StaticBaseURL:   cfg.Site.StaticBaseURL,
		LearningBaseURL: cfg.Site.LearningBaseURL,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize templates")
		return nil, fmt.Errorf("failed to initialize templates: %w", err)
	}

	deps.Validator = validation.New()
	deps.Readme = appServices.NewReadmeLog(deps.Renderer, lgr)
	deps.Scaffold = appServices.NewScaffoldService(deps.Renderer, ScaffoldSettings(cfg), lgr)

	deps.Courses = appServices.NewCourseService(appServices.CourseServiceDeps{
		Layouts:     layout.NewBuilder(cfg.Output.Root, lgr),
		Index:       appServices.NewIndexService(deps.Renderer, lgr),
		Slides:      appServices.NewSlideService(deps.Renderer, lgr),
		Celebration: appServices.NewCelebrationService(deps.Renderer, lgr),
		Scaffold:    deps.Scaffold,
		Readme:      deps.Readme,
	}, lgr)

	deps.Descriptions = appServices.NewDescriptionService(deps.Renderer, deps.Readme, deps.Validator, lgr)

	return deps, nil
}

// ScaffoldSettings maps the scaffold section of cfg onto the config.php template values
func ScaffoldSettings(cfg *config.Config) render.ScaffoldView {
	return render.ScaffoldView{
		DBHost:     cfg.Scaffold.DBHost,
		DBName:     cfg.Scaffold.DBName,
		DBUser:     cfg.Scaffold.DBUser,
		DBPassword: cfg.Scaffold.DBPassword,
		LoginURL:   cfg.Scaffold.LoginURL,
	}
}
