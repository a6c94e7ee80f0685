// Command studymate answers questions about PDFs and generates quizzes.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/studymate/internal/adapters/driven/ai"
	"github.com/custodia-labs/studymate/internal/adapters/driven/config/file"
	"github.com/custodia-labs/studymate/internal/adapters/driven/index/memory"
	"github.com/custodia-labs/studymate/internal/adapters/driven/oauth"
	memstore "github.com/custodia-labs/studymate/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/studymate/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/studymate/internal/adapters/driving/cli"
	"github.com/custodia-labs/studymate/internal/connectors/filesystem"
	"github.com/custodia-labs/studymate/internal/connectors/github"
	"github.com/custodia-labs/studymate/internal/connectors/google"
	"github.com/custodia-labs/studymate/internal/connectors/google/classroom"
	"github.com/custodia-labs/studymate/internal/connectors/google/drive"
	"github.com/custodia-labs/studymate/internal/connectors/web"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/core/services"
	"github.com/custodia-labs/studymate/internal/normalisers/pdf"
	"github.com/custodia-labs/studymate/internal/postprocessors"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// googleTokenFile is the token file name under the StudyMate home.
const googleTokenFile = "google_token.json"

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	ctx := context.Background()
	svc, cleanup, err := wire(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "studymate: %v\n", err)
		os.Exit(1)
	}

	cli.SetServices(svc)
	cli.SetVersion(version)

	err = cli.Execute()
	cleanup()
	if err != nil {
		os.Exit(1)
	}
}

// wire builds the services from the saved settings. The returned cleanup
// releases AI clients and the history database.
func wire(ctx context.Context) (*cli.Services, func(), error) {
	var warnings []string

	var configStore driven.ConfigStore
	fileStore, err := file.NewConfigStore("")
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("settings will not be saved: %v", err))
		configStore = memstore.NewConfigStore()
	} else {
		configStore = fileStore
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("loading settings: %w", err)
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("opening prompts: %w", err)
	}

	aiResult := ai.Initialise(settings)
	closers := []func(){aiResult.Close}
	warnings = append(warnings, aiResult.Warnings...)

	session := services.NewSession(memstore.NewDocumentStore(), memory.New(aiResult.Similarity))
	documents := services.NewDocumentService(
		session,
		pdf.New(),
		postprocessors.NewChunker(settings.Chunker),
		aiResult.Similarity,
		settings.DuplicatePolicy,
	)

	var historyStore driven.HistoryStore
	if settings.HistoryEnabled {
		store, herr := sqlite.NewStore("")
		if herr != nil {
			warnings = append(warnings, fmt.Sprintf("history disabled: %v", herr))
		} else {
			historyStore = store
			closers = append(closers, func() { _ = store.Close() })
		}
	}

	fetchers := []driven.MaterialFetcher{
		github.NewFetcher(github.NewClient(ctx, settings.GitHubToken)),
	}

	var (
		auth   cli.ClassroomAuth
		source driven.ClassroomSource
	)
	if settings.Classroom.IsConfigured() {
		tokens, src, driveFetcher, gerr := wireGoogle(ctx, settings.Classroom)
		if gerr != nil {
			warnings = append(warnings, fmt.Sprintf("google classroom unavailable: %v", gerr))
		}
		if tokens != nil {
			auth = tokens
		}
		if src != nil {
			source = src
			fetchers = append(fetchers, driveFetcher)
		}
	}
	// The web fetcher accepts any https URL, so it goes last.
	fetchers = append(fetchers, web.NewFetcher())

	quiz, history := newStudyServices(session, aiResult.LLMService, prompts, historyStore, *settings)

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	return &cli.Services{
		Document:  documents,
		Ask:       services.NewResponder(session, aiResult.LLMService, prompts, *settings),
		Quiz:      quiz,
		Classroom: services.NewClassroomService(source),
		Import:    services.NewImportService(documents, fetchers...),
		History:   history,
		Settings:  settingsService,
		Auth:      auth,
		Watcher:   filesystem.New(documents),
		Warnings:  warnings,
	}, cleanup, nil
}

// newStudyServices builds the quiz and history services over one history
// store, so scored quizzes are listed by history.
func newStudyServices(
	session *services.Session,
	llm driven.LLMService,
	prompts driven.PromptStore,
	history driven.HistoryStore,
	settings domain.AppSettings,
) (*services.QuizGenerator, *services.HistoryService) {
	return services.NewQuizGenerator(session, llm, prompts, history, settings),
		services.NewHistoryService(history)
}

// wireGoogle builds the token store and, once a login exists, the
// Classroom source and Drive fetcher.
func wireGoogle(
	ctx context.Context,
	cfg domain.ClassroomSettings,
) (*oauth.TokenStore, *classroom.Source, *drive.Fetcher, error) {
	path, err := oauth.DefaultTokenPath(googleTokenFile)
	if err != nil {
		return nil, nil, nil, err
	}
	tokens := oauth.NewTokenStore(google.OAuthConfig(cfg.ClientID, cfg.ClientSecret), path)
	if !tokens.IsAuthenticated() {
		return tokens, nil, nil, nil
	}

	ts := google.NewTokenSource(ctx, tokens)
	classroomAPI, err := google.NewClassroomService(ctx, ts)
	if err != nil {
		return tokens, nil, nil, fmt.Errorf("classroom client: %w", err)
	}
	driveAPI, err := google.NewDriveService(ctx, ts)
	if err != nil {
		return tokens, nil, nil, fmt.Errorf("drive client: %w", err)
	}
	return tokens, classroom.NewSource(classroomAPI), drive.NewFetcher(driveAPI), nil
}
