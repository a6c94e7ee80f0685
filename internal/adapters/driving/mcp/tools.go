package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// UploadInput is the input schema for the upload_document tool.
type UploadInput struct {
	Path       string `json:"path,omitempty" jsonschema:"local path of a PDF readable by the server"`
	Filename   string `json:"filename,omitempty" jsonschema:"document name when sending data_base64"`
	DataBase64 string `json:"data_base64,omitempty" jsonschema:"base64 encoded PDF bytes, used instead of path"`
}

// DocumentOutput describes one loaded document.
type DocumentOutput struct {
	Filename   string `json:"filename"`
	Pages      int    `json:"pages"`
	ChunkCount int    `json:"chunk_count"`
	Source     string `json:"source"`
}

// DocumentsOutput is the output schema for list_documents.
type DocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// FilenameInput names a loaded document.
type FilenameInput struct {
	Filename string `json:"filename" jsonschema:"name of a loaded document as shown by list_documents"`
}

// DeleteOutput is the output schema for delete_document.
type DeleteOutput struct {
	Deleted string `json:"deleted"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"question about the loaded documents"`
	Language string `json:"language,omitempty" jsonschema:"answer language name or ISO code (default English)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// QuizInput is the input schema for generate_quiz.
type QuizInput struct {
	Count      int    `json:"count,omitempty" jsonschema:"number of questions (default 5)"`
	Difficulty string `json:"difficulty,omitempty" jsonschema:"easy, medium or hard (default medium)"`
	Language   string `json:"language,omitempty" jsonschema:"quiz language name or ISO code (default English)"`
}

// QuestionOutput is a quiz question without its answer.
type QuestionOutput struct {
	Number   int               `json:"number"`
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
}

// QuizOutput is the output schema for generate_quiz.
type QuizOutput struct {
	QuizID     string           `json:"quiz_id"`
	Difficulty string           `json:"difficulty"`
	Language   string           `json:"language"`
	Questions  []QuestionOutput `json:"questions"`
	Warning    string           `json:"warning,omitempty"`
}

// ScoreInput is the input schema for score_quiz.
type ScoreInput struct {
	QuizID  string   `json:"quiz_id" jsonschema:"id returned by generate_quiz"`
	Answers []string `json:"answers" jsonschema:"chosen option label per question in order; empty string skips a question"`
}

// ScoreOutput is the output schema for score_quiz.
type ScoreOutput struct {
	Score      int      `json:"score"`
	Total      int      `json:"total"`
	Percentage float64  `json:"percentage"`
	Correct    []string `json:"correct"`
}

// LanguagesOutput is the output schema for list_languages.
type LanguagesOutput struct {
	Languages []domain.Language `json:"languages"`
}

// ImportInput is the input schema for import_material.
type ImportInput struct {
	URL string `json:"url" jsonschema:"Google Drive, GitHub or https link to a PDF"`
}

// NoInput is used by tools without arguments.
type NoInput struct{}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "upload_document",
		Description: "Load a PDF into the study session so it can be asked about and quizzed on",
	}, s.handleUpload)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the PDFs loaded in the study session",
	}, s.handleListDocuments)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Remove a loaded PDF and its passages from the session",
	}, s.handleDeleteDocument)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only passages from the loaded PDFs",
	}, s.handleAsk)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_quiz",
		Description: "Generate a multiple-choice quiz from the loaded PDFs; answers are withheld until score_quiz",
	}, s.handleGenerateQuiz)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "score_quiz",
		Description: "Grade answers to a quiz produced by generate_quiz",
	}, s.handleScoreQuiz)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_languages",
		Description: "List the languages answers and quizzes can be written in",
	}, s.handleListLanguages)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "import_material",
		Description: "Download a PDF from Google Drive, GitHub or the web and load it",
	}, s.handleImport)
}

func (s *Server) handleUpload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	req, err := uploadRequest(input)
	if err != nil {
		return nil, DocumentOutput{}, err
	}

	summary, err := s.ports.Document.Upload(ctx, req, nil)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, documentOutput(*summary), nil
}

func uploadRequest(input UploadInput) (driving.UploadRequest, error) {
	switch {
	case input.DataBase64 != "":
		data, err := base64.StdEncoding.DecodeString(input.DataBase64)
		if err != nil {
			return driving.UploadRequest{}, domain.NewValidationError("data_base64", "not valid base64: %v", err)
		}
		return driving.UploadRequest{Filename: input.Filename, Data: data, Source: domain.SourceUpload}, nil
	case input.Path != "":
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return driving.UploadRequest{}, fmt.Errorf("reading %s: %w", input.Path, err)
		}
		name := input.Filename
		if name == "" {
			name = filepath.Base(input.Path)
		}
		return driving.UploadRequest{Filename: name, Data: data, Source: domain.SourceUpload}, nil
	default:
		return driving.UploadRequest{}, domain.NewValidationError("path", "either path or data_base64 is required")
	}
}

func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ NoInput,
) (*mcp.CallToolResult, DocumentsOutput, error) {
	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, DocumentsOutput{}, err
	}

	output := DocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = documentOutput(docs[i])
	}
	return nil, output, nil
}

func (s *Server) handleDeleteDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FilenameInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	if err := s.ports.Document.Delete(ctx, input.Filename); err != nil {
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{Deleted: input.Filename}, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Ask.Ask(ctx, input.Question, input.Language)
	if err != nil {
		return nil, AskOutput{}, err
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	return nil, AskOutput{Answer: answer.Text, Sources: sources}, nil
}

func (s *Server) handleGenerateQuiz(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuizInput,
) (*mcp.CallToolResult, QuizOutput, error) {
	count := input.Count
	if count <= 0 {
		count = 5
	}
	difficulty := domain.Difficulty(strings.ToLower(strings.TrimSpace(input.Difficulty)))
	if difficulty == "" {
		difficulty = domain.DifficultyMedium
	}

	quiz, err := s.ports.Quiz.Generate(ctx, driving.QuizRequest{
		Count:      count,
		Difficulty: difficulty,
		Language:   input.Language,
	})
	if quiz == nil {
		return nil, QuizOutput{}, err
	}

	s.rememberQuiz(quiz)

	output := QuizOutput{
		QuizID:     quiz.ID,
		Difficulty: quiz.Difficulty.String(),
		Language:   quiz.Language,
		Questions:  make([]QuestionOutput, len(quiz.Questions)),
	}
	for i, q := range quiz.Questions {
		output.Questions[i] = QuestionOutput{Number: i + 1, Question: q.Question, Options: q.Options}
	}
	if quiz.Warning != nil {
		output.Warning = quiz.Warning.Error()
	}
	return nil, output, nil
}

func (s *Server) handleScoreQuiz(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScoreInput,
) (*mcp.CallToolResult, ScoreOutput, error) {
	quiz, ok := s.lookupQuiz(input.QuizID)
	if !ok {
		return nil, ScoreOutput{}, fmt.Errorf("%w: %s", ErrUnknownQuiz, input.QuizID)
	}

	answers := make(map[int]string, len(input.Answers))
	for i, a := range input.Answers {
		if a = strings.ToUpper(strings.TrimSpace(a)); a != "" {
			answers[i] = a
		}
	}

	result, err := s.ports.Quiz.Score(ctx, quiz, answers)
	if err != nil {
		return nil, ScoreOutput{}, err
	}

	correct := make([]string, len(quiz.Questions))
	for i, q := range quiz.Questions {
		correct[i] = q.Correct
	}
	return nil, ScoreOutput{
		Score:      result.Score,
		Total:      result.Total,
		Percentage: result.Percentage,
		Correct:    correct,
	}, nil
}

func (s *Server) handleListLanguages(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ NoInput,
) (*mcp.CallToolResult, LanguagesOutput, error) {
	return nil, LanguagesOutput{Languages: domain.SupportedLanguages()}, nil
}

func (s *Server) handleImport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ImportInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	if s.ports.Import == nil {
		return nil, DocumentOutput{}, ErrImportUnavailable
	}

	summary, err := s.ports.Import.Import(ctx, input.URL, nil)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, documentOutput(*summary), nil
}

func documentOutput(d domain.DocumentSummary) DocumentOutput {
	return DocumentOutput{
		Filename:   d.Filename,
		Pages:      d.Pages,
		ChunkCount: d.ChunkCount,
		Source:     d.Source,
	}
}
