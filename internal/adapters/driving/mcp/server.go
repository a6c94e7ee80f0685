package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// maxQuizzes caps how many generated quizzes are kept for scoring.
const maxQuizzes = 32

// Server is the MCP server for StudyMate.
type Server struct {
	ports  *Ports
	server *mcp.Server

	mu        sync.Mutex
	quizzes   map[string]*domain.Quiz
	quizOrder []string
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "studymate",
		Version: Version,
	}

	s := &Server{
		ports:   ports,
		server:  mcp.NewServer(impl, nil),
		quizzes: make(map[string]*domain.Quiz),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over streamable HTTP on addr.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck // Best-effort shutdown
	}()

	logger.Info("MCP server listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// rememberQuiz keeps a generated quiz so score_quiz can grade it later.
// The oldest quiz is evicted once maxQuizzes are held.
func (s *Server) rememberQuiz(quiz *domain.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quizzes[quiz.ID]; !ok {
		s.quizOrder = append(s.quizOrder, quiz.ID)
	}
	s.quizzes[quiz.ID] = quiz

	for len(s.quizOrder) > maxQuizzes {
		delete(s.quizzes, s.quizOrder[0])
		s.quizOrder = s.quizOrder[1:]
	}
}

func (s *Server) lookupQuiz(id string) (*domain.Quiz, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[id]
	return quiz, ok
}
