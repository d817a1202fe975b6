// Package service wires the YNAB tools into an MCP server and runs it over
// stdio.
package service

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/louisbranch/ynab-mcp/internal/budget"
	"github.com/louisbranch/ynab-mcp/internal/services/mcp/domain"
	"github.com/louisbranch/ynab-mcp/internal/ynab"
)

const (
	serverName = "ynab_mcp"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server owns the API client and the MCP server built around it. One Server
// serves one stdio session; the client is shared by all tool handlers and
// released on Close.
type Server struct {
	client *ynab.Client
	mcp    *mcp.Server
	log    zerolog.Logger
}

// New builds a Server with every tool module registered.
func New(client *ynab.Client, log zerolog.Logger) *Server {
	s := &Server{
		client: client,
		mcp:    mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil),
		log:    log,
	}
	for _, module := range s.modules() {
		module.register(s.mcp)
		s.log.Debug().Str("module", module.name).Msg("registered tool module")
	}
	return s
}

type registrationModule struct {
	name     string
	register func(server *mcp.Server)
}

func (s *Server) modules() []registrationModule {
	orchestrator := budget.NewService(s.client, s.log)
	return []registrationModule{
		{name: "budget-tools", register: func(server *mcp.Server) {
			mcp.AddTool(server, domain.BudgetsTool(), domain.BudgetsHandler(s.client))
		}},
		{name: "account-tools", register: func(server *mcp.Server) {
			mcp.AddTool(server, domain.AccountsTool(), domain.AccountsHandler(s.client))
		}},
		{name: "category-tools", register: func(server *mcp.Server) {
			mcp.AddTool(server, domain.CategoriesTool(), domain.CategoriesHandler(s.client))
			mcp.AddTool(server, domain.MoveMoneyTool(), domain.MoveMoneyHandler(orchestrator))
			mcp.AddTool(server, domain.SetCategoryBudgetTool(), domain.SetCategoryBudgetHandler(s.client))
		}},
		{name: "transaction-tools", register: func(server *mcp.Server) {
			mcp.AddTool(server, domain.TransactionsTool(), domain.TransactionsHandler(s.client))
			mcp.AddTool(server, domain.CreateTransactionTool(), domain.CreateTransactionHandler(orchestrator))
			mcp.AddTool(server, domain.UpdateTransactionTool(), domain.UpdateTransactionHandler(orchestrator))
		}},
		{name: "payee-tools", register: func(server *mcp.Server) {
			mcp.AddTool(server, domain.PayeesTool(), domain.PayeesHandler(s.client))
		}},
		{name: "month-tools", register: func(server *mcp.Server) {
			mcp.AddTool(server, domain.MonthSummaryTool(), domain.MonthSummaryHandler(s.client))
		}},
	}
}

// Run serves the MCP protocol over stdio until the context is canceled.
// Cancellation is a clean shutdown, not an error.
func (s *Server) Run(ctx context.Context) error {
	return s.runWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) runWithTransport(ctx context.Context, transport mcp.Transport) error {
	s.log.Info().Str("server", serverName).Str("version", serverVersion).Msg("serving MCP")
	err := s.mcp.Run(ctx, transport)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close releases the API client's connection.
func (s *Server) Close() {
	s.client.Close()
}
