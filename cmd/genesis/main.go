// cmd/genesis/main.go
//
// Entry point for the Genesis AI App Builder. It wires the project layout
// under .genesis/, the workflow rule table, the model router, and the agent
// roster into an orchestrator, then drives it either through the interactive
// terminal console or a plain stdin loop. An optional HTTP bridge exposes
// the current prompt and accepts answers from external tools.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/genesisforge/genesis/internal/agent"
	"github.com/genesisforge/genesis/internal/bridge"
	"github.com/genesisforge/genesis/internal/config"
	"github.com/genesisforge/genesis/internal/llm"
	"github.com/genesisforge/genesis/internal/logging"
	"github.com/genesisforge/genesis/internal/orchestrator"
	"github.com/genesisforge/genesis/internal/router"
	"github.com/genesisforge/genesis/internal/state"
	"github.com/genesisforge/genesis/internal/tui"
	"github.com/genesisforge/genesis/internal/workflow"
	"github.com/genesisforge/genesis/plugins"
)

func main() {
	var (
		useTUI     = flag.Bool("tui", false, "run the full-screen console instead of the stdin loop")
		mock       = flag.Bool("mock", false, "use canned agent responses instead of a live model")
		bridgeOn   = flag.Bool("bridge", false, "expose the prompt/response HTTP bridge")
		bridgeAddr = flag.String("bridge-addr", "127.0.0.1:8135", "bridge listen address (host:port)")
	)
	flag.Parse()

	if err := run(*useTUI, *mock, *bridgeOn, *bridgeAddr, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "genesis: %v\n", err)
		os.Exit(1)
	}
}

func run(useTUI, mock, bridgeOn bool, bridgeAddr, idea string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	if err := config.InitGenesisDir(cwd); err != nil {
		return fmt.Errorf("initialize %s directory: %w", config.GenesisDir, err)
	}
	cfg, err := config.NewConfig(cwd)
	if err != nil {
		return err
	}
	logger, err := logging.New(cwd)
	if err != nil {
		return err
	}
	defer logger.Close()

	workflowLog := logger.Component("workflow")
	table := workflow.LoadTable(cfg.WorkflowPath(), workflowLog)
	conditions := workflow.NewConditionRegistry(workflowLog)
	plugins.LoadConditionDir(cfg.ConditionPluginsDir(), conditions, logger.Component("plugins"))
	engine := workflow.NewEngine(table, conditions, workflowLog)

	clientFor := agent.MockClients()
	if !mock {
		models := router.Load(cfg.ModelSettingsPath(), logger.Component("router"))
		clientFor = func(agentName string) llm.Client {
			return llm.NewHTTPClient(models.Endpoint(agentName))
		}
	}
	roster := agent.NewRoster(clientFor, logger.Component("agents"))
	orch := orchestrator.New(state.New(logger.Component("state")), engine, roster, logger.Component("orchestrator"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if bridgeOn {
		settings, err := bridgeSettings(bridgeAddr)
		if err != nil {
			return err
		}
		srv := bridge.NewServer(settings, orch, bridge.WithLogger(logger.Component("bridge")))
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = srv.Shutdown(context.Background()) }()
		fmt.Printf("Bridge listening on %s\n", srv.BaseURL())
	}

	if useTUI {
		return tui.Run(orch, tui.WithContext(ctx))
	}
	return runPlain(ctx, orch, cfg.MaxSteps(), idea)
}

func bridgeSettings(addr string) (bridge.Settings, error) {
	settings := bridge.DefaultSettings()
	host, portStr, err := net.SplitHostPort(strings.TrimSpace(addr))
	if err != nil {
		return settings, fmt.Errorf("parse bridge address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return settings, fmt.Errorf("parse bridge port %q: %w", portStr, err)
	}
	settings.Host = host
	settings.Port = port
	return settings, nil
}

// runPlain drives dispatch cycles from a line-oriented console. Each prompt
// that expects an answer blocks on stdin before the next cycle runs.
func runPlain(ctx context.Context, orch *orchestrator.Orchestrator, maxSteps int, idea string) error {
	reader := bufio.NewReader(os.Stdin)
	if strings.TrimSpace(idea) == "" {
		fmt.Print("Describe the app you want to build: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read app idea: %w", err)
		}
		idea = strings.TrimSpace(line)
	}
	if idea == "" {
		return fmt.Errorf("an app idea is required")
	}
	orch.Start(ctx, idea)

	for step := 0; step < maxSteps && !orch.Done(); step++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		orch.RunCycle(ctx)
		for _, prompt := range orch.TakePrompts() {
			fmt.Printf("\n[%s] %s\n", prompt.Type, prompt.Content)
			if len(prompt.Options) > 0 {
				fmt.Printf("options: %s\n", strings.Join(prompt.Options, " / "))
			}
			if !expectsAnswer(prompt.Type) {
				continue
			}
			fmt.Print("> ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			orch.PushResponse(strings.TrimSpace(line), prompt.ContextID)
		}
	}
	status := orch.State().Status()
	fmt.Printf("\nProject status: %s\n", status)
	if !orch.Done() {
		fmt.Println("Stopped before reaching a terminal status; raise run.max_steps to continue longer builds.")
	}
	return nil
}

func expectsAnswer(promptType string) bool {
	switch promptType {
	case "QUESTION", "CRITICAL_ISSUE", "INSTRUCTION":
		return true
	}
	return false
}
