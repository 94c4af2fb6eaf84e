package debug

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/cloudwego/eino-ext/devops"

	"github.com/dyike/mentorchat/config"
)

const defaultDevServerPort = 52538

// EinoDebugger starts the eino visual debug server so the conversation chain
// can be inspected while the web chat is running.
type EinoDebugger struct {
	config *config.Config
}

func NewEinoDebugger(cfg *config.Config) *EinoDebugger {
	return &EinoDebugger{config: cfg}
}

// Initialize is a no-op unless EINO_DEBUG_ENABLED is set.
func (d *EinoDebugger) Initialize(ctx context.Context) error {
	if !d.IsEnabled() {
		return nil
	}

	if d.config.Debug {
		log.Printf("[EinoDebug] Initializing Eino visual debug plugin on port %d", d.config.EinoDebugPort)
	}

	err := devops.Init(ctx, devops.WithDevServerPort(d.devServerPort()))
	if err != nil {
		return fmt.Errorf("failed to initialize Eino debug plugin: %w", err)
	}

	log.Printf("[EinoDebug] debug server at %s", d.GetDebugURL())
	return nil
}

func (d *EinoDebugger) IsEnabled() bool {
	return d.config != nil && d.config.EinoDebugEnabled
}

func (d *EinoDebugger) GetDebugURL() string {
	if !d.IsEnabled() {
		return ""
	}
	return "http://localhost:" + d.devServerPort()
}

func (d *EinoDebugger) devServerPort() string {
	if d.config.EinoDebugPort <= 0 {
		return strconv.Itoa(defaultDevServerPort)
	}
	return strconv.Itoa(d.config.EinoDebugPort)
}
