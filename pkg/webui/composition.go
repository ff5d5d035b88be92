package webui

import (
	"fmt"

	"github.com/entrhq/scout/pkg/registry"
)

// slotHandle is the opaque UI-slot handle this composition uses. The core
// never inspects it; the web client keys its DOM elements by the same ids.
type slotHandle string

// RegisterComponents registers the full UI composition: the research tab
// plus the agent and browser settings tabs. Registration happens once at
// startup; the registry is append-only for the process lifetime.
func RegisterComponents(reg *registry.Registry) error {
	tabs := map[string][]string{
		"research": {
			"chatbot",
			"identity",
			"run-button",
			"stop-button",
			"clear-button",
			"browser-view",
			"report",
		},
		"agent-settings": {
			"model",
			"base-url",
			"max-steps",
			"save-button",
			"load-button",
		},
		"browser-settings": {
			"headless",
			"viewport-width",
			"viewport-height",
		},
	}

	for tab, fields := range tabs {
		mapping := make(map[string]registry.Slot, len(fields))
		for _, field := range fields {
			mapping[field] = slotHandle(tab + "." + field)
		}
		if err := reg.Register(tab, mapping); err != nil {
			return fmt.Errorf("webui: component registration failed: %w", err)
		}
	}
	return nil
}
