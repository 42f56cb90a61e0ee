package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Tool describes a callable tool as announced to the host.
// Parameters is a JSON Schema object describing the arguments.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"inputSchema"`
}

// Handler is the function signature for tool implementations.
// Handlers receive the request context and the decoded JSON arguments.
type Handler func(ctx context.Context, args map[string]any) (Result, error)

// Result is the text a tool call returns to the host.
// IsError marks a result the host should treat as a failed invocation.
type Result struct {
	Content string
	IsError bool
}

type entry struct {
	tool    Tool
	handler Handler
}

// Registry maps tool names to their definitions and handlers.
// It is safe for concurrent use.
type Registry struct {
	entries map[string]entry
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a new tool.
// Returns ErrAlreadyExists if a tool with the same name is already registered.
func (r *Registry) Register(tool Tool, handler Handler) error {
	if tool.Name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, tool.Name)
	}

	r.entries[tool.Name] = entry{tool: tool, handler: handler}
	return nil
}

// List returns the definitions of all registered tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.entries))
	for _, e := range r.entries {
		tools = append(tools, e.tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// Execute dispatches a tool call to the registered handler by name.
// Returns ErrNotFound if the tool is not registered.
// Handler errors are wrapped with the tool name.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (Result, error) {
	r.mu.RLock()
	e, exists := r.entries[name]
	r.mu.RUnlock()

	if !exists {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	result, err := e.handler(ctx, args)
	if err != nil {
		return Result{}, fmt.Errorf("tool %s execution failed: %w", name, err)
	}

	return result, nil
}
