package system

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockExecutor implements CommandExecutor for testing.
type MockExecutor struct {
	mu sync.Mutex

	// Commands records all executed commands for verification.
	Commands []MockCommand

	// Responses maps command patterns to responses. The most specific
	// pattern wins: the full command line, then "name arg1", then "name".
	Responses map[string]MockResponse

	// DefaultResponse is used when no matching response is found.
	DefaultResponse MockResponse
}

// MockCommand records an executed command.
type MockCommand struct {
	Name string
	Args []string
}

// String returns the command as "name arg1 arg2...".
func (c MockCommand) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// MockResponse defines the response for a command.
type MockResponse struct {
	Stdout string
	Stderr string
	Err    error
}

// NewMockExecutor creates a new MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Commands:  make([]MockCommand, 0),
		Responses: make(map[string]MockResponse),
	}
}

// AddResponse adds a response for a specific command pattern.
func (m *MockExecutor) AddResponse(pattern, stdout, stderr string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[pattern] = MockResponse{Stdout: stdout, Stderr: stderr, Err: err}
}

// Fail makes commands matching pattern exit with status 1.
func (m *MockExecutor) Fail(pattern, stderr string) {
	m.AddResponse(pattern, "", stderr, fmt.Errorf("exit status 1"))
}

func (m *MockExecutor) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := MockCommand{Name: name, Args: args}
	m.Commands = append(m.Commands, cmd)

	resp := m.lookup(cmd)
	res := &Result{Stdout: []byte(resp.Stdout), Stderr: []byte(resp.Stderr)}
	if resp.Err != nil {
		res.ExitCode = 1
	}
	return res, resp.Err
}

func (m *MockExecutor) lookup(cmd MockCommand) MockResponse {
	if resp, ok := m.Responses[cmd.String()]; ok {
		return resp
	}
	if len(cmd.Args) > 0 {
		if resp, ok := m.Responses[cmd.Name+" "+cmd.Args[0]]; ok {
			return resp
		}
	}
	if resp, ok := m.Responses[cmd.Name]; ok {
		return resp
	}
	return m.DefaultResponse
}

// LastCommand returns the most recently executed command.
func (m *MockExecutor) LastCommand() (MockCommand, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Commands) == 0 {
		return MockCommand{}, false
	}
	return m.Commands[len(m.Commands)-1], true
}

// CommandLines returns every recorded command as "name arg1 arg2...".
func (m *MockExecutor) CommandLines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Commands))
	for i, c := range m.Commands {
		out[i] = c.String()
	}
	return out
}

// Reset clears all recorded commands.
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = make([]MockCommand, 0)
}
