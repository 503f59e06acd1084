// Package engine evaluates scene scripts. It wraps zygomys in a sandboxed
// environment whose builtins build field graphs and collect them into the
// named parts of a scene.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/sdfkit/pkg/kernel"
	"github.com/chazu/sdfkit/pkg/scene"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalResult bundles the output of an evaluation.
type EvalResult struct {
	Scene  *scene.Scene
	Errors []EvalError
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout bounds a single evaluation. Non-positive values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithRegion sets the region used by parts that declare no bounds.
func WithRegion(r kernel.Region) Option {
	return func(e *Engine) { e.region = r }
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// each call to Evaluate creates a fresh sandboxed environment, and only the
// most recent evaluation may deliver a result.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	timeout time.Duration
	region  kernel.Region
}

// DefaultRegion is the meshing region of parts declared without bounds.
func DefaultRegion() kernel.Region {
	return kernel.Cube(2, 0.05)
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultTimeout, region: DefaultRegion()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Timeout returns the evaluation time limit.
func (e *Engine) Timeout() time.Duration {
	return e.timeout
}

// Evaluate runs source and returns the scene it declares.
//
// Return semantics:
//   - On success: returns scene + nil errors + nil error
//   - On parse/eval failure: returns nil scene + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*scene.Scene, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		sc, evalErrs, err := e.evaluate(source)
		ch <- evalResult{scene: sc, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, e.timeout, &e.mu, &e.generation)
}

// evaluate performs the zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*scene.Scene, []EvalError, error) {
	sc := scene.New()
	if strings.TrimSpace(source) == "" {
		return sc, nil, nil
	}

	// Sandbox mode keeps scripts away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, sc, e.region)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if err := sc.Validate(); err != nil {
		return nil, []EvalError{{Message: err.Error()}}, nil
	}
	return sc, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// extracting the line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
