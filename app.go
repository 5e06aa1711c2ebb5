package main

import (
	"log"

	"github.com/chazu/armature/pkg/artic"
	"github.com/chazu/armature/pkg/compile"
	"github.com/chazu/armature/pkg/engine"
	"github.com/chazu/armature/pkg/usda"
)

// App wires the evaluation pipeline together: Lisp source in, scene
// description text out. It is safe for sequential reuse; each Compile call
// starts from a fresh model.
type App struct {
	engine   *engine.Engine
	compiler *compile.Compiler
}

// EvalErrorData is a JSON-serializable eval error for tooling.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// CompileResult is the full result of a source-to-scene compilation.
type CompileResult struct {
	// Scene holds the serialized scene description, empty when compilation
	// was blocked by errors.
	Scene string `json:"scene"`

	// Errors holds source-level evaluation errors, fatal pipeline errors,
	// and blocking model findings.
	Errors []EvalErrorData `json:"errors"`

	// Warnings holds advisory findings that did not block compilation.
	Warnings []EvalErrorData `json:"warnings"`
}

// Ok reports whether a scene was produced.
func (r *CompileResult) Ok() bool {
	return r.Scene != ""
}

// NewApp creates an App with a fresh engine and compiler.
func NewApp() *App {
	return &App{
		engine:   engine.NewEngine(),
		compiler: compile.NewCompiler(),
	}
}

// Compile takes Lisp source and returns scene text plus diagnostics.
func (a *App) Compile(source string) CompileResult {
	result := CompileResult{
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into an articulation model.
	model, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    0,
			Message: err.Error(),
		})
		return result
	}

	// Step 2: Surface source-level errors before any model work.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 3: Compile the model into a scene document. The compiler runs
	// validation itself and reports blocking findings through the report.
	doc, rep := a.compiler.Compile(model)
	appendFindings(&result.Warnings, rep.Warnings)
	if doc == nil {
		appendFindings(&result.Errors, rep.Errors)
		return result
	}
	// Non-blocking per-joint errors (a joint dropped for a missing rest
	// pose) still reach the caller.
	appendFindings(&result.Errors, rep.Errors)

	// Step 4: Serialize the document.
	text, err := usda.String(doc)
	if err != nil {
		log.Printf("Serialize error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    0,
			Message: "serialization failed: " + err.Error(),
		})
		return result
	}
	result.Scene = text
	return result
}

// Validate evaluates source and returns model findings without compiling.
func (a *App) Validate(source string) CompileResult {
	result := CompileResult{
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	model, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Message: e.Message,
			})
		}
		return result
	}

	rep := artic.Validate(model)
	appendFindings(&result.Errors, rep.Errors)
	appendFindings(&result.Warnings, rep.Warnings)
	return result
}

func appendFindings(dst *[]EvalErrorData, findings []artic.Finding) {
	for _, f := range findings {
		*dst = append(*dst, EvalErrorData{Message: f.String()})
	}
}
