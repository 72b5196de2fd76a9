// Package repl is an interactive step-through debugger for a single
// parsed module: pick an exported function, supply its arguments, then
// single-step the kernel one top-level instruction at a time while
// watching the value stack, locals, and instruction list update.
package repl

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-runtime/allocator"
	"github.com/wippyai/wasm-runtime/ast"
	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/interp"
	"github.com/wippyai/wasm-runtime/parser"
	"github.com/wippyai/wasm-runtime/token"
	"github.com/wippyai/wasm-runtime/values"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))

	stackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))

	pcStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))

	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

type stage int

const (
	stageSelectFunc stage = iota
	stageInputArgs
	stageStepping
	stageDone
)

type model struct {
	err      error
	filename string

	alloc  *allocator.Allocator
	inst   *interp.ModuleInstance
	module *ast.Module

	funcs    []string
	selected int

	inputs   []textinput.Model
	focusIdx int

	frame  *interp.StackFrame
	fn     *interp.WasmFunc
	pc     int
	trace  []string
	trap   *errors.Trap
	result []values.Value

	stage stage
}

// New builds the initial model for a .wat source file at path.
func New(filename string) *model {
	return &model{filename: filename, stage: stageSelectFunc}
}

type loadedMsg struct {
	err    error
	alloc  *allocator.Allocator
	inst   *interp.ModuleInstance
	module *ast.Module
	funcs  []string
}

func (m *model) Init() tea.Cmd { return m.load }

func (m *model) load() tea.Msg {
	src, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}
	tokens, err := token.Tokenize(string(src))
	if err != nil {
		return loadedMsg{err: err}
	}
	program, err := parser.Parse(tokens, string(src))
	if err != nil {
		return loadedMsg{err: err}
	}
	var mod *ast.Module
	for _, n := range program.Body {
		if m, ok := n.(*ast.Module); ok {
			mod = m
			break
		}
	}
	if mod == nil {
		return loadedMsg{err: fmt.Errorf("no module form found in %s", m.filename)}
	}
	alloc := allocator.New()
	inst, err := interp.CreateInstance(alloc, mod, interp.Imports{})
	if err != nil {
		return loadedMsg{err: err}
	}
	if trap, err := interp.RunStart(alloc, inst, mod); err != nil {
		return loadedMsg{err: err}
	} else if trap != nil {
		return loadedMsg{err: trap}
	}
	names := inst.ExportedFuncNames()
	sort.Strings(names)
	return loadedMsg{alloc: alloc, inst: inst, module: mod, funcs: names}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.alloc, m.inst, m.module, m.funcs = msg.alloc, msg.inst, msg.module, msg.funcs
	}

	if m.stage == stageInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.stage == stageSelectFunc && m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.stage == stageSelectFunc && m.selected < len(m.funcs)-1 {
			m.selected++
		}

	case "enter":
		switch m.stage {
		case stageSelectFunc:
			return m, m.prepareInputs()
		case stageInputArgs:
			m.beginCall()
		case stageStepping:
			m.step()
		case stageDone:
			m.stage = stageSelectFunc
			m.trace = nil
			m.result = nil
			m.trap = nil
			m.err = nil
		}

	case "tab":
		if m.stage == stageInputArgs && len(m.inputs) > 1 {
			m.inputs[m.focusIdx].Blur()
			m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
			m.inputs[m.focusIdx].Focus()
		}

	case "esc":
		if m.stage == stageInputArgs {
			m.stage = stageSelectFunc
			m.inputs = nil
		}
	}

	if m.stage == stageInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m *model) prepareInputs() tea.Cmd {
	exp := m.inst.Exports[m.funcs[m.selected]]
	fi, _ := m.alloc.Get(exp.Addr).(*interp.WasmFunc)
	if fi == nil {
		m.err = fmt.Errorf("%s cannot be stepped (a host import)", m.funcs[m.selected])
		return nil
	}
	m.inputs = make([]textinput.Model, len(fi.Signature.Params))
	for i, p := range fi.Signature.Params {
		ti := textinput.New()
		ti.Placeholder = p.Valtype
		name := p.Valtype
		if p.ID != nil {
			name = p.ID.Value
		}
		ti.Prompt = name + ": "
		ti.Width = 24
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
	if len(m.inputs) == 0 {
		m.beginCall()
		return nil
	}
	m.stage = stageInputArgs
	return nil
}

func (m *model) beginCall() {
	funcName := m.funcs[m.selected]
	exp := m.inst.Exports[funcName]
	fi, _ := m.alloc.Get(exp.Addr).(*interp.WasmFunc)

	args := make([]values.Value, len(fi.Signature.Params))
	for i, p := range fi.Signature.Params {
		var raw string
		if i < len(m.inputs) {
			raw = m.inputs[i].Value()
		}
		args[i] = parseArg(p.Valtype, raw)
	}

	frame, fn, err := interp.PrepareCall(m.alloc, m.inst, funcName, args)
	if err != nil {
		m.err = err
		return
	}
	m.frame, m.fn, m.pc = frame, fn, 0
	m.trace = nil
	m.trap = nil
	m.result = nil
	m.stage = stageStepping
}

func parseArg(valtype, raw string) values.Value {
	f, _ := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	t, ok := interp.ValueTypeOf(valtype)
	if !ok {
		t = values.I32
	}
	return values.CreateValue(t, f)
}

func (m *model) step() {
	if m.pc >= len(m.frame.Code) {
		m.finish()
		return
	}
	in := m.frame.Code[m.pc]
	m.trace = append(m.trace, describeInstr(in))
	err := interp.Step(m.frame, in)
	m.pc++
	if err == nil {
		if m.pc >= len(m.frame.Code) {
			m.finish()
		}
		return
	}
	if trap, ok := err.(*errors.Trap); ok {
		m.trap = trap
		m.stage = stageDone
		return
	}
	// A return instruction (or any bubbling control signal at the
	// function's own top level) ends the call; the frame's remaining
	// operand stack holds the results.
	m.finish()
}

func (m *model) finish() {
	n := 0
	if m.fn != nil {
		n = len(m.fn.Signature.Results)
	}
	if n > len(m.frame.Stack) {
		n = len(m.frame.Stack)
	}
	m.result = m.frame.Stack[len(m.frame.Stack)-n:]
	m.stage = stageDone
}

func describeInstr(in ast.Instruction) string {
	switch v := in.(type) {
	case *ast.Instr:
		if v.Object != "" {
			return v.Object + "." + v.ID
		}
		return v.ID
	case *ast.BlockInstruction:
		return "block"
	case *ast.LoopInstruction:
		return "loop"
	case *ast.IfInstruction:
		return "if"
	case *ast.CallInstruction:
		return "call"
	case *ast.CallIndirectInstruction:
		return "call_indirect"
	default:
		return "?"
	}
}

func (m *model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)) + "\n"
	}
	if len(m.funcs) == 0 {
		return "Loading module...\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("wat step debugger"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.stage {
	case stageSelectFunc:
		b.WriteString("Select an exported function:\n\n")
		for i, name := range m.funcs {
			cursor := "  "
			if i == m.selected {
				cursor = pcStyle.Render("> " + name)
			} else {
				cursor = "  " + funcStyle.Render(name)
			}
			b.WriteString(cursor + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("up/down select - enter choose - q quit"))

	case stageInputArgs:
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(m.funcs[m.selected])))
		for _, in := range m.inputs {
			b.WriteString(in.View() + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("tab next field - enter call - esc back"))

	case stageStepping:
		b.WriteString(fmt.Sprintf("Stepping %s (%d/%d instructions)\n\n",
			funcStyle.Render(m.funcs[m.selected]), m.pc, len(m.frame.Code)))
		b.WriteString("Executed: " + strings.Join(m.trace, ", ") + "\n\n")
		b.WriteString(stackStyle.Render("stack: " + formatStack(m.frame.Stack)) + "\n")
		b.WriteString(stackStyle.Render("locals: " + formatStack(m.frame.Locals)) + "\n\n")
		b.WriteString(helpStyle.Render("enter step - q quit"))

	case stageDone:
		if m.trap != nil {
			b.WriteString(errorStyle.Render("trapped: " + m.trap.Message) + "\n")
		} else {
			b.WriteString(doneStyle.Render("result: "+formatStack(m.result)) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("enter restart - q quit"))
	}

	return b.String()
}

func formatStack(vs []values.Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%s:%v", v.Type, v.Float64())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Run starts the debugger's bubbletea program for the module at path.
func Run(path string) error {
	p := tea.NewProgram(New(path), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
