package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-runtime/allocator"
	"github.com/wippyai/wasm-runtime/ast"
	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/interp"
	"github.com/wippyai/wasm-runtime/parser"
	"github.com/wippyai/wasm-runtime/repl"
	"github.com/wippyai/wasm-runtime/token"
	"github.com/wippyai/wasm-runtime/values"
)

func main() {
	var (
		watFile     = flag.String("wat", "", "Path to a .wat source file")
		funcName    = flag.String("func", "", "Exported function to call")
		argsStr     = flag.String("args", "", "Comma-separated argument values")
		interactive = flag.Bool("i", false, "Step through execution in the TUI debugger")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *watFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: watrun -wat <file.wat> [-func name] [-args v1,v2,...]")
		fmt.Fprintln(os.Stderr, "       watrun -wat <file.wat> -i")
		os.Exit(1)
	}

	if *interactive {
		if err := repl.Run(*watFile); err != nil {
			logger.Error("debugger exited with error", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if err := run(logger, *watFile, *funcName, *argsStr); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, watFile, funcName, argsStr string) error {
	src, err := os.ReadFile(watFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	tokens, err := token.Tokenize(string(src))
	if err != nil {
		return logParseError(logger, err)
	}
	logger.Info("tokenized", zap.String("file", watFile), zap.Int("tokens", len(tokens)))

	program, err := parser.Parse(tokens, string(src))
	if err != nil {
		return logParseError(logger, err)
	}

	var mod *ast.Module
	for _, n := range program.Body {
		if m, ok := n.(*ast.Module); ok {
			mod = m
			break
		}
	}
	if mod == nil {
		return fmt.Errorf("no module form found in %s", watFile)
	}
	logger.Info("parsed module", zap.Int("fields", len(mod.Fields)))

	alloc := allocator.New()
	inst, err := interp.CreateInstance(alloc, mod, interp.Imports{})
	if err != nil {
		return logRuntimeError(logger, err)
	}
	logger.Info("instantiated module",
		zap.Int("funcs", len(inst.FuncAddrs)),
		zap.Int("globals", len(inst.GlobalAddrs)),
		zap.Int("memories", len(inst.MemAddrs)),
	)

	if trap, err := interp.RunStart(alloc, inst, mod); err != nil {
		return logRuntimeError(logger, err)
	} else if trap != nil {
		logger.Warn("start function trapped", zap.String("message", trap.Message))
		return trap
	}

	if funcName == "" {
		names := inst.ExportedFuncNames()
		fmt.Printf("Exported functions: %s\n", strings.Join(names, ", "))
		return nil
	}

	exp, ok := inst.Exports[funcName]
	if !ok || exp.Type != ast.ExportFunc {
		return fmt.Errorf("no exported function named %q", funcName)
	}

	args := parseArgs(alloc, exp, argsStr)
	logger.Info("calling", zap.String("func", funcName), zap.Int("args", len(args)))

	results, trap, err := interp.InvokeFuncAddr(alloc, exp.Addr, args)
	if err != nil {
		return logRuntimeError(logger, err)
	}
	if trap != nil {
		logger.Warn("trap", zap.String("message", trap.Message))
		fmt.Printf("trap: %s\n", trap.Message)
		return nil
	}

	fmt.Printf("result: %s\n", formatResults(results))
	return nil
}

func parseArgs(alloc *allocator.Allocator, exp interp.ExportValue, argsStr string) []values.Value {
	fi, ok := alloc.Get(exp.Addr).(*interp.WasmFunc)
	if !ok || argsStr == "" {
		return nil
	}
	raw := strings.Split(argsStr, ",")
	args := make([]values.Value, 0, len(raw))
	for i, r := range raw {
		valtype := "i32"
		if i < len(fi.Signature.Params) {
			valtype = fi.Signature.Params[i].Valtype
		}
		f, _ := strconv.ParseFloat(strings.TrimSpace(r), 64)
		t, ok := interp.ValueTypeOf(valtype)
		if !ok {
			t = values.I32
		}
		args = append(args, values.CreateValue(t, f))
	}
	return args
}

func formatResults(results []values.Value) string {
	parts := make([]string, len(results))
	for i, v := range results {
		parts[i] = fmt.Sprintf("%s(%v)", v.Type, v.Float64())
	}
	return strings.Join(parts, ", ")
}

func logParseError(logger *zap.Logger, err error) error {
	var perr *errors.ParseError
	if ok := asParseError(err, &perr); ok {
		logger.Error("parse error",
			zap.String("kind", string(perr.Err.Kind)),
			zap.String("detail", perr.Err.Detail),
		)
		fmt.Fprintln(os.Stderr, perr.Err.CodeFrame)
	}
	return err
}

func logRuntimeError(logger *zap.Logger, err error) error {
	var rerr *errors.RuntimeError
	if ok := asRuntimeError(err, &rerr); ok {
		logger.Error("runtime error",
			zap.String("kind", string(rerr.Err.Kind)),
			zap.String("detail", rerr.Err.Detail),
		)
	}
	return err
}

func asParseError(err error, target **errors.ParseError) bool {
	if pe, ok := err.(*errors.ParseError); ok {
		*target = pe
		return true
	}
	return false
}

func asRuntimeError(err error, target **errors.RuntimeError) bool {
	if re, ok := err.(*errors.RuntimeError); ok {
		*target = re
		return true
	}
	return false
}
