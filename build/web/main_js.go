//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/gosuda/poliz/build/mobile"
)

func runProgram(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		b, _ := json.Marshal(map[string]string{"error": "polizRun requires program text"})
		return string(b)
	}
	maxSteps := 0
	if len(args) > 1 && args[1].Type() == js.TypeNumber {
		maxSteps = args[1].Int()
	}
	return mobile.Run(args[0].String(), maxSteps)
}

func main() {
	js.Global().Set("polizRun", js.FuncOf(runProgram))
	select {}
}
