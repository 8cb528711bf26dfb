package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Alerter is the host alerting primitive: a modal prompt for remediation and
// fallback messages. It carries no state of its own.
type Alerter interface {
	Alert(title, message string)
	Confirm(prompt string) bool
}

type terminalAlerter struct {
	in *bufio.Reader
}

func newTerminalAlerter() *terminalAlerter {
	return &terminalAlerter{in: bufio.NewReader(os.Stdin)}
}

func (a *terminalAlerter) Alert(title, message string) {
	fmt.Printf("❗️ %s: %s\n", title, message)
}

func (a *terminalAlerter) Confirm(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	line, err := a.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
