// Command cli is an operator tool for the transfer service HTTP API.
//
// Usage:
//
//	cli transfer <login> <to_login> <amount> <from_currency> [to_currency]
//	cli cash <login> <deposit|withdraw> <amount> <currency>
//	cli dead-letters [limit]
//	cli health
//
// BANK_API_URL selects the server (default http://localhost:8085). The bearer
// token is read from BANK_TOKEN, or prompted for when stdin is a terminal.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Getenv))
}

func run(args []string, out io.Writer, getenv func(string) string) int {
	if len(args) < 1 {
		usage(out)
		return 2
	}

	baseURL := strings.TrimRight(getenv("BANK_API_URL"), "/")
	if baseURL == "" {
		baseURL = "http://localhost:8085"
	}
	c := &client{
		baseURL: baseURL,
		token:   getenv("BANK_TOKEN"),
		http:    &http.Client{Timeout: 30 * time.Second},
		out:     out,
	}

	switch args[0] {
	case "transfer":
		if len(args) < 5 {
			fmt.Fprintln(out, "Usage: transfer <login> <to_login> <amount> <from_currency> [to_currency]")
			return 2
		}
		to := args[4]
		if len(args) > 5 {
			to = args[5]
		}
		c.promptToken()
		return c.transfer(args[1], args[2], args[3], args[4], to)
	case "cash":
		if len(args) < 5 {
			fmt.Fprintln(out, "Usage: cash <login> <deposit|withdraw> <amount> <currency>")
			return 2
		}
		c.promptToken()
		return c.cash(args[1], args[2], args[3], args[4])
	case "dead-letters":
		limit := "100"
		if len(args) > 1 {
			limit = args[1]
		}
		return c.deadLetters(limit)
	case "health":
		return c.health()
	default:
		color.New(color.FgRed).Fprintln(out, "Unknown command:", args[0])
		usage(out)
		return 2
	}
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "Usage: cli <command> [arguments]")
	fmt.Fprintln(out, "Commands: transfer <login> <to_login> <amount> <from_currency> [to_currency], cash <login> <deposit|withdraw> <amount> <currency>, dead-letters [limit], health")
}

func (c *client) promptToken() {
	if c.token != "" || !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}
	fmt.Fprint(c.out, "Bearer token (empty for none): ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(c.out)
	if err != nil {
		color.New(color.FgYellow).Fprintln(c.out, "Could not read token:", err)
		return
	}
	c.token = strings.TrimSpace(string(raw))
}
