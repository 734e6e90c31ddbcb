package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/fatih/color"
)

type client struct {
	baseURL string
	token   string
	http    *http.Client
	out     io.Writer
}

type transferResult struct {
	Success             bool     `json:"success"`
	TransferErrors      []string `json:"transferErrors"`
	TransferOtherErrors []string `json:"transferOtherErrors"`
}

type cashResult struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	errColor  = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
)

func (c *client) transfer(login, toLogin, amount, from, to string) int {
	body := map[string]any{
		"fromCurrency": strings.ToUpper(from),
		"toCurrency":   strings.ToUpper(to),
		"value":        json.Number(amount),
		"toLogin":      toLogin,
	}
	var res transferResult
	if err := c.do(http.MethodPost, "/user/"+url.PathEscape(login)+"/transfer", body, &res); err != nil {
		errColor.Fprintln(c.out, "Request failed:", err)
		return 1
	}
	if res.Success {
		okColor.Fprintf(c.out, "Transferred %s %s from %s to %s\n", amount, strings.ToUpper(from), login, toLogin)
		return 0
	}
	for _, e := range res.TransferErrors {
		errColor.Fprintln(c.out, "  "+e)
	}
	for _, e := range res.TransferOtherErrors {
		warnColor.Fprintln(c.out, "  recipient: "+e)
	}
	return 1
}

func (c *client) cash(login, action, amount, code string) int {
	body := map[string]any{
		"login":    login,
		"action":   strings.ToUpper(action),
		"value":    json.Number(amount),
		"currency": strings.ToUpper(code),
	}
	var res cashResult
	if err := c.do(http.MethodPost, "/api/v1/cash/operation", body, &res); err != nil {
		errColor.Fprintln(c.out, "Request failed:", err)
		return 1
	}
	if res.Success {
		okColor.Fprintf(c.out, "%s %s %s for %s done\n", strings.ToUpper(action), amount, strings.ToUpper(code), login)
		return 0
	}
	for _, e := range res.Errors {
		errColor.Fprintln(c.out, "  "+e)
	}
	return 1
}

func (c *client) deadLetters(limit string) int {
	var res struct {
		Data []struct {
			ID        string `json:"id"`
			Bus       string `json:"bus"`
			EventType string `json:"eventType"`
			Key       string `json:"key"`
			Error     string `json:"error"`
			FailedAt  string `json:"failedAt"`
		} `json:"data"`
	}
	if err := c.do(http.MethodGet, "/api/v1/dead-letters?limit="+url.QueryEscape(limit), nil, &res); err != nil {
		errColor.Fprintln(c.out, "Request failed:", err)
		return 1
	}
	if len(res.Data) == 0 {
		okColor.Fprintln(c.out, "No dead letters")
		return 0
	}
	for _, l := range res.Data {
		warnColor.Fprintf(c.out, "%s %s key=%s via %s\n", l.ID, l.EventType, l.Key, l.Bus)
		dimColor.Fprintf(c.out, "    %s: %s\n", l.FailedAt, l.Error)
	}
	return 0
}

func (c *client) health() int {
	if err := c.do(http.MethodGet, "/health", nil, nil); err != nil {
		errColor.Fprintln(c.out, "DOWN:", err)
		return 1
	}
	okColor.Fprintln(c.out, "UP")
	return 0
}

func (c *client) do(method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint: errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
