package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Command is one parsed `<tdz>` meta-tag body: a command name, an optional
// target, positional parameters, and key=value options.
type Command struct {
	Name       string
	Target     string
	Positional []string
	Options    map[string]string
}

// ParseCommand parses a `<tdz>` body of the form
// "command;target;pos1,pos2;key1=val1,key2=val2" (fields beyond the first
// two are optional, matching the family's documented minimum arity of 2).
func ParseCommand(body string) (Command, error) {
	fields := strings.Split(body, ";")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < 2 || fields[0] == "" {
		return Command{}, fmt.Errorf("tdz meta-tag requires at least command;target")
	}
	cmd := Command{Name: fields[0], Target: fields[1], Options: make(map[string]string)}
	if len(fields) > 2 && fields[2] != "" {
		cmd.Positional = splitCommaList(fields[2])
	}
	if len(fields) > 3 && fields[3] != "" {
		for _, pair := range splitCommaList(fields[3]) {
			k, v, ok := strings.Cut(pair, "=")
			if ok {
				cmd.Options[strings.TrimSpace(k)] = strings.TrimSpace(v)
			}
		}
	}
	return cmd, nil
}

func splitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Dispatcher posts a parsed Command to a local HTTP endpoint, the
// mechanism agents use to operate the system conversationally.
type Dispatcher struct {
	BaseURL string
	Client  *http.Client
}

func NewDispatcher(baseURL string) *Dispatcher {
	return &Dispatcher{BaseURL: baseURL, Client: &http.Client{Timeout: 30 * time.Second}}
}

// Dispatch POSTs the command to BaseURL + "/tdz/" + command.Name as a JSON
// body of {target, positional, options}, returning the raw response body.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) ([]byte, error) {
	payload, err := json.Marshal(map[string]any{
		"target":     cmd.Target,
		"positional": cmd.Positional,
		"options":    cmd.Options,
	})
	if err != nil {
		return nil, fmt.Errorf("encode tdz command: %w", err)
	}
	url := strings.TrimRight(d.BaseURL, "/") + "/tdz/" + cmd.Name
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build tdz request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tdz dispatch request: %w", err)
	}
	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return buf.Bytes(), fmt.Errorf("tdz dispatch returned status %d", resp.StatusCode)
	}
	return buf.Bytes(), nil
}
