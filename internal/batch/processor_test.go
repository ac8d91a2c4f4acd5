package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/hightemp/countrykit/internal/countries"
	"github.com/hightemp/countrykit/internal/metadata"
)

const input = `us
# comment

FRA
de_CH
zz
WW
`

func TestProcessInput(t *testing.T) {
	p := NewProcessor(metadata.DefaultCatalog())

	var out bytes.Buffer
	if err := p.ProcessInput(context.Background(), strings.NewReader(input), &out, false); err != nil {
		t.Fatalf("ProcessInput failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	expected := []string{
		"us\tUS\tUSA\tUnited States",
		"FRA\tFR\tFRA\tFrance",
		"de_CH\tCH\tCHE\tSwitzerland",
		"zz\t-\t-\t-\tERROR: unknown country",
		"WW\tWW\tWWW\tWorldwide",
	}
	if len(lines) != len(expected) {
		t.Fatalf("Expected %d lines, got %d:\n%s", len(expected), len(lines), out.String())
	}
	for i, line := range lines {
		if line != expected[i] {
			t.Errorf("line %d = %q, expected %q", i, line, expected[i])
		}
	}
}

func TestProcessInputConcurrentKeepsOrder(t *testing.T) {
	c := metadata.DefaultCatalog()
	codes := c.Codes()

	var in strings.Builder
	for _, code := range codes {
		fmt.Fprintln(&in, strings.ToLower(code))
	}

	p := NewProcessor(c, WithConcurrency(3))
	var out bytes.Buffer
	if err := p.ProcessInputConcurrent(context.Background(), strings.NewReader(in.String()), &out, true); err != nil {
		t.Fatalf("ProcessInputConcurrent failed: %v", err)
	}

	var results []map[string]any
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if len(results) != len(codes) {
		t.Fatalf("Expected %d results, got %d", len(codes), len(results))
	}
	for i, r := range results {
		if r["code"] != codes[i] {
			t.Errorf("result %d = %v, expected %s", i, r["code"], codes[i])
		}
	}
}

func TestProcessInputEmptyJSON(t *testing.T) {
	p := NewProcessor(metadata.DefaultCatalog())
	var out bytes.Buffer
	if err := p.ProcessInput(context.Background(), strings.NewReader("\n\n"), &out, true); err != nil {
		t.Fatalf("ProcessInput failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != "[]" {
		t.Errorf("expected empty array, got %q", out.String())
	}
}

func TestProcessInputCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProcessor(metadata.DefaultCatalog())
	if err := p.ProcessInputConcurrent(ctx, strings.NewReader("US\n"), &bytes.Buffer{}, false); err == nil {
		t.Error("expected context error")
	}
}

func TestResolveUnknown(t *testing.T) {
	p := NewProcessor(metadata.DefaultCatalog(), WithConcurrency(0))
	r := p.Resolve("en")
	if r.Code != countries.UnknownCode || r.Error == "" {
		t.Errorf("unexpected result %+v", r)
	}
	if p.concurrency != 1 {
		t.Errorf("concurrency = %d, expected 1", p.concurrency)
	}
}

func TestProcessStreamsWithoutConcurrency(t *testing.T) {
	p := NewProcessor(metadata.DefaultCatalog(), WithConcurrency(1))

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	errc := make(chan error, 1)
	go func() {
		err := p.Process(context.Background(), inR, outW, false)
		outW.Close()
		errc <- err
	}()

	// The first result must arrive while the input is still open.
	go fmt.Fprintln(inW, "nz")
	lines := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(outR).ReadString('\n')
		lines <- line
	}()
	select {
	case line := <-lines:
		if !strings.HasPrefix(line, "nz\tNZ\tNZL") {
			t.Errorf("first line = %q", line)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no result before end of input")
	}

	inW.Close()
	if err := <-errc; err != nil {
		t.Fatalf("Process failed: %v", err)
	}
}

func TestProcessConcurrentKeepsOrder(t *testing.T) {
	p := NewProcessor(metadata.DefaultCatalog(), WithConcurrency(4))

	var out bytes.Buffer
	if err := p.Process(context.Background(), strings.NewReader("us\nfr\nde\n"), &out, false); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[2], "de\tDE") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
