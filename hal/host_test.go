//go:build !tinygo

package hal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestRunHeadlessTickLimit(t *testing.T) {
	var out bytes.Buffer
	steps := 0
	err := RunHeadless(context.Background(), HostConfig{Rows: 2, Columns: 3, Out: &out}, func(h *Sim) (func() error, error) {
		return func() error {
			steps++
			_, err := h.Serial().Write([]byte("x"))
			return err
		}, nil
	}, HeadlessConfig{Enabled: true, Hz: 1000, Ticks: 5, StepBudget: 2})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if steps != 10 {
		t.Fatalf("steps = %d, want 10", steps)
	}
	if out.String() != "xxxxxxxxxx" {
		t.Fatalf("out = %q", out.String())
	}
}

func TestRunHeadlessEOFStops(t *testing.T) {
	steps := 0
	err := RunHeadless(context.Background(), HostConfig{Rows: 1, Columns: 1, Out: io.Discard}, func(*Sim) (func() error, error) {
		return func() error {
			steps++
			if steps == 3 {
				return io.EOF
			}
			return nil
		}, nil
	}, HeadlessConfig{Hz: 1000})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if steps != 3 {
		t.Fatalf("steps = %d, want 3", steps)
	}
}

func TestRunHeadlessErrors(t *testing.T) {
	boom := errors.New("boom")
	err := RunHeadless(context.Background(), HostConfig{Rows: 1, Columns: 1, Out: io.Discard}, func(*Sim) (func() error, error) {
		return func() error { return boom }, nil
	}, HeadlessConfig{Hz: 1000})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	err = RunHeadless(context.Background(), HostConfig{Rows: 0, Columns: 1}, func(*Sim) (func() error, error) {
		t.Fatal("app built for invalid matrix")
		return nil, nil
	}, HeadlessConfig{})
	if err == nil {
		t.Fatal("RunHeadless accepted a 0-row matrix")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = RunHeadless(ctx, HostConfig{Rows: 1, Columns: 1, Out: io.Discard}, func(*Sim) (func() error, error) {
		return nil, nil
	}, HeadlessConfig{Hz: 10})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestOpenOutput(t *testing.T) {
	w, err := OpenOutput("-")
	if err != nil {
		t.Fatalf("OpenOutput(-): %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close stdout: %v", err)
	}

	path := filepath.Join(t.TempDir(), "stream.txt")
	w, err = OpenOutput(path)
	if err != nil {
		t.Fatalf("OpenOutput: %v", err)
	}
	if _, err := w.Write([]byte("37,1\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Close()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "37,1\n" {
		t.Fatalf("file = %q", data)
	}

	if _, err := OpenOutput(filepath.Join(t.TempDir(), "missing", "x")); err == nil {
		t.Fatal("OpenOutput into a missing directory succeeded")
	}
}
