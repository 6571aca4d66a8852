//go:build !tinygo

// Command mkprofile compiles a YAML keyboard profile into a Go source file, so
// firmware builds carry the validated tables without parsing YAML on the
// device.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"text/template"

	"displaywriter/beamspring/matrix"
	"displaywriter/internal/config"
)

const (
	defaultOutPath = "profile_custom.go"
	defaultPackage = "main"
	defaultFunc    = "firmwareProfile"
	defaultTags    = "tinygo && customprofile"
)

var profileTemplate = template.Must(template.New("profile").Parse(`// Code generated by mkprofile from {{.Source}}; DO NOT EDIT.

//go:build {{.Tags}}

package {{.Package}}

import "displaywriter/beamspring/matrix"

func {{.Func}}() matrix.Config {
	return matrix.Config{
		Name:          {{printf "%q" .Cfg.Name}},
		Rows:          {{.Cfg.Rows}},
		Columns:       {{.Cfg.Columns}},
		DebounceDepth: {{.Cfg.DebounceDepth}},
		Default:       matrix.Threshold{Base: {{.Cfg.Default.Base}}, Increase: {{.Cfg.Default.Increase}}},
		Missing:       []matrix.KeyIndex{ {{- range $i, $k := .Cfg.Missing}}{{if $i}}, {{end}}{{$k}}{{end -}} },
		Overrides: []matrix.Override{
{{- range .Cfg.Overrides}}
			{Key: {{.Key}}, Threshold: matrix.Threshold{Base: {{.Base}}, Increase: {{.Increase}}}},
{{- end}}
		},
	}
}
`))

type profileData struct {
	Source  string
	Tags    string
	Package string
	Func    string
	Cfg     matrix.Config
}

func main() {
	var inPath string
	var outPath string
	var pkg string
	var fn string
	var tags string
	flag.StringVar(&inPath, "in", "", "YAML profile or config file.")
	flag.StringVar(&outPath, "out", defaultOutPath, "Output Go file.")
	flag.StringVar(&pkg, "pkg", defaultPackage, "Package of the generated file.")
	flag.StringVar(&fn, "func", defaultFunc, "Name of the generated function.")
	flag.StringVar(&tags, "tags", defaultTags, "Build constraint of the generated file.")
	flag.Parse()

	if inPath == "" {
		fmt.Fprintln(os.Stderr, "error: -in is required")
		os.Exit(2)
	}
	if outPath == "" {
		fmt.Fprintln(os.Stderr, "error: -out is required")
		os.Exit(2)
	}

	if err := run(inPath, outPath, profileData{Tags: tags, Package: pkg, Func: fn}); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string, d profileData) error {
	cfg, err := config.Load(inPath)
	if err != nil {
		return fmt.Errorf("load %q: %w", inPath, err)
	}
	d.Source = filepath.Base(inPath)
	d.Cfg = cfg.Matrix

	src, err := render(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, src, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", outPath, err)
	}
	fmt.Printf("%s: %s %dx%d, %d missing, %d overrides\n",
		outPath, d.Cfg.Name, d.Cfg.Rows, d.Cfg.Columns, len(d.Cfg.Missing), len(d.Cfg.Overrides))
	return nil
}

// render validates d.Cfg and returns the formatted Go source.
func render(d profileData) ([]byte, error) {
	if _, err := matrix.NewLayout(d.Cfg); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := profileTemplate.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("render profile: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format profile: %w", err)
	}
	return src, nil
}
