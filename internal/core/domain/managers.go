package domain

import (
	"path"
	"slices"
)

// buildToolFiles maps well-known files at the archive root to the tool that
// consumes them. Order is significant: matches are collected in this
// priority order.
var buildToolFiles = []struct {
	file string
	tool string
}{
	{"mix.exs", "mix"},
	{"rebar.config", "rebar"},
	{"rebar", "rebar"},
	{"Makefile", "make"},
	{"Makefile.win", "make"},
}

// InferManagers determines the build tools for an unpacked package. When the
// package metadata declares build_tools (even an empty list) that list wins,
// deduplicated in declaration order. Otherwise the archive's root-level
// files are matched against the known build tool files.
func InferManagers(meta PackageMeta) []string {
	if meta.BuildTools != nil {
		return dedupe(meta.BuildTools)
	}

	root := make(map[string]bool, len(meta.Files))
	for _, file := range meta.Files {
		if path.Dir(file) == "." {
			root[file] = true
		}
	}

	var tools []string
	for _, bt := range buildToolFiles {
		if root[bt.file] && !slices.Contains(tools, bt.tool) {
			tools = append(tools, bt.tool)
		}
	}
	return tools
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
