package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"menu-scraper/tree"
)

// Stage names one step of the pipeline
type Stage string

const (
	StageDiscover Stage = "discover"
	StageRender   Stage = "render"
	StageResolve  Stage = "resolve"
	StageCalories Stage = "calories"
	StageToday    Stage = "today"
	StageAll      Stage = "all"
)

// Stages lists the file-to-file stages in the order "all" runs them
var Stages = []Stage{StageDiscover, StageRender, StageResolve, StageCalories}

// ParseStage validates a stage name
func ParseStage(name string) (Stage, error) {
	s := Stage(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case StageDiscover, StageRender, StageResolve, StageCalories, StageToday, StageAll:
		return s, nil
	}
	return "", fmt.Errorf("unknown stage %q (want discover, render, resolve, calories, today or all)", name)
}

// Files returns the default input and output file of a stage
func (p *Pipeline) Files(s Stage) (in, out string) {
	f := p.cfg.Files
	switch s {
	case StageDiscover:
		return "", f.Links
	case StageRender:
		return f.Links, f.Rendered
	case StageResolve:
		return f.Rendered, f.Resolved
	case StageCalories, StageAll:
		return f.Resolved, f.Output
	}
	return "", ""
}

// Run executes one file-to-file stage. The output file is only written when
// the stage completes; a cancelled stage leaves it untouched.
func (p *Pipeline) Run(ctx context.Context, s Stage, in, out string) (tree.Node, error) {
	defIn, defOut := p.Files(s)
	if in == "" {
		in = defIn
	}
	if out == "" {
		out = defOut
	}

	var (
		root tree.Node
		err  error
	)
	if s == StageDiscover {
		root, err = p.Discover(ctx, in)
	} else {
		root, err = tree.ReadFile(in)
		if err != nil {
			return nil, err
		}
		root, err = p.annotateStage(ctx, s, root)
	}
	if err != nil {
		return root, fmt.Errorf("%s stage failed: %w", s, err)
	}

	if err := tree.WriteFile(out, root); err != nil {
		return root, err
	}
	log.Printf("Stage %s wrote %s\n", s, out)
	return root, nil
}

// RunAll executes every file-to-file stage, each writing its default file
func (p *Pipeline) RunAll(ctx context.Context, siteURL string) (tree.Node, error) {
	var root tree.Node
	for _, s := range Stages {
		in := ""
		if s == StageDiscover {
			in = siteURL
		}

		var err error
		root, err = p.Run(ctx, s, in, "")
		if err != nil {
			return root, err
		}
	}
	return root, nil
}

func (p *Pipeline) annotateStage(ctx context.Context, s Stage, root tree.Node) (tree.Node, error) {
	switch s {
	case StageRender:
		return p.Render(ctx, root)
	case StageResolve:
		return p.Resolve(ctx, root)
	case StageCalories:
		return p.Calories(ctx, root)
	}
	return root, fmt.Errorf("stage %q does not transform a tree", s)
}
