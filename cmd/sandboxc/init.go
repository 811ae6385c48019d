package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/GriffinCanCode/Sandbox/backend/internal/domain/templates"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
	"github.com/GriffinCanCode/Sandbox/backend/internal/workspace"
)

// InitCommand writes a starter template
type InitCommand struct {
	Framework string `help:"Framework of the default template." short:"f" enum:"vanilla,react,vue,svelte" default:"vanilla"`
	Template  string `help:"Template id, overriding --framework." short:"t"`
	Dir       string `arg:"" help:"Target directory."`
	Force     bool   `help:"Write into a non-empty directory."`
}

// Run executes init
func (r *InitCommand) Run(app *App) error {
	catalog, err := templates.Load()
	if err != nil {
		return err
	}

	tmpl, err := r.pick(catalog)
	if err != nil {
		return err
	}

	if !r.Force {
		entries, err := os.ReadDir(r.Dir)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		if len(entries) > 0 {
			return fmt.Errorf("%s is not empty (use --force)", r.Dir)
		}
	}

	if err := workspace.Write(r.Dir, tmpl.Files); err != nil {
		return err
	}
	fmt.Fprintf(app.Stderr, "created %s from %s (%d files)\n", r.Dir, tmpl.ID, tmpl.Files.Len())
	fmt.Fprintf(app.Stderr, "build it with: sandboxc build -f %s %s\n", tmpl.Framework, r.Dir)
	return nil
}

func (r *InitCommand) pick(catalog *templates.Catalog) (templates.Template, error) {
	if r.Template != "" {
		tmpl, ok := catalog.Get(r.Template)
		if !ok {
			return templates.Template{}, fmt.Errorf("unknown template %q", r.Template)
		}
		return tmpl, nil
	}
	fw, err := types.ParseFramework(r.Framework)
	if err != nil {
		return templates.Template{}, err
	}
	return catalog.ForFramework(fw), nil
}

// TemplatesCommand lists the catalog
type TemplatesCommand struct {
	Framework string `help:"Only list templates for this framework." short:"f"`
}

// Run prints the template table
func (r *TemplatesCommand) Run(app *App) error {
	catalog, err := templates.Load()
	if err != nil {
		return err
	}

	var fw types.Framework
	if r.Framework != "" {
		if fw, err = types.ParseFramework(r.Framework); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(app.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFRAMEWORK\tDEFAULT\tDESCRIPTION")
	for _, s := range catalog.List(fw) {
		def := ""
		if s.Default {
			def = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Framework, def, s.Description)
	}
	return w.Flush()
}
