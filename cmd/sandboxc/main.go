// Command sandboxc builds preview documents from project directories and
// scaffolds starter projects.
//
// Usage:
//
//	sandboxc build --framework react ./project -o preview.html
//	sandboxc build -f vue ./project --remote http://localhost:8000
//	sandboxc init --framework vue ./my-app
//	sandboxc templates
package main

import (
	"github.com/alecthomas/kong"
)

// Command is the CLI grammar
type Command struct {
	Verbose   bool             `help:"Enable verbose output." short:"v"`
	Build     BuildCommand     `cmd:"build" help:"Compile a project directory into a preview document."`
	Init      InitCommand      `cmd:"init" help:"Write a starter template into a directory."`
	Templates TemplatesCommand `cmd:"templates" help:"List starter templates."`
}

func main() {
	command := new(Command)
	ctx := kong.Parse(
		command,
		kong.Name("sandboxc"),
		kong.Description("Sandbox preview compiler"),
		kong.UsageOnError(),
	)
	app, err := NewApp(command.Verbose, ctx.Stdout, ctx.Stderr)
	ctx.FatalIfErrorf(err)
	defer app.Close()

	ctx.FatalIfErrorf(ctx.Run(app))
}
