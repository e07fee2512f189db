// jjtpl renders commit templates against a repo fixture.
//
//	jjtpl render --repo repo.json --template '...' [--color|--html]
//	jjtpl check --template '...'
//	jjtpl repl --repo repo.json
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"

	jj "github.com/jaraco/jj"
)

const (
	appName     = "jjtpl"
	historyFile = ".jjtpl_history"
	prompt      = "tpl> "
)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	app := &cli.App{
		Name:  appName,
		Usage: "build and render commit templates",
		Commands: []*cli.Command{
			renderCommand(),
			checkCommand(),
			replCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		os.Exit(1)
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "render a template against every commit in a fixture",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "repo", Usage: "repo fixture (JSON)", Required: true},
			&cli.StringFlag{Name: "template", Aliases: []string{"T"}, Usage: "template text", Required: true},
			&cli.StringFlag{Name: "workspace", Value: string(jj.DefaultWorkspaceID), Usage: "workspace id"},
			&cli.BoolFlag{Name: "color", Usage: "ANSI color output"},
			&cli.BoolFlag{Name: "html", Usage: "HTML output"},
		},
		Action: func(c *cli.Context) error {
			repo, commits, err := loadFixture(c.String("repo"))
			if err != nil {
				return err
			}
			tmpl, err := jj.Build(repo, jj.WorkspaceID(c.String("workspace")), c.String("template"))
			if err != nil {
				return err
			}
			for _, commit := range commits {
				if c.Bool("html") {
					f := jj.NewHTMLFormatter()
					if err := tmpl.Format(commit, f); err != nil {
						return err
					}
					if err := f.Render(os.Stdout); err != nil {
						return err
					}
				} else {
					var f jj.Formatter = jj.NewPlainTextFormatter(os.Stdout)
					if c.Bool("color") {
						f = jj.NewColorFormatter(os.Stdout)
					}
					if err := tmpl.Format(commit, f); err != nil {
						return err
					}
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "build a template and report construction errors",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "template", Aliases: []string{"T"}, Usage: "template text", Required: true},
		},
		Action: func(c *cli.Context) error {
			_, err := jj.Build(jj.NewRepoSnapshot(), jj.DefaultWorkspaceID, c.String("template"))
			if err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func replCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "interactively render templates against a fixture",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "repo", Usage: "repo fixture (JSON)", Required: true},
			&cli.StringFlag{Name: "workspace", Value: string(jj.DefaultWorkspaceID), Usage: "workspace id"},
		},
		Action: func(c *cli.Context) error {
			repo, commits, err := loadFixture(c.String("repo"))
			if err != nil {
				return err
			}
			return repl(repo, commits, jj.WorkspaceID(c.String("workspace")))
		},
	}
}

func repl(repo jj.Repo, commits []*jj.Commit, workspaceID jj.WorkspaceID) error {
	fmt.Println("Template REPL. Each line is a template; Ctrl+C cancels input, Ctrl+D exits. Type :quit to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt(prompt)
		if err != nil {
			// liner.ErrPromptAborted on Ctrl+C, io.EOF on Ctrl+D.
			if err == liner.ErrPromptAborted {
				continue
			}
			fmt.Println()
			return nil
		}
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		if text == ":quit" {
			return nil
		}

		tmpl, err := jj.Build(repo, workspaceID, line)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		for _, commit := range commits {
			f := jj.NewColorFormatter(os.Stdout)
			if err := tmpl.Format(commit, f); err != nil {
				fmt.Fprintln(os.Stderr, red(err.Error()))
				break
			}
			fmt.Println()
		}
		ln.AppendHistory(line)
	}
}
