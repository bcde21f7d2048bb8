package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/subloop/internal/config"
	"github.com/hpungsan/subloop/internal/errors"
	"github.com/hpungsan/subloop/internal/loop"
	"github.com/hpungsan/subloop/internal/ops"
	"github.com/hpungsan/subloop/internal/player"
	"github.com/hpungsan/subloop/internal/transcript"
	"github.com/hpungsan/subloop/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, baseDir string) *cli.App {
	app := &cli.App{
		Name:    "subloop",
		Usage:   "Subtitle A-B loops and phrase capture",
		Version: Version,
		Commands: []*cli.Command{
			saveCmd(db),
			fetchCmd(db),
			listCmd(db),
			recentCmd(db),
			updateCmd(db),
			deleteCmd(db),
			purgeCmd(db),
			searchCmd(db),
			exportCmd(db, cfg),
			importCmd(db, cfg),
			groupCmd(db),
			clipCmd(),
			loopCmd(cfg, baseDir),
			webCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// saveCmd creates the save command.
func saveCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Save a phrase from a video transcript",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "video", Aliases: []string{"V"}, Required: true, Usage: "Video ID"},
			&cli.StringFlag{Name: "url", Usage: "Video URL"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Video title"},
			&cli.StringFlag{Name: "from", Aliases: []string{"f"}, Required: true, Usage: "Start timestamp (e.g. 1:02 or 62)"},
			&cli.StringFlag{Name: "to", Required: true, Usage: "End timestamp (e.g. 1:07 or 67)"},
			&cli.StringFlag{Name: "text", Usage: "Transcript text (or pipe via stdin)"},
			&cli.StringFlag{Name: "note", Aliases: []string{"n"}, Usage: "Markdown note"},
			&cli.StringFlag{Name: "group", Aliases: []string{"g"}, Usage: "Group name"},
			&cli.BoolFlag{Name: "create-group", Usage: "Create the group if it does not exist"},
		},
		Action: func(c *cli.Context) error {
			text := c.String("text")
			if text == "" && stdinHasData() {
				stdin, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				text = stdin
			}

			input := ops.SaveInput{
				VideoID:            c.String("video"),
				Start:              transcript.ParseTimestamp(c.String("from")),
				End:                transcript.ParseTimestamp(c.String("to")),
				Text:               text,
				CreateMissingGroup: c.Bool("create-group"),
			}

			if url := c.String("url"); url != "" {
				input.VideoURL = &url
			}
			if title := c.String("title"); title != "" {
				input.VideoTitle = &title
			}
			if note := c.String("note"); note != "" {
				input.Note = &note
			}
			if group := c.String("group"); group != "" {
				input.Group = &group
			}

			output, err := ops.Save(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a phrase by ID",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted phrases"},
		},
		Action: func(c *cli.Context) error {
			input := ops.FetchInput{
				ID:             c.Args().First(),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			output, err := ops.Fetch(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List saved phrases",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "video", Aliases: []string{"V"}, Usage: "Filter by video ID"},
			&cli.StringFlag{Name: "group", Aliases: []string{"g"}, Usage: "Filter by group name"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted phrases"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListInput{
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			if video := c.String("video"); video != "" {
				input.VideoID = &video
			}
			if group := c.String("group"); group != "" {
				input.Group = &group
			}

			output, err := ops.List(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// recentCmd creates the recent command.
func recentCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "Show the most recently updated phrases",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 10, Usage: "Maximum items to return"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Recent(c.Context, db, ops.RecentInput{
				Limit: c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update an existing phrase",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Aliases: []string{"f"}, Usage: "New start timestamp"},
			&cli.StringFlag{Name: "to", Usage: "New end timestamp"},
			&cli.StringFlag{Name: "text", Usage: "New transcript text"},
			&cli.StringFlag{Name: "note", Aliases: []string{"n"}, Usage: "New note (empty clears)"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New video title"},
			&cli.StringFlag{Name: "group", Aliases: []string{"g"}, Usage: "New group name (empty detaches)"},
			&cli.BoolFlag{Name: "create-group", Usage: "Create the group if it does not exist"},
		},
		Action: func(c *cli.Context) error {
			input := ops.UpdateInput{
				ID:                 c.Args().First(),
				CreateMissingGroup: c.Bool("create-group"),
			}

			if c.IsSet("from") {
				start := transcript.ParseTimestamp(c.String("from"))
				input.Start = &start
			}
			if c.IsSet("to") {
				end := transcript.ParseTimestamp(c.String("to"))
				input.End = &end
			}
			if c.IsSet("text") {
				text := c.String("text")
				input.Text = &text
			}
			if c.IsSet("note") {
				note := c.String("note")
				input.Note = &note
			}
			if c.IsSet("title") {
				title := c.String("title")
				input.VideoTitle = &title
			}
			if c.IsSet("group") {
				group := c.String("group")
				input.Group = &group
			}

			output, err := ops.Update(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete a phrase",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(c.Context, db, ops.DeleteInput{
				ID: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted phrases",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted more than N days ago (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}

			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = &days
			}

			output, err := ops.Purge(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search phrase text and notes",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "video", Aliases: []string{"V"}, Usage: "Filter by video ID"},
			&cli.StringFlag{Name: "group", Aliases: []string{"g"}, Usage: "Filter by group name"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted phrases"},
		},
		Action: func(c *cli.Context) error {
			input := ops.SearchInput{
				Query:          strings.Join(c.Args().Slice(), " "),
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			if video := c.String("video"); video != "" {
				input.VideoID = &video
			}
			if group := c.String("group"); group != "" {
				input.Group = &group
			}

			output, err := ops.Search(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export phrases to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.subloop/exports/<group>-<timestamp>.jsonl)"},
			&cli.StringFlag{Name: "group", Aliases: []string{"g"}, Usage: "Filter by group name"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted phrases"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportInput{
				Path:           c.String("path"),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			if group := c.String("group"); group != "" {
				input.Group = &group
			}

			output, err := ops.Export(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import phrases from a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace|rename"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			}

			output, err := ops.Import(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// groupCmd creates the group command with its subcommands.
func groupCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "group",
		Usage: "Manage phrase groups",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a new group",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					output, err := ops.CreateGroup(c.Context, db, ops.CreateGroupInput{
						Name: c.Args().First(),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List groups with phrase counts",
				Action: func(c *cli.Context) error {
					output, err := ops.ListGroups(c.Context, db)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "rename",
				Usage:     "Rename a group",
				ArgsUsage: "<name> <new-name>",
				Action: func(c *cli.Context) error {
					output, err := ops.RenameGroup(c.Context, db, ops.RenameGroupInput{
						Name:    c.Args().Get(0),
						NewName: c.Args().Get(1),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a group (phrases are detached, not deleted)",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					output, err := ops.DeleteGroup(c.Context, db, ops.DeleteGroupInput{
						Name: c.Args().First(),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// clipCmd creates the clip command.
func clipCmd() *cli.Command {
	return &cli.Command{
		Name:  "clip",
		Usage: "Extract transcript text for a time range",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "transcript", Aliases: []string{"T"}, Required: true, Usage: "Subtitle file (.srt or .xml)"},
			&cli.StringFlag{Name: "from", Aliases: []string{"f"}, Required: true, Usage: "Start timestamp (e.g. 1:23)"},
			&cli.StringFlag{Name: "to", Required: true, Usage: "End timestamp (e.g. 1:45)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Clip(ops.ClipInput{
				TranscriptPath: c.String("transcript"),
				Start:          c.String("from"),
				End:            c.String("to"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// loopCmd creates the loop command. It arms an A-B loop against a running
// mpv instance and polls until interrupted.
func loopCmd(cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "loop",
		Usage:     "Loop mpv playback between two timestamps (Ctrl-C to stop)",
		ArgsUsage: "<start> <end>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "socket", Aliases: []string{"s"}, Usage: "mpv IPC socket path (mpv --input-ipc-server=...)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("loop requires <start> and <end> timestamps"))
			}

			a := transcript.ParseTimestamp(c.Args().Get(0))
			b := transcript.ParseTimestamp(c.Args().Get(1))
			if a == b {
				return outputError(errors.NewInvalidRequest("start and end must differ"))
			}

			socket := c.String("socket")
			if socket == "" {
				socket = cfg.DefaultMPVSocket(baseDir)
			}

			mpv, err := player.Connect(socket)
			if err != nil {
				return outputError(errors.NewPlayerUnavailable(socket, err))
			}
			defer mpv.Close()

			interval := time.Duration(cfg.PollIntervalMs) * time.Millisecond
			ctrl := loop.New(mpv, interval)
			ctrl.OnChange(func(s loop.State) {
				if s.Active {
					fmt.Fprintf(os.Stderr, "loop armed: %s-%s\n",
						transcript.FormatTimestamp(*s.Start), transcript.FormatTimestamp(*s.End))
				} else {
					fmt.Fprintln(os.Stderr, "loop cleared")
				}
			})
			ctrl.SetLoop(a, b)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			ctrl.Destroy()
			return nil
		},
	}
}

// webCmd creates the web command.
func webCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start the local web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8686, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if sErr, ok := err.(*errors.SubloopError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}
