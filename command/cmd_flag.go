package command

import (
	"errors"
	"fmt"
	"github.com/hetianyi/fdfs/common"
	"github.com/urfave/cli"
	"os"
)

const logLevelUsage = `set log level, available options:
	(trace|debug|info|warn|error|fatal)`

// Parse parses command flags using `github.com/urfave/cli`
func Parse(arguments []string) {
	appFlag := newApp()

	err := appFlag.Run(arguments)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
		return
	}

	if finalCommand == CMD_SHOW_HELP {
		os.Exit(0)
	}

	call(finalCommand)
}

func newApp() *cli.App {
	appFlag := cli.NewApp()
	appFlag.Version = common.VERSION
	appFlag.HideVersion = true
	appFlag.Name = "fdfs"
	appFlag.Usage = "fdfs tracker/storage client"
	appFlag.HelpName = "fdfs"
	appFlag.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:        "version, v",
			Usage:       `show version`,
			Destination: &showVersion,
		},
		cli.StringFlag{
			Name:        "config, c",
			Value:       "",
			Usage:       "use custom config file, default is " + common.DEFAULT_CONFIG_FILE,
			Destination: &configFile,
		},
		cli.StringFlag{
			Name:        "log-level",
			Value:       "",
			Usage:       logLevelUsage,
			Destination: &logLevel,
		},
		cli.StringFlag{
			Name:  "trackers",
			Value: "",
			Usage: `set tracker servers, example:
	host1:port1,host2:port2`,
			Destination: &trackers,
		},
	}

	appFlag.Commands = []cli.Command{
		{
			Name:      "upload",
			Usage:     "upload local files",
			ArgsUsage: "<file1> <file2> ...",
			Action: func(c *cli.Context) error {
				finalCommand = CMD_UPLOAD_FILE
				if len(c.Args()) == 0 {
					return errors.New(`Err: no parameters provided.
Usage: fdfs upload <file1> <file2> ...`)
				}
				for i := range c.Args() {
					if !listContains(&uploadFiles, c.Args().Get(i)) {
						uploadFiles.PushBack(c.Args().Get(i))
					}
				}
				return nil
			},
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "group, g",
					Value:       "",
					Usage:       "upload files to specific group",
					Destination: &uploadGroup,
				},
				cli.BoolFlag{
					Name:        "no-history",
					Usage:       "do not record the uploaded files",
					Destination: &noHistory,
				},
			},
		},
		{
			Name:  "storages",
			Usage: "list storage servers a tracker offers for upload",
			Action: func(c *cli.Context) error {
				finalCommand = CMD_LIST_STORAGES
				return nil
			},
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "group, g",
					Value:       "",
					Usage:       "list storage servers of specific group",
					Destination: &queryGroup,
				},
			},
		},
		{
			Name:  "history",
			Usage: "show uploaded files",
			Action: func(c *cli.Context) error {
				finalCommand = CMD_SHOW_HISTORY
				return nil
			},
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:        "limit, n",
					Value:       20,
					Usage:       "max records to show, 0 means all",
					Destination: &historyLimit,
				},
			},
		},
		{
			Name:  "agent",
			Usage: "start http upload agent",
			Action: func(c *cli.Context) error {
				finalCommand = CMD_BOOT_AGENT
				return nil
			},
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "bind-address",
					Value:       "",
					Usage:       "bind listening address",
					Destination: &bindAddress,
				},
				cli.IntFlag{
					Name:        "port, p",
					Value:       common.DEFAULT_AGENT_PORT,
					Usage:       "agent http port",
					Destination: &port,
				},
				cli.Int64Flag{
					Name:        "max-body-size",
					Value:       0,
					Usage:       "max bytes of an uploaded file, 0 means unlimited",
					Destination: &maxBodySize,
				},
				cli.BoolFlag{
					Name:        "no-history",
					Usage:       "do not record the uploaded files",
					Destination: &noHistory,
				},
			},
		},
		{
			Name:  "test",
			Usage: "upload generated files concurrently and report the throughput",
			Action: func(c *cli.Context) error {
				finalCommand = CMD_TEST_UPLOAD
				if testScale <= 0 || testThread <= 0 {
					return errors.New("Err: scale and thread must be positive")
				}
				if testThread > testScale {
					testThread = testScale
				}
				return nil
			},
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:        "scale",
					Value:       1000,
					Usage:       "total files to upload",
					Destination: &testScale,
				},
				cli.IntFlag{
					Name:        "thread",
					Value:       5,
					Usage:       "concurrent uploaders",
					Destination: &testThread,
				},
				cli.StringFlag{
					Name:        "group, g",
					Value:       "",
					Usage:       "upload files to specific group",
					Destination: &uploadGroup,
				},
			},
		},
		{
			Name:  "config",
			Usage: "manage the config file",
			Action: func(c *cli.Context) error {
				if len(c.Args()) == 0 {
					cli.ShowSubcommandHelp(c)
				}
				return nil
			},
			Subcommands: cli.Commands{
				{
					Name:  "init",
					Usage: "write a config file holding default settings",
					Action: func(c *cli.Context) error {
						finalCommand = CMD_INIT_CONFIG
						return nil
					},
					Flags: []cli.Flag{
						cli.BoolFlag{
							Name:        "force, f",
							Usage:       "overwrite the existing config file",
							Destination: &forceInit,
						},
					},
				},
				{
					Name:  "ls",
					Usage: "show the effective settings",
					Action: func(c *cli.Context) error {
						finalCommand = CMD_SHOW_CONFIG
						return nil
					},
				},
			},
		},
	}

	cli.AppHelpTemplate = `
Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}{{if .VisibleCommands}}

Commands:{{range .VisibleCategories}}
{{if .Name}}
   {{.Name}}:{{end}}{{range .VisibleCommands}}
     {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}

Options:

   {{range $index, $option := .VisibleFlags}}{{if $index}}{{end}}{{$option}}
   {{end}}{{end}}
`

	appFlag.Action = func(c *cli.Context) error {
		if showVersion {
			cli.ShowVersion(c)
			return nil
		}
		cli.ShowAppHelp(c)
		return nil
	}
	return appFlag
}
