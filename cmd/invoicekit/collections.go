package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
)

const listTime = "2006-01-02 15:04"

func requireID(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one ID")
	}
	return c.Args().First(), nil
}

func draftsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "drafts",
		Usage: "manage saved drafts",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list drafts, most recent first",
				Action: func(c *cli.Context) error {
					drafts, err := e.svc.Drafts(c.Context)
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tTYPE\tNUMBER\tCLIENT\tSAVED")
					for _, d := range drafts {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
							d.ID, d.DocumentType, d.Record.DocumentNumber, d.Record.ClientName, d.SavedAt.Local().Format(listTime))
					}
					return tw.Flush()
				},
			},
			{
				Name:      "delete",
				Usage:     "delete a draft",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					id, err := requireID(c)
					if err != nil {
						return err
					}
					return e.svc.DeleteDraft(c.Context, id)
				},
			},
		},
	}
}

func historyCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "inspect generated documents",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list generated documents, newest first",
				Action: func(c *cli.Context) error {
					entries, err := e.svc.History(c.Context)
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "CREATED\tTYPE\tNUMBER\tCLIENT\tTOTAL\tFILE")
					for _, h := range entries {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s %s\t%s\n",
							h.CreatedAt.Local().Format(listTime), h.DocumentType, h.DocumentNumber,
							h.ClientName, h.Total, h.Currency, h.Filename)
					}
					return tw.Flush()
				},
			},
			{
				Name:  "export",
				Usage: "export the history as an XLSX spreadsheet",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "history.xlsx"},
				},
				Action: func(c *cli.Context) error {
					b, err := e.svc.HistoryXLSX(c.Context)
					if err != nil {
						return err
					}
					if err := os.WriteFile(c.String("out"), b, 0o644); err != nil {
						return err
					}
					fmt.Fprintf(e.stdout, "%s (%d bytes)\n", c.String("out"), len(b))
					return nil
				},
			},
			{
				Name:  "clear",
				Usage: "remove every history entry",
				Action: func(c *cli.Context) error {
					return e.svc.ClearHistory(c.Context)
				},
			},
		},
	}
}

func templatesCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "manage client templates",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list client templates",
				Action: func(c *cli.Context) error {
					tpls, err := e.svc.ClientTemplates(c.Context)
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tNAME\tCLIENT")
					for _, t := range tpls {
						fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.Name, t.ClientName)
					}
					return tw.Flush()
				},
			},
			{
				Name:      "delete",
				Usage:     "delete a client template",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					id, err := requireID(c)
					if err != nil {
						return err
					}
					return e.svc.DeleteClientTemplate(c.Context, id)
				},
			},
		},
	}
}
