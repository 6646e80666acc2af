package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imaginarium/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect stored inventions",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored inventions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			return err
		}
		defer a.Close()
		records, err := a.List()
		if err != nil {
			return err
		}
		for _, r := range records {
			fmt.Printf("%s  %s  %s (%d individuals)\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Root, r.Count)
		}
		if len(records) == 0 {
			fmt.Println("archive is empty")
		}
		return nil
	},
}

var archiveShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a stored invention's descriptions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			return err
		}
		defer a.Close()
		record, individuals, err := a.Show(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d %s\n", record.ID, record.Count, record.Root)
		for _, ind := range individuals {
			if ind.Description != "" {
				fmt.Println(ind.Description)
			}
		}
		return nil
	},
}

func init() {
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)
}
