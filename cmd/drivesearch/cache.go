package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	refreshFolder    string
	invalidateFolder string
	invalidateAll    bool
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the cached folder tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.Close()

		ids, err := a.svc.Refresh(cmd.Context(), refreshFolder)
		if err != nil {
			return err
		}
		fmt.Printf("cached %d folders\n", len(ids))
		return nil
	},
}

var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Mark cached folder trees stale",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if invalidateAll == (invalidateFolder != "") {
			return errors.New("exactly one of --folder or --all is required")
		}

		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.svc.Invalidate(cmd.Context(), invalidateFolder, invalidateAll); err != nil {
			return err
		}
		if invalidateAll {
			fmt.Println("invalidated all cached folders")
		} else {
			fmt.Printf("invalidated %s\n", invalidateFolder)
		}
		return nil
	},
}

var synonymsCmd = &cobra.Command{
	Use:   "synonyms <word>",
	Short: "Show the variants a keyword expands to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		for _, s := range a.svc.Synonyms(cmd.Context(), args[0]) {
			fmt.Println(s)
		}
		fmt.Fprintf(os.Stderr, "condition: %s\n", a.svc.Compose(cmd.Context(), args[0]))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		status, err := a.svc.Status(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	},
}

func init() {
	refreshCmd.Flags().StringVar(&refreshFolder, "folder", "", "root folder ID (default: configured root)")

	invalidateCmd.Flags().StringVar(&invalidateFolder, "folder", "", "folder ID to invalidate")
	invalidateCmd.Flags().BoolVar(&invalidateAll, "all", false, "invalidate every cached folder")
}
