package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/drivesearch-mcp/internal/service"
)

var (
	searchFolder  string
	searchRefresh bool
	searchJSON    bool
	folderFlag    string
	listCached    bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the folder tree for documents matching every keyword",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.svc.Search(cmd.Context(), service.SearchRequest{
			Query:        strings.Join(args, " "),
			FolderID:     searchFolder,
			ForceRefresh: searchRefresh,
		})
		if err != nil {
			return err
		}

		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		fmt.Printf("%d results in %d folders (%s)\n", len(result.Hits), result.FoldersSearched, result.Duration)
		for _, hit := range result.Hits {
			fmt.Printf("  %s\t%s\n", hit.Name, hit.Link)
		}
		if result.FailedFolders > 0 || result.FailedChunks > 0 {
			fmt.Printf("warning: %d folders and %d batches could not be searched\n",
				result.FailedFolders, result.FailedChunks)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the direct children of a folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), !listCached)
		if err != nil {
			return err
		}
		defer a.Close()

		if listCached {
			children, err := a.svc.CachedChildren(cmd.Context(), folderFlag)
			if err != nil {
				return err
			}
			for _, c := range children {
				fmt.Printf("dir\t%s\t%s\n", c.ID, c.Path)
			}
			return nil
		}

		items, err := a.svc.Browse(cmd.Context(), folderFlag)
		if err != nil {
			return err
		}
		for _, item := range items {
			kind := "file"
			if item.IsFolder() {
				kind = "dir"
			}
			fmt.Printf("%s\t%s\t%s\n", kind, item.ID, item.Name)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchFolder, "folder", "", "root folder ID (default: configured root)")
	searchCmd.Flags().BoolVar(&searchRefresh, "refresh", false, "rebuild the folder cache first")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the result as JSON")

	listCmd.Flags().StringVar(&folderFlag, "folder", "", "folder ID (default: configured root)")
	listCmd.Flags().BoolVar(&listCached, "cached", false, "list cached child folders without contacting Drive")
}
