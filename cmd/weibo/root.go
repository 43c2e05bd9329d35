package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/anatolykoptev/go-weibo"
	"github.com/spf13/cobra"
)

type clientFactory func() (*weibo.Client, error)

func newRootCmd(newClient clientFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "weibo",
		Short:        "weibo extracts public data from m.weibo.cn as JSON.",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		newSearchUsersCmd(newClient),
		newProfileCmd(newClient),
		newFeedsCmd(newClient),
		newHotSearchCmd(newClient),
		newSearchContentCmd(newClient),
	)
	return rootCmd
}

func newSearchUsersCmd(newClient clientFactory) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search-users <keyword>",
		Short: "Search users by keyword.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), client.SearchUsers(cmd.Context(), args[0], limit))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of users")
	return cmd
}

func newProfileCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <uid>",
		Short: "Get a user's profile.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseUID(args[0])
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), client.GetProfile(cmd.Context(), uid))
		},
	}
}

func newFeedsCmd(newClient clientFactory) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "feeds <uid>",
		Short: "Get a user's latest posts.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseUID(args[0])
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), client.GetFeeds(cmd.Context(), uid, limit))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of feed entries")
	return cmd
}

func newHotSearchCmd(newClient clientFactory) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "hot-search",
		Short: "Get the realtime hot search list.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), client.GetHotSearch(cmd.Context(), limit))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum number of entries")
	return cmd
}

func newSearchContentCmd(newClient clientFactory) *cobra.Command {
	var limit, page int
	cmd := &cobra.Command{
		Use:   "search-content <keyword>",
		Short: "Search posts by keyword.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), client.SearchContent(cmd.Context(), args[0], limit, page))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of posts")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "first result page")
	return cmd
}

func parseUID(s string) (int64, error) {
	uid, err := strconv.ParseInt(s, 10, 64)
	if err != nil || uid <= 0 {
		return 0, fmt.Errorf("invalid uid %q", s)
	}
	return uid, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
