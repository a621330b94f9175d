package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/halcyonmedia/site-services/internal/config"
	"github.com/halcyonmedia/site-services/internal/storage"
)

func openMediaStore(cmd *cobra.Command) (*storage.MediaStore, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return storage.NewMediaStore(cmd.Context(), cfg.MinIO)
}

func newMediaCmd() *cobra.Command {
	media := &cobra.Command{
		Use:   "media",
		Short: "Manage media objects in the MinIO bucket",
	}

	put := &cobra.Command{
		Use:   "put FILE KEY",
		Short: "Upload a file under KEY",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			st, err := f.Stat()
			if err != nil {
				return err
			}
			ms, err := openMediaStore(cmd)
			if err != nil {
				return err
			}
			ct := mime.TypeByExtension(filepath.Ext(args[0]))
			if ct == "" {
				ct = "application/octet-stream"
			}
			if err := ms.Put(cmd.Context(), args[1], f, st.Size(), ct); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s (%d bytes, %s)\n", args[1], st.Size(), ct)
			return nil
		},
	}

	url := &cobra.Command{
		Use:   "url KEY",
		Short: "Print a presigned download URL for KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := openMediaStore(cmd)
			if err != nil {
				return err
			}
			u, err := ms.PresignedGet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}

	media.AddCommand(put, url)
	return media
}
