package admincli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

type CopyStaticOptions struct {
	Source      string
	Destination string
}

const containerStaticDir = "/static"

var errNoSource = errors.New("you should provide the source directory")

func findStaticDir() (string, error) {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return containerStaticDir, nil
	}
	return "", errNoSource
}

func NewCopyStaticCommand() *cobra.Command {
	var options CopyStaticOptions

	cmd := &cobra.Command{
		Use:   "copy-static",
		Short: "Copy the built web client into the static directory served by the portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Source == "" {
				src, err := findStaticDir()
				if err != nil {
					return err
				}
				options.Source = src
			}
			if options.Destination == "" {
				return errors.New("you should provide the destination directory")
			}

			return RunCopyStatic(options)
		},
	}

	flags := cmd.Flags()

	flags.StringVarP(&options.Source, "src", "s", "", "Source directory")
	flags.StringVarP(&options.Destination, "dst", "d", "", "Destination directory")

	return cmd
}

func RunCopyStatic(options CopyStaticOptions) error {
	err := filepath.WalkDir(options.Source, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(options.Source, path)
		if err != nil {
			return err
		}
		destPath := filepath.Join(options.Destination, relPath)

		info, err := entry.Info()
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return os.MkdirAll(destPath, info.Mode().Perm()|0o700)
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		return copyFile(path, destPath, info.Mode().Perm())
	})
	if err != nil {
		return fmt.Errorf("failed to copy static files: %w", err)
	}

	return nil
}

func copyFile(src, dst string, perm fs.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}

	return dstFile.Close()
}
